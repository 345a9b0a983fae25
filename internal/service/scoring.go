package service

import (
	"math"
	"sensen_backend/internal/model"
	"sort"
	"strings"
)

// IsCorrect compares answers case-insensitively, ignoring surrounding
// whitespace. The rule is the same for every question type.
func IsCorrect(correctAnswer, submitted string) bool {
	return normalizeAnswer(correctAnswer) == normalizeAnswer(submitted)
}

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Percentage rounds half away from zero. A quiz without questions scores 0.
func Percentage(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) * 100 / float64(total)))
}

func Passed(score, passScore int) bool {
	return score >= passScore
}

type GradedAnswer struct {
	QuestionID uint
	UserAnswer string
	IsCorrect  bool
}

type GradeResult struct {
	Correct int
	Total   int
	Score   int
	Passed  bool
}

// Grade scores submitted answers against the questions they refer to.
// Every key of submitted must be present in questions. total is the number
// of questions the assessment has, answered or not.
func Grade(questions map[uint]model.Question, submitted map[uint]string, total, passScore int) (GradeResult, []GradedAnswer) {
	graded := make([]GradedAnswer, 0, len(submitted))
	correct := 0
	for id, answer := range submitted {
		q := questions[id]
		ok := IsCorrect(q.CorrectAnswer, answer)
		if ok {
			correct++
		}
		graded = append(graded, GradedAnswer{QuestionID: id, UserAnswer: answer, IsCorrect: ok})
	}
	sort.Slice(graded, func(i, j int) bool { return graded[i].QuestionID < graded[j].QuestionID })

	score := Percentage(correct, total)
	return GradeResult{
		Correct: correct,
		Total:   total,
		Score:   score,
		Passed:  Passed(score, passScore),
	}, graded
}
