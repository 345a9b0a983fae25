package service

import (
	"sensen_backend/internal/model"
	"testing"
)

func TestIsCorrect(t *testing.T) {
	tests := []struct {
		correct, submitted string
		want               bool
	}{
		{"A", "a", true},
		{"True", " TRUE ", true},
		{"False", "false\n", true},
		{"Use a password manager", "use a password manager", true},
		{"B", "C", false},
		{"True", "", false},
		{"", "", true},
	}
	for _, tc := range tests {
		if got := IsCorrect(tc.correct, tc.submitted); got != tc.want {
			t.Errorf("IsCorrect(%q, %q) = %v, want %v", tc.correct, tc.submitted, got, tc.want)
		}
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		correct, total, want int
	}{
		{3, 4, 75},
		{2, 3, 67},
		{1, 3, 33},
		{1, 8, 13},
		{0, 5, 0},
		{5, 5, 100},
		{0, 0, 0},
		{3, -1, 0},
	}
	for _, tc := range tests {
		if got := Percentage(tc.correct, tc.total); got != tc.want {
			t.Errorf("Percentage(%d, %d) = %d, want %d", tc.correct, tc.total, got, tc.want)
		}
	}
}

func TestPassed(t *testing.T) {
	if !Passed(70, 70) {
		t.Error("score equal to the threshold must pass")
	}
	if Passed(69, 70) {
		t.Error("score below the threshold must fail")
	}
	if !Passed(0, 0) {
		t.Error("zero threshold always passes")
	}
}

func TestGrade(t *testing.T) {
	questions := map[uint]model.Question{
		1: {CorrectAnswer: "A"},
		2: {CorrectAnswer: "True"},
		3: {CorrectAnswer: "B"},
		4: {CorrectAnswer: "False"},
	}
	submitted := map[uint]string{1: "a", 2: "TRUE", 3: "C", 4: "False"}

	result, graded := Grade(questions, submitted, 4, 70)
	if result.Correct != 3 || result.Total != 4 || result.Score != 75 || !result.Passed {
		t.Fatalf("result = %+v", result)
	}
	if len(graded) != 4 {
		t.Fatalf("graded = %d answers", len(graded))
	}
	for i, g := range graded {
		if g.QuestionID != uint(i+1) {
			t.Errorf("graded[%d] is question %d", i, g.QuestionID)
		}
		if g.IsCorrect != (g.QuestionID != 3) {
			t.Errorf("question %d correct = %v", g.QuestionID, g.IsCorrect)
		}
	}

	result, graded = Grade(questions, map[uint]string{}, 4, 70)
	if result.Score != 0 || result.Passed || len(graded) != 0 {
		t.Errorf("empty submission = %+v, %d answers", result, len(graded))
	}
}
