package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sensen_backend/internal/model"
	"sensen_backend/internal/util"
	"strings"
	"sync"
	"testing"
)

func answersFor(a *model.Assessment, values ...string) map[string]string {
	out := map[string]string{}
	for i, v := range values {
		if v == "" {
			continue
		}
		out[fmt.Sprint(a.Questions[i].ID)] = v
	}
	return out
}

func TestStartCreatesAttemptAndHidesAnswers(t *testing.T) {
	env := newTestEnv(t)
	quiz := env.phishingQuiz(t)
	user := env.user(t, "alice")

	res, err := env.svc.Start(context.Background(), user.ID, quiz.ID, false)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Created || res.AlreadyCompleted {
		t.Errorf("created=%v alreadyCompleted=%v", res.Created, res.AlreadyCompleted)
	}
	if res.Attempt.TotalQuestions != 4 || !res.Attempt.StartedAt.Equal(fixedNow) {
		t.Errorf("attempt = %+v", res.Attempt)
	}
	if len(res.Questions) != 4 || res.Questions[0].QuestionText != "Which sender is spoofed?" {
		t.Fatalf("questions = %+v", res.Questions)
	}
	if res.TotalTimeLimit != 120 {
		t.Errorf("TotalTimeLimit = %d, want 120", res.TotalTimeLimit)
	}

	raw, _ := json.Marshal(res.Questions)
	if strings.Contains(string(raw), "correctAnswer") || strings.Contains(string(raw), "Look-alike") {
		t.Errorf("question projection leaks answers: %s", raw)
	}

	again, err := env.svc.Start(context.Background(), user.ID, quiz.ID, false)
	if err != nil {
		t.Fatal(err)
	}
	if again.Created || again.Attempt.ID != res.Attempt.ID {
		t.Errorf("second start created a new attempt")
	}
}

func TestStartUnknownOrInactiveAssessment(t *testing.T) {
	env := newTestEnv(t)
	user := env.user(t, "bob")
	quiz := env.phishingQuiz(t)
	env.db.Model(&model.Assessment{}).Where("id = ?", quiz.ID).Update("is_active", false)

	for _, id := range []uint{quiz.ID, 9999} {
		_, err := env.svc.Start(context.Background(), user.ID, id, false)
		if !errors.Is(err, util.ErrAssessmentNotFound) {
			t.Errorf("Start(%d) err = %v, want assessment not found", id, err)
		}
	}
}

func TestConcurrentStartYieldsOneAttempt(t *testing.T) {
	env := newTestEnv(t)
	quiz := env.phishingQuiz(t)
	user := env.user(t, "carol")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := env.svc.Start(context.Background(), user.ID, quiz.ID, false); err != nil {
				t.Errorf("Start: %v", err)
			}
		}()
	}
	wg.Wait()

	var n int64
	env.db.Model(&model.Attempt{}).Where("user_id = ? AND assessment_id = ?", user.ID, quiz.ID).Count(&n)
	if n != 1 {
		t.Fatalf("attempt rows = %d, want 1", n)
	}
}

func TestSubmitScoresAndCompletes(t *testing.T) {
	env := newTestEnv(t)
	quiz := env.phishingQuiz(t)
	user := env.user(t, "dave")
	ctx := context.Background()

	if _, err := env.svc.Start(ctx, user.ID, quiz.ID, false); err != nil {
		t.Fatal(err)
	}
	res, err := env.svc.Submit(ctx, user.ID, quiz.ID, answersFor(quiz, "a", "TRUE", "C", "False"))
	if err != nil {
		t.Fatal(err)
	}
	if res.CorrectAnswers != 3 || res.TotalQuestions != 4 || res.Score != 75 || !res.IsPassed {
		t.Fatalf("result = %+v", res)
	}
	if res.RedirectURL != ResultURL(quiz.ID) {
		t.Errorf("redirect = %s", res.RedirectURL)
	}

	attempt, _ := env.attempts.FindByUserAndAssessment(ctx, user.ID, quiz.ID)
	if !attempt.IsCompleted || attempt.CompletedAt == nil || !attempt.CompletedAt.Equal(fixedNow) {
		t.Errorf("attempt not completed at the injected time: %+v", attempt)
	}

	view, err := env.svc.ViewResult(ctx, user.ID, quiz.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Answers) != 4 || view.Answers[0].Explanation != "Look-alike domain." || view.Answers[2].IsCorrect {
		t.Errorf("result view = %+v", view.Answers)
	}
	if view.Answers[2].CorrectAnswer != "B" || view.Answers[2].UserAnswer != "C" {
		t.Errorf("third answer = %+v", view.Answers[2])
	}
}

func TestSubmitTwiceIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	quiz := env.phishingQuiz(t)
	user := env.user(t, "erin")
	ctx := context.Background()
	env.svc.Start(ctx, user.ID, quiz.ID, false)

	answers := answersFor(quiz, "A", "False", "B", "")
	first, err := env.svc.Submit(ctx, user.ID, quiz.ID, answers)
	if err != nil {
		t.Fatal(err)
	}
	second, err := env.svc.Submit(ctx, user.ID, quiz.ID, answers)
	if err != nil {
		t.Fatal(err)
	}
	if first.Score != second.Score || first.CorrectAnswers != second.CorrectAnswers || second.Score != 50 {
		t.Errorf("first = %+v, second = %+v", first, second)
	}
	if second.RetakeCount != 1 {
		t.Errorf("retake count = %d, want 1", second.RetakeCount)
	}
	n, _ := env.attempts.CountAnswers(ctx, first.AttemptID)
	if n != 3 {
		t.Errorf("answer rows = %d, want 3", n)
	}
}

func TestSubmitEmptyAnswers(t *testing.T) {
	env := newTestEnv(t)
	quiz := env.phishingQuiz(t)
	user := env.user(t, "frank")
	ctx := context.Background()
	env.svc.Start(ctx, user.ID, quiz.ID, false)

	res, err := env.svc.Submit(ctx, user.ID, quiz.ID, map[string]string{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Score != 0 || res.CorrectAnswers != 0 || res.IsPassed {
		t.Errorf("result = %+v", res)
	}
	n, _ := env.attempts.CountAnswers(ctx, res.AttemptID)
	if n != 0 {
		t.Errorf("answer rows = %d, want 0", n)
	}
}

func TestResubmitReplacesAnswers(t *testing.T) {
	env := newTestEnv(t)
	quiz := env.phishingQuiz(t)
	user := env.user(t, "gina")
	ctx := context.Background()
	env.svc.Start(ctx, user.ID, quiz.ID, false)

	if _, err := env.svc.Submit(ctx, user.ID, quiz.ID, answersFor(quiz, "A")); err != nil {
		t.Fatal(err)
	}
	res, err := env.svc.Submit(ctx, user.ID, quiz.ID, answersFor(quiz, "A", "True"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Score != 50 {
		t.Errorf("score = %d, want 50", res.Score)
	}
	n, _ := env.attempts.CountAnswers(ctx, res.AttemptID)
	if n != 2 {
		t.Errorf("answer rows = %d, want 2", n)
	}
}

func TestSubmitQuestionFromAnotherAssessment(t *testing.T) {
	env := newTestEnv(t)
	quiz := env.phishingQuiz(t)
	other := env.phishingQuiz(t)
	user := env.user(t, "hank")
	ctx := context.Background()
	env.svc.Start(ctx, user.ID, quiz.ID, false)

	answers := answersFor(quiz, "A", "True")
	answers[fmt.Sprint(other.Questions[0].ID)] = "A"
	_, err := env.svc.Submit(ctx, user.ID, quiz.ID, answers)
	if !errors.Is(err, util.ErrQuestionNotFound) {
		t.Fatalf("err = %v, want question not found", err)
	}

	attempt, _ := env.attempts.FindByUserAndAssessment(ctx, user.ID, quiz.ID)
	if attempt.IsCompleted {
		t.Error("attempt completed by a rejected submission")
	}
	n, _ := env.attempts.CountAnswers(ctx, attempt.ID)
	if n != 0 {
		t.Errorf("answer rows = %d, want 0", n)
	}
}

func TestSubmitErrors(t *testing.T) {
	env := newTestEnv(t)
	quiz := env.phishingQuiz(t)
	user := env.user(t, "ivan")
	ctx := context.Background()

	if _, err := env.svc.Submit(ctx, user.ID, 9999, nil); !errors.Is(err, util.ErrAssessmentNotFound) {
		t.Errorf("unknown assessment: err = %v", err)
	}
	if _, err := env.svc.Submit(ctx, user.ID, quiz.ID, nil); !errors.Is(err, util.ErrAttemptNotFound) {
		t.Errorf("no attempt: err = %v", err)
	}

	env.svc.Start(ctx, user.ID, quiz.ID, false)
	if _, err := env.svc.Submit(ctx, user.ID, quiz.ID, map[string]string{"first": "A"}); !errors.Is(err, util.ErrInvalidInput) {
		t.Errorf("bad key: err = %v", err)
	}
	if _, err := env.svc.SubmitPayload(ctx, user.ID, quiz.ID, []byte(`{"answers":"A"}`)); !errors.Is(err, util.ErrInvalidInput) {
		t.Errorf("bad payload: err = %v", err)
	}
	if _, err := env.svc.SubmitPayload(ctx, user.ID, 9999, []byte(`garbage`)); !errors.Is(err, util.ErrAssessmentNotFound) {
		t.Errorf("lookup must precede decoding: err = %v", err)
	}
}

func TestViewResultStates(t *testing.T) {
	env := newTestEnv(t)
	quiz := env.phishingQuiz(t)
	user := env.user(t, "jane")
	ctx := context.Background()

	if _, err := env.svc.ViewResult(ctx, user.ID, quiz.ID); !errors.Is(err, util.ErrAttemptNotFound) {
		t.Errorf("not started: err = %v", err)
	}
	env.svc.Start(ctx, user.ID, quiz.ID, false)
	if _, err := env.svc.ViewResult(ctx, user.ID, quiz.ID); !errors.Is(err, util.ErrNotReady) {
		t.Errorf("in progress: err = %v", err)
	}
}

func TestStartAfterCompletion(t *testing.T) {
	env := newTestEnv(t)
	quiz := env.phishingQuiz(t)
	user := env.user(t, "kyle")
	ctx := context.Background()

	env.svc.Start(ctx, user.ID, quiz.ID, false)
	done, err := env.svc.Submit(ctx, user.ID, quiz.ID, answersFor(quiz, "A", "True", "B", "False"))
	if err != nil {
		t.Fatal(err)
	}

	res, err := env.svc.Start(ctx, user.ID, quiz.ID, false)
	if err != nil {
		t.Fatal(err)
	}
	if !res.AlreadyCompleted || len(res.Questions) != 0 || res.RedirectURL != ResultURL(quiz.ID) {
		t.Errorf("completed start = %+v", res)
	}
	if res.Attempt.Score != done.Score {
		t.Errorf("attempt changed by start: %+v", res.Attempt)
	}

	retake, err := env.svc.Start(ctx, user.ID, quiz.ID, true)
	if err != nil {
		t.Fatal(err)
	}
	if retake.AlreadyCompleted || len(retake.Questions) != 4 {
		t.Errorf("retake start = %+v", retake)
	}
	if model.StateOf(retake.Attempt) != model.StateCompleted {
		t.Errorf("retake start must not reset the stored result")
	}
}

func TestSubmitUsesCurrentQuestionCount(t *testing.T) {
	env := newTestEnv(t)
	quiz := env.phishingQuiz(t)
	user := env.user(t, "lena")
	ctx := context.Background()

	env.svc.Start(ctx, user.ID, quiz.ID, false)
	extra := &model.Question{AssessmentID: quiz.ID, QuestionText: "Extra", QuestionType: model.TrueFalse, CorrectAnswer: "True", Order: 5}
	if err := env.assessments.CreateQuestion(ctx, extra); err != nil {
		t.Fatal(err)
	}

	res, err := env.svc.Submit(ctx, user.ID, quiz.ID, answersFor(quiz, "A", "True", "B", "False"))
	if err != nil {
		t.Fatal(err)
	}
	if res.TotalQuestions != 5 || res.Score != 80 {
		t.Errorf("result = %+v, want 4/5 = 80", res)
	}
}
