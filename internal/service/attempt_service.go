package service

import (
	"context"
	"errors"
	"fmt"
	"sensen_backend/internal/model"
	"sensen_backend/internal/repository"
	"sensen_backend/internal/util"
	"sensen_backend/pkg/logger"
	"sensen_backend/pkg/monitoring"
	"sensen_backend/pkg/tracing"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AttemptService struct {
	AssessmentRepo *repository.AssessmentRepository
	AttemptRepo    *repository.AttemptRepository
	// Now stamps started_at and completed_at.
	Now func() time.Time
}

func NewAttemptService(assessmentRepo *repository.AssessmentRepository, attemptRepo *repository.AttemptRepository) *AttemptService {
	return &AttemptService{
		AssessmentRepo: assessmentRepo,
		AttemptRepo:    attemptRepo,
		Now:            time.Now,
	}
}

func TakeURL(assessmentID uint) string {
	return fmt.Sprintf("/api/assessments/%d/start", assessmentID)
}

func ResultURL(assessmentID uint) string {
	return fmt.Sprintf("/api/assessments/%d/result", assessmentID)
}

// QuestionView is a question as shown to someone taking the quiz.
type QuestionView struct {
	ID           uint                        `json:"id"`
	QuestionText string                      `json:"questionText"`
	QuestionType model.QuestionType          `json:"questionType"`
	Options      datatypes.JSONSlice[string] `json:"options"`
	Order        int                         `json:"order"`
}

func toQuestionViews(qs []model.Question) []QuestionView {
	views := make([]QuestionView, len(qs))
	for i, q := range qs {
		views[i] = QuestionView{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			QuestionType: q.QuestionType,
			Options:      q.Options,
			Order:        q.Order,
		}
	}
	return views
}

type StartResult struct {
	Assessment       *model.Assessment `json:"assessment"`
	Attempt          *model.Attempt    `json:"attempt"`
	Questions        []QuestionView    `json:"questions,omitempty"`
	TotalTimeLimit   int               `json:"totalTimeLimit"`
	Created          bool              `json:"created"`
	AlreadyCompleted bool              `json:"alreadyCompleted"`
	RedirectURL      string            `json:"redirectUrl,omitempty"`
}

// Start returns the attempt of the user for an active assessment, creating
// it on first visit. A completed attempt is only reopened when retake is set.
func (s *AttemptService) Start(ctx context.Context, userID, assessmentID uint, retake bool) (result *StartResult, err error) {
	ctx, span := tracing.Start(ctx, "AttemptService.Start",
		attribute.Int64("user.id", int64(userID)),
		attribute.Int64("assessment.id", int64(assessmentID)),
		attribute.Bool("retake", retake),
	)
	defer func() { tracing.End(span, err) }()

	assessment, err := s.AssessmentRepo.FindActiveAssessment(ctx, assessmentID)
	if err != nil {
		return nil, notFound(err, util.ErrAssessmentNotFound)
	}

	count, err := s.AssessmentRepo.CountQuestions(ctx, assessmentID)
	if err != nil {
		return nil, err
	}

	attempt, created, err := s.AttemptRepo.GetOrCreate(ctx, userID, assessmentID, count, s.Now())
	if err != nil {
		return nil, fmt.Errorf("get or create attempt: %w", err)
	}
	monitoring.AttemptsStarted.WithLabelValues(strconv.FormatBool(created)).Inc()

	result = &StartResult{
		Assessment: assessment,
		Attempt:    attempt,
		Created:    created,
	}

	if attempt.IsCompleted && !retake {
		result.AlreadyCompleted = true
		result.RedirectURL = ResultURL(assessmentID)
		return result, nil
	}

	questions, err := s.AssessmentRepo.ListQuestions(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	result.Questions = toQuestionViews(questions)
	result.TotalTimeLimit = assessment.TotalTimeLimit(len(questions))

	logger.Log.Info("assessment started",
		zap.Uint("user_id", userID),
		zap.Uint("assessment_id", assessmentID),
		zap.Uint("attempt_id", attempt.ID),
		zap.Bool("created", created),
		zap.Bool("retake", retake && attempt.IsCompleted),
	)
	return result, nil
}

type ScoreResult struct {
	AttemptID      uint   `json:"attemptId"`
	Score          int    `json:"score"`
	CorrectAnswers int    `json:"correctAnswers"`
	TotalQuestions int    `json:"totalQuestions"`
	IsPassed       bool   `json:"isPassed"`
	RetakeCount    int    `json:"retakeCount"`
	RedirectURL    string `json:"redirectUrl"`
}

// SubmitPayload checks the assessment and attempt exist before decoding the
// raw request body, then grades it like Submit.
func (s *AttemptService) SubmitPayload(ctx context.Context, userID, assessmentID uint, body []byte) (*ScoreResult, error) {
	assessment, attempt, err := s.loadAttempt(ctx, userID, assessmentID)
	if err != nil {
		return nil, err
	}
	answers, err := ParseSubmission(body)
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, assessment, attempt, answers)
}

// Submit grades answers, keyed by question id, and completes the attempt.
// Submitting again replaces the previous answers and result.
func (s *AttemptService) Submit(ctx context.Context, userID, assessmentID uint, answers map[string]string) (*ScoreResult, error) {
	assessment, attempt, err := s.loadAttempt(ctx, userID, assessmentID)
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, assessment, attempt, answers)
}

func (s *AttemptService) loadAttempt(ctx context.Context, userID, assessmentID uint) (*model.Assessment, *model.Attempt, error) {
	assessment, err := s.AssessmentRepo.FindAssessmentByID(ctx, assessmentID)
	if err != nil {
		return nil, nil, notFound(err, util.ErrAssessmentNotFound)
	}
	attempt, err := s.AttemptRepo.FindByUserAndAssessment(ctx, userID, assessmentID)
	if err != nil {
		return nil, nil, notFound(err, util.ErrAttemptNotFound)
	}
	return assessment, attempt, nil
}

func (s *AttemptService) submit(ctx context.Context, assessment *model.Assessment, attempt *model.Attempt, answers map[string]string) (result *ScoreResult, err error) {
	ctx, span := tracing.Start(ctx, "AttemptService.Submit",
		attribute.Int64("user.id", int64(attempt.UserID)),
		attribute.Int64("assessment.id", int64(assessment.ID)),
		attribute.Int("answers", len(answers)),
	)
	defer func() { tracing.End(span, err) }()

	submitted, ids, err := parseAnswerKeys(answers)
	if err != nil {
		return nil, err
	}

	questions, err := s.AssessmentRepo.FindQuestionsInAssessment(ctx, assessment.ID, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, ok := questions[id]; !ok {
			return nil, fmt.Errorf("question %d: %w", id, util.ErrQuestionNotFound)
		}
	}

	total, err := s.AssessmentRepo.CountQuestions(ctx, assessment.ID)
	if err != nil {
		return nil, err
	}

	grade, graded := Grade(questions, submitted, total, assessment.PassScore)

	rows := make([]model.Answer, len(graded))
	for i, g := range graded {
		rows[i] = model.Answer{QuestionID: g.QuestionID, UserAnswer: g.UserAnswer, IsCorrect: g.IsCorrect}
	}

	updated, err := s.AttemptRepo.ReplaceSubmission(ctx, attempt.ID, rows, repository.Grade{
		Score:          grade.Score,
		CorrectAnswers: grade.Correct,
		TotalQuestions: grade.Total,
		IsPassed:       grade.Passed,
		CompletedAt:    s.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("save submission: %w", err)
	}
	monitoring.ObserveSubmission(updated.Score, updated.IsPassed)

	logger.Log.Info("assessment submitted",
		zap.Uint("user_id", updated.UserID),
		zap.Uint("assessment_id", assessment.ID),
		zap.Uint("attempt_id", updated.ID),
		zap.Int("score", updated.Score),
		zap.Int("correct", updated.CorrectAnswers),
		zap.Int("total", updated.TotalQuestions),
		zap.Bool("passed", updated.IsPassed),
		zap.Int("retake_count", updated.RetakeCount),
	)

	return &ScoreResult{
		AttemptID:      updated.ID,
		Score:          updated.Score,
		CorrectAnswers: updated.CorrectAnswers,
		TotalQuestions: updated.TotalQuestions,
		IsPassed:       updated.IsPassed,
		RetakeCount:    updated.RetakeCount,
		RedirectURL:    ResultURL(assessment.ID),
	}, nil
}

type AnswerView struct {
	QuestionID    uint                        `json:"questionId"`
	QuestionText  string                      `json:"questionText"`
	QuestionType  model.QuestionType          `json:"questionType"`
	Options       datatypes.JSONSlice[string] `json:"options"`
	Order         int                         `json:"order"`
	UserAnswer    string                      `json:"userAnswer"`
	CorrectAnswer string                      `json:"correctAnswer"`
	Explanation   string                      `json:"explanation"`
	IsCorrect     bool                        `json:"isCorrect"`
}

type ResultView struct {
	Assessment *model.Assessment `json:"assessment"`
	Attempt    *model.Attempt    `json:"attempt"`
	Answers    []AnswerView      `json:"answers"`
}

// ViewResult returns a completed attempt with every answer and its question.
func (s *AttemptService) ViewResult(ctx context.Context, userID, assessmentID uint) (view *ResultView, err error) {
	ctx, span := tracing.Start(ctx, "AttemptService.ViewResult",
		attribute.Int64("user.id", int64(userID)),
		attribute.Int64("assessment.id", int64(assessmentID)),
	)
	defer func() { tracing.End(span, err) }()

	assessment, attempt, err := s.loadAttempt(ctx, userID, assessmentID)
	if err != nil {
		return nil, err
	}
	if !attempt.IsCompleted {
		return nil, util.ErrAttemptNotReady
	}

	answers, err := s.AttemptRepo.ListAnswersWithQuestions(ctx, attempt.ID)
	if err != nil {
		return nil, err
	}

	views := make([]AnswerView, 0, len(answers))
	for _, a := range answers {
		v := AnswerView{QuestionID: a.QuestionID, UserAnswer: a.UserAnswer, IsCorrect: a.IsCorrect}
		if q := a.Question; q != nil {
			v.QuestionText = q.QuestionText
			v.QuestionType = q.QuestionType
			v.Options = q.Options
			v.Order = q.Order
			v.CorrectAnswer = q.CorrectAnswer
			v.Explanation = q.Explanation
		}
		views = append(views, v)
	}

	return &ResultView{Assessment: assessment, Attempt: attempt, Answers: views}, nil
}

// notFound replaces a missing-row error with the domain error.
func notFound(err, domain error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain
	}
	return err
}
