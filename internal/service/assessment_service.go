package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sensen_backend/internal/model"
	"sensen_backend/internal/repository"
	"sensen_backend/internal/util"
	"sensen_backend/pkg/logger"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const recentAttemptsLimit = 5

type AssessmentService struct {
	AssessmentRepo  *repository.AssessmentRepository
	AttemptRepo     *repository.AttemptRepository
	Validator       *validator.Validate
	LeaderboardSize int
}

func NewAssessmentService(assessmentRepo *repository.AssessmentRepository, attemptRepo *repository.AttemptRepository, leaderboardSize int) *AssessmentService {
	if leaderboardSize <= 0 {
		leaderboardSize = 10
	}
	return &AssessmentService{
		AssessmentRepo:  assessmentRepo,
		AttemptRepo:     attemptRepo,
		Validator:       validator.New(),
		LeaderboardSize: leaderboardSize,
	}
}

type AssessmentSummary struct {
	ID             uint               `json:"id"`
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	TimeLimit      int                `json:"timeLimit"`
	PassScore      int                `json:"passScore"`
	QuestionCount  int                `json:"questionCount"`
	TotalTimeLimit int                `json:"totalTimeLimit"`
	Status         model.AttemptState `json:"status"`
	Score          *int               `json:"score,omitempty"`
	IsPassed       *bool              `json:"isPassed,omitempty"`
}

// ListForUser returns the active assessments with the caller's attempt status.
func (s *AssessmentService) ListForUser(ctx context.Context, userID uint) ([]AssessmentSummary, error) {
	assessments, err := s.AssessmentRepo.ListActiveAssessments(ctx)
	if err != nil {
		return nil, err
	}
	attempts, err := s.AttemptRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	byAssessment := make(map[uint]*model.Attempt, len(attempts))
	for i := range attempts {
		byAssessment[attempts[i].AssessmentID] = &attempts[i]
	}

	out := make([]AssessmentSummary, 0, len(assessments))
	for i := range assessments {
		a := &assessments[i]
		n, err := s.AssessmentRepo.CountQuestions(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		attempt := byAssessment[a.ID]
		summary := AssessmentSummary{
			ID:             a.ID,
			Title:          a.Title,
			Description:    a.Description,
			TimeLimit:      a.TimeLimit,
			PassScore:      a.PassScore,
			QuestionCount:  n,
			TotalTimeLimit: a.TotalTimeLimit(n),
			Status:         model.StateOf(attempt),
		}
		if attempt != nil && attempt.IsCompleted {
			score, passed := attempt.Score, attempt.IsPassed
			summary.Score, summary.IsPassed = &score, &passed
		}
		out = append(out, summary)
	}
	return out, nil
}

type RecentAttempt struct {
	AssessmentID    uint   `json:"assessmentId"`
	AssessmentTitle string `json:"assessmentTitle"`
	Score           int    `json:"score"`
	IsPassed        bool   `json:"isPassed"`
	CompletedAt     string `json:"completedAt"`
}

type ProgressView struct {
	CompletedAssessments int64                         `json:"completedAssessments"`
	TotalAssessments     int64                         `json:"totalAssessments"`
	ProgressPercentage   float64                       `json:"progressPercentage"`
	RecentAttempts       []RecentAttempt               `json:"recentAttempts"`
	Leaderboard          []repository.LeaderboardEntry `json:"leaderboard"`
}

// Progress summarises the user's completed work next to the leaderboard.
func (s *AssessmentService) Progress(ctx context.Context, userID uint) (*ProgressView, error) {
	completed, err := s.AttemptRepo.CountCompletedByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	total, err := s.AssessmentRepo.CountActiveAssessments(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.AttemptRepo.RecentCompletedByUser(ctx, userID, recentAttemptsLimit)
	if err != nil {
		return nil, err
	}
	board, err := s.AttemptRepo.Leaderboard(ctx, s.LeaderboardSize)
	if err != nil {
		return nil, err
	}

	view := &ProgressView{
		CompletedAssessments: completed,
		TotalAssessments:     total,
		ProgressPercentage:   progressPercentage(completed, total),
		RecentAttempts:       make([]RecentAttempt, 0, len(recent)),
		Leaderboard:          board,
	}
	for _, a := range recent {
		r := RecentAttempt{AssessmentID: a.AssessmentID, Score: a.Score, IsPassed: a.IsPassed}
		if a.Assessment != nil {
			r.AssessmentTitle = a.Assessment.Title
		}
		if a.CompletedAt != nil {
			r.CompletedAt = a.CompletedAt.Format(time.RFC3339)
		}
		view.RecentAttempts = append(view.RecentAttempts, r)
	}
	return view, nil
}

// progressPercentage is rounded to one decimal place.
func progressPercentage(completed, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*1000) / 10
}

func (s *AssessmentService) Leaderboard(ctx context.Context) ([]repository.LeaderboardEntry, error) {
	return s.AttemptRepo.Leaderboard(ctx, s.LeaderboardSize)
}

type QuestionRequest struct {
	QuestionText  string             `json:"questionText" validate:"required"`
	QuestionType  model.QuestionType `json:"questionType" validate:"required,oneof=multiple_choice true_false"`
	Options       []string           `json:"options" validate:"omitempty,dive,required"`
	CorrectAnswer string             `json:"correctAnswer" validate:"required,max=200"`
	Explanation   string             `json:"explanation"`
	Order         int                `json:"order" validate:"gte=0"`
}

type AssessmentRequest struct {
	Title       string            `json:"title" validate:"required,max=200"`
	Description string            `json:"description"`
	TimeLimit   int               `json:"timeLimit" validate:"gte=1"`
	PassScore   int               `json:"passScore" validate:"gte=0,lte=100"`
	IsActive    *bool             `json:"isActive"`
	Questions   []QuestionRequest `json:"questions" validate:"omitempty,dive"`
}

func (s *AssessmentService) validate(req interface{}) error {
	if err := s.Validator.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", util.ErrInvalidInput, strings.Join(fields, "; "))
		}
		return fmt.Errorf("%w: %v", util.ErrInvalidInput, err)
	}
	return nil
}

// validateQuestion adds the checks the struct tags cannot express.
func validateQuestion(q QuestionRequest) error {
	if q.QuestionType == model.TrueFalse && len(q.Options) == 0 {
		return nil
	}
	if q.QuestionType == model.MultipleChoice && len(q.Options) < 2 {
		return fmt.Errorf("%w: multiple choice question %q needs at least two options", util.ErrInvalidInput, q.QuestionText)
	}
	for _, opt := range q.Options {
		if IsCorrect(opt, q.CorrectAnswer) {
			return nil
		}
	}
	return fmt.Errorf("%w: correct answer of %q is not one of its options", util.ErrInvalidInput, q.QuestionText)
}

func newQuestion(assessmentID uint, q QuestionRequest) model.Question {
	options := q.Options
	if q.QuestionType == model.TrueFalse && len(options) == 0 {
		options = []string{"True", "False"}
	}
	return model.Question{
		AssessmentID:  assessmentID,
		QuestionText:  q.QuestionText,
		QuestionType:  q.QuestionType,
		Options:       options,
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
		Order:         q.Order,
	}
}

// CreateAssessment stores a new assessment with its questions. New
// assessments are active unless the request says otherwise.
func (s *AssessmentService) CreateAssessment(ctx context.Context, req AssessmentRequest) (*model.Assessment, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	a := &model.Assessment{
		Title:       req.Title,
		Description: req.Description,
		TimeLimit:   req.TimeLimit,
		PassScore:   req.PassScore,
		IsActive:    true,
	}
	if req.IsActive != nil {
		a.IsActive = *req.IsActive
	}
	for _, q := range req.Questions {
		if err := validateQuestion(q); err != nil {
			return nil, err
		}
		a.Questions = append(a.Questions, newQuestion(0, q))
	}

	if err := s.AssessmentRepo.CreateAssessment(ctx, a); err != nil {
		return nil, err
	}
	logger.Log.Info("assessment created", zap.Uint("assessment_id", a.ID), zap.Int("questions", len(a.Questions)))
	return a, nil
}

// UpdateAssessment rewrites the assessment fields; questions are managed
// through AddQuestion, UpdateQuestion and DeleteQuestion.
func (s *AssessmentService) UpdateAssessment(ctx context.Context, id uint, req AssessmentRequest) (*model.Assessment, error) {
	req.Questions = nil
	if err := s.validate(req); err != nil {
		return nil, err
	}
	a, err := s.AssessmentRepo.FindAssessmentByID(ctx, id)
	if err != nil {
		return nil, notFound(err, util.ErrAssessmentNotFound)
	}
	a.Title = req.Title
	a.Description = req.Description
	a.TimeLimit = req.TimeLimit
	a.PassScore = req.PassScore
	if req.IsActive != nil {
		a.IsActive = *req.IsActive
	}
	if err := s.AssessmentRepo.UpdateAssessment(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AssessmentService) SetActive(ctx context.Context, id uint, active bool) error {
	if err := s.AssessmentRepo.SetActive(ctx, id, active); err != nil {
		return notFound(err, util.ErrAssessmentNotFound)
	}
	logger.Log.Info("assessment active flag changed", zap.Uint("assessment_id", id), zap.Bool("active", active))
	return nil
}

// GetAssessment returns an assessment with its full questions, answers included.
func (s *AssessmentService) GetAssessment(ctx context.Context, id uint) (*model.Assessment, error) {
	a, err := s.AssessmentRepo.FindAssessmentByID(ctx, id)
	if err != nil {
		return nil, notFound(err, util.ErrAssessmentNotFound)
	}
	qs, err := s.AssessmentRepo.ListQuestions(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Questions = qs
	return a, nil
}

func (s *AssessmentService) ListAssessments(ctx context.Context, page, limit int) ([]model.Assessment, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.AssessmentRepo.ListAssessments(ctx, page, limit)
}

func (s *AssessmentService) AddQuestion(ctx context.Context, assessmentID uint, req QuestionRequest) (*model.Question, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	if err := validateQuestion(req); err != nil {
		return nil, err
	}
	if _, err := s.AssessmentRepo.FindAssessmentByID(ctx, assessmentID); err != nil {
		return nil, notFound(err, util.ErrAssessmentNotFound)
	}
	q := newQuestion(assessmentID, req)
	if err := s.AssessmentRepo.CreateQuestion(ctx, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *AssessmentService) UpdateQuestion(ctx context.Context, assessmentID, questionID uint, req QuestionRequest) (*model.Question, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	if err := validateQuestion(req); err != nil {
		return nil, err
	}
	existing, err := s.AssessmentRepo.FindQuestionInAssessment(ctx, assessmentID, questionID)
	if err != nil {
		return nil, notFound(err, util.ErrQuestionNotFound)
	}
	q := newQuestion(assessmentID, req)
	q.BaseModel = existing.BaseModel
	if err := s.AssessmentRepo.UpdateQuestion(ctx, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *AssessmentService) DeleteQuestion(ctx context.Context, assessmentID, questionID uint) error {
	q, err := s.AssessmentRepo.FindQuestionInAssessment(ctx, assessmentID, questionID)
	if err != nil {
		return notFound(err, util.ErrQuestionNotFound)
	}
	return s.AssessmentRepo.DeleteQuestion(ctx, q)
}

type AttemptRow struct {
	AttemptID   uint    `json:"attemptId"`
	UserID      uint    `json:"userId"`
	Username    string  `json:"username"`
	Score       int     `json:"score"`
	IsCompleted bool    `json:"isCompleted"`
	IsPassed    bool    `json:"isPassed"`
	RetakeCount int     `json:"retakeCount"`
	StartedAt   string  `json:"startedAt"`
	CompletedAt *string `json:"completedAt"`
}

// ListAttempts returns every attempt of an assessment for review.
func (s *AssessmentService) ListAttempts(ctx context.Context, assessmentID uint) ([]AttemptRow, error) {
	if _, err := s.AssessmentRepo.FindAssessmentByID(ctx, assessmentID); err != nil {
		return nil, notFound(err, util.ErrAssessmentNotFound)
	}
	attempts, err := s.AttemptRepo.ListByAssessment(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	rows := make([]AttemptRow, 0, len(attempts))
	for _, a := range attempts {
		row := AttemptRow{
			AttemptID:   a.ID,
			UserID:      a.UserID,
			Score:       a.Score,
			IsCompleted: a.IsCompleted,
			IsPassed:    a.IsPassed,
			RetakeCount: a.RetakeCount,
			StartedAt:   a.StartedAt.Format(time.RFC3339),
		}
		if a.User != nil {
			row.Username = a.User.Username
		}
		if a.CompletedAt != nil {
			ts := a.CompletedAt.Format(time.RFC3339)
			row.CompletedAt = &ts
		}
		rows = append(rows, row)
	}
	return rows, nil
}
