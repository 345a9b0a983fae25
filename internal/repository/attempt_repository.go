package repository

import (
	"context"
	"errors"
	"sensen_backend/internal/model"
	"sensen_backend/internal/util"
	"sort"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

// Grade is what a submission writes onto its attempt.
type Grade struct {
	Score          int
	CorrectAnswers int
	TotalQuestions int
	IsPassed       bool
	CompletedAt    time.Time
}

// GetOrCreate inserts the (user, assessment) attempt unless it already exists
// and then reads the stored row. Concurrent callers see the same row.
func (r *AttemptRepository) GetOrCreate(ctx context.Context, userID, assessmentID uint, totalQuestions int, now time.Time) (*model.Attempt, bool, error) {
	attempt := &model.Attempt{
		UserID:         userID,
		AssessmentID:   assessmentID,
		TotalQuestions: totalQuestions,
		StartedAt:      now,
	}
	res := r.DB.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "assessment_id"}},
			DoNothing: true,
		}).
		Create(attempt)
	if res.Error != nil {
		return nil, false, res.Error
	}

	stored, err := r.FindByUserAndAssessment(ctx, userID, assessmentID)
	if err != nil {
		return nil, false, err
	}
	return stored, res.RowsAffected == 1, nil
}

// Create is a plain insert; a second attempt for the same pair is a conflict.
func (r *AttemptRepository) Create(ctx context.Context, attempt *model.Attempt) error {
	err := r.DB.WithContext(ctx).Omit(clause.Associations).Create(attempt).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return util.ErrAttemptConflict
	}
	return err
}

func (r *AttemptRepository) FindByUserAndAssessment(ctx context.Context, userID, assessmentID uint) (*model.Attempt, error) {
	var a model.Attempt
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND assessment_id = ?", userID, assessmentID).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AttemptRepository) ListByUser(ctx context.Context, userID uint) ([]model.Attempt, error) {
	var as []model.Attempt
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("id asc").Find(&as).Error
	return as, err
}

func (r *AttemptRepository) ListByAssessment(ctx context.Context, assessmentID uint) ([]model.Attempt, error) {
	var as []model.Attempt
	err := r.DB.WithContext(ctx).
		Preload("User").
		Where("assessment_id = ?", assessmentID).
		Order("started_at desc, id desc").
		Find(&as).Error
	return as, err
}

// ReplaceSubmission swaps the answer set of an attempt and records the grade
// in one transaction. The attempt row is locked first so concurrent submits
// for the same attempt apply one after another.
func (r *AttemptRepository) ReplaceSubmission(ctx context.Context, attemptID uint, answers []model.Answer, grade Grade) (*model.Attempt, error) {
	var updated model.Attempt
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&updated, attemptID).Error; err != nil {
			return err
		}

		if err := tx.Where("attempt_id = ?", attemptID).Delete(&model.Answer{}).Error; err != nil {
			return err
		}

		if len(answers) > 0 {
			rows := make([]model.Answer, len(answers))
			for i, a := range answers {
				rows[i] = model.Answer{
					AttemptID:  attemptID,
					QuestionID: a.QuestionID,
					UserAnswer: a.UserAnswer,
					IsCorrect:  a.IsCorrect,
				}
			}
			if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
				return err
			}
		}

		if updated.IsCompleted {
			updated.RetakeCount++
		}
		completedAt := grade.CompletedAt
		updated.Score = grade.Score
		updated.CorrectAnswers = grade.CorrectAnswers
		updated.TotalQuestions = grade.TotalQuestions
		updated.IsPassed = grade.IsPassed
		updated.IsCompleted = true
		updated.CompletedAt = &completedAt

		return tx.Omit(clause.Associations).Save(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *AttemptRepository) CountAnswers(ctx context.Context, attemptID uint) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Answer{}).Where("attempt_id = ?", attemptID).Count(&n).Error
	return n, err
}

// ListAnswersWithQuestions returns the answers of an attempt with their
// questions loaded, in question order.
func (r *AttemptRepository) ListAnswersWithQuestions(ctx context.Context, attemptID uint) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.DB.WithContext(ctx).
		Preload("Question").
		Where("attempt_id = ?", attemptID).
		Find(&answers).Error
	if err != nil {
		return nil, err
	}
	sort.SliceStable(answers, func(i, j int) bool {
		qi, qj := answers[i].Question, answers[j].Question
		if qi == nil || qj == nil {
			return answers[i].QuestionID < answers[j].QuestionID
		}
		if qi.Order != qj.Order {
			return qi.Order < qj.Order
		}
		return qi.ID < qj.ID
	})
	return answers, nil
}

func (r *AttemptRepository) CountCompletedByUser(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Attempt{}).
		Where("user_id = ? AND is_completed = ?", userID, true).
		Count(&n).Error
	return n, err
}

func (r *AttemptRepository) RecentCompletedByUser(ctx context.Context, userID uint, limit int) ([]model.Attempt, error) {
	var as []model.Attempt
	err := r.DB.WithContext(ctx).
		Preload("Assessment").
		Where("user_id = ? AND is_completed = ?", userID, true).
		Order("completed_at desc, id desc").
		Limit(limit).
		Find(&as).Error
	return as, err
}

type LeaderboardEntry struct {
	UserID         uint    `json:"userId"`
	Username       string  `json:"username"`
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	AvgScore       float64 `json:"avgScore"`
	TotalCompleted int64   `json:"totalCompleted"`
}

// Leaderboard ranks users by their average score over completed attempts.
func (r *AttemptRepository) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	var entries []LeaderboardEntry
	err := r.DB.WithContext(ctx).
		Table("assessment_attempts").
		Select("users.id AS user_id, users.username, users.first_name, users.last_name, " +
			"AVG(assessment_attempts.score) AS avg_score, COUNT(assessment_attempts.id) AS total_completed").
		Joins("JOIN users ON users.id = assessment_attempts.user_id").
		Where("assessment_attempts.is_completed = ?", true).
		Group("users.id, users.username, users.first_name, users.last_name").
		Order("avg_score desc, total_completed desc, users.id asc").
		Limit(limit).
		Scan(&entries).Error
	return entries, err
}
