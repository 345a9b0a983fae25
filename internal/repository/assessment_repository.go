package repository

import (
	"context"
	"sensen_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AssessmentRepository struct {
	DB    *gorm.DB
	Cache *QuestionCache
}

func NewAssessmentRepository(db *gorm.DB, cache *QuestionCache) *AssessmentRepository {
	return &AssessmentRepository{DB: db, Cache: cache}
}

func (r *AssessmentRepository) FindAssessmentByID(ctx context.Context, id uint) (*model.Assessment, error) {
	var a model.Assessment
	err := r.DB.WithContext(ctx).First(&a, id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AssessmentRepository) FindActiveAssessment(ctx context.Context, id uint) (*model.Assessment, error) {
	var a model.Assessment
	err := r.DB.WithContext(ctx).Where("id = ? AND is_active = ?", id, true).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AssessmentRepository) ListActiveAssessments(ctx context.Context) ([]model.Assessment, error) {
	var as []model.Assessment
	err := r.DB.WithContext(ctx).Where("is_active = ?", true).Order("created_at desc, id desc").Find(&as).Error
	return as, err
}

func (r *AssessmentRepository) CountActiveAssessments(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Assessment{}).Where("is_active = ?", true).Count(&n).Error
	return n, err
}

func (r *AssessmentRepository) ListAssessments(ctx context.Context, page, limit int) ([]model.Assessment, int64, error) {
	var as []model.Assessment
	var total int64
	query := r.DB.WithContext(ctx).Model(&model.Assessment{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("created_at desc, id desc").Offset(offset).Limit(limit).Find(&as).Error
	return as, total, err
}

// CreateAssessment inserts the assessment and its questions together.
func (r *AssessmentRepository) CreateAssessment(ctx context.Context, a *model.Assessment) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		questions := a.Questions
		a.Questions = nil
		if err := tx.Create(a).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].AssessmentID = a.ID
		}
		if len(questions) > 0 {
			if err := tx.Create(&questions).Error; err != nil {
				return err
			}
		}
		a.Questions = questions
		return nil
	})
}

// UpdateAssessment writes every column, zero values included.
func (r *AssessmentRepository) UpdateAssessment(ctx context.Context, a *model.Assessment) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Save(a).Error
}

func (r *AssessmentRepository) SetActive(ctx context.Context, id uint, active bool) error {
	res := r.DB.WithContext(ctx).Model(&model.Assessment{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListQuestions returns the questions in presentation order, ties broken by insertion.
func (r *AssessmentRepository) ListQuestions(ctx context.Context, assessmentID uint) ([]model.Question, error) {
	if qs, ok := r.Cache.Get(ctx, assessmentID); ok {
		return qs, nil
	}
	var qs []model.Question
	err := r.DB.WithContext(ctx).
		Where("assessment_id = ?", assessmentID).
		Order(clause.OrderBy{Columns: []clause.OrderByColumn{
			{Column: clause.Column{Name: "order"}},
			{Column: clause.Column{Name: "id"}},
		}}).
		Find(&qs).Error
	if err != nil {
		return nil, err
	}
	r.Cache.Set(ctx, assessmentID, qs)
	return qs, nil
}

func (r *AssessmentRepository) CountQuestions(ctx context.Context, assessmentID uint) (int, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Question{}).Where("assessment_id = ?", assessmentID).Count(&n).Error
	return int(n), err
}

// FindQuestionsInAssessment loads the given ids, scoped to one assessment.
// Ids that belong elsewhere are simply absent from the result.
func (r *AssessmentRepository) FindQuestionsInAssessment(ctx context.Context, assessmentID uint, ids []uint) (map[uint]model.Question, error) {
	out := make(map[uint]model.Question, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var qs []model.Question
	err := r.DB.WithContext(ctx).Where("assessment_id = ? AND id IN ?", assessmentID, ids).Find(&qs).Error
	if err != nil {
		return nil, err
	}
	for _, q := range qs {
		out[q.ID] = q
	}
	return out, nil
}

func (r *AssessmentRepository) CreateQuestion(ctx context.Context, q *model.Question) error {
	if err := r.DB.WithContext(ctx).Create(q).Error; err != nil {
		return err
	}
	r.Cache.Invalidate(ctx, q.AssessmentID)
	return nil
}

func (r *AssessmentRepository) FindQuestionByID(ctx context.Context, id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.WithContext(ctx).First(&q, id).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *AssessmentRepository) UpdateQuestion(ctx context.Context, q *model.Question) error {
	if err := r.DB.WithContext(ctx).Save(q).Error; err != nil {
		return err
	}
	r.Cache.Invalidate(ctx, q.AssessmentID)
	return nil
}

func (r *AssessmentRepository) DeleteQuestion(ctx context.Context, q *model.Question) error {
	if err := r.DB.WithContext(ctx).Delete(&model.Question{}, q.ID).Error; err != nil {
		return err
	}
	r.Cache.Invalidate(ctx, q.AssessmentID)
	return nil
}

func (r *AssessmentRepository) FindQuestionInAssessment(ctx context.Context, assessmentID, questionID uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.WithContext(ctx).Where("id = ? AND assessment_id = ?", questionID, assessmentID).First(&q).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}
