package repository

import (
	"context"
	"sensen_backend/internal/model"

	"gorm.io/gorm"
)

type TutorialRepository struct {
	DB *gorm.DB
}

func NewTutorialRepository(db *gorm.DB) *TutorialRepository {
	return &TutorialRepository{DB: db}
}

func (r *TutorialRepository) Create(ctx context.Context, t *model.Tutorial) error {
	return r.DB.WithContext(ctx).Create(t).Error
}

func (r *TutorialRepository) FindByID(ctx context.Context, id uint) (*model.Tutorial, error) {
	var t model.Tutorial
	if err := r.DB.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// ListActive returns the active tutorials, newest first.
func (r *TutorialRepository) ListActive(ctx context.Context, category string) ([]model.Tutorial, error) {
	var ts []model.Tutorial
	query := r.DB.WithContext(ctx).Where("is_active = ?", true)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	err := query.Order("created_at desc, id desc").Find(&ts).Error
	return ts, err
}

func (r *TutorialRepository) ExistsByVideoURL(ctx context.Context, url string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Tutorial{}).Where("video_url = ?", url).Count(&n).Error
	return n > 0, err
}

func (r *TutorialRepository) Delete(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&model.Tutorial{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
