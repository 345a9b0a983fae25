package repository

import (
	"context"
	"errors"
	"fmt"
	"sensen_backend/internal/model"
	"sensen_backend/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// profileNumberTries bounds how often a profile number taken by a
// concurrent insert is skipped.
const profileNumberTries = 10

var errProfileNumbersExhausted = errors.New("no free profile number")

// CreateWithProfile inserts the user and its profile in one transaction.
// The profile gets the next free EMP/SS number, counted from the existing profiles.
func (r *UserRepository) CreateWithProfile(ctx context.Context, user *model.User) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return util.ErrUserExists
			}
			return err
		}

		n, err := nextProfileNumber(tx)
		if err != nil {
			return err
		}
		profile, err := insertProfile(tx, user.ID, n)
		if err != nil {
			return err
		}
		user.Profile = profile
		return nil
	})
}

// insertProfile tries numbers from n upwards. A number claimed by another
// transaction is rolled back to a savepoint and the next one is tried.
func insertProfile(tx *gorm.DB, userID uint, n int) (*model.Profile, error) {
	const savepoint = "profile_number"
	for i := 0; i < profileNumberTries; i, n = i+1, n+1 {
		if err := tx.SavePoint(savepoint).Error; err != nil {
			return nil, err
		}
		empID := fmt.Sprintf("EMP%03d", n)
		profile := &model.Profile{
			UserID:   userID,
			EmpID:    &empID,
			UserCode: fmt.Sprintf("SS-%03d", n),
		}
		err := tx.Create(profile).Error
		if err == nil {
			return profile, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		if err := tx.RollbackTo(savepoint).Error; err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("user %d: %w", userID, errProfileNumbersExhausted)
}

func nextProfileNumber(tx *gorm.DB) (int, error) {
	var count int64
	if err := tx.Model(&model.Profile{}).Count(&count).Error; err != nil {
		return 0, err
	}
	n := int(count) + 1
	for {
		var taken int64
		err := tx.Model(&model.Profile{}).
			Where("emp_id = ? OR user_code = ?", fmt.Sprintf("EMP%03d", n), fmt.Sprintf("SS-%03d", n)).
			Count(&taken).Error
		if err != nil {
			return 0, err
		}
		if taken == 0 {
			return n, nil
		}
		n++
	}
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Preload("Profile").First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Preload("Profile").Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&n).Error
	return n > 0, err
}

func (r *UserRepository) List(ctx context.Context, page, limit int) ([]model.User, int64, error) {
	var users []model.User
	var total int64
	query := r.DB.WithContext(ctx).Model(&model.User{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Preload("Profile").Order("id asc").Offset((page - 1) * limit).Limit(limit).Find(&users).Error
	return users, total, err
}
