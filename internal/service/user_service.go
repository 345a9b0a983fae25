package service

import (
	"context"
	"fmt"
	"sensen_backend/internal/model"
	"sensen_backend/internal/repository"
	"sensen_backend/internal/util"
	"sensen_backend/pkg/logger"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	UserRepo  *repository.UserRepository
	Validator *validator.Validate
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo, Validator: validator.New()}
}

type CreateUserRequest struct {
	Username  string         `json:"username" validate:"required,min=3,max=150"`
	Email     string         `json:"email" validate:"required,email"`
	Password  string         `json:"password" validate:"required,min=8"`
	FirstName string         `json:"firstName" validate:"max=150"`
	LastName  string         `json:"lastName" validate:"max=150"`
	Role      model.UserRole `json:"role" validate:"omitempty,oneof=employee admin"`
}

// CreateUser stores the user and its profile together; either both exist
// afterwards or neither does.
func (s *UserService) CreateUser(ctx context.Context, req CreateUserRequest) (*model.User, error) {
	if err := s.Validator.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrInvalidInput, err)
	}

	taken, err := s.UserRepo.ExistsByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, util.ErrUserExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = model.Employee
	}
	user := &model.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  string(hashed),
		Role:      role,
		IsActive:  true,
	}
	if err := s.UserRepo.CreateWithProfile(ctx, user); err != nil {
		return nil, err
	}

	logger.Log.Info("user created",
		zap.Uint("user_id", user.ID),
		zap.String("username", user.Username),
		zap.String("user_code", user.Profile.UserCode),
	)
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, util.ErrUserNotFound)
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context, page, limit int) ([]model.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.UserRepo.List(ctx, page, limit)
}
