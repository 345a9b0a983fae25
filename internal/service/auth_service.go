package service

import (
	"context"
	"errors"
	"sensen_backend/internal/config"
	"sensen_backend/internal/model"
	"sensen_backend/internal/repository"
	"sensen_backend/internal/util"
	"sensen_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo *repository.UserRepository
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Cfg:      cfg,
	}
}

type LoginResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.UserRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrBadCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, util.ErrBadCredentials
	}

	if !user.IsActive {
		return nil, util.ErrAccountInactive
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("user logged in", zap.Uint("user_id", user.ID), zap.String("role", string(user.Role)))
	return &LoginResult{Token: token, User: user}, nil
}
