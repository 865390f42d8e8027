package service

import (
	"context"
	"time"

	"eventhub/core/cache"
	"eventhub/core/errors"
	"eventhub/core/logger"
	"eventhub/core/utils"
	"eventhub/modules/auth/dto"
	"eventhub/modules/auth/entity"
	"eventhub/modules/auth/repository"

	"github.com/google/uuid"
)

type AuthService struct {
	repo  repository.AuthRepositoryInterface
	cache cache.ICache
}

func NewAuthService(repo repository.AuthRepositoryInterface, cache cache.ICache) *AuthService {
	return &AuthService{repo: repo, cache: cache}
}

func (service *AuthService) Login(ctx context.Context, requestData *dto.LoginRequest) (*dto.LoginResponse, *errors.AppError) {
	if requestData.Email == "" || requestData.Password == "" {
		return nil, errors.NewAppError(errors.ErrInvalidRequestData, "email and password are required", nil)
	}

	user, err := service.repo.GetUserByEmail(ctx, requestData.Email)
	if err != nil {
		logger.Error("AuthService:Login:GetUserByEmail:Error:", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get user", err)
	}
	if user == nil || !utils.CheckPassword(user.Password, requestData.Password) {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid credentials", nil)
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		logger.Error("AuthService:Login:GenerateToken:Error:", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to generate token", err)
	}

	return &dto.LoginResponse{
		Token: token,
		User: dto.UserResponse{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		},
	}, nil
}

// Logout blacklists the token for the remainder of its lifetime.
func (service *AuthService) Logout(ctx context.Context, token string) *errors.AppError {
	claims, err := utils.ValidateAndParseToken(token)
	if err != nil {
		return errors.NewAppError(errors.ErrInvalidTokenFormat, "invalid token", err)
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	if err := service.cache.BlacklistToken(ctx, token, ttl); err != nil {
		logger.Error("AuthService:Logout:BlacklistToken:Error:", err)
		return errors.NewAppError(errors.ErrInternalServer, "failed to blacklist token", err)
	}
	return nil
}

func (service *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, *errors.AppError) {
	user, err := service.repo.GetUserByID(ctx, id)
	if err != nil {
		logger.Error("AuthService:GetUserByID:Error:", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get user", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "user not found", nil)
	}
	return user, nil
}
