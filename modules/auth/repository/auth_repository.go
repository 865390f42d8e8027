package repository

import (
	"context"
	"database/sql"

	"eventhub/core/database"
	"eventhub/core/logger"
	"eventhub/modules/auth/entity"

	"github.com/google/uuid"
)

type AuthRepository struct {
	DB database.IDatabase
}

func NewAuthRepository(db database.IDatabase) *AuthRepository {
	return &AuthRepository{DB: db}
}

type AuthRepositoryInterface interface {
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
}

const userColumns = `id, name, email, password, role, created_at, updated_at`

func (r *AuthRepository) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	if err := r.DB.GetContext(ctx, &user, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AuthRepository:GetUserByEmail:Error:", err)
		return nil, err
	}
	return &user, nil
}

func (r *AuthRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err := r.DB.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AuthRepository:GetUserByID:Error:", err)
		return nil, err
	}
	return &user, nil
}
