package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/ideabank-api/internal/models"
)

// UserRepository reads platform accounts.
type UserRepository interface {
	ListByRole(ctx context.Context, role string) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository constructs the user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) ListByRole(ctx context.Context, role string) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Where("role = ?", role).Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
