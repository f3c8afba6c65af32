package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/ideabank-api/internal/models"
)

// IdeaRepository reads ideas referenced by progress updates.
type IdeaRepository interface {
	GetByID(ctx context.Context, id uint) (models.Idea, error)
	CountByStatus(ctx context.Context) (map[models.IdeaStatus]int64, error)
}

type ideaRepository struct {
	db *gorm.DB
}

// NewIdeaRepository constructs the idea repository.
func NewIdeaRepository(db *gorm.DB) IdeaRepository {
	return &ideaRepository{db: db}
}

func (r *ideaRepository) GetByID(ctx context.Context, id uint) (models.Idea, error) {
	var idea models.Idea
	if err := r.db.WithContext(ctx).First(&idea, id).Error; err != nil {
		return models.Idea{}, err
	}
	return idea, nil
}

func (r *ideaRepository) CountByStatus(ctx context.Context) (map[models.IdeaStatus]int64, error) {
	var rows []struct {
		Status models.IdeaStatus
		Total  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Idea{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[models.IdeaStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}
