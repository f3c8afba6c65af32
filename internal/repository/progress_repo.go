package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/ideabank-api/internal/models"
)

// ProgressFilter narrows progress listing queries. Zero values are ignored.
type ProgressFilter struct {
	IdeaID    *uint
	StudentID *uint
	Status    *models.ProgressStatus
	// WithIdea and WithStudent preload the referenced idea and student.
	WithIdea    bool
	WithStudent bool
}

// ProgressRepository persists idea progress updates.
type ProgressRepository interface {
	Create(ctx context.Context, progress *models.IdeaProgress) error
	GetByID(ctx context.Context, id uint, withRelations bool) (models.IdeaProgress, error)
	List(ctx context.Context, filter ProgressFilter) ([]models.IdeaProgress, error)
	UpdateReview(ctx context.Context, progress *models.IdeaProgress) error
	CountByStatus(ctx context.Context) (map[models.ProgressStatus]int64, error)
	CountStale(ctx context.Context, status models.ProgressStatus, before time.Time) (int64, error)
}

type progressRepository struct {
	db *gorm.DB
}

// NewProgressRepository constructs a repository backed by GORM.
func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) Create(ctx context.Context, progress *models.IdeaProgress) error {
	return r.db.WithContext(ctx).Omit("Idea", "Student").Create(progress).Error
}

func (r *progressRepository) GetByID(ctx context.Context, id uint, withRelations bool) (models.IdeaProgress, error) {
	query := r.db.WithContext(ctx)
	if withRelations {
		query = query.Preload("Idea").Preload("Student")
	}

	var progress models.IdeaProgress
	if err := query.First(&progress, id).Error; err != nil {
		return models.IdeaProgress{}, err
	}
	return progress, nil
}

func (r *progressRepository) List(ctx context.Context, filter ProgressFilter) ([]models.IdeaProgress, error) {
	query := r.db.WithContext(ctx).Model(&models.IdeaProgress{})

	if filter.IdeaID != nil {
		query = query.Where("idea_id = ?", *filter.IdeaID)
	}
	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.WithIdea {
		query = query.Preload("Idea")
	}
	if filter.WithStudent {
		query = query.Preload("Student")
	}

	var records []models.IdeaProgress
	if err := query.Order("updated_at DESC").Order("id DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// UpdateReview writes only the reviewed columns so updated_at keeps its creation stamp.
func (r *progressRepository) UpdateReview(ctx context.Context, progress *models.IdeaProgress) error {
	result := r.db.WithContext(ctx).
		Model(&models.IdeaProgress{}).
		Where("id = ?", progress.ID).
		Updates(map[string]interface{}{
			"mentor_remark": progress.MentorRemark,
			"status":        progress.Status,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *progressRepository) CountByStatus(ctx context.Context) (map[models.ProgressStatus]int64, error) {
	var rows []struct {
		Status models.ProgressStatus
		Total  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.IdeaProgress{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[models.ProgressStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

// CountStale counts records in status whose last update happened before the cutoff.
func (r *progressRepository) CountStale(ctx context.Context, status models.ProgressStatus, before time.Time) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.IdeaProgress{}).
		Where("status = ? AND updated_at < ?", status, before).
		Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
