package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/noah-isme/ideabank-api/internal/access"
	"github.com/noah-isme/ideabank-api/internal/dto"
	"github.com/noah-isme/ideabank-api/internal/models"
	"github.com/noah-isme/ideabank-api/internal/repository"
)

// ActivityEntry captures the details required to persist an audit entry.
type ActivityEntry struct {
	Actor      access.Actor
	Action     string
	EntityType string
	EntityID   *uint
	Metadata   map[string]interface{}
}

// ActivityRecorder defines behaviour for recording activity logs.
type ActivityRecorder interface {
	Record(ctx context.Context, entry ActivityEntry) (dto.ActivityResponse, error)
}

// ActivityService records and lists workflow audit entries.
type ActivityService interface {
	ActivityRecorder
	List(ctx context.Context, actor access.Actor, req dto.ActivityListRequest) (dto.ActivityListResponse, error)
}

type activityService struct {
	repo      repository.ActivityLogRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewActivityService constructs the activity log service.
func NewActivityService(repo repository.ActivityLogRepository, validator *validator.Validate, logger zerolog.Logger) ActivityService {
	return &activityService{
		repo:      repo,
		validator: validator,
		logger:    logger.With().Str("component", "activity_service").Logger(),
	}
}

func (s *activityService) Record(ctx context.Context, entry ActivityEntry) (dto.ActivityResponse, error) {
	action := strings.ToLower(strings.TrimSpace(entry.Action))
	if action == "" {
		return dto.ActivityResponse{}, fmt.Errorf("action is required")
	}
	entityType := strings.ToLower(strings.TrimSpace(entry.EntityType))
	if entityType == "" {
		return dto.ActivityResponse{}, fmt.Errorf("entity type is required")
	}

	model := models.ActivityLog{
		ActorID:    entry.Actor.ID,
		ActorRole:  string(entry.Actor.Role),
		Action:     action,
		EntityType: entityType,
		EntityID:   entry.EntityID,
		Metadata:   datatypes.JSONMap(entry.Metadata),
	}

	if err := s.repo.Create(ctx, &model); err != nil {
		s.logger.Error().Err(err).Str("action", action).Msg("failed to persist activity log")
		return dto.ActivityResponse{}, err
	}

	return dto.NewActivityResponse(model), nil
}

func (s *activityService) List(ctx context.Context, actor access.Actor, req dto.ActivityListRequest) (dto.ActivityListResponse, error) {
	if err := access.Authorize(access.OpListActivities, actor); err != nil {
		return dto.ActivityListResponse{}, err
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.ActivityListResponse{}, err
	}

	if req.PageSize == 0 {
		req.PageSize = 20
	}
	if req.Page == 0 {
		req.Page = 1
	}

	filter := repository.ActivityLogFilter{
		Page:       req.Page,
		PageSize:   req.PageSize,
		Action:     strings.ToLower(strings.TrimSpace(req.Action)),
		EntityType: strings.ToLower(strings.TrimSpace(req.EntityType)),
	}
	if req.ActorID > 0 {
		filter.ActorID = &req.ActorID
	}
	if req.EntityID > 0 {
		filter.EntityID = &req.EntityID
	}

	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.ActivityListResponse{}, fmt.Errorf("list activities: %w", err)
	}

	items := make([]dto.ActivityResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.NewActivityResponse(entry))
	}

	return dto.ActivityListResponse{
		Items: items,
		Pagination: dto.PaginationMeta{
			Page:       req.Page,
			PageSize:   req.PageSize,
			TotalItems: total,
			TotalPages: int(math.Ceil(float64(total) / float64(req.PageSize))),
		},
	}, nil
}
