package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/ideabank-api/internal/access"
	"github.com/noah-isme/ideabank-api/internal/dto"
	"github.com/noah-isme/ideabank-api/internal/models"
	"github.com/noah-isme/ideabank-api/internal/repository"
)

const summaryCacheKey = "dashboard:summary"

// SummaryInvalidator drops cached dashboard counts after a write.
type SummaryInvalidator interface {
	Invalidate(ctx context.Context)
}

// SummaryService aggregates idea and progress counts for dashboards.
type SummaryService interface {
	SummaryInvalidator
	Get(ctx context.Context, actor access.Actor) (dto.DashboardSummaryResponse, error)
}

type summaryService struct {
	ideas    repository.IdeaRepository
	progress repository.ProgressRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewSummaryService builds the dashboard aggregator. A nil cache disables caching.
func NewSummaryService(ideas repository.IdeaRepository, progress repository.ProgressRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) SummaryService {
	return &summaryService{
		ideas:    ideas,
		progress: progress,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "summary_service").Logger(),
		now:      time.Now,
	}
}

func (s *summaryService) Get(ctx context.Context, actor access.Actor) (dto.DashboardSummaryResponse, error) {
	if err := access.Authorize(access.OpDashboardSummary, actor); err != nil {
		return dto.DashboardSummaryResponse{}, err
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, summaryCacheKey).Result()
		switch {
		case err == nil:
			var response dto.DashboardSummaryResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Msg("summary cache hit")
				return response, nil
			}
		case !errors.Is(err, redis.Nil):
			s.logger.Warn().Err(err).Msg("failed to read summary cache")
		}
	}

	ideaCounts, err := s.ideas.CountByStatus(ctx)
	if err != nil {
		return dto.DashboardSummaryResponse{}, fmt.Errorf("count ideas: %w", err)
	}
	progressCounts, err := s.progress.CountByStatus(ctx)
	if err != nil {
		return dto.DashboardSummaryResponse{}, fmt.Errorf("count progress: %w", err)
	}

	response := buildSummary(ideaCounts, progressCounts, s.now().UTC())

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, summaryCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store summary cache")
			}
		}
	}

	return response, nil
}

func (s *summaryService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, summaryCacheKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate summary cache")
	}
}

func buildSummary(ideas map[models.IdeaStatus]int64, progress map[models.ProgressStatus]int64, generatedAt time.Time) dto.DashboardSummaryResponse {
	summary := dto.DashboardSummaryResponse{
		Ideas: dto.IdeaStatusCounts{
			Pending:  ideas[models.IdeaStatusPending],
			Approved: ideas[models.IdeaStatusApproved],
			Rejected: ideas[models.IdeaStatusRejected],
		},
		Progress: dto.ProgressStatusCounts{
			Pending:          progress[models.ProgressStatusPending],
			Reviewed:         progress[models.ProgressStatusReviewed],
			NeedsImprovement: progress[models.ProgressStatusNeedsImprovement],
		},
		GeneratedAt: generatedAt,
	}
	// Totals include statuses outside the known sets, e.g. free-form review statuses.
	for _, count := range ideas {
		summary.Ideas.Total += count
	}
	for _, count := range progress {
		summary.Progress.Total += count
	}
	return summary
}
