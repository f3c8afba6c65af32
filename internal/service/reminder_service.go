package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/ideabank-api/internal/access"
	"github.com/noah-isme/ideabank-api/internal/dto"
	"github.com/noah-isme/ideabank-api/internal/models"
	"github.com/noah-isme/ideabank-api/internal/repository"
)

// ReviewReminder nudges mentors when progress updates wait too long for review.
type ReviewReminder interface {
	Run(ctx context.Context) (int, error)
}

type reviewReminder struct {
	progress   repository.ProgressRepository
	users      repository.UserRepository
	notifier   Notifier
	staleAfter time.Duration
	logger     zerolog.Logger
	now        func() time.Time
}

// NewReviewReminder constructs the reminder job. Updates pending longer than staleAfter count as stale.
func NewReviewReminder(progress repository.ProgressRepository, users repository.UserRepository, notifier Notifier, staleAfter time.Duration, logger zerolog.Logger) ReviewReminder {
	if staleAfter <= 0 {
		staleAfter = 24 * time.Hour
	}
	return &reviewReminder{
		progress:   progress,
		users:      users,
		notifier:   notifier,
		staleAfter: staleAfter,
		logger:     logger.With().Str("component", "review_reminder").Logger(),
		now:        time.Now,
	}
}

// Run notifies every mentor about stale pending updates and returns how many were reached.
func (r *reviewReminder) Run(ctx context.Context) (int, error) {
	cutoff := r.now().UTC().Add(-r.staleAfter)
	stale, err := r.progress.CountStale(ctx, models.ProgressStatusPending, cutoff)
	if err != nil {
		return 0, fmt.Errorf("count stale progress: %w", err)
	}
	if stale == 0 {
		r.logger.Debug().Msg("no stale progress updates")
		return 0, nil
	}

	mentors, err := r.users.ListByRole(ctx, string(access.RoleMentor))
	if err != nil {
		return 0, fmt.Errorf("list mentors: %w", err)
	}

	message := fmt.Sprintf("%d progress updates are waiting for review", stale)
	if stale == 1 {
		message = "1 progress update is waiting for review"
	}

	reached := 0
	for _, mentor := range mentors {
		if _, err := r.notifier.Publish(ctx, dto.NotificationCreateRequest{
			UserID:  mentor.ID,
			Type:    models.NotificationTypeReviewReminder,
			Message: message,
		}); err != nil {
			r.logger.Warn().Err(err).Uint("user_id", mentor.ID).Msg("failed to send review reminder")
			continue
		}
		reached++
	}

	r.logger.Info().Int64("stale", stale).Int("mentors", reached).Msg("review reminders sent")
	return reached, nil
}
