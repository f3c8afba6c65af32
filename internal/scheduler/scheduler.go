package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job is a unit of background work run on a cron schedule.
type Job func(ctx context.Context) error

// Scheduler runs background jobs such as review reminders.
type Scheduler struct {
	cron   *cron.Cron
	logger zerolog.Logger
}

// New creates a scheduler evaluating cron specs in location. A nil location means UTC.
func New(logger zerolog.Logger, location *time.Location) *Scheduler {
	if location == nil {
		location = time.UTC
	}
	logger = logger.With().Str("component", "scheduler").Logger()
	cronLogger := cron.PrintfLogger(&logger)

	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(location),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		logger: logger,
	}
}

// Add registers job under spec. Each run gets its own context bounded by timeout.
func (s *Scheduler) Add(name, spec string, timeout time.Duration, job Job) error {
	if timeout <= 0 {
		timeout = time.Minute
	}

	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		started := time.Now()
		if err := job(ctx); err != nil {
			s.logger.Error().Err(err).Str("job", name).Msg("scheduled job failed")
			return
		}
		s.logger.Debug().Str("job", name).Dur("took", time.Since(started)).Msg("scheduled job finished")
	})
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}

	s.logger.Info().Str("job", name).Str("spec", spec).Msg("job scheduled")
	return nil
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and waits for running jobs or ctx, whichever ends first.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
