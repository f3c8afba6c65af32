package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/ideabank-api/internal/config"
	"github.com/noah-isme/ideabank-api/internal/database"
	"github.com/noah-isme/ideabank-api/internal/handler"
	"github.com/noah-isme/ideabank-api/internal/middleware"
	"github.com/noah-isme/ideabank-api/internal/repository"
	"github.com/noah-isme/ideabank-api/internal/router"
	"github.com/noah-isme/ideabank-api/internal/scheduler"
	"github.com/noah-isme/ideabank-api/internal/service"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	if cfg.AppEnv == "development" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis disabled: summary cache and notification fan-out off")
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to nats")
		}
		defer natsConn.Drain()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	progressRepo := repository.NewProgressRepository(db)
	ideaRepo := repository.NewIdeaRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	notificationService := service.NewNotificationService(notificationRepo, service.NotificationTransport{
		Redis:   redisClient,
		NATS:    natsConn,
		Channel: cfg.NotificationsChannel,
	}, validate, logger)
	notificationService.Start(ctx)

	activityService := service.NewActivityService(activityRepo, validate, logger)
	summaryService := service.NewSummaryService(ideaRepo, progressRepo, redisClient, cfg.SummaryCacheTTL, logger)
	progressService := service.NewProgressService(progressRepo, ideaRepo, service.ProgressDependencies{
		Notifier: notificationService,
		Activity: activityService,
		Summary:  summaryService,
	}, validate, logger)

	jobs := scheduler.New(logger, time.UTC)
	if cfg.RemindersEnabled() {
		reminder := service.NewReviewReminder(progressRepo, repository.NewUserRepository(db), notificationService, cfg.ReminderStaleAfter, logger)
		if err := jobs.Add("review_reminder", cfg.ReminderSchedule, time.Minute, func(ctx context.Context) error {
			_, err := reminder.Run(ctx)
			return err
		}); err != nil {
			logger.Fatal().Err(err).Msg("failed to schedule review reminders")
		}
	}
	jobs.Start()

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AccessLog: cfg.AppEnv == "development"})
	router.Register(app, cfg, router.Dependencies{
		ProgressHandler:      handler.NewProgressHandler(progressService, logger, middleware.RateLimit("progress_submit", cfg.SubmitRateLimit, cfg.SubmitRateWindow)),
		NotificationHandler:  handler.NewNotificationHandler(notificationService, logger, cfg.NotificationKeepAlive),
		SummaryHandler:       handler.NewSummaryHandler(summaryService, logger),
		AdminActivityHandler: handler.NewAdminActivityHandler(activityService, logger),
		JWTMiddleware:        middleware.JWTProtected(cfg.JWTSecret),
		DB:                   db,
	})

	go func() {
		logger.Info().Str("address", cfg.HTTPAddress()).Msg("starting http server")
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	waitForShutdown(app, jobs, logger)
}

func waitForShutdown(app *fiber.App, jobs *scheduler.Scheduler, logger zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	if err := jobs.Stop(ctx); err != nil {
		logger.Warn().Err(err).Msg("scheduled jobs still running at shutdown")
	}

	logger.Info().Msg("server stopped")
}
