package router

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/noah-isme/ideabank-api/internal/config"
	"github.com/noah-isme/ideabank-api/internal/handler"
	"github.com/noah-isme/ideabank-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ProgressHandler      *handler.ProgressHandler
	NotificationHandler  *handler.NotificationHandler
	SummaryHandler       *handler.SummaryHandler
	AdminActivityHandler *handler.AdminActivityHandler
	JWTMiddleware        fiber.Handler
	DB                   *gorm.DB
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.DB))
	api.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.ProgressHandler != nil {
		deps.ProgressHandler.Register(api.Group("/progress", jwtMiddleware))
	}

	if deps.NotificationHandler != nil {
		deps.NotificationHandler.Register(api.Group("/notifications", jwtMiddleware))
	}

	if deps.SummaryHandler != nil {
		deps.SummaryHandler.Register(api.Group("/dashboard", jwtMiddleware))
	}

	if deps.AdminActivityHandler != nil {
		deps.AdminActivityHandler.Register(api.Group("/admin", jwtMiddleware))
	}
}
