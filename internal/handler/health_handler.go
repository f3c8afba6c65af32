package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/noah-isme/ideabank-api/internal/config"
	"github.com/noah-isme/ideabank-api/internal/utils"
)

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Service     string    `json:"service"`
	Environment string    `json:"environment"`
	Database    string    `json:"database"`
}

// HealthCheck reports service health. A failing database ping turns the response into a 503.
func HealthCheck(cfg config.Config, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:      "ok",
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
			Database:    "unknown",
		}

		if db != nil {
			payload.Database = "up"
			if err := pingDatabase(c.UserContext(), db); err != nil {
				payload.Status = "degraded"
				payload.Database = "down"
				return utils.SendSuccessWithStatus(c, fiber.StatusServiceUnavailable, "service degraded", payload)
			}
		}

		return utils.SendSuccess(c, "service healthy", payload)
	}
}

func pingDatabase(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}
