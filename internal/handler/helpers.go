package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/ideabank-api/internal/access"
	"github.com/noah-isme/ideabank-api/internal/middleware"
	"github.com/noah-isme/ideabank-api/internal/service"
	"github.com/noah-isme/ideabank-api/internal/utils"
)

func parseUintParam(c *fiber.Ctx, name string) (uint, error) {
	value := strings.TrimSpace(c.Params(name))
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil || parsed == 0 {
		return 0, errors.New("invalid identifier")
	}
	return uint(parsed), nil
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

// respondError maps service errors onto HTTP statuses. Unknown errors are logged and hidden.
func respondError(c *fiber.Ctx, logger zerolog.Logger, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrors):
		return utils.SendValidationError(c, validationErrors)
	case errors.Is(err, service.ErrIdeaNotEligible):
		return utils.SendError(c, fiber.StatusForbidden, "cannot update progress")
	case errors.Is(err, access.ErrForbidden):
		return utils.SendError(c, fiber.StatusForbidden, "forbidden")
	case errors.Is(err, service.ErrProgressNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "progress not found")
	case errors.Is(err, service.ErrNotificationNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "notification not found")
	default:
		requestLogger(logger, c).Error().Err(err).Str("route", c.Path()).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
