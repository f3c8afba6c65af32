package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/ideabank-api/internal/access"
	"github.com/noah-isme/ideabank-api/internal/dto"
	"github.com/noah-isme/ideabank-api/internal/middleware"
	"github.com/noah-isme/ideabank-api/internal/service"
	"github.com/noah-isme/ideabank-api/internal/utils"
)

// AdminActivityHandler exposes the workflow audit trail.
type AdminActivityHandler struct {
	service service.ActivityService
	logger  zerolog.Logger
}

// NewAdminActivityHandler constructs the handler.
func NewAdminActivityHandler(service service.ActivityService, logger zerolog.Logger) *AdminActivityHandler {
	return &AdminActivityHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_activity_handler").Logger(),
	}
}

// Register attaches activity log routes to the router group.
func (h *AdminActivityHandler) Register(router fiber.Router) {
	router.Get("/activities", middleware.RequireOperation(access.OpListActivities), h.list)
}

func (h *AdminActivityHandler) list(c *fiber.Ctx) error {
	var req dto.ActivityListRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	response, err := h.service.List(middleware.RequestContext(c), middleware.ActorFromContext(c), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "activity logs", response)
}
