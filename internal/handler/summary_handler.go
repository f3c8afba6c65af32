package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/ideabank-api/internal/access"
	"github.com/noah-isme/ideabank-api/internal/middleware"
	"github.com/noah-isme/ideabank-api/internal/service"
	"github.com/noah-isme/ideabank-api/internal/utils"
)

// SummaryHandler serves dashboard counts to mentors and admins.
type SummaryHandler struct {
	service service.SummaryService
	logger  zerolog.Logger
}

// NewSummaryHandler constructs the dashboard handler.
func NewSummaryHandler(service service.SummaryService, logger zerolog.Logger) *SummaryHandler {
	return &SummaryHandler{
		service: service,
		logger:  logger.With().Str("component", "summary_handler").Logger(),
	}
}

// Register attaches dashboard routes.
func (h *SummaryHandler) Register(router fiber.Router) {
	router.Get("/summary", middleware.RequireOperation(access.OpDashboardSummary), h.summary)
}

func (h *SummaryHandler) summary(c *fiber.Ctx) error {
	summary, err := h.service.Get(middleware.RequestContext(c), middleware.ActorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "dashboard summary", summary)
}
