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

// ProgressHandler exposes the progress submission and review workflow.
type ProgressHandler struct {
	service     service.ProgressService
	logger      zerolog.Logger
	submitLimit fiber.Handler
}

// NewProgressHandler constructs the handler. submitLimit throttles submissions and may be nil.
func NewProgressHandler(service service.ProgressService, logger zerolog.Logger, submitLimit fiber.Handler) *ProgressHandler {
	return &ProgressHandler{
		service:     service,
		logger:      logger.With().Str("component", "progress_handler").Logger(),
		submitLimit: submitLimit,
	}
}

// Register attaches progress endpoints to the router group.
func (h *ProgressHandler) Register(router fiber.Router) {
	submit := []fiber.Handler{middleware.RequireOperation(access.OpSubmitProgress)}
	if h.submitLimit != nil {
		submit = append(submit, h.submitLimit)
	}
	router.Post("/update", append(submit, h.submit)...)
	router.Get("/pending", middleware.RequireOperation(access.OpListPending), h.listPending)
	router.Get("/my/:ideaId", middleware.RequireOperation(access.OpListMine), h.listMine)
	router.Put("/review/:progressId", middleware.RequireOperation(access.OpReviewProgress), h.review)
	router.Get("/all", middleware.RequireOperation(access.OpListAll), h.listAll)
	router.Get("/idea/:ideaId", middleware.RequireOperation(access.OpListForIdea), h.listForIdea)
	router.Get("/:progressId", middleware.RequireOperation(access.OpGetProgress), h.get)
}

func (h *ProgressHandler) submit(c *fiber.Ctx) error {
	var payload dto.ProgressSubmitRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request payload")
	}

	progress, err := h.service.Submit(middleware.RequestContext(c), middleware.ActorFromContext(c), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "progress submitted", progress)
}

func (h *ProgressHandler) listPending(c *fiber.Ctx) error {
	items, err := h.service.ListPending(middleware.RequestContext(c), middleware.ActorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "pending progress retrieved", items)
}

func (h *ProgressHandler) listMine(c *fiber.Ctx) error {
	ideaID, err := parseUintParam(c, "ideaId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	items, err := h.service.ListMine(middleware.RequestContext(c), middleware.ActorFromContext(c), ideaID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "progress history retrieved", items)
}

func (h *ProgressHandler) review(c *fiber.Ctx) error {
	progressID, err := parseUintParam(c, "progressId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ProgressReviewRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request payload")
	}

	progress, err := h.service.Review(middleware.RequestContext(c), middleware.ActorFromContext(c), progressID, payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "progress reviewed", progress)
}

func (h *ProgressHandler) listAll(c *fiber.Ctx) error {
	items, err := h.service.ListAll(middleware.RequestContext(c), middleware.ActorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "progress retrieved", items)
}

func (h *ProgressHandler) listForIdea(c *fiber.Ctx) error {
	ideaID, err := parseUintParam(c, "ideaId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	items, err := h.service.ListForIdea(middleware.RequestContext(c), middleware.ActorFromContext(c), ideaID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "idea progress retrieved", items)
}

func (h *ProgressHandler) get(c *fiber.Ctx) error {
	progressID, err := parseUintParam(c, "progressId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	progress, err := h.service.GetOne(middleware.RequestContext(c), middleware.ActorFromContext(c), progressID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "progress retrieved", progress)
}
