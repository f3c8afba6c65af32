package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/ideabank-api/internal/access"
	"github.com/noah-isme/ideabank-api/internal/dto"
	"github.com/noah-isme/ideabank-api/internal/middleware"
	"github.com/noah-isme/ideabank-api/internal/service"
	"github.com/noah-isme/ideabank-api/internal/utils"
)

const (
	socketActorLocal   = "notification_actor"
	socketContextLocal = "notification_ctx"
)

// NotificationHandler serves a user's notifications over REST, SSE and websockets.
type NotificationHandler struct {
	service   service.NotificationService
	logger    zerolog.Logger
	keepAlive time.Duration
}

// NewNotificationHandler constructs a handler instance.
func NewNotificationHandler(service service.NotificationService, logger zerolog.Logger, keepAlive time.Duration) *NotificationHandler {
	if keepAlive <= 0 {
		keepAlive = 30 * time.Second
	}
	return &NotificationHandler{
		service:   service,
		logger:    logger.With().Str("component", "notification_handler").Logger(),
		keepAlive: keepAlive,
	}
}

// Register binds the notification routes.
func (h *NotificationHandler) Register(router fiber.Router) {
	router.Use(middleware.RequireOperation(access.OpNotifications))
	router.Get("/", h.list)
	router.Get("/stream", h.stream)
	router.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		c.Locals(socketActorLocal, middleware.ActorFromContext(c))
		c.Locals(socketContextLocal, middleware.RequestContext(c))
		return c.Next()
	})
	router.Get("/ws", websocket.New(h.socket))
	router.Patch("/read-all", h.markAllRead)
	router.Patch("/:id/read", h.markRead)
}

func (h *NotificationHandler) list(c *fiber.Ctx) error {
	var query dto.NotificationListQuery
	if err := c.QueryParser(&query); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	notifications, err := h.service.List(middleware.RequestContext(c), middleware.ActorFromContext(c), query)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "notifications", notifications)
}

func (h *NotificationHandler) markRead(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid notification id")
	}

	notification, err := h.service.MarkRead(middleware.RequestContext(c), middleware.ActorFromContext(c), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "notification updated", notification)
}

func (h *NotificationHandler) markAllRead(c *fiber.Ctx) error {
	updated, err := h.service.MarkAllRead(middleware.RequestContext(c), middleware.ActorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "notifications updated", fiber.Map{"updated": updated})
}

func (h *NotificationHandler) stream(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	ctx, cancel := context.WithCancel(middleware.RequestContext(c))
	stream, cleanup := h.service.Subscribe(actor.ID)

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer func() {
			cleanup()
			cancel()
		}()

		ticker := time.NewTicker(h.keepAlive)
		defer ticker.Stop()

		for {
			select {
			case notification, ok := <-stream:
				if !ok {
					return
				}
				if err := writeNotificationEvent(w, notification); err != nil {
					h.logger.Debug().Err(err).Uint("user_id", actor.ID).Msg("failed to write notification event")
					return
				}
			case <-ticker.C:
				if err := writeKeepAlive(w); err != nil {
					h.logger.Debug().Err(err).Uint("user_id", actor.ID).Msg("notification stream closed")
					return
				}
			case <-ctx.Done():
				return
			}
		}
	})

	return nil
}

func (h *NotificationHandler) socket(conn *websocket.Conn) {
	actor, _ := conn.Locals(socketActorLocal).(access.Actor)
	if actor.ID == 0 {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "user not authenticated"))
		_ = conn.Close()
		return
	}

	baseCtx, _ := conn.Locals(socketContextLocal).(context.Context)
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	stream, cleanup := h.service.Subscribe(actor.ID)
	defer cleanup()

	// Clients never send anything meaningful; reading only detects disconnects.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	h.logger.Info().Uint("user_id", actor.ID).Msg("notification websocket connected")
	defer h.logger.Info().Uint("user_id", actor.ID).Msg("notification websocket disconnected")

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case notification, ok := <-stream:
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.WriteJSON(notification); err != nil {
				h.logger.Debug().Err(err).Uint("user_id", actor.ID).Msg("failed to write notification frame")
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func writeNotificationEvent(w *bufio.Writer, notification dto.NotificationResponse) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "id: %d\nevent: notification\ndata: %s\n\n", notification.ID, payload); err != nil {
		return err
	}
	return w.Flush()
}

func writeKeepAlive(w *bufio.Writer) error {
	if _, err := fmt.Fprintf(w, ": keep-alive %s\n\n", time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	return w.Flush()
}
