package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/ideabank-api/internal/access"
	"github.com/noah-isme/ideabank-api/internal/dto"
	"github.com/noah-isme/ideabank-api/internal/models"
	"github.com/noah-isme/ideabank-api/internal/observability"
	"github.com/noah-isme/ideabank-api/internal/repository"
)

const notificationBufferSize = 16

// ErrNotificationNotFound indicates the notification does not exist for the caller.
var ErrNotificationNotFound = errors.New("notification not found")

// Notifier delivers a notification to a single user.
type Notifier interface {
	Publish(ctx context.Context, payload dto.NotificationCreateRequest) (dto.NotificationResponse, error)
}

// NotificationService stores notifications and streams them to connected users.
type NotificationService interface {
	Notifier
	List(ctx context.Context, actor access.Actor, query dto.NotificationListQuery) ([]dto.NotificationResponse, error)
	MarkRead(ctx context.Context, actor access.Actor, id uint) (dto.NotificationResponse, error)
	MarkAllRead(ctx context.Context, actor access.Actor) (int64, error)
	Subscribe(userID uint) (<-chan dto.NotificationResponse, func())
	Start(ctx context.Context)
}

// NotificationTransport carries notifications between API nodes. Both fields are optional.
type NotificationTransport struct {
	Redis   *redis.Client
	NATS    *nats.Conn
	Channel string
}

type notificationService struct {
	repo        repository.NotificationRepository
	redis       *redis.Client
	redisTopic  string
	nats        *nats.Conn
	natsSubject string
	validator   *validator.Validate
	logger      zerolog.Logger
	tracer      trace.Tracer
	broker      *notificationBroker
	nodeID      string
}

type notificationEvent struct {
	Source       string                   `json:"source"`
	Notification dto.NotificationResponse `json:"notification"`
	SentAt       time.Time                `json:"sent_at"`
}

type notificationBroker struct {
	mu          sync.RWMutex
	subscribers map[uint]map[chan dto.NotificationResponse]struct{}
}

// NewNotificationService constructs a notification service.
func NewNotificationService(repo repository.NotificationRepository, transport NotificationTransport, validate *validator.Validate, logger zerolog.Logger) NotificationService {
	topic := ""
	subject := ""
	if base := strings.TrimSpace(transport.Channel); base != "" {
		topic = base + ":notifications"
		subject = strings.ReplaceAll(base, ":", ".") + ".notifications"
	}

	return &notificationService{
		repo:        repo,
		redis:       transport.Redis,
		redisTopic:  topic,
		nats:        transport.NATS,
		natsSubject: subject,
		validator:   validate,
		logger:      logger.With().Str("component", "notification_service").Logger(),
		tracer:      otel.Tracer("github.com/noah-isme/ideabank-api/internal/service/notification"),
		broker: &notificationBroker{
			subscribers: make(map[uint]map[chan dto.NotificationResponse]struct{}),
		},
		nodeID: uuid.NewString(),
	}
}

func (s *notificationService) Start(ctx context.Context) {
	if s.redis != nil && s.redisTopic != "" {
		go s.consumeRedis(ctx)
	}
	if s.nats != nil && s.natsSubject != "" {
		go s.consumeNATS(ctx)
	}
}

func (s *notificationService) Publish(ctx context.Context, payload dto.NotificationCreateRequest) (dto.NotificationResponse, error) {
	payload.Message = plainText(payload.Message)
	if err := s.validator.Struct(payload); err != nil {
		return dto.NotificationResponse{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "notifications.publish", trace.WithAttributes(
		attribute.Int64("notification.user_id", int64(payload.UserID)),
		attribute.String("notification.type", payload.Type),
	))
	defer span.End()

	model := models.Notification{
		UserID:  payload.UserID,
		Type:    payload.Type,
		Message: payload.Message,
	}

	if err := s.repo.Create(spanCtx, &model); err != nil {
		span.RecordError(err)
		return dto.NotificationResponse{}, fmt.Errorf("store notification: %w", err)
	}

	response := dto.NewNotificationResponse(model)
	s.broker.broadcast(response)
	observability.NotificationsPublished().WithLabelValues(response.Type).Inc()

	if err := s.fanOut(spanCtx, response); err != nil {
		s.logger.Warn().Err(err).Uint("user_id", response.UserID).Msg("failed to fan out notification")
	}

	return response, nil
}

func (s *notificationService) List(ctx context.Context, actor access.Actor, query dto.NotificationListQuery) ([]dto.NotificationResponse, error) {
	if err := access.Authorize(access.OpNotifications, actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(query); err != nil {
		return nil, err
	}

	notifications, err := s.repo.ListByUser(ctx, actor.ID, query.UnreadOnly, query.Limit, query.Offset)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	return dto.NewNotificationResponseSlice(notifications), nil
}

func (s *notificationService) MarkRead(ctx context.Context, actor access.Actor, id uint) (dto.NotificationResponse, error) {
	if err := access.Authorize(access.OpNotifications, actor); err != nil {
		return dto.NotificationResponse{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "notifications.mark_read", trace.WithAttributes(
		attribute.Int64("notification.user_id", int64(actor.ID)),
	))
	defer span.End()

	notification, err := s.repo.MarkRead(spanCtx, id, actor.ID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.NotificationResponse{}, ErrNotificationNotFound
		}
		return dto.NotificationResponse{}, fmt.Errorf("mark notification read: %w", err)
	}

	return dto.NewNotificationResponse(notification), nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, actor access.Actor) (int64, error) {
	if err := access.Authorize(access.OpNotifications, actor); err != nil {
		return 0, err
	}

	updated, err := s.repo.MarkAllRead(ctx, actor.ID)
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}
	return updated, nil
}

func (s *notificationService) Subscribe(userID uint) (<-chan dto.NotificationResponse, func()) {
	channel := make(chan dto.NotificationResponse, notificationBufferSize)

	s.broker.subscribe(userID, channel)
	observability.NotificationStreams().Inc()

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			s.broker.unsubscribe(userID, channel)
			observability.NotificationStreams().Dec()
		})
	}

	return channel, cleanup
}

func (s *notificationService) fanOut(ctx context.Context, notification dto.NotificationResponse) error {
	if s.redis == nil && s.nats == nil {
		return nil
	}

	payload, err := json.Marshal(notificationEvent{
		Source:       s.nodeID,
		Notification: notification,
		SentAt:       time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	var errs []error
	if s.redis != nil && s.redisTopic != "" {
		if err := s.redis.Publish(ctx, s.redisTopic, payload).Err(); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	if s.nats != nil && s.natsSubject != "" {
		if err := s.nats.Publish(s.natsSubject, payload); err != nil {
			errs = append(errs, fmt.Errorf("nats: %w", err))
		}
	}

	return errors.Join(errs...)
}

func (s *notificationService) consumeRedis(ctx context.Context) {
	pubsub := s.redis.Subscribe(ctx, s.redisTopic)
	defer func() { _ = pubsub.Close() }()

	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, redis.ErrClosed) {
				return
			}
			s.logger.Error().Err(err).Msg("notification redis subscription closed")
			return
		}
		s.handleEvent([]byte(msg.Payload))
	}
}

func (s *notificationService) consumeNATS(ctx context.Context) {
	sub, err := s.nats.Subscribe(s.natsSubject, func(msg *nats.Msg) {
		s.handleEvent(msg.Data)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to subscribe to nats notifications subject")
		return
	}

	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to drain notification nats subscription")
		}
	}()
}

// handleEvent delivers notifications published by other nodes to local subscribers.
func (s *notificationService) handleEvent(payload []byte) {
	var event notificationEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		s.logger.Warn().Err(err).Msg("invalid notification event payload")
		return
	}

	if event.Source == s.nodeID || event.Notification.UserID == 0 {
		return
	}

	s.broker.broadcast(event.Notification)
}

func (b *notificationBroker) subscribe(userID uint, ch chan dto.NotificationResponse) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.subscribers[userID]; !exists {
		b.subscribers[userID] = make(map[chan dto.NotificationResponse]struct{})
	}
	b.subscribers[userID][ch] = struct{}{}
}

func (b *notificationBroker) unsubscribe(userID uint, ch chan dto.NotificationResponse) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if subscribers, ok := b.subscribers[userID]; ok {
		delete(subscribers, ch)
		close(ch)
		if len(subscribers) == 0 {
			delete(b.subscribers, userID)
		}
	}
}

// broadcast never blocks; a full subscriber buffer drops the event.
func (b *notificationBroker) broadcast(notification dto.NotificationResponse) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subscribers[notification.UserID] {
		select {
		case ch <- notification:
		default:
		}
	}
}
