package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/ideabank-api/internal/access"
	"github.com/noah-isme/ideabank-api/internal/dto"
	"github.com/noah-isme/ideabank-api/internal/models"
	"github.com/noah-isme/ideabank-api/internal/observability"
	"github.com/noah-isme/ideabank-api/internal/repository"
)

var (
	// ErrIdeaNotEligible covers a missing idea, an idea owned by someone else and an idea
	// that is not approved. Callers cannot tell these apart.
	ErrIdeaNotEligible = fmt.Errorf("cannot update progress: %w", access.ErrForbidden)
	// ErrProgressNotFound indicates the progress record does not exist.
	ErrProgressNotFound = errors.New("progress not found")
)

// ProgressService implements the progress submission and review workflow.
type ProgressService interface {
	Submit(ctx context.Context, actor access.Actor, payload dto.ProgressSubmitRequest) (dto.ProgressResponse, error)
	ListPending(ctx context.Context, actor access.Actor) ([]dto.ProgressResponse, error)
	ListMine(ctx context.Context, actor access.Actor, ideaID uint) ([]dto.ProgressResponse, error)
	Review(ctx context.Context, actor access.Actor, progressID uint, payload dto.ProgressReviewRequest) (dto.ProgressResponse, error)
	ListAll(ctx context.Context, actor access.Actor) ([]dto.ProgressResponse, error)
	ListForIdea(ctx context.Context, actor access.Actor, ideaID uint) ([]dto.ProgressResponse, error)
	GetOne(ctx context.Context, actor access.Actor, progressID uint) (dto.ProgressResponse, error)
}

// ProgressDependencies groups the best-effort collaborators of the workflow. Any may be nil.
type ProgressDependencies struct {
	Notifier Notifier
	Activity ActivityRecorder
	Summary  SummaryInvalidator
}

type progressService struct {
	progress  repository.ProgressRepository
	ideas     repository.IdeaRepository
	notifier  Notifier
	activity  ActivityRecorder
	summary   SummaryInvalidator
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewProgressService constructs the workflow service.
func NewProgressService(progress repository.ProgressRepository, ideas repository.IdeaRepository, deps ProgressDependencies, validate *validator.Validate, logger zerolog.Logger) ProgressService {
	return &progressService{
		progress:  progress,
		ideas:     ideas,
		notifier:  deps.Notifier,
		activity:  deps.Activity,
		summary:   deps.Summary,
		validator: validate,
		logger:    logger.With().Str("component", "progress_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/ideabank-api/internal/service/progress"),
		now:       time.Now,
	}
}

func (s *progressService) Submit(ctx context.Context, actor access.Actor, payload dto.ProgressSubmitRequest) (dto.ProgressResponse, error) {
	ctx, span := s.startSpan(ctx, "progress.submit", actor)
	defer span.End()

	if err := access.Authorize(access.OpSubmitProgress, actor); err != nil {
		return dto.ProgressResponse{}, fail(span, err, "forbidden")
	}

	span.SetAttributes(attribute.Int64("progress.idea_id", int64(payload.IdeaID)))

	// Eligibility is settled before the payload is validated so an ineligible idea is
	// always Forbidden.
	if payload.IdeaID == 0 {
		s.logger.Debug().Uint("student_id", actor.ID).Msg("progress rejected: idea id missing")
		return dto.ProgressResponse{}, fail(span, ErrIdeaNotEligible, "idea_not_eligible")
	}
	idea, err := s.ideas.GetByID(ctx, payload.IdeaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Debug().Uint("idea_id", payload.IdeaID).Uint("student_id", actor.ID).Msg("progress rejected: idea missing")
			return dto.ProgressResponse{}, fail(span, ErrIdeaNotEligible, "idea_not_eligible")
		}
		return dto.ProgressResponse{}, fail(span, fmt.Errorf("load idea: %w", err), "idea_lookup_failed")
	}
	if !idea.AcceptsProgressFrom(actor.ID) {
		s.logger.Debug().
			Uint("idea_id", idea.ID).
			Uint("student_id", actor.ID).
			Uint("owner_id", idea.OwnerID).
			Str("idea_status", string(idea.Status)).
			Msg("progress rejected: idea not owned or not approved")
		return dto.ProgressResponse{}, fail(span, ErrIdeaNotEligible, "idea_not_eligible")
	}

	payload.CurrentStage = plainText(payload.CurrentStage)
	payload.Description = plainText(payload.Description)
	if err := s.validator.Struct(payload); err != nil {
		return dto.ProgressResponse{}, fail(span, err, "validation_failed")
	}

	record := models.IdeaProgress{
		IdeaID:          idea.ID,
		StudentID:       actor.ID,
		CurrentStage:    payload.CurrentStage,
		Description:     payload.Description,
		Status:          models.ProgressStatusPending,
		ProgressPercent: *payload.ProgressPercent,
		UpdatedAt:       s.now().UTC(),
	}
	if err := s.progress.Create(ctx, &record); err != nil {
		return dto.ProgressResponse{}, fail(span, fmt.Errorf("store progress: %w", err), "progress_create_failed")
	}
	observability.ProgressSubmitted().Inc()
	span.SetAttributes(attribute.Int64("progress.id", int64(record.ID)))

	// The record is committed; the steps below are best effort and never fail the call.
	s.notify(ctx, idea.OwnerID, models.NotificationTypeProgressSubmitted, fmt.Sprintf("New progress update on idea \"%s\"", idea.Title))
	s.record(ctx, actor, models.ActivityProgressSubmitted, record.ID, map[string]interface{}{
		"idea_id":          idea.ID,
		"current_stage":    record.CurrentStage,
		"progress_percent": record.ProgressPercent,
	})
	s.invalidateSummary(ctx)

	return dto.NewProgressResponse(record), nil
}

func (s *progressService) ListPending(ctx context.Context, actor access.Actor) ([]dto.ProgressResponse, error) {
	ctx, span := s.startSpan(ctx, "progress.list_pending", actor)
	defer span.End()

	if err := access.Authorize(access.OpListPending, actor); err != nil {
		return nil, fail(span, err, "forbidden")
	}

	status := models.ProgressStatusPending
	return s.list(ctx, span, repository.ProgressFilter{Status: &status, WithIdea: true, WithStudent: true})
}

func (s *progressService) ListMine(ctx context.Context, actor access.Actor, ideaID uint) ([]dto.ProgressResponse, error) {
	ctx, span := s.startSpan(ctx, "progress.list_mine", actor)
	defer span.End()
	span.SetAttributes(attribute.Int64("progress.idea_id", int64(ideaID)))

	if err := access.Authorize(access.OpListMine, actor); err != nil {
		return nil, fail(span, err, "forbidden")
	}

	studentID := actor.ID
	return s.list(ctx, span, repository.ProgressFilter{IdeaID: &ideaID, StudentID: &studentID})
}

func (s *progressService) Review(ctx context.Context, actor access.Actor, progressID uint, payload dto.ProgressReviewRequest) (dto.ProgressResponse, error) {
	ctx, span := s.startSpan(ctx, "progress.review", actor)
	defer span.End()
	span.SetAttributes(attribute.Int64("progress.id", int64(progressID)))

	if err := access.Authorize(access.OpReviewProgress, actor); err != nil {
		return dto.ProgressResponse{}, fail(span, err, "forbidden")
	}

	payload.MentorRemark = plainText(payload.MentorRemark)
	payload.Status = strings.TrimSpace(payload.Status)
	if err := s.validator.Struct(payload); err != nil {
		return dto.ProgressResponse{}, fail(span, err, "validation_failed")
	}

	record, err := s.progress.GetByID(ctx, progressID, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProgressResponse{}, fail(span, ErrProgressNotFound, "progress_not_found")
		}
		return dto.ProgressResponse{}, fail(span, fmt.Errorf("load progress: %w", err), "progress_lookup_failed")
	}

	// The status is stored exactly as supplied; re-reviews overwrite the previous outcome.
	previous := record.Status
	record.MentorRemark = payload.MentorRemark
	record.Status = models.ProgressStatus(payload.Status)
	if err := s.progress.UpdateReview(ctx, &record); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProgressResponse{}, fail(span, ErrProgressNotFound, "progress_not_found")
		}
		return dto.ProgressResponse{}, fail(span, fmt.Errorf("store review: %w", err), "review_update_failed")
	}
	observability.ProgressReviewed().WithLabelValues(payload.Status).Inc()
	span.SetAttributes(attribute.String("progress.status", payload.Status))

	s.notify(ctx, record.StudentID, models.NotificationTypeProgressReviewed, fmt.Sprintf("Your progress update has been reviewed: %s", payload.Status))
	s.record(ctx, actor, models.ActivityProgressReviewed, record.ID, map[string]interface{}{
		"student_id":      record.StudentID,
		"previous_status": string(previous),
		"status":          payload.Status,
	})
	s.invalidateSummary(ctx)

	return dto.NewProgressResponse(record), nil
}

func (s *progressService) ListAll(ctx context.Context, actor access.Actor) ([]dto.ProgressResponse, error) {
	ctx, span := s.startSpan(ctx, "progress.list_all", actor)
	defer span.End()

	if err := access.Authorize(access.OpListAll, actor); err != nil {
		return nil, fail(span, err, "forbidden")
	}

	return s.list(ctx, span, repository.ProgressFilter{WithIdea: true, WithStudent: true})
}

func (s *progressService) ListForIdea(ctx context.Context, actor access.Actor, ideaID uint) ([]dto.ProgressResponse, error) {
	ctx, span := s.startSpan(ctx, "progress.list_for_idea", actor)
	defer span.End()
	span.SetAttributes(attribute.Int64("progress.idea_id", int64(ideaID)))

	if err := access.Authorize(access.OpListForIdea, actor); err != nil {
		return nil, fail(span, err, "forbidden")
	}

	return s.list(ctx, span, repository.ProgressFilter{IdeaID: &ideaID, WithStudent: true})
}

func (s *progressService) GetOne(ctx context.Context, actor access.Actor, progressID uint) (dto.ProgressResponse, error) {
	ctx, span := s.startSpan(ctx, "progress.get", actor)
	defer span.End()
	span.SetAttributes(attribute.Int64("progress.id", int64(progressID)))

	if err := access.Authorize(access.OpGetProgress, actor); err != nil {
		return dto.ProgressResponse{}, fail(span, err, "forbidden")
	}

	record, err := s.progress.GetByID(ctx, progressID, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProgressResponse{}, fail(span, ErrProgressNotFound, "progress_not_found")
		}
		return dto.ProgressResponse{}, fail(span, fmt.Errorf("load progress: %w", err), "progress_lookup_failed")
	}

	if record.StudentID != actor.ID && !actor.Role.Privileged() {
		return dto.ProgressResponse{}, fail(span, fmt.Errorf("progress %d: %w", progressID, access.ErrForbidden), "forbidden")
	}

	return dto.NewProgressDetailResponse(record), nil
}

func (s *progressService) list(ctx context.Context, span trace.Span, filter repository.ProgressFilter) ([]dto.ProgressResponse, error) {
	records, err := s.progress.List(ctx, filter)
	if err != nil {
		return nil, fail(span, fmt.Errorf("list progress: %w", err), "progress_list_failed")
	}
	span.SetAttributes(attribute.Int("progress.count", len(records)))
	return dto.NewProgressResponseSlice(records), nil
}

func (s *progressService) notify(ctx context.Context, userID uint, kind, message string) {
	if s.notifier == nil || userID == 0 {
		return
	}
	if _, err := s.notifier.Publish(ctx, dto.NotificationCreateRequest{UserID: userID, Type: kind, Message: message}); err != nil {
		observability.NotificationFailures().WithLabelValues(kind).Inc()
		s.logger.Warn().Err(err).Uint("user_id", userID).Str("type", kind).Msg("failed to send notification")
	}
}

func (s *progressService) record(ctx context.Context, actor access.Actor, action string, progressID uint, metadata map[string]interface{}) {
	if s.activity == nil {
		return
	}
	entityID := progressID
	if _, err := s.activity.Record(ctx, ActivityEntry{
		Actor:      actor,
		Action:     action,
		EntityType: "progress",
		EntityID:   &entityID,
		Metadata:   metadata,
	}); err != nil {
		s.logger.Warn().Err(err).Uint("progress_id", progressID).Str("action", action).Msg("failed to record activity")
	}
}

func (s *progressService) invalidateSummary(ctx context.Context) {
	if s.summary != nil {
		s.summary.Invalidate(ctx)
	}
}

func (s *progressService) startSpan(ctx context.Context, name string, actor access.Actor) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.Int64("actor.id", int64(actor.ID)),
		attribute.String("actor.role", string(actor.Role)),
	))
}

func fail(span trace.Span, err error, status string) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, status)
	return err
}
