package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/ideabank-api/internal/dto"
	"github.com/noah-isme/ideabank-api/internal/models"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func testValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{DisableForeignKeyConstraintWhenMigrating: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Idea{}, &models.IdeaProgress{}, &models.Notification{}, &models.ActivityLog{}))
	return db
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []dto.NotificationCreateRequest
	err  error
}

func (n *recordingNotifier) Publish(_ context.Context, payload dto.NotificationCreateRequest) (dto.NotificationResponse, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return dto.NotificationResponse{}, n.err
	}
	n.sent = append(n.sent, payload)
	return dto.NotificationResponse{UserID: payload.UserID, Type: payload.Type, Message: payload.Message}, nil
}

func (n *recordingNotifier) messages() []dto.NotificationCreateRequest {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]dto.NotificationCreateRequest, len(n.sent))
	copy(out, n.sent)
	return out
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) Invalidate(context.Context) {
	c.calls++
}

var errBrokenNotifier = errors.New("notification store unavailable")

func isValidation(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}
