package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ideabank-api/internal/access"
	"github.com/noah-isme/ideabank-api/internal/dto"
	"github.com/noah-isme/ideabank-api/internal/handler"
	"github.com/noah-isme/ideabank-api/internal/service"
)

type mockProgressService struct {
	err         error
	lastActor   access.Actor
	lastID      uint
	lastSubmit  dto.ProgressSubmitRequest
	lastReview  dto.ProgressReviewRequest
	calledCount int
}

func (m *mockProgressService) record(actor access.Actor, id uint) error {
	m.calledCount++
	m.lastActor = actor
	m.lastID = id
	return m.err
}

func (m *mockProgressService) Submit(_ context.Context, actor access.Actor, payload dto.ProgressSubmitRequest) (dto.ProgressResponse, error) {
	m.lastSubmit = payload
	if err := m.record(actor, payload.IdeaID); err != nil {
		return dto.ProgressResponse{}, err
	}
	return dto.ProgressResponse{ID: 1, IdeaID: payload.IdeaID, StudentID: actor.ID, Status: "Pending"}, nil
}

func (m *mockProgressService) ListPending(_ context.Context, actor access.Actor) ([]dto.ProgressResponse, error) {
	return []dto.ProgressResponse{{ID: 1}}, m.record(actor, 0)
}

func (m *mockProgressService) ListMine(_ context.Context, actor access.Actor, ideaID uint) ([]dto.ProgressResponse, error) {
	return []dto.ProgressResponse{}, m.record(actor, ideaID)
}

func (m *mockProgressService) Review(_ context.Context, actor access.Actor, progressID uint, payload dto.ProgressReviewRequest) (dto.ProgressResponse, error) {
	m.lastReview = payload
	if err := m.record(actor, progressID); err != nil {
		return dto.ProgressResponse{}, err
	}
	return dto.ProgressResponse{ID: progressID, Status: payload.Status, MentorRemark: payload.MentorRemark}, nil
}

func (m *mockProgressService) ListAll(_ context.Context, actor access.Actor) ([]dto.ProgressResponse, error) {
	return []dto.ProgressResponse{}, m.record(actor, 0)
}

func (m *mockProgressService) ListForIdea(_ context.Context, actor access.Actor, ideaID uint) ([]dto.ProgressResponse, error) {
	return []dto.ProgressResponse{}, m.record(actor, ideaID)
}

func (m *mockProgressService) GetOne(_ context.Context, actor access.Actor, progressID uint) (dto.ProgressResponse, error) {
	if err := m.record(actor, progressID); err != nil {
		return dto.ProgressResponse{}, err
	}
	return dto.ProgressResponse{ID: progressID}, nil
}

func newProgressApp(svc service.ProgressService) *fiber.App {
	app := fiber.New()
	handler.NewProgressHandler(svc, testLogger(), nil).Register(app.Group("/progress", headerAuth))
	return app
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func TestProgressHandler_SubmitCreated(t *testing.T) {
	svc := &mockProgressService{}
	app := newProgressApp(svc)

	req := asUser(jsonRequest(http.MethodPost, "/progress/update", `{"idea_id":4,"current_stage":"Development","description":"built it","progress_percent":40}`), 3, access.RoleStudent)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body envelope[dto.ProgressResponse]
	decodeResponse(t, resp, &body)
	require.True(t, body.Success)
	require.Equal(t, uint(3), body.Data.StudentID)
	require.Equal(t, access.Actor{ID: 3, Role: access.RoleStudent}, svc.lastActor)
	require.NotNil(t, svc.lastSubmit.ProgressPercent)
	require.Equal(t, 40, *svc.lastSubmit.ProgressPercent)
}

func TestProgressHandler_SubmitMalformedBody(t *testing.T) {
	svc := &mockProgressService{}
	app := newProgressApp(svc)

	resp, err := app.Test(asUser(jsonRequest(http.MethodPost, "/progress/update", `{"idea_id":`), 3, access.RoleStudent))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.Zero(t, svc.calledCount)
}

func TestProgressHandler_RouteLevelRoles(t *testing.T) {
	svc := &mockProgressService{}
	app := newProgressApp(svc)

	cases := []struct {
		name   string
		req    *http.Request
		status int
	}{
		{"mentor cannot submit", asUser(jsonRequest(http.MethodPost, "/progress/update", `{}`), 2, access.RoleMentor), fiber.StatusForbidden},
		{"student cannot list pending", asUser(httptest.NewRequest(http.MethodGet, "/progress/pending", nil), 3, access.RoleStudent), fiber.StatusForbidden},
		{"mentor cannot list all", asUser(httptest.NewRequest(http.MethodGet, "/progress/all", nil), 2, access.RoleMentor), fiber.StatusForbidden},
		{"admin cannot list mine", asUser(httptest.NewRequest(http.MethodGet, "/progress/my/1", nil), 1, access.RoleAdmin), fiber.StatusForbidden},
		{"anonymous", httptest.NewRequest(http.MethodGet, "/progress/5", nil), fiber.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := app.Test(tc.req)
			require.NoError(t, err)
			require.Equal(t, tc.status, resp.StatusCode)
		})
	}
	require.Zero(t, svc.calledCount)
}

func TestProgressHandler_RoutesReachService(t *testing.T) {
	svc := &mockProgressService{}
	app := newProgressApp(svc)

	cases := []struct {
		req *http.Request
		id  uint
	}{
		{asUser(httptest.NewRequest(http.MethodGet, "/progress/pending", nil), 2, access.RoleMentor), 0},
		{asUser(httptest.NewRequest(http.MethodGet, "/progress/my/7", nil), 3, access.RoleStudent), 7},
		{asUser(httptest.NewRequest(http.MethodGet, "/progress/all", nil), 1, access.RoleAdmin), 0},
		{asUser(httptest.NewRequest(http.MethodGet, "/progress/idea/8", nil), 1, access.RoleAdmin), 8},
		{asUser(httptest.NewRequest(http.MethodGet, "/progress/9", nil), 3, access.RoleStudent), 9},
	}

	for _, tc := range cases {
		resp, err := app.Test(tc.req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode, tc.req.URL.Path)
		require.Equal(t, tc.id, svc.lastID, tc.req.URL.Path)
	}
}

func TestProgressHandler_ReviewPassesPayload(t *testing.T) {
	svc := &mockProgressService{}
	app := newProgressApp(svc)

	req := asUser(jsonRequest(http.MethodPut, "/progress/review/12", `{"mentor_remark":"Add tests","status":"Needs Improvement"}`), 2, access.RoleMentor)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body envelope[dto.ProgressResponse]
	decodeResponse(t, resp, &body)
	require.Equal(t, "Needs Improvement", body.Data.Status)
	require.Equal(t, uint(12), svc.lastID)
	require.Equal(t, "Add tests", svc.lastReview.MentorRemark)
}

func TestProgressHandler_InvalidIdentifiers(t *testing.T) {
	svc := &mockProgressService{}
	app := newProgressApp(svc)

	for _, req := range []*http.Request{
		asUser(httptest.NewRequest(http.MethodGet, "/progress/abc", nil), 3, access.RoleStudent),
		asUser(httptest.NewRequest(http.MethodGet, "/progress/my/x", nil), 3, access.RoleStudent),
		asUser(jsonRequest(http.MethodPut, "/progress/review/-1", `{"status":"Reviewed"}`), 2, access.RoleMentor),
	} {
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusBadRequest, resp.StatusCode, req.URL.Path)
	}
	require.Zero(t, svc.calledCount)
}

func TestProgressHandler_ErrorMapping(t *testing.T) {
	validationErr := validator.New().Var("", "required")

	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"ineligible idea", service.ErrIdeaNotEligible, fiber.StatusForbidden, "cannot update progress"},
		{"forbidden", access.ErrForbidden, fiber.StatusForbidden, "forbidden"},
		{"not found", service.ErrProgressNotFound, fiber.StatusNotFound, "progress not found"},
		{"validation", validationErr, fiber.StatusBadRequest, ""},
		{"internal", errors.New("database exploded"), fiber.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newProgressApp(&mockProgressService{err: tc.err})
			resp, err := app.Test(asUser(httptest.NewRequest(http.MethodGet, "/progress/5", nil), 3, access.RoleStudent))
			require.NoError(t, err)
			require.Equal(t, tc.status, resp.StatusCode)

			var body envelope[any]
			decodeResponse(t, resp, &body)
			require.False(t, body.Success)
			if tc.message != "" {
				require.Equal(t, tc.message, body.Message)
			}
		})
	}
}
