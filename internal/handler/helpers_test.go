package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ideabank-api/internal/access"
	"github.com/noah-isme/ideabank-api/internal/middleware"
)

const (
	testUserHeader = "X-Test-User"
	testRoleHeader = "X-Test-Role"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

// headerAuth stands in for JWT validation and trusts the test headers.
func headerAuth(c *fiber.Ctx) error {
	id, _ := strconv.ParseUint(c.Get(testUserHeader), 10, 64)
	middleware.SetActor(c, access.Actor{ID: uint(id), Role: access.ParseRole(c.Get(testRoleHeader))})
	return c.Next()
}

func asUser(req *http.Request, id uint, role access.Role) *http.Request {
	req.Header.Set(testUserHeader, strconv.FormatUint(uint64(id), 10))
	req.Header.Set(testRoleHeader, string(role))
	return req
}

type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message"`
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, json.Unmarshal(data, target))
}
