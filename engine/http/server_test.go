package http

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/monstergarden/monstergarden/engine/events"
)

func newTestServer() *Server {
	return NewServer(nil, nil, nil, nil, events.NewBus())
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer()

	resp, err := s.App().Test(httptest.NewRequest("GET", "/healthz", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAPIRequiresIdentityHeader(t *testing.T) {
	s := newTestServer()

	resp, err := s.App().Test(httptest.NewRequest("GET", "/api/wallet", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest("POST", "/api/admin/quests/reset-daily", nil)
	req.Header.Set(headerUserID, "user-1")
	resp, err := s.App().Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestUnlockBackgroundPublishes(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest("POST", "/api/unlocks/backgrounds", nil)
	req.Header.Set(headerUserID, "user-1")
	resp, err := s.App().Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)
}

func TestMetricsEndpointExposed(t *testing.T) {
	s := newTestServer()

	resp, err := s.App().Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}
