package handler

import (
	"net/http/httptest"
	"testing"

	"airicepest-be/internal/entity"
	"airicepest-be/internal/pkg/logger"
	"airicepest-be/internal/pkg/security"
	internalWS "airicepest-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLiveApp(t *testing.T) (*fiber.App, *security.TokenService) {
	t.Helper()
	tokens := security.NewTokenService("live-secret")
	log := logger.NewNopLogger()
	h := NewLiveFeedHandler(internalWS.NewHub(log), tokens, log)

	app := fiber.New()
	h.RegisterRoutes(app.Group("/api"))
	return app, tokens
}

func TestLiveFeed_Handshake(t *testing.T) {
	app, tokens := newLiveApp(t)

	userToken, err := tokens.Issue(uuid.New(), "alice", entity.UserRoleUser)
	require.NoError(t, err)
	adminToken, err := tokens.Issue(uuid.New(), "root", entity.UserRoleSuperAdmin)
	require.NoError(t, err)

	tests := []struct {
		name   string
		target string
		header string
		want   int
	}{
		{"missing token", "/api/admin/live", "", fiber.StatusUnauthorized},
		{"invalid token", "/api/admin/live?token=garbage", "", fiber.StatusUnauthorized},
		{"non admin", "/api/admin/live?token=" + userToken, "", fiber.StatusForbidden},
		{"admin via header without upgrade", "/api/admin/live", "Bearer " + adminToken, fiber.StatusUpgradeRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, tt.target, nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
