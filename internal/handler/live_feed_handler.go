package handler

import (
	"airicepest-be/internal/pkg/logger"
	"airicepest-be/internal/pkg/serverutils"
	internalWS "airicepest-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// LiveFeedHandler streams domain events to admin consoles over a websocket.
type LiveFeedHandler struct {
	hub    *internalWS.Hub
	tokens serverutils.TokenVerifier
	logger logger.ILogger
}

func NewLiveFeedHandler(hub *internalWS.Hub, tokens serverutils.TokenVerifier, log logger.ILogger) *LiveFeedHandler {
	return &LiveFeedHandler{hub: hub, tokens: tokens, logger: log}
}

func (h *LiveFeedHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/admin/live", h.ServeWs)
}

// ServeWs authenticates the handshake before upgrading. Browsers cannot set
// headers on websocket requests, so the query parameter is checked first.
func (h *LiveFeedHandler) ServeWs(c *fiber.Ctx) error {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		tokenStr, _ = serverutils.BearerToken(c.Get(fiber.HeaderAuthorization))
	}
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Token is missing"))
	}

	claims, ok := h.tokens.Verify(tokenStr)
	if !ok {
		h.logger.Warn("LIVE", "Invalid token in websocket handshake", nil)
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Token is invalid or expired"))
	}
	if !claims.Role.IsElevated() {
		return c.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(fiber.StatusForbidden, "Admin access required"))
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	userID := claims.UserId
	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("LIVE", "Starting live feed session", map[string]interface{}{"user_id": userID})
		internalWS.ServeWs(h.hub, conn, userID)
		h.logger.Info("LIVE", "Live feed session ended", map[string]interface{}{"user_id": userID})
	})(c)
}
