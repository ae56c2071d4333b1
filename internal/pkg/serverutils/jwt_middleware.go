// FILE: internal/pkg/serverutils/jwt_middleware.go
package serverutils

import (
	"strings"

	"airicepest-be/internal/entity"
	"airicepest-be/internal/pkg/security"

	"github.com/gofiber/fiber/v2"
)

const claimsKey = "claims"

const (
	msgTokenMissing  = "Token is missing"
	msgTokenInvalid  = "Token is invalid or expired"
	msgAdminRequired = "Admin access required"
)

type TokenVerifier interface {
	Verify(token string) (*security.Claims, bool)
}

// BearerToken extracts the token from "Authorization: Bearer <token>".
func BearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

// JwtMiddleware requires a valid bearer token and stores its claims in the
// request locals.
func JwtMiddleware(tokens TokenVerifier) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		raw, ok := BearerToken(ctx.Get(fiber.HeaderAuthorization))
		if !ok {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, msgTokenMissing))
		}

		claims, ok := tokens.Verify(raw)
		if !ok {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, msgTokenInvalid))
		}

		ctx.Locals(claimsKey, claims)
		return ctx.Next()
	}
}

// RequireRole must be stacked after JwtMiddleware.
func RequireRole(min entity.UserRole) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		claims := Claims(ctx)
		if claims == nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, msgTokenMissing))
		}
		if !claims.Role.AtLeast(min) {
			return ctx.Status(fiber.StatusForbidden).JSON(ErrorResponse(fiber.StatusForbidden, msgAdminRequired))
		}
		return ctx.Next()
	}
}

// Claims returns the verified claims for the request, or nil.
func Claims(ctx *fiber.Ctx) *security.Claims {
	claims, _ := ctx.Locals(claimsKey).(*security.Claims)
	return claims
}
