package http

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/monstergarden/monstergarden/engine/auth"
)

// Identity headers injected by the upstream auth proxy. The engine never sees
// credentials, only the resolved identity.
const (
	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"

	roleAdmin = "admin"
)

// SessionMiddleware resolves the authenticated user from the proxy headers
// and attaches it to the request context. Requests without an identity are
// rejected.
func SessionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get(headerUserID)
		if userID == "" {
			slog.Debug("Request without user identity",
				slog.String("type", "http"),
				slog.String("path", c.Path()))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthenticated",
			})
		}

		c.SetUserContext(auth.WithUserID(c.UserContext(), userID))
		return c.Next()
	}
}

// AdminRequired rejects requests whose proxy-resolved role is not admin.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get(headerUserRole) != roleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "admin access required",
			})
		}
		return c.Next()
	}
}
