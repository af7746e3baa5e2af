package middleware

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
)

const LoginPath = "/login"

// SessionRevoker signs a session out: its refresh tokens are revoked and its
// persisted state is dropped.
type SessionRevoker interface {
	RevokeSession(ctx context.Context, sessionID string) error
}

func Authorize(role, required string) bool {
	if required == "" {
		return true
	}
	return role == required
}

// RoleGuard must run after AuthRequired and is mounted on the group it
// protects, so route matching decides the scope rather than the raw path. A
// caller whose role claim does not match is signed out and sent to the login
// page.
func RoleGuard(revoker SessionRevoker, required string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		if Authorize(role, required) {
			return c.Next()
		}

		sessionID, _ := c.Locals("session_id").(string)
		if revoker != nil && sessionID != "" {
			if err := revoker.RevokeSession(c.UserContext(), sessionID); err != nil {
				log.Printf("role guard: revoke session %s: %v", sessionID, err)
			}
		}

		c.Set(fiber.HeaderLocation, LoginPath)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":    "Not authorized for this section",
			"redirect": LoginPath,
		})
	}
}
