package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/Diegocarque12/cumbaGymApp-sub000/pkg/utils"
	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func identityApp(handler fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Get("/me", handler, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":    c.Locals("user_id"),
			"role":       c.Locals("role"),
			"session_id": c.Locals("session_id"),
		})
	})
	return app
}

func TestAuthRequiredSetsIdentity(t *testing.T) {
	token, err := utils.GenerateToken("12", models.RoleCoach, "sess-9", testSecret)
	require.NoError(t, err)

	app := identityApp(AuthRequired(testSecret))
	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthRequiredRejectsBadHeaders(t *testing.T) {
	app := identityApp(AuthRequired(testSecret))

	for _, header := range []string{"", "Token abc", "Bearer", "Bearer not-a-jwt"} {
		req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, header)
		resp.Body.Close()
	}
}

func TestWebSocketAuthAcceptsQueryToken(t *testing.T) {
	token, err := utils.GenerateToken("3", models.RoleUser, "sess-3", testSecret)
	require.NoError(t, err)

	app := identityApp(WebSocketAuth(testSecret))

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/me?token="+token, nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/me", nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
