package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/config"
	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/models"
	"github.com/Diegocarque12/cumbaGymApp-sub000/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "routes-test-secret"

// newRoutedApp registers every route without a database. Only paths that stop
// before reaching a repository can be exercised.
func newRoutedApp(t *testing.T) *fiber.App {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	app := fiber.New()
	cfg := &config.Config{JWTSecret: testSecret, AppEnv: "production"}
	require.NoError(t, RegisterRoutes(ctx, app, cfg, nil, nil))
	return app
}

func bearer(t *testing.T, role string) string {
	t.Helper()
	token, err := utils.GenerateToken("7", role, "", testSecret)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRoleMismatchRedirectsToLogin(t *testing.T) {
	app := newRoutedApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
	req.Header.Set("Authorization", bearer(t, models.RoleUser))
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "/login", body["redirect"])
}

func TestCoachCannotEnterAdminScope(t *testing.T) {
	app := newRoutedApp(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/routines/3", nil)
	req.Header.Set("Authorization", bearer(t, models.RoleCoach))
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestRoleScopeIgnoresPathCase(t *testing.T) {
	app := newRoutedApp(t)

	for _, path := range []string{"/api/v1/ADMIN/users", "/api/v1/Coach/routines", "/api/V1/admin/users"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", bearer(t, models.RoleUser))
		resp, err := app.Test(req)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), path)
	}
}

func TestVersionedRoutesRequireToken(t *testing.T) {
	app := newRoutedApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/coach/routines", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Location"))
}

func TestWebSocketRouteAcceptsQueryToken(t *testing.T) {
	app := newRoutedApp(t)
	token, err := utils.GenerateToken("7", models.RoleUser, "", testSecret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ws?token="+token, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	// Authenticated but not an upgrade request.
	assert.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
}

func TestWebSocketRouteRejectsMissingToken(t *testing.T) {
	app := newRoutedApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ws", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRefreshRejectsEmptyBody(t *testing.T) {
	app := newRoutedApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDocsHiddenOutsideDevelopment(t *testing.T) {
	app := newRoutedApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/docs", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
