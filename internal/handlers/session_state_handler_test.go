package handlers

import (
	"testing"
	"time"

	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/models"
	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/services"
	"github.com/gofiber/fiber/v2"
)

func sessionStateApp(sessionID string, service *services.SessionStateService) *fiber.App {
	handler := NewSessionStateHandler(service)
	app := newTestApp(models.RoleCoach, "2", sessionID)
	app.Get("/state", handler.GetState)
	app.Put("/state", handler.ReplaceState)
	app.Post("/pinned-users/:id", handler.PinUser)
	app.Delete("/pinned-users/:id", handler.UnpinUser)
	return app
}

func pinnedIDs(t *testing.T, body map[string]any) []float64 {
	t.Helper()
	state, ok := body["state"].(map[string]any)
	if !ok {
		t.Fatalf("missing state in %v", body)
	}
	raw := state["pinned_user_ids"].([]any)
	ids := make([]float64, 0, len(raw))
	for _, id := range raw {
		ids = append(ids, id.(float64))
	}
	return ids
}

func TestSessionStateLifecycle(t *testing.T) {
	service := services.NewSessionStateService(services.NewMemorySessionStateStore(time.Hour))
	app := sessionStateApp("sess-1", service)

	resp, body := doJSON(t, app, fiber.MethodGet, "/state", nil)
	expectStatus(t, resp, body, fiber.StatusOK)
	if ids := pinnedIDs(t, body); len(ids) != 0 {
		t.Fatalf("expected empty state, got %v", ids)
	}

	doJSON(t, app, fiber.MethodPost, "/pinned-users/5", nil)
	doJSON(t, app, fiber.MethodPost, "/pinned-users/3", nil)
	resp, body = doJSON(t, app, fiber.MethodPost, "/pinned-users/5", nil)
	expectStatus(t, resp, body, fiber.StatusOK)
	if ids := pinnedIDs(t, body); len(ids) != 2 || ids[0] != 5 || ids[1] != 3 {
		t.Fatalf("expected [5 3], got %v", ids)
	}

	resp, body = doJSON(t, app, fiber.MethodDelete, "/pinned-users/5", nil)
	expectStatus(t, resp, body, fiber.StatusOK)
	if ids := pinnedIDs(t, body); len(ids) != 1 || ids[0] != 3 {
		t.Fatalf("expected [3], got %v", ids)
	}
}

func TestReplaceSessionStateNormalizes(t *testing.T) {
	service := services.NewSessionStateService(services.NewMemorySessionStateStore(time.Hour))
	app := sessionStateApp("sess-1", service)

	resp, body := doJSON(t, app, fiber.MethodPut, "/state", map[string]any{
		"pinned_user_ids": []int64{4, 4, -1, 9},
		"current_screen":  " users ",
	})
	expectStatus(t, resp, body, fiber.StatusOK)
	if ids := pinnedIDs(t, body); len(ids) != 2 || ids[0] != 4 || ids[1] != 9 {
		t.Fatalf("expected [4 9], got %v", ids)
	}
	if body["state"].(map[string]any)["current_screen"] != "users" {
		t.Fatalf("expected trimmed screen, got %v", body["state"])
	}
}

func TestSessionStateWithoutSession(t *testing.T) {
	service := services.NewSessionStateService(services.NewMemorySessionStateStore(time.Hour))

	resp, body := doJSON(t, sessionStateApp("", service), fiber.MethodGet, "/state", nil)
	expectStatus(t, resp, body, fiber.StatusUnauthorized)
	if body["redirect"] != "/login" {
		t.Fatalf("expected login redirect, got %v", body)
	}
}

func TestPinUserRejectsInvalidID(t *testing.T) {
	service := services.NewSessionStateService(services.NewMemorySessionStateStore(time.Hour))

	resp, body := doJSON(t, sessionStateApp("sess-1", service), fiber.MethodPost, "/pinned-users/0", nil)
	expectStatus(t, resp, body, fiber.StatusBadRequest)
}
