package handlers

import (
	"context"
	"errors"

	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/models"
	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/services"
	"github.com/gofiber/fiber/v2"
)

type sessionStateApplicationService interface {
	Get(ctx context.Context, sessionID string) (*models.SessionState, error)
	Replace(ctx context.Context, sessionID string, state models.SessionState) (*models.SessionState, error)
	PinUser(ctx context.Context, sessionID string, userID int64) (*models.SessionState, error)
	UnpinUser(ctx context.Context, sessionID string, userID int64) (*models.SessionState, error)
}

type SessionStateHandler struct {
	service sessionStateApplicationService
}

func NewSessionStateHandler(service sessionStateApplicationService) *SessionStateHandler {
	return &SessionStateHandler{service: service}
}

type sessionStateRequest struct {
	PinnedUserIDs []int64 `json:"pinned_user_ids"`
	CurrentScreen string  `json:"current_screen"`
}

func (h *SessionStateHandler) GetState(c *fiber.Ctx) error {
	state, err := h.service.Get(c.Context(), currentSessionID(c))
	if err != nil {
		return mapSessionStateError(c, err)
	}
	return c.JSON(fiber.Map{"state": state})
}

func (h *SessionStateHandler) ReplaceState(c *fiber.Ctx) error {
	var req sessionStateRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	state, err := h.service.Replace(c.Context(), currentSessionID(c), models.SessionState{
		PinnedUserIDs: req.PinnedUserIDs,
		CurrentScreen: req.CurrentScreen,
	})
	if err != nil {
		return mapSessionStateError(c, err)
	}
	return c.JSON(fiber.Map{"state": state})
}

func (h *SessionStateHandler) PinUser(c *fiber.Ctx) error {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "user")
	}

	state, err := h.service.PinUser(c.Context(), currentSessionID(c), userID)
	if err != nil {
		return mapSessionStateError(c, err)
	}
	return c.JSON(fiber.Map{"state": state})
}

func (h *SessionStateHandler) UnpinUser(c *fiber.Ctx) error {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "user")
	}

	state, err := h.service.UnpinUser(c.Context(), currentSessionID(c), userID)
	if err != nil {
		return mapSessionStateError(c, err)
	}
	return c.JSON(fiber.Map{"state": state})
}

func mapSessionStateError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).
			JSON(fiber.Map{"error": "Token has no session", "redirect": "/login"})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	default:
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to process session state request"})
	}
}
