package handlers

import (
	"context"
	"errors"

	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/models"
	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/services"
	workoutws "github.com/Diegocarque12/cumbaGymApp-sub000/internal/websocket"
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type workoutApplicationService interface {
	ListAssignedRoutines(ctx context.Context, userID int64) ([]models.Routine, error)
	StartWorkout(ctx context.Context, userID, routineID int64) (*models.WorkoutSession, error)
	CompleteSet(ctx context.Context, userID int64, input services.CompleteSetInput) (*models.WorkoutHistory, error)
	FinishRoutine(ctx context.Context, userID, routineID int64) (*models.RoutineLog, error)
	ListWorkoutHistory(ctx context.Context, userID int64, limit int) ([]models.WorkoutHistory, error)
	ListRoutineLogs(ctx context.Context, userID int64, limit int) ([]models.RoutineLog, error)
}

type WorkoutHandler struct {
	service workoutApplicationService
	hub     *workoutws.Hub
}

func NewWorkoutHandler(service workoutApplicationService, hub *workoutws.Hub) *WorkoutHandler {
	return &WorkoutHandler{service: service, hub: hub}
}

type completeSetRequest struct {
	RoutineExerciseID int64    `json:"routine_exercise_id"`
	SetNumber         int      `json:"set_number"`
	Weight            *float64 `json:"weight"`
	Reps              *int     `json:"reps"`
}

func (h *WorkoutHandler) ListAssignedRoutines(c *fiber.Ctx) error {
	userID, err := parseProfileUserID(c)
	if err != nil {
		return invalidToken(c)
	}

	routines, err := h.service.ListAssignedRoutines(c.Context(), userID)
	if err != nil {
		return mapWorkoutError(c, err)
	}
	if routines == nil {
		routines = []models.Routine{}
	}

	return c.JSON(fiber.Map{"routines": routines})
}

func (h *WorkoutHandler) StartWorkout(c *fiber.Ctx) error {
	userID, err := parseProfileUserID(c)
	if err != nil {
		return invalidToken(c)
	}
	routineID, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "routine")
	}

	session, err := h.service.StartWorkout(c.Context(), userID, routineID)
	if err != nil {
		return mapWorkoutError(c, err)
	}

	return c.JSON(fiber.Map{"workout": session})
}

func (h *WorkoutHandler) CompleteSet(c *fiber.Ctx) error {
	userID, err := parseProfileUserID(c)
	if err != nil {
		return invalidToken(c)
	}

	var req completeSetRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if msg := validateCompleteSetRequest(req); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	entry, err := h.service.CompleteSet(c.Context(), userID, services.CompleteSetInput{
		RoutineExerciseID: req.RoutineExerciseID,
		SetNumber:         req.SetNumber,
		Weight:            req.Weight,
		Reps:              req.Reps,
	})
	if err != nil {
		return mapWorkoutError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"history": entry})
}

func (h *WorkoutHandler) FinishRoutine(c *fiber.Ctx) error {
	userID, err := parseProfileUserID(c)
	if err != nil {
		return invalidToken(c)
	}
	routineID, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "routine")
	}

	entry, err := h.service.FinishRoutine(c.Context(), userID, routineID)
	if err != nil {
		return mapWorkoutError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"log": entry})
}

func (h *WorkoutHandler) ListOwnHistory(c *fiber.Ctx) error {
	userID, err := parseProfileUserID(c)
	if err != nil {
		return invalidToken(c)
	}
	return h.history(c, userID)
}

// ListUserHistory is the staff view of another user's completed sets.
func (h *WorkoutHandler) ListUserHistory(c *fiber.Ctx) error {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "user")
	}
	return h.history(c, userID)
}

func (h *WorkoutHandler) history(c *fiber.Ctx, userID int64) error {
	entries, err := h.service.ListWorkoutHistory(c.Context(), userID, parsePositiveInt(c.Query("limit"), 0))
	if err != nil {
		return mapWorkoutError(c, err)
	}
	if entries == nil {
		entries = []models.WorkoutHistory{}
	}
	return c.JSON(fiber.Map{"history": entries})
}

func (h *WorkoutHandler) ListOwnLogs(c *fiber.Ctx) error {
	userID, err := parseProfileUserID(c)
	if err != nil {
		return invalidToken(c)
	}

	logs, err := h.service.ListRoutineLogs(c.Context(), userID, parsePositiveInt(c.Query("limit"), 0))
	if err != nil {
		return mapWorkoutError(c, err)
	}
	if logs == nil {
		logs = []models.RoutineLog{}
	}

	return c.JSON(fiber.Map{"logs": logs})
}

// RequireUpgrade rejects plain HTTP requests on the live feed route.
func (h *WorkoutHandler) RequireUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return c.Status(fiber.StatusUpgradeRequired).JSON(fiber.Map{"error": "WebSocket upgrade required"})
	}
	return c.Next()
}

func (h *WorkoutHandler) HandleWebSocket(conn *websocket.Conn) {
	userID, _ := conn.Locals("user_id").(string)
	role, _ := conn.Locals("role").(string)
	client := workoutws.NewClient(h.hub, conn, userID, role)

	h.hub.Register(client)
	go client.WritePump()
	client.ReadPump(h.service)
}

func mapWorkoutError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).
			JSON(fiber.Map{"error": "Routine is not assigned to you"})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Routine or set not found"})
	case errors.Is(err, services.ErrAlreadyCompleted):
		return c.Status(fiber.StatusConflict).
			JSON(fiber.Map{"error": "Set already completed today"})
	default:
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to process workout request"})
	}
}
