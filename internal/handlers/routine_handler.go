package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/models"
	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/repository"
	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/services"
	"github.com/gofiber/fiber/v2"
)

type routineApplicationService interface {
	ListRoutines(ctx context.Context, opts services.ListOptions) ([]models.Routine, models.PaginationMeta, error)
	LoadRoutineDetail(ctx context.Context, routineID int64) (*models.RoutineDetail, error)
	CreateRoutine(ctx context.Context, input repository.CreateRoutineInput) (*models.Routine, error)
	UpdateRoutine(ctx context.Context, id int64, input repository.UpdateRoutineInput) (*models.Routine, error)
	DeleteRoutine(ctx context.Context, id int64) error
	AddRoutineExercise(ctx context.Context, routineID, exerciseID int64, weightType string) (*models.RoutineExercise, error)
	UpdateRoutineExercise(ctx context.Context, id int64, weightType string) (*models.RoutineExercise, error)
	DeleteRoutineExercise(ctx context.Context, id int64) error
	AddSet(ctx context.Context, routineExerciseID int64, values services.SetValues) (*models.RoutineExerciseSet, error)
	UpdateSet(ctx context.Context, id int64, values services.SetValues) (*models.RoutineExerciseSet, error)
	DeleteSet(ctx context.Context, id int64) error
	AssignRoutine(ctx context.Context, userID, routineID int64) (*models.UserRoutine, error)
	UnassignRoutine(ctx context.Context, userID, routineID int64) error
	ListRoutineUsers(ctx context.Context, routineID int64) ([]models.Profile, error)
}

type RoutineHandler struct {
	service routineApplicationService
}

func NewRoutineHandler(service routineApplicationService) *RoutineHandler {
	return &RoutineHandler{service: service}
}

type routineRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type updateRoutineRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type routineExerciseRequest struct {
	ExerciseID int64  `json:"exercise_id"`
	WeightType string `json:"weight_type"`
}

type updateRoutineExerciseRequest struct {
	WeightType string `json:"weight_type"`
}

type setRequest struct {
	SuggestedWeight *float64 `json:"suggested_weight"`
	SuggestedReps   *int     `json:"suggested_reps"`
}

type assignmentRequest struct {
	UserID int64 `json:"user_id"`
}

func (h *RoutineHandler) ListRoutines(c *fiber.Ctx) error {
	routines, meta, err := h.service.ListRoutines(c.Context(), parseListOptions(c))
	if err != nil {
		return mapRoutineError(c, err)
	}

	return c.JSON(fiber.Map{"routines": routines, "pagination": meta})
}

// GetRoutine returns the routine with its exercises and their sets.
func (h *RoutineHandler) GetRoutine(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "routine")
	}

	detail, err := h.service.LoadRoutineDetail(c.Context(), id)
	if err != nil {
		return mapRoutineError(c, err)
	}

	return c.JSON(fiber.Map{"routine": detail})
}

func (h *RoutineHandler) CreateRoutine(c *fiber.Ctx) error {
	actorID, err := parseProfileUserID(c)
	if err != nil {
		return invalidToken(c)
	}

	var req routineRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if msg := validateRoutineRequest(req); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	routine, err := h.service.CreateRoutine(c.Context(), repository.CreateRoutineInput{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		CreatedBy:   &actorID,
	})
	if err != nil {
		return mapRoutineError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"routine": routine})
}

func (h *RoutineHandler) UpdateRoutine(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "routine")
	}

	var req updateRoutineRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if msg := validateUpdateRoutineRequest(req); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	routine, err := h.service.UpdateRoutine(c.Context(), id, repository.UpdateRoutineInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return mapRoutineError(c, err)
	}

	return c.JSON(fiber.Map{"routine": routine})
}

func (h *RoutineHandler) DeleteRoutine(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "routine")
	}

	if err := h.service.DeleteRoutine(c.Context(), id); err != nil {
		return mapRoutineError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *RoutineHandler) AddRoutineExercise(c *fiber.Ctx) error {
	routineID, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "routine")
	}

	var req routineExerciseRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if msg := validateRoutineExerciseRequest(req); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	item, err := h.service.AddRoutineExercise(c.Context(), routineID, req.ExerciseID, req.WeightType)
	if err != nil {
		if errors.Is(err, services.ErrConflict) {
			return c.Status(fiber.StatusConflict).
				JSON(fiber.Map{"error": "Exercise is already part of this routine"})
		}
		return mapRoutineError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"routine_exercise": item})
}

func (h *RoutineHandler) UpdateRoutineExercise(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "routine exercise")
	}

	var req updateRoutineExerciseRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if msg := validateWeightType(req.WeightType, false); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	item, err := h.service.UpdateRoutineExercise(c.Context(), id, req.WeightType)
	if err != nil {
		return mapRoutineError(c, err)
	}

	return c.JSON(fiber.Map{"routine_exercise": item})
}

func (h *RoutineHandler) DeleteRoutineExercise(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "routine exercise")
	}

	if err := h.service.DeleteRoutineExercise(c.Context(), id); err != nil {
		return mapRoutineError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *RoutineHandler) AddSet(c *fiber.Ctx) error {
	routineExerciseID, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "routine exercise")
	}

	var req setRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if msg := validateSetRequest(req); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	set, err := h.service.AddSet(c.Context(), routineExerciseID, req.values())
	if err != nil {
		return mapRoutineError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"set": set})
}

func (h *RoutineHandler) UpdateSet(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "set")
	}

	var req setRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if msg := validateSetRequest(req); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	set, err := h.service.UpdateSet(c.Context(), id, req.values())
	if err != nil {
		return mapRoutineError(c, err)
	}

	return c.JSON(fiber.Map{"set": set})
}

func (h *RoutineHandler) DeleteSet(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "set")
	}

	if err := h.service.DeleteSet(c.Context(), id); err != nil {
		return mapRoutineError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *RoutineHandler) ListRoutineUsers(c *fiber.Ctx) error {
	routineID, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "routine")
	}

	users, err := h.service.ListRoutineUsers(c.Context(), routineID)
	if err != nil {
		return mapRoutineError(c, err)
	}

	return c.JSON(fiber.Map{"users": users})
}

func (h *RoutineHandler) AssignRoutine(c *fiber.Ctx) error {
	routineID, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "routine")
	}

	var req assignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if req.UserID <= 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "user_id must be a positive integer"})
	}

	assignment, err := h.service.AssignRoutine(c.Context(), req.UserID, routineID)
	if err != nil {
		if errors.Is(err, services.ErrConflict) {
			return c.Status(fiber.StatusConflict).
				JSON(fiber.Map{"error": "Routine is already assigned to this user"})
		}
		return mapRoutineError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"assignment": assignment})
}

func (h *RoutineHandler) UnassignRoutine(c *fiber.Ctx) error {
	routineID, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "routine")
	}
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return invalidID(c, "user")
	}

	if err := h.service.UnassignRoutine(c.Context(), userID, routineID); err != nil {
		return mapRoutineError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (r setRequest) values() services.SetValues {
	return services.SetValues{SuggestedWeight: r.SuggestedWeight, SuggestedReps: r.SuggestedReps}
}

func mapRoutineError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).
			JSON(fiber.Map{"error": "Routine or related resource not found"})
	case errors.Is(err, services.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Routine already exists"})
	default:
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to process routine request"})
	}
}
