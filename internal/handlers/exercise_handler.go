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

const maxMediaSizeBytes = 25 * 1024 * 1024

type exerciseApplicationService interface {
	ListExercises(ctx context.Context, input services.ListExercisesInput) ([]models.Exercise, models.PaginationMeta, error)
	GetExercise(ctx context.Context, id int64) (*models.Exercise, error)
	CreateExercise(ctx context.Context, input repository.ExerciseInput) (*models.Exercise, error)
	UpdateExercise(ctx context.Context, id int64, input repository.UpdateExerciseInput) (*models.Exercise, error)
	DeleteExercise(ctx context.Context, id int64) error
	UploadMedia(ctx context.Context, id int64, input services.UploadMediaInput) (*models.Exercise, error)
}

type ExerciseHandler struct {
	service exerciseApplicationService
}

func NewExerciseHandler(service exerciseApplicationService) *ExerciseHandler {
	return &ExerciseHandler{service: service}
}

type exerciseRequest struct {
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	Category     *string `json:"category"`
	TargetMuscle *string `json:"target_muscle"`
	Equipment    *string `json:"equipment"`
	Difficulty   *string `json:"difficulty"`
	Instructions *string `json:"instructions"`
	VideoURL     *string `json:"video_url"`
	ImageURL     *string `json:"image_url"`
}

type updateExerciseRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	Category     *string `json:"category"`
	TargetMuscle *string `json:"target_muscle"`
	Equipment    *string `json:"equipment"`
	Difficulty   *string `json:"difficulty"`
	Instructions *string `json:"instructions"`
	VideoURL     *string `json:"video_url"`
	ImageURL     *string `json:"image_url"`
}

func (h *ExerciseHandler) ListExercises(c *fiber.Ctx) error {
	exercises, meta, err := h.service.ListExercises(c.Context(), services.ListExercisesInput{
		ListOptions: parseListOptions(c),
		Category:    strings.TrimSpace(c.Query("category")),
	})
	if err != nil {
		return mapExerciseError(c, err)
	}

	return c.JSON(fiber.Map{"exercises": exercises, "pagination": meta})
}

func (h *ExerciseHandler) GetExercise(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "exercise")
	}

	exercise, err := h.service.GetExercise(c.Context(), id)
	if err != nil {
		return mapExerciseError(c, err)
	}

	return c.JSON(fiber.Map{"exercise": exercise})
}

func (h *ExerciseHandler) CreateExercise(c *fiber.Ctx) error {
	var req exerciseRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if msg := validateExerciseRequest(req); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	exercise, err := h.service.CreateExercise(c.Context(), repository.ExerciseInput{
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		Category:     req.Category,
		TargetMuscle: req.TargetMuscle,
		Equipment:    req.Equipment,
		Difficulty:   req.Difficulty,
		Instructions: req.Instructions,
		VideoURL:     req.VideoURL,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		return mapExerciseError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"exercise": exercise})
}

func (h *ExerciseHandler) UpdateExercise(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "exercise")
	}

	var req updateExerciseRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if msg := validateUpdateExerciseRequest(req); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	exercise, err := h.service.UpdateExercise(c.Context(), id, repository.UpdateExerciseInput{
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		TargetMuscle: req.TargetMuscle,
		Equipment:    req.Equipment,
		Difficulty:   req.Difficulty,
		Instructions: req.Instructions,
		VideoURL:     req.VideoURL,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		return mapExerciseError(c, err)
	}

	return c.JSON(fiber.Map{"exercise": exercise})
}

func (h *ExerciseHandler) DeleteExercise(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "exercise")
	}

	if err := h.service.DeleteExercise(c.Context(), id); err != nil {
		if errors.Is(err, services.ErrConflict) {
			return c.Status(fiber.StatusConflict).
				JSON(fiber.Map{"error": "Exercise is used by a routine"})
		}
		return mapExerciseError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// UploadMedia expects a multipart form with the file under "file".
func (h *ExerciseHandler) UploadMedia(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "exercise")
	}

	kind := strings.ToLower(strings.TrimSpace(c.Params("kind")))
	if msg := validateMediaKind(kind); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}
	if fileHeader.Size <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is empty"})
	}
	if fileHeader.Size > maxMediaSizeBytes {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file exceeds 25MB limit"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to open file"})
	}
	defer file.Close()

	exercise, err := h.service.UploadMedia(c.Context(), id, services.UploadMediaInput{
		Kind:        kind,
		Body:        file,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(fiber.HeaderContentType),
	})
	if err != nil {
		return mapExerciseError(c, err)
	}

	return c.JSON(fiber.Map{"exercise": exercise})
}

func mapExerciseError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Exercise not found"})
	case errors.Is(err, services.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Exercise already exists"})
	case errors.Is(err, services.ErrStorageUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).
			JSON(fiber.Map{"error": "Storage service is not configured"})
	default:
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to process exercise request"})
	}
}
