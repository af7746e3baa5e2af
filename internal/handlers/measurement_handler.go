package handlers

import (
	"context"
	"errors"

	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/models"
	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/repository"
	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/services"
	"github.com/gofiber/fiber/v2"
)

type measurementApplicationService interface {
	ListMeasurements(ctx context.Context, userID int64) ([]models.UserMeasurement, error)
	CreateMeasurement(ctx context.Context, userID int64, input repository.MeasurementInput) (*models.UserMeasurement, error)
	UpdateMeasurement(ctx context.Context, id int64, input repository.MeasurementInput) (*models.UserMeasurement, error)
	DeleteMeasurement(ctx context.Context, id int64) error
}

type MeasurementHandler struct {
	service measurementApplicationService
}

func NewMeasurementHandler(service measurementApplicationService) *MeasurementHandler {
	return &MeasurementHandler{service: service}
}

type measurementRequest struct {
	MeasuredOn *string  `json:"measured_on"`
	Arms       *float64 `json:"arms"`
	Waist      *float64 `json:"waist"`
	Thighs     *float64 `json:"thighs"`
	Weight     *float64 `json:"weight"`
	Height     *float64 `json:"height"`
}

func (h *MeasurementHandler) ListMeasurements(c *fiber.Ctx) error {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "user")
	}
	return h.list(c, userID)
}

func (h *MeasurementHandler) ListOwnMeasurements(c *fiber.Ctx) error {
	userID, err := parseProfileUserID(c)
	if err != nil {
		return invalidToken(c)
	}
	return h.list(c, userID)
}

func (h *MeasurementHandler) list(c *fiber.Ctx, userID int64) error {
	measurements, err := h.service.ListMeasurements(c.Context(), userID)
	if err != nil {
		return mapMeasurementError(c, err)
	}
	if measurements == nil {
		measurements = []models.UserMeasurement{}
	}
	return c.JSON(fiber.Map{"measurements": measurements})
}

func (h *MeasurementHandler) CreateMeasurement(c *fiber.Ctx) error {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "user")
	}

	var req measurementRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if msg := validateMeasurementRequest(req); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	measurement, err := h.service.CreateMeasurement(c.Context(), userID, req.toInput())
	if err != nil {
		return mapMeasurementError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"measurement": measurement})
}

func (h *MeasurementHandler) UpdateMeasurement(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "measurement")
	}

	var req measurementRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if msg := validateMeasurementRequest(req); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	measurement, err := h.service.UpdateMeasurement(c.Context(), id, req.toInput())
	if err != nil {
		return mapMeasurementError(c, err)
	}

	return c.JSON(fiber.Map{"measurement": measurement})
}

func (h *MeasurementHandler) DeleteMeasurement(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "measurement")
	}

	if err := h.service.DeleteMeasurement(c.Context(), id); err != nil {
		return mapMeasurementError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (r measurementRequest) toInput() repository.MeasurementInput {
	measuredOn, _ := parseDate(r.MeasuredOn)
	return repository.MeasurementInput{
		MeasuredOn: measuredOn,
		Arms:       r.Arms,
		Waist:      r.Waist,
		Thighs:     r.Thighs,
		Weight:     r.Weight,
		Height:     r.Height,
	}
}

func mapMeasurementError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).
			JSON(fiber.Map{"error": "Measurement or user not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to process measurement request"})
	}
}
