package services

import (
	"context"

	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/models"
	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/repository"
)

type measurementStore interface {
	Create(ctx context.Context, userID int64, input repository.MeasurementInput) (*models.UserMeasurement, error)
	GetByID(ctx context.Context, id int64) (*models.UserMeasurement, error)
	ListByUserID(ctx context.Context, userID int64) ([]models.UserMeasurement, error)
	Update(ctx context.Context, id int64, input repository.MeasurementInput) (*models.UserMeasurement, error)
	Delete(ctx context.Context, id int64) error
}

type MeasurementService struct {
	measurements measurementStore
	profiles     profileReader
}

func NewMeasurementService(measurements *repository.MeasurementRepository, profiles *repository.ProfileRepository) *MeasurementService {
	return &MeasurementService{measurements: measurements, profiles: profiles}
}

func (s *MeasurementService) ListMeasurements(ctx context.Context, userID int64) ([]models.UserMeasurement, error) {
	return s.measurements.ListByUserID(ctx, userID)
}

func (s *MeasurementService) CreateMeasurement(ctx context.Context, userID int64, input repository.MeasurementInput) (*models.UserMeasurement, error) {
	if userID <= 0 || !validMeasurement(input) {
		return nil, ErrInvalidInput
	}
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, translateStoreError(err)
	}
	if profile.IsDeleted() {
		return nil, ErrNotFound
	}

	measurement, err := s.measurements.Create(ctx, userID, input)
	if err != nil {
		return nil, translateReferenceError(err)
	}
	return measurement, nil
}

func (s *MeasurementService) UpdateMeasurement(ctx context.Context, id int64, input repository.MeasurementInput) (*models.UserMeasurement, error) {
	if !validMeasurement(input) {
		return nil, ErrInvalidInput
	}
	measurement, err := s.measurements.Update(ctx, id, input)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return measurement, nil
}

func (s *MeasurementService) DeleteMeasurement(ctx context.Context, id int64) error {
	return translateStoreError(s.measurements.Delete(ctx, id))
}

func validMeasurement(input repository.MeasurementInput) bool {
	for _, value := range []*float64{input.Arms, input.Waist, input.Thighs, input.Weight, input.Height} {
		if value != nil && *value <= 0 {
			return false
		}
	}
	return true
}
