package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/models"
	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
)

const foreignKeyViolationCode = "23503"

const (
	MediaKindImage = "image"
	MediaKindVideo = "video"
)

type exerciseStore interface {
	Create(ctx context.Context, input repository.ExerciseInput) (*models.Exercise, error)
	GetByID(ctx context.Context, id int64) (*models.Exercise, error)
	List(ctx context.Context, category string) ([]models.Exercise, error)
	Update(ctx context.Context, id int64, input repository.UpdateExerciseInput) (*models.Exercise, error)
	SetMediaURL(ctx context.Context, id int64, kind string, url string) (*models.Exercise, error)
	Delete(ctx context.Context, id int64) error
}

type ExerciseService struct {
	exercises      exerciseStore
	storageService StorageService
}

func NewExerciseService(exercises *repository.ExerciseRepository, storageService StorageService) *ExerciseService {
	return &ExerciseService{exercises: exercises, storageService: storageService}
}

type ListExercisesInput struct {
	ListOptions
	Category string
}

type UploadMediaInput struct {
	Kind        string
	Body        io.Reader
	Filename    string
	ContentType string
}

func (s *ExerciseService) ListExercises(ctx context.Context, input ListExercisesInput) ([]models.Exercise, models.PaginationMeta, error) {
	exercises, err := s.exercises.List(ctx, strings.TrimSpace(input.Category))
	if err != nil {
		return nil, models.PaginationMeta{}, err
	}
	filtered := FilterByQuery(exercises, input.Query, exerciseSearchFields)
	page, meta := Paginate(filtered, input.Page, input.Limit)
	return page, meta, nil
}

func (s *ExerciseService) GetExercise(ctx context.Context, id int64) (*models.Exercise, error) {
	exercise, err := s.exercises.GetByID(ctx, id)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return exercise, nil
}

func (s *ExerciseService) CreateExercise(ctx context.Context, input repository.ExerciseInput) (*models.Exercise, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, ErrInvalidInput
	}
	input.Description = trimOptional(input.Description)
	input.Category = trimOptional(input.Category)
	input.TargetMuscle = trimOptional(input.TargetMuscle)
	input.Equipment = trimOptional(input.Equipment)
	input.Difficulty = trimOptional(input.Difficulty)
	input.Instructions = trimOptional(input.Instructions)

	exercise, err := s.exercises.Create(ctx, input)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return exercise, nil
}

func (s *ExerciseService) UpdateExercise(ctx context.Context, id int64, input repository.UpdateExerciseInput) (*models.Exercise, error) {
	if input.Name != nil {
		input.Name = trimOptional(input.Name)
		if *input.Name == "" {
			return nil, ErrInvalidInput
		}
	}
	input.Description = trimOptional(input.Description)
	input.Category = trimOptional(input.Category)
	input.TargetMuscle = trimOptional(input.TargetMuscle)
	input.Equipment = trimOptional(input.Equipment)
	input.Difficulty = trimOptional(input.Difficulty)
	input.Instructions = trimOptional(input.Instructions)

	exercise, err := s.exercises.Update(ctx, id, input)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return exercise, nil
}

// DeleteExercise refuses to remove an exercise still used by a routine.
func (s *ExerciseService) DeleteExercise(ctx context.Context, id int64) error {
	err := s.exercises.Delete(ctx, id)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode {
		return ErrConflict
	}
	return translateStoreError(err)
}

// UploadMedia stores an image or video for an exercise and records its URL. The
// upload is removed again when the row cannot be updated.
func (s *ExerciseService) UploadMedia(ctx context.Context, id int64, input UploadMediaInput) (*models.Exercise, error) {
	if s.storageService == nil {
		return nil, ErrStorageUnavailable
	}
	if input.Kind != MediaKindImage && input.Kind != MediaKindVideo {
		return nil, ErrInvalidInput
	}
	if input.Body == nil {
		return nil, ErrInvalidInput
	}
	if _, err := s.GetExercise(ctx, id); err != nil {
		return nil, err
	}

	objectKey := buildMediaObjectKey(id, input.Kind, input.Filename)
	fileURL, err := s.storageService.Upload(ctx, input.Body, objectKey, input.ContentType)
	if err != nil {
		return nil, err
	}

	exercise, err := s.exercises.SetMediaURL(ctx, id, input.Kind, fileURL)
	if err != nil {
		if cleanupErr := s.storageService.Delete(ctx, fileURL); cleanupErr != nil {
			return nil, errors.Join(translateStoreError(err), fmt.Errorf("cleanup failed: %w", cleanupErr))
		}
		return nil, translateStoreError(err)
	}
	return exercise, nil
}

func buildMediaObjectKey(exerciseID int64, kind string, original string) string {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(original)))
	if ext == "" {
		ext = ".bin"
	}
	return fmt.Sprintf("exercises/%d/%s-%d%s", exerciseID, kind, time.Now().UnixNano(), ext)
}
