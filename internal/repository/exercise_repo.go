package repository

import (
	"context"
	"fmt"

	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/models"
	"github.com/jackc/pgx/v5"
)

const exerciseColumns = `
	id, name, description, category, target_muscle, equipment, difficulty,
	instructions, video_url, image_url, created_at, updated_at
`

type ExerciseInput struct {
	Name         string
	Description  *string
	Category     *string
	TargetMuscle *string
	Equipment    *string
	Difficulty   *string
	Instructions *string
	VideoURL     *string
	ImageURL     *string
}

type UpdateExerciseInput struct {
	Name         *string
	Description  *string
	Category     *string
	TargetMuscle *string
	Equipment    *string
	Difficulty   *string
	Instructions *string
	VideoURL     *string
	ImageURL     *string
}

type ExerciseRepository struct {
	db DBTX
}

func NewExerciseRepository(db DBTX) *ExerciseRepository {
	return &ExerciseRepository{db: db}
}

func (r *ExerciseRepository) Create(ctx context.Context, input ExerciseInput) (*models.Exercise, error) {
	query := `
		INSERT INTO exercises (name, description, category, target_muscle, equipment, difficulty, instructions, video_url, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + exerciseColumns
	return scanExercise(r.db.QueryRow(
		ctx,
		query,
		input.Name,
		input.Description,
		input.Category,
		input.TargetMuscle,
		input.Equipment,
		input.Difficulty,
		input.Instructions,
		input.VideoURL,
		input.ImageURL,
	))
}

func (r *ExerciseRepository) GetByID(ctx context.Context, id int64) (*models.Exercise, error) {
	query := `SELECT ` + exerciseColumns + ` FROM exercises WHERE id = $1`
	return scanExercise(r.db.QueryRow(ctx, query, id))
}

// List returns the catalog ordered by name, optionally narrowed to one category.
func (r *ExerciseRepository) List(ctx context.Context, category string) ([]models.Exercise, error) {
	query := `
		SELECT ` + exerciseColumns + `
		FROM exercises
		WHERE ($1 = '' OR LOWER(category) = LOWER($1))
		ORDER BY name ASC, id ASC
	`
	return r.list(ctx, query, category)
}

func (r *ExerciseRepository) ListByIDs(ctx context.Context, ids []int64) ([]models.Exercise, error) {
	if len(ids) == 0 {
		return []models.Exercise{}, nil
	}
	query := `
		SELECT ` + exerciseColumns + `
		FROM exercises
		WHERE id = ANY($1)
		ORDER BY name ASC, id ASC
	`
	return r.list(ctx, query, ids)
}

func (r *ExerciseRepository) Update(ctx context.Context, id int64, input UpdateExerciseInput) (*models.Exercise, error) {
	query := `
		UPDATE exercises
		SET name = COALESCE($1, name),
			description = COALESCE($2, description),
			category = COALESCE($3, category),
			target_muscle = COALESCE($4, target_muscle),
			equipment = COALESCE($5, equipment),
			difficulty = COALESCE($6, difficulty),
			instructions = COALESCE($7, instructions),
			video_url = COALESCE($8, video_url),
			image_url = COALESCE($9, image_url),
			updated_at = NOW()
		WHERE id = $10
		RETURNING ` + exerciseColumns
	return scanExercise(r.db.QueryRow(
		ctx,
		query,
		input.Name,
		input.Description,
		input.Category,
		input.TargetMuscle,
		input.Equipment,
		input.Difficulty,
		input.Instructions,
		input.VideoURL,
		input.ImageURL,
		id,
	))
}

// SetMediaURL records an uploaded media file. kind is "image" or "video".
func (r *ExerciseRepository) SetMediaURL(ctx context.Context, id int64, kind string, url string) (*models.Exercise, error) {
	var column string
	switch kind {
	case "image":
		column = "image_url"
	case "video":
		column = "video_url"
	default:
		return nil, fmt.Errorf("unknown media kind %q", kind)
	}

	query := fmt.Sprintf(`
		UPDATE exercises
		SET %s = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING %s`, column, exerciseColumns)
	return scanExercise(r.db.QueryRow(ctx, query, id, url))
}

func (r *ExerciseRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM exercises WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ExerciseRepository) list(ctx context.Context, query string, args ...any) ([]models.Exercise, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exercises := make([]models.Exercise, 0)
	for rows.Next() {
		exercise, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, *exercise)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return exercises, nil
}

func scanExercise(row rowScanner) (*models.Exercise, error) {
	var exercise models.Exercise
	err := row.Scan(
		&exercise.ID,
		&exercise.Name,
		&exercise.Description,
		&exercise.Category,
		&exercise.TargetMuscle,
		&exercise.Equipment,
		&exercise.Difficulty,
		&exercise.Instructions,
		&exercise.VideoURL,
		&exercise.ImageURL,
		&exercise.CreatedAt,
		&exercise.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &exercise, nil
}
