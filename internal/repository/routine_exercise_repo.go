package repository

import (
	"context"

	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/models"
	"github.com/jackc/pgx/v5"
)

const routineExerciseColumns = `id, routine_id, exercise_id, weight_type, created_at`

type RoutineExerciseRepository struct {
	db DBTX
}

func NewRoutineExerciseRepository(db DBTX) *RoutineExerciseRepository {
	return &RoutineExerciseRepository{db: db}
}

func (r *RoutineExerciseRepository) Create(ctx context.Context, routineID, exerciseID int64, weightType string) (*models.RoutineExercise, error) {
	query := `
		INSERT INTO routine_exercises (routine_id, exercise_id, weight_type)
		VALUES ($1, $2, $3)
		RETURNING ` + routineExerciseColumns
	return scanRoutineExercise(r.db.QueryRow(ctx, query, routineID, exerciseID, weightType))
}

func (r *RoutineExerciseRepository) GetByID(ctx context.Context, id int64) (*models.RoutineExercise, error) {
	query := `SELECT ` + routineExerciseColumns + ` FROM routine_exercises WHERE id = $1`
	return scanRoutineExercise(r.db.QueryRow(ctx, query, id))
}

func (r *RoutineExerciseRepository) ListByRoutineID(ctx context.Context, routineID int64) ([]models.RoutineExercise, error) {
	query := `
		SELECT ` + routineExerciseColumns + `
		FROM routine_exercises
		WHERE routine_id = $1
		ORDER BY id ASC
	`
	rows, err := r.db.Query(ctx, query, routineID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.RoutineExercise, 0)
	for rows.Next() {
		item, err := scanRoutineExercise(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *RoutineExerciseRepository) UpdateWeightType(ctx context.Context, id int64, weightType string) (*models.RoutineExercise, error) {
	query := `
		UPDATE routine_exercises
		SET weight_type = $1
		WHERE id = $2
		RETURNING ` + routineExerciseColumns
	return scanRoutineExercise(r.db.QueryRow(ctx, query, weightType, id))
}

func (r *RoutineExerciseRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM routine_exercises WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// DeleteByRoutineID removes every exercise row of a routine and returns their ids.
func (r *RoutineExerciseRepository) DeleteByRoutineID(ctx context.Context, routineID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx, `DELETE FROM routine_exercises WHERE routine_id = $1 RETURNING id`, routineID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

func scanRoutineExercise(row rowScanner) (*models.RoutineExercise, error) {
	var item models.RoutineExercise
	err := row.Scan(
		&item.ID,
		&item.RoutineID,
		&item.ExerciseID,
		&item.WeightType,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
