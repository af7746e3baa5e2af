package repository

import (
	"context"

	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/models"
	"github.com/jackc/pgx/v5"
)

const setColumns = `id, routine_exercise_id, set_number, suggested_weight, suggested_reps, created_at`

type SetInput struct {
	RoutineExerciseID int64
	SetNumber         int
	SuggestedWeight   *float64
	SuggestedReps     *int
}

type UpdateSetInput struct {
	SuggestedWeight *float64
	SuggestedReps   *int
}

type SetRepository struct {
	db DBTX
}

func NewSetRepository(db DBTX) *SetRepository {
	return &SetRepository{db: db}
}

// LockRoutineExercise serialises set numbering for one routine exercise until the
// surrounding transaction ends. It must run inside a transaction.
func (r *SetRepository) LockRoutineExercise(ctx context.Context, routineExerciseID int64) error {
	_, err := r.db.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, routineExerciseID)
	return err
}

func (r *SetRepository) NextSetNumber(ctx context.Context, routineExerciseID int64) (int, error) {
	var next int
	err := r.db.QueryRow(
		ctx,
		`SELECT COALESCE(MAX(set_number), 0) + 1 FROM routine_exercise_sets WHERE routine_exercise_id = $1`,
		routineExerciseID,
	).Scan(&next)
	if err != nil {
		return 0, err
	}
	return next, nil
}

func (r *SetRepository) Create(ctx context.Context, input SetInput) (*models.RoutineExerciseSet, error) {
	query := `
		INSERT INTO routine_exercise_sets (routine_exercise_id, set_number, suggested_weight, suggested_reps)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + setColumns
	return scanSet(r.db.QueryRow(
		ctx,
		query,
		input.RoutineExerciseID,
		input.SetNumber,
		input.SuggestedWeight,
		input.SuggestedReps,
	))
}

func (r *SetRepository) GetByID(ctx context.Context, id int64) (*models.RoutineExerciseSet, error) {
	query := `SELECT ` + setColumns + ` FROM routine_exercise_sets WHERE id = $1`
	return scanSet(r.db.QueryRow(ctx, query, id))
}

func (r *SetRepository) ListByRoutineExerciseIDs(ctx context.Context, ids []int64) ([]models.RoutineExerciseSet, error) {
	if len(ids) == 0 {
		return []models.RoutineExerciseSet{}, nil
	}
	query := `
		SELECT ` + setColumns + `
		FROM routine_exercise_sets
		WHERE routine_exercise_id = ANY($1)
		ORDER BY routine_exercise_id ASC, set_number ASC
	`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sets := make([]models.RoutineExerciseSet, 0)
	for rows.Next() {
		set, err := scanSet(rows)
		if err != nil {
			return nil, err
		}
		sets = append(sets, *set)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sets, nil
}

func (r *SetRepository) Update(ctx context.Context, id int64, input UpdateSetInput) (*models.RoutineExerciseSet, error) {
	query := `
		UPDATE routine_exercise_sets
		SET suggested_weight = COALESCE($1, suggested_weight),
			suggested_reps = COALESCE($2, suggested_reps)
		WHERE id = $3
		RETURNING ` + setColumns
	return scanSet(r.db.QueryRow(ctx, query, input.SuggestedWeight, input.SuggestedReps, id))
}

// Delete removes one set. Remaining set numbers are left as they are.
func (r *SetRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM routine_exercise_sets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *SetRepository) DeleteByRoutineExerciseIDs(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM routine_exercise_sets WHERE routine_exercise_id = ANY($1)`, ids)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanSet(row rowScanner) (*models.RoutineExerciseSet, error) {
	var set models.RoutineExerciseSet
	err := row.Scan(
		&set.ID,
		&set.RoutineExerciseID,
		&set.SetNumber,
		&set.SuggestedWeight,
		&set.SuggestedReps,
		&set.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &set, nil
}
