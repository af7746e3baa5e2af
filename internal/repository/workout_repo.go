package repository

import (
	"context"
	"time"

	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/models"
)

const (
	historyColumns    = `id, user_id, routine_exercise_id, set_number, weight, reps, completed_at`
	routineLogColumns = `id, user_id, routine_id, completed_on, created_at`
)

type HistoryInput struct {
	UserID            int64
	RoutineExerciseID int64
	SetNumber         int
	Weight            *float64
	Reps              *int
}

// WorkoutRepository holds the append-only workout history and routine logs.
type WorkoutRepository struct {
	db DBTX
}

func NewWorkoutRepository(db DBTX) *WorkoutRepository {
	return &WorkoutRepository{db: db}
}

func (r *WorkoutRepository) CreateHistory(ctx context.Context, input HistoryInput) (*models.WorkoutHistory, error) {
	query := `
		INSERT INTO workout_history (user_id, routine_exercise_id, set_number, weight, reps)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + historyColumns
	return scanHistory(r.db.QueryRow(
		ctx,
		query,
		input.UserID,
		input.RoutineExerciseID,
		input.SetNumber,
		input.Weight,
		input.Reps,
	))
}

// HasCompletedSet reports whether a history row exists for the set in [from, to).
func (r *WorkoutRepository) HasCompletedSet(ctx context.Context, userID, routineExerciseID int64, setNumber int, from, to time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM workout_history
			WHERE user_id = $1
				AND routine_exercise_id = $2
				AND set_number = $3
				AND completed_at >= $4
				AND completed_at < $5
		)
	`
	var done bool
	err := r.db.QueryRow(ctx, query, userID, routineExerciseID, setNumber, from, to).Scan(&done)
	return done, err
}

// ListCompletedBetween returns history rows of the given routine exercises in [from, to).
func (r *WorkoutRepository) ListCompletedBetween(ctx context.Context, userID int64, routineExerciseIDs []int64, from, to time.Time) ([]models.WorkoutHistory, error) {
	if len(routineExerciseIDs) == 0 {
		return []models.WorkoutHistory{}, nil
	}
	query := `
		SELECT ` + historyColumns + `
		FROM workout_history
		WHERE user_id = $1
			AND routine_exercise_id = ANY($2)
			AND completed_at >= $3
			AND completed_at < $4
		ORDER BY completed_at ASC, id ASC
	`
	return r.listHistory(ctx, query, userID, routineExerciseIDs, from, to)
}

func (r *WorkoutRepository) ListHistoryByUser(ctx context.Context, userID int64, limit int) ([]models.WorkoutHistory, error) {
	query := `
		SELECT ` + historyColumns + `
		FROM workout_history
		WHERE user_id = $1
		ORDER BY completed_at DESC, id DESC
		LIMIT $2
	`
	return r.listHistory(ctx, query, userID, limit)
}

func (r *WorkoutRepository) CreateRoutineLog(ctx context.Context, userID, routineID int64, completedOn time.Time) (*models.RoutineLog, error) {
	query := `
		INSERT INTO routine_logs (user_id, routine_id, completed_on)
		VALUES ($1, $2, $3::date)
		RETURNING ` + routineLogColumns
	var log models.RoutineLog
	err := r.db.QueryRow(ctx, query, userID, routineID, completedOn.Format(time.DateOnly)).Scan(
		&log.ID,
		&log.UserID,
		&log.RoutineID,
		&log.CompletedOn,
		&log.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *WorkoutRepository) ListRoutineLogsByUser(ctx context.Context, userID int64, limit int) ([]models.RoutineLog, error) {
	query := `
		SELECT ` + routineLogColumns + `
		FROM routine_logs
		WHERE user_id = $1
		ORDER BY completed_on DESC, id DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]models.RoutineLog, 0)
	for rows.Next() {
		var log models.RoutineLog
		if err := rows.Scan(&log.ID, &log.UserID, &log.RoutineID, &log.CompletedOn, &log.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *WorkoutRepository) listHistory(ctx context.Context, query string, args ...any) ([]models.WorkoutHistory, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.WorkoutHistory, 0)
	for rows.Next() {
		item, err := scanHistory(rows)
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

func scanHistory(row rowScanner) (*models.WorkoutHistory, error) {
	var item models.WorkoutHistory
	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.RoutineExerciseID,
		&item.SetNumber,
		&item.Weight,
		&item.Reps,
		&item.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
