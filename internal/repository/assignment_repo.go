package repository

import (
	"context"

	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/models"
	"github.com/jackc/pgx/v5"
)

const assignmentColumns = `id, user_id, routine_id, assigned_at`

// AssignmentRepository stores which routines are assigned to which users.
type AssignmentRepository struct {
	db DBTX
}

func NewAssignmentRepository(db DBTX) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) Assign(ctx context.Context, userID, routineID int64) (*models.UserRoutine, error) {
	query := `
		INSERT INTO profile_routines (user_id, routine_id)
		VALUES ($1, $2)
		RETURNING ` + assignmentColumns
	var item models.UserRoutine
	err := r.db.QueryRow(ctx, query, userID, routineID).Scan(
		&item.ID,
		&item.UserID,
		&item.RoutineID,
		&item.AssignedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *AssignmentRepository) Unassign(ctx context.Context, userID, routineID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM profile_routines WHERE user_id = $1 AND routine_id = $2`, userID, routineID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *AssignmentRepository) ListRoutineIDsByUser(ctx context.Context, userID int64) ([]int64, error) {
	return r.listIDs(ctx, `SELECT routine_id FROM profile_routines WHERE user_id = $1 ORDER BY assigned_at ASC, id ASC`, userID)
}

// ListUsersByRoutine returns the non-deleted profiles a routine is assigned to.
func (r *AssignmentRepository) ListUsersByRoutine(ctx context.Context, routineID int64) ([]models.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profile_routines pr
		JOIN profiles p ON p.user_id = pr.user_id
		JOIN users u ON u.id = p.user_id
		WHERE pr.routine_id = $1 AND p.deleted_at IS NULL
		ORDER BY p.first_name ASC, p.last_name ASC, p.id ASC
	`
	rows, err := r.db.Query(ctx, query, routineID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]models.Profile, 0)
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *profile)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *AssignmentRepository) IsAssigned(ctx context.Context, userID, routineID int64) (bool, error) {
	var assigned bool
	err := r.db.QueryRow(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM profile_routines WHERE user_id = $1 AND routine_id = $2)`,
		userID,
		routineID,
	).Scan(&assigned)
	return assigned, err
}

// RoutineIDForAssignedExercise resolves the routine owning a routine exercise, but only
// when that routine is assigned to the user. pgx.ErrNoRows otherwise.
func (r *AssignmentRepository) RoutineIDForAssignedExercise(ctx context.Context, userID, routineExerciseID int64) (int64, error) {
	query := `
		SELECT re.routine_id
		FROM routine_exercises re
		JOIN profile_routines pr ON pr.routine_id = re.routine_id
		WHERE re.id = $1 AND pr.user_id = $2
	`
	var routineID int64
	if err := r.db.QueryRow(ctx, query, routineExerciseID, userID).Scan(&routineID); err != nil {
		return 0, err
	}
	return routineID, nil
}

func (r *AssignmentRepository) DeleteByRoutineID(ctx context.Context, routineID int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM profile_routines WHERE routine_id = $1`, routineID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *AssignmentRepository) listIDs(ctx context.Context, query string, args ...any) ([]int64, error) {
	rows, err := r.db.Query(ctx, query, args...)
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
