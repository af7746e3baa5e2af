package repository

import (
	"context"

	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/models"
	"github.com/jackc/pgx/v5"
)

const routineColumns = `id, name, description, created_by, created_at, updated_at`

type CreateRoutineInput struct {
	Name        string
	Description *string
	CreatedBy   *int64
}

type UpdateRoutineInput struct {
	Name        *string
	Description *string
}

type RoutineRepository struct {
	db DBTX
}

func NewRoutineRepository(db DBTX) *RoutineRepository {
	return &RoutineRepository{db: db}
}

func (r *RoutineRepository) Create(ctx context.Context, input CreateRoutineInput) (*models.Routine, error) {
	query := `
		INSERT INTO routines (name, description, created_by)
		VALUES ($1, $2, $3)
		RETURNING ` + routineColumns
	return scanRoutine(r.db.QueryRow(ctx, query, input.Name, input.Description, input.CreatedBy))
}

func (r *RoutineRepository) GetByID(ctx context.Context, id int64) (*models.Routine, error) {
	query := `SELECT ` + routineColumns + ` FROM routines WHERE id = $1`
	return scanRoutine(r.db.QueryRow(ctx, query, id))
}

func (r *RoutineRepository) List(ctx context.Context) ([]models.Routine, error) {
	query := `SELECT ` + routineColumns + ` FROM routines ORDER BY name ASC, id ASC`
	return r.list(ctx, query)
}

func (r *RoutineRepository) ListByIDs(ctx context.Context, ids []int64) ([]models.Routine, error) {
	if len(ids) == 0 {
		return []models.Routine{}, nil
	}
	query := `SELECT ` + routineColumns + ` FROM routines WHERE id = ANY($1) ORDER BY name ASC, id ASC`
	return r.list(ctx, query, ids)
}

func (r *RoutineRepository) Update(ctx context.Context, id int64, input UpdateRoutineInput) (*models.Routine, error) {
	query := `
		UPDATE routines
		SET name = COALESCE($1, name),
			description = COALESCE($2, description),
			updated_at = NOW()
		WHERE id = $3
		RETURNING ` + routineColumns
	return scanRoutine(r.db.QueryRow(ctx, query, input.Name, input.Description, id))
}

func (r *RoutineRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM routines WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *RoutineRepository) list(ctx context.Context, query string, args ...any) ([]models.Routine, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	routines := make([]models.Routine, 0)
	for rows.Next() {
		routine, err := scanRoutine(rows)
		if err != nil {
			return nil, err
		}
		routines = append(routines, *routine)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return routines, nil
}

func scanRoutine(row rowScanner) (*models.Routine, error) {
	var routine models.Routine
	err := row.Scan(
		&routine.ID,
		&routine.Name,
		&routine.Description,
		&routine.CreatedBy,
		&routine.CreatedAt,
		&routine.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &routine, nil
}
