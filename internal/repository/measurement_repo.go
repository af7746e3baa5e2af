package repository

import (
	"context"
	"time"

	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/models"
	"github.com/jackc/pgx/v5"
)

const measurementColumns = `id, user_id, measured_on, arms, waist, thighs, weight, height, created_at, updated_at`

type MeasurementInput struct {
	MeasuredOn *time.Time
	Arms       *float64
	Waist      *float64
	Thighs     *float64
	Weight     *float64
	Height     *float64
}

type MeasurementRepository struct {
	db DBTX
}

func NewMeasurementRepository(db DBTX) *MeasurementRepository {
	return &MeasurementRepository{db: db}
}

func (r *MeasurementRepository) Create(ctx context.Context, userID int64, input MeasurementInput) (*models.UserMeasurement, error) {
	query := `
		INSERT INTO user_measurements (user_id, measured_on, arms, waist, thighs, weight, height)
		VALUES ($1, COALESCE($2::date, CURRENT_DATE), $3, $4, $5, $6, $7)
		RETURNING ` + measurementColumns
	return scanMeasurement(r.db.QueryRow(
		ctx,
		query,
		userID,
		input.MeasuredOn,
		input.Arms,
		input.Waist,
		input.Thighs,
		input.Weight,
		input.Height,
	))
}

func (r *MeasurementRepository) GetByID(ctx context.Context, id int64) (*models.UserMeasurement, error) {
	query := `SELECT ` + measurementColumns + ` FROM user_measurements WHERE id = $1`
	return scanMeasurement(r.db.QueryRow(ctx, query, id))
}

// ListByUserID returns the measurement history newest first.
func (r *MeasurementRepository) ListByUserID(ctx context.Context, userID int64) ([]models.UserMeasurement, error) {
	query := `
		SELECT ` + measurementColumns + `
		FROM user_measurements
		WHERE user_id = $1
		ORDER BY measured_on DESC, id DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	measurements := make([]models.UserMeasurement, 0)
	for rows.Next() {
		measurement, err := scanMeasurement(rows)
		if err != nil {
			return nil, err
		}
		measurements = append(measurements, *measurement)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return measurements, nil
}

func (r *MeasurementRepository) Update(ctx context.Context, id int64, input MeasurementInput) (*models.UserMeasurement, error) {
	query := `
		UPDATE user_measurements
		SET measured_on = COALESCE($1::date, measured_on),
			arms = COALESCE($2, arms),
			waist = COALESCE($3, waist),
			thighs = COALESCE($4, thighs),
			weight = COALESCE($5, weight),
			height = COALESCE($6, height),
			updated_at = NOW()
		WHERE id = $7
		RETURNING ` + measurementColumns
	return scanMeasurement(r.db.QueryRow(
		ctx,
		query,
		input.MeasuredOn,
		input.Arms,
		input.Waist,
		input.Thighs,
		input.Weight,
		input.Height,
		id,
	))
}

func (r *MeasurementRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM user_measurements WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanMeasurement(row rowScanner) (*models.UserMeasurement, error) {
	var m models.UserMeasurement
	err := row.Scan(
		&m.ID,
		&m.UserID,
		&m.MeasuredOn,
		&m.Arms,
		&m.Waist,
		&m.Thighs,
		&m.Weight,
		&m.Height,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
