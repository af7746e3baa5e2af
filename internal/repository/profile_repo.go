package repository

import (
	"context"
	"time"

	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/models"
)

const profileColumns = `
	p.id, p.user_id, u.email, u.role, p.national_id, p.first_name, p.last_name, p.age,
	p.gender, p.goal, p.start_date, p.is_active, p.deleted_at, p.created_at, p.updated_at
`

type CreateProfileInput struct {
	UserID     int64
	NationalID *string
	FirstName  string
	LastName   string
	Age        *int
	Gender     *string
	Goal       *string
	StartDate  *time.Time
}

type UpdateProfileInput struct {
	NationalID *string
	FirstName  *string
	LastName   *string
	Age        *int
	Gender     *string
	Goal       *string
	StartDate  *time.Time
}

type ProfileListFilter struct {
	Role           string
	IncludeDeleted bool
}

type ProfileRepository struct {
	db DBTX
}

func NewProfileRepository(db DBTX) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Create(ctx context.Context, input CreateProfileInput) (*models.Profile, error) {
	query := `
		WITH p AS (
			INSERT INTO profiles (user_id, national_id, first_name, last_name, age, gender, goal, start_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, CURRENT_DATE))
			RETURNING *
		)
		SELECT ` + profileColumns + `
		FROM p
		JOIN users u ON u.id = p.user_id
	`
	return scanProfile(r.db.QueryRow(
		ctx,
		query,
		input.UserID,
		input.NationalID,
		input.FirstName,
		input.LastName,
		input.Age,
		input.Gender,
		input.Goal,
		input.StartDate,
	))
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = $1
	`
	return scanProfile(r.db.QueryRow(ctx, query, userID))
}

// List returns profiles ordered by name. Soft-deleted rows are skipped unless the
// filter asks for them.
func (r *ProfileRepository) List(ctx context.Context, filter ProfileListFilter) ([]models.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles p
		JOIN users u ON u.id = p.user_id
		WHERE ($1::boolean OR p.deleted_at IS NULL)
		  AND ($2 = '' OR u.role = $2)
		ORDER BY p.first_name ASC, p.last_name ASC, p.id ASC
	`
	rows, err := r.db.Query(ctx, query, filter.IncludeDeleted, filter.Role)
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

func (r *ProfileRepository) UpdatePartial(ctx context.Context, userID int64, input UpdateProfileInput) (*models.Profile, error) {
	query := `
		WITH p AS (
			UPDATE profiles
			SET national_id = COALESCE($1, national_id),
				first_name = COALESCE($2, first_name),
				last_name = COALESCE($3, last_name),
				age = COALESCE($4, age),
				gender = COALESCE($5, gender),
				goal = COALESCE($6, goal),
				start_date = COALESCE($7, start_date),
				updated_at = NOW()
			WHERE user_id = $8
			RETURNING *
		)
		SELECT ` + profileColumns + `
		FROM p
		JOIN users u ON u.id = p.user_id
	`
	return scanProfile(r.db.QueryRow(
		ctx,
		query,
		input.NationalID,
		input.FirstName,
		input.LastName,
		input.Age,
		input.Gender,
		input.Goal,
		input.StartDate,
		userID,
	))
}

// SoftDelete stamps deleted_at once; deleting an already deleted profile yields
// pgx.ErrNoRows.
func (r *ProfileRepository) SoftDelete(ctx context.Context, userID int64) (*models.Profile, error) {
	query := `
		WITH p AS (
			UPDATE profiles
			SET deleted_at = NOW(), updated_at = NOW()
			WHERE user_id = $1 AND deleted_at IS NULL
			RETURNING *
		)
		SELECT ` + profileColumns + `
		FROM p
		JOIN users u ON u.id = p.user_id
	`
	return scanProfile(r.db.QueryRow(ctx, query, userID))
}

func (r *ProfileRepository) SetActive(ctx context.Context, userID int64, active bool) (*models.Profile, error) {
	query := `
		WITH p AS (
			UPDATE profiles
			SET is_active = $2, updated_at = NOW()
			WHERE user_id = $1
			RETURNING *
		)
		SELECT ` + profileColumns + `
		FROM p
		JOIN users u ON u.id = p.user_id
	`
	return scanProfile(r.db.QueryRow(ctx, query, userID, active))
}

func scanProfile(row rowScanner) (*models.Profile, error) {
	var profile models.Profile
	err := row.Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Email,
		&profile.Role,
		&profile.NationalID,
		&profile.FirstName,
		&profile.LastName,
		&profile.Age,
		&profile.Gender,
		&profile.Goal,
		&profile.StartDate,
		&profile.IsActive,
		&profile.DeletedAt,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
