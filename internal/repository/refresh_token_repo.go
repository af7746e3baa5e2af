package repository

import (
	"context"
	"time"

	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/models"
)

const refreshTokenColumns = `id, user_id, session_id::text, token_hash, revoked, expires_at, created_at`

type RefreshTokenRepository struct {
	db DBTX
}

func NewRefreshTokenRepository(db DBTX) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, userID int64, sessionID, tokenHash string, expiresAt time.Time) (*models.RefreshToken, error) {
	query := `
		INSERT INTO refresh_tokens (user_id, session_id, token_hash, expires_at)
		VALUES ($1, $2::uuid, $3, $4)
		RETURNING ` + refreshTokenColumns
	return scanRefreshToken(r.db.QueryRow(ctx, query, userID, sessionID, tokenHash, expiresAt))
}

// GetActiveByHashForUpdate locks an unrevoked, unexpired token row for rotation.
func (r *RefreshTokenRepository) GetActiveByHashForUpdate(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	query := `
		SELECT ` + refreshTokenColumns + `
		FROM refresh_tokens
		WHERE token_hash = $1 AND revoked = FALSE AND expires_at > NOW()
		FOR UPDATE
	`
	return scanRefreshToken(r.db.QueryRow(ctx, query, tokenHash))
}

func (r *RefreshTokenRepository) Revoke(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `UPDATE refresh_tokens SET revoked = TRUE WHERE id = $1`, id)
	return err
}

// RevokeBySession revokes every live token of a login session.
func (r *RefreshTokenRepository) RevokeBySession(ctx context.Context, sessionID string) (int64, error) {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE refresh_tokens SET revoked = TRUE WHERE session_id = $1::uuid AND revoked = FALSE`,
		sessionID,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// RevokeByUser revokes every live token of a user across all sessions.
func (r *RefreshTokenRepository) RevokeByUser(ctx context.Context, userID int64) (int64, error) {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE refresh_tokens SET revoked = TRUE WHERE user_id = $1 AND revoked = FALSE`,
		userID,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanRefreshToken(row rowScanner) (*models.RefreshToken, error) {
	var token models.RefreshToken
	err := row.Scan(
		&token.ID,
		&token.UserID,
		&token.SessionID,
		&token.TokenHash,
		&token.Revoked,
		&token.ExpiresAt,
		&token.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &token, nil
}
