package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/models"
	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/repository"
	"github.com/Diegocarque12/cumbaGymApp-sub000/pkg/utils"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const refreshTokenBytes = 32

type credentialReader interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type refreshTokenStore interface {
	Create(ctx context.Context, userID int64, sessionID, tokenHash string, expiresAt time.Time) (*models.RefreshToken, error)
	RevokeBySession(ctx context.Context, sessionID string) (int64, error)
}

type accountCreator interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*models.Profile, error)
}

type profileReader interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Profile, error)
}

type AuthService struct {
	db         txBeginner
	users      credentialReader
	profiles   profileReader
	tokens     refreshTokenStore
	accounts   accountCreator
	sessions   *SessionStateService
	jwtSecret  string
	refreshTTL time.Duration
}

func NewAuthService(
	db txBeginner,
	users *repository.UserRepository,
	profiles *repository.ProfileRepository,
	tokens *repository.RefreshTokenRepository,
	accounts *UserService,
	sessions *SessionStateService,
	jwtSecret string,
	refreshTTL time.Duration,
) *AuthService {
	return &AuthService{
		db:         db,
		users:      users,
		profiles:   profiles,
		tokens:     tokens,
		accounts:   accounts,
		sessions:   sessions,
		jwtSecret:  jwtSecret,
		refreshTTL: refreshTTL,
	}
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type AuthResult struct {
	AccessToken  string          `json:"token"`
	RefreshToken string          `json:"refresh_token"`
	SessionID    string          `json:"session_id"`
	ExpiresIn    int64           `json:"expires_in"`
	Profile      *models.Profile `json:"profile,omitempty"`
}

// Register signs a new account up with the user role and an empty profile.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.Profile, error) {
	return s.accounts.CreateUser(ctx, CreateUserInput{
		Email:     input.Email,
		Password:  input.Password,
		Role:      models.RoleUser,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	})
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if !utils.CheckPassword(password, user.PasswordHash) {
		return nil, ErrUnauthorized
	}

	profile, err := s.profiles.GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if err := accountStanding(profile); err != nil {
		return nil, err
	}

	sessionID := uuid.NewString()
	result, err := s.issue(ctx, s.tokens, user, sessionID)
	if err != nil {
		return nil, err
	}
	result.Profile = profile

	if s.sessions != nil {
		if err := s.sessions.Initialize(ctx, sessionID); err != nil {
			log.Printf("login %d: initialize session state: %v", user.ID, err)
		}
	}
	return result, nil
}

// Refresh rotates a refresh token. The old token is revoked in the same transaction
// that stores its replacement, and the session id is kept.
func (s *AuthService) Refresh(ctx context.Context, rawToken string) (*AuthResult, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return nil, ErrUnauthorized
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txTokens := repository.NewRefreshTokenRepository(tx)
	current, err := txTokens.GetActiveByHashForUpdate(ctx, utils.HashRefreshToken(rawToken))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if err := txTokens.Revoke(ctx, current.ID); err != nil {
		return nil, err
	}

	user, err := repository.NewUserRepository(tx).GetByID(ctx, current.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	profile, err := repository.NewProfileRepository(tx).GetByUserID(ctx, current.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if err := accountStanding(profile); err != nil {
		// Keep the revocation: a closed account loses the token either way.
		if commitErr := tx.Commit(ctx); commitErr != nil {
			return nil, commitErr
		}
		return nil, err
	}

	result, err := s.issue(ctx, txTokens, user, current.SessionID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return result, nil
}

// RevokeSession signs a login session out: its refresh tokens stop working and its
// client state is dropped.
func (s *AuthService) RevokeSession(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return nil
	}
	if _, err := uuid.Parse(sessionID); err != nil {
		return ErrInvalidInput
	}

	var errs []error
	if _, err := s.tokens.RevokeBySession(ctx, sessionID); err != nil {
		errs = append(errs, fmt.Errorf("revoke refresh tokens: %w", err))
	}
	if s.sessions != nil {
		if err := s.sessions.Clear(ctx, sessionID); err != nil {
			errs = append(errs, fmt.Errorf("clear session state: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.RevokeSession(ctx, sessionID)
}

// Me returns the profile behind an access token.
func (s *AuthService) Me(ctx context.Context, userID int64) (*models.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, translateStoreError(err)
	}
	if profile.IsDeleted() {
		return nil, ErrUnauthorized
	}
	return profile, nil
}

// accountStanding is checked on every token grant. Deleted accounts look like
// unknown ones; deactivated accounts are told they are blocked.
func accountStanding(profile *models.Profile) error {
	if profile.IsDeleted() {
		return ErrUnauthorized
	}
	if !profile.IsActive {
		return ErrForbidden
	}
	return nil
}

func (s *AuthService) issue(ctx context.Context, tokens refreshTokenStore, user *models.User, sessionID string) (*AuthResult, error) {
	accessToken, err := utils.GenerateToken(strconv.FormatInt(user.ID, 10), user.Role, sessionID, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	rawRefresh, refreshHash, err := utils.GenerateRefreshToken(refreshTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	if _, err := tokens.Create(ctx, user.ID, sessionID, refreshHash, time.Now().Add(s.refreshTTL)); err != nil {
		return nil, err
	}

	return &AuthResult{
		AccessToken:  accessToken,
		RefreshToken: rawRefresh,
		SessionID:    sessionID,
		ExpiresIn:    int64(utils.AccessTokenTTL.Seconds()),
	}, nil
}
