package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/models"
	"github.com/Diegocarque12/cumbaGymApp-sub000/pkg/utils"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret"

type stubCredentials struct {
	users map[string]*models.User
}

func (s *stubCredentials) GetByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := s.users[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (s *stubCredentials) GetByID(_ context.Context, id int64) (*models.User, error) {
	for _, user := range s.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type mockRefreshTokenStore struct {
	mock.Mock
}

func (m *mockRefreshTokenStore) Create(ctx context.Context, userID int64, sessionID, tokenHash string, expiresAt time.Time) (*models.RefreshToken, error) {
	args := m.Called(ctx, userID, sessionID, tokenHash, expiresAt)
	token, _ := args.Get(0).(*models.RefreshToken)
	return token, args.Error(1)
}

func (m *mockRefreshTokenStore) RevokeBySession(ctx context.Context, sessionID string) (int64, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(int64), args.Error(1)
}

func newTestAuthService(t *testing.T, profiles ...models.Profile) (*AuthService, *mockRefreshTokenStore, *MemorySessionStateStore) {
	t.Helper()

	hash, err := utils.HashPassword("correct-horse")
	require.NoError(t, err)

	tokens := &mockRefreshTokenStore{}
	store := NewMemorySessionStateStore(time.Hour)
	service := &AuthService{
		users: &stubCredentials{users: map[string]*models.User{
			"ana@gym.test":   {ID: 1, Email: "ana@gym.test", PasswordHash: hash, Role: models.RoleUser},
			"luis@gym.test":  {ID: 2, Email: "luis@gym.test", PasswordHash: hash, Role: models.RoleCoach},
			"marta@gym.test": {ID: 3, Email: "marta@gym.test", PasswordHash: hash, Role: models.RoleUser},
		}},
		profiles:   newStubProfileStore(profiles...),
		tokens:     tokens,
		sessions:   NewSessionStateService(store),
		jwtSecret:  testJWTSecret,
		refreshTTL: 24 * time.Hour,
	}
	return service, tokens, store
}

func TestAuthServiceLoginIssuesTokensAndInitializesState(t *testing.T) {
	service, tokens, store := newTestAuthService(t, testProfiles()...)
	tokens.On("Create", mock.Anything, int64(1), mock.AnythingOfType("string"), mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
		Return(&models.RefreshToken{ID: 1}, nil).Once()

	result, err := service.Login(context.Background(), "  ANA@gym.test ", "correct-horse")
	require.NoError(t, err)

	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "Ana", result.Profile.FirstName)

	claims, err := utils.ValidateToken(result.AccessToken, testJWTSecret)
	require.NoError(t, err)
	assert.Equal(t, "1", claims.UserID)
	assert.Equal(t, models.RoleUser, claims.Role)
	assert.Equal(t, result.SessionID, claims.SessionID)

	storedHash := tokens.Calls[0].Arguments.String(3)
	assert.Equal(t, utils.HashRefreshToken(result.RefreshToken), storedHash)
	assert.Equal(t, result.SessionID, tokens.Calls[0].Arguments.String(2))

	state, err := store.Load(context.Background(), result.SessionID)
	require.NoError(t, err)
	assert.Empty(t, state.PinnedUserIDs)
	tokens.AssertExpectations(t)
}

func TestAuthServiceLoginRejectsBadCredentials(t *testing.T) {
	service, tokens, _ := newTestAuthService(t, testProfiles()...)

	_, err := service.Login(context.Background(), "ana@gym.test", "wrong-password")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = service.Login(context.Background(), "nobody@gym.test", "correct-horse")
	assert.ErrorIs(t, err, ErrUnauthorized)

	tokens.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthServiceLoginRejectsDeletedAndInactiveProfiles(t *testing.T) {
	profiles := testProfiles()
	profiles = append(profiles, models.Profile{ID: 2, UserID: 2, FirstName: "Luis", IsActive: false})
	service, _, _ := newTestAuthService(t, profiles...)

	_, err := service.Login(context.Background(), "marta@gym.test", "correct-horse")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = service.Login(context.Background(), "luis@gym.test", "correct-horse")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAccountStanding(t *testing.T) {
	deletedAt := time.Now()

	assert.NoError(t, accountStanding(&models.Profile{IsActive: true}))
	assert.ErrorIs(t, accountStanding(&models.Profile{IsActive: false}), ErrForbidden)
	assert.ErrorIs(t, accountStanding(&models.Profile{IsActive: true, DeletedAt: &deletedAt}), ErrUnauthorized)
	assert.ErrorIs(t, accountStanding(&models.Profile{IsActive: false, DeletedAt: &deletedAt}), ErrUnauthorized)
}

func TestAuthServiceRevokeSessionClearsState(t *testing.T) {
	service, tokens, store := newTestAuthService(t)
	sessionID := "1b4e28ba-2fa1-11d2-883f-0016d3cca427"
	require.NoError(t, store.Save(context.Background(), sessionID, &models.SessionState{PinnedUserIDs: []int64{4}}))
	tokens.On("RevokeBySession", mock.Anything, sessionID).Return(int64(1), nil).Once()

	require.NoError(t, service.RevokeSession(context.Background(), sessionID))

	state, err := store.Load(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Empty(t, state.PinnedUserIDs)
	tokens.AssertExpectations(t)
}

func TestAuthServiceRevokeSessionJoinsErrors(t *testing.T) {
	service, tokens, _ := newTestAuthService(t)
	sessionID := "1b4e28ba-2fa1-11d2-883f-0016d3cca427"
	revokeErr := errors.New("db down")
	tokens.On("RevokeBySession", mock.Anything, sessionID).Return(int64(0), revokeErr).Once()

	err := service.RevokeSession(context.Background(), sessionID)
	assert.ErrorIs(t, err, revokeErr)

	assert.ErrorIs(t, service.RevokeSession(context.Background(), "not-a-uuid"), ErrInvalidInput)
	assert.NoError(t, service.RevokeSession(context.Background(), ""))
}

func TestAuthServiceRefreshRejectsBlankToken(t *testing.T) {
	service, _, _ := newTestAuthService(t)

	_, err := service.Refresh(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthServiceMe(t *testing.T) {
	service, _, _ := newTestAuthService(t, testProfiles()...)

	profile, err := service.Me(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Ana", profile.FirstName)

	_, err = service.Me(context.Background(), 3)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = service.Me(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}
