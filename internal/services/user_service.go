package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/models"
	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/repository"
	"github.com/Diegocarque12/cumbaGymApp-sub000/pkg/utils"
	"github.com/jackc/pgx/v5"
)

const minPasswordLength = 8

type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type profileStore interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Profile, error)
	List(ctx context.Context, filter repository.ProfileListFilter) ([]models.Profile, error)
	UpdatePartial(ctx context.Context, userID int64, input repository.UpdateProfileInput) (*models.Profile, error)
	SoftDelete(ctx context.Context, userID int64) (*models.Profile, error)
	SetActive(ctx context.Context, userID int64, active bool) (*models.Profile, error)
}

type assignedRoutineReader interface {
	ListRoutineIDsByUser(ctx context.Context, userID int64) ([]int64, error)
}

type routinesByIDReader interface {
	ListByIDs(ctx context.Context, ids []int64) ([]models.Routine, error)
}

type measurementLister interface {
	ListByUserID(ctx context.Context, userID int64) ([]models.UserMeasurement, error)
}

type userTokenRevoker interface {
	RevokeByUser(ctx context.Context, userID int64) (int64, error)
}

type UserService struct {
	db           txBeginner
	profiles     profileStore
	tokens       userTokenRevoker
	assignments  assignedRoutineReader
	routines     routinesByIDReader
	measurements measurementLister
}

func NewUserService(
	db txBeginner,
	profiles *repository.ProfileRepository,
	tokens *repository.RefreshTokenRepository,
	assignments *repository.AssignmentRepository,
	routines *repository.RoutineRepository,
	measurements *repository.MeasurementRepository,
) *UserService {
	return &UserService{
		db:           db,
		profiles:     profiles,
		tokens:       tokens,
		assignments:  assignments,
		routines:     routines,
		measurements: measurements,
	}
}

type CreateUserInput struct {
	Email      string
	Password   string
	Role       string
	NationalID *string
	FirstName  string
	LastName   string
	Age        *int
	Gender     *string
	Goal       *string
	StartDate  *time.Time
}

type UpdateUserInput struct {
	Role *string
	repository.UpdateProfileInput
}

type ListUsersInput struct {
	ListOptions
	Role           string
	IncludeDeleted bool
}

// CreateUser inserts the login identity and its profile in one transaction.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*models.Profile, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidInput
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrInvalidInput
	}
	if input.Role == "" {
		input.Role = models.RoleUser
	}
	if !models.ValidRole(input.Role) {
		return nil, ErrInvalidInput
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	user := &models.User{Email: email, PasswordHash: hash, Role: input.Role}
	if err := repository.NewUserRepository(tx).CreateUser(ctx, user); err != nil {
		return nil, translateStoreError(err)
	}

	profile, err := repository.NewProfileRepository(tx).Create(ctx, repository.CreateProfileInput{
		UserID:     user.ID,
		NationalID: trimOptional(input.NationalID),
		FirstName:  strings.TrimSpace(input.FirstName),
		LastName:   strings.TrimSpace(input.LastName),
		Age:        input.Age,
		Gender:     trimOptional(input.Gender),
		Goal:       trimOptional(input.Goal),
		StartDate:  input.StartDate,
	})
	if err != nil {
		return nil, translateStoreError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return profile, nil
}

// ListUsers filters by name or national id, then paginates.
func (s *UserService) ListUsers(ctx context.Context, input ListUsersInput) ([]models.Profile, models.PaginationMeta, error) {
	profiles, err := s.profiles.List(ctx, repository.ProfileListFilter{
		Role:           input.Role,
		IncludeDeleted: input.IncludeDeleted,
	})
	if err != nil {
		return nil, models.PaginationMeta{}, err
	}

	filtered := FilterByQuery(profiles, input.Query, profileSearchFields)
	page, meta := Paginate(filtered, input.Page, input.Limit)
	return page, meta, nil
}

func (s *UserService) GetUser(ctx context.Context, userID int64, includeDeleted bool) (*models.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, translateStoreError(err)
	}
	if profile.IsDeleted() && !includeDeleted {
		return nil, ErrNotFound
	}
	return profile, nil
}

func (s *UserService) UpdateUser(ctx context.Context, userID int64, input UpdateUserInput) (*models.Profile, error) {
	if _, err := s.GetUser(ctx, userID, false); err != nil {
		return nil, err
	}
	normalizeProfileInput(&input.UpdateProfileInput)

	if input.Role == nil {
		profile, err := s.profiles.UpdatePartial(ctx, userID, input.UpdateProfileInput)
		return profile, translateStoreError(err)
	}
	if !models.ValidRole(*input.Role) {
		return nil, ErrInvalidInput
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := repository.NewUserRepository(tx).UpdateRole(ctx, userID, *input.Role); err != nil {
		return nil, translateStoreError(err)
	}
	profile, err := repository.NewProfileRepository(tx).UpdatePartial(ctx, userID, input.UpdateProfileInput)
	if err != nil {
		return nil, translateStoreError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateOwnProfile lets a user edit their profile fields but never their role.
func (s *UserService) UpdateOwnProfile(ctx context.Context, userID int64, input repository.UpdateProfileInput) (*models.Profile, error) {
	return s.UpdateUser(ctx, userID, UpdateUserInput{UpdateProfileInput: input})
}

func (s *UserService) SoftDeleteUser(ctx context.Context, actorID, userID int64) (*models.Profile, error) {
	if actorID == userID {
		return nil, ErrInvalidInput
	}
	if err := s.revokeTokens(ctx, userID); err != nil {
		return nil, err
	}
	profile, err := s.profiles.SoftDelete(ctx, userID)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return profile, nil
}

func (s *UserService) SetUserActive(ctx context.Context, userID int64, active bool) (*models.Profile, error) {
	if _, err := s.GetUser(ctx, userID, false); err != nil {
		return nil, err
	}
	if !active {
		if err := s.revokeTokens(ctx, userID); err != nil {
			return nil, err
		}
	}
	profile, err := s.profiles.SetActive(ctx, userID, active)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return profile, nil
}

// revokeTokens signs every session of the user out before the account is
// closed, so no refresh token outlives the state change.
func (s *UserService) revokeTokens(ctx context.Context, userID int64) error {
	if s.tokens == nil {
		return nil
	}
	if _, err := s.tokens.RevokeByUser(ctx, userID); err != nil {
		return fmt.Errorf("revoke refresh tokens: %w", err)
	}
	return nil
}

// GetUserDetail loads a profile with its assigned routines and measurement history.
// Measurements are auxiliary: a failure there is logged and the detail is still returned.
func (s *UserService) GetUserDetail(ctx context.Context, userID int64) (*models.UserDetail, error) {
	profile, err := s.GetUser(ctx, userID, false)
	if err != nil {
		return nil, err
	}

	routines, err := s.ListUserRoutines(ctx, userID)
	if err != nil {
		return nil, err
	}

	detail := &models.UserDetail{Profile: *profile, Routines: routines}
	measurements, err := s.measurements.ListByUserID(ctx, userID)
	if err != nil {
		log.Printf("user detail %d: load measurements: %v", userID, err)
		return detail, nil
	}
	detail.Measurements = measurements
	return detail, nil
}

func (s *UserService) ListUserRoutines(ctx context.Context, userID int64) ([]models.Routine, error) {
	ids, err := s.assignments.ListRoutineIDsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.routines.ListByIDs(ctx, ids)
}

func normalizeProfileInput(input *repository.UpdateProfileInput) {
	input.NationalID = trimOptional(input.NationalID)
	input.FirstName = trimOptional(input.FirstName)
	input.LastName = trimOptional(input.LastName)
	input.Gender = trimOptional(input.Gender)
	input.Goal = trimOptional(input.Goal)
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	return &trimmed
}
