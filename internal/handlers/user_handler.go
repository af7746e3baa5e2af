package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/models"
	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/repository"
	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/services"
	"github.com/gofiber/fiber/v2"
)

type userApplicationService interface {
	CreateUser(ctx context.Context, input services.CreateUserInput) (*models.Profile, error)
	ListUsers(ctx context.Context, input services.ListUsersInput) ([]models.Profile, models.PaginationMeta, error)
	GetUser(ctx context.Context, userID int64, includeDeleted bool) (*models.Profile, error)
	GetUserDetail(ctx context.Context, userID int64) (*models.UserDetail, error)
	UpdateUser(ctx context.Context, userID int64, input services.UpdateUserInput) (*models.Profile, error)
	UpdateOwnProfile(ctx context.Context, userID int64, input repository.UpdateProfileInput) (*models.Profile, error)
	SoftDeleteUser(ctx context.Context, actorID, userID int64) (*models.Profile, error)
	SetUserActive(ctx context.Context, userID int64, active bool) (*models.Profile, error)
	ListUserRoutines(ctx context.Context, userID int64) ([]models.Routine, error)
}

type UserHandler struct {
	service userApplicationService
}

func NewUserHandler(service userApplicationService) *UserHandler {
	return &UserHandler{service: service}
}

type profileFields struct {
	NationalID *string `json:"national_id"`
	Age        *int    `json:"age"`
	Gender     *string `json:"gender"`
	Goal       *string `json:"goal"`
	StartDate  *string `json:"start_date"`
}

type createUserRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	profileFields
}

type updateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	profileFields
}

type updateUserRequest struct {
	Role *string `json:"role"`
	updateProfileRequest
}

type setActiveRequest struct {
	Active *bool `json:"active"`
}

func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	role := strings.TrimSpace(c.Query("role"))
	if role != "" && !models.ValidRole(role) {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "role must be one of: user, coach, admin"})
	}

	users, meta, err := h.service.ListUsers(c.Context(), services.ListUsersInput{
		ListOptions:    parseListOptions(c),
		Role:           role,
		IncludeDeleted: parseBoolQuery(c.Query("include_deleted")),
	})
	if err != nil {
		return mapUserError(c, err)
	}

	return c.JSON(fiber.Map{"users": users, "pagination": meta})
}

func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if msg := validateCreateUserRequest(req); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}
	if req.Role != "" && req.Role != models.RoleUser && currentRole(c) != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).
			JSON(fiber.Map{"error": "Only admins can create coach or admin accounts"})
	}

	email, _ := validateEmail(req.Email)
	startDate, _ := parseDate(req.StartDate)
	profile, err := h.service.CreateUser(c.Context(), services.CreateUserInput{
		Email:      email,
		Password:   req.Password,
		Role:       req.Role,
		NationalID: req.NationalID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Age:        req.Age,
		Gender:     lowerOptional(req.Gender),
		Goal:       req.Goal,
		StartDate:  startDate,
	})
	if err != nil {
		return mapUserError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": profile})
}

func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "user")
	}

	profile, err := h.service.GetUser(c.Context(), userID, parseBoolQuery(c.Query("include_deleted")))
	if err != nil {
		return mapUserError(c, err)
	}

	return c.JSON(fiber.Map{"user": profile})
}

func (h *UserHandler) GetUserDetail(c *fiber.Ctx) error {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "user")
	}

	detail, err := h.service.GetUserDetail(c.Context(), userID)
	if err != nil {
		return mapUserError(c, err)
	}

	return c.JSON(fiber.Map{"user": detail})
}

func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "user")
	}

	var req updateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if msg := validateUpdateUserRequest(req); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}
	if req.Role != nil && currentRole(c) != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only admins can change roles"})
	}
	if err := h.requireStaffAccess(c, userID); err != nil {
		return mapUserError(c, err)
	}

	profile, err := h.service.UpdateUser(c.Context(), userID, services.UpdateUserInput{
		Role:               req.Role,
		UpdateProfileInput: req.updateProfileRequest.toInput(),
	})
	if err != nil {
		return mapUserError(c, err)
	}

	return c.JSON(fiber.Map{"user": profile})
}

func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	actorID, err := parseProfileUserID(c)
	if err != nil {
		return invalidToken(c)
	}
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "user")
	}
	if err := h.requireStaffAccess(c, userID); err != nil {
		return mapUserError(c, err)
	}

	profile, err := h.service.SoftDeleteUser(c.Context(), actorID, userID)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"error": "You cannot delete your own account"})
		}
		return mapUserError(c, err)
	}

	return c.JSON(fiber.Map{"user": profile})
}

func (h *UserHandler) SetUserActive(c *fiber.Ctx) error {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "user")
	}

	var req setActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if req.Active == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "active is required"})
	}
	if err := h.requireStaffAccess(c, userID); err != nil {
		return mapUserError(c, err)
	}

	profile, err := h.service.SetUserActive(c.Context(), userID, *req.Active)
	if err != nil {
		return mapUserError(c, err)
	}

	return c.JSON(fiber.Map{"user": profile})
}

func (h *UserHandler) ListUserRoutines(c *fiber.Ctx) error {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "user")
	}

	routines, err := h.service.ListUserRoutines(c.Context(), userID)
	if err != nil {
		return mapUserError(c, err)
	}

	return c.JSON(fiber.Map{"routines": routines})
}

func (h *UserHandler) GetOwnProfile(c *fiber.Ctx) error {
	userID, err := parseProfileUserID(c)
	if err != nil {
		return invalidToken(c)
	}

	profile, err := h.service.GetUser(c.Context(), userID, false)
	if err != nil {
		return mapUserError(c, err)
	}

	return c.JSON(fiber.Map{"profile": profile})
}

func (h *UserHandler) UpdateOwnProfile(c *fiber.Ctx) error {
	userID, err := parseProfileUserID(c)
	if err != nil {
		return invalidToken(c)
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if msg := validateUpdateProfileRequest(req); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	profile, err := h.service.UpdateOwnProfile(c.Context(), userID, req.toInput())
	if err != nil {
		return mapUserError(c, err)
	}

	return c.JSON(fiber.Map{"profile": profile})
}

// requireStaffAccess keeps coach and admin accounts out of reach of anyone but
// an admin. Unknown targets pass through so the operation reports 404 itself.
func (h *UserHandler) requireStaffAccess(c *fiber.Ctx, userID int64) error {
	if currentRole(c) == models.RoleAdmin {
		return nil
	}
	target, err := h.service.GetUser(c.Context(), userID, true)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return nil
		}
		return err
	}
	if target.Role == models.RoleCoach || target.Role == models.RoleAdmin {
		return services.ErrForbidden
	}
	return nil
}

// toInput assumes the request has already been validated.
func (r updateProfileRequest) toInput() repository.UpdateProfileInput {
	startDate, _ := parseDate(r.StartDate)
	return repository.UpdateProfileInput{
		NationalID: r.NationalID,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Age:        r.Age,
		Gender:     lowerOptional(r.Gender),
		Goal:       r.Goal,
		StartDate:  startDate,
	}
}

func lowerOptional(value *string) *string {
	if value == nil {
		return nil
	}
	lowered := strings.ToLower(strings.TrimSpace(*value))
	return &lowered
}

func mapUserError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	case errors.Is(err, services.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email already exists"})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	default:
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to process user request"})
	}
}
