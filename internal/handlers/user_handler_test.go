package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/models"
	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/repository"
	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/services"
	"github.com/gofiber/fiber/v2"
)

type stubUserService struct {
	createCalls  int
	lastCreate   services.CreateUserInput
	createErr    error
	lastList     services.ListUsersInput
	getErr       error
	targetRole   string
	lastInclude  bool
	lastUpdate   services.UpdateUserInput
	updateCalls  int
	lastOwn      repository.UpdateProfileInput
	lastActorID  int64
	deleteErr    error
	lastActive   *bool
	detailResult *models.UserDetail
}

func (s *stubUserService) CreateUser(_ context.Context, input services.CreateUserInput) (*models.Profile, error) {
	s.createCalls++
	s.lastCreate = input
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &models.Profile{UserID: 30, Email: input.Email, Role: input.Role, FirstName: input.FirstName}, nil
}

func (s *stubUserService) ListUsers(_ context.Context, input services.ListUsersInput) ([]models.Profile, models.PaginationMeta, error) {
	s.lastList = input
	return []models.Profile{{UserID: 1, FirstName: "Ana"}}, models.PaginationMeta{Page: 1, Limit: 10, Total: 1, TotalPages: 1}, nil
}

func (s *stubUserService) GetUser(_ context.Context, userID int64, includeDeleted bool) (*models.Profile, error) {
	s.lastInclude = includeDeleted
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &models.Profile{UserID: userID, Role: s.targetRole}, nil
}

func (s *stubUserService) GetUserDetail(context.Context, int64) (*models.UserDetail, error) {
	return s.detailResult, nil
}

func (s *stubUserService) UpdateUser(_ context.Context, userID int64, input services.UpdateUserInput) (*models.Profile, error) {
	s.updateCalls++
	s.lastUpdate = input
	return &models.Profile{UserID: userID}, nil
}

func (s *stubUserService) UpdateOwnProfile(_ context.Context, userID int64, input repository.UpdateProfileInput) (*models.Profile, error) {
	s.lastOwn = input
	return &models.Profile{UserID: userID}, nil
}

func (s *stubUserService) SoftDeleteUser(_ context.Context, actorID, userID int64) (*models.Profile, error) {
	s.lastActorID = actorID
	if s.deleteErr != nil {
		return nil, s.deleteErr
	}
	now := time.Now()
	return &models.Profile{UserID: userID, DeletedAt: &now}, nil
}

func (s *stubUserService) SetUserActive(_ context.Context, userID int64, active bool) (*models.Profile, error) {
	s.lastActive = &active
	return &models.Profile{UserID: userID, IsActive: active}, nil
}

func (s *stubUserService) ListUserRoutines(context.Context, int64) ([]models.Routine, error) {
	return []models.Routine{{ID: 4, Name: "Leg Day"}}, nil
}

func userApp(service *stubUserService, role string) *fiber.App {
	handler := NewUserHandler(service)
	app := newTestApp(role, "1", "sess")
	app.Get("/users", handler.ListUsers)
	app.Post("/users", handler.CreateUser)
	app.Get("/users/:id", handler.GetUser)
	app.Get("/users/:id/detail", handler.GetUserDetail)
	app.Put("/users/:id", handler.UpdateUser)
	app.Delete("/users/:id", handler.DeleteUser)
	app.Patch("/users/:id/active", handler.SetUserActive)
	app.Get("/profile", handler.GetOwnProfile)
	app.Put("/profile", handler.UpdateOwnProfile)
	return app
}

func TestListUsersPassesFilters(t *testing.T) {
	service := &stubUserService{}

	resp, body := doJSON(t, userApp(service, models.RoleAdmin), fiber.MethodGet, "/users?q=ana&role=coach&include_deleted=true&page=3", nil)
	expectStatus(t, resp, body, fiber.StatusOK)

	if service.lastList.Query != "ana" || service.lastList.Role != models.RoleCoach || !service.lastList.IncludeDeleted || service.lastList.Page != 3 {
		t.Fatalf("unexpected list input %+v", service.lastList)
	}
	if _, ok := body["users"].([]any); !ok {
		t.Fatalf("expected users array, got %v", body["users"])
	}
}

func TestListUsersRejectsUnknownRole(t *testing.T) {
	resp, body := doJSON(t, userApp(&stubUserService{}, models.RoleAdmin), fiber.MethodGet, "/users?role=owner", nil)
	expectStatus(t, resp, body, fiber.StatusBadRequest)
}

func TestCreateUserNormalizesRequest(t *testing.T) {
	service := &stubUserService{}

	resp, body := doJSON(t, userApp(service, models.RoleAdmin), fiber.MethodPost, "/users", map[string]any{
		"email":       " Ana@Gym.Example ",
		"password":    "supersecret",
		"role":        "coach",
		"first_name":  "Ana",
		"last_name":   "Mora",
		"gender":      "Female",
		"national_id": "1-2345-6789",
		"start_date":  "2024-02-01",
	})
	expectStatus(t, resp, body, fiber.StatusCreated)

	if service.lastCreate.Email != "ana@gym.example" {
		t.Fatalf("expected lowercased email, got %q", service.lastCreate.Email)
	}
	if service.lastCreate.Gender == nil || *service.lastCreate.Gender != "female" {
		t.Fatalf("expected lowercased gender, got %v", service.lastCreate.Gender)
	}
	if service.lastCreate.StartDate == nil || service.lastCreate.StartDate.Format(dateLayout) != "2024-02-01" {
		t.Fatalf("unexpected start date %v", service.lastCreate.StartDate)
	}
	if service.lastCreate.NationalID == nil || *service.lastCreate.NationalID != "1-2345-6789" {
		t.Fatalf("unexpected national id %v", service.lastCreate.NationalID)
	}
}

func TestCreateUserValidation(t *testing.T) {
	cases := []struct {
		name string
		body map[string]any
		want string
	}{
		{"bad email", map[string]any{"email": "nope", "password": "supersecret", "first_name": "A"}, "Invalid email format"},
		{"short password", map[string]any{"email": "a@b.co", "password": "short", "first_name": "A"}, "Password must be at least 8 characters"},
		{"bad role", map[string]any{"email": "a@b.co", "password": "supersecret", "first_name": "A", "role": "owner"}, "role must be one of: user, coach, admin"},
		{"missing name", map[string]any{"email": "a@b.co", "password": "supersecret"}, "first_name is required"},
		{"bad age", map[string]any{"email": "a@b.co", "password": "supersecret", "first_name": "A", "age": 0}, "age must be greater than 0"},
		{"bad date", map[string]any{"email": "a@b.co", "password": "supersecret", "first_name": "A", "start_date": "01/02/2024"}, "start_date must be formatted as YYYY-MM-DD"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service := &stubUserService{}
			resp, body := doJSON(t, userApp(service, models.RoleAdmin), fiber.MethodPost, "/users", tc.body)
			expectStatus(t, resp, body, fiber.StatusBadRequest)
			if body["error"] != tc.want {
				t.Fatalf("expected %q, got %v", tc.want, body["error"])
			}
			if service.createCalls != 0 {
				t.Fatal("service should not be called")
			}
		})
	}
}

func TestCoachCannotCreateStaffAccounts(t *testing.T) {
	service := &stubUserService{}

	resp, body := doJSON(t, userApp(service, models.RoleCoach), fiber.MethodPost, "/users", map[string]any{
		"email":      "new@gym.example",
		"password":   "supersecret",
		"role":       "admin",
		"first_name": "New",
	})
	expectStatus(t, resp, body, fiber.StatusForbidden)
	if service.createCalls != 0 {
		t.Fatal("service should not be called")
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	service := &stubUserService{createErr: services.ErrConflict}

	resp, body := doJSON(t, userApp(service, models.RoleCoach), fiber.MethodPost, "/users", map[string]any{
		"email":      "taken@gym.example",
		"password":   "supersecret",
		"first_name": "Taken",
	})
	expectStatus(t, resp, body, fiber.StatusConflict)
}

func TestGetUserIncludeDeleted(t *testing.T) {
	service := &stubUserService{}

	resp, body := doJSON(t, userApp(service, models.RoleAdmin), fiber.MethodGet, "/users/5?include_deleted=1", nil)
	expectStatus(t, resp, body, fiber.StatusOK)
	if !service.lastInclude {
		t.Fatal("expected include_deleted to be forwarded")
	}

	service.getErr = services.ErrNotFound
	resp, body = doJSON(t, userApp(service, models.RoleAdmin), fiber.MethodGet, "/users/5", nil)
	expectStatus(t, resp, body, fiber.StatusNotFound)
}

func TestGetUserDetailIncludesRoutines(t *testing.T) {
	service := &stubUserService{detailResult: &models.UserDetail{
		Profile:  models.Profile{UserID: 5, FirstName: "Ana"},
		Routines: []models.Routine{{ID: 4, Name: "Leg Day"}},
	}}

	resp, body := doJSON(t, userApp(service, models.RoleCoach), fiber.MethodGet, "/users/5/detail", nil)
	expectStatus(t, resp, body, fiber.StatusOK)

	user := body["user"].(map[string]any)
	if len(user["routines"].([]any)) != 1 {
		t.Fatalf("expected one routine, got %v", user["routines"])
	}
	if _, present := user["measurements"]; present {
		t.Fatalf("measurements should be omitted when not loaded")
	}
}

func TestUpdateUserRoleChangeRequiresAdmin(t *testing.T) {
	service := &stubUserService{}

	resp, body := doJSON(t, userApp(service, models.RoleCoach), fiber.MethodPut, "/users/5", map[string]any{"role": "admin"})
	expectStatus(t, resp, body, fiber.StatusForbidden)
	if service.updateCalls != 0 {
		t.Fatal("service should not be called")
	}

	resp, body = doJSON(t, userApp(service, models.RoleAdmin), fiber.MethodPut, "/users/5", map[string]any{"role": "coach", "goal": "Strength"})
	expectStatus(t, resp, body, fiber.StatusOK)
	if service.lastUpdate.Role == nil || *service.lastUpdate.Role != models.RoleCoach {
		t.Fatalf("unexpected role %v", service.lastUpdate.Role)
	}
	if service.lastUpdate.Goal == nil || *service.lastUpdate.Goal != "Strength" {
		t.Fatalf("unexpected goal %v", service.lastUpdate.Goal)
	}
}

func TestDeleteUserSelfIsRejected(t *testing.T) {
	service := &stubUserService{deleteErr: services.ErrInvalidInput}

	resp, body := doJSON(t, userApp(service, models.RoleAdmin), fiber.MethodDelete, "/users/1", nil)
	expectStatus(t, resp, body, fiber.StatusBadRequest)
	if body["error"] != "You cannot delete your own account" {
		t.Fatalf("unexpected error %v", body["error"])
	}
	if service.lastActorID != 1 {
		t.Fatalf("expected actor 1, got %d", service.lastActorID)
	}
}

func TestDeleteUserReturnsSoftDeletedProfile(t *testing.T) {
	resp, body := doJSON(t, userApp(&stubUserService{}, models.RoleAdmin), fiber.MethodDelete, "/users/8", nil)
	expectStatus(t, resp, body, fiber.StatusOK)

	user := body["user"].(map[string]any)
	if user["deleted_at"] == nil {
		t.Fatalf("expected deleted_at to be set, got %v", user)
	}
}

func TestSetUserActiveRequiresFlag(t *testing.T) {
	service := &stubUserService{}
	app := userApp(service, models.RoleAdmin)

	resp, body := doJSON(t, app, fiber.MethodPatch, "/users/5/active", map[string]any{})
	expectStatus(t, resp, body, fiber.StatusBadRequest)

	resp, body = doJSON(t, app, fiber.MethodPatch, "/users/5/active", map[string]any{"active": false})
	expectStatus(t, resp, body, fiber.StatusOK)
	if service.lastActive == nil || *service.lastActive {
		t.Fatalf("expected active=false, got %v", service.lastActive)
	}
}

func TestUpdateOwnProfileIgnoresRole(t *testing.T) {
	service := &stubUserService{}

	resp, body := doJSON(t, userApp(service, models.RoleUser), fiber.MethodPut, "/profile", map[string]any{
		"role":       "admin",
		"first_name": "Luis",
		"age":        31,
	})
	expectStatus(t, resp, body, fiber.StatusOK)

	if service.lastOwn.FirstName == nil || *service.lastOwn.FirstName != "Luis" {
		t.Fatalf("unexpected first name %v", service.lastOwn.FirstName)
	}
	if service.lastOwn.Age == nil || *service.lastOwn.Age != 31 {
		t.Fatalf("unexpected age %v", service.lastOwn.Age)
	}
	if service.updateCalls != 0 {
		t.Fatal("self update must not go through UpdateUser")
	}
}

func TestUpdateOwnProfileRejectsBlankName(t *testing.T) {
	resp, body := doJSON(t, userApp(&stubUserService{}, models.RoleUser), fiber.MethodPut, "/profile", map[string]any{"first_name": "  "})
	expectStatus(t, resp, body, fiber.StatusBadRequest)
}

func TestCoachCannotManageStaffAccounts(t *testing.T) {
	for _, targetRole := range []string{models.RoleCoach, models.RoleAdmin} {
		service := &stubUserService{targetRole: targetRole}
		app := userApp(service, models.RoleCoach)

		resp, body := doJSON(t, app, fiber.MethodPut, "/users/5", map[string]any{"first_name": "Changed"})
		expectStatus(t, resp, body, fiber.StatusForbidden)

		resp, body = doJSON(t, app, fiber.MethodDelete, "/users/5", nil)
		expectStatus(t, resp, body, fiber.StatusForbidden)

		resp, body = doJSON(t, app, fiber.MethodPatch, "/users/5/active", map[string]any{"active": false})
		expectStatus(t, resp, body, fiber.StatusForbidden)

		if service.updateCalls != 0 || service.lastActorID != 0 || service.lastActive != nil {
			t.Fatalf("%s target: service should not be called", targetRole)
		}
	}
}

func TestCoachManagesMemberAccounts(t *testing.T) {
	service := &stubUserService{targetRole: models.RoleUser}
	app := userApp(service, models.RoleCoach)

	resp, body := doJSON(t, app, fiber.MethodPut, "/users/5", map[string]any{"first_name": "Changed"})
	expectStatus(t, resp, body, fiber.StatusOK)

	resp, body = doJSON(t, app, fiber.MethodPatch, "/users/5/active", map[string]any{"active": false})
	expectStatus(t, resp, body, fiber.StatusOK)

	resp, body = doJSON(t, app, fiber.MethodDelete, "/users/5", nil)
	expectStatus(t, resp, body, fiber.StatusOK)
}

func TestAdminManagesStaffAccounts(t *testing.T) {
	service := &stubUserService{targetRole: models.RoleCoach}

	resp, body := doJSON(t, userApp(service, models.RoleAdmin), fiber.MethodDelete, "/users/5", nil)
	expectStatus(t, resp, body, fiber.StatusOK)
	if service.lastActorID != 1 {
		t.Fatalf("expected actor 1, got %d", service.lastActorID)
	}
}
