package routes

import (
	"context"
	"fmt"
	"log"

	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/config"
	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/handlers"
	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/middleware"
	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/models"
	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/repository"
	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/services"
	workoutws "github.com/Diegocarque12/cumbaGymApp-sub000/internal/websocket"
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type staffHandlers struct {
	users        *handlers.UserHandler
	exercises    *handlers.ExerciseHandler
	routines     *handlers.RoutineHandler
	measurements *handlers.MeasurementHandler
	workouts     *handlers.WorkoutHandler
}

// RegisterRoutes wires repositories, services and handlers onto app. redisClient
// may be nil, in which case session state lives in memory and login is not rate
// limited.
func RegisterRoutes(ctx context.Context, app *fiber.App, cfg *config.Config, db *pgxpool.Pool, redisClient *redis.Client) error {
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	exerciseRepo := repository.NewExerciseRepository(db)
	routineRepo := repository.NewRoutineRepository(db)
	routineExerciseRepo := repository.NewRoutineExerciseRepository(db)
	setRepo := repository.NewSetRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	measurementRepo := repository.NewMeasurementRepository(db)
	workoutRepo := repository.NewWorkoutRepository(db)

	storageService, err := newStorageService(ctx, cfg)
	if err != nil {
		return err
	}

	var sessionStore services.SessionStateStore = services.NewMemorySessionStateStore(cfg.RefreshTokenTTL)
	if redisClient != nil {
		sessionStore = services.NewRedisSessionStateStore(redisClient, cfg.RefreshTokenTTL)
	}
	sessionStateService := services.NewSessionStateService(sessionStore)

	userService := services.NewUserService(db, profileRepo, refreshTokenRepo, assignmentRepo, routineRepo, measurementRepo)
	authService := services.NewAuthService(
		db,
		userRepo,
		profileRepo,
		refreshTokenRepo,
		userService,
		sessionStateService,
		cfg.JWTSecret,
		cfg.RefreshTokenTTL,
	)
	exerciseService := services.NewExerciseService(exerciseRepo, storageService)
	routineService := services.NewRoutineService(db, routineRepo, routineExerciseRepo, exerciseRepo, setRepo, assignmentRepo, profileRepo)
	measurementService := services.NewMeasurementService(measurementRepo, profileRepo)

	hub := workoutws.NewHub()
	go hub.Run(ctx)
	workoutService := services.NewWorkoutService(assignmentRepo, routineRepo, routineService, setRepo, workoutRepo, hub)

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	workoutHandler := handlers.NewWorkoutHandler(workoutService, hub)
	sessionStateHandler := handlers.NewSessionStateHandler(sessionStateService)
	staff := staffHandlers{
		users:        userHandler,
		exercises:    handlers.NewExerciseHandler(exerciseService),
		routines:     handlers.NewRoutineHandler(routineService),
		measurements: handlers.NewMeasurementHandler(measurementService),
		workouts:     workoutHandler,
	}

	if err := registerDocsRoutes(app, cfg); err != nil {
		return err
	}

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	if redisClient != nil && cfg.LoginRateLimit > 0 {
		limiter := middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
			Window:    cfg.LoginRateWindow,
			Limit:     cfg.LoginRateLimit,
			KeyPrefix: "rate_limit:login",
		})
		auth.Post("/login", limiter.Handler(), authHandler.Login)
	} else {
		auth.Post("/login", authHandler.Login)
	}
	auth.Post("/refresh", authHandler.Refresh)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)
	auth.Post("/logout", middleware.AuthRequired(cfg.JWTSecret), authHandler.Logout)

	// The socket carries its token in the query string, so it is mounted ahead
	// of the bearer-only /v1 group.
	api.Get("/v1/ws",
		middleware.WebSocketAuth(cfg.JWTSecret),
		workoutHandler.RequireUpgrade,
		websocket.New(workoutHandler.HandleWebSocket),
	)

	v1 := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	registerStaffRoutes(v1.Group("/admin", middleware.RoleGuard(authService, models.RoleAdmin)), staff)
	registerStaffRoutes(v1.Group("/coach", middleware.RoleGuard(authService, models.RoleCoach)), staff)

	member := v1.Group("/user", middleware.RoleGuard(authService, models.RoleUser))
	member.Get("/profile", userHandler.GetOwnProfile)
	member.Put("/profile", userHandler.UpdateOwnProfile)
	member.Get("/measurements", staff.measurements.ListOwnMeasurements)
	member.Get("/routines", workoutHandler.ListAssignedRoutines)
	member.Post("/routines/:id/start", workoutHandler.StartWorkout)
	member.Post("/routines/:id/finish", workoutHandler.FinishRoutine)
	member.Post("/workout/sets", workoutHandler.CompleteSet)
	member.Get("/workout/history", workoutHandler.ListOwnHistory)
	member.Get("/workout/logs", workoutHandler.ListOwnLogs)

	session := v1.Group("/session")
	session.Get("/state", sessionStateHandler.GetState)
	session.Put("/state", sessionStateHandler.ReplaceState)
	session.Post("/pinned-users/:id", sessionStateHandler.PinUser)
	session.Delete("/pinned-users/:id", sessionStateHandler.UnpinUser)

	return nil
}

// registerStaffRoutes mounts the management screens shared by admins and
// coaches. Each mount point is gated by its own role through RoleGuard.
func registerStaffRoutes(r fiber.Router, h staffHandlers) {
	users := r.Group("/users")
	users.Get("", h.users.ListUsers)
	users.Post("", h.users.CreateUser)
	users.Get("/:id", h.users.GetUser)
	users.Get("/:id/detail", h.users.GetUserDetail)
	users.Put("/:id", h.users.UpdateUser)
	users.Delete("/:id", h.users.DeleteUser)
	users.Patch("/:id/active", h.users.SetUserActive)
	users.Get("/:id/routines", h.users.ListUserRoutines)
	users.Get("/:id/measurements", h.measurements.ListMeasurements)
	users.Post("/:id/measurements", h.measurements.CreateMeasurement)
	users.Get("/:id/history", h.workouts.ListUserHistory)

	measurements := r.Group("/measurements")
	measurements.Put("/:id", h.measurements.UpdateMeasurement)
	measurements.Delete("/:id", h.measurements.DeleteMeasurement)

	exercises := r.Group("/exercises")
	exercises.Get("", h.exercises.ListExercises)
	exercises.Post("", h.exercises.CreateExercise)
	exercises.Get("/:id", h.exercises.GetExercise)
	exercises.Put("/:id", h.exercises.UpdateExercise)
	exercises.Delete("/:id", h.exercises.DeleteExercise)
	exercises.Post("/:id/media/:kind", h.exercises.UploadMedia)

	routines := r.Group("/routines")
	routines.Get("", h.routines.ListRoutines)
	routines.Post("", h.routines.CreateRoutine)
	routines.Get("/:id", h.routines.GetRoutine)
	routines.Put("/:id", h.routines.UpdateRoutine)
	routines.Delete("/:id", h.routines.DeleteRoutine)
	routines.Post("/:id/exercises", h.routines.AddRoutineExercise)
	routines.Get("/:id/users", h.routines.ListRoutineUsers)
	routines.Post("/:id/users", h.routines.AssignRoutine)
	routines.Delete("/:id/users/:userId", h.routines.UnassignRoutine)

	routineExercises := r.Group("/routine-exercises")
	routineExercises.Put("/:id", h.routines.UpdateRoutineExercise)
	routineExercises.Delete("/:id", h.routines.DeleteRoutineExercise)
	routineExercises.Post("/:id/sets", h.routines.AddSet)

	sets := r.Group("/sets")
	sets.Put("/:id", h.routines.UpdateSet)
	sets.Delete("/:id", h.routines.DeleteSet)
}

// newStorageService picks the media backend. A nil service is valid: uploads
// then answer 503.
func newStorageService(ctx context.Context, cfg *config.Config) (services.StorageService, error) {
	switch {
	case cfg.S3Enabled():
		s3Service, err := services.NewS3StorageService(ctx, cfg.S3Bucket, cfg.AWSRegion)
		if err != nil {
			return nil, fmt.Errorf("configure S3 storage: %w", err)
		}
		log.Printf("Exercise media stored in S3 bucket %s", cfg.S3Bucket)
		return s3Service, nil
	case cfg.SupabaseEnabled():
		log.Printf("Exercise media stored in Supabase bucket %s", cfg.SupabaseBucket)
		return services.NewSupabaseStorageService(cfg.SupabaseURL, cfg.SupabaseBucket, cfg.SupabaseServiceKey), nil
	default:
		log.Println("No media storage configured; exercise uploads are disabled")
		return nil, nil
	}
}
