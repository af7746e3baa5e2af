package services

import (
	"context"
	"errors"
	"time"

	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/models"
	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/repository"
	"github.com/jackc/pgx/v5"
)

const (
	EventSetCompleted    = "set_completed"
	EventRoutineFinished = "routine_finished"

	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// EventPublisher fans workout events out to live listeners.
type EventPublisher interface {
	Publish(event models.WorkoutEvent)
}

type workoutAssignmentReader interface {
	IsAssigned(ctx context.Context, userID, routineID int64) (bool, error)
	RoutineIDForAssignedExercise(ctx context.Context, userID, routineExerciseID int64) (int64, error)
	ListRoutineIDsByUser(ctx context.Context, userID int64) ([]int64, error)
}

type routineDetailLoader interface {
	LoadRoutineDetail(ctx context.Context, routineID int64) (*models.RoutineDetail, error)
}

type setLister interface {
	ListByRoutineExerciseIDs(ctx context.Context, ids []int64) ([]models.RoutineExerciseSet, error)
}

type workoutStore interface {
	CreateHistory(ctx context.Context, input repository.HistoryInput) (*models.WorkoutHistory, error)
	HasCompletedSet(ctx context.Context, userID, routineExerciseID int64, setNumber int, from, to time.Time) (bool, error)
	ListCompletedBetween(ctx context.Context, userID int64, routineExerciseIDs []int64, from, to time.Time) ([]models.WorkoutHistory, error)
	ListHistoryByUser(ctx context.Context, userID int64, limit int) ([]models.WorkoutHistory, error)
	CreateRoutineLog(ctx context.Context, userID, routineID int64, completedOn time.Time) (*models.RoutineLog, error)
	ListRoutineLogsByUser(ctx context.Context, userID int64, limit int) ([]models.RoutineLog, error)
}

type WorkoutService struct {
	assignments workoutAssignmentReader
	routines    routinesByIDReader
	details     routineDetailLoader
	sets        setLister
	workouts    workoutStore
	publisher   EventPublisher
	now         func() time.Time
}

func NewWorkoutService(
	assignments *repository.AssignmentRepository,
	routines *repository.RoutineRepository,
	details *RoutineService,
	sets *repository.SetRepository,
	workouts *repository.WorkoutRepository,
	publisher EventPublisher,
) *WorkoutService {
	return &WorkoutService{
		assignments: assignments,
		routines:    routines,
		details:     details,
		sets:        sets,
		workouts:    workouts,
		publisher:   publisher,
		now:         time.Now,
	}
}

type CompleteSetInput struct {
	RoutineExerciseID int64
	SetNumber         int
	Weight            *float64
	Reps              *int
}

func (s *WorkoutService) ListAssignedRoutines(ctx context.Context, userID int64) ([]models.Routine, error) {
	ids, err := s.assignments.ListRoutineIDsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.routines.ListByIDs(ctx, ids)
}

// StartWorkout returns today's checklist for an assigned routine. A set is marked
// completed when the user already logged it today.
func (s *WorkoutService) StartWorkout(ctx context.Context, userID, routineID int64) (*models.WorkoutSession, error) {
	if err := s.requireAssigned(ctx, userID, routineID); err != nil {
		return nil, err
	}

	detail, err := s.details.LoadRoutineDetail(ctx, routineID)
	if err != nil {
		return nil, err
	}

	from, to := s.today()
	ids := make([]int64, 0, len(detail.Exercises))
	for _, group := range detail.Exercises {
		ids = append(ids, group.ID)
	}
	history, err := s.workouts.ListCompletedBetween(ctx, userID, ids, from, to)
	if err != nil {
		return nil, err
	}

	return buildWorkoutSession(detail, history, from), nil
}

type completedSetKey struct {
	routineExerciseID int64
	setNumber         int
}

func buildWorkoutSession(detail *models.RoutineDetail, history []models.WorkoutHistory, day time.Time) *models.WorkoutSession {
	done := make(map[completedSetKey]struct{}, len(history))
	for _, entry := range history {
		if entry.RoutineExerciseID == nil {
			continue
		}
		done[completedSetKey{*entry.RoutineExerciseID, entry.SetNumber}] = struct{}{}
	}

	session := &models.WorkoutSession{
		Routine:   detail.Routine,
		Date:      day.Format(time.DateOnly),
		Exercises: make([]models.WorkoutExercise, 0, len(detail.Exercises)),
	}
	for _, group := range detail.Exercises {
		exercise := models.WorkoutExercise{
			RoutineExercise: group.RoutineExercise,
			Exercise:        group.Exercise,
			Sets:            make([]models.WorkoutSet, 0, len(group.Sets)),
		}
		for _, set := range group.Sets {
			_, completed := done[completedSetKey{group.ID, set.SetNumber}]
			exercise.Sets = append(exercise.Sets, models.WorkoutSet{RoutineExerciseSet: set, Completed: completed})
		}
		session.Exercises = append(session.Exercises, exercise)
	}
	return session
}

// CompleteSet logs one performed set. Each set can be completed once per day.
func (s *WorkoutService) CompleteSet(ctx context.Context, userID int64, input CompleteSetInput) (*models.WorkoutHistory, error) {
	if userID <= 0 || input.RoutineExerciseID <= 0 || input.SetNumber <= 0 {
		return nil, ErrInvalidInput
	}
	if input.Weight != nil && *input.Weight < 0 {
		return nil, ErrInvalidInput
	}
	if input.Reps != nil && *input.Reps < 0 {
		return nil, ErrInvalidInput
	}

	routineID, err := s.assignments.RoutineIDForAssignedExercise(ctx, userID, input.RoutineExerciseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrForbidden
		}
		return nil, err
	}

	sets, err := s.sets.ListByRoutineExerciseIDs(ctx, []int64{input.RoutineExerciseID})
	if err != nil {
		return nil, err
	}
	if !containsSetNumber(sets, input.SetNumber) {
		return nil, ErrNotFound
	}

	from, to := s.today()
	completed, err := s.workouts.HasCompletedSet(ctx, userID, input.RoutineExerciseID, input.SetNumber, from, to)
	if err != nil {
		return nil, err
	}
	if completed {
		return nil, ErrAlreadyCompleted
	}

	entry, err := s.workouts.CreateHistory(ctx, repository.HistoryInput{
		UserID:            userID,
		RoutineExerciseID: input.RoutineExerciseID,
		SetNumber:         input.SetNumber,
		Weight:            input.Weight,
		Reps:              input.Reps,
	})
	if err != nil {
		return nil, err
	}

	s.publish(models.WorkoutEvent{
		Type:              EventSetCompleted,
		UserID:            userID,
		RoutineID:         &routineID,
		RoutineExerciseID: entry.RoutineExerciseID,
		SetNumber:         entry.SetNumber,
		Weight:            entry.Weight,
		Reps:              entry.Reps,
		OccurredAt:        entry.CompletedAt,
	})
	return entry, nil
}

// FinishRoutine writes the routine log for today. Sets already completed stay logged
// even when a session is never finished.
func (s *WorkoutService) FinishRoutine(ctx context.Context, userID, routineID int64) (*models.RoutineLog, error) {
	if err := s.requireAssigned(ctx, userID, routineID); err != nil {
		return nil, err
	}

	from, _ := s.today()
	entry, err := s.workouts.CreateRoutineLog(ctx, userID, routineID, from)
	if err != nil {
		return nil, err
	}

	s.publish(models.WorkoutEvent{
		Type:       EventRoutineFinished,
		UserID:     userID,
		RoutineID:  &routineID,
		OccurredAt: entry.CreatedAt,
	})
	return entry, nil
}

func (s *WorkoutService) ListWorkoutHistory(ctx context.Context, userID int64, limit int) ([]models.WorkoutHistory, error) {
	return s.workouts.ListHistoryByUser(ctx, userID, clampHistoryLimit(limit))
}

func (s *WorkoutService) ListRoutineLogs(ctx context.Context, userID int64, limit int) ([]models.RoutineLog, error) {
	return s.workouts.ListRoutineLogsByUser(ctx, userID, clampHistoryLimit(limit))
}

func (s *WorkoutService) requireAssigned(ctx context.Context, userID, routineID int64) error {
	if userID <= 0 || routineID <= 0 {
		return ErrInvalidInput
	}
	assigned, err := s.assignments.IsAssigned(ctx, userID, routineID)
	if err != nil {
		return err
	}
	if !assigned {
		return ErrForbidden
	}
	return nil
}

func (s *WorkoutService) today() (time.Time, time.Time) {
	now := s.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 1)
}

func (s *WorkoutService) publish(event models.WorkoutEvent) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(event)
}

func containsSetNumber(sets []models.RoutineExerciseSet, setNumber int) bool {
	for _, set := range sets {
		if set.SetNumber == setNumber {
			return true
		}
	}
	return false
}

func clampHistoryLimit(limit int) int {
	if limit <= 0 {
		return defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		return maxHistoryLimit
	}
	return limit
}
