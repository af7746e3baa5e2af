package services

import (
	"context"
	"testing"
	"time"

	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/models"
	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubWorkoutAssignments struct {
	assigned map[int64][]int64
}

func (a *stubWorkoutAssignments) IsAssigned(_ context.Context, userID, routineID int64) (bool, error) {
	for _, id := range a.assigned[userID] {
		if id == routineID {
			return true, nil
		}
	}
	return false, nil
}

func (a *stubWorkoutAssignments) RoutineIDForAssignedExercise(_ context.Context, userID, routineExerciseID int64) (int64, error) {
	// routine exercise 10 and 11 belong to routine 3 in the fixture.
	if routineExerciseID == 10 || routineExerciseID == 11 {
		if ok, _ := a.IsAssigned(context.Background(), userID, 3); ok {
			return 3, nil
		}
	}
	return 0, pgx.ErrNoRows
}

func (a *stubWorkoutAssignments) ListRoutineIDsByUser(_ context.Context, userID int64) ([]int64, error) {
	return a.assigned[userID], nil
}

type stubWorkoutStore struct {
	history []models.WorkoutHistory
	logs    []models.RoutineLog
	lastLog time.Time
}

func (s *stubWorkoutStore) CreateHistory(_ context.Context, input repository.HistoryInput) (*models.WorkoutHistory, error) {
	reID := input.RoutineExerciseID
	entry := models.WorkoutHistory{
		ID:                int64(len(s.history) + 1),
		UserID:            input.UserID,
		RoutineExerciseID: &reID,
		SetNumber:         input.SetNumber,
		Weight:            input.Weight,
		Reps:              input.Reps,
		CompletedAt:       workoutNow,
	}
	s.history = append(s.history, entry)
	return &entry, nil
}

func (s *stubWorkoutStore) HasCompletedSet(_ context.Context, userID, routineExerciseID int64, setNumber int, from, to time.Time) (bool, error) {
	for _, entry := range s.history {
		if entry.UserID == userID && entry.RoutineExerciseID != nil && *entry.RoutineExerciseID == routineExerciseID &&
			entry.SetNumber == setNumber && !entry.CompletedAt.Before(from) && entry.CompletedAt.Before(to) {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubWorkoutStore) ListCompletedBetween(_ context.Context, userID int64, _ []int64, from, to time.Time) ([]models.WorkoutHistory, error) {
	result := make([]models.WorkoutHistory, 0)
	for _, entry := range s.history {
		if entry.UserID == userID && !entry.CompletedAt.Before(from) && entry.CompletedAt.Before(to) {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (s *stubWorkoutStore) ListHistoryByUser(_ context.Context, _ int64, limit int) ([]models.WorkoutHistory, error) {
	if limit < len(s.history) {
		return s.history[:limit], nil
	}
	return s.history, nil
}

func (s *stubWorkoutStore) CreateRoutineLog(_ context.Context, userID, routineID int64, completedOn time.Time) (*models.RoutineLog, error) {
	s.lastLog = completedOn
	entry := models.RoutineLog{ID: int64(len(s.logs) + 1), UserID: userID, RoutineID: &routineID, CompletedOn: completedOn, CreatedAt: workoutNow}
	s.logs = append(s.logs, entry)
	return &entry, nil
}

func (s *stubWorkoutStore) ListRoutineLogsByUser(_ context.Context, _ int64, _ int) ([]models.RoutineLog, error) {
	return s.logs, nil
}

type recordingPublisher struct {
	events []models.WorkoutEvent
}

func (p *recordingPublisher) Publish(event models.WorkoutEvent) {
	p.events = append(p.events, event)
}

var workoutNow = time.Date(2030, 5, 14, 18, 30, 0, 0, time.UTC)

func newTestWorkoutService() (*WorkoutService, *stubWorkoutStore, *recordingPublisher) {
	routines, items, catalog, sets := legDayFixture()
	routineService := &RoutineService{
		routines:         routines,
		routineExercises: items,
		exercises:        catalog,
		sets:             sets,
	}
	store := &stubWorkoutStore{}
	publisher := &recordingPublisher{}
	service := &WorkoutService{
		assignments: &stubWorkoutAssignments{assigned: map[int64][]int64{42: {3}}},
		routines:    &stubRoutineStore{routines: []models.Routine{{ID: 3, Name: "Leg Day"}, {ID: 4, Name: "Arms"}}},
		details:     routineService,
		sets:        sets,
		workouts:    store,
		publisher:   publisher,
		now:         func() time.Time { return workoutNow },
	}
	return service, store, publisher
}

func TestWorkoutServiceListAssignedRoutines(t *testing.T) {
	service, _, _ := newTestWorkoutService()

	routines, err := service.ListAssignedRoutines(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, routines, 1)
	assert.Equal(t, "Leg Day", routines[0].Name)
}

func TestWorkoutServiceStartWorkoutRequiresAssignment(t *testing.T) {
	service, _, _ := newTestWorkoutService()

	_, err := service.StartWorkout(context.Background(), 42, 4)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = service.StartWorkout(context.Background(), 7, 3)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestWorkoutServiceStartWorkoutMarksSetsCompletedToday(t *testing.T) {
	service, store, _ := newTestWorkoutService()
	reID := int64(10)
	store.history = []models.WorkoutHistory{
		{ID: 1, UserID: 42, RoutineExerciseID: &reID, SetNumber: 1, CompletedAt: workoutNow.Add(-time.Hour)},
		{ID: 2, UserID: 42, RoutineExerciseID: &reID, SetNumber: 2, CompletedAt: workoutNow.AddDate(0, 0, -1)},
	}

	session, err := service.StartWorkout(context.Background(), 42, 3)
	require.NoError(t, err)

	assert.Equal(t, "2030-05-14", session.Date)
	require.Len(t, session.Exercises, 2)
	squat := session.Exercises[0]
	require.Len(t, squat.Sets, 2)
	assert.True(t, squat.Sets[0].Completed)
	assert.False(t, squat.Sets[1].Completed)
	assert.False(t, session.Exercises[1].Sets[0].Completed)
}

func TestWorkoutServiceCompleteSetWritesHistoryAndPublishes(t *testing.T) {
	service, store, publisher := newTestWorkoutService()

	entry, err := service.CompleteSet(context.Background(), 42, CompleteSetInput{
		RoutineExerciseID: 10,
		SetNumber:         2,
		Weight:            float64Ptr(80),
		Reps:              intPtr(8),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, entry.SetNumber)
	require.Len(t, store.history, 1)
	require.Len(t, publisher.events, 1)
	event := publisher.events[0]
	assert.Equal(t, EventSetCompleted, event.Type)
	assert.Equal(t, int64(42), event.UserID)
	require.NotNil(t, event.RoutineID)
	assert.Equal(t, int64(3), *event.RoutineID)
}

func TestWorkoutServiceCompleteSetTwiceSameDay(t *testing.T) {
	service, store, publisher := newTestWorkoutService()
	input := CompleteSetInput{RoutineExerciseID: 10, SetNumber: 1}

	_, err := service.CompleteSet(context.Background(), 42, input)
	require.NoError(t, err)

	_, err = service.CompleteSet(context.Background(), 42, input)
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
	assert.Len(t, store.history, 1)
	assert.Len(t, publisher.events, 1)
}

func TestWorkoutServiceCompleteSetRejectsUnassignedOrUnknownSet(t *testing.T) {
	service, _, _ := newTestWorkoutService()

	_, err := service.CompleteSet(context.Background(), 7, CompleteSetInput{RoutineExerciseID: 10, SetNumber: 1})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = service.CompleteSet(context.Background(), 42, CompleteSetInput{RoutineExerciseID: 10, SetNumber: 9})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = service.CompleteSet(context.Background(), 42, CompleteSetInput{RoutineExerciseID: 10, SetNumber: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestWorkoutServiceFinishRoutineLogsToday(t *testing.T) {
	service, store, publisher := newTestWorkoutService()

	entry, err := service.FinishRoutine(context.Background(), 42, 3)
	require.NoError(t, err)

	assert.Equal(t, int64(3), *entry.RoutineID)
	assert.Equal(t, time.Date(2030, 5, 14, 0, 0, 0, 0, time.UTC), store.lastLog)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, EventRoutineFinished, publisher.events[0].Type)

	_, err = service.FinishRoutine(context.Background(), 42, 4)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestClampHistoryLimit(t *testing.T) {
	assert.Equal(t, defaultHistoryLimit, clampHistoryLimit(0))
	assert.Equal(t, 5, clampHistoryLimit(5))
	assert.Equal(t, maxHistoryLimit, clampHistoryLimit(10_000))
}
