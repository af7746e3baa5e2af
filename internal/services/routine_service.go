package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/models"
	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/sync/errgroup"
)

type routineStore interface {
	Create(ctx context.Context, input repository.CreateRoutineInput) (*models.Routine, error)
	GetByID(ctx context.Context, id int64) (*models.Routine, error)
	List(ctx context.Context) ([]models.Routine, error)
	Update(ctx context.Context, id int64, input repository.UpdateRoutineInput) (*models.Routine, error)
}

type routineExerciseStore interface {
	Create(ctx context.Context, routineID, exerciseID int64, weightType string) (*models.RoutineExercise, error)
	GetByID(ctx context.Context, id int64) (*models.RoutineExercise, error)
	ListByRoutineID(ctx context.Context, routineID int64) ([]models.RoutineExercise, error)
	UpdateWeightType(ctx context.Context, id int64, weightType string) (*models.RoutineExercise, error)
}

type exerciseByIDsReader interface {
	ListByIDs(ctx context.Context, ids []int64) ([]models.Exercise, error)
}

type setStore interface {
	GetByID(ctx context.Context, id int64) (*models.RoutineExerciseSet, error)
	ListByRoutineExerciseIDs(ctx context.Context, ids []int64) ([]models.RoutineExerciseSet, error)
	Update(ctx context.Context, id int64, input repository.UpdateSetInput) (*models.RoutineExerciseSet, error)
	Delete(ctx context.Context, id int64) error
}

type assignmentStore interface {
	Assign(ctx context.Context, userID, routineID int64) (*models.UserRoutine, error)
	Unassign(ctx context.Context, userID, routineID int64) error
	ListUsersByRoutine(ctx context.Context, routineID int64) ([]models.Profile, error)
}

type RoutineService struct {
	db               txBeginner
	routines         routineStore
	routineExercises routineExerciseStore
	exercises        exerciseByIDsReader
	sets             setStore
	assignments      assignmentStore
	profiles         profileReader
}

func NewRoutineService(
	db txBeginner,
	routines *repository.RoutineRepository,
	routineExercises *repository.RoutineExerciseRepository,
	exercises *repository.ExerciseRepository,
	sets *repository.SetRepository,
	assignments *repository.AssignmentRepository,
	profiles *repository.ProfileRepository,
) *RoutineService {
	return &RoutineService{
		db:               db,
		routines:         routines,
		routineExercises: routineExercises,
		exercises:        exercises,
		sets:             sets,
		assignments:      assignments,
		profiles:         profiles,
	}
}

type SetValues struct {
	SuggestedWeight *float64
	SuggestedReps   *int
}

func (v SetValues) valid() bool {
	if v.SuggestedWeight != nil && *v.SuggestedWeight < 0 {
		return false
	}
	if v.SuggestedReps != nil && *v.SuggestedReps <= 0 {
		return false
	}
	return true
}

func (s *RoutineService) ListRoutines(ctx context.Context, opts ListOptions) ([]models.Routine, models.PaginationMeta, error) {
	routines, err := s.routines.List(ctx)
	if err != nil {
		return nil, models.PaginationMeta{}, err
	}
	filtered := FilterByQuery(routines, opts.Query, routineSearchFields)
	page, meta := Paginate(filtered, opts.Page, opts.Limit)
	return page, meta, nil
}

func (s *RoutineService) GetRoutine(ctx context.Context, id int64) (*models.Routine, error) {
	routine, err := s.routines.GetByID(ctx, id)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return routine, nil
}

func (s *RoutineService) CreateRoutine(ctx context.Context, input repository.CreateRoutineInput) (*models.Routine, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, ErrInvalidInput
	}
	input.Description = trimOptional(input.Description)

	routine, err := s.routines.Create(ctx, input)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return routine, nil
}

func (s *RoutineService) UpdateRoutine(ctx context.Context, id int64, input repository.UpdateRoutineInput) (*models.Routine, error) {
	if input.Name != nil {
		input.Name = trimOptional(input.Name)
		if *input.Name == "" {
			return nil, ErrInvalidInput
		}
	}
	input.Description = trimOptional(input.Description)

	routine, err := s.routines.Update(ctx, id, input)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return routine, nil
}

// DeleteRoutine removes a routine with its exercises, their sets and its assignments in
// one transaction. Workout history and routine logs keep their rows.
func (s *RoutineService) DeleteRoutine(ctx context.Context, id int64) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txRoutines := repository.NewRoutineRepository(tx)
	txRoutineExercises := repository.NewRoutineExerciseRepository(tx)

	if _, err := txRoutines.GetByID(ctx, id); err != nil {
		return translateStoreError(err)
	}

	items, err := txRoutineExercises.ListByRoutineID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := repository.NewSetRepository(tx).DeleteByRoutineExerciseIDs(ctx, routineExerciseIDs(items)); err != nil {
		return err
	}
	if _, err := txRoutineExercises.DeleteByRoutineID(ctx, id); err != nil {
		return err
	}
	if _, err := repository.NewAssignmentRepository(tx).DeleteByRoutineID(ctx, id); err != nil {
		return err
	}
	if err := txRoutines.Delete(ctx, id); err != nil {
		return translateStoreError(err)
	}

	return tx.Commit(ctx)
}

// LoadRoutineDetail reads the routine and its exercise rows, then fetches the catalog
// exercises and the sets concurrently and groups the sets under their parent.
func (s *RoutineService) LoadRoutineDetail(ctx context.Context, routineID int64) (*models.RoutineDetail, error) {
	routine, err := s.GetRoutine(ctx, routineID)
	if err != nil {
		return nil, err
	}

	items, err := s.routineExercises.ListByRoutineID(ctx, routineID)
	if err != nil {
		return nil, err
	}

	var (
		exercises []models.Exercise
		sets      []models.RoutineExerciseSet
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		exercises, err = s.exercises.ListByIDs(gctx, catalogExerciseIDs(items))
		return err
	})
	g.Go(func() error {
		var err error
		sets, err = s.sets.ListByRoutineExerciseIDs(gctx, routineExerciseIDs(items))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return assembleRoutineDetail(*routine, items, exercises, sets), nil
}

func assembleRoutineDetail(
	routine models.Routine,
	items []models.RoutineExercise,
	exercises []models.Exercise,
	sets []models.RoutineExerciseSet,
) *models.RoutineDetail {
	catalog := make(map[int64]models.Exercise, len(exercises))
	for _, exercise := range exercises {
		catalog[exercise.ID] = exercise
	}

	byParent := make(map[int64][]models.RoutineExerciseSet, len(items))
	for _, set := range sets {
		byParent[set.RoutineExerciseID] = append(byParent[set.RoutineExerciseID], set)
	}

	detail := &models.RoutineDetail{
		Routine:   routine,
		Exercises: make([]models.RoutineExerciseDetail, 0, len(items)),
	}
	for _, item := range items {
		group := models.RoutineExerciseDetail{
			RoutineExercise: item,
			Sets:            byParent[item.ID],
		}
		if group.Sets == nil {
			group.Sets = []models.RoutineExerciseSet{}
		}
		sort.SliceStable(group.Sets, func(i, j int) bool {
			return group.Sets[i].SetNumber < group.Sets[j].SetNumber
		})
		if exercise, ok := catalog[item.ExerciseID]; ok {
			group.Exercise = &exercise
		}
		detail.Exercises = append(detail.Exercises, group)
	}
	return detail
}

func (s *RoutineService) AddRoutineExercise(ctx context.Context, routineID, exerciseID int64, weightType string) (*models.RoutineExercise, error) {
	if routineID <= 0 || exerciseID <= 0 {
		return nil, ErrInvalidInput
	}
	if weightType == "" {
		weightType = models.WeightTypeKilos
	}
	if !models.ValidWeightType(weightType) {
		return nil, ErrInvalidInput
	}

	item, err := s.routineExercises.Create(ctx, routineID, exerciseID, weightType)
	if err != nil {
		return nil, translateReferenceError(err)
	}
	return item, nil
}

func (s *RoutineService) UpdateRoutineExercise(ctx context.Context, id int64, weightType string) (*models.RoutineExercise, error) {
	if !models.ValidWeightType(weightType) {
		return nil, ErrInvalidInput
	}
	item, err := s.routineExercises.UpdateWeightType(ctx, id, weightType)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return item, nil
}

// DeleteRoutineExercise removes the exercise row and its sets together.
func (s *RoutineService) DeleteRoutineExercise(ctx context.Context, id int64) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := repository.NewSetRepository(tx).DeleteByRoutineExerciseIDs(ctx, []int64{id}); err != nil {
		return err
	}
	if err := repository.NewRoutineExerciseRepository(tx).Delete(ctx, id); err != nil {
		return translateStoreError(err)
	}
	return tx.Commit(ctx)
}

// AddSet appends a set numbered one past the current maximum. Numbering is serialised
// per routine exercise with a transaction-scoped advisory lock.
func (s *RoutineService) AddSet(ctx context.Context, routineExerciseID int64, values SetValues) (*models.RoutineExerciseSet, error) {
	if routineExerciseID <= 0 || !values.valid() {
		return nil, ErrInvalidInput
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txSets := repository.NewSetRepository(tx)
	if err := txSets.LockRoutineExercise(ctx, routineExerciseID); err != nil {
		return nil, err
	}
	if _, err := repository.NewRoutineExerciseRepository(tx).GetByID(ctx, routineExerciseID); err != nil {
		return nil, translateStoreError(err)
	}

	next, err := txSets.NextSetNumber(ctx, routineExerciseID)
	if err != nil {
		return nil, err
	}
	set, err := txSets.Create(ctx, repository.SetInput{
		RoutineExerciseID: routineExerciseID,
		SetNumber:         next,
		SuggestedWeight:   values.SuggestedWeight,
		SuggestedReps:     values.SuggestedReps,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return set, nil
}

func (s *RoutineService) UpdateSet(ctx context.Context, id int64, values SetValues) (*models.RoutineExerciseSet, error) {
	if !values.valid() {
		return nil, ErrInvalidInput
	}
	set, err := s.sets.Update(ctx, id, repository.UpdateSetInput{
		SuggestedWeight: values.SuggestedWeight,
		SuggestedReps:   values.SuggestedReps,
	})
	if err != nil {
		return nil, translateStoreError(err)
	}
	return set, nil
}

// DeleteSet removes one set. Other sets keep their numbers.
func (s *RoutineService) DeleteSet(ctx context.Context, id int64) error {
	return translateStoreError(s.sets.Delete(ctx, id))
}

func (s *RoutineService) AssignRoutine(ctx context.Context, userID, routineID int64) (*models.UserRoutine, error) {
	if userID <= 0 || routineID <= 0 {
		return nil, ErrInvalidInput
	}
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, translateStoreError(err)
	}
	if profile.IsDeleted() {
		return nil, ErrNotFound
	}

	assignment, err := s.assignments.Assign(ctx, userID, routineID)
	if err != nil {
		return nil, translateReferenceError(err)
	}
	return assignment, nil
}

func (s *RoutineService) UnassignRoutine(ctx context.Context, userID, routineID int64) error {
	return translateStoreError(s.assignments.Unassign(ctx, userID, routineID))
}

func (s *RoutineService) ListRoutineUsers(ctx context.Context, routineID int64) ([]models.Profile, error) {
	if _, err := s.GetRoutine(ctx, routineID); err != nil {
		return nil, err
	}
	return s.assignments.ListUsersByRoutine(ctx, routineID)
}

// translateReferenceError treats a dangling foreign key as a missing parent row.
func translateReferenceError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode {
		return ErrNotFound
	}
	return translateStoreError(err)
}

func routineExerciseIDs(items []models.RoutineExercise) []int64 {
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}

func catalogExerciseIDs(items []models.RoutineExercise) []int64 {
	seen := make(map[int64]struct{}, len(items))
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ExerciseID]; ok {
			continue
		}
		seen[item.ExerciseID] = struct{}{}
		ids = append(ids, item.ExerciseID)
	}
	return ids
}
