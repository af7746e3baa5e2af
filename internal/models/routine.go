package models

import "time"

const (
	WeightTypeKilos  = "kilos"
	WeightTypePounds = "pounds"
	WeightTypePesas  = "pesas"
)

func ValidWeightType(weightType string) bool {
	switch weightType {
	case WeightTypeKilos, WeightTypePounds, WeightTypePesas:
		return true
	default:
		return false
	}
}

type Routine struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedBy   *int64    `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type RoutineExercise struct {
	ID         int64     `json:"id"`
	RoutineID  int64     `json:"routine_id"`
	ExerciseID int64     `json:"exercise_id"`
	WeightType string    `json:"weight_type"`
	CreatedAt  time.Time `json:"created_at"`
}

type RoutineExerciseSet struct {
	ID                int64     `json:"id"`
	RoutineExerciseID int64     `json:"routine_exercise_id"`
	SetNumber         int       `json:"set_number"`
	SuggestedWeight   *float64  `json:"suggested_weight"`
	SuggestedReps     *int      `json:"suggested_reps"`
	CreatedAt         time.Time `json:"created_at"`
}

type RoutineExerciseDetail struct {
	RoutineExercise
	Exercise *Exercise            `json:"exercise"`
	Sets     []RoutineExerciseSet `json:"sets"`
}

type RoutineDetail struct {
	Routine
	Exercises []RoutineExerciseDetail `json:"exercises"`
}

// SetCount is the number of set rows across every exercise group.
func (d *RoutineDetail) SetCount() int {
	total := 0
	for _, exercise := range d.Exercises {
		total += len(exercise.Sets)
	}
	return total
}
