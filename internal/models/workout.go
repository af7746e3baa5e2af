package models

import "time"

type UserRoutine struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	RoutineID  int64     `json:"routine_id"`
	AssignedAt time.Time `json:"assigned_at"`
}

type WorkoutHistory struct {
	ID                int64     `json:"id"`
	UserID            int64     `json:"user_id"`
	RoutineExerciseID *int64    `json:"routine_exercise_id"`
	SetNumber         int       `json:"set_number"`
	Weight            *float64  `json:"weight"`
	Reps              *int      `json:"reps"`
	CompletedAt       time.Time `json:"completed_at"`
}

type RoutineLog struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	RoutineID   *int64    `json:"routine_id"`
	CompletedOn time.Time `json:"completed_on"`
	CreatedAt   time.Time `json:"created_at"`
}

type WorkoutSet struct {
	RoutineExerciseSet
	Completed bool `json:"completed"`
}

type WorkoutExercise struct {
	RoutineExercise
	Exercise *Exercise    `json:"exercise"`
	Sets     []WorkoutSet `json:"sets"`
}

// WorkoutSession is the checklist a user works through for one routine on one day.
type WorkoutSession struct {
	Routine
	Date      string            `json:"date"`
	Exercises []WorkoutExercise `json:"exercises"`
}

type WorkoutEvent struct {
	Type              string    `json:"type"`
	UserID            int64     `json:"user_id"`
	RoutineID         *int64    `json:"routine_id,omitempty"`
	RoutineExerciseID *int64    `json:"routine_exercise_id,omitempty"`
	SetNumber         int       `json:"set_number,omitempty"`
	Weight            *float64  `json:"weight,omitempty"`
	Reps              *int      `json:"reps,omitempty"`
	OccurredAt        time.Time `json:"occurred_at"`
}
