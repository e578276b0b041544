package domain

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// DateLayout is the wire format of a workout date.
const DateLayout = "2006-01-02"

// MaxWorkoutDescriptionLength mirrors the workouts.description column size.
const MaxWorkoutDescriptionLength = 500

var (
	ErrEmptyWorkoutOwner    = fmt.Errorf("%w: workout owner cannot be empty", ErrValidation)
	ErrEmptyWorkoutDate     = fmt.Errorf("%w: workout date cannot be empty", ErrValidation)
	ErrNullWorkoutExercises = fmt.Errorf("%w: exercises cannot be null", ErrValidation)
	ErrEmptyExerciseID      = fmt.Errorf("%w: exercise id cannot be empty", ErrValidation)
	ErrNonPositiveSets      = fmt.Errorf("%w: sets must be greater than zero", ErrValidation)
	ErrNonPositiveReps      = fmt.Errorf("%w: reps must be greater than zero", ErrValidation)
	ErrNonPositiveWeight    = fmt.Errorf("%w: weight must be greater than zero", ErrValidation)
	ErrWorkoutDescTooLong   = fmt.Errorf("%w: description must be at most %d characters", ErrValidation, MaxWorkoutDescriptionLength)
)

// Workout is a training session owned by exactly one user.
type Workout struct {
	Record
	UserID      uuid.UUID `json:"user_id"`
	Date        time.Time `json:"date"`
	Description *string   `json:"description"`
}

// NewWorkout creates a workout owned by userID on the calendar day of date.
func NewWorkout(userID uuid.UUID, date time.Time, description *string) (*Workout, error) {
	w := &Workout{
		Record:      NewRecord(),
		UserID:      userID,
		Date:        TruncateDate(date),
		Description: description,
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// Validate checks the workout invariants.
func (w *Workout) Validate() error {
	if w.UserID == uuid.Nil {
		return ErrEmptyWorkoutOwner
	}
	if w.Date.IsZero() {
		return ErrEmptyWorkoutDate
	}
	if w.Description != nil && utf8.RuneCountInString(*w.Description) > MaxWorkoutDescriptionLength {
		return ErrWorkoutDescTooLong
	}
	return nil
}

// OwnedBy reports whether userID owns the workout.
func (w *Workout) OwnedBy(userID uuid.UUID) bool {
	return w.UserID == userID
}

// WorkoutExercise prescribes sets, reps and weight for one exercise inside a
// workout. A workout may reference the same exercise more than once.
type WorkoutExercise struct {
	Record
	WorkoutID  uuid.UUID `json:"workout_id"`
	ExerciseID uuid.UUID `json:"exercise_id"`
	Sets       int       `json:"sets"`
	Reps       int       `json:"reps"`
	Weight     float64   `json:"weight"`
}

// WorkoutExerciseInput is the caller-supplied prescription for one exercise.
type WorkoutExerciseInput struct {
	ExerciseID uuid.UUID `json:"id"`
	Sets       int       `json:"sets"`
	Reps       int       `json:"reps"`
	Weight     float64   `json:"weight"`
}

// Validate checks that every parameter is positive.
func (in WorkoutExerciseInput) Validate() error {
	switch {
	case in.ExerciseID == uuid.Nil:
		return ErrEmptyExerciseID
	case in.Sets <= 0:
		return ErrNonPositiveSets
	case in.Reps <= 0:
		return ErrNonPositiveReps
	case in.Weight <= 0:
		return ErrNonPositiveWeight
	}
	return nil
}

// NewWorkoutExercise links in to workoutID.
func NewWorkoutExercise(workoutID uuid.UUID, in WorkoutExerciseInput) (*WorkoutExercise, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return &WorkoutExercise{
		Record:     NewRecord(),
		WorkoutID:  workoutID,
		ExerciseID: in.ExerciseID,
		Sets:       in.Sets,
		Reps:       in.Reps,
		Weight:     in.Weight,
	}, nil
}

// WorkoutDetails is a workout assembled with all of its exercise rows.
type WorkoutDetails struct {
	Workout
	Exercises []WorkoutExercise `json:"exercises"`
}

// TruncateDate drops the time of day and normalizes to UTC.
func TruncateDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, NewValidationError("date", "must use the YYYY-MM-DD format", nil)
	}
	return t, nil
}
