package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkout(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	at := time.Date(2024, 3, 9, 18, 45, 0, 0, time.FixedZone("X", 3*3600))

	workout, err := NewWorkout(owner, at, nil)
	require.NoError(t, err)
	assert.Equal(t, owner, workout.UserID)
	assert.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), workout.Date)
	assert.True(t, workout.OwnedBy(owner))
	assert.False(t, workout.OwnedBy(uuid.New()))

	_, err = NewWorkout(uuid.Nil, at, nil)
	assert.ErrorIs(t, err, ErrEmptyWorkoutOwner)

	_, err = NewWorkout(owner, time.Time{}, nil)
	assert.ErrorIs(t, err, ErrEmptyWorkoutDate)
}

func TestWorkoutExerciseInputValidate(t *testing.T) {
	t.Parallel()

	valid := WorkoutExerciseInput{ExerciseID: uuid.New(), Sets: 3, Reps: 10, Weight: 42.5}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*WorkoutExerciseInput)
		want   error
	}{
		{"missing exercise", func(in *WorkoutExerciseInput) { in.ExerciseID = uuid.Nil }, ErrEmptyExerciseID},
		{"zero sets", func(in *WorkoutExerciseInput) { in.Sets = 0 }, ErrNonPositiveSets},
		{"negative reps", func(in *WorkoutExerciseInput) { in.Reps = -1 }, ErrNonPositiveReps},
		{"zero weight", func(in *WorkoutExerciseInput) { in.Weight = 0 }, ErrNonPositiveWeight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			assert.ErrorIs(t, in.Validate(), tt.want)
		})
	}
}

func TestNewWorkoutExercise(t *testing.T) {
	t.Parallel()

	workoutID := uuid.New()
	in := WorkoutExerciseInput{ExerciseID: uuid.New(), Sets: 5, Reps: 5, Weight: 100}

	row, err := NewWorkoutExercise(workoutID, in)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, row.ID)
	assert.Equal(t, workoutID, row.WorkoutID)
	assert.Equal(t, in.ExerciseID, row.ExerciseID)
	assert.Equal(t, 5, row.Sets)
	assert.Equal(t, 100.0, row.Weight)
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("29/02/2024")
	assert.ErrorIs(t, err, ErrValidation)
}
