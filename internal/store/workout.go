package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/fitlog-api/internal/domain"
)

// WorkoutStore defines the interface for workouts and their exercise rows.
type WorkoutStore interface {
	// Create saves a new workout row without exercise rows.
	Create(ctx context.Context, workout *domain.Workout) error

	// GetByID returns ErrWorkoutNotFound if the workout does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Workout, error)

	// GetByIDAndUser is the owner-scoped lookup: it returns
	// ErrWorkoutNotFound when no row matches both id and userID.
	GetByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*domain.Workout, error)

	// ListByUser returns the workouts owned by userID, newest date first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Workout, error)

	// Update persists the date and description of workout.
	Update(ctx context.Context, workout *domain.Workout) error

	// Delete removes the workout; its exercise rows cascade.
	// Returns ErrWorkoutNotFound if the workout does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// AddExercise appends one exercise row. A missing workout or exercise
	// surfaces as ErrInvalidEntity.
	AddExercise(ctx context.Context, row *domain.WorkoutExercise) error

	// ListExercises returns the exercise rows of a workout in insertion order.
	ListExercises(ctx context.Context, workoutID uuid.UUID) ([]domain.WorkoutExercise, error)

	WithTx(tx *sql.Tx) WorkoutStore
}
