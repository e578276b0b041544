package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/fitlog-api/internal/domain"
)

// ExerciseStore defines the interface for the exercise catalog.
type ExerciseStore interface {
	// List returns every exercise in insertion order.
	List(ctx context.Context) ([]*domain.Exercise, error)

	// GetByID returns ErrExerciseNotFound if the exercise does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error)

	// GetByName looks an exercise up by its canonical name.
	// Returns ErrExerciseNotFound if no exercise has that name.
	GetByName(ctx context.Context, name string) (*domain.Exercise, error)

	// Create returns ErrExerciseNameExists on a name collision.
	Create(ctx context.Context, exercise *domain.Exercise) error

	// Update returns ErrExerciseNotFound or ErrExerciseNameExists.
	Update(ctx context.Context, exercise *domain.Exercise) error

	// Delete returns ErrExerciseNotFound if the exercise does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	WithTx(tx *sql.Tx) ExerciseStore
}
