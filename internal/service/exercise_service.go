package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/fitlog-api/internal/domain"
	"github.com/phrazzld/fitlog-api/internal/platform/logger"
	"github.com/phrazzld/fitlog-api/internal/store"
)

// ExerciseService manages the exercise catalog. Mutations require the admin
// role, checked through domain.Authorize before anything else happens.
type ExerciseService interface {
	List(ctx context.Context) ([]*domain.Exercise, error)

	// Get returns domain.ErrNotFound if the exercise does not exist.
	Get(ctx context.Context, id uuid.UUID) (*domain.Exercise, error)

	// Add canonicalizes the name and rejects duplicates with
	// domain.ErrAlreadyExists.
	Add(ctx context.Context, actor domain.Actor, name string, description *string, category domain.Category) (*domain.Exercise, error)

	// Replace is the full update: name and description are required.
	Replace(ctx context.Context, actor domain.Actor, id uuid.UUID, patch domain.ExercisePatch) (*domain.Exercise, error)

	// Patch updates only the supplied fields.
	Patch(ctx context.Context, actor domain.Actor, id uuid.UUID, patch domain.ExercisePatch) (*domain.Exercise, error)

	Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error
}

type exerciseService struct {
	db        *sql.DB
	exercises store.ExerciseStore
	logger    *slog.Logger
}

// NewExerciseService creates an ExerciseService.
func NewExerciseService(db *sql.DB, exercises store.ExerciseStore, logger *slog.Logger) (ExerciseService, error) {
	if db == nil {
		return nil, errors.New("exercise service requires a database")
	}
	if exercises == nil {
		return nil, errors.New("exercise service requires an exercise store")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &exerciseService{
		db:        db,
		exercises: exercises,
		logger:    logger.With("component", "exercise_service"),
	}, nil
}

// List implements ExerciseService.
func (s *exerciseService) List(ctx context.Context) ([]*domain.Exercise, error) {
	exercises, err := s.exercises.List(ctx)
	if err != nil {
		return nil, translate("list_exercises", "failed to list exercises", err)
	}
	return exercises, nil
}

// Get implements ExerciseService.
func (s *exerciseService) Get(ctx context.Context, id uuid.UUID) (*domain.Exercise, error) {
	exercise, err := s.exercises.GetByID(ctx, id)
	if err != nil {
		return nil, translate("get_exercise", "failed to load exercise", err)
	}
	return exercise, nil
}

// Add implements ExerciseService.
func (s *exerciseService) Add(
	ctx context.Context,
	actor domain.Actor,
	name string,
	description *string,
	category domain.Category,
) (*domain.Exercise, error) {
	if err := domain.Authorize(actor.Role, domain.ActionExerciseCreate); err != nil {
		return nil, err
	}

	exercise, err := domain.NewExercise(name, description, category)
	if err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		exercises := s.exercises.WithTx(tx)
		if err := s.ensureNameFree(ctx, exercises, exercise.Name, uuid.Nil); err != nil {
			return err
		}
		return exercises.Create(ctx, exercise)
	})
	if err != nil {
		return nil, s.translateWrite("add_exercise", exercise.Name, err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("exercise added",
		slog.String("exercise_id", exercise.ID.String()),
		slog.String("actor_id", actor.UserID.String()))
	return exercise, nil
}

// Replace implements ExerciseService.
func (s *exerciseService) Replace(ctx context.Context, actor domain.Actor, id uuid.UUID, patch domain.ExercisePatch) (*domain.Exercise, error) {
	return s.update(ctx, "replace_exercise", actor, id, patch, patch.ValidateReplace)
}

// Patch implements ExerciseService.
func (s *exerciseService) Patch(ctx context.Context, actor domain.Actor, id uuid.UUID, patch domain.ExercisePatch) (*domain.Exercise, error) {
	return s.update(ctx, "patch_exercise", actor, id, patch, patch.Validate)
}

func (s *exerciseService) update(
	ctx context.Context,
	op string,
	actor domain.Actor,
	id uuid.UUID,
	patch domain.ExercisePatch,
	validate func() error,
) (*domain.Exercise, error) {
	if err := domain.Authorize(actor.Role, domain.ActionExerciseUpdate); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return nil, domain.ErrDataIsEmpty
	}
	if err := validate(); err != nil {
		return nil, err
	}

	exercise, err := store.RunInTransactionResult(ctx, s.db, func(ctx context.Context, tx *sql.Tx) (*domain.Exercise, error) {
		exercises := s.exercises.WithTx(tx)

		exercise, err := exercises.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		previousName := exercise.Name
		patch.Apply(exercise)
		if exercise.Name != previousName {
			if err := s.ensureNameFree(ctx, exercises, exercise.Name, exercise.ID); err != nil {
				return nil, err
			}
		}

		if err := exercises.Update(ctx, exercise); err != nil {
			return nil, err
		}
		return exercise, nil
	})
	if err != nil {
		return nil, s.translateWrite(op, "", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("exercise updated",
		slog.String("exercise_id", id.String()),
		slog.String("actor_id", actor.UserID.String()))
	return exercise, nil
}

// Delete implements ExerciseService.
func (s *exerciseService) Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	if err := domain.Authorize(actor.Role, domain.ActionExerciseDelete); err != nil {
		return err
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.exercises.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, store.ErrInvalidEntity) {
			return domain.NewValidationError("id", "exercise is used by existing workouts", nil)
		}
		return translate("delete_exercise", "failed to delete exercise", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("exercise deleted",
		slog.String("exercise_id", id.String()),
		slog.String("actor_id", actor.UserID.String()))
	return nil
}

// ensureNameFree returns domain.ErrAlreadyExists if another exercise than
// self already uses name.
func (s *exerciseService) ensureNameFree(ctx context.Context, exercises store.ExerciseStore, name string, self uuid.UUID) error {
	existing, err := exercises.GetByName(ctx, name)
	switch {
	case errors.Is(err, store.ErrExerciseNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != self:
		return nameTaken(name)
	}
	return nil
}

func (s *exerciseService) translateWrite(op, name string, err error) error {
	if errors.Is(err, store.ErrExerciseNameExists) {
		return nameTaken(name)
	}
	return translate(op, "failed to save exercise", err)
}

func nameTaken(name string) error {
	if name == "" {
		return fmt.Errorf("%w: exercise name is taken", domain.ErrAlreadyExists)
	}
	return fmt.Errorf("%w: exercise %q already exists", domain.ErrAlreadyExists, name)
}
