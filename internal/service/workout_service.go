package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/fitlog-api/internal/domain"
	"github.com/phrazzld/fitlog-api/internal/platform/logger"
	"github.com/phrazzld/fitlog-api/internal/store"
)

// WorkoutService manages workouts owned by a single user.
//
// Reads and appends on another user's workout fail with
// domain.ErrAccessDenied. Delete uses an owner-scoped lookup instead, so a
// foreign workout is reported as domain.ErrNotFound there.
type WorkoutService interface {
	// List returns the workouts owned by userID, newest first.
	List(ctx context.Context, userID uuid.UUID) ([]*domain.Workout, error)

	// Get returns the workout with its exercise rows.
	Get(ctx context.Context, userID, workoutID uuid.UUID) (*domain.WorkoutDetails, error)

	// Add creates a workout and its exercise rows in one transaction. Every
	// referenced exercise is checked before any row is written.
	Add(ctx context.Context, userID uuid.UUID, date time.Time, description *string, exercises []domain.WorkoutExerciseInput) (*domain.WorkoutDetails, error)

	// AddExercises appends rows to an existing workout.
	AddExercises(ctx context.Context, userID, workoutID uuid.UUID, entries []domain.WorkoutExerciseInput) (*domain.WorkoutDetails, error)

	Delete(ctx context.Context, userID, workoutID uuid.UUID) error

	// PartiallyUpdate applies patch. Supplied exercises are appended, never
	// replacing existing rows.
	PartiallyUpdate(ctx context.Context, userID, workoutID uuid.UUID, patch domain.WorkoutPatch) (*domain.WorkoutDetails, error)
}

type workoutService struct {
	db        *sql.DB
	workouts  store.WorkoutStore
	exercises store.ExerciseStore
	logger    *slog.Logger
}

// NewWorkoutService creates a WorkoutService.
func NewWorkoutService(db *sql.DB, workouts store.WorkoutStore, exercises store.ExerciseStore, logger *slog.Logger) (WorkoutService, error) {
	switch {
	case db == nil:
		return nil, errors.New("workout service requires a database")
	case workouts == nil:
		return nil, errors.New("workout service requires a workout store")
	case exercises == nil:
		return nil, errors.New("workout service requires an exercise store")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &workoutService{
		db:        db,
		workouts:  workouts,
		exercises: exercises,
		logger:    logger.With("component", "workout_service"),
	}, nil
}

// List implements WorkoutService.
func (s *workoutService) List(ctx context.Context, userID uuid.UUID) ([]*domain.Workout, error) {
	workouts, err := s.workouts.ListByUser(ctx, userID)
	if err != nil {
		return nil, translate("list_workouts", "failed to list workouts", err)
	}
	return workouts, nil
}

// Get implements WorkoutService.
func (s *workoutService) Get(ctx context.Context, userID, workoutID uuid.UUID) (*domain.WorkoutDetails, error) {
	workout, err := s.workouts.GetByID(ctx, workoutID)
	if err != nil {
		return nil, translate("get_workout", "failed to load workout", err)
	}
	if !workout.OwnedBy(userID) {
		return nil, notOwned(workoutID)
	}

	details, err := assemble(ctx, s.workouts, workout)
	if err != nil {
		return nil, translate("get_workout", "failed to load workout exercises", err)
	}
	return details, nil
}

// Add implements WorkoutService.
func (s *workoutService) Add(
	ctx context.Context,
	userID uuid.UUID,
	date time.Time,
	description *string,
	exercises []domain.WorkoutExerciseInput,
) (*domain.WorkoutDetails, error) {
	workout, err := domain.NewWorkout(userID, date, description)
	if err != nil {
		return nil, err
	}
	if err := validateEntries(exercises); err != nil {
		return nil, err
	}

	details, err := store.RunInTransactionResult(ctx, s.db, func(ctx context.Context, tx *sql.Tx) (*domain.WorkoutDetails, error) {
		if err := s.checkExercisesExist(ctx, s.exercises.WithTx(tx), exercises); err != nil {
			return nil, err
		}

		workouts := s.workouts.WithTx(tx)
		if err := workouts.Create(ctx, workout); err != nil {
			return nil, err
		}
		rows, err := appendEntries(ctx, workouts, workout.ID, exercises)
		if err != nil {
			return nil, err
		}
		return &domain.WorkoutDetails{Workout: *workout, Exercises: rows}, nil
	})
	if err != nil {
		return nil, translate("add_workout", "failed to save workout", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("workout added",
		slog.String("workout_id", workout.ID.String()),
		slog.String("user_id", userID.String()),
		slog.Int("exercise_count", len(exercises)))
	return details, nil
}

// AddExercises implements WorkoutService.
func (s *workoutService) AddExercises(
	ctx context.Context,
	userID, workoutID uuid.UUID,
	entries []domain.WorkoutExerciseInput,
) (*domain.WorkoutDetails, error) {
	if len(entries) == 0 {
		return nil, domain.ErrDataIsEmpty
	}
	if err := validateEntries(entries); err != nil {
		return nil, err
	}

	details, err := store.RunInTransactionResult(ctx, s.db, func(ctx context.Context, tx *sql.Tx) (*domain.WorkoutDetails, error) {
		workouts := s.workouts.WithTx(tx)

		workout, err := workouts.GetByID(ctx, workoutID)
		if err != nil {
			return nil, err
		}
		if !workout.OwnedBy(userID) {
			return nil, notOwned(workoutID)
		}
		if err := s.checkExercisesExist(ctx, s.exercises.WithTx(tx), entries); err != nil {
			return nil, err
		}
		if _, err := appendEntries(ctx, workouts, workout.ID, entries); err != nil {
			return nil, err
		}
		return assemble(ctx, workouts, workout)
	})
	if err != nil {
		return nil, translate("add_workout_exercises", "failed to append exercises", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("exercises appended to workout",
		slog.String("workout_id", workoutID.String()),
		slog.Int("exercise_count", len(entries)))
	return details, nil
}

// Delete implements WorkoutService.
func (s *workoutService) Delete(ctx context.Context, userID, workoutID uuid.UUID) error {
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		workouts := s.workouts.WithTx(tx)

		if _, err := workouts.GetByIDAndUser(ctx, workoutID, userID); err != nil {
			return err
		}
		return workouts.Delete(ctx, workoutID)
	})
	if err != nil {
		return translate("delete_workout", "failed to delete workout", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("workout deleted",
		slog.String("workout_id", workoutID.String()),
		slog.String("user_id", userID.String()))
	return nil
}

// PartiallyUpdate implements WorkoutService.
func (s *workoutService) PartiallyUpdate(
	ctx context.Context,
	userID, workoutID uuid.UUID,
	patch domain.WorkoutPatch,
) (*domain.WorkoutDetails, error) {
	if patch.IsEmpty() {
		return nil, domain.ErrDataIsEmpty
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	details, err := store.RunInTransactionResult(ctx, s.db, func(ctx context.Context, tx *sql.Tx) (*domain.WorkoutDetails, error) {
		workouts := s.workouts.WithTx(tx)

		workout, err := workouts.GetByID(ctx, workoutID)
		if err != nil {
			return nil, err
		}
		if !workout.OwnedBy(userID) {
			return nil, notOwned(workoutID)
		}

		if patch.Date.Set || patch.Description.Set {
			patch.Apply(workout)
			if err := workouts.Update(ctx, workout); err != nil {
				return nil, err
			}
		}

		if entries := patch.Exercises.Value; len(entries) > 0 {
			if err := s.checkExercisesExist(ctx, s.exercises.WithTx(tx), entries); err != nil {
				return nil, err
			}
			if _, err := appendEntries(ctx, workouts, workout.ID, entries); err != nil {
				return nil, err
			}
		}
		return assemble(ctx, workouts, workout)
	})
	if err != nil {
		return nil, translate("update_workout", "failed to update workout", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("workout updated",
		slog.String("workout_id", workoutID.String()),
		slog.String("user_id", userID.String()))
	return details, nil
}

// checkExercisesExist looks up every distinct exercise referenced by entries.
func (s *workoutService) checkExercisesExist(ctx context.Context, exercises store.ExerciseStore, entries []domain.WorkoutExerciseInput) error {
	seen := make(map[uuid.UUID]struct{}, len(entries))
	for _, in := range entries {
		if _, ok := seen[in.ExerciseID]; ok {
			continue
		}
		seen[in.ExerciseID] = struct{}{}

		if _, err := exercises.GetByID(ctx, in.ExerciseID); err != nil {
			if errors.Is(err, store.ErrExerciseNotFound) {
				return fmt.Errorf("%w: Exercise with id %s not found", domain.ErrNotFound, in.ExerciseID)
			}
			return err
		}
	}
	return nil
}

func validateEntries(entries []domain.WorkoutExerciseInput) error {
	for i, in := range entries {
		if err := in.Validate(); err != nil {
			return domain.NewValidationError(fmt.Sprintf("exercises[%d]", i), err.Error(), err)
		}
	}
	return nil
}

func appendEntries(ctx context.Context, workouts store.WorkoutStore, workoutID uuid.UUID, entries []domain.WorkoutExerciseInput) ([]domain.WorkoutExercise, error) {
	rows := make([]domain.WorkoutExercise, 0, len(entries))
	for _, in := range entries {
		row, err := domain.NewWorkoutExercise(workoutID, in)
		if err != nil {
			return nil, err
		}
		if err := workouts.AddExercise(ctx, row); err != nil {
			return nil, err
		}
		rows = append(rows, *row)
	}
	return rows, nil
}

func assemble(ctx context.Context, workouts store.WorkoutStore, workout *domain.Workout) (*domain.WorkoutDetails, error) {
	rows, err := workouts.ListExercises(ctx, workout.ID)
	if err != nil {
		return nil, err
	}
	return &domain.WorkoutDetails{Workout: *workout, Exercises: rows}, nil
}

func notOwned(workoutID uuid.UUID) error {
	return fmt.Errorf("%w: workout %s belongs to another user", domain.ErrAccessDenied, workoutID)
}
