package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/fitlog-api/internal/domain"
	"github.com/phrazzld/fitlog-api/internal/platform/logger"
	"github.com/phrazzld/fitlog-api/internal/store"
)

const (
	workoutColumns         = `id, user_id, workout_date, description, created_at, updated_at`
	workoutExerciseColumns = `id, workout_id, exercise_id, sets, reps, weight, created_at, updated_at`
)

// PostgresWorkoutStore implements store.WorkoutStore on PostgreSQL.
type PostgresWorkoutStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresWorkoutStore creates a workout store on db.
func NewPostgresWorkoutStore(db store.DBTX, logger *slog.Logger) *PostgresWorkoutStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresWorkoutStore{
		db:     db,
		logger: logger.With(slog.String("component", "workout_store")),
	}
}

var _ store.WorkoutStore = (*PostgresWorkoutStore)(nil)

// WithTx implements store.WorkoutStore.
func (s *PostgresWorkoutStore) WithTx(tx *sql.Tx) store.WorkoutStore {
	return &PostgresWorkoutStore{db: tx, logger: s.logger}
}

// Create implements store.WorkoutStore.
func (s *PostgresWorkoutStore) Create(ctx context.Context, workout *domain.Workout) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := workout.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO workouts (`+workoutColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		workout.ID,
		workout.UserID,
		workout.Date,
		nullStringPtr(workout.Description),
		workout.CreatedAt,
		workout.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create workout",
			slog.String("error", err.Error()),
			slog.String("workout_id", workout.ID.String()),
			slog.String("user_id", workout.UserID.String()))
		return MapError(err)
	}

	log.Info("workout created",
		slog.String("workout_id", workout.ID.String()),
		slog.String("user_id", workout.UserID.String()))
	return nil
}

// GetByID implements store.WorkoutStore.
func (s *PostgresWorkoutStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workout, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+workoutColumns+` FROM workouts WHERE id = $1`, id)
	return s.get(ctx, row, id)
}

// GetByIDAndUser implements store.WorkoutStore.
func (s *PostgresWorkoutStore) GetByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*domain.Workout, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+workoutColumns+` FROM workouts WHERE id = $1 AND user_id = $2`, id, userID)
	return s.get(ctx, row, id)
}

// ListByUser implements store.WorkoutStore.
func (s *PostgresWorkoutStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Workout, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+workoutColumns+`
		FROM workouts
		WHERE user_id = $1
		ORDER BY workout_date DESC, created_at DESC
	`, userID)
	if err != nil {
		log.Error("failed to list workouts",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	workouts := []*domain.Workout{}
	for rows.Next() {
		workout, err := scanWorkout(rows)
		if err != nil {
			log.Error("failed to scan workout row", slog.String("error", err.Error()))
			return nil, err
		}
		workouts = append(workouts, workout)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.Debug("listed workouts",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(workouts)))
	return workouts, nil
}

// Update implements store.WorkoutStore.
func (s *PostgresWorkoutStore) Update(ctx context.Context, workout *domain.Workout) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := workout.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE workouts
		SET workout_date = $1, description = $2, updated_at = $3
		WHERE id = $4
	`,
		workout.Date,
		nullStringPtr(workout.Description),
		workout.UpdatedAt,
		workout.ID,
	)
	if err != nil {
		log.Error("failed to update workout",
			slog.String("error", err.Error()),
			slog.String("workout_id", workout.ID.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrWorkoutNotFound)
}

// Delete implements store.WorkoutStore.
func (s *PostgresWorkoutStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM workouts WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete workout",
			slog.String("error", err.Error()),
			slog.String("workout_id", id.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrWorkoutNotFound); err != nil {
		return err
	}

	log.Info("workout deleted", slog.String("workout_id", id.String()))
	return nil
}

// AddExercise implements store.WorkoutStore.
func (s *PostgresWorkoutStore) AddExercise(ctx context.Context, row *domain.WorkoutExercise) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO workout_exercises (`+workoutExerciseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		row.ID,
		row.WorkoutID,
		row.ExerciseID,
		row.Sets,
		row.Reps,
		row.Weight,
		row.CreatedAt,
		row.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to add exercise to workout",
			slog.String("error", err.Error()),
			slog.String("workout_id", row.WorkoutID.String()),
			slog.String("exercise_id", row.ExerciseID.String()))
		return MapError(err)
	}
	return nil
}

// ListExercises implements store.WorkoutStore.
func (s *PostgresWorkoutStore) ListExercises(ctx context.Context, workoutID uuid.UUID) ([]domain.WorkoutExercise, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+workoutExerciseColumns+`
		FROM workout_exercises
		WHERE workout_id = $1
		ORDER BY created_at, id
	`, workoutID)
	if err != nil {
		log.Error("failed to list workout exercises",
			slog.String("error", err.Error()),
			slog.String("workout_id", workoutID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	entries := []domain.WorkoutExercise{}
	for rows.Next() {
		var e domain.WorkoutExercise
		if err := rows.Scan(
			&e.ID,
			&e.WorkoutID,
			&e.ExerciseID,
			&e.Sets,
			&e.Reps,
			&e.Weight,
			&e.CreatedAt,
			&e.UpdatedAt,
		); err != nil {
			log.Error("failed to scan workout exercise row", slog.String("error", err.Error()))
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *PostgresWorkoutStore) get(ctx context.Context, row rowScanner, id uuid.UUID) (*domain.Workout, error) {
	workout, err := scanWorkout(row)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, store.ErrWorkoutNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to load workout",
			slog.String("workout_id", id.String()),
			slog.String("error", err.Error()))
		return nil, err
	}
	return workout, nil
}

func scanWorkout(row rowScanner) (*domain.Workout, error) {
	var (
		workout     domain.Workout
		description sql.NullString
	)
	err := row.Scan(
		&workout.ID,
		&workout.UserID,
		&workout.Date,
		&description,
		&workout.CreatedAt,
		&workout.UpdatedAt,
	)
	if err != nil {
		return nil, MapError(err)
	}
	workout.Date = domain.TruncateDate(workout.Date)
	workout.Description = stringPtr(description)
	return &workout, nil
}
