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

const exerciseColumns = `id, name, description, category, created_at, updated_at`

// PostgresExerciseStore implements store.ExerciseStore on PostgreSQL.
type PostgresExerciseStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresExerciseStore creates an exercise store on db.
func NewPostgresExerciseStore(db store.DBTX, logger *slog.Logger) *PostgresExerciseStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresExerciseStore{
		db:     db,
		logger: logger.With(slog.String("component", "exercise_store")),
	}
}

var _ store.ExerciseStore = (*PostgresExerciseStore)(nil)

// WithTx implements store.ExerciseStore.
func (s *PostgresExerciseStore) WithTx(tx *sql.Tx) store.ExerciseStore {
	return &PostgresExerciseStore{db: tx, logger: s.logger}
}

// List implements store.ExerciseStore.
func (s *PostgresExerciseStore) List(ctx context.Context) ([]*domain.Exercise, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `SELECT `+exerciseColumns+` FROM exercises ORDER BY created_at, id`)
	if err != nil {
		log.Error("failed to list exercises", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	exercises := []*domain.Exercise{}
	for rows.Next() {
		exercise, err := scanExercise(rows)
		if err != nil {
			log.Error("failed to scan exercise row", slog.String("error", err.Error()))
			return nil, err
		}
		exercises = append(exercises, exercise)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return exercises, nil
}

// GetByID implements store.ExerciseStore.
func (s *PostgresExerciseStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+exerciseColumns+` FROM exercises WHERE id = $1`, id)
	return s.get(ctx, row, slog.String("exercise_id", id.String()))
}

// GetByName implements store.ExerciseStore.
func (s *PostgresExerciseStore) GetByName(ctx context.Context, name string) (*domain.Exercise, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+exerciseColumns+` FROM exercises WHERE name = $1`, name)
	return s.get(ctx, row, slog.String("exercise_name", name))
}

// Create implements store.ExerciseStore.
func (s *PostgresExerciseStore) Create(ctx context.Context, exercise *domain.Exercise) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := exercise.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO exercises (`+exerciseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		exercise.ID,
		exercise.Name,
		nullStringPtr(exercise.Description),
		exercise.Category,
		exercise.CreatedAt,
		exercise.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("exercise name taken", slog.String("exercise_name", exercise.Name))
			return store.ErrExerciseNameExists
		}
		log.Error("failed to create exercise",
			slog.String("error", err.Error()),
			slog.String("exercise_id", exercise.ID.String()))
		return MapError(err)
	}

	log.Info("exercise created",
		slog.String("exercise_id", exercise.ID.String()),
		slog.String("category", string(exercise.Category)))
	return nil
}

// Update implements store.ExerciseStore.
func (s *PostgresExerciseStore) Update(ctx context.Context, exercise *domain.Exercise) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := exercise.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE exercises
		SET name = $1, description = $2, category = $3, updated_at = $4
		WHERE id = $5
	`,
		exercise.Name,
		nullStringPtr(exercise.Description),
		exercise.Category,
		exercise.UpdatedAt,
		exercise.ID,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return store.ErrExerciseNameExists
		}
		log.Error("failed to update exercise",
			slog.String("error", err.Error()),
			slog.String("exercise_id", exercise.ID.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrExerciseNotFound)
}

// Delete implements store.ExerciseStore. Deleting an exercise that is still
// referenced by a workout fails with store.ErrInvalidEntity.
func (s *PostgresExerciseStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM exercises WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete exercise",
			slog.String("error", err.Error()),
			slog.String("exercise_id", id.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrExerciseNotFound); err != nil {
		return err
	}

	log.Info("exercise deleted", slog.String("exercise_id", id.String()))
	return nil
}

func (s *PostgresExerciseStore) get(ctx context.Context, row rowScanner, attr slog.Attr) (*domain.Exercise, error) {
	exercise, err := scanExercise(row)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, store.ErrExerciseNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to load exercise",
			attr, slog.String("error", err.Error()))
		return nil, err
	}
	return exercise, nil
}

func scanExercise(row rowScanner) (*domain.Exercise, error) {
	var (
		exercise    domain.Exercise
		description sql.NullString
		category    string
	)
	err := row.Scan(
		&exercise.ID,
		&exercise.Name,
		&description,
		&category,
		&exercise.CreatedAt,
		&exercise.UpdatedAt,
	)
	if err != nil {
		return nil, MapError(err)
	}
	exercise.Description = stringPtr(description)
	exercise.Category = domain.Category(category)
	return &exercise, nil
}
