package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/fitlog-api/internal/domain"
	"github.com/phrazzld/fitlog-api/internal/platform/postgres"
	"github.com/phrazzld/fitlog-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	userCols            = []string{"id", "email", "pending_email", "hashed_password", "role", "is_active", "is_verified", "created_at", "updated_at"}
	exerciseCols        = []string{"id", "name", "description", "category", "created_at", "updated_at"}
	workoutCols         = []string{"id", "user_id", "workout_date", "description", "created_at", "updated_at"}
	workoutExerciseCols = []string{"id", "workout_id", "exercise_id", "sets", "reps", "weight", "created_at", "updated_at"}
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPostgresUserStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("create", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresUserStore(db, quietLogger())

		user, err := domain.NewUser("lifter@example.com", "$argon2id$hash")
		require.NoError(t, err)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
			WithArgs(sqlmock.AnyArg(), "lifter@example.com", nil, "$argon2id$hash", "user",
				false, false, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, s.Create(ctx, user))
	})

	t.Run("create duplicate email", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresUserStore(db, quietLogger())

		user, err := domain.NewUser("lifter@example.com", "$argon2id$hash")
		require.NoError(t, err)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
			WillReturnError(newPgError("23505", "users_email_key"))

		assert.ErrorIs(t, s.Create(ctx, user), store.ErrEmailExists)
	})

	t.Run("create rejects invalid user without touching the database", func(t *testing.T) {
		t.Parallel()
		db, _ := newMockDB(t)
		s := postgres.NewPostgresUserStore(db, quietLogger())

		err := s.Create(ctx, &domain.User{Email: "nope", HashedPassword: "x", Role: domain.RoleUser})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("get by email", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresUserStore(db, quietLogger())
		id := uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
			WithArgs("lifter@example.com").
			WillReturnRows(sqlmock.NewRows(userCols).
				AddRow(id.String(), "lifter@example.com", nil, "hash", "admin", true, true, now, now))

		user, err := s.GetByEmail(ctx, "lifter@example.com")
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.Equal(t, domain.RoleAdmin, user.Role)
		assert.Empty(t, user.PendingEmail)
		assert.True(t, user.IsVerified)
	})

	t.Run("get by id not found", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresUserStore(db, quietLogger())

		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
			WillReturnRows(sqlmock.NewRows(userCols))

		_, err := s.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrUserNotFound)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("get by email or pending", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresUserStore(db, quietLogger())

		mock.ExpectQuery(regexp.QuoteMeta("WHERE email = $1 OR pending_email = $1")).
			WithArgs("new@example.com").
			WillReturnRows(sqlmock.NewRows(userCols).
				AddRow(uuid.NewString(), "old@example.com", "new@example.com", "hash", "user", true, false, now, now))

		user, err := s.GetByEmailOrPending(ctx, "new@example.com")
		require.NoError(t, err)
		assert.Equal(t, "old@example.com", user.Email)
		assert.Equal(t, "new@example.com", user.PendingEmail)
	})

	t.Run("update missing row", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresUserStore(db, quietLogger())

		user, err := domain.NewUser("lifter@example.com", "hash")
		require.NoError(t, err)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE users")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, s.Update(ctx, user), store.ErrUserNotFound)
	})

	t.Run("update pending email conflict", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresUserStore(db, quietLogger())

		user, err := domain.NewUser("lifter@example.com", "hash")
		require.NoError(t, err)
		user.PendingEmail = "taken@example.com"

		mock.ExpectExec(regexp.QuoteMeta("UPDATE users")).
			WillReturnError(newPgError("23505", "users_pending_email_key"))

		assert.ErrorIs(t, s.Update(ctx, user), store.ErrEmailExists)
	})

	t.Run("set active", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresUserStore(db, quietLogger())
		id := uuid.New()

		mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET is_active = $1")).
			WithArgs(false, sqlmock.AnyArg(), id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, s.SetActive(ctx, id, false))
	})
}

func TestPostgresExerciseStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("list", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresExerciseStore(db, quietLogger())

		mock.ExpectQuery(regexp.QuoteMeta("FROM exercises ORDER BY created_at")).
			WillReturnRows(sqlmock.NewRows(exerciseCols).
				AddRow(uuid.NewString(), "Squat", nil, "legs", now, now).
				AddRow(uuid.NewString(), "Bench press", "flat bench", "chest", now, now))

		exercises, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, exercises, 2)
		assert.Nil(t, exercises[0].Description)
		require.NotNil(t, exercises[1].Description)
		assert.Equal(t, "flat bench", *exercises[1].Description)
		assert.Equal(t, domain.CategoryChest, exercises[1].Category)
	})

	t.Run("list empty", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresExerciseStore(db, quietLogger())

		mock.ExpectQuery(regexp.QuoteMeta("FROM exercises")).
			WillReturnRows(sqlmock.NewRows(exerciseCols))

		exercises, err := s.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, exercises)
		assert.Empty(t, exercises)
	})

	t.Run("get by name not found", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresExerciseStore(db, quietLogger())

		mock.ExpectQuery(regexp.QuoteMeta("FROM exercises WHERE name = $1")).
			WithArgs("Squat").
			WillReturnRows(sqlmock.NewRows(exerciseCols))

		_, err := s.GetByName(ctx, "Squat")
		assert.ErrorIs(t, err, store.ErrExerciseNotFound)
	})

	t.Run("create duplicate name", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresExerciseStore(db, quietLogger())

		exercise, err := domain.NewExercise("squat", nil, domain.CategoryLegs)
		require.NoError(t, err)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO exercises")).
			WithArgs(sqlmock.AnyArg(), "Squat", nil, "legs", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnError(newPgError("23505", "exercises_name_key"))

		assert.ErrorIs(t, s.Create(ctx, exercise), store.ErrExerciseNameExists)
	})

	t.Run("update missing row", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresExerciseStore(db, quietLogger())

		exercise, err := domain.NewExercise("Squat", nil, domain.CategoryLegs)
		require.NoError(t, err)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE exercises")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, s.Update(ctx, exercise), store.ErrExerciseNotFound)
	})

	t.Run("delete referenced exercise", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresExerciseStore(db, quietLogger())

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM exercises")).
			WillReturnError(newPgError("23503", "workout_exercises_exercise_id_fkey"))

		assert.ErrorIs(t, s.Delete(ctx, uuid.New()), store.ErrInvalidEntity)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresExerciseStore(db, quietLogger())

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM exercises")).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, s.Delete(ctx, uuid.New()))
	})
}

func TestPostgresWorkoutStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Now().UTC()
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	t.Run("create", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresWorkoutStore(db, quietLogger())
		userID := uuid.New()

		workout, err := domain.NewWorkout(userID, day, nil)
		require.NoError(t, err)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO workouts")).
			WithArgs(sqlmock.AnyArg(), userID, day, nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, s.Create(ctx, workout))
	})

	t.Run("get by id and user scopes the lookup", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresWorkoutStore(db, quietLogger())
		id, userID := uuid.New(), uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta("FROM workouts WHERE id = $1 AND user_id = $2")).
			WithArgs(id, userID).
			WillReturnRows(sqlmock.NewRows(workoutCols))

		_, err := s.GetByIDAndUser(ctx, id, userID)
		assert.ErrorIs(t, err, store.ErrWorkoutNotFound)
	})

	t.Run("list by user", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresWorkoutStore(db, quietLogger())
		userID := uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta("ORDER BY workout_date DESC")).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows(workoutCols).
				AddRow(uuid.NewString(), userID.String(), day.Add(24*time.Hour), "legs day", now, now).
				AddRow(uuid.NewString(), userID.String(), day, nil, now, now))

		workouts, err := s.ListByUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, workouts, 2)
		assert.True(t, workouts[0].Date.After(workouts[1].Date))
		require.NotNil(t, workouts[0].Description)
		assert.Equal(t, "legs day", *workouts[0].Description)
		assert.Nil(t, workouts[1].Description)
	})

	t.Run("delete missing", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresWorkoutStore(db, quietLogger())

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM workouts")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, s.Delete(ctx, uuid.New()), store.ErrWorkoutNotFound)
	})

	t.Run("add exercise with unknown exercise id", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresWorkoutStore(db, quietLogger())

		row, err := domain.NewWorkoutExercise(uuid.New(), domain.WorkoutExerciseInput{
			ExerciseID: uuid.New(), Sets: 3, Reps: 5, Weight: 100,
		})
		require.NoError(t, err)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO workout_exercises")).
			WillReturnError(newPgError("23503", "workout_exercises_exercise_id_fkey"))

		assert.ErrorIs(t, s.AddExercise(ctx, row), store.ErrInvalidEntity)
	})

	t.Run("list exercises", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresWorkoutStore(db, quietLogger())
		workoutID, exerciseID := uuid.New(), uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta("FROM workout_exercises")).
			WithArgs(workoutID).
			WillReturnRows(sqlmock.NewRows(workoutExerciseCols).
				AddRow(uuid.NewString(), workoutID.String(), exerciseID.String(), 3, 5, 102.5, now, now))

		entries, err := s.ListExercises(ctx, workoutID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, exerciseID, entries[0].ExerciseID)
		assert.Equal(t, 102.5, entries[0].Weight)
	})

	t.Run("with tx binds statements to the transaction", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresWorkoutStore(db, quietLogger())

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM workouts")).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
			return s.WithTx(tx).Delete(ctx, uuid.New())
		})
		assert.NoError(t, err)
	})
}

func TestPostgresTaskStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("update status of missing task", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresTaskStore(db, quietLogger())

		mock.ExpectExec(regexp.QuoteMeta("UPDATE tasks")).
			WithArgs("failed", "smtp down", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.UpdateTaskStatus(ctx, uuid.New(), "failed", "smtp down")
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("pending tasks", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresTaskStore(db, quietLogger())

		mock.ExpectQuery(regexp.QuoteMeta("FROM tasks WHERE status = $1 ORDER BY created_at ASC")).
			WithArgs("pending").
			WillReturnRows(sqlmock.NewRows([]string{"id", "type", "payload", "status", "error_message", "created_at", "updated_at"}).
				AddRow(uuid.NewString(), "confirmation_email", []byte(`{"recipient":"a@b.c"}`), "pending", nil, now, now))

		records, err := s.GetPendingTasks(ctx)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "confirmation_email", records[0].Type)
		assert.JSONEq(t, `{"recipient":"a@b.c"}`, string(records[0].Payload))
		assert.Empty(t, records[0].ErrorMessage)
	})

	t.Run("processing tasks filters by age", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresTaskStore(db, quietLogger())

		mock.ExpectQuery(regexp.QuoteMeta("AND updated_at < $2")).
			WithArgs("processing", sqlmock.AnyArg()).
			WillReturnError(errors.New("connection reset"))

		_, err := s.GetProcessingTasks(ctx, 30*time.Minute)
		assert.ErrorContains(t, err, "connection reset")
	})
}
