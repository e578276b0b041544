package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/fitlog-api/internal/domain"
	"github.com/phrazzld/fitlog-api/internal/mocks"
	"github.com/phrazzld/fitlog-api/internal/service"
	"github.com/phrazzld/fitlog-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	admin  = domain.Actor{UserID: uuid.New(), Role: domain.RoleAdmin}
	member = domain.Actor{UserID: uuid.New(), Role: domain.RoleUser}
)

func newExerciseService(t *testing.T) (service.ExerciseService, *mocks.MockExerciseStore, func(commit bool)) {
	t.Helper()
	db, sqlMock := newTxDB(t)
	exercises := new(mocks.MockExerciseStore)
	t.Cleanup(func() { exercises.AssertExpectations(t) })

	svc, err := service.NewExerciseService(db, exercises, quietLogger())
	require.NoError(t, err)

	expectTx := func(commit bool) {
		if commit {
			expectCommit(sqlMock)
		} else {
			expectRollback(sqlMock)
		}
	}
	return svc, exercises, expectTx
}

func benchPress(t *testing.T) *domain.Exercise {
	t.Helper()
	desc := "Barbell press on a flat bench"
	e, err := domain.NewExercise("Жим лежа", &desc, domain.CategoryChest)
	require.NoError(t, err)
	return e
}

func TestExerciseService_MutationsRequireAdmin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, exercises, _ := newExerciseService(t)
	id := uuid.New()

	_, err := svc.Add(ctx, member, "Squat", nil, domain.CategoryLegs)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	_, err = svc.Replace(ctx, member, id, domain.ExercisePatch{Name: domain.Some("Squat")})
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	_, err = svc.Patch(ctx, member, id, domain.ExercisePatch{})
	assert.ErrorIs(t, err, domain.ErrAccessDenied, "role check runs before the empty patch check")

	assert.ErrorIs(t, svc.Delete(ctx, member, id), domain.ErrAccessDenied)

	exercises.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	exercises.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestExerciseService_Add(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("canonicalizes the name", func(t *testing.T) {
		t.Parallel()
		svc, exercises, expectTx := newExerciseService(t)

		expectTx(true)
		exercises.On("GetByName", mock.Anything, "Жим лежа").Return(nil, store.ErrExerciseNotFound).Once()
		exercises.On("Create", mock.Anything, mock.AnythingOfType("*domain.Exercise")).Return(nil).Once()

		created, err := svc.Add(ctx, admin, "  жим лежа ", nil, domain.CategoryChest)
		require.NoError(t, err)
		assert.Equal(t, "Жим лежа", created.Name)
		assert.Nil(t, created.Description)
	})

	t.Run("names differing only in first letter case collide", func(t *testing.T) {
		t.Parallel()
		svc, exercises, expectTx := newExerciseService(t)

		expectTx(false)
		exercises.On("GetByName", mock.Anything, "Жим лежа").Return(benchPress(t), nil).Once()

		_, err := svc.Add(ctx, admin, "жим лежа", nil, domain.CategoryChest)
		assert.ErrorIs(t, err, domain.ErrAlreadyExists)
		exercises.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unique index race", func(t *testing.T) {
		t.Parallel()
		svc, exercises, expectTx := newExerciseService(t)

		expectTx(false)
		exercises.On("GetByName", mock.Anything, "Squat").Return(nil, store.ErrExerciseNotFound).Once()
		exercises.On("Create", mock.Anything, mock.Anything).Return(store.ErrExerciseNameExists).Once()

		_, err := svc.Add(ctx, admin, "Squat", nil, domain.CategoryLegs)
		assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	})

	t.Run("unknown category", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newExerciseService(t)

		_, err := svc.Add(ctx, admin, "Squat", nil, domain.Category("neck"))
		assert.ErrorIs(t, err, domain.ErrInvalidCategory)
	})
}

func TestExerciseService_Update(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("empty patch", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newExerciseService(t)

		_, err := svc.Patch(ctx, admin, uuid.New(), domain.ExercisePatch{})
		assert.ErrorIs(t, err, domain.ErrDataIsEmpty)
	})

	t.Run("replace requires a description", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newExerciseService(t)

		_, err := svc.Replace(ctx, admin, uuid.New(), domain.ExercisePatch{Name: domain.Some("Squat")})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "description", verr.Field)
	})

	t.Run("patch rejects a blank name", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newExerciseService(t)

		_, err := svc.Patch(ctx, admin, uuid.New(), domain.ExercisePatch{Name: domain.Some("   ")})
		assert.ErrorIs(t, err, domain.ErrEmptyExerciseName)
	})

	t.Run("missing exercise", func(t *testing.T) {
		t.Parallel()
		svc, exercises, expectTx := newExerciseService(t)
		id := uuid.New()

		expectTx(false)
		exercises.On("GetByID", mock.Anything, id).Return(nil, store.ErrExerciseNotFound).Once()

		_, err := svc.Patch(ctx, admin, id, domain.ExercisePatch{Category: domain.Some(domain.CategoryArms)})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("patch keeps omitted fields and clears null ones", func(t *testing.T) {
		t.Parallel()
		svc, exercises, expectTx := newExerciseService(t)
		existing := benchPress(t)

		expectTx(true)
		exercises.On("GetByID", mock.Anything, existing.ID).Return(existing, nil).Once()
		exercises.On("Update", mock.Anything, existing).Return(nil).Once()

		updated, err := svc.Patch(ctx, admin, existing.ID, domain.ExercisePatch{
			Description: domain.Null[string](),
			Category:    domain.Some(domain.CategoryArms),
		})
		require.NoError(t, err)
		assert.Equal(t, "Жим лежа", updated.Name)
		assert.Nil(t, updated.Description)
		assert.Equal(t, domain.CategoryArms, updated.Category)
		exercises.AssertNotCalled(t, "GetByName", mock.Anything, mock.Anything)
	})

	t.Run("rename onto another exercise", func(t *testing.T) {
		t.Parallel()
		svc, exercises, expectTx := newExerciseService(t)
		existing := benchPress(t)
		other, err := domain.NewExercise("Squat", nil, domain.CategoryLegs)
		require.NoError(t, err)

		expectTx(false)
		exercises.On("GetByID", mock.Anything, existing.ID).Return(existing, nil).Once()
		exercises.On("GetByName", mock.Anything, "Squat").Return(other, nil).Once()

		_, err = svc.Replace(ctx, admin, existing.ID, domain.ExercisePatch{
			Name:        domain.Some("squat"),
			Description: domain.Some("renamed"),
		})
		assert.ErrorIs(t, err, domain.ErrAlreadyExists)
		exercises.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestExerciseService_Delete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("referenced by workouts", func(t *testing.T) {
		t.Parallel()
		svc, exercises, expectTx := newExerciseService(t)
		id := uuid.New()

		expectTx(false)
		exercises.On("Delete", mock.Anything, id).Return(store.ErrInvalidEntity).Once()

		err := svc.Delete(ctx, admin, id)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Message, "used by existing workouts")
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		svc, exercises, expectTx := newExerciseService(t)
		id := uuid.New()

		expectTx(false)
		exercises.On("Delete", mock.Anything, id).Return(store.ErrExerciseNotFound).Once()

		assert.ErrorIs(t, svc.Delete(ctx, admin, id), domain.ErrNotFound)
	})
}
