package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/fitlog-api/internal/domain"
	"github.com/phrazzld/fitlog-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockWorkoutStore is a testify mock of store.WorkoutStore.
type MockWorkoutStore struct {
	mock.Mock
}

var _ store.WorkoutStore = (*MockWorkoutStore)(nil)

func (m *MockWorkoutStore) Create(ctx context.Context, workout *domain.Workout) error {
	return m.Called(ctx, workout).Error(0)
}

func (m *MockWorkoutStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workout, error) {
	args := m.Called(ctx, id)
	workout, _ := args.Get(0).(*domain.Workout)
	return workout, args.Error(1)
}

func (m *MockWorkoutStore) GetByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*domain.Workout, error) {
	args := m.Called(ctx, id, userID)
	workout, _ := args.Get(0).(*domain.Workout)
	return workout, args.Error(1)
}

func (m *MockWorkoutStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Workout, error) {
	args := m.Called(ctx, userID)
	workouts, _ := args.Get(0).([]*domain.Workout)
	return workouts, args.Error(1)
}

func (m *MockWorkoutStore) Update(ctx context.Context, workout *domain.Workout) error {
	return m.Called(ctx, workout).Error(0)
}

func (m *MockWorkoutStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockWorkoutStore) AddExercise(ctx context.Context, row *domain.WorkoutExercise) error {
	return m.Called(ctx, row).Error(0)
}

func (m *MockWorkoutStore) ListExercises(ctx context.Context, workoutID uuid.UUID) ([]domain.WorkoutExercise, error) {
	args := m.Called(ctx, workoutID)
	rows, _ := args.Get(0).([]domain.WorkoutExercise)
	return rows, args.Error(1)
}

// WithTx returns the mock itself.
func (m *MockWorkoutStore) WithTx(*sql.Tx) store.WorkoutStore {
	return m
}
