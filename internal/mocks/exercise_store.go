package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/fitlog-api/internal/domain"
	"github.com/phrazzld/fitlog-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockExerciseStore is a testify mock of store.ExerciseStore.
type MockExerciseStore struct {
	mock.Mock
}

var _ store.ExerciseStore = (*MockExerciseStore)(nil)

func (m *MockExerciseStore) List(ctx context.Context) ([]*domain.Exercise, error) {
	args := m.Called(ctx)
	exercises, _ := args.Get(0).([]*domain.Exercise)
	return exercises, args.Error(1)
}

func (m *MockExerciseStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error) {
	args := m.Called(ctx, id)
	exercise, _ := args.Get(0).(*domain.Exercise)
	return exercise, args.Error(1)
}

func (m *MockExerciseStore) GetByName(ctx context.Context, name string) (*domain.Exercise, error) {
	args := m.Called(ctx, name)
	exercise, _ := args.Get(0).(*domain.Exercise)
	return exercise, args.Error(1)
}

func (m *MockExerciseStore) Create(ctx context.Context, exercise *domain.Exercise) error {
	return m.Called(ctx, exercise).Error(0)
}

func (m *MockExerciseStore) Update(ctx context.Context, exercise *domain.Exercise) error {
	return m.Called(ctx, exercise).Error(0)
}

func (m *MockExerciseStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// WithTx returns the mock itself.
func (m *MockExerciseStore) WithTx(*sql.Tx) store.ExerciseStore {
	return m
}
