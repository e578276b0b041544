package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/fitlog-api/internal/domain"
	"github.com/phrazzld/fitlog-api/internal/service"
	"github.com/phrazzld/fitlog-api/internal/service/auth"
	"github.com/stretchr/testify/mock"
)

// MockAuthService is a testify mock of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

var _ service.AuthService = (*MockAuthService)(nil)

func (m *MockAuthService) Register(ctx context.Context, email, password string) (*service.Registration, error) {
	args := m.Called(ctx, email, password)
	reg, _ := args.Get(0).(*service.Registration)
	return reg, args.Error(1)
}

func (m *MockAuthService) Confirm(ctx context.Context, token string) (*domain.User, error) {
	args := m.Called(ctx, token)
	return userArg(args, 0), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*service.Session, error) {
	args := m.Called(ctx, email, password)
	session, _ := args.Get(0).(*service.Session)
	return session, args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, rawToken string) error {
	return m.Called(ctx, rawToken).Error(0)
}

func (m *MockAuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, userID)
	return userArg(args, 0), args.Error(1)
}

func (m *MockAuthService) ChangeEmail(ctx context.Context, session *auth.Claims, newEmail string) error {
	return m.Called(ctx, session, newEmail).Error(0)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, session *auth.Claims, oldPassword, newPassword string) (*service.Session, error) {
	args := m.Called(ctx, session, oldPassword, newPassword)
	s, _ := args.Get(0).(*service.Session)
	return s, args.Error(1)
}

// MockExerciseService is a testify mock of service.ExerciseService.
type MockExerciseService struct {
	mock.Mock
}

var _ service.ExerciseService = (*MockExerciseService)(nil)

func (m *MockExerciseService) List(ctx context.Context) ([]*domain.Exercise, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]*domain.Exercise)
	return list, args.Error(1)
}

func (m *MockExerciseService) Get(ctx context.Context, id uuid.UUID) (*domain.Exercise, error) {
	args := m.Called(ctx, id)
	return exerciseArg(args, 0), args.Error(1)
}

func (m *MockExerciseService) Add(
	ctx context.Context,
	actor domain.Actor,
	name string,
	description *string,
	category domain.Category,
) (*domain.Exercise, error) {
	args := m.Called(ctx, actor, name, description, category)
	return exerciseArg(args, 0), args.Error(1)
}

func (m *MockExerciseService) Replace(ctx context.Context, actor domain.Actor, id uuid.UUID, patch domain.ExercisePatch) (*domain.Exercise, error) {
	args := m.Called(ctx, actor, id, patch)
	return exerciseArg(args, 0), args.Error(1)
}

func (m *MockExerciseService) Patch(ctx context.Context, actor domain.Actor, id uuid.UUID, patch domain.ExercisePatch) (*domain.Exercise, error) {
	args := m.Called(ctx, actor, id, patch)
	return exerciseArg(args, 0), args.Error(1)
}

func (m *MockExerciseService) Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	return m.Called(ctx, actor, id).Error(0)
}

// MockWorkoutService is a testify mock of service.WorkoutService.
type MockWorkoutService struct {
	mock.Mock
}

var _ service.WorkoutService = (*MockWorkoutService)(nil)

func (m *MockWorkoutService) List(ctx context.Context, userID uuid.UUID) ([]*domain.Workout, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]*domain.Workout)
	return list, args.Error(1)
}

func (m *MockWorkoutService) Get(ctx context.Context, userID, workoutID uuid.UUID) (*domain.WorkoutDetails, error) {
	args := m.Called(ctx, userID, workoutID)
	return detailsArg(args, 0), args.Error(1)
}

func (m *MockWorkoutService) Add(
	ctx context.Context,
	userID uuid.UUID,
	date time.Time,
	description *string,
	exercises []domain.WorkoutExerciseInput,
) (*domain.WorkoutDetails, error) {
	args := m.Called(ctx, userID, date, description, exercises)
	return detailsArg(args, 0), args.Error(1)
}

func (m *MockWorkoutService) AddExercises(ctx context.Context, userID, workoutID uuid.UUID, entries []domain.WorkoutExerciseInput) (*domain.WorkoutDetails, error) {
	args := m.Called(ctx, userID, workoutID, entries)
	return detailsArg(args, 0), args.Error(1)
}

func (m *MockWorkoutService) Delete(ctx context.Context, userID, workoutID uuid.UUID) error {
	return m.Called(ctx, userID, workoutID).Error(0)
}

func (m *MockWorkoutService) PartiallyUpdate(ctx context.Context, userID, workoutID uuid.UUID, patch domain.WorkoutPatch) (*domain.WorkoutDetails, error) {
	args := m.Called(ctx, userID, workoutID, patch)
	return detailsArg(args, 0), args.Error(1)
}

func detailsArg(args mock.Arguments, i int) *domain.WorkoutDetails {
	if d, ok := args.Get(i).(*domain.WorkoutDetails); ok {
		return d
	}
	return nil
}

func exerciseArg(args mock.Arguments, i int) *domain.Exercise {
	if e, ok := args.Get(i).(*domain.Exercise); ok {
		return e
	}
	return nil
}
