package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/fitlog-api/internal/domain"
)

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ChangeEmailRequest defines the payload for requesting an email change.
type ChangeEmailRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

// ChangePasswordRequest defines the payload for changing the password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=128"`
}

// AuthResponse is returned by login and password change.
type AuthResponse struct {
	UserID uuid.UUID `json:"user_id"`

	// Token is the session token, also set as the access_token cookie.
	Token string `json:"token"`

	// ExpiresAt is the RFC 3339 timestamp when the token expires.
	ExpiresAt string `json:"expires_at"`
}

// MessageResponse carries a human readable outcome.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserResponse is the public view of an account. The password hash is
// never exposed.
type UserResponse struct {
	ID           uuid.UUID   `json:"id"`
	Email        string      `json:"email"`
	PendingEmail string      `json:"pending_email,omitempty"`
	Role         domain.Role `json:"role"`
	IsActive     bool        `json:"is_active"`
	IsVerified   bool        `json:"is_verified"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func userToResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		PendingEmail: u.PendingEmail,
		Role:         u.Role,
		IsActive:     u.IsActive,
		IsVerified:   u.IsVerified,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// CreateExerciseRequest defines the payload for adding a catalog exercise.
type CreateExerciseRequest struct {
	Name        string          `json:"name"        validate:"required,max=100"`
	Description *string         `json:"description" validate:"omitempty,max=500"`
	Category    domain.Category `json:"category"    validate:"required,oneof=chest back legs shoulders arms abs cardio stretching"`
}

// UpdateExerciseRequest is used by both PUT and PATCH. Presence and explicit
// null of every field are tracked so PATCH can tell them apart.
type UpdateExerciseRequest struct {
	Name        domain.Field[string]          `json:"name"`
	Description domain.Field[string]          `json:"description"`
	Category    domain.Field[domain.Category] `json:"category"`
}

func (req UpdateExerciseRequest) toPatch() domain.ExercisePatch {
	return domain.ExercisePatch{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
	}
}

// ExerciseResponse is the public view of a catalog exercise.
type ExerciseResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Category    domain.Category `json:"category"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func exerciseToResponse(e *domain.Exercise) ExerciseResponse {
	return ExerciseResponse{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Category:    e.Category,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// WorkoutExerciseRequest prescribes one exercise inside a workout.
type WorkoutExerciseRequest struct {
	ID     uuid.UUID `json:"id"     validate:"required"`
	Sets   int       `json:"sets"   validate:"gt=0"`
	Reps   int       `json:"reps"   validate:"gt=0"`
	Weight float64   `json:"weight" validate:"gt=0"`
}

func (req WorkoutExerciseRequest) toInput() domain.WorkoutExerciseInput {
	return domain.WorkoutExerciseInput{
		ExerciseID: req.ID,
		Sets:       req.Sets,
		Reps:       req.Reps,
		Weight:     req.Weight,
	}
}

func toInputs(reqs []WorkoutExerciseRequest) []domain.WorkoutExerciseInput {
	inputs := make([]domain.WorkoutExerciseInput, 0, len(reqs))
	for _, req := range reqs {
		inputs = append(inputs, req.toInput())
	}
	return inputs
}

// CreateWorkoutRequest defines the payload for adding a workout.
type CreateWorkoutRequest struct {
	Date        string                   `json:"date"        validate:"required,datetime=2006-01-02"`
	Description *string                  `json:"description" validate:"omitempty,max=500"`
	Exercises   []WorkoutExerciseRequest `json:"exercises"   validate:"dive"`
}

// AddWorkoutExercisesRequest defines the payload for appending exercises.
type AddWorkoutExercisesRequest struct {
	Exercises []WorkoutExerciseRequest `json:"exercises" validate:"dive"`
}

// PatchWorkoutRequest defines the payload for a partial workout update.
type PatchWorkoutRequest struct {
	Date        domain.Field[string]                   `json:"date"`
	Description domain.Field[string]                   `json:"description"`
	Exercises   domain.Field[[]WorkoutExerciseRequest] `json:"exercises"`
}

// entries returns the exercise list in a form the struct validator can
// dive into.
func (req PatchWorkoutRequest) entries() AddWorkoutExercisesRequest {
	return AddWorkoutExercisesRequest{Exercises: req.Exercises.Value}
}

func (req PatchWorkoutRequest) toPatch() (domain.WorkoutPatch, error) {
	var patch domain.WorkoutPatch

	switch {
	case req.Date.Null:
		patch.Date = domain.Null[time.Time]()
	case req.Date.Set:
		date, err := domain.ParseDate(req.Date.Value)
		if err != nil {
			return patch, err
		}
		patch.Date = domain.Some(date)
	}

	patch.Description = req.Description

	if req.Exercises.Set {
		patch.Exercises = domain.Field[[]domain.WorkoutExerciseInput]{
			Set:   true,
			Null:  req.Exercises.Null,
			Value: toInputs(req.Exercises.Value),
		}
	}
	return patch, nil
}

// WorkoutResponse is the public view of a workout without its exercises.
type WorkoutResponse struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Date        string    `json:"date"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// WorkoutExerciseResponse is one exercise row of a workout.
type WorkoutExerciseResponse struct {
	ID         uuid.UUID `json:"id"`
	ExerciseID uuid.UUID `json:"exercise_id"`
	Sets       int       `json:"sets"`
	Reps       int       `json:"reps"`
	Weight     float64   `json:"weight"`
}

// WorkoutDetailsResponse is a workout with all of its exercise rows.
type WorkoutDetailsResponse struct {
	WorkoutResponse
	Exercises []WorkoutExerciseResponse `json:"exercises"`
}

func workoutToResponse(w *domain.Workout) WorkoutResponse {
	return WorkoutResponse{
		ID:          w.ID,
		UserID:      w.UserID,
		Date:        w.Date.Format(domain.DateLayout),
		Description: w.Description,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

func workoutDetailsToResponse(d *domain.WorkoutDetails) WorkoutDetailsResponse {
	rows := make([]WorkoutExerciseResponse, 0, len(d.Exercises))
	for _, row := range d.Exercises {
		rows = append(rows, WorkoutExerciseResponse{
			ID:         row.ID,
			ExerciseID: row.ExerciseID,
			Sets:       row.Sets,
			Reps:       row.Reps,
			Weight:     row.Weight,
		})
	}
	return WorkoutDetailsResponse{
		WorkoutResponse: workoutToResponse(&d.Workout),
		Exercises:       rows,
	}
}
