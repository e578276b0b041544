package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/fitlog-api/internal/api/shared"
	"github.com/phrazzld/fitlog-api/internal/domain"
	"github.com/phrazzld/fitlog-api/internal/platform/logger"
	"github.com/phrazzld/fitlog-api/internal/service"
)

// WorkoutHandler serves the workouts of the authenticated user.
type WorkoutHandler struct {
	workoutService service.WorkoutService
	logger         *slog.Logger
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService, logger *slog.Logger) *WorkoutHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for WorkoutHandler")
	}
	return &WorkoutHandler{
		workoutService: workoutService,
		logger:         logger.With(slog.String("component", "workout_handler")),
	}
}

// List handles GET /workouts.
func (h *WorkoutHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	claims, ok := requireClaims(w, r, log)
	if !ok {
		return
	}

	workouts, err := h.workoutService.List(r.Context(), claims.UserID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list workouts")
		return
	}

	resp := make([]WorkoutResponse, 0, len(workouts))
	for _, wo := range workouts {
		resp = append(resp, workoutToResponse(wo))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// Get handles GET /workouts/{id}.
func (h *WorkoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	claims, id, ok := requireClaimsAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	details, err := h.workoutService.Get(r.Context(), claims.UserID, id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load workout")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, workoutDetailsToResponse(details))
}

// Create handles POST /workouts.
func (h *WorkoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	claims, ok := requireClaims(w, r, log)
	if !ok {
		return
	}

	var req CreateWorkoutRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	date, err := domain.ParseDate(req.Date)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	details, err := h.workoutService.Add(r.Context(), claims.UserID, date, req.Description, toInputs(req.Exercises))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add workout")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, workoutDetailsToResponse(details))
}

// AddExercises handles POST /workouts/{id}/exercises. Rows are appended.
func (h *WorkoutHandler) AddExercises(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	claims, id, ok := requireClaimsAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req AddWorkoutExercisesRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	details, err := h.workoutService.AddExercises(r.Context(), claims.UserID, id, toInputs(req.Exercises))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add exercises to workout")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, workoutDetailsToResponse(details))
}

// Patch handles PATCH /workouts/{id}.
func (h *WorkoutHandler) Patch(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	claims, id, ok := requireClaimsAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req PatchWorkoutRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		respondInvalidBody(w, r, err)
		return
	}
	if err := shared.ValidateRequest(req.entries()); err != nil {
		respondInvalidRequest(w, r, err)
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	details, err := h.workoutService.PartiallyUpdate(r.Context(), claims.UserID, id, patch)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update workout")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, workoutDetailsToResponse(details))
}

// Delete handles DELETE /workouts/{id}. Another user's workout is reported
// as not found.
func (h *WorkoutHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	claims, id, ok := requireClaimsAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.workoutService.Delete(r.Context(), claims.UserID, id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete workout")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
