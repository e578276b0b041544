package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/fitlog-api/internal/api/shared"
	"github.com/phrazzld/fitlog-api/internal/domain"
	"github.com/phrazzld/fitlog-api/internal/platform/logger"
	"github.com/phrazzld/fitlog-api/internal/service"
)

// ExerciseHandler serves the exercise catalog.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
	logger          *slog.Logger
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService, logger *slog.Logger) *ExerciseHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ExerciseHandler")
	}
	return &ExerciseHandler{
		exerciseService: exerciseService,
		logger:          logger.With(slog.String("component", "exercise_handler")),
	}
}

// List handles GET /exercises.
func (h *ExerciseHandler) List(w http.ResponseWriter, r *http.Request) {
	exercises, err := h.exerciseService.List(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list exercises")
		return
	}

	resp := make([]ExerciseResponse, 0, len(exercises))
	for _, e := range exercises {
		resp = append(resp, exerciseToResponse(e))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// Get handles GET /exercises/{id}.
func (h *ExerciseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	exercise, err := h.exerciseService.Get(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load exercise")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, exerciseToResponse(exercise))
}

// Create handles POST /exercises.
func (h *ExerciseHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	claims, ok := requireClaims(w, r, log)
	if !ok {
		return
	}

	var req CreateExerciseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	exercise, err := h.exerciseService.Add(r.Context(), actorOf(claims), req.Name, req.Description, req.Category)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add exercise")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, exerciseToResponse(exercise))
}

// Replace handles PUT /exercises/{id}: name and description are required.
func (h *ExerciseHandler) Replace(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, h.exerciseService.Replace)
}

// Patch handles PATCH /exercises/{id}.
func (h *ExerciseHandler) Patch(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, h.exerciseService.Patch)
}

type exerciseUpdateFunc func(
	ctx context.Context,
	actor domain.Actor,
	id uuid.UUID,
	patch domain.ExercisePatch,
) (*domain.Exercise, error)

func (h *ExerciseHandler) update(w http.ResponseWriter, r *http.Request, apply exerciseUpdateFunc) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	claims, id, ok := requireClaimsAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateExerciseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	exercise, err := apply(r.Context(), actorOf(claims), id, req.toPatch())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update exercise")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, exerciseToResponse(exercise))
}

// Delete handles DELETE /exercises/{id}.
func (h *ExerciseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	claims, id, ok := requireClaimsAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.exerciseService.Delete(r.Context(), actorOf(claims), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete exercise")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
