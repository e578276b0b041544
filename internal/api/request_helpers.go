package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/fitlog-api/internal/api/shared"
	"github.com/phrazzld/fitlog-api/internal/domain"
	"github.com/phrazzld/fitlog-api/internal/service/auth"
)

// requireClaims returns the session claims placed in the context by the
// auth middleware, or writes a 401 and returns false.
func requireClaims(w http.ResponseWriter, r *http.Request, log *slog.Logger) (*auth.Claims, bool) {
	claims, ok := shared.ClaimsFromContext(r.Context())
	if !ok {
		log.Warn("session claims missing from request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return nil, false
	}
	return claims, true
}

// getPathUUID parses the UUID path parameter paramName.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", nil)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", nil)
	}
	return id, nil
}

// requireClaimsAndPathUUID combines requireClaims and getPathUUID and writes
// the error response if either fails.
func requireClaimsAndPathUUID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
	log *slog.Logger,
) (*auth.Claims, uuid.UUID, bool) {
	claims, ok := requireClaims(w, r, log)
	if !ok {
		return nil, uuid.Nil, false
	}

	id, err := getPathUUID(r, paramName)
	if err != nil {
		log.Debug("invalid path parameter",
			slog.String("param_name", paramName),
			slog.String("value", chi.URLParam(r, paramName)))
		HandleAPIError(w, r, err, "")
		return nil, uuid.Nil, false
	}
	return claims, id, true
}

// decodeAndValidate decodes the body into req and validates it, writing a
// 400 or 422 on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := shared.DecodeJSON(w, r, req); err != nil {
		respondInvalidBody(w, r, err)
		return false
	}
	if err := shared.ValidateRequest(req); err != nil {
		respondInvalidRequest(w, r, err)
		return false
	}
	return true
}

func actorOf(claims *auth.Claims) domain.Actor {
	return domain.Actor{UserID: claims.UserID, Role: claims.Role}
}
