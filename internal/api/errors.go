package api

import (
	"errors"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/phrazzld/fitlog-api/internal/api/shared"
	"github.com/phrazzld/fitlog-api/internal/domain"
	"github.com/phrazzld/fitlog-api/internal/redact"
	"github.com/phrazzld/fitlog-api/internal/service/auth"
)

const unexpectedErrorMessage = "An unexpected error occurred"

// MapErrorToStatusCode maps service and domain errors to HTTP status codes.
// Anything unrecognized is a 500.
func MapErrorToStatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK

	// A confirmation link is a request parameter, not a session.
	case errors.Is(err, domain.ErrInvalidOrExpiredToken):
		return http.StatusBadRequest

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, domain.ErrLoginFailed),
		errors.Is(err, domain.ErrStaleSession):
		return http.StatusUnauthorized

	case errors.Is(err, domain.ErrAccessDenied):
		return http.StatusForbidden

	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict

	case errors.Is(err, domain.ErrDataIsEmpty),
		errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns the client-facing message for err. Domain
// errors carry messages written for clients; they still pass through
// redaction. Everything else gets an opaque message.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return unexpectedErrorMessage
	}

	var verr *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrInvalidOrExpiredToken):
		return "Invalid or expired confirmation token"
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken):
		return "Invalid token"
	case errors.Is(err, domain.ErrLoginFailed):
		return "Invalid email or password"
	case errors.Is(err, domain.ErrStaleSession):
		return "Session is no longer valid, please log in again"
	case errors.Is(err, domain.ErrEmailAlreadyRegistered):
		return "Email is already registered"
	case errors.Is(err, domain.ErrDataIsEmpty):
		return "No data to update"
	case errors.As(err, &verr):
		detail := detailOf(verr.Message)
		if detail == "" {
			detail = "is invalid"
		}
		if verr.Field == "" {
			return capitalize(detail)
		}
		return "Invalid " + verr.Field + ": " + detail
	case errors.Is(err, domain.ErrAccessDenied):
		return "Access denied"
	case errors.Is(err, domain.ErrNotFound):
		return detailOr(err, "Resource not found")
	case errors.Is(err, domain.ErrAlreadyExists):
		return detailOr(err, "Resource already exists")
	case errors.Is(err, domain.ErrValidation):
		return detailOr(err, "Validation error")
	default:
		return unexpectedErrorMessage
	}
}

// detailOf returns the most specific segment of a wrapped error message,
// e.g. "object not found: Exercise with id X not found" yields
// "Exercise with id X not found". Single words such as a bare entity name
// are not specific enough and yield "".
func detailOf(msg string) string {
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		msg = msg[i+2:]
	}
	msg = strings.TrimSpace(msg)
	if !strings.Contains(msg, " ") {
		return ""
	}
	return redact.String(msg)
}

func detailOr(err error, fallback string) string {
	if detail := detailOf(err.Error()); detail != "" {
		return capitalize(detail)
	}
	return fallback
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// HandleAPIError writes the mapped status and safe message for err. For
// server errors a non-empty fallback replaces the generic message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status >= http.StatusInternalServerError && fallback != "" {
		message = fallback
	}

	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}

// respondInvalidBody writes a 400 for a body that could not be decoded.
func respondInvalidBody(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
}

// respondInvalidRequest writes a 422 naming the first invalid field.
func respondInvalidRequest(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, http.StatusUnprocessableEntity, shared.DescribeValidationError(err), err)
}
