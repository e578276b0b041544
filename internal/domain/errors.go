package domain

import (
	"errors"
	"fmt"
)

// Domain error taxonomy. Services return these (possibly wrapped) and the API
// layer maps them to status codes with errors.Is.
var (
	// ErrNotFound is returned when a requested entity does not exist, or when
	// an owner-scoped lookup matches no row.
	ErrNotFound = errors.New("object not found")

	// ErrAlreadyExists is returned when an entity would violate a uniqueness rule.
	ErrAlreadyExists = errors.New("object already exists")

	// ErrAccessDenied is returned when the caller does not own the resource or
	// lacks the role required for the action.
	ErrAccessDenied = errors.New("access denied")

	// ErrDataIsEmpty is returned when an update carries no fields.
	ErrDataIsEmpty = errors.New("no data to update")

	// ErrValidation is returned when a domain rule is violated.
	// This is usually wrapped in a *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrLoginFailed is returned for any credential mismatch. It deliberately
	// does not say whether the email or the password was wrong.
	ErrLoginFailed = errors.New("invalid email or password")

	// ErrEmailAlreadyRegistered is returned when registering an email that is taken.
	ErrEmailAlreadyRegistered = fmt.Errorf("%w: email is already registered", ErrAlreadyExists)

	// ErrInvalidOrExpiredToken is returned when a confirmation token cannot be used.
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")

	// ErrStaleSession is returned when a session was issued before the most
	// recent password change.
	ErrStaleSession = errors.New("session credentials have been rotated")
)

// ValidationError describes a rule violation on a single field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Message)
	}
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error so errors.Is(err, ErrValidation) holds.
func (e *ValidationError) Unwrap() error {
	if e.Err == nil {
		return ErrValidation
	}
	return e.Err
}

// NewValidationError creates a ValidationError for field. If err is nil the
// error wraps ErrValidation.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{Field: field, Message: message, Err: err}
}
