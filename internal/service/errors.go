package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/fitlog-api/internal/domain"
	"github.com/phrazzld/fitlog-api/internal/store"
)

// ServiceError wraps an unexpected failure with the operation it happened in.
// Expected conditions are returned as domain sentinels instead, so callers
// check them with errors.Is and use errors.As only to get the operation.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "register", "add_workout")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// translate converts store sentinels into the domain taxonomy. Errors that
// already belong to the domain pass through untouched; anything else is
// wrapped in a ServiceError for operation.
func translate(operation, message string, err error) error {
	switch {
	case err == nil:
		return nil
	case isDomainError(err):
		return err
	case errors.Is(err, store.ErrEmailExists):
		return domain.ErrEmailAlreadyRegistered
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("%w: %v", domain.ErrNotFound, err)
	case errors.Is(err, store.ErrDuplicate):
		return fmt.Errorf("%w: %v", domain.ErrAlreadyExists, err)
	case errors.Is(err, store.ErrInvalidEntity):
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return NewServiceError(operation, message, err)
}

var domainErrors = []error{
	domain.ErrNotFound,
	domain.ErrAlreadyExists,
	domain.ErrAccessDenied,
	domain.ErrDataIsEmpty,
	domain.ErrValidation,
	domain.ErrLoginFailed,
	domain.ErrInvalidOrExpiredToken,
	domain.ErrStaleSession,
}

func isDomainError(err error) bool {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
