package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Action names an operation subject to role checks.
type Action string

// Catalog mutations. Reads are open to every authenticated user.
const (
	ActionExerciseCreate Action = "exercise:create"
	ActionExerciseUpdate Action = "exercise:update"
	ActionExerciseDelete Action = "exercise:delete"
)

var adminActions = map[Action]struct{}{
	ActionExerciseCreate: {},
	ActionExerciseUpdate: {},
	ActionExerciseDelete: {},
}

// Actor identifies the authenticated caller of an operation.
type Actor struct {
	UserID uuid.UUID
	Role   Role
}

// Authorize returns ErrAccessDenied unless role may perform action.
func Authorize(role Role, action Action) error {
	if !role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrAccessDenied, role)
	}
	if _, adminOnly := adminActions[action]; adminOnly && role != RoleAdmin {
		return fmt.Errorf("%w: %s requires the admin role", ErrAccessDenied, action)
	}
	return nil
}
