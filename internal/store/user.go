package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/fitlog-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by confirmed email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByEmailOrPending retrieves the user whose email or pending email
	// equals email, preferring a confirmed match.
	// Returns ErrUserNotFound if no user matches.
	GetByEmailOrPending(ctx context.Context, email string) (*domain.User, error)

	// Update persists every mutable column of user (email, pending email,
	// password hash, role and both flags).
	// Returns ErrUserNotFound if the user does not exist and ErrEmailExists
	// if the email would collide with another account.
	Update(ctx context.Context, user *domain.User) error

	// SetActive flips the advisory logged-in flag.
	// Returns ErrUserNotFound if the user does not exist.
	SetActive(ctx context.Context, id uuid.UUID, active bool) error

	// WithTx returns a UserStore bound to tx.
	WithTx(tx *sql.Tx) UserStore
}
