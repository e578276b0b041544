package domain

import (
	"fmt"
	"net/mail"
	"strings"
)

// Role is the authorization role of a user.
type Role string

// Known roles.
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Password length limits for registration and password changes.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
)

// Common validation errors
var (
	ErrEmptyEmail          = fmt.Errorf("%w: email cannot be empty", ErrValidation)
	ErrInvalidEmail        = fmt.Errorf("%w: invalid email format", ErrValidation)
	ErrPasswordTooShort    = fmt.Errorf("%w: password must be at least %d characters long", ErrValidation, MinPasswordLength)
	ErrPasswordTooLong     = fmt.Errorf("%w: password must be at most %d characters long", ErrValidation, MaxPasswordLength)
	ErrEmptyHashedPassword = fmt.Errorf("%w: hashed password cannot be empty", ErrValidation)
	ErrInvalidRole         = fmt.Errorf("%w: invalid role", ErrValidation)
)

// User is a registered account.
//
// IsActive is an advisory "logged in" flag: login sets it, logout clears it.
// It does not revoke issued session tokens. IsVerified becomes true once the
// user proves control of Email through a confirmation token.
//
// PendingEmail holds an address requested through an email change that has
// not been confirmed yet; Email keeps the last confirmed address until then.
type User struct {
	Record
	Email          string `json:"email"`
	PendingEmail   string `json:"pending_email,omitempty"`
	HashedPassword string `json:"-"`
	Role           Role   `json:"role"`
	IsActive       bool   `json:"is_active"`
	IsVerified     bool   `json:"is_verified"`
}

// NewUser creates an unverified, inactive USER account. The caller is
// responsible for hashing the password beforehand.
func NewUser(email, hashedPassword string) (*User, error) {
	user := &User{
		Record:         NewRecord(),
		Email:          email,
		HashedPassword: hashedPassword,
		Role:           RoleUser,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks the invariants of a persisted user.
func (u *User) Validate() error {
	if err := ValidateEmail(u.Email); err != nil {
		return err
	}
	if u.HashedPassword == "" {
		return ErrEmptyHashedPassword
	}
	if !u.Role.Valid() {
		return ErrInvalidRole
	}
	return nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ValidateEmail checks that email is a bare RFC 5322 address.
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return ErrEmptyEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePassword enforces the plaintext password length policy.
func ValidatePassword(password string) error {
	n := len([]rune(password))
	if n < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if n > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}
