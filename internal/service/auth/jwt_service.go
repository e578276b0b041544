package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/fitlog-api/internal/domain"
)

// JWTService mints and verifies the two token kinds: session tokens issued
// at login and confirmation tokens mailed to prove control of an address.
type JWTService interface {
	// GenerateToken creates a signed session token for user.
	GenerateToken(ctx context.Context, user *domain.User) (string, error)

	// ValidateToken verifies a session token and extracts its claims.
	// Returns ErrExpiredToken past expiry and ErrInvalidToken for any other
	// failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// GenerateConfirmationToken creates a signed token carrying only email.
	GenerateConfirmationToken(ctx context.Context, email string) (string, error)

	// ValidateConfirmationToken returns the email carried by the token.
	// Every failure, expiry included, is ErrInvalidConfirmationToken.
	ValidateConfirmationToken(ctx context.Context, tokenString string) (string, error)

	// ConfirmationLifetime is the validity window of confirmation tokens.
	ConfirmationLifetime() time.Duration
}

// Claims is the verified content of a session token.
type Claims struct {
	UserID uuid.UUID
	Email  string
	Role   domain.Role

	// PasswordFingerprint identifies the password hash the session was
	// issued against. See PasswordFingerprint.
	PasswordFingerprint string

	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}

// MatchesPassword reports whether the session was issued against hash.
func (c *Claims) MatchesPassword(hash string) bool {
	return subtle.ConstantTimeCompare([]byte(c.PasswordFingerprint), []byte(PasswordFingerprint(hash))) == 1
}

// PasswordFingerprint is the hex SHA-256 of a stored password hash. Session
// tokens carry the fingerprint instead of the hash itself.
func PasswordFingerprint(hash string) string {
	sum := sha256.Sum256([]byte(hash))
	return hex.EncodeToString(sum[:])
}
