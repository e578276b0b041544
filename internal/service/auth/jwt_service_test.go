package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/fitlog-api/internal/config"
	"github.com/phrazzld/fitlog-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSessionSecret      = "test-session-secret-that-is-long-enough"
	testConfirmationSecret = "test-confirmation-secret-that-is-long-enough"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:                   testSessionSecret,
		ConfirmationSecret:          testConfirmationSecret,
		TokenLifetimeMinutes:        60,
		ConfirmationLifetimeMinutes: 60,
	}
}

func newTestJWTService(t *testing.T, now func() time.Time) *hmacJWTService {
	t.Helper()
	svc, err := newHMACJWTService(testAuthConfig(), now)
	require.NoError(t, err)
	return svc
}

func at(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func testUser() *domain.User {
	return &domain.User{
		Record:         domain.NewRecord(),
		Email:          "lifter@example.com",
		HashedPassword: "$argon2id$v=19$m=8,t=1,p=1$c2FsdA$a2V5",
		Role:           domain.RoleAdmin,
	}
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)

	short := testAuthConfig()
	short.JWTSecret = "short"
	_, err = NewJWTService(short)
	assert.Error(t, err)

	same := testAuthConfig()
	same.ConfirmationSecret = same.JWTSecret
	_, err = NewJWTService(same)
	assert.Error(t, err)
}

func TestSessionToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()
	user := testUser()

	t.Run("round trip carries identity and password fingerprint", func(t *testing.T) {
		t.Parallel()
		svc := newTestJWTService(t, at(fixedTime))

		token, err := svc.GenerateToken(ctx, user)
		require.NoError(t, err)

		claims, err := svc.ValidateToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, user.Email, claims.Email)
		assert.Equal(t, domain.RoleAdmin, claims.Role)
		assert.Equal(t, fixedTime.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
		assert.True(t, claims.MatchesPassword(user.HashedPassword))
		assert.False(t, claims.MatchesPassword("$argon2id$rotated"))
		assert.NotContains(t, token, user.HashedPassword)
	})

	t.Run("expired", func(t *testing.T) {
		t.Parallel()
		token, err := newTestJWTService(t, at(fixedTime)).GenerateToken(ctx, user)
		require.NoError(t, err)

		later := newTestJWTService(t, at(fixedTime.Add(2*time.Hour)))
		_, err = later.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong signature", func(t *testing.T) {
		t.Parallel()
		token, err := newTestJWTService(t, at(fixedTime)).GenerateToken(ctx, user)
		require.NoError(t, err)

		cfg := testAuthConfig()
		cfg.JWTSecret = "another-session-secret-that-is-long-enough"
		other, err := newHMACJWTService(cfg, at(fixedTime))
		require.NoError(t, err)

		_, err = other.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()
		_, err := newTestJWTService(t, at(fixedTime)).ValidateToken(ctx, "this.is.not.a.valid.jwt.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("confirmation token is not a session token", func(t *testing.T) {
		t.Parallel()
		svc := newTestJWTService(t, at(fixedTime))
		token, err := svc.GenerateConfirmationToken(ctx, user.Email)
		require.NoError(t, err)

		_, err = svc.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects none algorithm", func(t *testing.T) {
		t.Parallel()
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"user_id": uuid.NewString(),
			"email":   "x@example.com",
			"role":    "admin",
			"exp":     fixedTime.Add(time.Hour).Unix(),
		})
		token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = newTestJWTService(t, at(fixedTime)).ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestConfirmationToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		svc := newTestJWTService(t, at(fixedTime))

		token, err := svc.GenerateConfirmationToken(ctx, "new@example.com")
		require.NoError(t, err)

		email, err := svc.ValidateConfirmationToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "new@example.com", email)
	})

	t.Run("carries only the email and expiry", func(t *testing.T) {
		t.Parallel()
		token, err := newTestJWTService(t, at(fixedTime)).GenerateConfirmationToken(ctx, "new@example.com")
		require.NoError(t, err)

		claims := jwt.MapClaims{}
		_, _, err = jwt.NewParser().ParseUnverified(token, claims)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"email", "exp"}, mapKeys(claims))
	})

	t.Run("expired by one second always fails", func(t *testing.T) {
		t.Parallel()
		token, err := newTestJWTService(t, at(fixedTime)).GenerateConfirmationToken(ctx, "new@example.com")
		require.NoError(t, err)

		later := newTestJWTService(t, at(fixedTime.Add(time.Hour+time.Second)))
		_, err = later.ValidateConfirmationToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidConfirmationToken)
	})

	t.Run("tampered", func(t *testing.T) {
		t.Parallel()
		svc := newTestJWTService(t, at(fixedTime))
		token, err := svc.GenerateConfirmationToken(ctx, "new@example.com")
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		parts[2] = strings.Repeat("A", len(parts[2]))
		_, err = svc.ValidateConfirmationToken(ctx, strings.Join(parts, "."))
		assert.ErrorIs(t, err, ErrInvalidConfirmationToken)
	})

	t.Run("session token is not a confirmation token", func(t *testing.T) {
		t.Parallel()
		svc := newTestJWTService(t, at(fixedTime))
		token, err := svc.GenerateToken(ctx, testUser())
		require.NoError(t, err)

		_, err = svc.ValidateConfirmationToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidConfirmationToken)
	})
}

func mapKeys(m jwt.MapClaims) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
