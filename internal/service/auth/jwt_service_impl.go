package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/fitlog-api/internal/config"
	"github.com/phrazzld/fitlog-api/internal/domain"
	"github.com/phrazzld/fitlog-api/internal/platform/logger"
)

const minSecretLength = 32

// hmacJWTService is an implementation of JWTService using HMAC-SHA signing.
// Session and confirmation tokens use separate keys.
type hmacJWTService struct {
	sessionKey           []byte
	confirmationKey      []byte
	tokenLifetime        time.Duration
	confirmationLifetime time.Duration
	timeFunc             func() time.Time // Injectable for testing
	clockSkew            time.Duration    // Leeway for session tokens only
}

// sessionClaims defines the structure of session token claims
type sessionClaims struct {
	UserID   uuid.UUID   `json:"user_id"`
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
	Password string      `json:"pwd"`
	jwt.RegisteredClaims
}

// confirmationClaims carries the address and the expiry, nothing else.
type confirmationClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Ensure hmacJWTService implements JWTService interface
var _ JWTService = (*hmacJWTService)(nil)

// NewJWTService creates a new JWT service using HMAC-SHA signing.
func NewJWTService(cfg config.AuthConfig) (JWTService, error) {
	return newHMACJWTService(cfg, time.Now)
}

func newHMACJWTService(cfg config.AuthConfig, now func() time.Time) (*hmacJWTService, error) {
	if len(cfg.JWTSecret) < minSecretLength {
		return nil, fmt.Errorf("jwt secret must be at least %d characters", minSecretLength)
	}
	if len(cfg.ConfirmationSecret) < minSecretLength {
		return nil, fmt.Errorf("confirmation secret must be at least %d characters", minSecretLength)
	}
	if cfg.JWTSecret == cfg.ConfirmationSecret {
		return nil, errors.New("confirmation secret must differ from jwt secret")
	}

	return &hmacJWTService{
		sessionKey:           []byte(cfg.JWTSecret),
		confirmationKey:      []byte(cfg.ConfirmationSecret),
		tokenLifetime:        cfg.TokenLifetime(),
		confirmationLifetime: cfg.ConfirmationLifetime(),
		timeFunc:             now,
		clockSkew:            30 * time.Second,
	}, nil
}

// ConfirmationLifetime implements JWTService.
func (s *hmacJWTService) ConfirmationLifetime() time.Duration {
	return s.confirmationLifetime
}

// GenerateToken creates a signed session token with user claims.
func (s *hmacJWTService) GenerateToken(ctx context.Context, user *domain.User) (string, error) {
	log := logger.FromContext(ctx)
	now := s.timeFunc()

	claims := sessionClaims{
		UserID:   user.ID,
		Email:    user.Email,
		Role:     user.Role,
		Password: PasswordFingerprint(user.HashedPassword),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenLifetime)),
			ID:        uuid.New().String(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.sessionKey)
	if err != nil {
		log.Error("failed to sign session token",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()),
			slog.String("signing_method", jwt.SigningMethodHS256.Name))
		return "", fmt.Errorf("failed to sign session token with HMAC-SHA256: %w", err)
	}

	return signed, nil
}

// ValidateToken validates a session token and returns the claims if valid.
func (s *hmacJWTService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	log := logger.FromContext(ctx)

	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc(s.sessionKey),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(s.clockSkew),
		jwt.WithTimeFunc(s.timeFunc),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			log.Debug("session token validation failed: token expired")
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenMalformed):
			log.Debug("session token validation failed: malformed token")
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			log.Debug("session token validation failed: invalid signature")
		default:
			log.Debug("session token validation failed",
				slog.String("error", err.Error()),
				slog.String("error_type", fmt.Sprintf("%T", err)))
		}
		return nil, ErrInvalidToken
	}

	if claims.UserID == uuid.Nil || claims.Email == "" || !claims.Role.Valid() {
		log.Debug("session token validation failed: incomplete claims")
		return nil, ErrInvalidToken
	}

	out := &Claims{
		UserID:              claims.UserID,
		Email:               claims.Email,
		Role:                claims.Role,
		PasswordFingerprint: claims.Password,
		ExpiresAt:           claims.ExpiresAt.Time,
		ID:                  claims.ID,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}

// GenerateConfirmationToken creates a signed confirmation token for email.
func (s *hmacJWTService) GenerateConfirmationToken(ctx context.Context, email string) (string, error) {
	claims := confirmationClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(s.timeFunc().Add(s.confirmationLifetime)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.confirmationKey)
	if err != nil {
		logger.FromContext(ctx).Error("failed to sign confirmation token",
			slog.String("error", err.Error()))
		return "", fmt.Errorf("failed to sign confirmation token with HMAC-SHA256: %w", err)
	}
	return signed, nil
}

// ValidateConfirmationToken validates a confirmation token and returns its
// email. No leeway is applied: an expired token never verifies.
func (s *hmacJWTService) ValidateConfirmationToken(ctx context.Context, tokenString string) (string, error) {
	claims := &confirmationClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc(s.confirmationKey),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithTimeFunc(s.timeFunc),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		logger.FromContext(ctx).Debug("confirmation token validation failed",
			slog.String("error", err.Error()))
		return "", ErrInvalidConfirmationToken
	}
	if claims.Email == "" {
		return "", ErrInvalidConfirmationToken
	}
	return claims.Email, nil
}

func (s *hmacJWTService) keyFunc(key []byte) jwt.Keyfunc {
	return func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return key, nil
	}
}
