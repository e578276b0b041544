package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/fitlog-api/internal/domain"
	"github.com/phrazzld/fitlog-api/internal/platform/logger"
	"github.com/phrazzld/fitlog-api/internal/platform/metrics"
	"github.com/phrazzld/fitlog-api/internal/redact"
	"github.com/phrazzld/fitlog-api/internal/service/auth"
	"github.com/phrazzld/fitlog-api/internal/store"
)

// ConfirmationQueue hands confirmation emails to the background mailer.
// Implementations must return as soon as the job is accepted.
type ConfirmationQueue interface {
	EnqueueConfirmation(ctx context.Context, recipient, token string) error
}

// Registration is the outcome of a successful Register call.
type Registration struct {
	User *domain.User
	// ConfirmationToken is the token that was mailed to the user.
	ConfirmationToken string
}

// Session is an issued session token together with its owner.
type Session struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// AuthService implements the account lifecycle.
type AuthService interface {
	// Register creates an unverified account and queues a confirmation email.
	Register(ctx context.Context, email, password string) (*Registration, error)

	// Confirm verifies and activates the account addressed by token. For a
	// pending email change it also swaps the new address in.
	Confirm(ctx context.Context, token string) (*domain.User, error)

	// Login returns ErrLoginFailed for an unknown email and for a wrong
	// password alike.
	Login(ctx context.Context, email, password string) (*Session, error)

	// Logout clears the advisory active flag. A missing, malformed or
	// expired token is not an error.
	Logout(ctx context.Context, rawToken string) error

	// GetProfile returns the account behind a session.
	GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// ChangeEmail records newEmail as pending and mails a confirmation to it.
	ChangeEmail(ctx context.Context, session *auth.Claims, newEmail string) error

	// ChangePassword verifies oldPassword and stores a hash of newPassword.
	// The returned session replaces the caller's, which is now stale.
	ChangePassword(ctx context.Context, session *auth.Claims, oldPassword, newPassword string) (*Session, error)
}

type authService struct {
	db       *sql.DB
	users    store.UserStore
	tokens   auth.JWTService
	hasher   auth.PasswordHasher
	mailer   ConfirmationQueue
	metrics  *metrics.Metrics
	logger   *slog.Logger
	tokenTTL time.Duration
}

// AuthServiceDeps are the collaborators of NewAuthService. Metrics may be nil.
type AuthServiceDeps struct {
	DB            *sql.DB
	Users         store.UserStore
	Tokens        auth.JWTService
	Hasher        auth.PasswordHasher
	Mailer        ConfirmationQueue
	Metrics       *metrics.Metrics
	Logger        *slog.Logger
	TokenLifetime time.Duration
}

// NewAuthService creates an AuthService.
func NewAuthService(deps AuthServiceDeps) (AuthService, error) {
	switch {
	case deps.DB == nil:
		return nil, errors.New("auth service requires a database")
	case deps.Users == nil:
		return nil, errors.New("auth service requires a user store")
	case deps.Tokens == nil:
		return nil, errors.New("auth service requires a token service")
	case deps.Hasher == nil:
		return nil, errors.New("auth service requires a password hasher")
	case deps.Mailer == nil:
		return nil, errors.New("auth service requires a confirmation queue")
	}
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	return &authService{
		db:       deps.DB,
		users:    deps.Users,
		tokens:   deps.Tokens,
		hasher:   deps.Hasher,
		mailer:   deps.Mailer,
		metrics:  deps.Metrics,
		logger:   log.With("component", "auth_service"),
		tokenTTL: deps.TokenLifetime,
	}, nil
}

func (s *authService) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}

// Register implements AuthService.
func (s *authService) Register(ctx context.Context, email, password string) (*Registration, error) {
	const op = "register"
	log := s.log(ctx)

	if err := domain.ValidateEmail(email); err != nil {
		s.metrics.ObserveRegistration(metrics.ResultInvalid)
		return nil, domain.NewValidationError("email", "must be a valid email address", err)
	}
	if err := domain.ValidatePassword(password); err != nil {
		s.metrics.ObserveRegistration(metrics.ResultInvalid)
		return nil, domain.NewValidationError("password", err.Error(), err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, NewServiceError(op, "failed to hash password", err)
	}
	user, err := domain.NewUser(email, hash)
	if err != nil {
		return nil, err
	}
	token, err := s.tokens.GenerateConfirmationToken(ctx, email)
	if err != nil {
		return nil, NewServiceError(op, "failed to create confirmation token", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.users.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			s.metrics.ObserveRegistration(metrics.ResultConflict)
			log.Debug("registration rejected: email taken", slog.String("email", redact.Email(email)))
			return nil, domain.ErrEmailAlreadyRegistered
		}
		s.metrics.ObserveRegistration(metrics.ResultFailure)
		log.Error("failed to register user", slog.String("error", redact.Error(err)))
		return nil, translate(op, "failed to save user", err)
	}

	s.metrics.ObserveRegistration(metrics.ResultSuccess)
	s.metrics.ObserveTokenIssued(metrics.TokenConfirmation)
	log.Info("user registered", slog.String("user_id", user.ID.String()))

	s.enqueueConfirmation(ctx, email, token)
	return &Registration{User: user, ConfirmationToken: token}, nil
}

// Confirm implements AuthService.
func (s *authService) Confirm(ctx context.Context, token string) (*domain.User, error) {
	const op = "confirm"
	log := s.log(ctx)

	email, err := s.tokens.ValidateConfirmationToken(ctx, token)
	if err != nil {
		return nil, domain.ErrInvalidOrExpiredToken
	}

	user, err := store.RunInTransactionResult(ctx, s.db, func(ctx context.Context, tx *sql.Tx) (*domain.User, error) {
		users := s.users.WithTx(tx)

		user, err := users.GetByEmailOrPending(ctx, email)
		if err != nil {
			return nil, err
		}

		if user.Email == email && user.PendingEmail != "" {
			// Only the pending address can be confirmed while a change is open.
			log.Info("confirmation for superseded address rejected", slog.String("user_id", user.ID.String()))
			return nil, domain.ErrInvalidOrExpiredToken
		}
		if user.Email != email {
			log.Info("confirming email change", slog.String("user_id", user.ID.String()))
			user.Email = email
			user.PendingEmail = ""
		}
		user.IsVerified = true
		user.IsActive = true
		user.Touch()

		if err := users.Update(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	})
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("confirmation token names no account")
			return nil, domain.ErrInvalidOrExpiredToken
		}
		return nil, translate(op, "failed to confirm user", err)
	}

	log.Info("user confirmed", slog.String("user_id", user.ID.String()))
	return user, nil
}

// Login implements AuthService.
func (s *authService) Login(ctx context.Context, email, password string) (*Session, error) {
	const op = "login"
	log := s.log(ctx)

	fail := func(err error) (*Session, error) {
		s.metrics.ObserveLogin(metrics.ResultFailure)
		return nil, translate(op, "failed to log in", err)
	}

	// Password verification runs outside the transaction.
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return fail(domain.ErrLoginFailed)
		}
		return fail(err)
	}
	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		if errors.Is(err, auth.ErrMalformedHash) {
			log.Error("stored password hash is malformed", slog.String("user_id", user.ID.String()))
		}
		return fail(domain.ErrLoginFailed)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.users.WithTx(tx).SetActive(ctx, user.ID, true)
	})
	if err != nil {
		return fail(err)
	}
	user.IsActive = true

	session, err := s.issueSession(ctx, op, user)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveLogin(metrics.ResultSuccess)
	log.Info("user logged in", slog.String("user_id", user.ID.String()))
	return session, nil
}

// Logout implements AuthService.
func (s *authService) Logout(ctx context.Context, rawToken string) error {
	log := s.log(ctx)

	if rawToken == "" {
		return nil
	}
	claims, err := s.tokens.ValidateToken(ctx, rawToken)
	if err != nil {
		log.Debug("logout without a valid session", slog.String("reason", err.Error()))
		return nil
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.users.WithTx(tx).SetActive(ctx, claims.UserID, false)
	})
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Warn("logout for unknown user", slog.String("user_id", claims.UserID.String()))
			return nil
		}
		return translate("logout", "failed to clear active flag", err)
	}

	log.Info("user logged out", slog.String("user_id", claims.UserID.String()))
	return nil
}

// GetProfile implements AuthService.
func (s *authService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, translate("get_profile", "failed to load user", err)
	}
	return user, nil
}

// ChangeEmail implements AuthService. The stored email stays unchanged until
// the new address is confirmed; the account is unverified meanwhile.
func (s *authService) ChangeEmail(ctx context.Context, session *auth.Claims, newEmail string) error {
	const op = "change_email"
	log := s.log(ctx)

	if err := domain.ValidateEmail(newEmail); err != nil {
		return domain.NewValidationError("email", "must be a valid email address", err)
	}

	token, err := s.tokens.GenerateConfirmationToken(ctx, newEmail)
	if err != nil {
		return NewServiceError(op, "failed to create confirmation token", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)

		user, err := users.GetByID(ctx, session.UserID)
		if err != nil {
			return err
		}
		if user.Email == newEmail {
			return domain.NewValidationError("email", "must differ from the current email", nil)
		}

		owner, err := users.GetByEmailOrPending(ctx, newEmail)
		switch {
		case err == nil && owner.ID != user.ID:
			return emailInUse()
		case err != nil && !errors.Is(err, store.ErrUserNotFound):
			return err
		}

		user.PendingEmail = newEmail
		user.IsVerified = false
		user.Touch()
		if err := users.Update(ctx, user); err != nil {
			if errors.Is(err, store.ErrEmailExists) {
				return emailInUse()
			}
			return err
		}
		return nil
	})
	if err != nil {
		return translate(op, "failed to change email", err)
	}

	s.metrics.ObserveTokenIssued(metrics.TokenConfirmation)
	log.Info("email change requested", slog.String("user_id", session.UserID.String()))
	s.enqueueConfirmation(ctx, newEmail, token)
	return nil
}

// ChangePassword implements AuthService.
func (s *authService) ChangePassword(ctx context.Context, session *auth.Claims, oldPassword, newPassword string) (*Session, error) {
	const op = "change_password"
	log := s.log(ctx)

	if err := domain.ValidatePassword(newPassword); err != nil {
		return nil, domain.NewValidationError("new_password", err.Error(), err)
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, translate(op, "failed to load user", err)
	}
	if !session.MatchesPassword(user.HashedPassword) {
		return nil, domain.ErrStaleSession
	}
	if err := s.hasher.Compare(user.HashedPassword, oldPassword); err != nil {
		return nil, domain.NewValidationError("old_password", "is incorrect", nil)
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, NewServiceError(op, "failed to hash password", err)
	}

	// A hash that changed since verification means a concurrent rotation.
	verifiedHash := user.HashedPassword
	user, err = store.RunInTransactionResult(ctx, s.db, func(ctx context.Context, tx *sql.Tx) (*domain.User, error) {
		users := s.users.WithTx(tx)

		current, err := users.GetByID(ctx, session.UserID)
		if err != nil {
			return nil, err
		}
		if current.HashedPassword != verifiedHash {
			return nil, domain.ErrStaleSession
		}
		current.HashedPassword = hash
		current.Touch()
		if err := users.Update(ctx, current); err != nil {
			return nil, err
		}
		return current, nil
	})
	if err != nil {
		return nil, translate(op, "failed to change password", err)
	}

	log.Info("password changed", slog.String("user_id", user.ID.String()))
	return s.issueSession(ctx, op, user)
}

func (s *authService) issueSession(ctx context.Context, op string, user *domain.User) (*Session, error) {
	token, err := s.tokens.GenerateToken(ctx, user)
	if err != nil {
		return nil, NewServiceError(op, "failed to issue session token", err)
	}
	s.metrics.ObserveTokenIssued(metrics.TokenSession)
	return &Session{
		User:      user,
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(s.tokenTTL),
	}, nil
}

// enqueueConfirmation hands the email to the mailer. A failure is logged and
// never undoes the committed change.
func (s *authService) enqueueConfirmation(ctx context.Context, recipient, token string) {
	if err := s.mailer.EnqueueConfirmation(ctx, recipient, token); err != nil {
		s.log(ctx).Error("failed to queue confirmation email",
			slog.String("recipient", redact.Email(recipient)),
			slog.String("error", redact.Error(err)))
	}
}

func emailInUse() error {
	return domain.NewValidationError("email", "is already in use", nil)
}
