// Package service implements account registration and login.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"covera/internal/audit"
	"covera/internal/auth"
	id "covera/pkg/domain"
	dErrors "covera/pkg/domain-errors"
	"covera/pkg/platform/secrets"
	"covera/pkg/platform/sentinel"
	"covera/pkg/requestcontext"
)

// UserStore persists accounts. Implemented by the Postgres and in-memory
// stores.
type UserStore interface {
	Save(ctx context.Context, user auth.User) error
	FindByID(ctx context.Context, userID id.UserID) (auth.User, error)
	FindByEmail(ctx context.Context, email string) (auth.User, error)
}

// TokenIssuer signs access tokens. Implemented by internal/jwttoken.
type TokenIssuer interface {
	GenerateAccessToken(userID id.UserID) (string, error)
	TTL() time.Duration
}

// AuditPublisher records security events. Optional.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service owns the registration and login flows.
type Service struct {
	users   UserStore
	tokens  TokenIssuer
	auditor AuditPublisher
	logger  *slog.Logger
}

// Option configures optional collaborators.
type Option func(*Service)

// WithAuditor attaches the audit publisher.
func WithAuditor(auditor AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = auditor
	}
}

// New constructs the auth service. Users and tokens are required.
func New(users UserStore, tokens TokenIssuer, logger *slog.Logger, opts ...Option) (*Service, error) {
	if users == nil {
		return nil, errors.New("auth service requires a user store")
	}
	if tokens == nil {
		return nil, errors.New("auth service requires a token issuer")
	}
	s := &Service{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// LoginResult is a successful login: the signed access token and its
// lifetime, plus the account it belongs to.
type LoginResult struct {
	AccessToken string
	ExpiresIn   time.Duration
	User        auth.User
}

// Register creates a new account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, email, password string) (auth.User, error) {
	hash, err := secrets.Hash(password)
	if err != nil {
		return auth.User{}, err
	}

	user := auth.User{
		ID:           id.NewUserID(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    requestcontext.Now(ctx).UTC(),
	}

	if err := s.users.Save(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return auth.User{}, dErrors.New(dErrors.CodeConflict, "email is already registered")
		}
		return auth.User{}, dErrors.Wrap(err, dErrors.CodeInternal, "saving user")
	}

	s.audit(ctx, user.ID, audit.ActionUserRegistered, nil)
	return user, nil
}

// Login verifies credentials and issues an access token. A missing account
// and a wrong password return the same error so callers cannot probe for
// registered emails.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return LoginResult{}, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
		}
		return LoginResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "looking up user")
	}

	if err := secrets.Verify(password, user.PasswordHash); err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvalidInput) {
			return LoginResult{}, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
		}
		return LoginResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "verifying password")
	}

	token, err := s.tokens.GenerateAccessToken(user.ID)
	if err != nil {
		return LoginResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "issuing access token")
	}

	s.audit(ctx, user.ID, audit.ActionUserLogin, nil)
	return LoginResult{
		AccessToken: token,
		ExpiresIn:   s.tokens.TTL(),
		User:        user,
	}, nil
}

// Me returns the account for an authenticated user ID.
func (s *Service) Me(ctx context.Context, userID id.UserID) (auth.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return auth.User{}, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return auth.User{}, dErrors.Wrap(err, dErrors.CodeInternal, "looking up user")
	}
	return user, nil
}

func (s *Service) audit(ctx context.Context, userID id.UserID, action string, metadata map[string]string) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Emit(ctx, audit.Event{
		UserID:   userID,
		Action:   action,
		Metadata: metadata,
	}); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed",
			"action", action,
			"user_id", userID,
			"error", err,
		)
	}
}
