package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/admin-mock-backend/internal"
	"github.com/frahmantamala/admin-mock-backend/internal/core/events"
	"github.com/frahmantamala/admin-mock-backend/internal/core/mockdata"
	"github.com/frahmantamala/admin-mock-backend/internal/user"
	"github.com/frahmantamala/admin-mock-backend/pkg/logger"
)

// Service is the main auth service with dependencies
type Service struct {
	users  user.Repository
	codes  CodeRepository
	tokens *JWTTokenGenerator
	events events.Publisher
	logger *slog.Logger
}

type Option func(*Service)

// WithPublisher routes auth lifecycle events to p.
func WithPublisher(p events.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.events = p
		}
	}
}

func WithLogger(lg *slog.Logger) Option {
	return func(s *Service) {
		if lg != nil {
			s.logger = lg
		}
	}
}

// NewService creates a new auth service
func NewService(users user.Repository, codes CodeRepository, tokens *JWTTokenGenerator, opts ...Option) *Service {
	s := &Service{
		users:  users,
		codes:  codes,
		tokens: tokens,
		events: nopPublisher{},
		logger: logger.LoggerWrapper(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login matches the credentials against the user table and issues both tokens.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*LoginResult, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	u, err := s.users.FindByCredentials(ctx, dto.Username, dto.Password)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			s.publish(ctx, events.EventTypeLoginFailed, dto.Username, "invalid credentials")
			return nil, internal.ErrInvalidCredentials
		}
		return nil, internal.NewInternalError("failed to look up user", err)
	}

	accessToken, err := s.tokens.GenerateAccessToken(u.Username)
	if err != nil {
		return nil, internal.NewInternalError("failed to issue access token", err)
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(u.Username)
	if err != nil {
		return nil, internal.NewInternalError("failed to issue refresh token", err)
	}

	s.publish(ctx, events.EventTypeLoginSucceeded, u.Username, "")

	return &LoginResult{
		User:         u,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh exchanges a refresh token for a new access token. The refresh
// token itself is neither rotated nor invalidated.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		s.publish(ctx, events.EventTypeRefreshRejected, "", string(StatusMissing))
		return "", internal.ErrMissingRefreshToken
	}

	v := s.Verify(ctx, refreshToken, KindRefresh)
	if !v.Authenticated() {
		s.publish(ctx, events.EventTypeRefreshRejected, "", string(v.Status))
		return "", internal.ErrInvalidRefreshToken.WithCause(v.Err)
	}

	accessToken, err := s.tokens.GenerateAccessToken(v.User.Username)
	if err != nil {
		return "", internal.NewInternalError("failed to issue access token", err)
	}

	s.publish(ctx, events.EventTypeTokenRefreshed, v.User.Username, "")
	return accessToken, nil
}

// Logout only records the event: tokens are stateless, so an access token
// stays valid until it expires.
func (s *Service) Logout(ctx context.Context) {
	s.publish(ctx, events.EventTypeLogout, "", "")
}

// Verify checks token against the secret for kind and re-resolves the user
// named by its username claim. It never returns an error; the outcome is
// carried by the Verification status.
func (s *Service) Verify(ctx context.Context, token string, kind TokenKind) Verification {
	if token == "" {
		return Verification{Status: StatusMissing}
	}

	claims, err := s.tokens.Parse(kind, token)
	if err != nil {
		return Verification{Status: statusFromParseError(err), Err: err}
	}

	u, err := s.users.FindByUsername(ctx, claims.Username)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Verification{Claims: claims, Status: StatusUnknownUser, Err: err}
		}
		s.logger.Error("verify: user lookup failed", "username", claims.Username, "error", err)
		return Verification{Claims: claims, Status: StatusLookupFailed, Err: err}
	}

	return Verification{User: u, Claims: claims, Status: StatusOK}
}

// Codes returns the permission codes granted to username, or an empty list.
func (s *Service) Codes(ctx context.Context, username string) ([]string, error) {
	codes, err := s.codes.CodesFor(ctx, username)
	if err != nil {
		return nil, internal.NewInternalError("failed to load access codes", err)
	}
	return mockdata.CopyStrings(codes), nil
}

// IssueToken signs a token of kind for an existing user without checking a password.
func (s *Service) IssueToken(ctx context.Context, username string, kind TokenKind) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownTokenKind, kind)
	}
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("resolve user %q: %w", username, err)
	}
	return s.tokens.Generate(kind, u.Username)
}

func (s *Service) publish(ctx context.Context, eventType, username, reason string) {
	if err := s.events.Publish(ctx, events.NewAuthEvent(eventType, username, reason)); err != nil {
		s.logger.Warn("failed to publish auth event", "event_type", eventType, "error", err)
	}
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, events.Event) error { return nil }
