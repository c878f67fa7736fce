package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dukahub/storefront/internal/backend"
	"github.com/dukahub/storefront/internal/domain"
	apperrors "github.com/dukahub/storefront/pkg/errors"
)

// accountBackend is the slice of the tenant client the auth service needs.
type accountBackend interface {
	Login(ctx context.Context, email, password string) (*backend.AuthResponse, error)
	Register(ctx context.Context, req *backend.RegisterRequest) (*backend.AuthResponse, error)
	VerifyAuth(ctx context.Context, token string) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, token string, profile *domain.Profile) (*domain.Profile, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, password string) error
}

// sessionStore is the slice of the session store the auth service needs.
type sessionStore interface {
	Token(ctx context.Context, sessionID string) (string, error)
	SaveToken(ctx context.Context, sessionID, token string) error
	DeleteToken(ctx context.Context, sessionID string) error
	Profile(ctx context.Context, sessionID string) (*domain.Profile, error)
	SaveProfile(ctx context.Context, sessionID string, profile *domain.Profile) error
	DeleteProfile(ctx context.Context, sessionID string) error
}

// Service binds backend accounts to storefront sessions. The backend owns
// credentials; the service only stores the backend token per session.
type Service struct {
	backend  accountBackend
	sessions sessionStore
	logger   *slog.Logger
}

// NewService creates an auth service.
func NewService(b accountBackend, s sessionStore, logger *slog.Logger) *Service {
	return &Service{backend: b, sessions: s, logger: logger}
}

// Login authenticates against the backend and binds the returned token and
// profile to the session.
func (s *Service) Login(ctx context.Context, sessionID, email, password string) (*domain.Profile, error) {
	resp, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.SaveToken(ctx, sessionID, resp.Token); err != nil {
		return nil, err
	}
	if err := s.sessions.SaveProfile(ctx, sessionID, &resp.User); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "customer logged in", slog.String("session_id", sessionID))
	return &resp.User, nil
}

// Register creates a backend account and logs the session in.
func (s *Service) Register(ctx context.Context, sessionID string, req *backend.RegisterRequest) (*domain.Profile, error) {
	resp, err := s.backend.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.SaveToken(ctx, sessionID, resp.Token); err != nil {
		return nil, err
	}
	if err := s.sessions.SaveProfile(ctx, sessionID, &resp.User); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "customer registered", slog.String("session_id", sessionID))
	return &resp.User, nil
}

// Logout drops the session's backend token and cached profile.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.DeleteToken(ctx, sessionID); err != nil {
		return err
	}
	return s.sessions.DeleteProfile(ctx, sessionID)
}

// Verify checks the session's stored backend token against the backend and
// refreshes the cached profile. A rejected token logs the session out and
// returns unauthorized.
func (s *Service) Verify(ctx context.Context, sessionID string) (*domain.Profile, error) {
	token, err := s.sessions.Token(ctx, sessionID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.Unauthorized("not logged in")
	}
	if err != nil {
		return nil, err
	}

	profile, err := s.backend.VerifyAuth(ctx, token)
	if errors.Is(err, apperrors.ErrUnauthorized) {
		// Token revoked upstream. Drop local session state.
		_ = s.Logout(ctx, sessionID)
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	if err := s.sessions.SaveProfile(ctx, sessionID, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Authenticated reports whether the session has a backend token stored.
// It does not revalidate the token upstream.
func (s *Service) Authenticated(ctx context.Context, sessionID string) bool {
	_, err := s.sessions.Token(ctx, sessionID)
	return err == nil
}

// BackendToken returns the session's stored backend token, or unauthorized.
func (s *Service) BackendToken(ctx context.Context, sessionID string) (string, error) {
	token, err := s.sessions.Token(ctx, sessionID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return "", apperrors.Unauthorized("not logged in")
	}
	return token, err
}

// Profile returns the cached profile for the session, or unauthorized when
// the session has none.
func (s *Service) Profile(ctx context.Context, sessionID string) (*domain.Profile, error) {
	profile, err := s.sessions.Profile(ctx, sessionID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.Unauthorized("not logged in")
	}
	return profile, err
}

// UpdateProfile writes profile changes through to the backend and refreshes
// the session cache.
func (s *Service) UpdateProfile(ctx context.Context, sessionID string, profile *domain.Profile) (*domain.Profile, error) {
	token, err := s.BackendToken(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	updated, err := s.backend.UpdateProfile(ctx, token, profile)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.SaveProfile(ctx, sessionID, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// RequestPasswordReset forwards a reset request to the backend.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	return s.backend.RequestPasswordReset(ctx, email)
}

// ResetPassword completes a password reset through the backend.
func (s *Service) ResetPassword(ctx context.Context, email, code, password string) error {
	return s.backend.ResetPassword(ctx, email, code, password)
}
