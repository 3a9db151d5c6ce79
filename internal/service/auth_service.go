package service

import (
	"context"
	"fmt"
	"time"

	"github.com/spec-kit/ticket-admission/internal/auth"
	"github.com/spec-kit/ticket-admission/internal/config"
	"github.com/spec-kit/ticket-admission/internal/repository"
	apperrors "github.com/spec-kit/ticket-admission/pkg/util/errorutil"
)

// AuthService issues access tokens for directory users.
type AuthService struct {
	users    repository.UserRepository
	tokenMgr *auth.TokenManager
}

// NewAuthService builds the service. users must return password hashes, so
// it should not be the cached repository.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository) *AuthService {
	return &AuthService{
		users:    users,
		tokenMgr: auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Login checks username and password and returns a signed token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	user, found, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalError(fmt.Errorf("lookup user: %w", err))
	}
	if !found || user.PasswordHash == "" {
		return "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokenMgr.GenerateToken(user.Username)
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalError(err)
	}
	return token, expiresAt, nil
}
