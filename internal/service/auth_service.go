package service

import (
	"context"
	"time"

	"github.com/spec-kit/lead-dashboard/internal/auth"
	"github.com/spec-kit/lead-dashboard/internal/config"
	apperrors "github.com/spec-kit/lead-dashboard/pkg/util"
)

// InvalidCredentialsMessage is returned for any failed login.
const InvalidCredentialsMessage = "Invalid credentials"

// AuthService exchanges the admin credentials for a signed token.
type AuthService struct {
	credentials auth.Credentials
	tokenMgr    *auth.TokenManager
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig) *AuthService {
	return &AuthService{
		credentials: auth.Credentials{
			Username:     cfg.AdminUsername,
			Password:     cfg.AdminPassword,
			PasswordHash: cfg.AdminPasswordHash,
		},
		tokenMgr: auth.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.TokenTTLMinutes)*time.Minute),
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Login verifies the credentials and issues a token carrying the username.
func (s *AuthService) Login(_ context.Context, username, password string) (string, time.Time, error) {
	if !s.credentials.Verify(username, password) {
		return "", time.Time{}, apperrors.NewUnauthorized(InvalidCredentialsMessage)
	}
	token, exp, err := s.tokenMgr.GenerateToken(username)
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalError(err)
	}
	return token, exp, nil
}
