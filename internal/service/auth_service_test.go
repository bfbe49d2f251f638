package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/lead-dashboard/internal/config"
	apperrors "github.com/spec-kit/lead-dashboard/pkg/util"
)

func TestLogin(t *testing.T) {
	svc := NewAuthService(config.AuthConfig{
		AdminUsername:   "admin",
		AdminPassword:   "admin123",
		JWTSecret:       "secret",
		TokenTTLMinutes: 60,
	})

	token, _, err := svc.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)

	_, _, err = svc.Login(context.Background(), "admin", "nope")
	de := apperrors.ToDomainError(err)
	assert.Equal(t, http.StatusUnauthorized, de.HTTPStatus)
	assert.Equal(t, InvalidCredentialsMessage, de.Message)
}
