package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/carrizal-edu/asistencia-api/internal/models"
	appErrors "github.com/carrizal-edu/asistencia-api/pkg/errors"
)

func newAuthService(cfg AuthConfig) *AuthService {
	if cfg.TokenSecret == "" {
		cfg.TokenSecret = "test_secret"
	}
	if cfg.TokenExpiry == 0 {
		cfg.TokenExpiry = time.Hour
	}
	return NewAuthService(cfg, validator.New(), zap.NewNop())
}

func TestAuthServiceLoginAndValidate(t *testing.T) {
	svc := newAuthService(AuthConfig{AccessKey: "llave"})

	resp, err := svc.Login(context.Background(), models.LoginRequest{AccessKey: "llave"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "teacher", claims.Subject)
	assert.NotEmpty(t, claims.TokenID)
}

func TestAuthServiceLoginWrongKey(t *testing.T) {
	svc := newAuthService(AuthConfig{AccessKey: "llave"})

	_, err := svc.Login(context.Background(), models.LoginRequest{AccessKey: "otra"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginEmptyPayload(t *testing.T) {
	svc := newAuthService(AuthConfig{AccessKey: "llave"})

	_, err := svc.Login(context.Background(), models.LoginRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceHashedKeyTakesPrecedence(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("segura"), bcrypt.MinCost)
	require.NoError(t, err)
	svc := newAuthService(AuthConfig{AccessKey: "ignored", AccessKeyHash: string(hash)})

	_, err = svc.Login(context.Background(), models.LoginRequest{AccessKey: "segura"})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), models.LoginRequest{AccessKey: "ignored"})
	require.Error(t, err)
}

func TestAuthServiceValidateGarbageToken(t *testing.T) {
	svc := newAuthService(AuthConfig{AccessKey: "llave"})

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceExpiredToken(t *testing.T) {
	svc := newAuthService(AuthConfig{AccessKey: "llave", TokenExpiry: -time.Minute})

	resp, err := svc.Login(context.Background(), models.LoginRequest{AccessKey: "llave"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(resp.AccessToken)
	require.Error(t, err)
}
