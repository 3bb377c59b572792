package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"cinebook/internal/shared/config"
	"cinebook/pkg/logger"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	assert.NoError(t, err)

	return &config.Config{
		Admin: config.AdminConfig{
			Username:     "admin",
			PasswordHash: string(hash),
			JWTSecret:    "test-signing-secret",
			JWTExpiresIn: 24 * time.Hour,
		},
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc := NewService(testConfig(t), logger.GetDefault())

	t.Run("Success", func(t *testing.T) {
		result, err := svc.Login(ctx, LoginRequest{Username: "admin", Password: "s3cret"})
		assert.NoError(t, err)
		assert.Equal(t, "admin", result.Username)
		assert.NotEmpty(t, result.Token)
		assert.WithinDuration(t, time.Now().Add(24*time.Hour), result.ExpiresAt, time.Minute)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginRequest{Username: "admin", Password: "nope"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("WrongUsername", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginRequest{Username: "root", Password: "s3cret"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestPlaintextFallback(t *testing.T) {
	cfg := testConfig(t)
	cfg.Admin.PasswordHash = ""
	cfg.Admin.PlainPassword = "plain-pass"
	svc := NewService(cfg, logger.GetDefault())

	_, err := svc.Login(context.Background(), LoginRequest{Username: "admin", Password: "plain-pass"})
	assert.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{Username: "admin", Password: "other"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateToken(t *testing.T) {
	cfg := testConfig(t)
	svc := NewService(cfg, logger.GetDefault())

	result, err := svc.Login(context.Background(), LoginRequest{Username: "admin", Password: "s3cret"})
	assert.NoError(t, err)

	t.Run("RoundTrip", func(t *testing.T) {
		claims, err := svc.ValidateToken(result.Token)
		assert.NoError(t, err)
		assert.Equal(t, "admin", claims.Username)
		assert.Equal(t, "access", claims.TokenType)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		_, err := ValidateToken(result.Token, "another-secret")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
