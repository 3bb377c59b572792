package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"cinebook/internal/shared/config"
	"cinebook/pkg/logger"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	ValidateToken(tokenString string) (*AdminClaims, error)
}

type service struct {
	cfg    *config.Config
	logger *logger.Logger
}

func NewService(cfg *config.Config, log *logger.Logger) Service {
	return &service{cfg: cfg, logger: log}
}

// Login checks credentials against the environment configured admin account.
// A bcrypt hash is preferred; the plaintext fallback exists for local setups
// that never generated one.
func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	admin := s.cfg.Admin
	if subtle.ConstantTimeCompare([]byte(req.Username), []byte(admin.Username)) != 1 {
		s.logger.LogAuthFailure(ctx, "unknown username", "")
		return nil, ErrInvalidCredentials
	}

	if !s.passwordMatches(req.Password) {
		s.logger.LogAuthFailure(ctx, "wrong password", "")
		return nil, ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(admin.JWTExpiresIn)
	claims := AdminClaims{
		Username:  admin.Username,
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   admin.Username,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(admin.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.LogAuthSuccess(ctx, admin.Username, "password")
	return &LoginResponse{
		Token:     signed,
		ExpiresAt: expiresAt,
		Username:  admin.Username,
	}, nil
}

func (s *service) passwordMatches(password string) bool {
	if s.cfg.Admin.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.cfg.Admin.PasswordHash), []byte(password)) == nil
	}
	if s.cfg.Admin.PlainPassword != "" {
		return subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.Admin.PlainPassword)) == 1
	}
	return false
}

func (s *service) ValidateToken(tokenString string) (*AdminClaims, error) {
	return ValidateToken(tokenString, s.cfg.Admin.JWTSecret)
}

// ValidateToken parses and verifies an admin JWT. Shared with the middleware
// so route guards do not need the full service.
func ValidateToken(tokenString, secret string) (*AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*AdminClaims)
	if !ok || claims.TokenType != "access" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
