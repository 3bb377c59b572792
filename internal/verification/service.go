package verification

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"cinebook/internal/shared/config"
)

var ErrInvalidCode = errors.New("invalid or expired verification code")

type Service interface {
	Issue(ctx context.Context, email string, bookingID uuid.UUID) (string, error)
	Verify(ctx context.Context, email, code string, bookingID uuid.UUID) error
}

type service struct {
	repo       Repository
	codeTTL    time.Duration
	timeSource func() time.Time
}

func NewService(repo Repository, cfg *config.Config) Service {
	return &service{
		repo:       repo,
		codeTTL:    cfg.Booking.CodeTTL,
		timeSource: time.Now,
	}
}

// Issue generates a fresh six digit code for the email, invalidating any code
// issued earlier. Issuing is also the write moment that sweeps expired codes,
// there is no background purge.
func (s *service) Issue(ctx context.Context, email string, bookingID uuid.UUID) (string, error) {
	if _, err := s.repo.DeleteExpired(ctx, s.timeSource()); err != nil {
		return "", err
	}

	code, err := randomCode()
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}

	record := &VerificationCode{
		Email:     email,
		Code:      code,
		BookingID: bookingID,
		ExpiresAt: s.timeSource().Add(s.codeTTL),
	}
	if err := s.repo.Replace(ctx, record); err != nil {
		return "", err
	}
	return code, nil
}

// Verify consumes the code. A wrong code, an expired code, or a code already
// used all return the same error.
func (s *service) Verify(ctx context.Context, email, code string, bookingID uuid.UUID) error {
	ok, err := s.repo.Consume(ctx, email, code, bookingID, s.timeSource())
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCode
	}
	return nil
}

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
