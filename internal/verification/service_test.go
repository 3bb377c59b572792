package verification

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockCodeRepo struct {
	mock.Mock
}

func (m *mockCodeRepo) Replace(ctx context.Context, code *VerificationCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *mockCodeRepo) Consume(ctx context.Context, email, code string, bookingID uuid.UUID, now time.Time) (bool, error) {
	args := m.Called(ctx, email, code, bookingID, now)
	return args.Bool(0), args.Error(1)
}

func (m *mockCodeRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func newCodeService(repo Repository, now time.Time) *service {
	return &service{
		repo:       repo,
		codeTTL:    5 * time.Minute,
		timeSource: func() time.Time { return now },
	}
}

func TestIssue(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	bookingID := uuid.New()
	repo := new(mockCodeRepo)
	svc := newCodeService(repo, now)

	repo.On("DeleteExpired", mock.Anything, now).Return(int64(0), nil)
	var stored *VerificationCode
	repo.On("Replace", mock.Anything, mock.MatchedBy(func(c *VerificationCode) bool {
		stored = c
		return c.Email == "jane@example.com" &&
			c.BookingID == bookingID &&
			c.ExpiresAt.Equal(now.Add(5*time.Minute))
	})).Return(nil)

	code, err := svc.Issue(context.Background(), "jane@example.com", bookingID)
	assert.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), code)
	assert.Equal(t, code, stored.Code)
	repo.AssertExpectations(t)
}

func TestVerify(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	bookingID := uuid.New()
	ctx := context.Background()

	t.Run("ValidCodeConsumed", func(t *testing.T) {
		repo := new(mockCodeRepo)
		svc := newCodeService(repo, now)
		repo.On("Consume", mock.Anything, "jane@example.com", "123456", bookingID, now).Return(true, nil)

		assert.NoError(t, svc.Verify(ctx, "jane@example.com", "123456", bookingID))
	})

	t.Run("WrongOrExpiredCode", func(t *testing.T) {
		repo := new(mockCodeRepo)
		svc := newCodeService(repo, now)
		repo.On("Consume", mock.Anything, "jane@example.com", "000000", bookingID, now).Return(false, nil)

		err := svc.Verify(ctx, "jane@example.com", "000000", bookingID)
		assert.ErrorIs(t, err, ErrInvalidCode)
	})
}

func TestRandomCodeRange(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := randomCode()
		assert.NoError(t, err)
		assert.Len(t, code, 6)
	}
}
