package verification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Replace(ctx context.Context, code *VerificationCode) error
	Consume(ctx context.Context, email, code string, bookingID uuid.UUID, now time.Time) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Replace drops any code still live for the email and inserts the new one in
// one transaction.
func (r *repository) Replace(ctx context.Context, code *VerificationCode) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", code.Email).Delete(&VerificationCode{}).Error; err != nil {
			return fmt.Errorf("failed to invalidate previous code: %w", err)
		}
		if err := tx.Create(code).Error; err != nil {
			return fmt.Errorf("failed to store verification code: %w", err)
		}
		return nil
	})
}

// Consume deletes the matching non expired code and reports whether one
// existed. Deleting in the same statement makes reuse impossible.
func (r *repository) Consume(ctx context.Context, email, code string, bookingID uuid.UUID, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("email = ? AND code = ? AND booking_id = ? AND expires_at > ?", email, code, bookingID, now).
		Delete(&VerificationCode{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to consume verification code: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&VerificationCode{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete expired codes: %w", result.Error)
	}
	return result.RowsAffected, nil
}
