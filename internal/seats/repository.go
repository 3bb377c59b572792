package seats

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	ReplaceHolds(ctx context.Context, showtimeID uuid.UUID, holderID, holderIP string, seatIDs []string, expiresAt time.Time) error
	ListActiveHolds(ctx context.Context, showtimeID uuid.UUID, now time.Time) ([]SeatHold, error)
	CountActiveShowtimesByIP(ctx context.Context, holderIP string, now time.Time) (int64, error)
	DeleteForHolder(ctx context.Context, showtimeID uuid.UUID, holderID string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// AdvisoryLockKey derives the postgres advisory lock key for a showtime. All
// writers touching seat state for the same showtime serialize on this key.
func AdvisoryLockKey(showtimeID uuid.UUID) int64 {
	h := fnv.New64a()
	h.Write(showtimeID[:])
	return int64(h.Sum64())
}

// LockShowtime takes the transaction scoped advisory lock for a showtime. It
// must be called inside a transaction; the lock releases on commit/rollback.
func LockShowtime(tx *gorm.DB, showtimeID uuid.UUID) error {
	if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", AdvisoryLockKey(showtimeID)).Error; err != nil {
		return fmt.Errorf("failed to lock showtime %s: %w", showtimeID, err)
	}
	return nil
}

// ReplaceHolds swaps the holder's entire claim on a showtime for a new seat
// set in one transaction. Re-reserving never merges with the previous claim.
// The caller has already checked for conflicts under the same advisory lock
// ordering, but the check is repeated here inside the lock to close the race
// between two concurrent holders.
func (r *repository) ReplaceHolds(ctx context.Context, showtimeID uuid.UUID, holderID, holderIP string, seatIDs []string, expiresAt time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := LockShowtime(tx, showtimeID); err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Where("showtime_id = ? AND expires_at <= ?", showtimeID, now).
			Delete(&SeatHold{}).Error; err != nil {
			return fmt.Errorf("failed to sweep expired holds: %w", err)
		}

		var conflicts int64
		err := tx.Model(&SeatHold{}).
			Where("showtime_id = ? AND seat_id IN ? AND holder_id <> ? AND expires_at > ?",
				showtimeID, seatIDs, holderID, now).
			Count(&conflicts).Error
		if err != nil {
			return fmt.Errorf("failed to check hold conflicts: %w", err)
		}
		if conflicts > 0 {
			return ErrSeatConflict
		}

		if err := tx.Where("showtime_id = ? AND holder_id = ?", showtimeID, holderID).
			Delete(&SeatHold{}).Error; err != nil {
			return fmt.Errorf("failed to clear previous holds: %w", err)
		}

		holds := make([]SeatHold, 0, len(seatIDs))
		for _, seatID := range seatIDs {
			holds = append(holds, SeatHold{
				ShowtimeID: showtimeID,
				SeatID:     seatID,
				HolderID:   holderID,
				HolderIP:   holderIP,
				ExpiresAt:  expiresAt,
			})
		}
		if err := tx.Create(&holds).Error; err != nil {
			return fmt.Errorf("failed to create holds: %w", err)
		}
		return nil
	})
}

func (r *repository) ListActiveHolds(ctx context.Context, showtimeID uuid.UUID, now time.Time) ([]SeatHold, error) {
	var holds []SeatHold
	err := r.db.WithContext(ctx).
		Where("showtime_id = ? AND expires_at > ?", showtimeID, now).
		Find(&holds).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list holds: %w", err)
	}
	return holds, nil
}

func (r *repository) CountActiveShowtimesByIP(ctx context.Context, holderIP string, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&SeatHold{}).
		Where("holder_ip = ? AND expires_at > ?", holderIP, now).
		Distinct("showtime_id").
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count holds by ip: %w", err)
	}
	return count, nil
}

func (r *repository) DeleteForHolder(ctx context.Context, showtimeID uuid.UUID, holderID string) error {
	err := r.db.WithContext(ctx).
		Where("showtime_id = ? AND holder_id = ?", showtimeID, holderID).
		Delete(&SeatHold{}).Error
	if err != nil {
		return fmt.Errorf("failed to release holds: %w", err)
	}
	return nil
}

func (r *repository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&SeatHold{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete expired holds: %w", result.Error)
	}
	return result.RowsAffected, nil
}
