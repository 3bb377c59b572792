package bookings

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cinebook/internal/seats"
)

type Repository interface {
	Create(ctx context.Context, booking *Booking) error
	CreateWithSeatCheck(ctx context.Context, booking *Booking, holderID string) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByContact(ctx context.Context, email, phone string) (*Booking, error)
	GetAll(ctx context.Context, status Status) ([]Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, updates map[string]interface{}, audit *StatusAudit) error
	BookedSeats(ctx context.Context, showtimeID uuid.UUID) (seats.BookedPartition, error)
	GetStats(ctx context.Context) (*BookingStats, error)
	GetByShowtime(ctx context.Context, showtimeID uuid.UUID, statuses []Status) ([]Booking, error)
	ListAudits(ctx context.Context, bookingID uuid.UUID) ([]StatusAudit, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, booking *Booking) error {
	if err := r.db.WithContext(ctx).Create(booking).Error; err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// CreateWithSeatCheck inserts the booking after re-validating, under the
// showtime advisory lock, that none of its seats belong to another live
// booking or another holder's active hold. The holder's own hold rows are
// consumed in the same transaction. With an empty holderID the booking is a
// walk-up claim: every active hold counts as foreign and nothing is consumed.
func (r *repository) CreateWithSeatCheck(ctx context.Context, booking *Booking, holderID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := seats.LockShowtime(tx, booking.ShowtimeID); err != nil {
			return err
		}

		var existing []Booking
		err := tx.Where("showtime_id = ? AND status IN ?", booking.ShowtimeID, UnavailableStatuses()).
			Find(&existing).Error
		if err != nil {
			return fmt.Errorf("failed to load live bookings: %w", err)
		}
		taken := make(map[string]bool)
		for _, b := range existing {
			for _, seat := range b.Seats {
				taken[seat] = true
			}
		}

		var foreignHolds int64
		err = tx.Table("seat_holds").
			Where("showtime_id = ? AND seat_id IN ? AND holder_id <> ? AND expires_at > NOW()",
				booking.ShowtimeID, []string(booking.Seats), holderID).
			Count(&foreignHolds).Error
		if err != nil {
			return fmt.Errorf("failed to check holds: %w", err)
		}

		for _, seat := range booking.Seats {
			if taken[seat] {
				return seats.ErrSeatConflict
			}
		}
		if foreignHolds > 0 {
			return seats.ErrSeatConflict
		}

		if err := tx.Create(booking).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		// The hold has served its purpose, the booking row is the claim now.
		if holderID != "" {
			err = tx.Where("showtime_id = ? AND holder_id = ?", booking.ShowtimeID, holderID).
				Delete(&seats.SeatHold{}).Error
			if err != nil {
				return fmt.Errorf("failed to consume holds: %w", err)
			}
		}

		audit := StatusAudit{
			BookingID:  booking.ID,
			FromStatus: "",
			ToStatus:   booking.Status,
			Actor:      "customer",
		}
		if err := tx.Create(&audit).Error; err != nil {
			return fmt.Errorf("failed to record audit: %w", err)
		}
		return nil
	})
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Showtime").
		Preload("Showtime.Movie").
		Preload("Showtime.Theater").
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("booking not found")
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

// GetByContact finds the most recent booking for an email, falling back to
// phone when the email has none.
func (r *repository) GetByContact(ctx context.Context, email, phone string) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Where("customer_email = ?", email).
		Order("created_at DESC").
		First(&booking).Error
	if err == nil {
		return &booking, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if phone == "" {
		return nil, fmt.Errorf("booking not found")
	}
	err = r.db.WithContext(ctx).
		Where("customer_phone = ?", phone).
		Order("created_at DESC").
		First(&booking).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("booking not found")
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

func (r *repository) GetAll(ctx context.Context, status Status) ([]Booking, error) {
	var bookings []Booking
	query := r.db.WithContext(ctx).
		Preload("Showtime").
		Preload("Showtime.Movie").
		Preload("Showtime.Theater").
		Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// UpdateStatus applies the transition and its audit row atomically.
func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, updates map[string]interface{}, audit *StatusAudit) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Booking{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return fmt.Errorf("failed to update booking: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("booking not found")
		}
		if audit != nil {
			if err := tx.Create(audit).Error; err != nil {
				return fmt.Errorf("failed to record audit: %w", err)
			}
		}
		return nil
	})
}

// BookedSeats implements the occupancy source consumed by the seat engine.
func (r *repository) BookedSeats(ctx context.Context, showtimeID uuid.UUID) (seats.BookedPartition, error) {
	var partition seats.BookedPartition
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Select("seats", "status").
		Where("showtime_id = ? AND status IN ?", showtimeID, UnavailableStatuses()).
		Find(&bookings).Error
	if err != nil {
		return partition, fmt.Errorf("failed to load booked seats: %w", err)
	}

	for _, b := range bookings {
		switch b.Status {
		case StatusPendingPayment, StatusPendingVerification:
			partition.PendingPayment = append(partition.PendingPayment, b.Seats...)
		case StatusPendingApproval:
			partition.PendingApproval = append(partition.PendingApproval, b.Seats...)
		case StatusApproved:
			partition.Approved = append(partition.Approved, b.Seats...)
		case StatusConfirmed:
			partition.Confirmed = append(partition.Confirmed, b.Seats...)
		}
	}
	return partition, nil
}

func (r *repository) GetStats(ctx context.Context) (*BookingStats, error) {
	stats := &BookingStats{}
	db := r.db.WithContext(ctx).Model(&Booking{})

	if err := db.Count(&stats.TotalBookings).Error; err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}

	type statusCount struct {
		Status Status
		Count  int64
	}
	var counts []statusCount
	err := r.db.WithContext(ctx).Model(&Booking{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group bookings: %w", err)
	}
	for _, c := range counts {
		switch c.Status {
		case StatusPendingApproval:
			stats.PendingApproval = c.Count
		case StatusApproved:
			stats.Approved = c.Count
		case StatusConfirmed:
			stats.Confirmed = c.Count
		case StatusAdminRejected:
			stats.Rejected = c.Count
		case StatusCancelled:
			stats.Cancelled = c.Count
		}
	}

	type revenueRow struct {
		Revenue int64
		Seats   int64
	}
	var rev revenueRow
	err = r.db.WithContext(ctx).Model(&Booking{}).
		Select("COALESCE(SUM(total_amount), 0) as revenue, COALESCE(SUM(jsonb_array_length(seats)), 0) as seats").
		Where("status IN ?", []Status{StatusApproved, StatusConfirmed}).
		Scan(&rev).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	stats.TotalRevenue = rev.Revenue
	stats.TotalSeatsBooked = rev.Seats
	return stats, nil
}

func (r *repository) GetByShowtime(ctx context.Context, showtimeID uuid.UUID, statuses []Status) ([]Booking, error) {
	var bookings []Booking
	query := r.db.WithContext(ctx).Where("showtime_id = ?", showtimeID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	if err := query.Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings for showtime: %w", err)
	}
	return bookings, nil
}

func (r *repository) ListAudits(ctx context.Context, bookingID uuid.UUID) ([]StatusAudit, error) {
	var audits []StatusAudit
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at ASC").
		Find(&audits).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list audits: %w", err)
	}
	return audits, nil
}
