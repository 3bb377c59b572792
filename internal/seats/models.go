package seats

import (
	"time"

	"github.com/google/uuid"
)

// SeatHold is a short lived claim on a seat for one showtime. Expiry is never
// enforced by a background job, every read filters on expires_at instead, so a
// row past its deadline is simply invisible until some write sweeps it.
type SeatHold struct {
	ID         uint      `json:"-" gorm:"primaryKey;autoIncrement"`
	ShowtimeID uuid.UUID `json:"showtime_id" gorm:"type:uuid;not null;index:idx_holds_showtime"`
	SeatID     string    `json:"seat_id" gorm:"size:8;not null;index:idx_holds_showtime"`
	HolderID   string    `json:"holder_id" gorm:"size:64;not null;index"`
	HolderIP   string    `json:"-" gorm:"size:45;index"`
	ExpiresAt  time.Time `json:"expires_at" gorm:"not null;index"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (SeatHold) TableName() string {
	return "seat_holds"
}

// BookedPartition groups seats already attached to live bookings, keyed by how
// far along the booking pipeline they are. Rejected and cancelled bookings do
// not appear here at all.
type BookedPartition struct {
	PendingPayment  []string
	PendingApproval []string
	Approved        []string
	Confirmed       []string
}

// AvailabilityPartition is the full seat map for one showtime. Every seat in
// the auditorium lands in exactly one bucket; anything absent from all of them
// is free.
type AvailabilityPartition struct {
	ShowtimeID           string   `json:"showtime_id"`
	PendingPaymentSeats  []string `json:"pending_payment_seats"`
	PendingApprovalSeats []string `json:"pending_approval_seats"`
	ApprovedSeats        []string `json:"approved_seats"`
	ConfirmedSeats       []string `json:"confirmed_seats"`
	ReservedSeats        []string `json:"reserved_seats"`
	DisabledSeats        []string `json:"disabled_seats"`
}

// Unavailable flattens all occupied buckets except the caller's own holds.
func (p *AvailabilityPartition) Unavailable(ownHeld map[string]bool) map[string]bool {
	taken := make(map[string]bool)
	for _, bucket := range [][]string{
		p.PendingPaymentSeats,
		p.PendingApprovalSeats,
		p.ApprovedSeats,
		p.ConfirmedSeats,
		p.DisabledSeats,
	} {
		for _, seat := range bucket {
			taken[seat] = true
		}
	}
	for _, seat := range p.ReservedSeats {
		if !ownHeld[seat] {
			taken[seat] = true
		}
	}
	return taken
}

type ReserveSeatsRequest struct {
	ShowtimeID string   `json:"showtime_id" binding:"required,uuid"`
	HolderID   string   `json:"holder_id" binding:"required,min=8,max=64"`
	Seats      []string `json:"seats" binding:"required,min=1,max=10,dive,seatid"`
}

type ReleaseSeatsRequest struct {
	ShowtimeID string `json:"showtime_id" binding:"required,uuid"`
	HolderID   string `json:"holder_id" binding:"required,min=8,max=64"`
}

type ReserveSeatsResponse struct {
	ShowtimeID string    `json:"showtime_id"`
	Seats      []string  `json:"seats"`
	ExpiresAt  time.Time `json:"expires_at"`
}
