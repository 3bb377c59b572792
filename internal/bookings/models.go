package bookings

import (
	"time"

	"github.com/google/uuid"

	"cinebook/internal/shared/types"
	"cinebook/internal/showtimes"
)

// Booking is one customer's claim on a set of seats for a showtime. Seats are
// stored denormalized as a JSON list; seat level conflict checks go through
// the availability partition, not through this table alone.
type Booking struct {
	ID            uuid.UUID        `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ShowtimeID    uuid.UUID        `json:"showtime_id" gorm:"type:uuid;not null;index:idx_bookings_showtime_status"`
	CustomerName  string           `json:"customer_name" gorm:"size:255;not null"`
	CustomerEmail string           `json:"customer_email" gorm:"size:255;not null;index"`
	CustomerPhone string           `json:"customer_phone" gorm:"size:32;index"`
	Seats         types.StringList `json:"seats" gorm:"type:jsonb;not null"`
	TotalAmount   int64            `json:"total_amount" gorm:"not null"`
	Status        Status           `json:"status" gorm:"size:32;not null;index:idx_bookings_showtime_status"`
	PaymentProof  string           `json:"payment_proof,omitempty" gorm:"size:512"`
	AdminRemarks  string           `json:"admin_remarks,omitempty" gorm:"size:1024"`
	UpdatedBy     string           `json:"updated_by,omitempty" gorm:"size:128"`
	CreatedAt     time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time        `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Showtime *showtimes.Showtime `json:"showtime,omitempty" gorm:"foreignKey:ShowtimeID;constraint:OnDelete:RESTRICT;"`
}

// TableName specifies the table name for GORM
func (Booking) TableName() string {
	return "bookings"
}

// StatusAudit records every lifecycle change, including forced overrides.
type StatusAudit struct {
	ID         uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	BookingID  uuid.UUID `json:"booking_id" gorm:"type:uuid;not null;index"`
	FromStatus Status    `json:"from_status" gorm:"size:32;not null"`
	ToStatus   Status    `json:"to_status" gorm:"size:32;not null"`
	Actor      string    `json:"actor" gorm:"size:128;not null"`
	Forced     bool      `json:"forced" gorm:"default:false"`
	Remarks    string    `json:"remarks,omitempty" gorm:"size:1024"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (StatusAudit) TableName() string {
	return "booking_status_audits"
}

type CreateBookingRequest struct {
	ShowtimeID    string   `json:"showtime_id" binding:"required,uuid"`
	HolderID      string   `json:"holder_id" binding:"omitempty,min=8,max=64"`
	CustomerName  string   `json:"customer_name" binding:"required,min=2,max=255"`
	CustomerEmail string   `json:"customer_email" binding:"required,email"`
	CustomerPhone string   `json:"customer_phone" binding:"omitempty,min=6,max=32"`
	Seats         []string `json:"seats" binding:"required,min=1,max=10,dive,seatid"`
}

// VerifyPaymentRequest identifies the booking by contact rather than id so
// the customer only needs the code from their inbox. Email wins when both are
// present.
type VerifyPaymentRequest struct {
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone" binding:"omitempty,min=6,max=32"`
	Code  string `json:"code" binding:"required,len=6,numeric"`
}

type AdminDecisionRequest struct {
	Action  string `json:"action" binding:"required,oneof=approve reject"`
	Remarks string `json:"remarks" binding:"omitempty,max=1024"`
}

// ForceStatusRequest is the audited escape hatch that skips lifecycle
// validation entirely.
type ForceStatusRequest struct {
	Status  string `json:"status" binding:"required"`
	Remarks string `json:"remarks" binding:"required,min=3,max=1024"`
}

type BookingStats struct {
	TotalBookings    int64 `json:"total_bookings"`
	PendingApproval  int64 `json:"pending_approval"`
	Approved         int64 `json:"approved"`
	Confirmed        int64 `json:"confirmed"`
	Rejected         int64 `json:"rejected"`
	Cancelled        int64 `json:"cancelled"`
	TotalRevenue     int64 `json:"total_revenue"`
	TotalSeatsBooked int64 `json:"total_seats_booked"`
}

type ShowtimeAnalytics struct {
	ShowtimeID    string  `json:"showtime_id"`
	Movie         string  `json:"movie"`
	ShowDate      string  `json:"show_date"`
	ShowTime      string  `json:"show_time"`
	SeatsSold     int     `json:"seats_sold"`
	SeatCapacity  int     `json:"seat_capacity"`
	OccupancyRate float64 `json:"occupancy_rate"`
	Revenue       int64   `json:"revenue"`
}
