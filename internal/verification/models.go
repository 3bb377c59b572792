package verification

import (
	"time"

	"github.com/google/uuid"
)

// VerificationCode is a single use numeric code tied to one email and one
// booking. At most one live code exists per email; issuing a new one replaces
// the previous.
type VerificationCode struct {
	ID        uint      `json:"-" gorm:"primaryKey;autoIncrement"`
	Email     string    `json:"email" gorm:"size:255;not null;index"`
	Code      string    `json:"-" gorm:"size:6;not null"`
	BookingID uuid.UUID `json:"booking_id" gorm:"type:uuid;not null;index"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (VerificationCode) TableName() string {
	return "verification_codes"
}
