package notifications

import (
	"context"
	"time"
)

// Type identifies which email template a notification renders with.
type Type string

const (
	TypeOTPIssued              Type = "OTP_ISSUED"
	TypeBookingPendingApproval Type = "BOOKING_PENDING_APPROVAL"
	TypeBookingApproved        Type = "BOOKING_APPROVED"
	TypeBookingRejected        Type = "BOOKING_REJECTED"
)

// EmailNotification is the message shape published to Kafka. Recipient may be
// empty for admin facing types; the consumer routes those to the configured
// admin address.
type EmailNotification struct {
	Type      Type                   `json:"type"`
	Recipient string                 `json:"recipient,omitempty"`
	Data      map[string]interface{} `json:"data"`
	CreatedAt time.Time              `json:"created_at"`
}

// Publisher enqueues notifications for asynchronous delivery. Failures must
// never fail the request that triggered the notification.
type Publisher interface {
	Publish(ctx context.Context, notification EmailNotification) error
	Close() error
}
