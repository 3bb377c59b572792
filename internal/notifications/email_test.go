package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSettings struct {
	adminEmail string
	enabled    bool
	err        error
}

func (s *stubSettings) NotificationSettings(ctx context.Context) (string, bool, error) {
	return s.adminEmail, s.enabled, s.err
}

func newTestSender(t *testing.T, settings SettingsSource) *smtpSender {
	t.Helper()
	templates, err := parseTemplates()
	require.NoError(t, err)
	return &smtpSender{
		fromEmail:  "noreply@cinebook.test",
		fromName:   "Cinebook",
		adminEmail: "fallback@cinebook.test",
		settings:   settings,
		templates:  templates,
	}
}

func adminNotification() EmailNotification {
	return EmailNotification{
		Type: TypeBookingPendingApproval,
		Data: map[string]interface{}{
			"booking_id":     "bk-1",
			"customer_name":  "Jane",
			"customer_email": "jane@example.com",
			"seats":          []string{"G3"},
			"total_amount":   50000,
		},
	}
}

func TestCompose(t *testing.T) {
	ctx := context.Background()

	t.Run("ToggleOffSkipsDelivery", func(t *testing.T) {
		sender := newTestSender(t, &stubSettings{adminEmail: "ops@cinebook.test", enabled: false})

		m, deliver, err := sender.compose(ctx, adminNotification())
		assert.NoError(t, err)
		assert.False(t, deliver)
		assert.Nil(t, m)
	})

	t.Run("AdminRecipientComesFromSettings", func(t *testing.T) {
		sender := newTestSender(t, &stubSettings{adminEmail: "ops@cinebook.test", enabled: true})

		m, deliver, err := sender.compose(ctx, adminNotification())
		require.NoError(t, err)
		assert.True(t, deliver)
		assert.Equal(t, []string{"ops@cinebook.test"}, m.GetHeader("To"))
	})

	t.Run("FallsBackToConfigWhenSettingsUnreadable", func(t *testing.T) {
		sender := newTestSender(t, &stubSettings{err: errors.New("connection refused")})

		m, deliver, err := sender.compose(ctx, adminNotification())
		require.NoError(t, err)
		assert.True(t, deliver)
		assert.Equal(t, []string{"fallback@cinebook.test"}, m.GetHeader("To"))
	})

	t.Run("ExplicitRecipientWins", func(t *testing.T) {
		sender := newTestSender(t, &stubSettings{adminEmail: "ops@cinebook.test", enabled: true})

		n := EmailNotification{
			Type:      TypeOTPIssued,
			Recipient: "jane@example.com",
			Data:      map[string]interface{}{"customer_name": "Jane", "code": "123456"},
		}
		m, deliver, err := sender.compose(ctx, n)
		require.NoError(t, err)
		assert.True(t, deliver)
		assert.Equal(t, []string{"jane@example.com"}, m.GetHeader("To"))
	})

	t.Run("NoRecipientAnywhere", func(t *testing.T) {
		sender := newTestSender(t, &stubSettings{enabled: true})
		sender.adminEmail = ""

		_, _, err := sender.compose(ctx, adminNotification())
		assert.Error(t, err)
	})
}
