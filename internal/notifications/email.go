package notifications

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"cinebook/internal/shared/config"
)

// EmailSender delivers rendered notifications over SMTP.
type EmailSender interface {
	Send(ctx context.Context, notification EmailNotification) error
}

// SettingsSource reports the operator's live notification preferences.
// Implemented by the settings service, so a PUT /admin/settings changes the
// admin recipient and the on/off switch without a restart.
type SettingsSource interface {
	NotificationSettings(ctx context.Context) (adminEmail string, enabled bool, err error)
}

type smtpSender struct {
	dialer     *gomail.Dialer
	fromEmail  string
	fromName   string
	adminEmail string
	settings   SettingsSource
	templates  map[Type]*template.Template
}

func NewSMTPSender(cfg *config.Config, settings SettingsSource) (EmailSender, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	return &smtpSender{
		dialer:     gomail.NewDialer(cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.SMTPUsername, cfg.Email.SMTPPassword),
		fromEmail:  cfg.Email.FromEmail,
		fromName:   cfg.Email.FromName,
		adminEmail: cfg.Email.AdminEmail,
		settings:   settings,
		templates:  templates,
	}, nil
}

func (s *smtpSender) Send(ctx context.Context, notification EmailNotification) error {
	m, deliver, err := s.compose(ctx, notification)
	if err != nil || !deliver {
		return err
	}
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send %s email: %w", notification.Type, err)
	}
	return nil
}

// compose renders the message and resolves the recipient. deliver comes back
// false when the operator has switched notifications off.
func (s *smtpSender) compose(ctx context.Context, notification EmailNotification) (*gomail.Message, bool, error) {
	adminEmail := s.adminEmail
	if s.settings != nil {
		settingsEmail, enabled, err := s.settings.NotificationSettings(ctx)
		if err == nil {
			if !enabled {
				return nil, false, nil
			}
			if settingsEmail != "" {
				adminEmail = settingsEmail
			}
		}
	}

	tmpl, ok := s.templates[notification.Type]
	if !ok {
		return nil, false, fmt.Errorf("no template for notification type %q", notification.Type)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, notification.Data); err != nil {
		return nil, false, fmt.Errorf("failed to render %s email: %w", notification.Type, err)
	}

	recipient := notification.Recipient
	if recipient == "" {
		recipient = adminEmail
	}
	if recipient == "" {
		return nil, false, fmt.Errorf("notification %q has no recipient", notification.Type)
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.fromEmail, s.fromName)
	m.SetHeader("To", recipient)
	m.SetHeader("Subject", subjectFor(notification.Type))
	m.SetBody("text/html", body.String())
	return m, true, nil
}

func subjectFor(t Type) string {
	switch t {
	case TypeOTPIssued:
		return "Your payment verification code"
	case TypeBookingPendingApproval:
		return "Booking awaiting approval"
	case TypeBookingApproved:
		return "Your booking has been approved"
	case TypeBookingRejected:
		return "Update on your booking"
	}
	return "Booking notification"
}

func parseTemplates() (map[Type]*template.Template, error) {
	sources := map[Type]string{
		TypeOTPIssued: `<p>Hi {{.customer_name}},</p>
<p>Your payment verification code is <strong>{{.code}}</strong>.</p>
<p>It expires in 5 minutes. If you did not request this, ignore this email.</p>`,
		TypeBookingPendingApproval: `<p>Booking <strong>{{.booking_id}}</strong> is waiting for review.</p>
<p>Customer: {{.customer_name}} ({{.customer_email}})<br>
Seats: {{range $i, $s := .seats}}{{if $i}}, {{end}}{{$s}}{{end}}<br>
Amount: Rp {{.total_amount}}</p>`,
		TypeBookingApproved: `<p>Hi {{.customer_name}},</p>
<p>Your booking <strong>{{.booking_id}}</strong> has been approved.</p>
<p>Seats: {{range $i, $s := .seats}}{{if $i}}, {{end}}{{$s}}{{end}}</p>
<p>See you at the show!</p>`,
		TypeBookingRejected: `<p>Hi {{.customer_name}},</p>
<p>Unfortunately your booking <strong>{{.booking_id}}</strong> was not approved.</p>
{{if .remarks}}<p>Reason: {{.remarks}}</p>{{end}}
<p>Any payment made will be refunded.</p>`,
	}

	templates := make(map[Type]*template.Template, len(sources))
	for typ, src := range sources {
		tmpl, err := template.New(string(typ)).Parse(src)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", typ, err)
		}
		templates[typ] = tmpl
	}
	return templates, nil
}
