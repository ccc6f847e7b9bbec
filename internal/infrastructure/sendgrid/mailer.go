package sendgrid

import (
	"context"
	"fmt"

	"github.com/school-directory/internal/config"
	"github.com/sendgrid/rest"
	sg "github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type client interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// Mailer delivers HTML email through the SendGrid v3 mail API.
type Mailer struct {
	client   client
	from     string
	fromName string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		client:   sg.NewSendClient(cfg.SendGridAPIKey),
		from:     cfg.SMTPFrom,
		fromName: cfg.SMTPFromName,
	}
}

func (m *Mailer) SendEmail(ctx context.Context, to, subject, html string) error {
	msg := mail.NewSingleEmail(
		mail.NewEmail(m.fromName, m.from),
		subject,
		mail.NewEmail("", to),
		"",
		html,
	)
	resp, err := m.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
