package smtp

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/school-directory/internal/config"
)

// sendFunc matches smtp.SendMail so tests can capture outgoing messages.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer delivers HTML email through an SMTP relay.
type Mailer struct {
	host     string
	port     string
	from     string
	fromName string
	username string
	password string
	send     sendFunc
}

func NewMailer(cfg *config.Config) *Mailer {
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUsername
	}
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     from,
		fromName: cfg.SMTPFromName,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		send:     smtp.SendMail,
	}
}

func (m *Mailer) SendEmail(ctx context.Context, to, subject, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	addr := fmt.Sprintf("%s:%s", m.host, m.port)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	if err := m.send(addr, auth, m.from, []string{to}, m.buildMessage(to, subject, html)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (m *Mailer) buildMessage(to, subject, html string) []byte {
	var b strings.Builder
	if m.fromName != "" {
		fmt.Fprintf(&b, "From: %q <%s>\r\n", m.fromName, m.from)
	} else {
		fmt.Fprintf(&b, "From: %s\r\n", m.from)
	}
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(html)
	return []byte(b.String())
}
