package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer sends a single plain-text email. Delivery is best-effort; callers
// log failures and move on.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Disabled is the mailer used when no SMTP credentials are configured. Every
// send fails so callers log the skipped delivery.
type Disabled struct{}

func (Disabled) Send(_ context.Context, to, _, _ string) error {
	return fmt.Errorf("smtp not configured, dropping mail to %s", to)
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
}

// NewSMTPMailer creates a mailer for the given relay. The username doubles as
// the From address.
func NewSMTPMailer(host string, port int, username, password string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, username: username, password: password}
}

func (m *SMTPMailer) Send(_ context.Context, to, subject, body string) error {
	if !strings.Contains(to, "@") {
		return fmt.Errorf("invalid email address: %s", to)
	}

	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\n\r\n%s\r\n", to, subject, body))
	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	if err := smtp.SendMail(addr, auth, m.username, []string{to}, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
