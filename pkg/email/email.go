package email

import (
	"fmt"
	"net/smtp"

	"github.com/aidynbek/account-service/internal/config"
	log "github.com/sirupsen/logrus"
)

// Mailer sends plain text email over SMTP.
type Mailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// NewMailer builds a Mailer from configuration. It returns nil when the SMTP
// settings are incomplete, which callers treat as "no notifier configured".
func NewMailer(cfg *config.Config) *Mailer {
	if !cfg.MailConfigured() {
		return nil
	}
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.SMTPSender,
	}
}

// Send delivers a plain text message to a single recipient.
func (m *Mailer) Send(to, subject, body string) error {
	msg := []byte("To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" + body + "\r\n")

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	address := m.host + ":" + m.port
	if err := smtp.SendMail(address, auth, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}

	log.WithField("to", to).Info("Email sent")
	return nil
}

// SendResetCode emails a one-time password reset code.
func (m *Mailer) SendResetCode(to, code string) error {
	body := fmt.Sprintf(
		"Your password reset code is: %s\n\nIt expires in 10 minutes. If you did not request a reset, ignore this message.",
		code,
	)
	return m.Send(to, "Password Reset Code", body)
}
