package mailer

import (
	"fmt"

	"github.com/taskhive/task-manager-api/internal/config"
	"gopkg.in/gomail.v2"
)

// SMTPMailer sends plain-text mail through the configured SMTP relay.
type SMTPMailer struct {
	cfg *config.Config
}

// NewSMTPMailer creates an SMTP-backed Mailer.
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	if m.cfg.SMTPHost == "" || m.cfg.SMTPUser == "" {
		return fmt.Errorf("smtp config missing")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.SMTPFrom)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	d := gomail.NewDialer(m.cfg.SMTPHost, m.cfg.SMTPPort, m.cfg.SMTPUser, m.cfg.SMTPPassword)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
