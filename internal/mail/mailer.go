package mail

import (
	"fmt"
	"net/smtp"
)

// Mailer is the outbound transport. Every error it returns is treated by
// the engine as a per-recipient bounce, never as a batch failure.
type Mailer interface {
	Send(to, subject, html, from string) error
}

// SMTPMailer sends HTML mail over plain SMTP.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
}

func NewSMTPMailer(host, port, username, password string) (*SMTPMailer, error) {
	if host == "" {
		return nil, fmt.Errorf("SMTP_HOST not set")
	}
	if port == "" {
		return nil, fmt.Errorf("SMTP_PORT not set")
	}
	return &SMTPMailer{host: host, port: port, username: username, password: password}, nil
}

func (s *SMTPMailer) Send(to, subject, html, from string) error {
	addr := fmt.Sprintf("%s:%s", s.host, s.port)

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	msg := []byte(
		"From: " + from + "\r\n" +
			"To: " + to + "\r\n" +
			"Subject: " + subject + "\r\n" +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=UTF-8\r\n" +
			"\r\n" +
			html,
	)

	if err := smtp.SendMail(addr, auth, from, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}
