package email

import (
	"fmt"
	"net/smtp"
)

// Mailer sends plain text email over SMTP. A nil Mailer (no SMTP host
// configured) means mail is disabled.
type Mailer struct {
	host     string
	port     string
	sender   string
	password string
}

// NewMailer returns a Mailer, or nil when host is empty.
func NewMailer(host, port, sender, password string) *Mailer {
	if host == "" {
		return nil
	}
	return &Mailer{
		host:     host,
		port:     port,
		sender:   sender,
		password: password,
	}
}

// Send sends a plain text email using SMTP.
func (m *Mailer) Send(to, subject, body string) error {
	auth := smtp.PlainAuth("", m.sender, m.password, m.host)

	msg := []byte("To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" + body + "\r\n")

	address := m.host + ":" + m.port

	if err := smtp.SendMail(address, auth, m.sender, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}
