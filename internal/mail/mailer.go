package mail

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer delivers transactional mail. Delivery is an external collaborator;
// services depend on this interface only.
type Mailer interface {
	SendVerification(to, link string) error
}

// SMTPMailer sends through a plain SMTP relay.
type SMTPMailer struct {
	addr string
	from string
}

// NewSMTPMailer creates a mailer for the given relay address ("host:port").
func NewSMTPMailer(addr, from string) *SMTPMailer {
	return &SMTPMailer{addr: addr, from: from}
}

// SendVerification mails the email verification link.
func (m *SMTPMailer) SendVerification(to, link string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	b.WriteString("Subject: Verify your email\r\n")
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "Confirm your email address by opening this link:\r\n\r\n%s\r\n", link)

	if err := smtp.SendMail(m.addr, nil, m.from, []string{to}, []byte(b.String())); err != nil {
		return fmt.Errorf("send verification mail: %w", err)
	}
	return nil
}
