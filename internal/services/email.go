package services

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// EmailSender is the outbound email transport used for guardian alerts.
type EmailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMTPMailer sends through a plain SMTP relay with AUTH.
type SMTPMailer struct {
	host string
	port string
	user string
	pass string
	from string
}

func NewSMTPMailer(host, port, user, pass, from string) *SMTPMailer {
	if from == "" {
		from = user
	}
	return &SMTPMailer{host: host, port: port, user: user, pass: pass, from: from}
}

// Send delivers a single HTML message. The SMTP dialogue runs in its own
// goroutine so the caller's deadline bounds the wait; a timed-out delivery
// counts as a failure even if the relay eventually accepts it.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if m.user == "" || m.pass == "" {
		return fmt.Errorf("smtp: credentials not configured")
	}

	var msg strings.Builder
	msg.WriteString("From: \"Raksha Alerts\" <" + m.from + ">\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	auth := smtp.PlainAuth("", m.user, m.pass, m.host)
	addr := m.host + ":" + m.port

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg.String()))
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
