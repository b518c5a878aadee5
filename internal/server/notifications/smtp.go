package notifications

import (
	"context"
	"fmt"
	"net/smtp"
)

// SMTPNotifier delivers mail through a plain SMTP relay.
type SMTPNotifier struct {
	addr string
	from string
	auth smtp.Auth
}

// sendMail is a seam for testing smtp.SendMail.
var sendMail = smtp.SendMail

// NewSMTPNotifier configures a notifier for the relay at addr
// (host:port). user may be empty for an unauthenticated relay.
func NewSMTPNotifier(addr, from, user, password, host string) *SMTPNotifier {
	var auth smtp.Auth
	if user != "" {
		auth = smtp.PlainAuth("", user, password, host)
	}
	return &SMTPNotifier{addr: addr, from: from, auth: auth}
}

func (n *SMTPNotifier) Welcome(ctx context.Context, email, name string) error {
	body := fmt.Sprintf("Hello %s, thanks for joining TaskVault. Get started!", name)
	return n.send(email, "Welcome to TaskVault", body)
}

func (n *SMTPNotifier) Goodbye(ctx context.Context, email, name string) error {
	body := fmt.Sprintf("Goodbye %s, hope to see you back sometime.", name)
	return n.send(email, "Sorry to see you go", body)
}

func (n *SMTPNotifier) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		n.from, to, subject, body)
	return sendMail(n.addr, n.auth, n.from, []string{to}, []byte(msg))
}
