package notifier

import (
	"context"
	"errors"
	"strings"

	"GoldSentinel/internal/retry"

	"gopkg.in/gomail.v2"
)

// ErrMissingCredentials is returned when sender, password or recipient is unset.
var ErrMissingCredentials = errors.New("email credentials missing")

// EmailNotifier sends plain-text mail over SMTP with STARTTLS.
type EmailNotifier struct {
	Sender     string
	Recipients []string
	dialer     *gomail.Dialer
	send       func(*gomail.Message) error
}

// NewEmailNotifier creates a notifier for the given SMTP account.
// recipients may be a comma-separated list.
func NewEmailNotifier(host string, port int, sender, password, recipients string) *EmailNotifier {
	e := &EmailNotifier{Sender: sender}
	for _, r := range strings.Split(recipients, ",") {
		if r = strings.TrimSpace(r); r != "" {
			e.Recipients = append(e.Recipients, r)
		}
	}
	if sender != "" && password != "" {
		e.dialer = gomail.NewDialer(host, port, sender, password)
		e.send = func(m *gomail.Message) error { return e.dialer.DialAndSend(m) }
	}
	return e
}

func (e *EmailNotifier) Name() string { return "email" }

// Send builds and delivers one message. Missing credentials fail without any network call.
func (e *EmailNotifier) Send(ctx context.Context, subject, body string) error {
	if e.send == nil || len(e.Recipients) == 0 {
		return retry.Permanent(ErrMissingCredentials)
	}
	if err := ctx.Err(); err != nil {
		return retry.Permanent(err)
	}
	return e.send(e.message(subject, body))
}

func (e *EmailNotifier) message(subject, body string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", e.Sender)
	m.SetHeader("To", e.Recipients...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return m
}
