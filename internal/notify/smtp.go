package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/config"
)

// SMTPSink delivers events to the operator inbox over an SMTP relay.
type SMTPSink struct {
	addr     string
	username string
	password string
	from     string
	to       string
	send     func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPSink builds a sink from the notify configuration. It returns nil
// when no relay address is configured; callers should fall back to LogSink.
func NewSMTPSink(cfg config.NotifyConfig) *SMTPSink {
	if strings.TrimSpace(cfg.SMTPAddr) == "" {
		return nil
	}
	return &SMTPSink{
		addr:     cfg.SMTPAddr,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.FromAddress,
		to:       cfg.ContactInbox,
		send:     smtp.SendMail,
	}
}

// Notify sends the event as a plain-text email. smtp.SendMail cannot be
// interrupted once started, so the send runs in a goroutine and a caller
// deadline on a stalled relay wins the race.
func (s *SMTPSink) Notify(ctx context.Context, event Event) error {
	var auth smtp.Auth
	if s.username != "" {
		host, _, _ := strings.Cut(s.addr, ":")
		auth = smtp.PlainAuth("", s.username, s.password, host)
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.from)
	fmt.Fprintf(&msg, "To: %s\r\n", s.to)
	if event.ReplyTo != "" {
		fmt.Fprintf(&msg, "Reply-To: %s\r\n", event.ReplyTo)
	}
	fmt.Fprintf(&msg, "Subject: %s\r\n", event.Subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(event.Body)

	done := make(chan error, 1)
	go func() {
		done <- s.send(s.addr, auth, s.from, []string{s.to}, []byte(msg.String()))
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("notify: smtp send: %w", ctx.Err())
	case errSend := <-done:
		if errSend != nil {
			return fmt.Errorf("notify: smtp send: %w", errSend)
		}
		return nil
	}
}
