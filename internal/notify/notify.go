// Package notify delivers the side effects that follow an admitted
// submission: operator email and analytics events. Each endpoint decides
// whether delivery failure is fatal for the request.
package notify

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// Event is one outbound notification.
type Event struct {
	Kind    string // Event kind, e.g. "contact" or "subscribe".
	Subject string // Email subject line.
	Body    string // Plain-text body.
	ReplyTo string // Submitter address for operator replies, may be empty.
}

// Sink delivers notification events.
type Sink interface {
	Notify(ctx context.Context, event Event) error
}

// LogSink writes events to the server log instead of delivering them.
// It is the fallback when no SMTP relay is configured.
type LogSink struct{}

// Notify logs the event and always succeeds.
func (LogSink) Notify(_ context.Context, event Event) error {
	log.WithFields(log.Fields{
		"kind":    event.Kind,
		"subject": event.Subject,
	}).Info("notification (log sink)")
	return nil
}
