// Package mailer defines the outbound email contract. Delivery providers
// live behind the Mailer interface; the engine only composes messages.
package mailer

import (
	"context"

	"go.uber.org/zap"
)

// Message is one outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer delivers a single message. Implementations must be safe for
// concurrent use.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer writes messages to the log instead of delivering them. It is
// the default transport for development and test environments.
type LogMailer struct {
	log *zap.Logger
}

// NewLogMailer returns a LogMailer writing through the given logger.
func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{log: log}
}

// Send logs the message and reports success.
func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.log.Info("outbound email (log transport)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("body_bytes", len(msg.HTML)),
	)
	return nil
}

var _ Mailer = (*LogMailer)(nil)
