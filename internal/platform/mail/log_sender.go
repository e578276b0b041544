package mail

import (
	"context"
	"log/slog"
)

// LogSender writes messages to the log instead of delivering them. It is
// selected when no SMTP relay is configured.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a LogSender.
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger.With(slog.String("component", "log_sender"))}
}

// Send implements Sender.
func (s *LogSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	s.logger.InfoContext(ctx, "email delivery skipped, no smtp relay configured",
		slog.String("subject", msg.Subject),
		slog.Int("body_bytes", len(msg.HTMLBody)))
	s.logger.DebugContext(ctx, "email body", slog.String("html", msg.HTMLBody))
	return nil
}
