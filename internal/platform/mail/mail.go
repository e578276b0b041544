package mail

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phrazzld/fitlog-api/internal/config"
)

// ErrNoRecipient is returned when a message has no recipient.
var ErrNoRecipient = errors.New("mail: message has no recipient")

// Message is a rendered email ready for delivery.
type Message struct {
	To       string
	Subject  string
	HTMLBody string
}

// Sender delivers a rendered message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NewSender returns an SMTP sender for cfg, or a LogSender when cfg.Host is
// empty.
func NewSender(cfg config.MailConfig, logger *slog.Logger) Sender {
	if cfg.Host == "" {
		return NewLogSender(logger)
	}
	return NewSMTPSender(cfg, logger)
}
