package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/fitlog-api/internal/platform/mail"
)

// TaskTypeConfirmationEmail identifies confirmation email tasks.
const TaskTypeConfirmationEmail = "confirmation_email"

// ConfirmationEmailPayload is the persisted form of a confirmation email job.
type ConfirmationEmailPayload struct {
	Recipient string `json:"recipient"`
	Token     string `json:"token"`
}

// ConfirmationEmailDeps are the collaborators shared by every confirmation
// email task.
type ConfirmationEmailDeps struct {
	Sender        mail.Sender
	FrontendURL   string
	TokenLifetime time.Duration
}

// ConfirmationEmailTask renders and sends one confirmation email.
type ConfirmationEmailTask struct {
	id      uuid.UUID
	payload ConfirmationEmailPayload
	raw     []byte
	status  TaskStatus
	deps    *ConfirmationEmailDeps
}

var _ Task = (*ConfirmationEmailTask)(nil)

// NewConfirmationEmailTask creates a pending task that mails token to recipient.
func NewConfirmationEmailTask(deps *ConfirmationEmailDeps, recipient, token string) (*ConfirmationEmailTask, error) {
	if deps == nil || deps.Sender == nil {
		return nil, errors.New("confirmation email task requires a mail sender")
	}
	if recipient == "" || token == "" {
		return nil, errors.New("confirmation email task requires a recipient and a token")
	}

	payload := ConfirmationEmailPayload{Recipient: recipient, Token: token}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode confirmation email payload: %w", err)
	}

	return &ConfirmationEmailTask{
		id:      uuid.New(),
		payload: payload,
		raw:     raw,
		status:  TaskStatusPending,
		deps:    deps,
	}, nil
}

// ID implements Task.
func (t *ConfirmationEmailTask) ID() uuid.UUID { return t.id }

// Type implements Task.
func (t *ConfirmationEmailTask) Type() string { return TaskTypeConfirmationEmail }

// Payload implements Task.
func (t *ConfirmationEmailTask) Payload() []byte { return t.raw }

// Status implements Task.
func (t *ConfirmationEmailTask) Status() TaskStatus { return t.status }

// Recipient returns the address the email is sent to.
func (t *ConfirmationEmailTask) Recipient() string { return t.payload.Recipient }

// Execute implements Task.
func (t *ConfirmationEmailTask) Execute(ctx context.Context) error {
	msg, err := mail.ConfirmationMessage(
		t.payload.Recipient,
		t.deps.FrontendURL,
		t.payload.Token,
		humanizeDuration(t.deps.TokenLifetime),
	)
	if err != nil {
		return err
	}
	if err := t.deps.Sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}
	return nil
}

// Factory returns the Registry factory for confirmation email tasks.
func (d *ConfirmationEmailDeps) Factory() Factory {
	return func(rec Record) (Task, error) {
		var payload ConfirmationEmailPayload
		if err := json.Unmarshal(rec.Payload, &payload); err != nil {
			return nil, fmt.Errorf("invalid confirmation email payload: %w", err)
		}
		return &ConfirmationEmailTask{
			id:      rec.ID,
			payload: payload,
			raw:     rec.Payload,
			status:  rec.Status,
			deps:    d,
		}, nil
	}
}

func humanizeDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "a short while"
	case d == time.Hour:
		return "1 hour"
	case d%time.Hour == 0:
		return fmt.Sprintf("%d hours", int(d/time.Hour))
	case d == time.Minute:
		return "1 minute"
	default:
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	}
}
