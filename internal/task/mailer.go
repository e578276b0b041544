package task

import (
	"context"
	"fmt"
)

// Submitter accepts tasks for background execution.
type Submitter interface {
	Submit(ctx context.Context, task Task) error
}

// ConfirmationMailer queues confirmation emails on a Submitter.
type ConfirmationMailer struct {
	submitter Submitter
	deps      *ConfirmationEmailDeps
}

// NewConfirmationMailer creates a ConfirmationMailer.
func NewConfirmationMailer(submitter Submitter, deps *ConfirmationEmailDeps) *ConfirmationMailer {
	return &ConfirmationMailer{submitter: submitter, deps: deps}
}

// EnqueueConfirmation persists and queues a confirmation email for recipient.
// It returns once the job is stored; delivery happens later.
func (m *ConfirmationMailer) EnqueueConfirmation(ctx context.Context, recipient, token string) error {
	t, err := NewConfirmationEmailTask(m.deps, recipient, token)
	if err != nil {
		return err
	}
	if err := m.submitter.Submit(ctx, t); err != nil {
		return fmt.Errorf("failed to queue confirmation email: %w", err)
	}
	return nil
}
