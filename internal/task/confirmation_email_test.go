package task

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/fitlog-api/internal/platform/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg mail.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *recordingSender) messages() []mail.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]mail.Message(nil), s.sent...)
}

func newDeps(sender mail.Sender) *ConfirmationEmailDeps {
	return &ConfirmationEmailDeps{
		Sender:        sender,
		FrontendURL:   "https://fitlog.example.com",
		TokenLifetime: time.Hour,
	}
}

func TestConfirmationEmailTask_Execute(t *testing.T) {
	sender := &recordingSender{}
	task, err := NewConfirmationEmailTask(newDeps(sender), "user@example.com", "tok.en.sig")
	require.NoError(t, err)

	assert.Equal(t, TaskTypeConfirmationEmail, task.Type())
	assert.Equal(t, TaskStatusPending, task.Status())
	assert.Equal(t, "user@example.com", task.Recipient())

	var payload ConfirmationEmailPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, ConfirmationEmailPayload{Recipient: "user@example.com", Token: "tok.en.sig"}, payload)

	require.NoError(t, task.Execute(context.Background()))
	msgs := sender.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "user@example.com", msgs[0].To)
	assert.Contains(t, msgs[0].HTMLBody, "https://fitlog.example.com/auth/register_confirm?token=tok.en.sig")
	assert.Contains(t, msgs[0].HTMLBody, "1 hour")
}

func TestConfirmationEmailTask_SendError(t *testing.T) {
	sender := &recordingSender{err: errors.New("relay refused")}
	task, err := NewConfirmationEmailTask(newDeps(sender), "user@example.com", "tok")
	require.NoError(t, err)

	assert.ErrorContains(t, task.Execute(context.Background()), "relay refused")
}

func TestNewConfirmationEmailTask_Invalid(t *testing.T) {
	_, err := NewConfirmationEmailTask(nil, "user@example.com", "tok")
	assert.Error(t, err)

	_, err = NewConfirmationEmailTask(newDeps(&recordingSender{}), "", "tok")
	assert.Error(t, err)
}

func TestConfirmationEmailFactory(t *testing.T) {
	sender := &recordingSender{}
	deps := newDeps(sender)
	original, err := NewConfirmationEmailTask(deps, "new@example.com", "abc")
	require.NoError(t, err)

	registry := NewRegistry()
	registry.Register(TaskTypeConfirmationEmail, deps.Factory())

	rebuilt, err := registry.Rehydrate(Record{
		ID:      original.ID(),
		Type:    TaskTypeConfirmationEmail,
		Payload: original.Payload(),
		Status:  TaskStatusProcessing,
	})
	require.NoError(t, err)
	assert.Equal(t, original.ID(), rebuilt.ID())
	assert.Equal(t, TaskStatusProcessing, rebuilt.Status())

	require.NoError(t, rebuilt.Execute(context.Background()))
	require.Len(t, sender.messages(), 1)
	assert.Equal(t, "new@example.com", sender.messages()[0].To)

	_, err = registry.Rehydrate(Record{Type: TaskTypeConfirmationEmail, Payload: []byte("not json")})
	assert.Error(t, err)
}

func TestConfirmationMailer(t *testing.T) {
	store := newMemoryTaskStore()
	runner := NewTaskRunner(store, nil, TaskRunnerConfig{QueueSize: 1}, testLogger())
	mailer := NewConfirmationMailer(runner, newDeps(&recordingSender{}))

	require.NoError(t, mailer.EnqueueConfirmation(context.Background(), "user@example.com", "tok"))
	pending, err := store.GetPendingTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, TaskTypeConfirmationEmail, pending[0].Type)

	err = mailer.EnqueueConfirmation(context.Background(), "user@example.com", "tok")
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestHumanizeDuration(t *testing.T) {
	assert.Equal(t, "1 hour", humanizeDuration(time.Hour))
	assert.Equal(t, "24 hours", humanizeDuration(24*time.Hour))
	assert.Equal(t, "90 minutes", humanizeDuration(90*time.Minute))
	assert.Equal(t, "1 minute", humanizeDuration(time.Minute))
}
