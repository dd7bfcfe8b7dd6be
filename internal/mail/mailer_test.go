package mail

import (
	"context"
	"errors"
	"testing"

	"pawhaven/internal/config"

	"github.com/stretchr/testify/assert"
)

type failingMailer struct {
	calls int
}

func (m *failingMailer) Send(context.Context, string, string, string) error {
	m.calls++
	return errors.New("relay unreachable")
}

func TestNewFromConfig(t *testing.T) {
	noop := NewFromConfig(&config.Config{})
	assert.IsType(t, NoopMailer{}, noop)

	smtp := NewFromConfig(&config.Config{
		SMTPHost: "smtp.example.com",
		SMTPPort: "587",
		SMTPFrom: "noreply@pawhaven.dev",
	})
	assert.IsType(t, &SMTPMailer{}, smtp)
}

func TestSMTPMailer_EmptyRecipientIsNoop(t *testing.T) {
	m := &SMTPMailer{addr: "smtp.invalid:587", host: "smtp.invalid", from: "noreply@pawhaven.dev"}
	assert.NoError(t, m.Send(context.Background(), "", "subject", "<p>body</p>"))
}

func TestSendBestEffort_SwallowsFailures(t *testing.T) {
	m := &failingMailer{}
	SendBestEffort(context.Background(), m, "jane@example.com", "subject", "<p>body</p>")
	assert.Equal(t, 1, m.calls)

	// A nil mailer is tolerated.
	SendBestEffort(context.Background(), nil, "jane@example.com", "subject", "<p>body</p>")
}
