// Package mail provides best-effort email delivery. Sends never block
// a primary operation: callers log and swallow failures.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"pawhaven/internal/config"
	"pawhaven/internal/middleware"
	"pawhaven/internal/observability"
)

// Mailer sends a single HTML email.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

// NewFromConfig returns an SMTP mailer when SMTP_HOST is configured,
// otherwise a no-op mailer so development runs without a mail relay.
func NewFromConfig(cfg *config.Config) Mailer {
	if cfg.SMTPHost == "" {
		middleware.Logger.Info("SMTP_HOST not set, using no-op mailer")
		return NoopMailer{}
	}
	return &SMTPMailer{
		addr:     cfg.SMTPHost + ":" + cfg.SMTPPort,
		host:     cfg.SMTPHost,
		username: cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.SMTPFrom,
	}
}

// NoopMailer discards every message.
type NoopMailer struct{}

func (NoopMailer) Send(context.Context, string, string, string) error { return nil }

// SMTPMailer delivers mail through a single SMTP relay.
type SMTPMailer struct {
	addr     string
	host     string
	username string
	password string
	from     string
}

func (m *SMTPMailer) Send(_ context.Context, to, subject, html string) error {
	if to == "" {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(html)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	if err := smtp.SendMail(m.addr, auth, m.from, []string{to}, []byte(b.String())); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

// SendBestEffort sends through the mailer, logging and swallowing any
// failure. It is the delivery mode for every notification email.
func SendBestEffort(ctx context.Context, m Mailer, to, subject, html string) {
	if m == nil {
		return
	}
	if err := m.Send(ctx, to, subject, html); err != nil {
		observability.EmailSendFailures.Inc()
		middleware.Logger.WarnContext(ctx, "email send failed",
			slog.String("subject", subject), slog.String("error", err.Error()))
	}
}
