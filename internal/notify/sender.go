package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"

	"recruit-backend/internal/shared/telemetry"
)

// Sender delivers a rendered email. Implementations are black boxes to the
// rest of the pipeline.
type Sender interface {
	Send(ctx context.Context, recipients []string, subject, htmlBody string) error
}

// SMTPConfig carries the SMTP credentials resolved at process start.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// SMTPSender delivers mail over SMTP using github.com/wneessen/go-mail.
type SMTPSender struct {
	client *mail.Client
	from   string
}

func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, errors.New("smtp host is required")
	}
	if strings.TrimSpace(cfg.From) == "" {
		return nil, errors.New("smtp from address is required")
	}
	port := cfg.Port
	if port == 0 {
		port = 587
	}

	opts := []mail.Option{
		mail.WithPort(port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}

	from := cfg.From
	if cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.FromName, cfg.From)
	}
	return &SMTPSender{client: client, from: from}, nil
}

func (s *SMTPSender) Send(ctx context.Context, recipients []string, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(recipients...); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// LogSender is the development fallback when no SMTP server is configured: it
// logs instead of delivering.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, recipients []string, subject, htmlBody string) error {
	_ = ctx
	telemetry.Info("notify.log_sender", map[string]any{
		"recipients": strings.Join(recipients, ","),
		"subject":    subject,
		"body_bytes": len(htmlBody),
	})
	return nil
}

var (
	_ Sender = (*SMTPSender)(nil)
	_ Sender = LogSender{}
)
