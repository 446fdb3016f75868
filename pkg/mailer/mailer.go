// Package mailer delivers plain text email through SMTP, or writes it to the
// log when running with the console transport.
package mailer

import (
	"context"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"

	"github.com/distributeaid/shipment-tracker/pkg/config"
	"github.com/distributeaid/shipment-tracker/pkg/logger"
)

// Message is a single plain text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// New picks the transport configured in cfg.
func New(cfg config.EmailConfig, logg *logger.Logger) (Sender, error) {
	if cfg.UsesSMTP() {
		return NewSMTP(cfg)
	}
	return NewConsole(cfg.From, logg), nil
}

func (m Message) validate() error {
	if strings.TrimSpace(m.To) == "" {
		return fmt.Errorf("recipient is required")
	}
	if strings.TrimSpace(m.Subject) == "" {
		return fmt.Errorf("subject is required")
	}
	return nil
}

// Console logs every message instead of sending it.
type Console struct {
	from string
	logg *logger.Logger
}

func NewConsole(from string, logg *logger.Logger) *Console {
	return &Console{from: from, logg: logg}
}

func (c *Console) Send(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}
	if c.logg == nil {
		return nil
	}
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"mail_from":    c.from,
		"mail_to":      msg.To,
		"mail_subject": msg.Subject,
		"mail_body":    msg.Body,
	})
	c.logg.Info(logCtx, "email (console transport)")
	return nil
}

type smtpDialer interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// SMTP sends mail through the configured relay.
type SMTP struct {
	from   string
	client smtpDialer
}

func NewSMTP(cfg config.EmailConfig) (*SMTP, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.SMTPPort),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.SMTPSecure {
		opts = append(opts, mail.WithSSLPort(false))
	}
	if cfg.SMTPUser != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTPUser),
			mail.WithPassword(cfg.SMTPPassword),
		)
	}
	client, err := mail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating smtp client: %w", err)
	}
	return &SMTP{from: cfg.From, client: client}, nil
}

func (s *SMTP) Send(ctx context.Context, msg Message) error {
	built, err := s.build(msg)
	if err != nil {
		return err
	}
	if err := s.client.DialAndSendWithContext(ctx, built); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	return nil
}

func (s *SMTP) build(msg Message) (*mail.Msg, error) {
	if err := msg.validate(); err != nil {
		return nil, err
	}
	m := mail.NewMsg()
	if err := m.From(s.from); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", s.from, err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)
	return m, nil
}
