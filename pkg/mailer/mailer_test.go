package mailer

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/wneessen/go-mail"

	"github.com/distributeaid/shipment-tracker/pkg/config"
	"github.com/distributeaid/shipment-tracker/pkg/logger"
)

func TestConsoleLogsMessage(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Output: &buf})
	sender := NewConsole("no-reply@example.org", logg)

	err := sender.Send(context.Background(), Message{To: "captain@example.org", Subject: "Offer accepted", Body: "hello"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "captain@example.org") || !strings.Contains(out, "Offer accepted") {
		t.Fatalf("expected message in log output, got %s", out)
	}
}

func TestConsoleRejectsMissingRecipient(t *testing.T) {
	if err := NewConsole("a@b.c", nil).Send(context.Background(), Message{Subject: "x"}); err == nil {
		t.Fatal("expected missing recipient to fail")
	}
}

type fakeDialer struct {
	sent []*mail.Msg
	err  error
}

func (f *fakeDialer) DialAndSendWithContext(_ context.Context, messages ...*mail.Msg) error {
	f.sent = append(f.sent, messages...)
	return f.err
}

func TestSMTPBuildsMessage(t *testing.T) {
	dialer := &fakeDialer{}
	sender := &SMTP{from: "no-reply@example.org", client: dialer}

	if err := sender.Send(context.Background(), Message{To: "captain@example.org", Subject: "Shipment open", Body: "body"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(dialer.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(dialer.sent))
	}
	to := dialer.sent[0].GetToString()
	if len(to) != 1 || !strings.Contains(to[0], "captain@example.org") {
		t.Fatalf("unexpected recipients %v", to)
	}
}

func TestSMTPWrapsDialError(t *testing.T) {
	sender := &SMTP{from: "no-reply@example.org", client: &fakeDialer{err: errors.New("refused")}}
	err := sender.Send(context.Background(), Message{To: "captain@example.org", Subject: "s"})
	if err == nil || !strings.Contains(err.Error(), "refused") {
		t.Fatalf("expected dial error, got %v", err)
	}
}

func TestNewSelectsTransport(t *testing.T) {
	sender, err := New(config.EmailConfig{Transport: "console", From: "a@b.c"}, nil)
	if err != nil {
		t.Fatalf("new console: %v", err)
	}
	if _, ok := sender.(*Console); !ok {
		t.Fatalf("expected console sender, got %T", sender)
	}

	sender, err = New(config.EmailConfig{Transport: "smtp", From: "a@b.c", SMTPHost: "smtp.example.org", SMTPPort: 587}, nil)
	if err != nil {
		t.Fatalf("new smtp: %v", err)
	}
	if _, ok := sender.(*SMTP); !ok {
		t.Fatalf("expected smtp sender, got %T", sender)
	}
}
