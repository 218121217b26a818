package notify

import (
	"io"
	"log/slog"
	"testing"

	"taskpilot/internal/config"
)

func TestSendVerificationCode_ConfigMissing(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	n := NewEmailNotifier(&config.EmailConfig{}, logger)
	if err := n.SendVerificationCode("a@x.com", "123456"); err == nil {
		t.Fatalf("expected error when smtp config missing")
	}
}

func TestSendVerificationCode_EmptyRecipient(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	n := NewEmailNotifier(&config.EmailConfig{
		SMTPHost:  "smtp.example.com",
		SMTPPort:  587,
		SMTPUser:  "mailer",
		SMTPPass:  "pass",
		FromEmail: "noreply@example.com",
	}, logger)
	if err := n.SendVerificationCode("   ", "123456"); err == nil {
		t.Fatalf("expected error for empty recipient")
	}
}
