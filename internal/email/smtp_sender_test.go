package email

import (
	"context"
	"net/mail"
	"strings"
	"testing"
	"time"
)

var rolledAt = time.Date(2024, 3, 9, 15, 4, 5, 0, time.UTC)

func TestComposeMessageHeaders(t *testing.T) {
	from := mail.Address{Name: "ClearScrub", Address: "noreply@clearscrub.io"}
	to := mail.Address{Address: "demo@clearscrub.io"}

	msg := string(composeMessage(from, to, notice{subject: "Hello", body: "line one\nline two\n"}, rolledAt))

	if !strings.HasPrefix(msg, "From: \"ClearScrub\" <noreply@clearscrub.io>\r\n") {
		t.Fatalf("unexpected from header: %q", msg)
	}
	if !strings.Contains(msg, "To: <demo@clearscrub.io>\r\n") || !strings.Contains(msg, "Subject: Hello\r\n") {
		t.Fatalf("missing headers: %q", msg)
	}
	if !strings.Contains(msg, "Date: Sat, 09 Mar 2024 15:04:05 +0000\r\n") {
		t.Fatalf("missing date header: %q", msg)
	}
	if !strings.HasSuffix(msg, "\r\n\r\nline one\r\nline two\r\n") {
		t.Fatalf("unexpected body: %q", msg)
	}
}

func TestComposeMessageEncodesNonASCIISubject(t *testing.T) {
	from := mail.Address{Address: "noreply@clearscrub.io"}
	to := mail.Address{Address: "demo@clearscrub.io"}

	msg := string(composeMessage(from, to, notice{subject: "Llave rotada ✓", body: "x"}, rolledAt))

	if !strings.Contains(msg, "Subject: =?utf-8?q?") {
		t.Fatalf("expected encoded subject: %q", msg)
	}
	if !strings.HasPrefix(msg, "From: <noreply@clearscrub.io>\r\n") {
		t.Fatalf("unexpected from header: %q", msg)
	}
}

func TestAPIKeyNotices(t *testing.T) {
	created := apiKeyCreatedNotice("CI", "cs_live_abcd...", rolledAt)
	if !strings.Contains(created.subject, "created") || !strings.Contains(created.body, "created on 2024-03-09T15:04:05Z") {
		t.Fatalf("unexpected created notice: %#v", created)
	}

	rolled := apiKeyRolledNotice("CI", "cs_live_ef01...", rolledAt)
	if !strings.Contains(rolled.subject, "rolled") {
		t.Fatalf("unexpected rolled subject: %q", rolled.subject)
	}
	if !strings.Contains(rolled.body, "rolled on 2024-03-09T15:04:05Z") || !strings.Contains(rolled.body, "cs_live_ef01...") {
		t.Fatalf("unexpected rolled body: %q", rolled.body)
	}
	if strings.Contains(rolled.body, "was created") {
		t.Fatalf("rolled notice must not read as a creation notice: %q", rolled.body)
	}
}

func TestDisabledSender(t *testing.T) {
	sender := NewDisabledSender("smtp not configured")
	if err := sender.SendAPIKeyCreated(context.Background(), "demo@clearscrub.io", "CI", "cs_live_abcd...", time.Now()); err == nil || !strings.Contains(err.Error(), "smtp not configured") {
		t.Fatalf("expected disabled sender error, got %v", err)
	}
	if err := sender.SendAPIKeyRolled(context.Background(), "demo@clearscrub.io", "CI", "cs_live_abcd...", time.Now()); err == nil {
		t.Fatalf("expected disabled sender error on roll notice")
	}
}

func TestNewSMTPSenderValidation(t *testing.T) {
	if _, err := NewSMTPSender(SMTPConfig{From: "noreply@clearscrub.io"}); err == nil {
		t.Fatalf("expected error without host")
	}
	if _, err := NewSMTPSender(SMTPConfig{Host: "smtp.example.com"}); err == nil {
		t.Fatalf("expected error without from")
	}
	if _, err := NewSMTPSender(SMTPConfig{Host: "smtp.example.com", From: "not an address"}); err == nil {
		t.Fatalf("expected error for malformed from")
	}

	sender, err := NewSMTPSender(SMTPConfig{Host: "smtp.example.com", From: "noreply@clearscrub.io", FromName: " ClearScrub "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sender.cfg.Port != 587 || sender.addr() != "smtp.example.com:587" {
		t.Fatalf("expected default port 587, got %q", sender.addr())
	}
	if sender.from.Name != "ClearScrub" || sender.auth() != nil {
		t.Fatalf("unexpected sender setup: %#v", sender.from)
	}
	if err := sender.SendAPIKeyCreated(context.Background(), " ", "CI", "cs_live_abcd...", time.Now()); err == nil {
		t.Fatalf("expected error without recipient")
	}
	if err := sender.SendAPIKeyRolled(context.Background(), "nobody", "CI", "cs_live_abcd...", time.Now()); err == nil {
		t.Fatalf("expected error for malformed recipient")
	}
}
