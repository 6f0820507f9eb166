package mail

import (
	"context"
	"strings"
	"testing"
)

func TestBuildMessageHeaders(t *testing.T) {
	m := NewSMTPMailer("smtp.test", 587, "user", "pass", "noreply@taskmasters.test")
	msg := m.buildMessage("alice@example.com", "Verify your email", "<p>123456</p>")

	for _, want := range []string{
		"From: Task Masters <noreply@taskmasters.test>\r\n",
		"To: alice@example.com\r\n",
		"Subject: Verify your email\r\n",
		"Content-Type: text/html; charset=\"utf-8\"\r\n",
		"\r\n\r\n<p>123456</p>",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestSendHonorsCanceledContext(t *testing.T) {
	m := NewSMTPMailer("smtp.invalid", 587, "", "", "noreply@taskmasters.test")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := m.SendVerificationCode(ctx, "a@b.com", "123456"); err == nil {
		t.Fatal("expected error with canceled context")
	}
}
