package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
)

// SMTPMailer delivers HTML mail over SMTP with STARTTLS. The caller's context
// bounds the whole exchange; a dead SMTP server never blocks a request past
// its deadline.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *SMTPMailer) SendVerificationCode(ctx context.Context, to, code string) error {
	subject := "Verify your email"
	body := fmt.Sprintf(`<div style="font-family: 'Open Sans', Arial, sans-serif; padding: 32px; max-width: 400px; margin: auto;">
  <h2 style="text-align: center;">Welcome to Task Masters!</h2>
  <p style="text-align: center;">To complete your registration, please enter the verification code below:</p>
  <div style="font-size: 28px; font-weight: bold; letter-spacing: 12px; text-align: center; margin: 18px 0;">%s</div>
  <p style="text-align: center; font-size: 14px;">If you did not request this, you can safely ignore this email.</p>
</div>`, code)
	return s.send(ctx, to, subject, body)
}

func (s *SMTPMailer) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	subject := "Reset your password"
	body := fmt.Sprintf(`<div style="font-family: 'Open Sans', Arial, sans-serif; padding: 32px; max-width: 400px; margin: auto;">
  <h2 style="text-align: center;">Reset Your Password</h2>
  <p style="text-align: center;">Click the link below to reset your password. This link is valid for 15 minutes.</p>
  <div style="text-align:center;margin:18px 0;"><a href="%s" target="_blank" rel="noopener noreferrer">Reset Password</a></div>
  <p style="text-align: center; font-size: 14px;">If you did not request this, you can safely ignore this email.</p>
</div>`, resetURL)
	return s.send(ctx, to, subject, body)
}

func (s *SMTPMailer) send(ctx context.Context, to, subject, body string) error {
	msg := s.buildMessage(to, subject, body)

	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connecting to SMTP server: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("creating SMTP client: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		tlsCfg := &tls.Config{ServerName: s.host}
		if err := client.StartTLS(tlsCfg); err != nil {
			return fmt.Errorf("STARTTLS: %w", err)
		}
	} else if s.port != 25 && s.port != 1025 {
		return fmt.Errorf("STARTTLS not available on port %d (required for secure auth)", s.port)
	}

	if s.username != "" && s.password != "" {
		auth := smtp.PlainAuth("", s.username, s.password, s.host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication: %w", err)
		}
	}

	if err := client.Mail(s.from); err != nil {
		return fmt.Errorf("SMTP MAIL command: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("SMTP RCPT command: %w", err)
	}

	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("SMTP DATA command: %w", err)
	}
	if _, err := wc.Write([]byte(msg)); err != nil {
		wc.Close()
		return fmt.Errorf("writing email body: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("closing email body: %w", err)
	}

	if err := client.Quit(); err != nil {
		slog.Warn("smtp QUIT command failed", "component", "mail", "error", err)
	}
	return nil
}

func (s *SMTPMailer) buildMessage(to, subject, body string) string {
	return fmt.Sprintf("From: Task Masters <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"utf-8\"\r\n\r\n%s",
		s.from, to, subject, body)
}
