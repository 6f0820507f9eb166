package service

import "context"

type EmailService interface {
	SendVerificationCode(ctx context.Context, to, code string) error
	SendPasswordReset(ctx context.Context, to, resetURL string) error
}
