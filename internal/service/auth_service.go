package service

import (
	"context"

	"taskmasters/internal/domain"
	"taskmasters/internal/dto"
)

type AuthService interface {
	Register(ctx context.Context, r dto.RegisterRequest) (*dto.RegisterResponse, error)
	VerifyEmail(ctx context.Context, email, code string) error
	Login(ctx context.Context, r dto.LoginRequest) (*dto.LoginResponse, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, r dto.ResetPasswordRequest) error
	Refresh(ctx context.Context, refreshToken string) (*dto.RefreshResponse, error)
	Profile(ctx context.Context, accountID domain.AccountID) (*dto.ProfileResponse, error)
}
