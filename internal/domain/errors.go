package domain

import "errors"

var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrDuplicateEmail    = errors.New("email already taken")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrAlreadyVerified   = errors.New("account already verified")
	ErrInvalidCode       = errors.New("invalid verification code")
	ErrResetTokenInvalid = errors.New("invalid or expired reset token")
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenInvalid      = errors.New("invalid token")
	ErrEmailDelivery     = errors.New("email delivery failed")
	ErrTaskNotFound      = errors.New("task not found")
)
