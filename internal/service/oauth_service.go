package service

import (
	"context"

	"taskmasters/internal/domain"
	"taskmasters/internal/dto"
)

type OAuthService interface {
	// Reconcile maps an external identity onto a local account, provisioning a
	// verified account on first login, and returns a full token pair.
	Reconcile(ctx context.Context, identity domain.ExternalIdentity) (*dto.LoginResponse, error)
}
