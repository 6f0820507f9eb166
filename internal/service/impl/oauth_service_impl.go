package impl

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"taskmasters/internal/domain"
	"taskmasters/internal/dto"
	"taskmasters/internal/observability/metrics"
	"taskmasters/internal/service"
	"taskmasters/internal/store"

	"github.com/google/uuid"
)

// maxUsernameSuffix bounds the disambiguation loop; hitting it means the
// local part is pathologically popular.
const maxUsernameSuffix = 1000

type OAuthServiceImpl struct {
	Store           dataStore
	PasswordService service.PasswordService
	TService        service.TokenService

	now func() time.Time
}

func NewOAuthServiceImpl(st *store.Store, passwordService service.PasswordService, tokenService service.TokenService) *OAuthServiceImpl {
	return &OAuthServiceImpl{
		Store:           gormStoreAdapter{store: st},
		PasswordService: passwordService,
		TService:        tokenService,
		now:             time.Now,
	}
}

func (o *OAuthServiceImpl) Reconcile(ctx context.Context, identity domain.ExternalIdentity) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(identity.Email))
	if email == "" {
		return nil, ErrMissingField
	}

	acc, err := o.byEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, err
	}
	if acc == nil {
		acc, err = o.provision(ctx, email)
		if err != nil {
			return nil, err
		}
		slog.Info("provisioned oauth account", "account_id", acc.ID, "username", acc.Username)
	}

	access, err := o.TService.IssueAccess(acc.ID)
	if err != nil {
		return nil, err
	}
	refresh, err := o.TService.IssueRefresh(acc.ID)
	if err != nil {
		return nil, err
	}
	metrics.TokensIssuedTotal.WithLabelValues("oauth", "success").Inc()

	return &dto.LoginResponse{
		ID:           acc.ID.String(),
		Username:     acc.Username,
		Email:        acc.Email,
		Token:        access,
		RefreshToken: refresh,
	}, nil
}

func (o *OAuthServiceImpl) byEmail(ctx context.Context, email string) (*domain.Account, error) {
	var acc *domain.Account
	err := o.Store.WithTx(ctx, func(tx storeTx) error {
		found, err := tx.Accounts().GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return domain.ErrAccountNotFound
			}
			return err
		}
		acc = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return acc, nil
}

// provision creates a verified account for a first-time OAuth login. Each
// attempt is its own insert so a unique-constraint loss just means retrying
// with the next suffix (username) or adopting the winner (email) — two
// concurrent first logins for the same address cannot both create.
func (o *OAuthServiceImpl) provision(ctx context.Context, email string) (*domain.Account, error) {
	base := usernameFromEmail(email)
	for i := 0; i < maxUsernameSuffix; i++ {
		candidate := base
		if i > 0 {
			candidate = base + strconv.Itoa(i)
		}
		acc, err := o.tryCreate(ctx, candidate, email)
		switch {
		case err == nil:
			return acc, nil
		case errors.Is(err, domain.ErrDuplicateUsername):
			continue
		case errors.Is(err, domain.ErrDuplicateEmail):
			return o.byEmail(ctx, email)
		default:
			return nil, err
		}
	}
	return nil, fmt.Errorf("no free username for %q", base)
}

func (o *OAuthServiceImpl) tryCreate(ctx context.Context, username, email string) (*domain.Account, error) {
	// The placeholder secret is random and never shown to anyone; credential
	// login on an OAuth-provisioned account only works after a password reset.
	placeholder := make([]byte, 32)
	if _, err := rand.Read(placeholder); err != nil {
		return nil, err
	}
	hash, salt, paramsJSON, algo, ver, err := o.PasswordService.Hash(hex.EncodeToString(placeholder))
	if err != nil {
		return nil, err
	}

	var acc *domain.Account
	err = o.Store.WithTx(ctx, func(tx storeTx) error {
		now := o.now().UTC()
		acc = &domain.Account{
			ID:        uuid.New(),
			Username:  username,
			Email:     email,
			Verified:  true, // provider attested the address
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Accounts().Create(ctx, acc); err != nil {
			return err
		}
		return tx.Credentials().UpsertPassword(ctx, &domain.PasswordCredential{
			AccountID:   acc.ID,
			Algo:        algo,
			Hash:        hash,
			Salt:        salt,
			ParamsJSON:  paramsJSON,
			PasswordVer: ver,
		})
	})
	if err != nil {
		return nil, err
	}
	return acc, nil
}

func usernameFromEmail(email string) string {
	local := email
	if at := strings.IndexByte(email, '@'); at >= 0 {
		local = email[:at]
	}
	if local == "" {
		return "user"
	}
	return local
}
