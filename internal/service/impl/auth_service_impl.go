package impl

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net/url"
	"strconv"
	"strings"
	"time"

	"taskmasters/internal/domain"
	"taskmasters/internal/dto"
	"taskmasters/internal/observability/metrics"
	obsmw "taskmasters/internal/observability/middleware"
	"taskmasters/internal/service"
	"taskmasters/internal/store"

	"github.com/google/uuid"
)

type AuthConfig struct {
	BaseURL       string        // public URL embedded in reset links
	ResetTokenTTL time.Duration // 15 minutes
	EmailTimeout  time.Duration // 30 seconds
}

type AuthServiceImpl struct {
	Store           dataStore
	PasswordService service.PasswordService
	TService        service.TokenService
	Email           service.EmailService
	Cfg             AuthConfig

	now func() time.Time
}

func NewAuthServiceImpl(st *store.Store, passwordService service.PasswordService, tokenService service.TokenService, email service.EmailService, cfg AuthConfig) *AuthServiceImpl {
	return &AuthServiceImpl{
		Store:           gormStoreAdapter{store: st},
		PasswordService: passwordService,
		TService:        tokenService,
		Email:           email,
		Cfg:             cfg,
		now:             time.Now,
	}
}

type dataStore interface {
	WithTx(ctx context.Context, fn func(tx storeTx) error) error
}

type storeTx interface {
	Accounts() accountStore
	Credentials() credentialStore
}

type accountStore interface {
	Create(ctx context.Context, acc *domain.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByIdentifier(ctx context.Context, identifier string) (*domain.Account, error)
	ConsumeVerificationCode(ctx context.Context, email, code string) (bool, error)
	SetResetToken(ctx context.Context, id uuid.UUID, token string, expires time.Time) error
	ConsumeResetToken(ctx context.Context, email, token string, now time.Time) (bool, error)
}

type credentialStore interface {
	UpsertPassword(ctx context.Context, c *domain.PasswordCredential) error
	GetPasswordByAccountID(ctx context.Context, accountID uuid.UUID) (*domain.PasswordCredential, error)
}

type gormStoreAdapter struct {
	store *store.Store
}

func (g gormStoreAdapter) WithTx(ctx context.Context, fn func(tx storeTx) error) error {
	if g.store == nil {
		return errors.New("nil store")
	}
	return g.store.WithTx(ctx, func(tx *store.Store) error {
		return fn(gormTxAdapter{tx: tx})
	})
}

type gormTxAdapter struct {
	tx *store.Store
}

func (g gormTxAdapter) Accounts() accountStore { return g.tx.Accounts() }

func (g gormTxAdapter) Credentials() credentialStore { return g.tx.Credentials() }

func (a *AuthServiceImpl) Register(ctx context.Context, r dto.RegisterRequest) (*dto.RegisterResponse, error) {
	result := "success"
	defer func() {
		metrics.RegistrationsTotal.WithLabelValues(result).Inc()
	}()

	username := strings.TrimSpace(r.Username)
	email := strings.ToLower(strings.TrimSpace(r.Email))
	if username == "" || email == "" || r.Password == "" {
		result = "failure"
		return nil, ErrMissingField
	}
	if len(r.Password) < 6 {
		result = "failure"
		return nil, ErrPasswordLength
	}

	code, err := generateVerificationCode()
	if err != nil {
		result = "failure"
		return nil, err
	}

	var out dto.RegisterResponse
	err = a.Store.WithTx(ctx, func(tx storeTx) error {
		now := a.now().UTC()
		acc := &domain.Account{
			ID:               uuid.New(),
			Username:         username,
			Email:            email,
			Verified:         false, // stays false until VerifyEmail succeeds
			VerificationCode: &code,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := tx.Accounts().Create(ctx, acc); err != nil {
			return err // unique constraints bubble up (email/username)
		}

		hash, salt, paramsJSON, algo, ver, err := a.PasswordService.Hash(r.Password)
		if err != nil {
			return err
		}
		cred := &domain.PasswordCredential{
			ID:          uuid.New(),
			AccountID:   acc.ID,
			Algo:        algo,
			Hash:        hash,
			Salt:        salt,
			ParamsJSON:  paramsJSON,
			PasswordVer: ver,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.Credentials().UpsertPassword(ctx, cred); err != nil {
			return err
		}

		out = dto.RegisterResponse{ID: acc.ID.String(), Email: acc.Email}
		return nil
	})
	if err != nil {
		result = "failure"
		return nil, err
	}

	// Best effort: the account exists whether or not the email goes out.
	a.sendVerificationEmail(ctx, email, code)

	return &out, nil
}

func (a *AuthServiceImpl) sendVerificationEmail(ctx context.Context, email, code string) {
	sendCtx, cancel := context.WithTimeout(ctx, a.Cfg.EmailTimeout)
	defer cancel()

	if err := a.Email.SendVerificationCode(sendCtx, email, code); err != nil {
		metrics.EmailsSentTotal.WithLabelValues("verification", "failure").Inc()
		slog.Error("verification email failed", "email", email, "error", err,
			"request_id", obsmw.RequestIDFromContext(ctx))
		return
	}
	metrics.EmailsSentTotal.WithLabelValues("verification", "success").Inc()
}

func (a *AuthServiceImpl) VerifyEmail(ctx context.Context, email, code string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || code == "" {
		return ErrMissingField
	}

	return a.Store.WithTx(ctx, func(tx storeTx) error {
		acc, err := tx.Accounts().GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return domain.ErrAccountNotFound
			}
			return err
		}
		if acc.Verified {
			return domain.ErrAlreadyVerified
		}
		if acc.VerificationCode == nil ||
			subtle.ConstantTimeCompare([]byte(*acc.VerificationCode), []byte(code)) != 1 {
			return domain.ErrInvalidCode
		}

		// The conditional update is what makes a replay lose.
		ok, err := tx.Accounts().ConsumeVerificationCode(ctx, email, code)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrInvalidCode
		}
		return nil
	})
}

func (a *AuthServiceImpl) Login(ctx context.Context, r dto.LoginRequest) (*dto.LoginResponse, error) {
	result := "success"
	defer func() {
		metrics.LoginsTotal.WithLabelValues(result).Inc()
	}()

	identifier := strings.ToLower(strings.TrimSpace(r.Identifier))
	if identifier == "" || r.Password == "" {
		result = "failure"
		return nil, ErrMissingField
	}

	var out *dto.LoginResponse
	err := a.Store.WithTx(ctx, func(tx storeTx) error {
		acc, err := tx.Accounts().GetByIdentifier(ctx, identifier)
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return domain.ErrAccountNotFound
			}
			return err
		}

		cred, err := tx.Credentials().GetPasswordByAccountID(ctx, acc.ID)
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return domain.ErrInvalidCredential
			}
			return err
		}

		rehashNeeded, ok := a.PasswordService.Verify(r.Password, cred)
		if !ok {
			return domain.ErrInvalidCredential
		}
		if rehashNeeded {
			if err := a.rehash(ctx, tx, cred, r.Password); err != nil {
				return err
			}
		}

		access, err := a.TService.IssueAccess(acc.ID)
		if err != nil {
			return err
		}
		refresh, err := a.TService.IssueRefresh(acc.ID)
		if err != nil {
			return err
		}

		out = &dto.LoginResponse{
			ID:           acc.ID.String(),
			Username:     acc.Username,
			Email:        acc.Email,
			Token:        access,
			RefreshToken: refresh,
		}
		return nil
	})
	if err != nil {
		result = "failure"
		return nil, err
	}

	metrics.TokensIssuedTotal.WithLabelValues("login", "success").Inc()
	slog.Info("login", "account_id", out.ID, "request_id", obsmw.RequestIDFromContext(ctx))
	return out, nil
}

func (a *AuthServiceImpl) rehash(ctx context.Context, tx storeTx, cred *domain.PasswordCredential, password string) error {
	hash, salt, paramsJSON, algo, ver, err := a.PasswordService.Hash(password)
	if err != nil {
		return err
	}
	cred.Algo = algo
	cred.Hash = hash
	cred.Salt = salt
	cred.ParamsJSON = paramsJSON
	cred.PasswordVer = ver
	cred.UpdatedAt = a.now().UTC()
	return tx.Credentials().UpsertPassword(ctx, cred)
}

func (a *AuthServiceImpl) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ErrMissingField
	}

	token, err := generateResetToken()
	if err != nil {
		return err
	}
	expires := a.now().Add(a.Cfg.ResetTokenTTL)

	err = a.Store.WithTx(ctx, func(tx storeTx) error {
		acc, err := tx.Accounts().GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return domain.ErrAccountNotFound
			}
			return err
		}
		return tx.Accounts().SetResetToken(ctx, acc.ID, token, expires)
	})
	if err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password.html?token=%s&email=%s",
		a.Cfg.BaseURL, token, url.QueryEscape(email))

	sendCtx, cancel := context.WithTimeout(ctx, a.Cfg.EmailTimeout)
	defer cancel()
	if err := a.Email.SendPasswordReset(sendCtx, email, resetURL); err != nil {
		// The link is the only recovery path, so the caller must know.
		metrics.EmailsSentTotal.WithLabelValues("reset", "failure").Inc()
		slog.Error("reset email failed", "email", email, "error", err,
			"request_id", obsmw.RequestIDFromContext(ctx))
		return fmt.Errorf("%w: %v", domain.ErrEmailDelivery, err)
	}
	metrics.EmailsSentTotal.WithLabelValues("reset", "success").Inc()
	return nil
}

func (a *AuthServiceImpl) ResetPassword(ctx context.Context, r dto.ResetPasswordRequest) error {
	email := strings.ToLower(strings.TrimSpace(r.Email))
	if email == "" || r.Token == "" || r.Password == "" {
		return ErrMissingField
	}
	if len(r.Password) < 6 {
		return ErrPasswordLength
	}

	return a.Store.WithTx(ctx, func(tx storeTx) error {
		ok, err := tx.Accounts().ConsumeResetToken(ctx, email, r.Token, a.now())
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrResetTokenInvalid
		}

		acc, err := tx.Accounts().GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		hash, salt, paramsJSON, algo, ver, err := a.PasswordService.Hash(r.Password)
		if err != nil {
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
}

// Refresh exchanges a live refresh token for a fresh access token. The account
// must still exist; tokens are otherwise self-contained.
func (a *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (*dto.RefreshResponse, error) {
	result := "success"
	defer func() {
		metrics.TokensIssuedTotal.WithLabelValues("refresh", result).Inc()
	}()

	if refreshToken == "" {
		result = "failure"
		return nil, ErrMissingField
	}

	accountID, err := a.TService.Verify(refreshToken)
	if err != nil {
		// Expiry vs signature is deliberately not distinguished here.
		result = "failure"
		return nil, domain.ErrTokenInvalid
	}

	err = a.Store.WithTx(ctx, func(tx storeTx) error {
		if _, err := tx.Accounts().GetByID(ctx, accountID); err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return domain.ErrAccountNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		result = "failure"
		return nil, err
	}

	access, err := a.TService.IssueAccess(accountID)
	if err != nil {
		result = "failure"
		return nil, err
	}
	return &dto.RefreshResponse{Token: access}, nil
}

func (a *AuthServiceImpl) Profile(ctx context.Context, accountID domain.AccountID) (*dto.ProfileResponse, error) {
	var out *dto.ProfileResponse
	err := a.Store.WithTx(ctx, func(tx storeTx) error {
		acc, err := tx.Accounts().GetByID(ctx, accountID)
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return domain.ErrAccountNotFound
			}
			return err
		}
		out = &dto.ProfileResponse{
			ID:        acc.ID.String(),
			Username:  acc.Username,
			Email:     acc.Email,
			CreatedAt: acc.CreatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// generateVerificationCode returns a uniformly random 6-digit code in
// [100000, 999999].
func generateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generating verification code: %w", err)
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}

// generateResetToken returns 256 bits of randomness, hex-encoded.
func generateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating reset token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
