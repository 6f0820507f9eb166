package store

import (
	"context"
	"errors"
	"time"

	"taskmasters/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AccountStore struct{ db *gorm.DB }

func (s *Store) Accounts() *AccountStore { return &AccountStore{db: s.DB} }

// Create inserts the account, relying on the unique indexes to reject
// colliding email/username. The mapping to a domain error tells the caller
// which field collided.
func (a *AccountStore) Create(ctx context.Context, acc *domain.Account) error {
	if acc.ID == uuid.Nil {
		acc.ID = uuid.New()
	}
	err := a.db.WithContext(ctx).Create(acc).Error
	switch {
	case err == nil:
		return nil
	case uniqueViolation(err, "ux_accounts_email"):
		return domain.ErrDuplicateEmail
	case uniqueViolation(err, "ux_accounts_username"):
		return domain.ErrDuplicateUsername
	default:
		return err
	}
}

func (a *AccountStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	var acc domain.Account
	if err := a.db.WithContext(ctx).First(&acc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &acc, nil
}

func (a *AccountStore) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var acc domain.Account
	if err := a.db.WithContext(ctx).First(&acc, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &acc, nil
}

// GetByIdentifier matches either the email or the username. Both columns are
// citext, so comparison is case-insensitive on the database side.
func (a *AccountStore) GetByIdentifier(ctx context.Context, identifier string) (*domain.Account, error) {
	var acc domain.Account
	if err := a.db.WithContext(ctx).
		First(&acc, "email = ? OR username = ?", identifier, identifier).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &acc, nil
}

// ConsumeVerificationCode flips the account to verified and clears the code in
// a single conditional update. Zero rows means the code was wrong or already
// consumed; two racing requests cannot both win.
func (a *AccountStore) ConsumeVerificationCode(ctx context.Context, email, code string) (bool, error) {
	res := a.db.WithContext(ctx).Model(&domain.Account{}).
		Where("email = ? AND verified = false AND verification_code = ?", email, code).
		Updates(map[string]any{
			"verified":          true,
			"verification_code": nil,
			"updated_at":        time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (a *AccountStore) SetResetToken(ctx context.Context, id uuid.UUID, token string, expires time.Time) error {
	return a.db.WithContext(ctx).Model(&domain.Account{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"reset_token":   token,
			"reset_expires": expires,
			"updated_at":    time.Now().UTC(),
		}).Error
}

// ConsumeResetToken clears both reset fields iff the token matches and has not
// expired. Same single-winner property as ConsumeVerificationCode.
func (a *AccountStore) ConsumeResetToken(ctx context.Context, email, token string, now time.Time) (bool, error) {
	res := a.db.WithContext(ctx).Model(&domain.Account{}).
		Where("email = ? AND reset_token = ? AND reset_expires > ?", email, token, now).
		Updates(map[string]any{
			"reset_token":   nil,
			"reset_expires": nil,
			"updated_at":    now.UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
