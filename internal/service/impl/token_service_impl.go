package impl

import (
	"errors"
	"time"

	"taskmasters/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenConfig struct {
	Issuer     string
	AccessTTL  time.Duration // 5 minutes
	RefreshTTL time.Duration // 7 days
	SigningKey []byte        // HS256 secret
}

// Claims is shared by access and refresh tokens; the two differ only in
// lifetime. Subject carries the account id.
type Claims struct {
	jwt.RegisteredClaims
}

type TokenServiceImpl struct {
	cfg TokenConfig
	now func() time.Time
}

func NewTokenServiceHS256(cfg TokenConfig) *TokenServiceImpl {
	return &TokenServiceImpl{cfg: cfg, now: time.Now}
}

func (t *TokenServiceImpl) IssueAccess(accountID domain.AccountID) (string, error) {
	return t.sign(accountID, t.cfg.AccessTTL)
}

func (t *TokenServiceImpl) IssueRefresh(accountID domain.AccountID) (string, error) {
	return t.sign(accountID, t.cfg.RefreshTTL)
}

func (t *TokenServiceImpl) sign(accountID domain.AccountID, ttl time.Duration) (string, error) {
	now := t.now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.cfg.Issuer,
			Subject:   accountID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.cfg.SigningKey)
}

// Verify parses and validates the token, returning the subject account id.
// Expiry and signature failures map onto distinct domain errors; callers that
// must not leak the distinction flatten them.
func (t *TokenServiceImpl) Verify(tokenStr string) (domain.AccountID, error) {
	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.cfg.Issuer),
		jwt.WithTimeFunc(func() time.Time { return t.now() }),
	)
	_, err := parser.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return t.cfg.SigningKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, domain.ErrTokenExpired
		}
		return uuid.Nil, domain.ErrTokenInvalid
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, domain.ErrTokenInvalid
	}
	return id, nil
}
