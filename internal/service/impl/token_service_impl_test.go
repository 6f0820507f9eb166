package impl

import (
	"strings"
	"testing"
	"time"

	"taskmasters/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestTokenService() *TokenServiceImpl {
	return NewTokenServiceHS256(TokenConfig{
		Issuer:     "taskmasters-test",
		AccessTTL:  5 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
		SigningKey: []byte("test-signing-key"),
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	ts := newTestTokenService()
	accountID := uuid.New()

	token, err := ts.IssueAccess(accountID)
	require.NoError(t, err)

	got, err := ts.Verify(token)
	require.NoError(t, err)
	require.Equal(t, accountID, got)
}

func TestAccessTokenExpiresAfterFiveMinutes(t *testing.T) {
	ts := newTestTokenService()
	base := time.Now()
	ts.now = func() time.Time { return base }

	token, err := ts.IssueAccess(uuid.New())
	require.NoError(t, err)

	ts.now = func() time.Time { return base.Add(4 * time.Minute) }
	_, err = ts.Verify(token)
	require.NoError(t, err)

	ts.now = func() time.Time { return base.Add(6 * time.Minute) }
	_, err = ts.Verify(token)
	require.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestRefreshTokenExpiresAfterSevenDays(t *testing.T) {
	ts := newTestTokenService()
	base := time.Now()
	ts.now = func() time.Time { return base }

	token, err := ts.IssueRefresh(uuid.New())
	require.NoError(t, err)

	ts.now = func() time.Time { return base.Add(6 * 24 * time.Hour) }
	_, err = ts.Verify(token)
	require.NoError(t, err)

	ts.now = func() time.Time { return base.Add(8 * 24 * time.Hour) }
	_, err = ts.Verify(token)
	require.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	ts := newTestTokenService()

	token, err := ts.IssueAccess(uuid.New())
	require.NoError(t, err)

	// Flip a character in the payload segment.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = ts.Verify(tampered)
	require.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	ts := newTestTokenService()
	other := NewTokenServiceHS256(TokenConfig{
		Issuer:     "taskmasters-test",
		AccessTTL:  5 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
		SigningKey: []byte("a-different-key"),
	})

	token, err := other.IssueAccess(uuid.New())
	require.NoError(t, err)

	_, err = ts.Verify(token)
	require.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	ts := newTestTokenService()
	other := NewTokenServiceHS256(TokenConfig{
		Issuer:     "someone-else",
		AccessTTL:  5 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
		SigningKey: []byte("test-signing-key"),
	})

	token, err := other.IssueAccess(uuid.New())
	require.NoError(t, err)

	_, err = ts.Verify(token)
	require.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	ts := newTestTokenService()
	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := ts.Verify(token)
		require.ErrorIs(t, err, domain.ErrTokenInvalid, "token %q", token)
	}
}
