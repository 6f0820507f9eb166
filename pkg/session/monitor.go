// Package session keeps a logged-in client's tokens fresh while the user is
// active, and tears the session down once they go idle or a refresh fails.
package session

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

const (
	// Idle this long and the session ends, whatever the tokens say.
	DefaultInactivityTimeout = 5 * time.Minute
	// Refresh ahead of the 5-minute access-token expiry.
	DefaultRefreshInterval = 4 * time.Minute
)

// TokenStore holds the client's current token pair. Implementations must be
// safe for concurrent use; the monitor reads and writes it from its own
// goroutine.
type TokenStore interface {
	Tokens() (access, refresh string)
	SetAccess(token string)
	Clear()
}

// Refresher trades a refresh token for a new access token. authclient.Client
// satisfies this via a one-line adapter.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (string, error)
}

type Config struct {
	InactivityTimeout time.Duration
	RefreshInterval   time.Duration
	// OnSessionEnd fires exactly once, after tokens are cleared.
	OnSessionEnd func()
}

// Monitor runs a single goroutine multiplexing activity signals, an
// inactivity timer and a refresh ticker. It is not restartable; make a new
// one per login.
type Monitor struct {
	store    TokenStore
	refresh  Refresher
	cfg      Config
	activity chan struct{}
	done     chan struct{}
}

func NewMonitor(store TokenStore, refresher Refresher, cfg Config) *Monitor {
	if cfg.InactivityTimeout <= 0 {
		cfg.InactivityTimeout = DefaultInactivityTimeout
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = DefaultRefreshInterval
	}
	return &Monitor{
		store:    store,
		refresh:  refresher,
		cfg:      cfg,
		activity: make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// Activity records user interaction. It never blocks; a pending signal is
// enough to reset the idle timer on the next loop pass.
func (m *Monitor) Activity() {
	select {
	case m.activity <- struct{}{}:
	default:
	}
}

// Done is closed when the session has ended, for whatever reason.
func (m *Monitor) Done() <-chan struct{} {
	return m.done
}

// Run blocks until the session ends: the context is canceled, the user idles
// past the timeout, or a refresh fails. On idle or refresh failure the token
// store is cleared and OnSessionEnd fires; context cancellation leaves the
// tokens alone.
func (m *Monitor) Run(ctx context.Context) error {
	defer close(m.done)

	idle := time.NewTimer(m.cfg.InactivityTimeout)
	defer idle.Stop()

	ticker := time.NewTicker(m.cfg.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-m.activity:
			if !idle.Stop() {
				// Drain a fired-but-unread timer before resetting.
				select {
				case <-idle.C:
				default:
				}
			}
			idle.Reset(m.cfg.InactivityTimeout)

		case <-idle.C:
			slog.Info("session expired due to inactivity")
			m.endSession()
			return ErrSessionExpired

		case <-ticker.C:
			access, refresh := m.store.Tokens()
			if access == "" || refresh == "" {
				continue
			}

			token, err := m.refresh.Refresh(ctx, refresh)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return ctx.Err()
				}
				slog.Warn("token refresh failed, ending session", "error", err)
				m.endSession()
				return ErrSessionExpired
			}
			m.store.SetAccess(token)
		}
	}
}

func (m *Monitor) endSession() {
	m.store.Clear()
	if m.cfg.OnSessionEnd != nil {
		m.cfg.OnSessionEnd()
	}
}

// ErrSessionExpired reports that the monitor ended the session itself rather
// than being canceled.
var ErrSessionExpired = errors.New("session expired")
