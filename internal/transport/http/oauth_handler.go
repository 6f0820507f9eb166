package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"taskmasters/internal/domain"
	"taskmasters/internal/service"
)

// OAuthProvider is the provider-side half of the flow; the Google
// implementation lives in internal/oauth.
type OAuthProvider interface {
	AuthURL(state string) string
	Identity(ctx context.Context, code string) (domain.ExternalIdentity, error)
}

const stateCookie = "oauth_state"

type oauthHandler struct {
	provider OAuthProvider
	svc      service.OAuthService
	appURL   string
}

func (h *oauthHandler) start(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil {
		writeError(w, http.StatusInternalServerError, "OAuth is not configured")
		return
	}

	state, err := randomState()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.provider.AuthURL(state), http.StatusFound)
}

func (h *oauthHandler) callback(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil {
		writeError(w, http.StatusInternalServerError, "OAuth is not configured")
		return
	}

	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		h.redirectFailure(w, r, "state mismatch")
		return
	}

	// One-shot state; clear it before doing anything else.
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})

	code := r.URL.Query().Get("code")
	if code == "" {
		h.redirectFailure(w, r, "missing code")
		return
	}

	identity, err := h.provider.Identity(r.Context(), code)
	if err != nil {
		slog.Error("oauth identity lookup failed", "error", err)
		h.redirectFailure(w, r, "identity lookup failed")
		return
	}

	resp, err := h.svc.Reconcile(r.Context(), identity)
	if err != nil {
		slog.Error("oauth reconcile failed", "error", err)
		h.redirectFailure(w, r, "reconcile failed")
		return
	}

	// The SPA picks the tokens off the query string on its dashboard page.
	q := url.Values{}
	q.Set("name", resp.Username)
	q.Set("email", resp.Email)
	q.Set("token", resp.Token)
	q.Set("refreshToken", resp.RefreshToken)
	http.Redirect(w, r, h.appURL+"/dashboard?"+q.Encode(), http.StatusFound)
}

func (h *oauthHandler) redirectFailure(w http.ResponseWriter, r *http.Request, reason string) {
	slog.Warn("oauth login rejected", "reason", reason)
	http.Redirect(w, r, h.appURL+"/login?error=oauth", http.StatusFound)
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
