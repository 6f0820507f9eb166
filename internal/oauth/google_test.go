package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/oauth2"
)

func newFakeGoogle(t *testing.T, userinfo map[string]string) (*GoogleProvider, func()) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "provider-access",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer provider-access" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(userinfo)
	})
	srv := httptest.NewServer(mux)

	p := NewGoogleProvider("client-id", "client-secret", "http://localhost/callback")
	p.cfg.Endpoint = oauth2.Endpoint{
		AuthURL:  srv.URL + "/auth",
		TokenURL: srv.URL + "/token",
	}
	p.userinfoURL = srv.URL + "/userinfo"

	return p, srv.Close
}

func TestAuthURLCarriesState(t *testing.T) {
	p := NewGoogleProvider("client-id", "client-secret", "http://localhost/callback")
	url := p.AuthURL("my-state")
	if url == "" {
		t.Fatal("empty auth url")
	}
	if want := "state=my-state"; !strings.Contains(url, want) {
		t.Fatalf("auth url %q missing %q", url, want)
	}
}

func TestIdentityFetchesProfile(t *testing.T) {
	p, done := newFakeGoogle(t, map[string]string{
		"email": "alice@example.com",
		"name":  "Alice Doe",
	})
	defer done()

	identity, err := p.Identity(context.Background(), "auth-code")
	if err != nil {
		t.Fatalf("Identity: %v", err)
	}
	if identity.Email != "alice@example.com" || identity.DisplayName != "Alice Doe" {
		t.Fatalf("identity = %+v", identity)
	}
}

func TestIdentityRejectsMissingEmail(t *testing.T) {
	p, done := newFakeGoogle(t, map[string]string{"name": "No Email"})
	defer done()

	if _, err := p.Identity(context.Background(), "auth-code"); err == nil {
		t.Fatal("expected error when provider omits email")
	}
}
