package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"taskmasters/internal/domain"
	"taskmasters/internal/dto"

	"github.com/google/uuid"
)

type stubProvider struct {
	identity domain.ExternalIdentity
	err      error
}

func (p *stubProvider) AuthURL(state string) string {
	return "https://provider.test/authorize?state=" + state
}

func (p *stubProvider) Identity(ctx context.Context, code string) (domain.ExternalIdentity, error) {
	return p.identity, p.err
}

type stubOAuthService struct {
	resp *dto.LoginResponse
	err  error
}

func (s *stubOAuthService) Reconcile(ctx context.Context, identity domain.ExternalIdentity) (*dto.LoginResponse, error) {
	return s.resp, s.err
}

func noRedirectClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func newOAuthTestServer(provider OAuthProvider, svc *stubOAuthService) (string, func()) {
	handler := NewRouter(Options{
		Auth:     &stubAuthService{},
		Tasks:    &stubTaskService{},
		OAuth:    svc,
		Tokens:   &stubTokens{},
		Provider: provider,
		AppURL:   "http://app.test",
	})
	srv := httptest.NewServer(handler)
	return srv.URL, srv.Close
}

func TestOAuthStartSetsStateAndRedirects(t *testing.T) {
	baseURL, done := newOAuthTestServer(&stubProvider{}, &stubOAuthService{})
	defer done()

	resp, err := noRedirectClient().Get(baseURL + "/oauth/start")
	if err != nil {
		t.Fatalf("GET /oauth/start: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var state string
	for _, c := range resp.Cookies() {
		if c.Name == stateCookie {
			state = c.Value
		}
	}
	if state == "" {
		t.Fatal("state cookie not set")
	}

	location := resp.Header.Get("Location")
	if !strings.Contains(location, "state="+state) {
		t.Fatalf("redirect does not carry the state: %q", location)
	}
}

func TestOAuthCallbackHappyPath(t *testing.T) {
	svc := &stubOAuthService{resp: &dto.LoginResponse{
		ID:           uuid.NewString(),
		Username:     "alice",
		Email:        "alice@example.com",
		Token:        "access-token",
		RefreshToken: "refresh-token",
	}}
	baseURL, done := newOAuthTestServer(&stubProvider{
		identity: domain.ExternalIdentity{Email: "alice@example.com", DisplayName: "Alice"},
	}, svc)
	defer done()

	req, _ := http.NewRequest(http.MethodGet, baseURL+"/oauth/callback?state=abc&code=xyz", nil)
	req.AddCookie(&http.Cookie{Name: stateCookie, Value: "abc"})

	resp, err := noRedirectClient().Do(req)
	if err != nil {
		t.Fatalf("GET /oauth/callback: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	location, err := url.Parse(resp.Header.Get("Location"))
	if err != nil {
		t.Fatalf("bad redirect location: %v", err)
	}
	if location.Path != "/dashboard" {
		t.Fatalf("redirect path = %q", location.Path)
	}
	q := location.Query()
	if q.Get("token") != "access-token" || q.Get("refreshToken") != "refresh-token" {
		t.Fatalf("tokens missing from redirect: %v", q)
	}
	if q.Get("name") != "alice" || q.Get("email") != "alice@example.com" {
		t.Fatalf("identity missing from redirect: %v", q)
	}
}

func TestOAuthCallbackRejectsStateMismatch(t *testing.T) {
	baseURL, done := newOAuthTestServer(&stubProvider{}, &stubOAuthService{})
	defer done()

	req, _ := http.NewRequest(http.MethodGet, baseURL+"/oauth/callback?state=evil&code=xyz", nil)
	req.AddCookie(&http.Cookie{Name: stateCookie, Value: "good"})

	resp, err := noRedirectClient().Do(req)
	if err != nil {
		t.Fatalf("GET /oauth/callback: %v", err)
	}
	defer resp.Body.Close()

	location := resp.Header.Get("Location")
	if !strings.Contains(location, "error=oauth") {
		t.Fatalf("expected failure redirect, got %q", location)
	}
}
