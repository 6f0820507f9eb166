package authclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskmasters/internal/dto"
)

func TestLoginDecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req dto.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if req.Identifier != "alice" {
			t.Errorf("identifier = %q", req.Identifier)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "Login successful",
			"data": map[string]string{
				"id": "some-id", "username": "alice", "email": "alice@example.com",
				"token": "access", "refreshToken": "refresh",
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	resp, err := c.Login(context.Background(), dto.LoginRequest{Identifier: "alice", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token != "access" || resp.RefreshToken != "refresh" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestErrorEnvelopeBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "Incorrect password. Please try again.",
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Login(context.Background(), dto.LoginRequest{Identifier: "alice", Password: "wrong"})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d", apiErr.StatusCode)
	}
	if apiErr.Message != "Incorrect password. Please try again." {
		t.Fatalf("message = %q", apiErr.Message)
	}
}

func TestRefreshReturnsNewAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/refresh" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req dto.RefreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken != "old-refresh" {
			t.Errorf("bad request: %v %+v", err, req)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]string{"token": "fresh-access"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	token, err := c.Refresh(context.Background(), "old-refresh")
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if token != "fresh-access" {
		t.Fatalf("token = %q", token)
	}
}

func TestMeSendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer my-access" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]string{"id": "x", "username": "alice", "email": "a@b.com"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	profile, err := c.Me(context.Background(), "my-access")
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if profile.Username != "alice" {
		t.Fatalf("profile = %+v", profile)
	}
}

func TestGarbageResponseIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway error</html>"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	if _, err := c.Login(context.Background(), dto.LoginRequest{Identifier: "a", Password: "b"}); err == nil {
		t.Fatal("expected decode error")
	}
}
