package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"taskmasters/internal/domain"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const userinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleProvider runs the authorization-code flow against Google and
// normalizes the profile into a domain.ExternalIdentity, so the
// reconciliation flow never sees provider-specific shapes.
type GoogleProvider struct {
	cfg         *oauth2.Config
	userinfoURL string
}

func NewGoogleProvider(clientID, clientSecret, callbackURL string) *GoogleProvider {
	return &GoogleProvider{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"profile", "email"},
			Endpoint:     google.Endpoint,
		},
		userinfoURL: userinfoURL,
	}
}

// AuthURL returns the provider redirect target for the given CSRF state.
func (p *GoogleProvider) AuthURL(state string) string {
	return p.cfg.AuthCodeURL(state)
}

// Identity exchanges the callback code and fetches the user's profile.
func (p *GoogleProvider) Identity(ctx context.Context, code string) (domain.ExternalIdentity, error) {
	token, err := p.cfg.Exchange(ctx, code)
	if err != nil {
		return domain.ExternalIdentity{}, fmt.Errorf("exchanging code: %w", err)
	}

	client := p.cfg.Client(ctx, token)
	resp, err := client.Get(p.userinfoURL)
	if err != nil {
		return domain.ExternalIdentity{}, fmt.Errorf("fetching userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.ExternalIdentity{}, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}

	var profile struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return domain.ExternalIdentity{}, fmt.Errorf("decoding userinfo: %w", err)
	}
	if profile.Email == "" {
		return domain.ExternalIdentity{}, fmt.Errorf("provider returned no email")
	}

	return domain.ExternalIdentity{
		Email:       profile.Email,
		DisplayName: profile.Name,
	}, nil
}
