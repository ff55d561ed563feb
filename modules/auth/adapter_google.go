package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleConfig holds the Google OAuth application credentials.
type GoogleConfig struct {
	ClientID     string   `env:"GOOGLE_CLIENT_ID,required"`
	ClientSecret string   `env:"GOOGLE_CLIENT_SECRET,required"`
	RedirectURL  string   `env:"GOOGLE_REDIRECT_URL,required"`
	Scopes       []string `env:"GOOGLE_SCOPES" envSeparator:"," envDefault:"https://www.googleapis.com/auth/userinfo.email,https://www.googleapis.com/auth/userinfo.profile"`
}

type googleAdapter struct {
	conf       *oauth2.Config
	httpClient *http.Client
	userURL    string
}

// NewGoogleAdapter creates the Google provider adapter.
func NewGoogleAdapter(cfg GoogleConfig) ProviderAdapter {
	return &googleAdapter{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     google.Endpoint,
		},
		httpClient: &http.Client{Timeout: 10 * time.Second},
		userURL:    "https://www.googleapis.com/oauth2/v2/userinfo",
	}
}

func (a *googleAdapter) Provider() Provider {
	return ProviderGoogle
}

func (a *googleAdapter) AuthURL(state string) string {
	return a.conf.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (a *googleAdapter) ResolveProfile(ctx context.Context, code string) (ProviderProfile, error) {
	tok, err := a.conf.Exchange(ctx, code)
	if err != nil {
		return ProviderProfile{}, ErrInvalidCode
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.userURL, nil)
	if err != nil {
		return ProviderProfile{}, err
	}
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return ProviderProfile{}, fmt.Errorf("fetch google user: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return ProviderProfile{}, fmt.Errorf("google api returned status %d", resp.StatusCode)
	}

	var u struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return ProviderProfile{}, fmt.Errorf("decode google user: %w", err)
	}

	return ProviderProfile{
		ProviderAccountID: u.ID,
		Email:             u.Email,
		EmailVerified:     u.VerifiedEmail,
		Name:              u.Name,
		AvatarURL:         u.Picture,
	}, nil
}

var _ ProviderAdapter = (*googleAdapter)(nil)
