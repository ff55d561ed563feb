package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

// GitHubConfig holds the GitHub OAuth application credentials.
type GitHubConfig struct {
	ClientID     string   `env:"GITHUB_CLIENT_ID,required"`
	ClientSecret string   `env:"GITHUB_CLIENT_SECRET,required"`
	RedirectURL  string   `env:"GITHUB_REDIRECT_URL,required"`
	Scopes       []string `env:"GITHUB_SCOPES" envSeparator:"," envDefault:"read:user,user:email"`
}

type githubAdapter struct {
	conf       *oauth2.Config
	httpClient *http.Client
	apiBase    string
}

// NewGitHubAdapter creates the GitHub provider adapter.
func NewGitHubAdapter(cfg GitHubConfig) ProviderAdapter {
	return &githubAdapter{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     github.Endpoint,
		},
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiBase:    "https://api.github.com",
	}
}

func (a *githubAdapter) Provider() Provider {
	return ProviderGithub
}

func (a *githubAdapter) AuthURL(state string) string {
	return a.conf.AuthCodeURL(state)
}

func (a *githubAdapter) ResolveProfile(ctx context.Context, code string) (ProviderProfile, error) {
	tok, err := a.conf.Exchange(ctx, code)
	if err != nil {
		return ProviderProfile{}, ErrInvalidCode
	}

	var u struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := a.getJSON(ctx, tok.AccessToken, "/user", &u); err != nil {
		return ProviderProfile{}, fmt.Errorf("fetch github user: %w", err)
	}

	// The /user email is often null; /user/emails carries the verified
	// primary address.
	email := u.Email
	verified := false
	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := a.getJSON(ctx, tok.AccessToken, "/user/emails", &emails); err == nil {
		for _, e := range emails {
			if e.Primary && e.Verified {
				email, verified = e.Email, true
				break
			}
		}
		if !verified {
			for _, e := range emails {
				if e.Verified {
					email, verified = e.Email, true
					break
				}
			}
		}
	}

	name := u.Name
	if name == "" {
		name = u.Login
	}

	return ProviderProfile{
		ProviderAccountID: strconv.FormatInt(u.ID, 10),
		Email:             email,
		EmailVerified:     verified,
		Name:              name,
		AvatarURL:         u.AvatarURL,
	}, nil
}

func (a *githubAdapter) getJSON(ctx context.Context, accessToken, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.apiBase+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github api returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

var _ ProviderAdapter = (*githubAdapter)(nil)
