package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// DiscordConfig holds the Discord OAuth application credentials.
type DiscordConfig struct {
	ClientID     string   `env:"DISCORD_CLIENT_ID,required"`
	ClientSecret string   `env:"DISCORD_CLIENT_SECRET,required"`
	RedirectURL  string   `env:"DISCORD_REDIRECT_URL,required"`
	Scopes       []string `env:"DISCORD_SCOPES" envSeparator:"," envDefault:"identify,email"`
}

// x/oauth2 ships no discord endpoint package.
var discordEndpoint = oauth2.Endpoint{
	AuthURL:  "https://discord.com/oauth2/authorize",
	TokenURL: "https://discord.com/api/oauth2/token",
}

type discordAdapter struct {
	conf       *oauth2.Config
	httpClient *http.Client
	userURL    string
}

// NewDiscordAdapter creates the Discord provider adapter.
func NewDiscordAdapter(cfg DiscordConfig) ProviderAdapter {
	return &discordAdapter{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     discordEndpoint,
		},
		httpClient: &http.Client{Timeout: 10 * time.Second},
		userURL:    "https://discord.com/api/users/@me",
	}
}

func (a *discordAdapter) Provider() Provider {
	return ProviderDiscord
}

func (a *discordAdapter) AuthURL(state string) string {
	return a.conf.AuthCodeURL(state)
}

func (a *discordAdapter) ResolveProfile(ctx context.Context, code string) (ProviderProfile, error) {
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
		return ProviderProfile{}, fmt.Errorf("fetch discord user: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return ProviderProfile{}, fmt.Errorf("discord api returned status %d", resp.StatusCode)
	}

	var u struct {
		ID         string `json:"id"`
		Username   string `json:"username"`
		GlobalName string `json:"global_name"`
		Email      string `json:"email"`
		Verified   bool   `json:"verified"`
		Avatar     string `json:"avatar"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return ProviderProfile{}, fmt.Errorf("decode discord user: %w", err)
	}

	name := u.GlobalName
	if name == "" {
		name = u.Username
	}
	var avatarURL string
	if u.Avatar != "" {
		avatarURL = fmt.Sprintf("https://cdn.discordapp.com/avatars/%s/%s.png", u.ID, u.Avatar)
	}

	return ProviderProfile{
		ProviderAccountID: u.ID,
		Email:             u.Email,
		EmailVerified:     u.Verified,
		Name:              name,
		AvatarURL:         avatarURL,
	}, nil
}

var _ ProviderAdapter = (*discordAdapter)(nil)
