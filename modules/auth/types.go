package auth

import (
	"time"

	"github.com/google/uuid"
)

// Role is the coarse authorization level carried in session claims.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Provider identifies a federated identity provider.
type Provider string

const (
	ProviderGoogle  Provider = "google"
	ProviderGithub  Provider = "github"
	ProviderDiscord Provider = "discord"
)

// ParseProvider validates a provider name from an URL segment.
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderGoogle, ProviderGithub, ProviderDiscord:
		return Provider(s), nil
	}
	return "", ErrUnknownProvider
}

// User is the identity record backing both credential and federated
// sign-in. PasswordHash and Salt are either both set or both nil; a pure
// federated account has neither until the user adds a password.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash *string
	Salt         *string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether the account can be signed into with
// credentials.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && u.Salt != nil
}

// OAuthLink binds one external identity to one local user. The
// (Provider, ProviderAccountID) pair is unique across all users.
type OAuthLink struct {
	UserID            uuid.UUID
	Provider          Provider
	ProviderAccountID string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ProviderProfile is the identity a provider vouches for after a
// successful code exchange.
type ProviderProfile struct {
	ProviderAccountID string
	Email             string
	Name              string
	AvatarURL         string
	EmailVerified     bool
}
