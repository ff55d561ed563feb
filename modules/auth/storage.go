package auth

import (
	"context"
	"time"
)

// CredentialStorage is what the credential flow needs from the user table.
type CredentialStorage interface {
	// CreateUser inserts a new user row. A duplicate email reports
	// ErrEmailAlreadyExists so races with a concurrent sign-up surface the
	// same way as the pre-check.
	CreateUser(ctx context.Context, user *User) error

	// GetUserByEmail returns the user or ErrUserNotFound. No isolation
	// guarantee beyond the database's own: callers must not assume the row
	// is unchanged by the time they act on it.
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// UpdateUserCredentials attaches password credentials (and the display
	// name) to the user addressed by email. Existing OAuth links are left
	// untouched. Returns the updated user.
	UpdateUserCredentials(ctx context.Context, email, name, passwordHash, salt string) (*User, error)
}

// FederatedStorage is what the federated flow needs from storage.
type FederatedStorage interface {
	// ResolveFederatedUser finds or creates the user for a verified
	// provider profile and upserts the provider link, all inside a single
	// transaction: a failure anywhere leaves neither a user-without-link
	// nor a link-without-user behind. A link already owned by a different
	// user aborts with ErrIdentityAlreadyLinked; a link already owned by
	// the same user is an idempotent no-op.
	ResolveFederatedUser(ctx context.Context, provider Provider, profile ProviderProfile) (*User, error)
}

// StateStore holds one-time CSRF state tokens for the federated flow.
type StateStore interface {
	Store(ctx context.Context, state string, ttl time.Duration) error

	// Consume atomically checks and removes a state token, returning
	// ErrInvalidState when it is absent, expired or already used.
	Consume(ctx context.Context, state string) error
}
