// Package postgres implements the auth storage interfaces on PostgreSQL
// via pgx. All multi-row writes run inside a transaction so the user table
// and the provider link table never diverge.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storekit/authflow/modules/auth"
	"github.com/storekit/authflow/pkg/pg"
)

// Repository implements auth.CredentialStorage and auth.FederatedStorage.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a Repository over the given connection pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `id, name, email, password_hash, salt, role, created_at, updated_at`

const insertUserSQL = `
INSERT INTO users (id, name, email, password_hash, salt, role, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

const getUserByEmailSQL = `
SELECT ` + userColumns + ` FROM users WHERE email = $1`

const updateCredentialsSQL = `
UPDATE users
SET name = $2, password_hash = $3, salt = $4, updated_at = now()
WHERE email = $1
RETURNING ` + userColumns

const getLinkOwnerSQL = `
SELECT user_id FROM user_oauth_accounts
WHERE provider = $1 AND provider_account_id = $2`

const insertLinkSQL = `
INSERT INTO user_oauth_accounts (user_id, provider, provider_account_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $4)`

// CreateUser inserts a new user row. A duplicate email reports
// auth.ErrEmailAlreadyExists.
func (r *Repository) CreateUser(ctx context.Context, user *auth.User) error {
	_, err := r.pool.Exec(ctx, insertUserSQL,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Salt,
		user.Role, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if pg.IsUniqueViolation(err) {
			return auth.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUserByEmail returns the user or auth.ErrUserNotFound.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, getUserByEmailSQL, email))
	if err != nil {
		if pg.IsNotFound(err) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

// UpdateUserCredentials attaches password credentials to the user addressed
// by email and returns the updated row.
func (r *Repository) UpdateUserCredentials(ctx context.Context, email, name, passwordHash, salt string) (*auth.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, updateCredentialsSQL, email, name, passwordHash, salt))
	if err != nil {
		if pg.IsNotFound(err) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("update user credentials: %w", err)
	}
	return user, nil
}

// ResolveFederatedUser finds or creates the user for a provider profile and
// upserts the provider link inside one transaction. A link owned by a
// different user aborts with auth.ErrIdentityAlreadyLinked.
func (r *Repository) ResolveFederatedUser(ctx context.Context, provider auth.Provider, profile auth.ProviderProfile) (*auth.User, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	user, err := scanUser(tx.QueryRow(ctx, getUserByEmailSQL, profile.Email))
	switch {
	case pg.IsNotFound(err):
		user, err = insertFederatedUser(ctx, tx, profile)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	var ownerID string
	err = tx.QueryRow(ctx, getLinkOwnerSQL, provider, profile.ProviderAccountID).Scan(&ownerID)
	switch {
	case pg.IsNotFound(err):
		if _, err := tx.Exec(ctx, insertLinkSQL, user.ID, provider, profile.ProviderAccountID, time.Now()); err != nil {
			if pg.IsUniqueViolation(err) {
				// Raced another callback for the same external identity.
				return nil, auth.ErrIdentityAlreadyLinked
			}
			return nil, fmt.Errorf("insert oauth link: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("get oauth link: %w", err)
	case ownerID != user.ID.String():
		return nil, auth.ErrIdentityAlreadyLinked
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return user, nil
}

func insertFederatedUser(ctx context.Context, tx pgx.Tx, profile auth.ProviderProfile) (*auth.User, error) {
	now := time.Now()
	user := &auth.User{
		ID:        uuid.New(),
		Name:      profile.Name,
		Email:     profile.Email,
		Role:      auth.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := tx.Exec(ctx, insertUserSQL,
		user.ID, user.Name, user.Email, nil, nil, user.Role, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if pg.IsUniqueViolation(err) {
			return nil, auth.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

type row interface {
	Scan(dest ...any) error
}

func scanUser(r row) (*auth.User, error) {
	var u auth.User
	if err := r.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Salt, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

var (
	_ auth.CredentialStorage = (*Repository)(nil)
	_ auth.FederatedStorage  = (*Repository)(nil)
)
