// Package redisstate backs the federated flow's CSRF state store with
// Redis so state tokens survive restarts and work across instances.
package redisstate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/storekit/authflow/modules/auth"
)

const keyPrefix = "auth:oauth_state:"

// Store keeps one-time CSRF states in Redis with a TTL.
type Store struct {
	client redis.UniversalClient
}

// NewStore creates a Store over the given Redis client.
func NewStore(client redis.UniversalClient) *Store {
	return &Store{client: client}
}

// Store records the state; Redis expires it after ttl on its own.
func (s *Store) Store(ctx context.Context, state string, ttl time.Duration) error {
	if err := s.client.Set(ctx, keyPrefix+state, "1", ttl).Err(); err != nil {
		return fmt.Errorf("store oauth state: %w", err)
	}
	return nil
}

// Consume removes the state atomically via GETDEL, so two concurrent
// callbacks with the same state can never both succeed.
func (s *Store) Consume(ctx context.Context, state string) error {
	err := s.client.GetDel(ctx, keyPrefix+state).Err()
	if errors.Is(err, redis.Nil) {
		return auth.ErrInvalidState
	}
	if err != nil {
		return fmt.Errorf("consume oauth state: %w", err)
	}
	return nil
}

var _ auth.StateStore = (*Store)(nil)
