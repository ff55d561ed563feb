package auth

import (
	"context"
	"sync"
	"time"
)

// MemoryStateStore keeps CSRF states in process memory. Suitable for tests
// and single-instance development; production deployments should use the
// Redis-backed store so states survive restarts and scale out.
type MemoryStateStore struct {
	mu     sync.Mutex
	states map[string]time.Time
}

// NewMemoryStateStore creates an empty in-memory state store.
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{states: make(map[string]time.Time)}
}

// Store records the state with its expiration deadline.
func (s *MemoryStateStore) Store(_ context.Context, state string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state] = time.Now().Add(ttl)
	return nil
}

// Consume removes the state if present and unexpired, erroring otherwise.
// A state is consumable exactly once.
func (s *MemoryStateStore) Consume(_ context.Context, state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	deadline, ok := s.states[state]
	if !ok {
		return ErrInvalidState
	}
	delete(s.states, state)
	if time.Now().After(deadline) {
		return ErrInvalidState
	}
	return nil
}

var _ StateStore = (*MemoryStateStore)(nil)
