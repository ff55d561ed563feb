package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"github.com/storekit/authflow/pkg/logger"
	"github.com/storekit/authflow/pkg/sanitizer"
)

// ProviderAdapter hides one provider's OAuth specifics behind a normalized
// profile. Implementations exchange the authorization code themselves.
type ProviderAdapter interface {
	Provider() Provider
	AuthURL(state string) string
	ResolveProfile(ctx context.Context, code string) (ProviderProfile, error)
}

// FederatedService runs the federated sign-in flow across all configured
// providers.
type FederatedService struct {
	storage  FederatedStorage
	states   StateStore
	adapters map[Provider]ProviderAdapter
	stateTTL time.Duration
	logger   *slog.Logger
}

// FederatedOption configures the service during construction.
type FederatedOption func(*FederatedService)

// WithFederatedLogger sets a custom logger.
func WithFederatedLogger(log *slog.Logger) FederatedOption {
	return func(s *FederatedService) {
		s.logger = log
	}
}

// WithStateTTL overrides how long a CSRF state token stays consumable.
func WithStateTTL(ttl time.Duration) FederatedOption {
	return func(s *FederatedService) {
		if ttl > 0 {
			s.stateTTL = ttl
		}
	}
}

// NewFederatedService creates the federated flow service over the given
// provider adapters.
func NewFederatedService(storage FederatedStorage, states StateStore, adapters []ProviderAdapter, opts ...FederatedOption) *FederatedService {
	s := &FederatedService{
		storage:  storage,
		states:   states,
		adapters: make(map[Provider]ProviderAdapter, len(adapters)),
		stateTTL: 10 * time.Minute,
		logger:   logger.Discard(),
	}
	for _, adapter := range adapters {
		s.adapters[adapter.Provider()] = adapter
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BeginSignIn stores a one-time CSRF state and returns the provider's
// authorization URL to redirect the user to.
func (s *FederatedService) BeginSignIn(ctx context.Context, provider Provider) (string, error) {
	adapter, ok := s.adapters[provider]
	if !ok {
		return "", ErrUnknownProvider
	}

	state, err := generateState()
	if err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	if err := s.states.Store(ctx, state, s.stateTTL); err != nil {
		return "", fmt.Errorf("failed to store state: %w", err)
	}
	return adapter.AuthURL(state), nil
}

// CompleteSignIn handles the provider callback: consumes the state,
// resolves the verified profile and finds-or-creates the local user with
// its provider link in one atomic unit. Any failure aborts the whole flow.
func (s *FederatedService) CompleteSignIn(ctx context.Context, provider Provider, code, state string) (*User, error) {
	adapter, ok := s.adapters[provider]
	if !ok {
		return nil, ErrUnknownProvider
	}

	if err := s.states.Consume(ctx, state); err != nil {
		return nil, ErrInvalidState
	}

	profile, err := adapter.ResolveProfile(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve provider profile: %w", err)
	}

	// A profile without name or email cannot back a user row.
	if profile.ProviderAccountID == "" || profile.Name == "" || profile.Email == "" {
		return nil, ErrProfileIncomplete
	}
	profile.Email = sanitizer.NormalizeEmail(profile.Email)

	user, err := s.storage.ResolveFederatedUser(ctx, provider, profile)
	if err != nil {
		return nil, err
	}

	s.logger.Info("federated sign-in completed",
		logger.UserID(user.ID.String()),
		logger.Provider(string(provider)),
		logger.Component("federated"),
	)
	return user, nil
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
