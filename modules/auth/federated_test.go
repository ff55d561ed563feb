package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func googleMockAdapter() *MockProviderAdapter {
	adapter := &MockProviderAdapter{}
	adapter.On("Provider").Return(ProviderGoogle)
	return adapter
}

func TestFederatedService_BeginSignIn(t *testing.T) {
	t.Parallel()

	t.Run("stores state and returns auth url", func(t *testing.T) {
		t.Parallel()

		storage := &MockFederatedStorage{}
		states := &MockStateStore{}
		adapter := googleMockAdapter()

		var captured string
		states.On("Store", mock.Anything, mock.AnythingOfType("string"), 10*time.Minute).
			Run(func(args mock.Arguments) { captured = args.String(1) }).
			Return(nil)
		adapter.On("AuthURL", mock.AnythingOfType("string")).
			Return("https://accounts.example.com/authorize?state=abc")

		svc := NewFederatedService(storage, states, []ProviderAdapter{adapter})
		url, err := svc.BeginSignIn(context.Background(), ProviderGoogle)

		require.NoError(t, err)
		assert.NotEmpty(t, url)
		assert.NotEmpty(t, captured)
		states.AssertExpectations(t)
	})

	t.Run("states are unique per request", func(t *testing.T) {
		t.Parallel()

		storage := &MockFederatedStorage{}
		states := &MockStateStore{}
		adapter := googleMockAdapter()

		var seen []string
		states.On("Store", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
			Run(func(args mock.Arguments) { seen = append(seen, args.String(1)) }).
			Return(nil)
		adapter.On("AuthURL", mock.AnythingOfType("string")).Return("https://example.com")

		svc := NewFederatedService(storage, states, []ProviderAdapter{adapter})
		_, err := svc.BeginSignIn(context.Background(), ProviderGoogle)
		require.NoError(t, err)
		_, err = svc.BeginSignIn(context.Background(), ProviderGoogle)
		require.NoError(t, err)

		require.Len(t, seen, 2)
		assert.NotEqual(t, seen[0], seen[1])
	})

	t.Run("unknown provider", func(t *testing.T) {
		t.Parallel()

		svc := NewFederatedService(&MockFederatedStorage{}, &MockStateStore{}, nil)
		_, err := svc.BeginSignIn(context.Background(), Provider("myspace"))

		require.ErrorIs(t, err, ErrUnknownProvider)
	})

	t.Run("custom state ttl", func(t *testing.T) {
		t.Parallel()

		storage := &MockFederatedStorage{}
		states := &MockStateStore{}
		adapter := googleMockAdapter()

		states.On("Store", mock.Anything, mock.Anything, 2*time.Minute).Return(nil)
		adapter.On("AuthURL", mock.Anything).Return("https://example.com")

		svc := NewFederatedService(storage, states, []ProviderAdapter{adapter}, WithStateTTL(2*time.Minute))
		_, err := svc.BeginSignIn(context.Background(), ProviderGoogle)

		require.NoError(t, err)
		states.AssertExpectations(t)
	})
}

func TestFederatedService_CompleteSignIn(t *testing.T) {
	t.Parallel()

	profile := ProviderProfile{
		ProviderAccountID: "g-123",
		Email:             "ann@example.com",
		Name:              "Ann",
		EmailVerified:     true,
	}

	t.Run("resolves user through storage", func(t *testing.T) {
		t.Parallel()

		storage := &MockFederatedStorage{}
		states := &MockStateStore{}
		adapter := googleMockAdapter()

		resolved := &User{ID: uuid.New(), Name: "Ann", Email: "ann@example.com", Role: RoleUser}
		states.On("Consume", mock.Anything, "state-1").Return(nil)
		adapter.On("ResolveProfile", mock.Anything, "code-1").Return(profile, nil)
		storage.On("ResolveFederatedUser", mock.Anything, ProviderGoogle, profile).Return(resolved, nil)

		svc := NewFederatedService(storage, states, []ProviderAdapter{adapter})
		user, err := svc.CompleteSignIn(context.Background(), ProviderGoogle, "code-1", "state-1")

		require.NoError(t, err)
		assert.Equal(t, resolved.ID, user.ID)
		storage.AssertExpectations(t)
	})

	t.Run("normalizes profile email before resolution", func(t *testing.T) {
		t.Parallel()

		storage := &MockFederatedStorage{}
		states := &MockStateStore{}
		adapter := googleMockAdapter()

		upper := profile
		upper.Email = "Ann@EXAMPLE.com"
		states.On("Consume", mock.Anything, "state-1").Return(nil)
		adapter.On("ResolveProfile", mock.Anything, "code-1").Return(upper, nil)
		storage.On("ResolveFederatedUser", mock.Anything, ProviderGoogle,
			mock.MatchedBy(func(p ProviderProfile) bool { return p.Email == "ann@example.com" })).
			Return(&User{ID: uuid.New()}, nil)

		svc := NewFederatedService(storage, states, []ProviderAdapter{adapter})
		_, err := svc.CompleteSignIn(context.Background(), ProviderGoogle, "code-1", "state-1")

		require.NoError(t, err)
		storage.AssertExpectations(t)
	})

	t.Run("invalid state aborts before code exchange", func(t *testing.T) {
		t.Parallel()

		storage := &MockFederatedStorage{}
		states := &MockStateStore{}
		adapter := googleMockAdapter()

		states.On("Consume", mock.Anything, "forged").Return(ErrInvalidState)

		svc := NewFederatedService(storage, states, []ProviderAdapter{adapter})
		_, err := svc.CompleteSignIn(context.Background(), ProviderGoogle, "code-1", "forged")

		require.ErrorIs(t, err, ErrInvalidState)
		adapter.AssertNotCalled(t, "ResolveProfile", mock.Anything, mock.Anything)
	})

	t.Run("incomplete profile is rejected", func(t *testing.T) {
		t.Parallel()

		storage := &MockFederatedStorage{}
		states := &MockStateStore{}
		adapter := googleMockAdapter()

		noEmail := profile
		noEmail.Email = ""
		states.On("Consume", mock.Anything, "state-1").Return(nil)
		adapter.On("ResolveProfile", mock.Anything, "code-1").Return(noEmail, nil)

		svc := NewFederatedService(storage, states, []ProviderAdapter{adapter})
		_, err := svc.CompleteSignIn(context.Background(), ProviderGoogle, "code-1", "state-1")

		require.ErrorIs(t, err, ErrProfileIncomplete)
		storage.AssertNotCalled(t, "ResolveFederatedUser", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("code exchange failure propagates", func(t *testing.T) {
		t.Parallel()

		storage := &MockFederatedStorage{}
		states := &MockStateStore{}
		adapter := googleMockAdapter()

		states.On("Consume", mock.Anything, "state-1").Return(nil)
		adapter.On("ResolveProfile", mock.Anything, "bad-code").Return(ProviderProfile{}, ErrInvalidCode)

		svc := NewFederatedService(storage, states, []ProviderAdapter{adapter})
		_, err := svc.CompleteSignIn(context.Background(), ProviderGoogle, "bad-code", "state-1")

		require.ErrorIs(t, err, ErrInvalidCode)
	})

	t.Run("identity linked to another user aborts", func(t *testing.T) {
		t.Parallel()

		storage := &MockFederatedStorage{}
		states := &MockStateStore{}
		adapter := googleMockAdapter()

		states.On("Consume", mock.Anything, "state-1").Return(nil)
		adapter.On("ResolveProfile", mock.Anything, "code-1").Return(profile, nil)
		storage.On("ResolveFederatedUser", mock.Anything, ProviderGoogle, profile).
			Return(nil, ErrIdentityAlreadyLinked)

		svc := NewFederatedService(storage, states, []ProviderAdapter{adapter})
		_, err := svc.CompleteSignIn(context.Background(), ProviderGoogle, "code-1", "state-1")

		require.ErrorIs(t, err, ErrIdentityAlreadyLinked)
	})

	t.Run("unknown provider never touches the state store", func(t *testing.T) {
		t.Parallel()

		states := &MockStateStore{}
		svc := NewFederatedService(&MockFederatedStorage{}, states, nil)

		_, err := svc.CompleteSignIn(context.Background(), Provider("myspace"), "code", "state")

		require.ErrorIs(t, err, ErrUnknownProvider)
		states.AssertNotCalled(t, "Consume", mock.Anything, mock.Anything)
	})
}

func TestMemoryStateStore(t *testing.T) {
	t.Parallel()

	t.Run("state is consumable exactly once", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryStateStore()
		ctx := context.Background()

		require.NoError(t, store.Store(ctx, "abc", time.Minute))
		require.NoError(t, store.Consume(ctx, "abc"))
		require.ErrorIs(t, store.Consume(ctx, "abc"), ErrInvalidState)
	})

	t.Run("expired state is invalid", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryStateStore()
		ctx := context.Background()

		require.NoError(t, store.Store(ctx, "abc", -time.Second))
		require.ErrorIs(t, store.Consume(ctx, "abc"), ErrInvalidState)
	})

	t.Run("unknown state is invalid", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryStateStore()
		err := store.Consume(context.Background(), "never-stored")

		require.ErrorIs(t, err, ErrInvalidState)
		assert.True(t, errors.Is(err, ErrInvalidState))
	})
}
