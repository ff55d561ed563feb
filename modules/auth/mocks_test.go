package auth

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockCredentialStorage is a mock implementation of CredentialStorage.
type MockCredentialStorage struct {
	mock.Mock
}

func (m *MockCredentialStorage) CreateUser(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockCredentialStorage) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockCredentialStorage) UpdateUserCredentials(ctx context.Context, email, name, passwordHash, salt string) (*User, error) {
	args := m.Called(ctx, email, name, passwordHash, salt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

// MockFederatedStorage is a mock implementation of FederatedStorage.
type MockFederatedStorage struct {
	mock.Mock
}

func (m *MockFederatedStorage) ResolveFederatedUser(ctx context.Context, provider Provider, profile ProviderProfile) (*User, error) {
	args := m.Called(ctx, provider, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

// MockStateStore is a mock implementation of StateStore.
type MockStateStore struct {
	mock.Mock
}

func (m *MockStateStore) Store(ctx context.Context, state string, ttl time.Duration) error {
	args := m.Called(ctx, state, ttl)
	return args.Error(0)
}

func (m *MockStateStore) Consume(ctx context.Context, state string) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

// MockProviderAdapter is a mock implementation of ProviderAdapter.
type MockProviderAdapter struct {
	mock.Mock
}

func (m *MockProviderAdapter) Provider() Provider {
	args := m.Called()
	return args.Get(0).(Provider)
}

func (m *MockProviderAdapter) AuthURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockProviderAdapter) ResolveProfile(ctx context.Context, code string) (ProviderProfile, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(ProviderProfile), args.Error(1)
}
