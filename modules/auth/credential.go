package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/storekit/authflow/pkg/logger"
	"github.com/storekit/authflow/pkg/passwordhash"
	"github.com/storekit/authflow/pkg/sanitizer"
	"github.com/storekit/authflow/pkg/validator"
)

// CredentialService orchestrates email/password sign-up and sign-in.
type CredentialService struct {
	storage          CredentialStorage
	hasher           *passwordhash.Hasher
	logger           *slog.Logger
	passwordStrength validator.PasswordStrengthConfig
}

// CredentialOption configures the service during construction.
type CredentialOption func(*CredentialService)

// WithCredentialLogger sets a custom logger.
func WithCredentialLogger(log *slog.Logger) CredentialOption {
	return func(s *CredentialService) {
		s.logger = log
	}
}

// WithPasswordStrength overrides the sign-up password requirements.
func WithPasswordStrength(cfg validator.PasswordStrengthConfig) CredentialOption {
	return func(s *CredentialService) {
		s.passwordStrength = cfg
	}
}

// NewCredentialService creates the credential flow service.
func NewCredentialService(storage CredentialStorage, hasher *passwordhash.Hasher, opts ...CredentialOption) *CredentialService {
	s := &CredentialService{
		storage:          storage,
		hasher:           hasher,
		logger:           logger.Discard(),
		passwordStrength: validator.DefaultPasswordStrength(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SignUp registers a new credential account, or attaches credentials to an
// existing federated-only account with the same email.
//
// Presence checks run strictly before schema validation: an empty field
// short-circuits with its own message and no further validation or storage
// call happens. Validation failures come back as validator.ValidationErrors;
// an email already bound to a password-holding account comes back as
// ErrEmailAlreadyExists.
func (s *CredentialService) SignUp(ctx context.Context, name, email, password string) (*User, error) {
	name = sanitizer.TrimName(name)
	email = sanitizer.NormalizeEmail(email)

	if err := validator.Apply(
		validator.Required("name", name, msgEnterName),
		validator.Required("email", email, msgEnterEmail),
		validator.Required("password", password, msgEnterPassword),
	); err != nil {
		return nil, err
	}

	if err := validator.Apply(
		validator.ValidEmail("email", email),
		validator.StrongPassword("password", password, s.passwordStrength),
		validator.NotCommonPassword("password", password),
	); err != nil {
		return nil, err
	}

	existing, err := s.storage.GetUserByEmail(ctx, email)
	switch {
	case err == nil && existing.HasPassword():
		return nil, ErrEmailAlreadyExists

	case err == nil:
		// Federated-only account adding a password: attach credentials to
		// the existing row, keeping its id and links.
		hash, salt, hashErr := s.hashNew(password)
		if hashErr != nil {
			return nil, hashErr
		}
		user, updateErr := s.storage.UpdateUserCredentials(ctx, email, name, hash, salt)
		if updateErr != nil {
			return nil, fmt.Errorf("failed to attach credentials: %w", updateErr)
		}
		s.logger.Info("credentials attached to federated account",
			logger.UserID(user.ID.String()), logger.Component("credential"))
		return user, nil

	case !errors.Is(err, ErrUserNotFound):
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, salt, err := s.hashNew(password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: &hash,
		Salt:         &salt,
		Role:         RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.storage.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			// Lost the race to a concurrent sign-up with the same email.
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", logger.UserID(user.ID.String()), logger.Component("credential"))
	return user, nil
}

// SignIn authenticates an email/password pair.
//
// A missing account and a federated-only account (no password to check)
// both report ErrUserNotFound so account type is not leaked. A password
// mismatch reports ErrIncorrectPassword and returns immediately: no
// session may ever be established after a failed verification.
func (s *CredentialService) SignIn(ctx context.Context, email, password string) (*User, error) {
	email = sanitizer.NormalizeEmail(email)

	if err := validator.Apply(
		validator.Required("email", email, msgEnterEmail),
		validator.Required("password", password, msgEnterPassword),
	); err != nil {
		return nil, err
	}

	if err := validator.Apply(
		validator.ValidEmail("email", email),
	); err != nil {
		return nil, err
	}

	user, err := s.storage.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	if !user.HasPassword() {
		return nil, ErrUserNotFound
	}

	ok, err := s.hasher.Compare(password, *user.PasswordHash, *user.Salt)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return nil, ErrIncorrectPassword
	}

	s.logger.Info("user signed in", logger.UserID(user.ID.String()), logger.Component("credential"))
	return user, nil
}

func (s *CredentialService) hashNew(password string) (hash, salt string, err error) {
	salt, err = s.hasher.GenerateSalt()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate salt: %w", err)
	}
	hash, err = s.hasher.Hash(password, salt)
	if err != nil {
		return "", "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, salt, nil
}
