package auth

import "errors"

// User and credential errors. ErrUserNotFound deliberately covers both a
// missing account and a federated-only account attempting password login,
// so the two cases are indistinguishable to the caller.
var (
	ErrUserNotFound       = errors.New("auth: user not found")
	ErrEmailAlreadyExists = errors.New("auth: email already registered")
	ErrIncorrectPassword  = errors.New("auth: incorrect password")
)

// Federated flow errors.
var (
	ErrUnknownProvider       = errors.New("auth: unknown identity provider")
	ErrInvalidState          = errors.New("auth: oauth state invalid or expired")
	ErrInvalidCode           = errors.New("auth: oauth code rejected by provider")
	ErrProfileIncomplete     = errors.New("auth: provider profile missing name or email")
	ErrIdentityAlreadyLinked = errors.New("auth: external identity already linked to another user")
)
