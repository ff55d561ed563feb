// Package auth implements storefront authentication: email/password
// sign-up and sign-in, federated sign-in via Google, Discord and GitHub,
// and the session lifecycle binding the two to a signed cookie.
//
// The package is split into a credential flow (CredentialService), a
// federated flow (FederatedService) and a SessionManager; all persistence
// goes through the CredentialStorage and FederatedStorage interfaces so
// the flows stay testable without a database. Router wires the flows to
// their HTTP endpoints.
package auth
