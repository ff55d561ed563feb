// Package passwordhash derives per-user salted password hashes with scrypt
// and verifies candidate passwords against them in constant time.
//
// The salt and the derived key are both stored hex-encoded, in separate
// columns, so an account created without a password (federated sign-in)
// simply has neither.
package passwordhash
