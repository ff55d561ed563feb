// Package sessiontoken signs session claims into compact HS256 bearer
// tokens and verifies them. Tokens provide integrity, not confidentiality:
// the claims are readable by the holder, but cannot be altered or forged
// without the process-wide secret.
//
// There is no server-side revocation list. Clearing the cookie on sign-out
// removes the client's copy, but a previously issued token remains valid
// until its natural expiry.
package sessiontoken
