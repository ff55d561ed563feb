package sessiontoken

import "errors"

var (
	ErrInvalidToken            = errors.New("sessiontoken: invalid token")
	ErrExpiredToken            = errors.New("sessiontoken: token is expired")
	ErrInvalidSignature        = errors.New("sessiontoken: invalid signature")
	ErrUnexpectedSigningMethod = errors.New("sessiontoken: unexpected signing method")
	ErrMissingSecret           = errors.New("sessiontoken: missing signing secret")
	ErrSecretTooShort          = errors.New("sessiontoken: signing secret too short")
)

// IsTokenError reports whether err is any verification failure. The route
// guard treats all of them identically: the request is simply not
// authenticated, and the user is never shown a token error.
func IsTokenError(err error) bool {
	return errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrExpiredToken) ||
		errors.Is(err, ErrInvalidSignature) ||
		errors.Is(err, ErrUnexpectedSigningMethod)
}
