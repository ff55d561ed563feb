package passwordhash

import "errors"

var (
	ErrInvalidSalt = errors.New("passwordhash: salt is not valid hex")
	ErrInvalidHash = errors.New("passwordhash: stored hash is not valid hex")
)
