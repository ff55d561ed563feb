package passwordhash

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/scrypt"
)

const saltSize = 16

// Params controls the scrypt work factor. The defaults follow the
// recommended interactive-login parameters; N must be a power of two.
type Params struct {
	N      int `env:"SCRYPT_N" envDefault:"16384"`
	R      int `env:"SCRYPT_R" envDefault:"8"`
	P      int `env:"SCRYPT_P" envDefault:"1"`
	KeyLen int `env:"SCRYPT_KEY_LEN" envDefault:"64"`
}

// DefaultParams returns the parameters used when no configuration is provided.
func DefaultParams() Params {
	return Params{N: 16384, R: 8, P: 1, KeyLen: 64}
}

// Hasher derives and verifies salted password hashes using scrypt.
// scrypt is deliberately slow and memory-hard; a fast general-purpose hash
// would defeat the purpose of salting.
type Hasher struct {
	params Params
}

// New creates a Hasher with the given parameters. Zero-value fields fall
// back to the defaults so a partially populated config stays usable.
func New(params Params) *Hasher {
	def := DefaultParams()
	if params.N <= 0 {
		params.N = def.N
	}
	if params.R <= 0 {
		params.R = def.R
	}
	if params.P <= 0 {
		params.P = def.P
	}
	if params.KeyLen <= 0 {
		params.KeyLen = def.KeyLen
	}
	return &Hasher{params: params}
}

// GenerateSalt returns a fresh random salt, hex-encoded.
func (h *Hasher) GenerateSalt() (string, error) {
	b := make([]byte, saltSize)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Hash derives the salted hash for a password. The same (password, salt)
// pair always yields the same output, which is what Compare relies on.
func (h *Hasher) Hash(password, salt string) (string, error) {
	rawSalt, err := hex.DecodeString(salt)
	if err != nil {
		return "", ErrInvalidSalt
	}

	key, err := scrypt.Key([]byte(password), rawSalt, h.params.N, h.params.R, h.params.P, h.params.KeyLen)
	if err != nil {
		return "", fmt.Errorf("failed to derive key: %w", err)
	}
	return hex.EncodeToString(key), nil
}

// Compare recomputes the hash of password with salt and checks it against
// the stored hash in constant time. A mismatch is not an error; only
// malformed inputs are.
func (h *Hasher) Compare(password, encodedHash, salt string) (bool, error) {
	storedKey, err := hex.DecodeString(encodedHash)
	if err != nil {
		return false, ErrInvalidHash
	}

	computed, err := h.Hash(password, salt)
	if err != nil {
		return false, err
	}

	computedKey, err := hex.DecodeString(computed)
	if err != nil {
		return false, ErrInvalidHash
	}

	return subtle.ConstantTimeCompare(storedKey, computedKey) == 1, nil
}
