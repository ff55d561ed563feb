package sessiontoken

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Header constants required by RFC 7519. Only HS256 is ever accepted;
// anything else is treated as an algorithm confusion attempt.
const (
	headerType      = "JWT"
	headerAlgorithm = "HS256"
)

// DefaultTTL is the validity window for issued tokens when none is
// configured. One policy for the whole system; the session cookie's
// Max-Age is derived from the same value.
const DefaultTTL = 7 * 24 * time.Hour

const minSecretLength = 32

type header struct {
	Type      string `json:"typ"`
	Algorithm string `json:"alg"`
}

// Claims is the payload embedded in a session token. It identifies the
// holder and carries the temporal claims checked on every verification.
type Claims struct {
	UserID    string `json:"uid"`
	Role      string `json:"role"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// Valid checks the temporal claims against now.
func (c Claims) Valid(now time.Time) error {
	if c.ExpiresAt > 0 && now.Unix() > c.ExpiresAt {
		return ErrExpiredToken
	}
	return nil
}

// Codec signs session claims into compact HS256 tokens and verifies them.
// The signing secret is sourced once at process start and never rotated
// within a run.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option configures a Codec during construction.
type Option func(*Codec)

// WithTTL overrides the token validity window.
func WithTTL(ttl time.Duration) Option {
	return func(c *Codec) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock overrides the time source. Test hook.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a Codec from a signing secret. The secret must be at least
// 32 bytes for adequate security with HMAC-SHA256.
func New(secret string, opts ...Option) (*Codec, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("%w: got %d bytes, need at least %d", ErrSecretTooShort, len(secret), minSecretLength)
	}

	c := &Codec{
		secret: []byte(secret),
		ttl:    DefaultTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TTL returns the configured validity window.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue signs the claims into a compact token, stamping iat and exp.
// Whatever the caller set in those fields is overwritten; the codec owns
// the expiration policy.
func (c *Codec) Issue(claims Claims) (string, error) {
	now := c.now()
	claims.IssuedAt = now.Unix()
	claims.ExpiresAt = now.Add(c.ttl).Unix()

	headerJSON, err := json.Marshal(header{Type: headerType, Algorithm: headerAlgorithm})
	if err != nil {
		return "", fmt.Errorf("failed to marshal header: %w", err)
	}
	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("failed to marshal claims: %w", err)
	}

	payload := base64URLEncode(headerJSON) + "." + base64URLEncode(claimsJSON)
	return payload + "." + c.sign(payload), nil
}

// Verify checks the signature, algorithm and expiration of a token and
// returns the decoded claims.
func (c *Codec) Verify(token string) (Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return Claims{}, ErrInvalidToken
	}

	// Signature first, in constant time, before touching any decoded content.
	payload := parts[0] + "." + parts[1]
	expected := c.sign(payload)
	if subtle.ConstantTimeCompare([]byte(parts[2]), []byte(expected)) != 1 {
		return Claims{}, ErrInvalidSignature
	}

	headerJSON, err := base64URLDecode(parts[0])
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	var hdr header
	if err := json.Unmarshal(headerJSON, &hdr); err != nil {
		return Claims{}, ErrInvalidToken
	}
	if hdr.Algorithm != headerAlgorithm {
		return Claims{}, ErrUnexpectedSigningMethod
	}

	claimsJSON, err := base64URLDecode(parts[1])
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	var claims Claims
	if err := json.Unmarshal(claimsJSON, &claims); err != nil {
		return Claims{}, ErrInvalidToken
	}

	if err := claims.Valid(c.now()); err != nil {
		return Claims{}, err
	}
	return claims, nil
}

func (c *Codec) sign(payload string) string {
	h := hmac.New(sha256.New, c.secret)
	h.Write([]byte(payload))
	return base64URLEncode(h.Sum(nil))
}

// Padding is stripped on encode and restored on decode per RFC 7515.
func base64URLEncode(data []byte) string {
	return strings.TrimRight(base64.URLEncoding.EncodeToString(data), "=")
}

func base64URLDecode(s string) ([]byte, error) {
	switch len(s) % 4 {
	case 2:
		s += "=="
	case 3:
		s += "="
	}
	return base64.URLEncoding.DecodeString(s)
}
