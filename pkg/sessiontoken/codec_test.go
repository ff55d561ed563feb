package sessiontoken_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekit/authflow/pkg/sessiontoken"
)

const testSecret = "test-secret-at-least-32-characters-long"

func testClaims() sessiontoken.Claims {
	return sessiontoken.Claims{
		UserID: "7a9c2f5e-0000-4000-8000-000000000001",
		Role:   "user",
		Email:  "ann@x.com",
		Name:   "Ann",
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty secret", func(t *testing.T) {
		t.Parallel()

		_, err := sessiontoken.New("")
		assert.ErrorIs(t, err, sessiontoken.ErrMissingSecret)
	})

	t.Run("rejects short secret", func(t *testing.T) {
		t.Parallel()

		_, err := sessiontoken.New("too-short")
		assert.ErrorIs(t, err, sessiontoken.ErrSecretTooShort)
	})

	t.Run("defaults TTL to seven days", func(t *testing.T) {
		t.Parallel()

		codec, err := sessiontoken.New(testSecret)
		require.NoError(t, err)
		assert.Equal(t, 7*24*time.Hour, codec.TTL())
	})
}

func TestCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	codec, err := sessiontoken.New(testSecret)
	require.NoError(t, err)

	token, err := codec.Issue(testClaims())
	require.NoError(t, err)
	require.Len(t, strings.Split(token, "."), 3)

	claims, err := codec.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, "7a9c2f5e-0000-4000-8000-000000000001", claims.UserID)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, "ann@x.com", claims.Email)
	assert.Equal(t, "Ann", claims.Name)
	assert.NotZero(t, claims.IssuedAt)
	assert.Equal(t, claims.IssuedAt+int64((7*24*time.Hour).Seconds()), claims.ExpiresAt)
}

func TestCodec_ExpiredToken(t *testing.T) {
	t.Parallel()

	// One codec, one clock: Verify must consult the same clock Issue used.
	now := time.Now()
	codec, err := sessiontoken.New(testSecret,
		sessiontoken.WithTTL(time.Hour),
		sessiontoken.WithClock(func() time.Time { return now }),
	)
	require.NoError(t, err)

	token, err := codec.Issue(testClaims())
	require.NoError(t, err)

	_, err = codec.Verify(token)
	require.NoError(t, err, "token must be valid before the TTL elapses")

	now = now.Add(2 * time.Hour)

	_, err = codec.Verify(token)
	assert.ErrorIs(t, err, sessiontoken.ErrExpiredToken)
	assert.True(t, sessiontoken.IsTokenError(err))
}

func TestCodec_WrongSecret(t *testing.T) {
	t.Parallel()

	issuer, err := sessiontoken.New(testSecret)
	require.NoError(t, err)
	verifier, err := sessiontoken.New("another-secret-also-32-characters-min!!")
	require.NoError(t, err)

	token, err := issuer.Issue(testClaims())
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, sessiontoken.ErrInvalidSignature)
	assert.True(t, sessiontoken.IsTokenError(err))
}

func TestCodec_TamperedClaims(t *testing.T) {
	t.Parallel()

	codec, err := sessiontoken.New(testSecret)
	require.NoError(t, err)

	token, err := codec.Issue(testClaims())
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	forged := base64.RawURLEncoding.EncodeToString([]byte(`{"uid":"x","role":"admin"}`))
	tampered := parts[0] + "." + forged + "." + parts[2]

	_, err = codec.Verify(tampered)
	assert.ErrorIs(t, err, sessiontoken.ErrInvalidSignature)
}

func TestCodec_RejectsForeignAlgorithm(t *testing.T) {
	t.Parallel()

	codec, err := sessiontoken.New(testSecret)
	require.NoError(t, err)

	token, err := codec.Issue(testClaims())
	require.NoError(t, err)
	parts := strings.Split(token, ".")

	// Re-sign a token that claims a different algorithm with the real key.
	// The codec must refuse it before even looking at the claims.
	hdr := base64.RawURLEncoding.EncodeToString([]byte(`{"typ":"JWT","alg":"none"}`))
	payload := hdr + "." + parts[1]
	resigned := payload + "." + signWithTestSecret(t, payload)

	_, err = codec.Verify(resigned)
	assert.ErrorIs(t, err, sessiontoken.ErrUnexpectedSigningMethod)
}

func signWithTestSecret(t *testing.T, payload string) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func TestCodec_MalformedToken(t *testing.T) {
	t.Parallel()

	codec, err := sessiontoken.New(testSecret)
	require.NoError(t, err)

	for _, token := range []string{"", "abc", "a.b", "a.b.c.d"} {
		_, err := codec.Verify(token)
		assert.Error(t, err, "token %q must not verify", token)
		assert.True(t, sessiontoken.IsTokenError(err))
	}
}
