package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekit/authflow/pkg/validator"
)

func TestApply(t *testing.T) {
	t.Parallel()

	t.Run("nil on success", func(t *testing.T) {
		t.Parallel()

		err := validator.Apply(
			validator.Required("name", "Ann", "Enter name."),
			validator.ValidEmail("email", "ann@x.com"),
		)
		assert.NoError(t, err)
	})

	t.Run("collects failures in order", func(t *testing.T) {
		t.Parallel()

		err := validator.Apply(
			validator.Required("name", "", "Enter name."),
			validator.Required("email", "", "Enter email."),
		)
		require.Error(t, err)

		ve := validator.Extract(err)
		require.Len(t, ve, 2)
		assert.Equal(t, "Enter name.", ve.First("name"))
		assert.Equal(t, "Enter email.", ve.First("email"))
		assert.True(t, ve.Has("name"))
		assert.False(t, ve.Has("password"))
	})
}

func TestValidEmail(t *testing.T) {
	t.Parallel()

	valid := []string{"ann@x.com", "a.b@example.co.uk", "user+tag@domain.io"}
	invalid := []string{"", "   ", "plain", "@x.com", "a@", "a@nodot", "a@.com", "a@x.com.", "Ann <ann@x.com>"}

	for _, email := range valid {
		assert.NoError(t, validator.Apply(validator.ValidEmail("email", email)), "expected %q valid", email)
	}
	for _, email := range invalid {
		assert.Error(t, validator.Apply(validator.ValidEmail("email", email)), "expected %q invalid", email)
	}
}

func TestStrongPassword(t *testing.T) {
	t.Parallel()

	cfg := validator.DefaultPasswordStrength()

	t.Run("accepts mixed-class password", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, validator.Apply(validator.StrongPassword("password", "Secret123!", cfg)))
	})

	t.Run("rejects short password", func(t *testing.T) {
		t.Parallel()
		assert.Error(t, validator.Apply(validator.StrongPassword("password", "Ab1", cfg)))
	})

	t.Run("rejects single-class password", func(t *testing.T) {
		t.Parallel()
		assert.Error(t, validator.Apply(validator.StrongPassword("password", "abcdefghij", cfg)))
	})

	t.Run("rejects over-long password", func(t *testing.T) {
		t.Parallel()
		long := make([]byte, 129)
		for i := range long {
			long[i] = 'a'
		}
		long[0] = 'A'
		assert.Error(t, validator.Apply(validator.StrongPassword("password", string(long), cfg)))
	})
}

func TestNotCommonPassword(t *testing.T) {
	t.Parallel()

	assert.Error(t, validator.Apply(validator.NotCommonPassword("password", "password123")))
	assert.Error(t, validator.Apply(validator.NotCommonPassword("password", "QWERTY123")))
	assert.NoError(t, validator.Apply(validator.NotCommonPassword("password", "Secret123!")))
}
