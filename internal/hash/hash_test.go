package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckPassword(t *testing.T) {
	t.Parallel()

	h, err := HashPasswordCost("Secret-Pass1", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "Secret-Pass1", h)

	assert.True(t, CheckPassword(h, "Secret-Pass1"))
	assert.False(t, CheckPassword(h, "secret-pass1"))
	assert.False(t, CheckPassword("not-a-hash", "Secret-Pass1"))
}

func TestHashesAreSalted(t *testing.T) {
	t.Parallel()

	a, err := HashPasswordCost("Secret-Pass1", bcrypt.MinCost)
	require.NoError(t, err)
	b, err := HashPasswordCost("Secret-Pass1", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestSha256Hex(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		Sha256Hex(""))
	assert.Len(t, Sha256Hex("token"), 64)
}

func TestOpaqueToken(t *testing.T) {
	t.Parallel()

	a, err := OpaqueToken(32)
	require.NoError(t, err)
	b, err := OpaqueToken(32)
	require.NoError(t, err)

	assert.Len(t, a, 43)
	assert.NotEqual(t, a, b)
}
