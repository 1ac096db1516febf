// bytesByHarsh | 2026
// security_test.go

package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
	assert.NotContains(t, hash, "correct horse")

	// Same input, fresh salt, different hash.
	hash2, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	require.NoError(t, err)

	valid, err := VerifyPassword("s3cret-password", hash)
	require.NoError(t, err)
	assert.True(t, valid)

	valid, err = VerifyPassword("wrong-password", hash)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestVerifyPasswordInvalidHash(t *testing.T) {
	_, err := VerifyPassword("anything", "not-an-argon2-hash")
	assert.Error(t, err)
}

func TestVerifyPasswordTimingSafe(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	require.NoError(t, err)

	t.Run("valid password", func(t *testing.T) {
		valid, newHash, err := VerifyPasswordTimingSafe("s3cret-password", &hash)
		require.NoError(t, err)
		assert.True(t, valid)
		assert.Empty(t, newHash)
	})

	t.Run("wrong password", func(t *testing.T) {
		valid, _, err := VerifyPasswordTimingSafe("wrong", &hash)
		require.NoError(t, err)
		assert.False(t, valid)
	})

	t.Run("nil hash burns a verification and fails", func(t *testing.T) {
		valid, newHash, err := VerifyPasswordTimingSafe("anything", nil)
		require.NoError(t, err)
		assert.False(t, valid)
		assert.Empty(t, newHash)
	})
}

func TestHashToken(t *testing.T) {
	h1 := HashToken("some.jwt.token")
	h2 := HashToken("some.jwt.token")
	h3 := HashToken("another.jwt.token")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64)

	assert.True(t, CompareTokenHash("some.jwt.token", h1))
	assert.False(t, CompareTokenHash("another.jwt.token", h1))
}
