package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPassword_SaltIsRandomized(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("s3cret!")
	require.NoError(t, err)
	h2, err := HashPassword("s3cret!")
	require.NoError(t, err)

	require.NotEqual(t, h1, h2, "two hashes of the same password must differ")
	require.True(t, VerifyPassword("s3cret!", h1))
	require.True(t, VerifyPassword("s3cret!", h2))
}

func TestVerifyPassword_WrongPassword(t *testing.T) {
	t.Parallel()

	h, err := HashPassword("correct-horse")
	require.NoError(t, err)
	require.False(t, VerifyPassword("battery-staple", h))
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	t.Parallel()

	require.False(t, VerifyPassword("whatever", "not-a-bcrypt-hash"))
	require.False(t, VerifyPassword("whatever", ""))
}
