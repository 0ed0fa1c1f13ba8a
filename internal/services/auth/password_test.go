package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	h, err := HashPassword("Abcdefg1")
	require.NoError(t, err)
	require.NotEmpty(t, h)
	assert.NotEqual(t, "Abcdefg1", h)

	assert.True(t, CheckPassword("Abcdefg1", h))
	assert.False(t, CheckPassword("Abcdefg2", h))
	assert.False(t, CheckPassword("", h))
}

func TestHashPassword_Salted(t *testing.T) {
	h1, err := HashPassword("Abcdefg1")
	require.NoError(t, err)
	h2, err := HashPassword("Abcdefg1")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.True(t, CheckPassword("Abcdefg1", h1))
	assert.True(t, CheckPassword("Abcdefg1", h2))
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	assert.False(t, CheckPassword("Abcdefg1", "not-a-bcrypt-hash"))
	assert.False(t, CheckPassword("Abcdefg1", ""))
}
