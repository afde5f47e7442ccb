package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCompare(t *testing.T) {
	hash, err := HashPassword("admin123", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "admin123", hash)

	assert.True(t, ComparePassword(hash, "admin123"))
	assert.False(t, ComparePassword(hash, "admin124"))
	assert.False(t, ComparePassword("not-a-hash", "admin123"))
}

func TestHashPasswordClampsCost(t *testing.T) {
	hash, err := HashPassword("secret", 99)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, DefaultCost, cost)
}

func TestHashPasswordTooLong(t *testing.T) {
	_, err := HashPassword(string(make([]byte, 80)), bcrypt.MinCost)
	assert.Error(t, err)
}
