package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong-pass"))
}

func TestGenerateTemporaryPassword(t *testing.T) {
	p1, err := GenerateTemporaryPassword()
	require.NoError(t, err)
	assert.Len(t, p1, 12)

	p2, err := GenerateTemporaryPassword()
	require.NoError(t, err)
	assert.NotEqual(t, p1, p2)
}
