package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify_RoundTrip(t *testing.T) {
	digest, err := Hash("password123")
	require.NoError(t, err)
	assert.True(t, Verify("password123", digest))
}

func TestVerify_WrongPassword(t *testing.T) {
	digest, err := Hash("password123")
	require.NoError(t, err)
	assert.False(t, Verify("password124", digest))
}

func TestVerify_MalformedDigest_ReturnsFalse(t *testing.T) {
	assert.False(t, Verify("password123", "not-a-bcrypt-digest"))
	assert.False(t, Verify("password123", ""))
}

func TestHash_DigestIsSalted(t *testing.T) {
	d1, err := Hash("password123")
	require.NoError(t, err)
	d2, err := Hash("password123")
	require.NoError(t, err)
	assert.NotEqual(t, d1, d2)
}

func TestHash_DigestSelfDescribesCost(t *testing.T) {
	digest, err := Hash("password123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(digest, "$2a$"))
}

func TestHash_OverlongPassword(t *testing.T) {
	_, err := Hash(strings.Repeat("x", 100)) // bcrypt caps input at 72 bytes
	assert.Error(t, err)
}
