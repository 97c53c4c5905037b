package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_LengthAndAlphabet(t *testing.T) {
	tok, err := New()
	require.NoError(t, err)
	assert.Len(t, tok, 64)
	for _, c := range tok {
		assert.Contains(t, "0123456789abcdef", string(c))
	}
}

func TestNew_NoDuplicates(t *testing.T) {
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		tok, err := New()
		require.NoError(t, err)
		_, dup := seen[tok]
		require.False(t, dup, "duplicate token after %d generations", i)
		seen[tok] = struct{}{}
	}
}
