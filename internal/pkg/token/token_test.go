package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_LengthAndAlphabet(t *testing.T) {
	tok, err := New()
	require.NoError(t, err)
	assert.Len(t, tok, Length)
	for _, c := range tok {
		assert.True(t, strings.ContainsRune(alphabet, c), "unexpected character %q", c)
	}
}

func TestNew_NoAmbiguousCharacters(t *testing.T) {
	for i := 0; i < 50; i++ {
		tok, err := New()
		require.NoError(t, err)
		assert.False(t, strings.ContainsAny(tok, "0Oo1lI"), tok)
	}
}

func TestNew_Unique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		tok, err := New()
		require.NoError(t, err)
		require.False(t, seen[tok])
		seen[tok] = true
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal("abc", "abc"))
	assert.False(t, Equal("abc", "ABC"))
	assert.False(t, Equal("abc", "ab"))
	assert.False(t, Equal("", ""))
}
