package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSeed(t *testing.T) {
	require.Equal(t, Seed("round-1"), Seed("round-1"))
	require.NotEqual(t, Seed("round-1"), Seed("round-2"))
}

func TestGenerateRandomAlphabet(t *testing.T) {
	s := GenerateRandomAlphabet(16)
	require.Len(t, s, 16)
	for _, c := range s {
		require.Contains(t, alphabet, string(c))
	}
}
