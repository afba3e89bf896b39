package cryptox_test

import (
	"encoding/base64"
	"testing"

	"github.com/aussiebroadwan/casdoor/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	for _, size := range []int{cryptox.TokenSize128, cryptox.TokenSize256, 24} {
		token, err := cryptox.GenerateToken(size)
		require.NoError(t, err)

		raw, err := base64.RawURLEncoding.DecodeString(token)
		require.NoError(t, err)
		require.Len(t, raw, size)

		other, err := cryptox.GenerateToken(size)
		require.NoError(t, err)
		require.NotEqual(t, token, other, "tokens should be unique")
	}
}

func TestGenerateToken_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		token, err := cryptox.GenerateToken(size)
		require.Error(t, err)
		require.Empty(t, token)
	}
}

func TestFingerprintToken(t *testing.T) {
	a := cryptox.FingerprintToken("access-token")
	require.Equal(t, a, cryptox.FingerprintToken("access-token"))
	require.NotEqual(t, a, cryptox.FingerprintToken("access-token-2"))
	require.Len(t, a, 16)
}

func TestTokensEqual(t *testing.T) {
	require.True(t, cryptox.TokensEqual("state-1", "state-1"))
	require.False(t, cryptox.TokensEqual("state-1", "state-2"))
	require.False(t, cryptox.TokensEqual("state", "state-1"))
	require.False(t, cryptox.TokensEqual("", ""), "empty expected value never matches")
}
