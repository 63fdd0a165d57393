package oauth2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCodeVerifierIsURLSafeAndUnique(t *testing.T) {
	a, err := generateCodeVerifier()
	require.NoError(t, err)
	b, err := generateCodeVerifier()
	require.NoError(t, err)

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, "+")
	assert.NotContains(t, a, "/")
	assert.NotContains(t, a, "=")
}

func TestCodeChallengeS256IsDeterministic(t *testing.T) {
	verifier := "fixed-verifier-value"
	assert.Equal(t, codeChallengeS256(verifier), codeChallengeS256(verifier))
	assert.NotEqual(t, codeChallengeS256(verifier), codeChallengeS256(verifier+"x"))
}
