package oauth2

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeCacheKeyUsesExplicitValue(t *testing.T) {
	cfg := &Config{CacheKey: "my-key", TokenURL: "https://example.test/token"}
	key, err := computeCacheKey(cfg)
	assert.NoError(t, err)
	assert.Equal(t, "my-key", key)
}

func TestComputeCacheKeyIsDeterministicAndDistinct(t *testing.T) {
	a := &Config{TokenURL: "https://a.test", ClientID: "c1", GrantType: "client_credentials", Scope: "read"}
	b := &Config{TokenURL: "https://b.test", ClientID: "c1", GrantType: "client_credentials", Scope: "read"}

	keyA1, err := computeCacheKey(a)
	assert.NoError(t, err)
	keyA2, err := computeCacheKey(a)
	assert.NoError(t, err)
	keyB, err := computeCacheKey(b)
	assert.NoError(t, err)

	assert.Equal(t, keyA1, keyA2)
	assert.NotEqual(t, keyA1, keyB)
}
