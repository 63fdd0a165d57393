package oauth2

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	// os.UserHomeDir consults $HOME on unix; exercised via newFileStore.
	store, err := newFileStore()
	require.NoError(t, err)

	tok := &Token{AccessToken: "abc123", TokenType: "Bearer", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, store.Save("key1", tok))

	loaded, ok := store.Load("key1")
	require.True(t, ok)
	require.Equal(t, tok.AccessToken, loaded.AccessToken)
	require.Equal(t, tok.TokenType, loaded.TokenType)

	info, err := os.Stat(store.path("key1"))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStoreLoadMissingIsAbsentNotError(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	store, err := newFileStore()
	require.NoError(t, err)

	_, ok := store.Load("nonexistent")
	require.False(t, ok)
}

func TestTieredStoreFallsThroughToMemory(t *testing.T) {
	mem := newMemoryStore()
	tiered := newTieredStore(nil, mem) // keychain unavailable, file omitted for this test

	tok := &Token{AccessToken: "tok"}
	require.NoError(t, tiered.Save("k", tok))

	loaded, ok := tiered.Load("k")
	require.True(t, ok)
	require.Equal(t, "tok", loaded.AccessToken)

	tiered.Delete("k")
	_, ok = tiered.Load("k")
	require.False(t, ok)
}
