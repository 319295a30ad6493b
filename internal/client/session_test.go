package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileTokenStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	store := NewFileTokenStore(path)

	// No file yet means no session, not an error.
	token, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.Save("tok-123"))

	token, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	require.NoError(t, store.Clear())
	token, err = store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	// Clearing an already-cleared store is fine.
	require.NoError(t, store.Clear())
}

func TestSession_RestoresPersistedToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	store := NewFileTokenStore(path)
	require.NoError(t, store.Save("tok-123"))

	session, err := NewSession(store)
	require.NoError(t, err)
	assert.True(t, session.LoggedIn())
	assert.Equal(t, "tok-123", session.Token())
}

func TestSession_SetAndClear(t *testing.T) {
	session, err := NewSession(&MemoryTokenStore{})
	require.NoError(t, err)
	assert.False(t, session.LoggedIn())

	require.NoError(t, session.SetToken("tok-123"))
	assert.True(t, session.LoggedIn())

	require.NoError(t, session.Clear())
	assert.False(t, session.LoggedIn())
	assert.Empty(t, session.Token())
}
