package auth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path)

	require.NoError(t, store.Set(&Session{Username: "alice", Token: "token-123"}))

	session, err := store.Get()
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "alice", session.Username)
	assert.Equal(t, "token-123", session.Token)
}

func TestFileStoreGetWithoutSession(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "session.json"))

	session, err := store.Get()
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestFileStoreEmptyTokenIsAnonymous(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"username": "alice", "token": ""}`), 0600))

	store := NewFileStore(path)
	session, err := store.Get()
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestFileStoreClearIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path)

	require.NoError(t, store.Set(&Session{Username: "alice", Token: "token-123"}))
	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())

	session, err := store.Get()
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestFileStoreCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "session.json")
	store := NewFileStore(path)

	require.NoError(t, store.Set(&Session{Username: "alice", Token: "token-123"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
