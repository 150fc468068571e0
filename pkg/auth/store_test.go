package auth

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_RoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewFileStore(fs, "/home/test/.lodestone/token")

	// Empty store
	_, ok, err := store.Load()
	require.NoError(t, err)
	assert.False(t, ok)

	// Save and reload
	require.NoError(t, store.Save("tok_abc123"))

	token, ok, err := store.Load()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok_abc123", token)

	// Overwrite
	require.NoError(t, store.Save("tok_newer"))

	token, ok, err = store.Load()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok_newer", token)
}

func TestFileStore_Clear(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewFileStore(fs, "/home/test/.lodestone/token")

	require.NoError(t, store.Save("tok_abc123"))
	require.NoError(t, store.Clear())

	_, ok, err := store.Load()
	require.NoError(t, err)
	assert.False(t, ok)

	// Clearing an already-empty store is fine.
	require.NoError(t, store.Clear())
}

func TestFileStore_WhitespaceOnlyFileIsAbsent(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := "/home/test/.lodestone/token"
	require.NoError(t, afero.WriteFile(fs, path, []byte("  \n"), 0o600))

	store := NewFileStore(fs, path)

	_, ok, err := store.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}
