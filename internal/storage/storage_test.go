package storage

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justchokingaround/anenyong/internal/config"
	"github.com/justchokingaround/anenyong/internal/database"
)

func backends(t *testing.T) map[string]Backend {
	t.Helper()

	db, err := database.Open(&config.DatabaseConfig{
		Path:           filepath.Join(t.TempDir(), "storage.db"),
		MaxConnections: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	memFile, err := NewFileBackend(afero.NewMemMapFs(), "/storage")
	require.NoError(t, err)

	osFile, err := NewFileBackend(afero.NewOsFs(), filepath.Join(t.TempDir(), "kv"))
	require.NoError(t, err)

	return map[string]Backend{
		"memory":   NewSession(),
		"settings": NewSettingsBackend(db),
		"mem file": memFile,
		"os file":  osFile,
	}
}

func TestBackends(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("missing key", func(t *testing.T) {
				_, err := b.GetItem("missing")
				assert.ErrorIs(t, err, ErrNotFound)
			})

			t.Run("set then get", func(t *testing.T) {
				require.NoError(t, b.SetItem("anime_history", `[{"a":1}]`))
				v, err := b.GetItem("anime_history")
				require.NoError(t, err)
				assert.Equal(t, `[{"a":1}]`, v)
			})

			t.Run("overwrite", func(t *testing.T) {
				require.NoError(t, b.SetItem("k", "one"))
				require.NoError(t, b.SetItem("k", "two"))
				v, err := b.GetItem("k")
				require.NoError(t, err)
				assert.Equal(t, "two", v)
			})

			t.Run("remove", func(t *testing.T) {
				require.NoError(t, b.SetItem("gone", "x"))
				require.NoError(t, b.RemoveItem("gone"))
				_, err := b.GetItem("gone")
				assert.ErrorIs(t, err, ErrNotFound)
			})

			t.Run("remove missing key is not an error", func(t *testing.T) {
				assert.NoError(t, b.RemoveItem("never-set"))
			})

			t.Run("keys with separators", func(t *testing.T) {
				require.NoError(t, b.SetItem("a/b c", "v"))
				v, err := b.GetItem("a/b c")
				require.NoError(t, err)
				assert.Equal(t, "v", v)
			})
		})
	}
}

func TestSessionIDs(t *testing.T) {
	a, b := NewSession(), NewSession()
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())

	require.NoError(t, a.SetItem("anime_context", "x"))
	_, err := b.GetItem("anime_context")
	assert.ErrorIs(t, err, ErrNotFound, "sessions must not share values")
}

func TestSettingsBackendNilDB(t *testing.T) {
	b := NewSettingsBackend(nil)
	_, err := b.GetItem("k")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Error(t, b.SetItem("k", "v"))
	assert.Error(t, b.RemoveItem("k"))
}

func TestFileBackendLayout(t *testing.T) {
	fs := afero.NewMemMapFs()
	b, err := NewFileBackend(fs, "/data")
	require.NoError(t, err)

	require.NoError(t, b.SetItem("anime_history", "[]"))

	exists, err := afero.Exists(fs, "/data/anime_history.json")
	require.NoError(t, err)
	assert.True(t, exists)

	tmpExists, err := afero.Exists(fs, "/data/anime_history.json.tmp")
	require.NoError(t, err)
	assert.False(t, tmpExists)
}

func TestFileBackendReadOnly(t *testing.T) {
	base := afero.NewMemMapFs()
	b, err := NewFileBackend(base, "/data")
	require.NoError(t, err)
	require.NoError(t, b.SetItem("k", "v"))

	ro, err := NewFileBackend(afero.NewReadOnlyFs(base), "/data")
	require.NoError(t, err)

	v, err := ro.GetItem("k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
	assert.Error(t, ro.SetItem("k", "w"))
}
