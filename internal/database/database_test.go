package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justchokingaround/anenyong/internal/config"
)

func TestOpen(t *testing.T) {
	t.Run("creates the database file and settings table", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "test.db")
		db, err := Open(&config.DatabaseConfig{Path: path, MaxConnections: 2, WALMode: true})
		require.NoError(t, err)
		defer func() { assert.NoError(t, Close(db)) }()

		assert.FileExists(t, path)
		assert.True(t, db.Migrator().HasTable(&Setting{}))
	})

	t.Run("reopening keeps data", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.db")
		cfg := &config.DatabaseConfig{Path: path, MaxConnections: 1}

		db, err := Open(cfg)
		require.NoError(t, err)
		require.NoError(t, db.Create(&Setting{Key: "k", Value: "v"}).Error)
		require.NoError(t, Close(db))

		db, err = Open(cfg)
		require.NoError(t, err)
		defer Close(db)

		var s Setting
		require.NoError(t, db.First(&s, "key = ?", "k").Error)
		assert.Equal(t, "v", s.Value)
	})
}

func TestCloseNil(t *testing.T) {
	assert.NoError(t, Close(nil))
}
