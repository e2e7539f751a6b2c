package config

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateDirs(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	return dir
}

func TestLoad(t *testing.T) {
	t.Run("uses defaults without a config file", func(t *testing.T) {
		isolateDirs(t)

		cfg, v, err := Load("")
		require.NoError(t, err)
		require.NotNil(t, v)

		assert.Equal(t, "https://api.otakudesu.natee.my.id/api", cfg.API.BaseURL)
		assert.Equal(t, 30*time.Second, cfg.API.Timeout)
		assert.Equal(t, "otakudesu.best", cfg.Upstream.Host)
		assert.Equal(t, 50, cfg.Episodes.PageSize)
		assert.Equal(t, 100, cfg.History.MaxEntries)
		assert.Equal(t, 4, cfg.History.RecentCount)
		assert.Equal(t, "sqlite", cfg.Storage.Driver)
	})

	t.Run("reads values from an explicit file", func(t *testing.T) {
		dir := isolateDirs(t)
		path := filepath.Join(dir, "custom.yaml")
		content := `
api:
  base_url: http://localhost:9999/api
  timeout: 5s
episodes:
  page_size: 25
history:
  max_entries: 10
storage:
  driver: file
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		cfg, _, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "http://localhost:9999/api", cfg.API.BaseURL)
		assert.Equal(t, 5*time.Second, cfg.API.Timeout)
		assert.Equal(t, 25, cfg.Episodes.PageSize)
		assert.Equal(t, 10, cfg.History.MaxEntries)
		assert.Equal(t, "file", cfg.Storage.Driver)
		// untouched sections keep their defaults
		assert.Equal(t, ":8080", cfg.Server.Addr)
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		isolateDirs(t)
		t.Setenv("ANENYONG_EPISODES_PAGE_SIZE", "10")

		cfg, _, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, 10, cfg.Episodes.PageSize)
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		dir := isolateDirs(t)
		_, _, err := Load(filepath.Join(dir, "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		dir := isolateDirs(t)
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("episodes:\n  page_size: 0\n"), 0644))

		_, _, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "page_size")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"empty base url", func(c *Config) { c.API.BaseURL = "" }, "base_url"},
		{"negative cap", func(c *Config) { c.History.MaxEntries = -1 }, "max_entries"},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "redis" }, "storage driver"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSaveDefaultConfig(t *testing.T) {
	dir := isolateDirs(t)
	path := filepath.Join(dir, "config.yaml")

	require.NoError(t, SaveDefaultConfig(path))

	cfg, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().API.BaseURL, cfg.API.BaseURL)
	assert.Equal(t, DefaultConfig().Episodes.PageSize, cfg.Episodes.PageSize)
}

func TestInitializeDirs(t *testing.T) {
	dir := isolateDirs(t)
	require.NoError(t, InitializeDirs())

	for _, p := range []string{
		filepath.Join(dir, "config", appName),
		filepath.Join(dir, "data", appName),
		filepath.Join(dir, "state", appName),
	} {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestColoredTextHandler(t *testing.T) {
	var buf bytes.Buffer
	h := NewColoredTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	logger := slog.New(h).With("component", "test")
	logger.Warn("careful", "key", "value")

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\033[33m"))
	assert.Contains(t, out, "msg=careful")
	assert.Contains(t, out, "component=test")
	assert.Contains(t, out, "key=value")
	assert.True(t, h.Enabled(context.Background(), slog.LevelDebug))
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.in))
		})
	}
}
