package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const appName = "anenyong"

// Config is the root configuration
type Config struct {
	API      APIConfig      `mapstructure:"api" yaml:"api"`
	Upstream UpstreamConfig `mapstructure:"upstream" yaml:"upstream"`
	History  HistoryConfig  `mapstructure:"history" yaml:"history"`
	Episodes EpisodesConfig `mapstructure:"episodes" yaml:"episodes"`
	Storage  StorageConfig  `mapstructure:"storage" yaml:"storage"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
	Advanced AdvancedConfig `mapstructure:"advanced" yaml:"advanced"`
}

// APIConfig configures the upstream catalog API client
type APIConfig struct {
	BaseURL   string        `mapstructure:"base_url" yaml:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
	UserAgent string        `mapstructure:"user_agent" yaml:"user_agent"`
}

// UpstreamConfig describes the site the catalog API scrapes from.
// Host is used to recognise full URLs in slug fields, Referer is sent by the image proxy.
type UpstreamConfig struct {
	Host    string `mapstructure:"host" yaml:"host"`
	Referer string `mapstructure:"referer" yaml:"referer"`
}

// HistoryConfig configures the watch history ledger
type HistoryConfig struct {
	MaxEntries  int `mapstructure:"max_entries" yaml:"max_entries"` // 0 = unbounded
	RecentCount int `mapstructure:"recent_count" yaml:"recent_count"`
}

// EpisodesConfig configures episode list paging
type EpisodesConfig struct {
	PageSize int `mapstructure:"page_size" yaml:"page_size"`
}

// StorageConfig selects the local storage driver
type StorageConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver"` // sqlite or file
	Path   string `mapstructure:"path" yaml:"path"`     // directory for the file driver
}

// DatabaseConfig configures the sqlite database used by the sqlite storage driver
type DatabaseConfig struct {
	Path           string `mapstructure:"path" yaml:"path"`
	MaxConnections int    `mapstructure:"max_connections" yaml:"max_connections"`
	WALMode        bool   `mapstructure:"wal_mode" yaml:"wal_mode"`
	AutoVacuum     bool   `mapstructure:"auto_vacuum" yaml:"auto_vacuum"`
}

// ServerConfig configures the companion HTTP server
type ServerConfig struct {
	Addr         string        `mapstructure:"addr" yaml:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
}

// LoggingConfig configures the application logger
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"`
	File       string `mapstructure:"file" yaml:"file"`
	Color      bool   `mapstructure:"color" yaml:"color"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// AdvancedConfig holds debugging knobs and desktop integration overrides
type AdvancedConfig struct {
	Debug bool `mapstructure:"debug" yaml:"debug"`

	// ClipboardCommand receives copied text on stdin when the native clipboard is unavailable
	ClipboardCommand string `mapstructure:"clipboard_command" yaml:"clipboard_command"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   "https://api.otakudesu.natee.my.id/api",
			Timeout:   30 * time.Second,
			UserAgent: appName + "/1.0",
		},
		Upstream: UpstreamConfig{
			Host:    "otakudesu.best",
			Referer: "https://otakudesu.best/",
		},
		History: HistoryConfig{
			MaxEntries:  100,
			RecentCount: 4,
		},
		Episodes: EpisodesConfig{
			PageSize: 50,
		},
		Storage: StorageConfig{
			Driver: "sqlite",
			Path:   filepath.Join(getDataDir(), appName, "storage"),
		},
		Database: DatabaseConfig{
			Path:           filepath.Join(getDataDir(), appName, appName+".db"),
			MaxConnections: 4,
			WALMode:        true,
			AutoVacuum:     true,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Color:      true,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		},
	}
}

// Load reads configuration from the given file (or the default location),
// layering environment variables on top of the defaults
func Load(cfgFile string) (*Config, *viper.Viper, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(GetConfigDir())
	}

	v.SetEnvPrefix(strings.ToUpper(appName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// A missing default config file is fine, an explicit one is not
		if !errors.As(err, &notFound) || cfgFile != "" {
			return nil, nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	return cfg, v, nil
}

// Validate checks values that would otherwise fail much later
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}
	if c.Episodes.PageSize <= 0 {
		return fmt.Errorf("episodes.page_size must be positive, got %d", c.Episodes.PageSize)
	}
	if c.History.MaxEntries < 0 {
		return fmt.Errorf("history.max_entries must not be negative, got %d", c.History.MaxEntries)
	}
	switch c.Storage.Driver {
	case "sqlite", "file":
	default:
		return fmt.Errorf("unknown storage driver %q (want sqlite or file)", c.Storage.Driver)
	}
	return nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.timeout", d.API.Timeout)
	v.SetDefault("api.user_agent", d.API.UserAgent)
	v.SetDefault("upstream.host", d.Upstream.Host)
	v.SetDefault("upstream.referer", d.Upstream.Referer)
	v.SetDefault("history.max_entries", d.History.MaxEntries)
	v.SetDefault("history.recent_count", d.History.RecentCount)
	v.SetDefault("episodes.page_size", d.Episodes.PageSize)
	v.SetDefault("storage.driver", d.Storage.Driver)
	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("database.max_connections", d.Database.MaxConnections)
	v.SetDefault("database.wal_mode", d.Database.WALMode)
	v.SetDefault("database.auto_vacuum", d.Database.AutoVacuum)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.color", d.Logging.Color)
	v.SetDefault("logging.max_size", d.Logging.MaxSize)
	v.SetDefault("logging.max_backups", d.Logging.MaxBackups)
	v.SetDefault("logging.max_age", d.Logging.MaxAge)
	v.SetDefault("logging.compress", d.Logging.Compress)
	v.SetDefault("advanced.debug", d.Advanced.Debug)
	v.SetDefault("advanced.clipboard_command", d.Advanced.ClipboardCommand)
}

// SaveDefaultConfig writes the default configuration as YAML
func SaveDefaultConfig(path string) error {
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// InitializeDirs creates the config, data and state directories
func InitializeDirs() error {
	for _, dir := range []string{
		GetConfigDir(),
		filepath.Join(getDataDir(), appName),
		filepath.Join(getStateDir(), appName),
	} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// GetConfigDir returns the directory holding config.yaml
func GetConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	return filepath.Join(homeDir(), ".config", appName)
}

func getDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	return filepath.Join(homeDir(), ".local", "share")
}

func getStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return dir
	}
	return filepath.Join(homeDir(), ".local", "state")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
