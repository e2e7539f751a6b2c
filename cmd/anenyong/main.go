package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/justchokingaround/anenyong/internal/catalog"
	"github.com/justchokingaround/anenyong/internal/clipboard"
	"github.com/justchokingaround/anenyong/internal/config"
	"github.com/justchokingaround/anenyong/internal/database"
	"github.com/justchokingaround/anenyong/internal/history"
	"github.com/justchokingaround/anenyong/internal/storage"
	"github.com/justchokingaround/anenyong/internal/tui"
)

var (
	// Version information (set via ldflags during build)
	version = "dev"
	commit  = "none"
	date    = "unknown"
	// Global flags
	cfgFile   string
	logLevel  string
	noColor   bool
	debugMode bool

	// Set up by the root command before any subcommand runs
	cfg     *config.Config
	logger  *slog.Logger
	db      *gorm.DB
	client  *catalog.Client
	store   *history.Store
	session *storage.MemoryBackend
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "anenyong",
	Short: "Browse and stream anime from the otakudesu catalog in your terminal",
	Long: `anenyong is a terminal front-end for the otakudesu catalog API.

Browse ongoing and completed anime, search, page through episode lists and
open episode streams. Watched episodes are kept in a local history so you can
continue where you left off.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// config init and path must work without a valid config
		if cmd.Parent() != nil && cmd.Parent().Name() == "config" && cmd.Name() != "show" {
			return nil
		}
		if cmd.Name() == "version" {
			return nil
		}

		if err := config.InitializeDirs(); err != nil {
			return fmt.Errorf("failed to initialize directories: %w", err)
		}

		var err error
		var v *viper.Viper
		cfg, v, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if debugMode {
			cfg.Advanced.Debug = true
			if logLevel == "" {
				cfg.Logging.Level = "debug"
			}
		}
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		if noColor {
			cfg.Logging.Color = false
		}

		logger, err = config.InitLogger(&cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		local, err := openStorage()
		if err != nil {
			return err
		}
		session = storage.NewSession()
		logger.Debug("session started", "session", session.ID(), "storage", cfg.Storage.Driver)

		client = catalog.NewClient(cfg, logger)
		store = history.NewStore(local, session,
			history.WithMaxEntries(cfg.History.MaxEntries),
			history.WithLogger(logger.With("component", "history")),
			history.WithCodec(client.Codec()),
		)

		// Only the log level is applied live; everything else needs a restart
		if v.ConfigFileUsed() != "" {
			v.OnConfigChange(func(e fsnotify.Event) {
				next := config.DefaultConfig()
				if err := v.Unmarshal(next); err != nil {
					logger.Error("failed to reload config", "error", err)
					return
				}
				if logLevel == "" {
					config.SetLogLevel(next.Logging.Level)
				}
				logger.Info("config file changed", "name", e.Name, "level", next.Logging.Level)
			})
			v.WatchConfig()
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if err := database.Close(db); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Info("anenyong starting", "version", version, "api", cfg.API.BaseURL)

		return tui.Start(tui.Options{
			Catalog:     client,
			History:     store,
			Desktop:     tui.NewDesktop(clipboard.NewService(cfg.Advanced.ClipboardCommand, logger)),
			Codec:       client.Codec(),
			PageSize:    cfg.Episodes.PageSize,
			RecentCount: cfg.History.RecentCount,
			Logger:      logger,
		})
	},
}

// openStorage opens the local storage backend selected by storage.driver
func openStorage() (storage.Backend, error) {
	switch cfg.Storage.Driver {
	case "file":
		backend, err := storage.NewFileBackend(afero.NewOsFs(), cfg.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open file storage: %w", err)
		}
		return backend, nil
	default:
		var err error
		db, err = database.Open(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return storage.NewSettingsBackend(db), nil
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/anenyong/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored log output")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug mode (verbose HTTP logging)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(episodesCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
}

// versionCmd displays version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("anenyong version %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
	},
}

// configCmd handles configuration operations
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := defaultConfigPath()

		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s", configPath)
		}
		if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := config.SaveDefaultConfig(configPath); err != nil {
			return fmt.Errorf("failed to save default configuration: %w", err)
		}

		fmt.Printf("Default configuration generated successfully at: %s\n", configPath)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		fmt.Print(string(data))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Display configuration file path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(defaultConfigPath())
	},
}

func defaultConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return filepath.Join(config.GetConfigDir(), "config.yaml")
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
}
