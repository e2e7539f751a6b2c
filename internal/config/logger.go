package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// logLevel backs every handler created by InitLogger so the level can change at runtime
var logLevel = new(slog.LevelVar)

// InitLogger initializes the application logger based on configuration.
// The TUI owns the terminal, so unless a file is configured logs go to the default state dir.
func InitLogger(cfg *LoggingConfig) (*slog.Logger, error) {
	logLevel.Set(parseLogLevel(cfg.Level))

	if cfg.File == "" {
		cfg.File = filepath.Join(getStateDir(), appName, appName+".log")
	}

	var writer io.Writer = os.Stderr
	toConsole := cfg.File == "-"
	if !toConsole {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		writer = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize, // megabytes
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge, // days
			Compress:   cfg.Compress,
		}
	}

	handlerOpts := &slog.HandlerOptions{Level: logLevel}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(writer, handlerOpts)
	default:
		if cfg.Color && toConsole {
			handler = NewColoredTextHandler(writer, handlerOpts)
		} else {
			handler = slog.NewTextHandler(writer, handlerOpts)
		}
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger, nil
}

// SetLogLevel changes the level of loggers created by InitLogger
func SetLogLevel(level string) {
	logLevel.Set(parseLogLevel(level))
}

// ColoredTextHandler wraps slog.TextHandler and colors the level for console output
type ColoredTextHandler struct {
	handler slog.Handler
	writer  io.Writer
	opts    *slog.HandlerOptions
	attrs   []slog.Attr
	group   string
}

// NewColoredTextHandler creates a new handler that adds colors for console output
func NewColoredTextHandler(w io.Writer, opts *slog.HandlerOptions) *ColoredTextHandler {
	return &ColoredTextHandler{
		handler: slog.NewTextHandler(w, opts),
		writer:  w,
		opts:    opts,
	}
}

// Handle implements slog.Handler
func (h *ColoredTextHandler) Handle(ctx context.Context, r slog.Record) error {
	var buf strings.Builder
	var inner slog.Handler = slog.NewTextHandler(&buf, h.opts)
	if len(h.attrs) > 0 {
		inner = inner.WithAttrs(h.attrs)
	}
	if h.group != "" {
		inner = inner.WithGroup(h.group)
	}
	if err := inner.Handle(ctx, r); err != nil {
		return err
	}

	_, err := io.WriteString(h.writer, colorize(buf.String(), r.Level))
	return err
}

// WithAttrs implements slog.Handler
func (h *ColoredTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.handler = h.handler.WithAttrs(attrs)
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

// WithGroup implements slog.Handler
func (h *ColoredTextHandler) WithGroup(name string) slog.Handler {
	next := *h
	next.handler = h.handler.WithGroup(name)
	next.group = name
	return &next
}

// Enabled implements slog.Handler
func (h *ColoredTextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// colorize wraps the first field of a text log line (time=...) in an ANSI color for the level
func colorize(line string, level slog.Level) string {
	var code string
	switch {
	case level >= slog.LevelError:
		code = "31" // red
	case level >= slog.LevelWarn:
		code = "33" // yellow
	case level >= slog.LevelInfo:
		code = "32" // green
	default:
		code = "90" // gray
	}

	parts := strings.SplitN(line, " ", 2)
	if len(parts) == 2 {
		return fmt.Sprintf("\033[%sm%s\033[0m %s", code, parts[0], parts[1])
	}
	return fmt.Sprintf("\033[%sm%s\033[0m", code, line)
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
