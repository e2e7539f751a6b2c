// Package clipboard copies text to the system clipboard, falling back to
// command line tools when the native clipboard is unavailable.
package clipboard

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
)

// ErrUnavailable is returned when neither the native clipboard nor a tool worked
var ErrUnavailable = errors.New("no clipboard available")

// Service writes to the clipboard
type Service struct {
	command string
	logger  *slog.Logger

	native   func(string) error
	lookPath func(string) (string, error)
}

// NewService creates a clipboard service. command overrides tool detection
// for the fallback path, e.g. "wl-copy" or "xclip -selection clipboard".
func NewService(command string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		command:  strings.TrimSpace(command),
		logger:   logger.With("component", "clipboard"),
		native:   clipboard.WriteAll,
		lookPath: exec.LookPath,
	}
}

// Write copies text to the clipboard
func (s *Service) Write(text string) error {
	err := s.native(text)
	if err == nil {
		s.logger.Debug("copied to clipboard", "length", len(text))
		return nil
	}
	s.logger.Warn("native clipboard failed, trying fallback", "error", err)

	parts := s.fallbackCommand()
	if len(parts) == 0 {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	cmd := exec.Command(parts[0], parts[1:]...)
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		s.logger.Error("clipboard command failed", "command", parts[0], "error", err)
		return fmt.Errorf("clipboard command %s: %w", parts[0], err)
	}

	s.logger.Debug("copied to clipboard", "command", parts[0], "length", len(text))
	return nil
}

// fallbackCommand returns the configured command, or the first installed tool for this OS
func (s *Service) fallbackCommand() []string {
	if s.command != "" {
		return parseCommand(s.command)
	}

	var candidates [][]string
	switch runtime.GOOS {
	case "darwin":
		candidates = [][]string{{"pbcopy"}}
	case "windows":
		candidates = [][]string{{"clip.exe"}}
	case "linux":
		if isWSL() {
			candidates = append(candidates, []string{"clip.exe"})
		}
		candidates = append(candidates,
			[]string{"wl-copy"},
			[]string{"xclip", "-selection", "clipboard"},
			[]string{"xsel", "--clipboard", "--input"},
		)
	}

	for _, c := range candidates {
		if _, err := s.lookPath(c[0]); err == nil {
			return c
		}
	}
	return nil
}

// parseCommand splits a command line on spaces, honouring single and double quotes
func parseCommand(command string) []string {
	var parts []string
	var current strings.Builder
	var quote rune

	flush := func() {
		if current.Len() > 0 {
			parts = append(parts, current.String())
			current.Reset()
		}
	}

	for _, r := range command {
		switch {
		case quote == 0 && (r == '\'' || r == '"'):
			quote = r
		case quote != 0 && r == quote:
			quote = 0
		case quote == 0 && r == ' ':
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return parts
}

// isWSL reports whether we run under Windows Subsystem for Linux
func isWSL() bool {
	version, err := os.ReadFile("/proc/version")
	if err != nil {
		return false
	}
	v := strings.ToLower(string(version))
	return strings.Contains(v, "microsoft") || strings.Contains(v, "wsl")
}
