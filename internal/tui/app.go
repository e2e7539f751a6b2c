package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Start is the entry point for the TUI. It blocks until the user quits.
func Start(opts Options) error {
	p := tea.NewProgram(NewApp(opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
