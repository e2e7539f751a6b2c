package search

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/justchokingaround/anenyong/internal/tui/common"
	"github.com/justchokingaround/anenyong/internal/tui/styles"
)

type Model struct {
	textInput textinput.Model
	width     int
	height    int
}

func New() Model {
	ti := textinput.New()
	ti.Placeholder = "Search anime..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 80

	// Oxocarbon styling: clean look with purple accent
	ti.PromptStyle = lipgloss.NewStyle().Foreground(styles.OxocarbonPurple)
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.OxocarbonBase05)
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(styles.OxocarbonPurple)

	return Model{
		textInput: ti,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Set input width accounting for borders and padding
		if m.width > 20 {
			m.textInput.Width = m.width - 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			query := strings.TrimSpace(m.textInput.Value())
			if query == "" {
				return m, nil
			}
			return m, func() tea.Msg {
				return common.PerformSearchMsg{Query: query}
			}
		case "esc":
			return m, func() tea.Msg {
				return common.BackMsg{}
			}
		}
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var output string
	output += "\n"

	output += styles.TitleStyle.Render("  SEARCH  ") + "\n"
	output += styles.SubtitleStyle.Render("  Find your next watch") + "\n\n"

	// Search input in bordered container (no extra prompt - textInput has cursor)
	output += styles.ItemSelectedStyle.Render(m.textInput.View()) + "\n"

	output += "\n" + styles.HelpStyle.Render("  enter search • esc back")

	return output
}

// SetValue sets the value of the search input
func (m *Model) SetValue(value string) {
	m.textInput.SetValue(value)
}

// GetValue returns the value of the search input
func (m Model) GetValue() string {
	return m.textInput.Value()
}

// Focus gives the input the cursor again when the view is re-entered
func (m *Model) Focus() tea.Cmd {
	return m.textInput.Focus()
}
