package help

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/justchokingaround/anenyong/internal/tui/styles"
)

// HelpContext represents which view the help is being shown in
type HelpContext int

const (
	GlobalContext HelpContext = iota
	HomeContext
	SearchContext
	ResultsContext
	DetailContext
	StreamContext
	HistoryContext
)

// Shortcut represents a keyboard shortcut with its description
type Shortcut struct {
	Key         string
	Description string
	Context     HelpContext
}

// Model represents the help panel state
type Model struct {
	context      HelpContext
	width        int
	height       int
	visible      bool
	scrollOffset int
}

var allShortcuts = []Shortcut{
	{Key: "↑/↓ or j/k", Description: "Navigate up/down", Context: GlobalContext},
	{Key: "enter", Description: "Select item", Context: GlobalContext},
	{Key: "esc", Description: "Go back / Cancel loading", Context: GlobalContext},
	{Key: "H", Description: "Return to home", Context: GlobalContext},
	{Key: "q", Description: "Quit (from home) / Go back", Context: GlobalContext},
	{Key: "?", Description: "Show/hide this help", Context: GlobalContext},

	{Key: "/ or s", Description: "Open search", Context: HomeContext},
	{Key: "h", Description: "Open watch history", Context: HomeContext},
	{Key: "r", Description: "Reload listings", Context: HomeContext},
	{Key: "g/G", Description: "Jump to top/bottom", Context: HomeContext},

	{Key: "enter", Description: "Search", Context: SearchContext},

	{Key: "/ or s", Description: "New search", Context: ResultsContext},

	{Key: "←/→ or [/]", Description: "Previous/next page of episodes", Context: DetailContext},
	{Key: "/", Description: "Filter episodes by number or title", Context: DetailContext},
	{Key: "c", Description: "Continue watching", Context: DetailContext},

	{Key: "o", Description: "Open stream in browser", Context: StreamContext},
	{Key: "y", Description: "Copy stream URL", Context: StreamContext},
	{Key: "p/n", Description: "Previous/next episode", Context: StreamContext},
	{Key: "i", Description: "Open series", Context: StreamContext},
	{Key: "enter", Description: "Open selected download link", Context: StreamContext},

	{Key: "enter", Description: "Resume last episode", Context: HistoryContext},
	{Key: "i", Description: "Open series", Context: HistoryContext},
	{Key: "/", Description: "Fuzzy filter by title", Context: HistoryContext},
	{Key: "x", Description: "Delete selected item", Context: HistoryContext},
	{Key: "X", Description: "Delete all history", Context: HistoryContext},
}

// New creates a hidden help panel
func New() Model {
	return Model{context: GlobalContext}
}

// SetSize sets the area the panel is centered in
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetContext sets the current help context
func (m *Model) SetContext(ctx HelpContext) {
	m.context = ctx
}

// Show shows the help panel
func (m *Model) Show() {
	m.visible = true
	m.scrollOffset = 0
}

// Hide hides the help panel
func (m *Model) Hide() {
	m.visible = false
	m.scrollOffset = 0
}

// IsVisible returns whether the help panel is visible
func (m Model) IsVisible() bool {
	return m.visible
}

// Update scrolls the panel less-style while it is visible
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.visible {
		return m, nil
	}
	switch keyMsg.String() {
	case "esc", "?", "q":
		m.Hide()
	case "up", "k":
		m.scrollOffset = max(m.scrollOffset-1, 0)
	case "down", "j":
		m.scrollOffset++
	case "home", "g":
		m.scrollOffset = 0
	case "end", "G":
		m.scrollOffset = 1 << 20 // clamped in View
	}
	return m, nil
}

// View renders the help panel
func (m Model) View() string {
	if !m.visible || m.width == 0 || m.height == 0 {
		return ""
	}

	var content strings.Builder
	content.WriteString(styles.HelpStyle.UnsetMarginTop().Render("↑/↓ j/k scroll • g/G top/bottom • esc/? close") + "\n")

	content.WriteString(styles.HeaderStyle.Render("Navigation & General") + "\n")
	for _, sc := range shortcutsFor(GlobalContext) {
		content.WriteString(renderShortcutLine(sc) + "\n")
	}
	if name := contextName(m.context); name != "" {
		content.WriteString(styles.HeaderStyle.Render(name+" Actions") + "\n")
		for _, sc := range shortcutsFor(m.context) {
			content.WriteString(renderShortcutLine(sc) + "\n")
		}
	}

	lines := strings.Split(strings.TrimRight(content.String(), "\n"), "\n")
	available := max(m.height-6, 10)

	offset := max(min(m.scrollOffset, len(lines)-available), 0)
	end := min(offset+available, len(lines))

	title := "KEYBOARD SHORTCUTS"
	if len(lines) > available {
		title += fmt.Sprintf(" (%d-%d/%d)", offset+1, end, len(lines))
	}

	boxWidth := 64
	if m.width < boxWidth+4 {
		boxWidth = max(m.width-4, 40)
	}

	titleBar := lipgloss.NewStyle().
		Foreground(styles.OxocarbonWhite).
		Background(styles.OxocarbonPurple).
		Padding(0, 2).
		Bold(true).
		Width(boxWidth - 4).
		Align(lipgloss.Center).
		Render(title)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OxocarbonPurple).
		Padding(0, 2).
		Width(boxWidth).
		Render(titleBar + "\n\n" + strings.Join(lines[offset:end], "\n"))

	if lipgloss.Height(box) >= m.height {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func shortcutsFor(ctx HelpContext) []Shortcut {
	var out []Shortcut
	for _, sc := range allShortcuts {
		if sc.Context == ctx {
			out = append(out, sc)
		}
	}
	return out
}

func renderShortcutLine(sc Shortcut) string {
	keyStyle := lipgloss.NewStyle().
		Foreground(styles.OxocarbonPurple).
		Bold(true).
		Width(18)
	descStyle := lipgloss.NewStyle().
		Foreground(styles.OxocarbonBase05)

	return "  " + keyStyle.Render(sc.Key) + descStyle.Render(sc.Description)
}

func contextName(ctx HelpContext) string {
	switch ctx {
	case HomeContext:
		return "Home"
	case SearchContext:
		return "Search"
	case ResultsContext:
		return "Results"
	case DetailContext:
		return "Anime"
	case StreamContext:
		return "Stream"
	case HistoryContext:
		return "History"
	default:
		return ""
	}
}
