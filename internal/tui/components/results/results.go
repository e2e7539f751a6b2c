package results

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/justchokingaround/anenyong/internal/tui/common"
	"github.com/justchokingaround/anenyong/internal/tui/styles"
	"github.com/justchokingaround/anenyong/internal/view"
)

// Model lists search results
type Model struct {
	query  string
	cards  []view.Card
	failed bool
	cursor int
	width  int
	height int
}

func New() Model {
	return Model{}
}

// SetSize sets the model dimensions
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetResults shows the results of query, resetting the cursor
func (m *Model) SetResults(query string, cards []view.Card) {
	m.query = query
	m.cards = cards
	m.failed = false
	m.cursor = 0
}

// SetFailed shows the failure state for query
func (m *Model) SetFailed(query string) {
	m.query = query
	m.cards = nil
	m.failed = true
	m.cursor = 0
}

// Selected returns the card under the cursor
func (m Model) Selected() (view.Card, bool) {
	if len(m.cards) == 0 {
		return view.Card{}, false
	}
	return m.cards[m.cursor], true
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		m.cursor = common.Clamp(m.cursor-1, len(m.cards))
	case "down", "j":
		m.cursor = common.Clamp(m.cursor+1, len(m.cards))
	case "enter":
		if card, ok := m.Selected(); ok && card.ID != "" {
			return m, func() tea.Msg { return common.SeriesSelectedMsg{SeriesID: card.ID} }
		}
	case "/", "s":
		return m, func() tea.Msg { return common.GoToSearchMsg{} }
	case "esc", "backspace":
		return m, func() tea.Msg { return common.BackMsg{} }
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(styles.HeaderStyle.Render(fmt.Sprintf("Search Results for: %q", m.query)) + "\n")

	switch {
	case m.failed:
		b.WriteString(styles.ErrorStyle.Render("  Search failed. API might be down.") + "\n")
	case len(m.cards) == 0:
		b.WriteString(styles.MetadataStyle.Render("  No anime found.") + "\n")
	default:
		start, end := common.Window(len(m.cards), m.cursor, max((m.height-10)/3, 3))
		for i := start; i < end; i++ {
			c := m.cards[i]
			b.WriteString(common.RenderItem(c.Title, c.Badge, c.Caption, i == m.cursor, m.width) + "\n")
		}
		b.WriteString(styles.MetadataStyle.Render(fmt.Sprintf("  %d/%d", m.cursor+1, len(m.cards))) + "\n")
	}

	b.WriteString(styles.HelpStyle.Render("  ↑/↓ move • enter open • / new search • esc back"))
	return b.String()
}
