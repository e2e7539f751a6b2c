package history

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/justchokingaround/anenyong/internal/tui/common"
	"github.com/justchokingaround/anenyong/internal/tui/styles"
	"github.com/justchokingaround/anenyong/internal/view"
)

// Model is the full watch history with a fuzzy title and episode filter
type Model struct {
	cards        []view.HistoryCard
	currentIndex int
	confirmClear bool

	filter *cardFilter
	keys   KeyMap

	width  int
	height int
}

// KeyMap defines keybindings for history view
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Select    key.Binding
	Series    key.Binding
	Back      key.Binding
	Search    key.Binding
	Delete    key.Binding
	DeleteAll key.Binding
}

// DefaultKeyMap returns default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "resume"),
		),
		Series: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "series"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "q"),
			key.WithHelp("esc/q", "back"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete item"),
		),
		DeleteAll: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "delete all"),
		),
	}
}

// New creates a new history model
func New() Model {
	return Model{
		filter: newCardFilter(),
		keys:   DefaultKeyMap(),
	}
}

// SetSize sets the model dimensions
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.filter.setWidth(width)
}

// SetHistory sets the history data
func (m *Model) SetHistory(cards []view.HistoryCard) {
	m.cards = cards
	m.currentIndex = common.Clamp(m.currentIndex, len(m.filtered()))
	m.confirmClear = false
}

// IsInputActive reports whether keystrokes go to the filter
func (m Model) IsInputActive() bool {
	return m.filter.editing()
}

func (m Model) filtered() []view.HistoryCard {
	return m.filter.apply(m.cards)
}

// Selected returns the card under the cursor
func (m Model) Selected() (view.HistoryCard, bool) {
	filtered := m.filtered()
	if len(filtered) == 0 {
		return view.HistoryCard{}, false
	}
	return filtered[common.Clamp(m.currentIndex, len(filtered))], true
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.filter.editing() {
		switch keyMsg.String() {
		case "esc":
			m.filter.close()
			m.currentIndex = 0
			return m, nil
		case "enter", "up", "down":
			m.filter.lock()
			return m, nil
		}
		cmd := m.filter.update(msg)
		m.currentIndex = 0
		return m, cmd
	}

	if m.confirmClear {
		m.confirmClear = false
		if keyMsg.String() == "y" {
			return m, func() tea.Msg { return common.ClearHistoryMsg{} }
		}
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Up):
		m.currentIndex = common.Clamp(m.currentIndex-1, len(m.filtered()))
	case key.Matches(keyMsg, m.keys.Down):
		m.currentIndex = common.Clamp(m.currentIndex+1, len(m.filtered()))
	case key.Matches(keyMsg, m.keys.Search):
		if m.filter.shown() {
			return m, m.filter.edit()
		}
		return m, m.filter.open()
	case key.Matches(keyMsg, m.keys.Select):
		if c, ok := m.Selected(); ok && c.EpisodeID != "" {
			return m, func() tea.Msg {
				return common.ResumeMsg{
					SeriesID:        c.SeriesID,
					SeriesTitle:     c.Title,
					SeriesPosterURL: c.PosterURL,
					EpisodeID:       c.EpisodeID,
				}
			}
		}
	case key.Matches(keyMsg, m.keys.Series):
		if c, ok := m.Selected(); ok {
			return m, func() tea.Msg { return common.SeriesSelectedMsg{SeriesID: c.SeriesID} }
		}
	case key.Matches(keyMsg, m.keys.Delete):
		if c, ok := m.Selected(); ok {
			return m, func() tea.Msg { return common.DeleteHistoryMsg{SeriesID: c.SeriesID} }
		}
	case key.Matches(keyMsg, m.keys.DeleteAll):
		if len(m.cards) > 0 {
			m.confirmClear = true
		}
	case key.Matches(keyMsg, m.keys.Back):
		if m.filter.shown() {
			m.filter.close()
			m.currentIndex = 0
			return m, nil
		}
		return m, func() tea.Msg { return common.BackMsg{} }
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(styles.HeaderStyle.Render(fmt.Sprintf("Watch History (%d)", len(m.cards))) + "\n")
	if f := m.filter.view(); f != "" {
		b.WriteString("  " + f + "\n\n")
	}

	filtered := m.filtered()
	switch {
	case len(m.cards) == 0:
		b.WriteString(styles.MetadataStyle.Render("  Nothing watched yet.") + "\n")
	case len(filtered) == 0:
		b.WriteString(styles.MetadataStyle.Render("  No matches.") + "\n")
	default:
		start, end := common.Window(len(filtered), m.currentIndex, max((m.height-10)/3, 3))
		for i := start; i < end; i++ {
			c := filtered[i]
			b.WriteString(common.RenderItem(c.Title, c.Badge, c.Watched, i == m.currentIndex, m.width) + "\n")
		}
	}

	if m.confirmClear {
		b.WriteString("\n" + styles.ErrorStyle.Render("  Delete all history? (y/N)") + "\n")
	}

	b.WriteString(styles.HelpStyle.Render("  enter resume • i series • / filter • x delete • X delete all • esc back"))
	return b.String()
}
