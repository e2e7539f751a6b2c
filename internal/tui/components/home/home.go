package home

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/justchokingaround/anenyong/internal/tui/common"
	"github.com/justchokingaround/anenyong/internal/tui/styles"
	"github.com/justchokingaround/anenyong/internal/view"
)

type section int

const (
	sectionRecent section = iota
	sectionOngoing
	sectionComplete
)

type item struct {
	section section
	index   int
}

// Model is the landing view: recently watched, ongoing and complete series
type Model struct {
	recent   []view.HistoryCard
	ongoing  []view.Card
	complete []view.Card

	loading bool
	failed  bool

	cursor int
	width  int
	height int
}

func New() Model {
	return Model{loading: true}
}

// SetSize sets the model dimensions
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetRecent replaces the "continue watching" section
func (m *Model) SetRecent(cards []view.HistoryCard) {
	m.recent = cards
	m.cursor = common.Clamp(m.cursor, len(m.items()))
}

// SetLoading marks the listings as being fetched
func (m *Model) SetLoading() {
	m.loading = true
	m.failed = false
}

// SetListings shows freshly loaded listings
func (m *Model) SetListings(ongoing, complete []view.Card) {
	m.ongoing = ongoing
	m.complete = complete
	m.loading = false
	m.failed = false
	m.cursor = common.Clamp(m.cursor, len(m.items()))
}

// SetFailed replaces the listings with the failure banner; history stays
func (m *Model) SetFailed() {
	m.ongoing = nil
	m.complete = nil
	m.loading = false
	m.failed = true
	m.cursor = common.Clamp(m.cursor, len(m.items()))
}

// Failed reports whether the last listing fetch failed
func (m Model) Failed() bool {
	return m.failed
}

func (m Model) items() []item {
	items := make([]item, 0, len(m.recent)+len(m.ongoing)+len(m.complete))
	for i := range m.recent {
		items = append(items, item{sectionRecent, i})
	}
	for i := range m.ongoing {
		items = append(items, item{sectionOngoing, i})
	}
	for i := range m.complete {
		items = append(items, item{sectionComplete, i})
	}
	return items
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	items := m.items()
	switch keyMsg.String() {
	case "up", "k":
		m.cursor = common.Clamp(m.cursor-1, len(items))
	case "down", "j":
		m.cursor = common.Clamp(m.cursor+1, len(items))
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = common.Clamp(len(items)-1, len(items))
	case "enter":
		if len(items) == 0 {
			return m, nil
		}
		return m, m.selectCmd(items[m.cursor])
	case "/", "s":
		return m, func() tea.Msg { return common.GoToSearchMsg{} }
	case "h":
		return m, func() tea.Msg { return common.GoToHistoryMsg{} }
	case "r":
		return m, func() tea.Msg { return common.RefreshMsg{} }
	}
	return m, nil
}

func (m Model) selectCmd(it item) tea.Cmd {
	switch it.section {
	case sectionRecent:
		c := m.recent[it.index]
		if c.EpisodeID == "" {
			return nil
		}
		return func() tea.Msg {
			return common.ResumeMsg{
				SeriesID:        c.SeriesID,
				SeriesTitle:     c.Title,
				SeriesPosterURL: c.PosterURL,
				EpisodeID:       c.EpisodeID,
			}
		}
	case sectionOngoing:
		return seriesCmd(m.ongoing[it.index].ID)
	default:
		return seriesCmd(m.complete[it.index].ID)
	}
}

func seriesCmd(id string) tea.Cmd {
	if id == "" {
		return nil
	}
	return func() tea.Msg { return common.SeriesSelectedMsg{SeriesID: id} }
}

func (m Model) View() string {
	var b strings.Builder
	items := m.items()

	// three rows per entry plus section headers
	start, end := common.Window(len(items), m.cursor, max((m.height-12)/3, 3))

	current := section(-1)
	for pos := start; pos < end; pos++ {
		it := items[pos]
		if it.section != current {
			current = it.section
			b.WriteString(styles.HeaderStyle.Render(sectionTitle(current)) + "\n")
		}
		selected := pos == m.cursor
		switch it.section {
		case sectionRecent:
			c := m.recent[it.index]
			b.WriteString(common.RenderItem(c.Title, c.Badge, c.Caption+" • "+c.Watched, selected, m.width) + "\n")
		case sectionOngoing:
			c := m.ongoing[it.index]
			b.WriteString(common.RenderItem(c.Title, c.Badge, c.Caption, selected, m.width) + "\n")
		case sectionComplete:
			c := m.complete[it.index]
			b.WriteString(common.RenderItem(c.Title, c.Badge, c.Caption, selected, m.width) + "\n")
		}
	}

	switch {
	case m.loading:
		b.WriteString("\n" + styles.MetadataStyle.Render("  Loading ongoing and completed anime...") + "\n")
	case m.failed:
		b.WriteString("\n" + styles.ErrorStyle.Render("  Failed to load data. API might be down.") + "\n")
	case len(m.ongoing) == 0 && len(m.complete) == 0:
		b.WriteString("\n" + styles.MetadataStyle.Render("  No anime found.") + "\n")
	}

	b.WriteString(styles.HelpStyle.Render("  ↑/↓ move • enter open • / search • h history • r reload • ? help • q quit"))
	return b.String()
}

func sectionTitle(s section) string {
	switch s {
	case sectionRecent:
		return "Continue Watching"
	case sectionOngoing:
		return "Ongoing Anime"
	default:
		return "Completed Anime"
	}
}
