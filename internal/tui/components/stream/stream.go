package stream

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/justchokingaround/anenyong/internal/tui/common"
	"github.com/justchokingaround/anenyong/internal/tui/styles"
	"github.com/justchokingaround/anenyong/internal/view"
)

// Model is the episode view: stream URL, previous/next episode and download mirrors
type Model struct {
	stream   view.StreamView
	recorded bool

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

// SetStream shows a loaded episode. recorded says whether it went into the history.
func (m *Model) SetStream(s view.StreamView, recorded bool) {
	m.stream = s
	m.recorded = recorded
	m.cursor = 0
}

// Stream returns the episode being shown
func (m Model) Stream() view.StreamView {
	return m.stream
}

func (m Model) links() int {
	if m.stream.Downloads == nil {
		return 0
	}
	return len(m.stream.Downloads.Links)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "o":
		if url := m.stream.StreamURL; url != "" {
			return m, func() tea.Msg { return common.OpenURLMsg{URL: url} }
		}
	case "y":
		if url := m.stream.StreamURL; url != "" {
			return m, func() tea.Msg { return common.CopyURLMsg{URL: url, Name: "Stream URL"} }
		}
	case "n":
		if m.stream.Next != nil {
			id := m.stream.Next.EpisodeID
			return m, func() tea.Msg { return common.EpisodeSelectedMsg{EpisodeID: id} }
		}
	case "p":
		if m.stream.Previous != nil {
			id := m.stream.Previous.EpisodeID
			return m, func() tea.Msg { return common.EpisodeSelectedMsg{EpisodeID: id} }
		}
	case "i":
		if id := m.stream.Series; id != "" {
			return m, func() tea.Msg { return common.SeriesSelectedMsg{SeriesID: id} }
		}
	case "up", "k":
		m.cursor = common.Clamp(m.cursor-1, m.links())
	case "down", "j":
		m.cursor = common.Clamp(m.cursor+1, m.links())
	case "enter":
		if m.links() > 0 {
			url := m.stream.Downloads.Links[m.cursor].URL
			return m, func() tea.Msg { return common.OpenURLMsg{URL: url} }
		}
	case "esc", "backspace":
		return m, func() tea.Msg { return common.BackMsg{} }
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	width := max(m.width-8, 30)

	b.WriteString("\n" + styles.TitleStyle.Render(view.Truncate(m.stream.Title, width)) + "\n\n")

	if m.stream.StreamURL != "" {
		b.WriteString("  " + styles.SubtitleStyle.Render("Stream: ") + styles.URLStyle.Render(m.stream.StreamURL) + "\n")
	} else {
		b.WriteString("  " + styles.ErrorStyle.Render("No stream available for this episode") + "\n")
	}
	if !m.recorded {
		b.WriteString("  " + styles.MetadataStyle.Render("Open the series first to save this episode to your history") + "\n")
	}

	var nav []string
	if m.stream.Previous != nil {
		nav = append(nav, "« Previous (p)")
	}
	if m.stream.Next != nil {
		nav = append(nav, "Next (n) »")
	}
	if len(nav) > 0 {
		b.WriteString("\n  " + styles.BadgeStyle.Render(strings.Join(nav, "   ")) + "\n")
	}

	if m.stream.Downloads == nil {
		b.WriteString(styles.HeaderStyle.Render("Download") + "\n")
		b.WriteString(styles.MetadataStyle.Render("  Download links will appear here if available.") + "\n")
	} else {
		b.WriteString(styles.HeaderStyle.Render(m.stream.Downloads.Heading) + "\n")
		for i, l := range m.stream.Downloads.Links {
			b.WriteString(common.RenderItem(l.Provider, "", l.URL, i == m.cursor, m.width) + "\n")
		}
	}

	b.WriteString(styles.HelpStyle.Render("  o open in browser • y copy url • p/n prev/next • enter open download • i series • esc back"))
	return b.String()
}
