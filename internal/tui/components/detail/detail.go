package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/justchokingaround/anenyong/internal/episodes"
	"github.com/justchokingaround/anenyong/internal/tui/common"
	"github.com/justchokingaround/anenyong/internal/tui/styles"
	"github.com/justchokingaround/anenyong/internal/view"
)

// Model is the series detail view with a paged, filterable episode list
type Model struct {
	renderer view.Renderer
	pageSize int

	detail  view.DetailView
	browser *episodes.Browser
	rows    []view.EpisodeRow

	filter  textinput.Model
	editing bool

	cursor int
	width  int
	height int
}

func New(renderer view.Renderer, pageSize int) Model {
	ti := textinput.New()
	ti.Placeholder = "Search episode..."
	ti.Prompt = ""
	ti.CharLimit = 50
	ti.TextStyle = styles.MetadataStyle
	ti.PlaceholderStyle = styles.MetadataStyle

	return Model{
		renderer: renderer,
		pageSize: pageSize,
		browser:  episodes.NewBrowser(nil, pageSize),
		filter:   ti,
	}
}

// SetSize sets the model dimensions
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.filter.Width = max(width-30, 10)
}

// SetDetail shows a loaded series; refs is its full episode list
func (m *Model) SetDetail(d view.DetailView, refs []episodes.Ref) {
	m.detail = d
	m.browser = episodes.NewBrowser(refs, m.pageSize)
	m.filter.SetValue("")
	m.filter.Blur()
	m.editing = false
	m.refresh()
}

// SetResume updates the resume button after the history changed
func (m *Model) SetResume(r *view.Resume) {
	m.detail.Resume = r
}

// Detail returns the series being shown
func (m Model) Detail() view.DetailView {
	return m.detail
}

// Browser exposes the episode paging state
func (m Model) Browser() *episodes.Browser {
	return m.browser
}

// Editing reports whether keystrokes go to the filter input
func (m Model) Editing() bool {
	return m.editing
}

func (m *Model) refresh() {
	m.rows = m.renderer.EpisodeRows(m.browser.Visible())
	m.cursor = common.Clamp(m.cursor, len(m.rows))
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.editing {
		switch keyMsg.String() {
		case "esc":
			m.editing = false
			m.filter.Blur()
			m.filter.SetValue("")
			m.browser.SetFilter("")
			m.cursor = 0
			m.refresh()
			return m, nil
		case "enter", "down", "up":
			m.editing = false
			m.filter.Blur()
			return m, nil
		}

		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.browser.SetFilter(m.filter.Value())
		m.cursor = 0
		m.refresh()
		return m, cmd
	}

	switch keyMsg.String() {
	case "up", "k":
		m.cursor = common.Clamp(m.cursor-1, len(m.rows))
	case "down", "j":
		m.cursor = common.Clamp(m.cursor+1, len(m.rows))
	case "right", "l", "]":
		if !m.browser.Filtering() {
			m.browser.NextPage()
			m.cursor = 0
			m.refresh()
		}
	case "left", "h", "[":
		if !m.browser.Filtering() {
			m.browser.PrevPage()
			m.cursor = 0
			m.refresh()
		}
	case "/":
		m.editing = true
		return m, m.filter.Focus()
	case "c":
		if m.detail.Resume != nil {
			id := m.detail.Resume.EpisodeID
			return m, func() tea.Msg { return common.EpisodeSelectedMsg{EpisodeID: id} }
		}
	case "enter":
		if len(m.rows) > 0 && m.rows[m.cursor].ID != "" {
			id := m.rows[m.cursor].ID
			return m, func() tea.Msg { return common.EpisodeSelectedMsg{EpisodeID: id} }
		}
	case "esc", "backspace":
		if m.browser.Filtering() {
			m.filter.SetValue("")
			m.browser.SetFilter("")
			m.cursor = 0
			m.refresh()
			return m, nil
		}
		return m, func() tea.Msg { return common.BackMsg{} }
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	width := max(m.width-8, 30)

	b.WriteString("\n" + styles.TitleStyle.Render(view.Truncate(m.detail.Title, width)) + "\n\n")

	for _, row := range m.detail.Info {
		if row.Value == "" {
			continue
		}
		b.WriteString("  " + styles.SubtitleStyle.Render(row.Label+":") + " " + styles.MetadataStyle.Render(row.Value) + "\n")
	}

	if m.detail.Synopsis != "" {
		b.WriteString("\n" + styles.SynopsisStyle.Render(indent(view.TruncateToLines(m.detail.Synopsis, 4, width))) + "\n")
	}

	if m.detail.Resume != nil {
		b.WriteString("\n  " + styles.ResumeStyle.Render("▶ "+m.detail.Resume.Label) + styles.HelpStyle.UnsetMarginTop().Render("  (c)") + "\n")
	}

	b.WriteString(styles.HeaderStyle.Render("Episodes") + "\n")

	switch {
	case m.editing || m.browser.Filtering():
		b.WriteString("  " + styles.MetadataStyle.Render("Filter: ") + m.filter.View() + "\n")
	case m.browser.ShowPager():
		labels := m.browser.PageLabels()
		b.WriteString("  " + styles.BadgeStyle.Render(labels[m.browser.Page()]) +
			styles.MetadataStyle.Render(fmt.Sprintf("  (page %d/%d)", m.browser.Page()+1, m.browser.Pages())) + "\n")
	}

	if len(m.rows) == 0 {
		b.WriteString(styles.MetadataStyle.Render("  No episodes found") + "\n")
	} else {
		start, end := common.Window(len(m.rows), m.cursor, max(m.height-24, 5))
		for i := start; i < end; i++ {
			r := m.rows[i]
			line := styles.ItemTitleStyle.Render(r.Number) + "  " + styles.MetadataStyle.Render(view.Truncate(r.Label, width-20))
			if i == m.cursor {
				b.WriteString(styles.ItemSelectedStyle.Render(line) + "\n")
			} else {
				b.WriteString(styles.ItemStyle.Render(line) + "\n")
			}
		}
	}

	help := "  ↑/↓ move • enter watch • / filter • esc back"
	if m.browser.ShowPager() && !m.browser.Filtering() {
		help = "  ↑/↓ move • ←/→ page • enter watch • / filter • esc back"
	}
	b.WriteString(styles.HelpStyle.Render(help))
	return b.String()
}

func indent(text string) string {
	return "  " + strings.ReplaceAll(text, "\n", "\n  ")
}
