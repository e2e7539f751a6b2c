package history

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/justchokingaround/anenyong/internal/tui/styles"
	"github.com/justchokingaround/anenyong/internal/view"
)

type filterState int

const (
	filterOff filterState = iota
	filterEditing
	// filter stays applied while list keys (resume, delete) work again
	filterLocked
)

// cardFilter narrows the ledger by series title and episode badge, so both
// "frieren" and "ep 12" find a card.
type cardFilter struct {
	input textinput.Model
	state filterState
}

func newCardFilter() *cardFilter {
	ti := textinput.New()
	ti.Placeholder = "title or episode"
	ti.Prompt = ""
	ti.CharLimit = 100
	ti.TextStyle = styles.MetadataStyle
	ti.PlaceholderStyle = styles.MetadataStyle
	return &cardFilter{input: ti}
}

// cardSource exposes cards to fuzzy.FindFrom without building a string slice
type cardSource []view.HistoryCard

func (s cardSource) String(i int) string { return s[i].Title + " " + s[i].Badge }
func (s cardSource) Len() int            { return len(s) }

func (f *cardFilter) open() tea.Cmd {
	f.state = filterEditing
	f.input.SetValue("")
	f.input.Focus()
	return textinput.Blink
}

func (f *cardFilter) close() {
	f.state = filterOff
	f.input.SetValue("")
	f.input.Blur()
}

func (f *cardFilter) lock() {
	if f.state == filterEditing {
		f.state = filterLocked
		f.input.Blur()
	}
}

func (f *cardFilter) edit() tea.Cmd {
	if f.state != filterLocked {
		return nil
	}
	f.state = filterEditing
	f.input.Focus()
	return textinput.Blink
}

func (f *cardFilter) shown() bool   { return f.state != filterOff }
func (f *cardFilter) editing() bool { return f.state == filterEditing }

func (f *cardFilter) update(msg tea.Msg) tea.Cmd {
	if !f.editing() {
		return nil
	}
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return cmd
}

// apply returns the matching cards, best match first. With no query the
// ledger order is kept.
func (f *cardFilter) apply(cards []view.HistoryCard) []view.HistoryCard {
	query := f.input.Value()
	if f.state == filterOff || query == "" {
		return cards
	}
	matches := fuzzy.FindFrom(query, cardSource(cards))
	out := make([]view.HistoryCard, len(matches))
	for i, match := range matches {
		out[i] = cards[match.Index]
	}
	return out
}

func (f *cardFilter) setWidth(width int) {
	f.input.Width = max(width-20, 10)
}

func (f *cardFilter) view() string {
	label := styles.MetadataStyle.Render("Filter: ")
	switch f.state {
	case filterEditing:
		return label + f.input.View() + styles.HelpStyle.UnsetMarginTop().Render("  enter keep • esc clear")
	case filterLocked:
		return label + styles.ItemTitleStyle.Render(f.input.Value()) +
			styles.HelpStyle.UnsetMarginTop().Render("  / edit • esc clear")
	}
	return ""
}
