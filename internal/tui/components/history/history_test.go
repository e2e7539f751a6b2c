package history

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justchokingaround/anenyong/internal/tui/common"
	"github.com/justchokingaround/anenyong/internal/tui/tuitest"
	"github.com/justchokingaround/anenyong/internal/view"
)

func newHistoryModel() Model {
	m := New()
	m.SetSize(80, 30)
	m.SetHistory([]view.HistoryCard{
		{SeriesID: "frieren", EpisodeID: "fr-ep-12", Title: "Frieren", Badge: "Ep 12"},
		{SeriesID: "1piece", EpisodeID: "op-ep-9", Title: "One Piece", Badge: "Ep 9"},
		{SeriesID: "dandadan", EpisodeID: "dd-ep-3", Title: "Dandadan", Badge: "Ep 3"},
	})
	return m
}

func typeInto(m Model, text string) Model {
	for _, k := range tuitest.Type(text) {
		m, _ = m.Update(k)
	}
	return m
}

func titles(cards []view.HistoryCard) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Title
	}
	return out
}

func TestFilter(t *testing.T) {
	t.Run("matches on episode number", func(t *testing.T) {
		m := newHistoryModel()
		m, _ = m.Update(tuitest.Key("/"))
		require.True(t, m.IsInputActive())

		m = typeInto(m, "ep 9")
		assert.Equal(t, []string{"One Piece"}, titles(m.filtered()))
		tuitest.AssertContains(t, m.View(), "One Piece", "Ep 9")
		assert.Equal(t, 0, tuitest.Lines(m.View(), "Frieren"))
	})

	t.Run("matches on title", func(t *testing.T) {
		m := newHistoryModel()
		m, _ = m.Update(tuitest.Key("/"))
		m = typeInto(m, "frn")
		assert.Equal(t, []string{"Frieren"}, titles(m.filtered()))
	})

	t.Run("title and episode together", func(t *testing.T) {
		m := newHistoryModel()
		m, _ = m.Update(tuitest.Key("/"))
		m = typeInto(m, "dan 3")
		assert.Equal(t, []string{"Dandadan"}, titles(m.filtered()))

		m = typeInto(m, "4")
		assert.Empty(t, m.filtered())
		tuitest.AssertContains(t, m.View(), "No matches.")
	})

	t.Run("locked filter keeps matches and frees list keys", func(t *testing.T) {
		m := newHistoryModel()
		m, _ = m.Update(tuitest.Key("/"))
		m = typeInto(m, "ep 9")
		m, _ = m.Update(tuitest.Key("enter"))
		assert.False(t, m.IsInputActive())

		m, cmd := m.Update(tuitest.Key("x"))
		msgs := tuitest.Exec(cmd)
		require.Len(t, msgs, 1)
		assert.Equal(t, common.DeleteHistoryMsg{SeriesID: "1piece"}, msgs[0])

		m, _ = m.Update(tuitest.Key("/"))
		assert.True(t, m.IsInputActive())
		assert.Equal(t, []string{"One Piece"}, titles(m.filtered()))
	})

	t.Run("esc clears the filter", func(t *testing.T) {
		m := newHistoryModel()
		m, _ = m.Update(tuitest.Key("/"))
		m = typeInto(m, "ep 9")
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})

		assert.False(t, m.IsInputActive())
		assert.Equal(t, []string{"Frieren", "One Piece", "Dandadan"}, titles(m.filtered()))
		assert.NotContains(t, tuitest.Plain(m.View()), "Filter:")
	})
}
