package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/justchokingaround/anenyong/internal/catalog"
	"github.com/justchokingaround/anenyong/internal/tui/common"
)

// fetchTimeout bounds a single navigation's request
const fetchTimeout = 45 * time.Second

type homeLoadedMsg struct {
	id   int
	home *catalog.Home
	err  error
}

type searchResultsMsg struct {
	id      int
	query   string
	results []catalog.SeriesSummary
	err     error
}

type seriesLoadedMsg struct {
	id     int
	detail *catalog.SeriesDetail
	err    error
}

type episodeLoadedMsg struct {
	id      int
	episode *catalog.EpisodeDetail
	err     error
}

// clearStatusMsg is an internal message to clear the status message
type clearStatusMsg struct {
	at time.Time
}

func loadHomeCmd(c Catalog, id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		home, err := c.Home(ctx)
		return homeLoadedMsg{id: id, home: home, err: err}
	}
}

func searchCmd(c Catalog, id int, query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		results, err := c.Search(ctx, query)
		return searchResultsMsg{id: id, query: query, results: results, err: err}
	}
}

func loadSeriesCmd(c Catalog, id int, seriesID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		detail, err := c.Series(ctx, seriesID)
		return seriesLoadedMsg{id: id, detail: detail, err: err}
	}
}

func loadEpisodeCmd(c Catalog, id int, episodeID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		episode, err := c.Episode(ctx, episodeID)
		return episodeLoadedMsg{id: id, episode: episode, err: err}
	}
}

func openURLCmd(d Desktop, url string) tea.Cmd {
	return func() tea.Msg {
		if err := d.OpenURL(url); err != nil {
			return common.StatusMsg{Text: "Could not open browser: " + err.Error(), Error: true}
		}
		return common.StatusMsg{Text: "Opened in browser"}
	}
}

func copyCmd(d Desktop, text, name string) tea.Cmd {
	return func() tea.Msg {
		if err := d.Copy(text); err != nil {
			return common.StatusMsg{Text: "Could not copy: " + err.Error(), Error: true}
		}
		return common.StatusMsg{Text: "📋 " + name + " copied to clipboard"}
	}
}

func clearStatusAfter(d time.Duration, at time.Time) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return clearStatusMsg{at: at} })
}
