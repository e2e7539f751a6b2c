package tui

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/justchokingaround/anenyong/internal/catalog"
	"github.com/justchokingaround/anenyong/internal/history"
	"github.com/justchokingaround/anenyong/internal/slug"
	"github.com/justchokingaround/anenyong/internal/tui/common"
	"github.com/justchokingaround/anenyong/internal/tui/components/detail"
	"github.com/justchokingaround/anenyong/internal/tui/components/help"
	historyview "github.com/justchokingaround/anenyong/internal/tui/components/history"
	"github.com/justchokingaround/anenyong/internal/tui/components/home"
	"github.com/justchokingaround/anenyong/internal/tui/components/results"
	"github.com/justchokingaround/anenyong/internal/tui/components/search"
	"github.com/justchokingaround/anenyong/internal/tui/components/stream"
	"github.com/justchokingaround/anenyong/internal/tui/styles"
	"github.com/justchokingaround/anenyong/internal/view"
)

type sessionState int

const (
	homeView sessionState = iota
	searchView
	resultsView
	detailView
	streamView
	historyView
	loadingView
)

func (s sessionState) String() string {
	switch s {
	case homeView:
		return "home"
	case searchView:
		return "search"
	case resultsView:
		return "results"
	case detailView:
		return "detail"
	case streamView:
		return "stream"
	case historyView:
		return "history"
	default:
		return "loading"
	}
}

// Catalog is the part of the catalog client the TUI uses
type Catalog interface {
	Home(ctx context.Context) (*catalog.Home, error)
	Search(ctx context.Context, query string) ([]catalog.SeriesSummary, error)
	Series(ctx context.Context, id string) (*catalog.SeriesDetail, error)
	Episode(ctx context.Context, id string) (*catalog.EpisodeDetail, error)
}

// Options wires the TUI to its collaborators
type Options struct {
	Catalog     Catalog
	History     *history.Store
	Desktop     Desktop
	Codec       slug.Codec
	PageSize    int
	RecentCount int
	Logger      *slog.Logger
	Now         func() time.Time
}

// pending describes the navigation whose fetch is in flight
type pending struct {
	target sessionState
	from   sessionState
	pushed bool
	label  string
}

type App struct {
	state  sessionState
	stack  []sessionState
	width  int
	height int

	catalog     Catalog
	store       *history.Store
	desktop     Desktop
	codec       slug.Codec
	renderer    view.Renderer
	recentCount int
	logger      *slog.Logger
	now         func() time.Time

	// requestID identifies the navigation whose result is still wanted;
	// results carrying another id belong to an abandoned navigation
	requestID   int
	homeRequest int
	pending     pending

	currentSeries *catalog.SeriesDetail

	home    home.Model
	search  search.Model
	results results.Model
	detail  detail.Model
	stream  stream.Model
	history historyview.Model
	help    help.Model
	spinner spinner.Model

	statusMsg     string
	statusErr     bool
	statusMsgTime time.Time
}

// NewApp creates the root model
func NewApp(opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.RecentCount <= 0 {
		opts.RecentCount = 4
	}

	renderer := view.New(opts.Codec)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.OxocarbonPurple)

	return &App{
		state:       homeView,
		catalog:     opts.Catalog,
		store:       opts.History,
		desktop:     opts.Desktop,
		codec:       opts.Codec,
		renderer:    renderer,
		recentCount: opts.RecentCount,
		logger:      opts.Logger.With("component", "tui"),
		now:         opts.Now,
		home:        home.New(),
		search:      search.New(),
		results:     results.New(),
		detail:      detail.New(renderer, opts.PageSize),
		stream:      stream.New(),
		history:     historyview.New(),
		help:        help.New(),
		spinner:     s,
	}
}

func (a *App) Init() tea.Cmd {
	a.refreshRecent()
	return tea.Batch(a.spinner.Tick, a.loadHome())
}

func (a *App) loadHome() tea.Cmd {
	a.homeRequest++
	a.home.SetLoading()
	return loadHomeCmd(a.catalog, a.homeRequest)
}

func (a *App) refreshRecent() {
	a.home.SetRecent(a.renderer.HistoryCards(a.store.Recent(a.recentCount), a.now()))
}

func (a *App) refreshHistory() {
	a.history.SetHistory(a.renderer.HistoryCards(a.store.All(), a.now()))
}

func (a *App) refreshResume() {
	if a.currentSeries == nil {
		return
	}
	var resume *view.Resume
	if entry, ok := a.store.Find(a.currentSeries.ID); ok {
		resume = a.renderer.Detail(a.currentSeries, &entry).Resume
	}
	a.detail.SetResume(resume)
}

// navigate starts a fetch for target. The current view stays on the stack so
// back returns to it; re-entering the same view (next episode) does not stack.
func (a *App) navigate(target sessionState, label string, fetch func(id int) tea.Cmd) tea.Cmd {
	if a.state == loadingView {
		a.abandon()
	}
	from := a.state

	pushed := from != target
	if pushed {
		a.stack = append(a.stack, from)
	}

	a.requestID++
	a.pending = pending{target: target, from: from, pushed: pushed, label: label}
	a.state = loadingView
	return fetch(a.requestID)
}

// abandon drops the in-flight navigation and returns to where it started
func (a *App) abandon() {
	a.requestID++
	if a.pending.pushed && len(a.stack) > 0 {
		a.stack = a.stack[:len(a.stack)-1]
	}
	a.state = a.pending.from
}

func (a *App) fail(what string, err error) tea.Cmd {
	a.logger.Error("load failed", "what", what, "error", err)
	a.abandon()
	return a.setStatus("Failed to load "+what+": "+err.Error(), true)
}

// stale reports whether a result belongs to an abandoned navigation
func (a *App) stale(id int) bool {
	if id != a.requestID || a.state != loadingView {
		a.logger.Debug("dropping stale result", "id", id, "current", a.requestID)
		return true
	}
	return false
}

func (a *App) back() {
	if len(a.stack) == 0 {
		a.state = homeView
	} else {
		a.state = a.stack[len(a.stack)-1]
		a.stack = a.stack[:len(a.stack)-1]
	}
	a.enter()
}

// enter refreshes history-backed views when they become visible again
func (a *App) enter() {
	switch a.state {
	case homeView:
		a.refreshRecent()
	case historyView:
		a.refreshHistory()
	case detailView:
		a.refreshResume()
	}
}

func (a *App) push(target sessionState) {
	if a.state != target {
		a.stack = append(a.stack, a.state)
	}
	a.state = target
	a.enter()
}

func (a *App) setStatus(text string, isErr bool) tea.Cmd {
	a.statusMsg = text
	a.statusErr = isErr
	a.statusMsgTime = a.now()
	return clearStatusAfter(2500*time.Millisecond, a.statusMsgTime)
}

func (a *App) inputActive() bool {
	switch a.state {
	case searchView:
		return true
	case detailView:
		return a.detail.Editing()
	case historyView:
		return a.history.IsInputActive()
	}
	return false
}

func (a *App) setSize(width, height int) {
	a.width = width
	a.height = height
	// navbar and footer
	bodyHeight := max(height-4, 5)
	a.home.SetSize(width, bodyHeight)
	a.results.SetSize(width, bodyHeight)
	a.detail.SetSize(width, bodyHeight)
	a.stream.SetSize(width, bodyHeight)
	a.history.SetSize(width, bodyHeight)
	a.help.SetSize(width, bodyHeight)
	a.search, _ = a.search.Update(tea.WindowSizeMsg{Width: width, Height: bodyHeight})
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.setSize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case common.GoToHomeMsg:
		a.stack = nil
		a.state = homeView
		a.enter()
		return a, nil

	case common.GoToSearchMsg:
		a.push(searchView)
		a.search.SetValue("")
		return a, a.search.Focus()

	case common.GoToHistoryMsg:
		a.push(historyView)
		return a, nil

	case common.BackMsg:
		a.back()
		return a, nil

	case common.RefreshMsg:
		a.refreshRecent()
		return a, a.loadHome()

	case common.PerformSearchMsg:
		query := strings.TrimSpace(msg.Query)
		if query == "" {
			return a, nil
		}
		return a, a.navigate(resultsView, "search results", func(id int) tea.Cmd {
			return searchCmd(a.catalog, id, query)
		})

	case common.SeriesSelectedMsg:
		id := a.codec.Canonicalize(msg.SeriesID)
		if id == "" {
			return a, nil
		}
		return a, a.navigate(detailView, "anime", func(rid int) tea.Cmd {
			return loadSeriesCmd(a.catalog, rid, id)
		})

	case common.EpisodeSelectedMsg:
		id := a.codec.Canonicalize(msg.EpisodeID)
		if id == "" {
			return a, nil
		}
		return a, a.navigate(streamView, "episode", func(rid int) tea.Cmd {
			return loadEpisodeCmd(a.catalog, rid, id)
		})

	case common.ResumeMsg:
		id := a.codec.Canonicalize(msg.EpisodeID)
		if id == "" {
			return a, nil
		}
		a.store.SetContext(msg.SeriesID, msg.SeriesTitle, msg.SeriesPosterURL)
		return a, a.navigate(streamView, "episode", func(rid int) tea.Cmd {
			return loadEpisodeCmd(a.catalog, rid, id)
		})

	case common.OpenURLMsg:
		return a, openURLCmd(a.desktop, msg.URL)

	case common.CopyURLMsg:
		return a, copyCmd(a.desktop, msg.URL, msg.Name)

	case common.DeleteHistoryMsg:
		if a.store.Remove(msg.SeriesID) {
			a.refreshHistory()
			return a, a.setStatus("Removed from history", false)
		}
		return a, nil

	case common.ClearHistoryMsg:
		a.store.Clear()
		a.refreshHistory()
		return a, a.setStatus("History cleared", false)

	case common.StatusMsg:
		return a, a.setStatus(msg.Text, msg.Error)

	case clearStatusMsg:
		if msg.at.Equal(a.statusMsgTime) {
			a.statusMsg = ""
		}
		return a, nil

	case homeLoadedMsg:
		if msg.id != a.homeRequest {
			return a, nil
		}
		if msg.err != nil {
			a.logger.Error("failed to load home", "error", msg.err)
			a.home.SetFailed()
			return a, nil
		}
		a.home.SetListings(a.renderer.Cards(msg.home.Ongoing), a.renderer.Cards(msg.home.Complete))
		return a, nil

	case searchResultsMsg:
		if a.stale(msg.id) {
			return a, nil
		}
		if msg.err != nil {
			a.logger.Error("search failed", "query", msg.query, "error", msg.err)
			a.results.SetFailed(msg.query)
		} else {
			a.results.SetResults(msg.query, a.renderer.Cards(msg.results))
		}
		a.state = resultsView
		return a, nil

	case seriesLoadedMsg:
		if a.stale(msg.id) {
			return a, nil
		}
		if msg.err != nil {
			return a, a.fail("anime", msg.err)
		}
		d := msg.detail
		a.currentSeries = d
		a.store.SetContext(d.ID, d.Title, d.PosterURL)

		var resume *history.Entry
		if entry, ok := a.store.Find(d.ID); ok {
			resume = &entry
		}
		a.detail.SetDetail(a.renderer.Detail(d, resume), d.Episodes)
		a.state = detailView
		return a, nil

	case episodeLoadedMsg:
		if a.stale(msg.id) {
			return a, nil
		}
		if msg.err != nil {
			return a, a.fail("episode", msg.err)
		}
		e := msg.episode
		recorded := a.store.RecordFromContext(history.Episode{
			ID:     e.ID,
			Number: history.EpisodeNumberFromTitle(e.Title),
			Title:  e.Title,
		})
		a.stream.SetStream(a.renderer.Stream(e), recorded)
		a.state = streamView
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	if a.help.IsVisible() {
		a.help, _ = a.help.Update(msg)
		return a, nil
	}

	if a.state == loadingView {
		if msg.String() == "esc" {
			a.abandon()
			a.enter()
		}
		return a, nil
	}

	if !a.inputActive() {
		switch msg.String() {
		case "q":
			if a.state == homeView {
				return a, tea.Quit
			}
			if a.state != historyView {
				a.back()
				return a, nil
			}
		case "H":
			return a, func() tea.Msg { return common.GoToHomeMsg{} }
		case "?":
			a.help.SetContext(helpContext(a.state))
			a.help.Show()
			return a, nil
		}
	}

	var cmd tea.Cmd
	switch a.state {
	case homeView:
		a.home, cmd = a.home.Update(msg)
	case searchView:
		a.search, cmd = a.search.Update(msg)
	case resultsView:
		a.results, cmd = a.results.Update(msg)
	case detailView:
		a.detail, cmd = a.detail.Update(msg)
	case streamView:
		a.stream, cmd = a.stream.Update(msg)
	case historyView:
		a.history, cmd = a.history.Update(msg)
	}
	return a, cmd
}

func (a *App) View() string {
	var body string
	switch a.state {
	case homeView:
		body = a.home.View()
	case searchView:
		body = a.search.View()
	case resultsView:
		body = a.results.View()
	case detailView:
		body = a.detail.View()
	case streamView:
		body = a.stream.View()
	case historyView:
		body = a.history.View()
	case loadingView:
		body = "\n  " + a.spinner.View() + " " + styles.MetadataStyle.Render("Loading "+a.pending.label+"...") +
			"\n" + styles.HelpStyle.Render("  esc cancel")
	}

	if a.help.IsVisible() {
		body = a.help.View()
	}

	navbar := styles.BrandStyle.Render("AneNyong") + " " + styles.MetadataStyle.Render(a.state.String())

	var footer string
	if a.statusMsg != "" {
		if a.statusErr {
			footer = "\n" + styles.ErrorStyle.Render(a.statusMsg)
		} else {
			footer = "\n" + styles.FooterStyle.Render(a.statusMsg)
		}
	}

	return navbar + "\n" + body + footer
}

func helpContext(s sessionState) help.HelpContext {
	switch s {
	case homeView:
		return help.HomeContext
	case searchView:
		return help.SearchContext
	case resultsView:
		return help.ResultsContext
	case detailView:
		return help.DetailContext
	case streamView:
		return help.StreamContext
	case historyView:
		return help.HistoryContext
	}
	return help.GlobalContext
}
