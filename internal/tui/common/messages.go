package common

// This file contains custom tea.Msg types for communication between components.

// GoToSearchMsg is a message to switch to the search view.
type GoToSearchMsg struct{}

// GoToHomeMsg is a message to switch to the home view.
type GoToHomeMsg struct{}

// GoToHistoryMsg is a message to switch to the full history view.
type GoToHistoryMsg struct{}

// BackMsg is a generic message to go back to the previous view.
type BackMsg struct{}

// RefreshMsg asks the current view to reload its data.
type RefreshMsg struct{}

// PerformSearchMsg is a message that triggers a search.
type PerformSearchMsg struct {
	Query string
}

// SeriesSelectedMsg opens the detail view of a series.
type SeriesSelectedMsg struct {
	SeriesID string
}

// EpisodeSelectedMsg opens the stream view of an episode.
type EpisodeSelectedMsg struct {
	EpisodeID string
}

// ResumeMsg opens the last watched episode of a history entry. The entry's
// series becomes the session context so the episode is recorded under it.
type ResumeMsg struct {
	SeriesID        string
	SeriesTitle     string
	SeriesPosterURL string
	EpisodeID       string
}

// OpenURLMsg opens a URL in the system browser.
type OpenURLMsg struct {
	URL string
}

// CopyURLMsg copies a URL to the clipboard.
type CopyURLMsg struct {
	URL  string
	Name string
}

// DeleteHistoryMsg removes one series from the watch history.
type DeleteHistoryMsg struct {
	SeriesID string
}

// ClearHistoryMsg empties the watch history.
type ClearHistoryMsg struct{}

// StatusMsg shows a transient message in the footer.
type StatusMsg struct {
	Text  string
	Error bool
}
