// Package view turns catalog data and history entries into display slots.
// Everything here is pure: no I/O, no clock reads, no storage access.
package view

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/justchokingaround/anenyong/internal/catalog"
	"github.com/justchokingaround/anenyong/internal/episodes"
	"github.com/justchokingaround/anenyong/internal/history"
	"github.com/justchokingaround/anenyong/internal/slug"
)

// PreferredResolution is the download bucket shown when present
const PreferredResolution = "360"

// Card is a series tile in a listing
type Card struct {
	ID        string
	Title     string
	PosterURL string
	Badge     string
	Caption   string
	Link      string
}

// EpisodeRow is one line of an episode list
type EpisodeRow struct {
	ID     string
	Link   string
	Number string
	Label  string
}

// HistoryCard is a "continue watching" tile
type HistoryCard struct {
	SeriesID  string
	EpisodeID string
	Title     string
	PosterURL string
	Badge     string
	Caption   string
	Watched   string
	Link      string
}

// InfoRow is a labelled attribute on the detail view
type InfoRow struct {
	Label string
	Value string
}

// Resume points at the last watched episode of a series
type Resume struct {
	EpisodeID string
	Label     string
	Link      string
}

// DetailView is the series detail page
type DetailView struct {
	ID        string
	Title     string
	PosterURL string
	Info      []InfoRow
	Synopsis  string
	Resume    *Resume
	Episodes  []EpisodeRow
}

// Nav is a previous or next episode slot
type Nav struct {
	EpisodeID string
	Link      string
}

// DownloadLinks is the single download bucket shown on the stream view
type DownloadLinks struct {
	Heading string
	Links   []catalog.DownloadLink
}

// StreamView is the episode page
type StreamView struct {
	ID        string
	Title     string
	StreamURL string
	Series    string
	Previous  *Nav
	Next      *Nav
	Downloads *DownloadLinks
}

// Renderer builds views; links are canonicalized with its codec
type Renderer struct {
	codec slug.Codec
}

// New returns a Renderer for the given upstream host codec
func New(codec slug.Codec) Renderer {
	return Renderer{codec: codec}
}

// Cards renders listing tiles. The badge and caption already come normalized
// from the catalog adapters.
func (r Renderer) Cards(summaries []catalog.SeriesSummary) []Card {
	cards := make([]Card, 0, len(summaries))
	for _, s := range summaries {
		id := r.codec.Canonicalize(s.ID)
		cards = append(cards, Card{
			ID:        id,
			Title:     s.Title,
			PosterURL: s.PosterURL,
			Badge:     s.Badge,
			Caption:   s.Caption,
			Link:      r.codec.SeriesLink(id),
		})
	}
	return cards
}

// EpisodeRows renders episode list lines
func (r Renderer) EpisodeRows(refs []episodes.Ref) []EpisodeRow {
	rows := make([]EpisodeRow, 0, len(refs))
	for _, ref := range refs {
		id := r.codec.Canonicalize(ref.ID)
		rows = append(rows, EpisodeRow{
			ID:     id,
			Link:   r.codec.EpisodeLink(id),
			Number: "Episode " + ref.Number,
			Label:  ref.Label,
		})
	}
	return rows
}

// HistoryCards renders ledger entries relative to now
func (r Renderer) HistoryCards(entries []history.Entry, now time.Time) []HistoryCard {
	cards := make([]HistoryCard, 0, len(entries))
	for _, e := range entries {
		episodeID := r.codec.Canonicalize(e.LastEpisodeID)
		cards = append(cards, HistoryCard{
			SeriesID:  e.SeriesID,
			EpisodeID: episodeID,
			Title:     e.SeriesTitle,
			PosterURL: e.SeriesPosterURL,
			Badge:     "Ep " + e.LastEpisodeNumber,
			Caption:   "Continue watching",
			Watched:   humanize.RelTime(e.UpdatedAt(), now, "ago", "from now"),
			Link:      r.codec.EpisodeLink(episodeID),
		})
	}
	return cards
}

// Detail renders a series page. resume is the series' ledger entry, if any.
func (r Renderer) Detail(d *catalog.SeriesDetail, resume *history.Entry) DetailView {
	v := DetailView{
		ID:        r.codec.Canonicalize(d.ID),
		Title:     d.Title,
		PosterURL: d.PosterURL,
		Synopsis:  PlainText(d.Synopsis),
		Episodes:  r.EpisodeRows(d.Episodes),
		Info: []InfoRow{
			{"Japanese", d.JapaneseTitle},
			{"Score", d.Rating},
			{"Producer", d.Producer},
			{"Type", d.Kind},
			{"Status", d.Status},
			{"Episodes", d.EpisodeCount},
			{"Duration", d.Duration},
			{"Released", d.ReleaseDate},
			{"Studio", d.Studio},
			{"Genres", strings.Join(d.Genres, ", ")},
		},
	}

	if resume != nil && resume.LastEpisodeID != "" {
		episodeID := r.codec.Canonicalize(resume.LastEpisodeID)
		v.Resume = &Resume{
			EpisodeID: episodeID,
			Label:     "Continue watching episode " + resume.LastEpisodeNumber,
			Link:      r.codec.EpisodeLink(episodeID),
		}
	}

	return v
}

// Stream renders an episode page
func (r Renderer) Stream(e *catalog.EpisodeDetail) StreamView {
	v := StreamView{
		ID:        r.codec.Canonicalize(e.ID),
		Title:     e.Title,
		StreamURL: e.StreamURL,
		Series:    r.codec.Canonicalize(e.SeriesID),
		Previous:  r.nav(e.PreviousID),
		Next:      r.nav(e.NextID),
	}

	if bucket := pickDownloads(e.Downloads); bucket != nil && len(bucket.Links) > 0 {
		v.Downloads = &DownloadLinks{
			Heading: "Download (" + bucket.Resolution + ")",
			Links:   bucket.Links,
		}
	}

	return v
}

func (r Renderer) nav(id string) *Nav {
	id = r.codec.Canonicalize(id)
	if id == "" {
		return nil
	}
	return &Nav{EpisodeID: id, Link: r.codec.EpisodeLink(id)}
}

// pickDownloads returns the 360p mp4 bucket, else the first mp4 bucket
func pickDownloads(formats []catalog.DownloadFormat) *catalog.DownloadResolution {
	for _, f := range formats {
		if f.Format != "mp4" || len(f.Resolutions) == 0 {
			continue
		}
		for i := range f.Resolutions {
			if strings.Contains(f.Resolutions[i].Resolution, PreferredResolution) {
				return &f.Resolutions[i]
			}
		}
		return &f.Resolutions[0]
	}
	return nil
}
