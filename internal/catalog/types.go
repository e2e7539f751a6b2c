package catalog

import "github.com/justchokingaround/anenyong/internal/episodes"

// Section says which listing a summary came from
type Section string

const (
	SectionOngoing  Section = "ongoing"
	SectionComplete Section = "complete"
	SectionSearch   Section = "search"
)

// SeriesSummary is the one card shape every listing is adapted to
type SeriesSummary struct {
	ID        string // canonical slug
	Title     string
	PosterURL string
	Badge     string // current episode, "N Eps" or status
	Caption   string // release day or rating
	Section   Section
}

// Home is the landing page listing
type Home struct {
	Ongoing  []SeriesSummary
	Complete []SeriesSummary
}

// SeriesDetail is a series page including its episode list
type SeriesDetail struct {
	ID            string
	Title         string
	JapaneseTitle string
	PosterURL     string
	Synopsis      string
	Rating        string
	Producer      string
	Kind          string
	Status        string
	EpisodeCount  string
	Duration      string
	ReleaseDate   string
	Studio        string
	Genres        []string
	Episodes      []episodes.Ref
}

// EpisodeDetail is an episode page
type EpisodeDetail struct {
	ID        string
	Title     string
	StreamURL string
	SeriesID  string
	// PreviousID and NextID are canonical slugs, empty when there is no such episode
	PreviousID string
	NextID     string
	Downloads  []DownloadFormat
}

// DownloadFormat groups download mirrors of one container format
type DownloadFormat struct {
	Format      string
	Resolutions []DownloadResolution
}

// DownloadResolution lists mirrors of one resolution
type DownloadResolution struct {
	Resolution string
	Links      []DownloadLink
}

// DownloadLink is one mirror
type DownloadLink struct {
	Provider string
	URL      string
}
