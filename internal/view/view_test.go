package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justchokingaround/anenyong/internal/catalog"
	"github.com/justchokingaround/anenyong/internal/episodes"
	"github.com/justchokingaround/anenyong/internal/history"
	"github.com/justchokingaround/anenyong/internal/slug"
)

var renderer = New(slug.New(slug.DefaultHost))

func TestCards(t *testing.T) {
	cards := renderer.Cards([]catalog.SeriesSummary{
		{ID: "https://otakudesu.best/anime/frieren-sub-indo/", Title: "Frieren", Badge: "28 Eps", Caption: "9.1"},
		{ID: "", Title: "Broken"},
	})

	require.Len(t, cards, 2)
	assert.Equal(t, "frieren-sub-indo", cards[0].ID)
	assert.Equal(t, "anime.html?slug=frieren-sub-indo", cards[0].Link)
	assert.Equal(t, "28 Eps", cards[0].Badge)
	assert.Equal(t, "9.1", cards[0].Caption)
	// an empty slug renders without a link
	assert.Empty(t, cards[1].Link)
}

func TestEpisodeRows(t *testing.T) {
	rows := renderer.EpisodeRows([]episodes.Ref{
		{ID: "https://otakudesu.best/episode/fr-ep-2/", Number: "2", Label: "Frieren Episode 2"},
		{ID: "fr-ep-1", Number: "1", Label: "Frieren Episode 1"},
	})

	require.Len(t, rows, 2)
	assert.Equal(t, EpisodeRow{
		ID:     "fr-ep-2",
		Link:   "stream.html?slug=fr-ep-2",
		Number: "Episode 2",
		Label:  "Frieren Episode 2",
	}, rows[0])
	assert.Equal(t, "stream.html?slug=fr-ep-1", rows[1].Link)
}

func TestHistoryCards(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	entries := []history.Entry{{
		SeriesID:          "frieren-sub-indo",
		SeriesTitle:       "Frieren",
		LastEpisodeID:     "fr-ep-5",
		LastEpisodeNumber: "5",
		UpdatedAtMillis:   now.Add(-3 * time.Hour).UnixMilli(),
	}}

	cards := renderer.HistoryCards(entries, now)
	require.Len(t, cards, 1)
	assert.Equal(t, "Ep 5", cards[0].Badge)
	assert.Equal(t, "Continue watching", cards[0].Caption)
	assert.Equal(t, "3 hours ago", cards[0].Watched)
	assert.Equal(t, "stream.html?slug=fr-ep-5", cards[0].Link)
}

func TestDetail(t *testing.T) {
	d := &catalog.SeriesDetail{
		ID:       "frieren-sub-indo",
		Title:    "Frieren",
		Rating:   "9.1",
		Genres:   []string{"Adventure", "Fantasy"},
		Synopsis: "<p>An elf <b>mage</b>.</p><p>Second paragraph.</p>",
		Episodes: []episodes.Ref{{ID: "fr-ep-1", Number: "1"}},
	}

	t.Run("without history", func(t *testing.T) {
		v := renderer.Detail(d, nil)
		assert.Nil(t, v.Resume)
		assert.Equal(t, "An elf mage.\nSecond paragraph.", v.Synopsis)
		assert.Contains(t, v.Info, InfoRow{"Score", "9.1"})
		assert.Contains(t, v.Info, InfoRow{"Genres", "Adventure, Fantasy"})
		require.Len(t, v.Episodes, 1)
	})

	t.Run("with history", func(t *testing.T) {
		entry := &history.Entry{SeriesID: "frieren-sub-indo", LastEpisodeID: "fr-ep-7", LastEpisodeNumber: "7"}
		v := renderer.Detail(d, entry)
		require.NotNil(t, v.Resume)
		assert.Equal(t, "Continue watching episode 7", v.Resume.Label)
		assert.Equal(t, "stream.html?slug=fr-ep-7", v.Resume.Link)
	})
}

func TestStream(t *testing.T) {
	links := func(url string) []catalog.DownloadLink {
		return []catalog.DownloadLink{{Provider: "Pdrain", URL: url}}
	}

	t.Run("prefers 360p", func(t *testing.T) {
		v := renderer.Stream(&catalog.EpisodeDetail{
			ID:         "fr-ep-2",
			PreviousID: "https://otakudesu.best/episode/fr-ep-1/",
			Downloads: []catalog.DownloadFormat{
				{Format: "mkv", Resolutions: []catalog.DownloadResolution{{Resolution: "360p", Links: links("mkv")}}},
				{Format: "mp4", Resolutions: []catalog.DownloadResolution{
					{Resolution: "480p", Links: links("480")},
					{Resolution: "360p", Links: links("360")},
				}},
			},
		})

		require.NotNil(t, v.Previous)
		assert.Equal(t, "stream.html?slug=fr-ep-1", v.Previous.Link)
		assert.Nil(t, v.Next)
		require.NotNil(t, v.Downloads)
		assert.Equal(t, "Download (360p)", v.Downloads.Heading)
		assert.Equal(t, "360", v.Downloads.Links[0].URL)
	})

	t.Run("falls back to the first bucket", func(t *testing.T) {
		v := renderer.Stream(&catalog.EpisodeDetail{
			Downloads: []catalog.DownloadFormat{
				{Format: "mp4", Resolutions: []catalog.DownloadResolution{
					{Resolution: "480p", Links: links("480")},
					{Resolution: "720p", Links: links("720")},
				}},
			},
		})
		require.NotNil(t, v.Downloads)
		assert.Equal(t, "480", v.Downloads.Links[0].URL)
	})

	t.Run("no mp4 means no downloads", func(t *testing.T) {
		v := renderer.Stream(&catalog.EpisodeDetail{})
		assert.Nil(t, v.Downloads)
	})
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "  just   text ", "just text"},
		{"line breaks", "one<br>two<br/>three", "one\ntwo\nthree"},
		{"entities", "Tom &amp; Jerry", "Tom & Jerry"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainText(tt.in))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "Sousou ...", Truncate("Sousou no Frieren", 10))
	// wide characters take two cells each
	assert.Equal(t, "葬送...", Truncate("葬送のフリーレン", 8))
	assert.Equal(t, "..", Truncate("abcdef", 2))
}

func TestTruncateToLines(t *testing.T) {
	text := "one two three four five six"
	assert.Equal(t, "one two\nthree...", TruncateToLines(text, 2, 9))
	assert.Equal(t, "one two three four five six", TruncateToLines(text, 1, 40))
}
