package catalog

import (
	"bytes"
	"encoding/json"
)

// envelope wraps every API response
type envelope[T any] struct {
	Status string `json:"status"`
	Data   T      `json:"data"`
}

// text decodes JSON strings and numbers alike; the API is not consistent about
// episode numbers and counts
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*t = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*t = text(n.String())
	return nil
}

type homeData struct {
	OngoingAnime  []ongoingAnime  `json:"ongoing_anime"`
	CompleteAnime []completeAnime `json:"complete_anime"`
}

type ongoingAnime struct {
	Title             string `json:"title"`
	Slug              string `json:"slug"`
	Poster            string `json:"poster"`
	CurrentEpisode    string `json:"current_episode"`
	ReleaseDay        string `json:"release_day"`
	NewestReleaseDate string `json:"newest_release_date"`
	OtakudesuURL      string `json:"otakudesu_url"`
}

type completeAnime struct {
	Title           string `json:"title"`
	Slug            string `json:"slug"`
	Poster          string `json:"poster"`
	EpisodeCount    text   `json:"episode_count"`
	Rating          text   `json:"rating"`
	LastReleaseDate string `json:"last_release_date"`
	OtakudesuURL    string `json:"otakudesu_url"`
}

type searchAnime struct {
	Title        string  `json:"title"`
	Slug         string  `json:"slug"`
	Poster       string  `json:"poster"`
	Status       string  `json:"status"`
	Rating       text    `json:"rating"`
	Genres       []genre `json:"genres"`
	OtakudesuURL string  `json:"otakudesu_url"`
}

type genre struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type animeDetail struct {
	Title         string         `json:"title"`
	Slug          string         `json:"slug"`
	JapaneseTitle string         `json:"japanese_title"`
	Poster        string         `json:"poster"`
	Rating        text           `json:"rating"`
	Produser      string         `json:"produser"`
	Type          string         `json:"type"`
	Status        string         `json:"status"`
	EpisodeCount  text           `json:"episode_count"`
	Duration      string         `json:"duration"`
	ReleaseDate   string         `json:"release_date"`
	Studio        string         `json:"studio"`
	Genres        []genre        `json:"genres"`
	Synopsis      string         `json:"synopsis"`
	EpisodeLists  []episodeEntry `json:"episode_lists"`
}

type episodeEntry struct {
	Episode       string `json:"episode"`
	Slug          string `json:"slug"`
	EpisodeNumber text   `json:"episode_number"`
	OtakudesuURL  string `json:"otakudesu_url"`
}

type episodeLink struct {
	Slug         string `json:"slug"`
	OtakudesuURL string `json:"otakudesu_url"`
}

type episodeData struct {
	Episode            string       `json:"episode"`
	StreamURL          string       `json:"stream_url"`
	HasPreviousEpisode bool         `json:"has_previous_episode"`
	PreviousEpisode    *episodeLink `json:"previous_episode"`
	HasNextEpisode     bool         `json:"has_next_episode"`
	NextEpisode        *episodeLink `json:"next_episode"`
	Anime              *episodeLink `json:"anime"`

	// keyed by container format: mp4, mkv
	DownloadURLs map[string][]downloadBucket `json:"download_urls"`
}

type downloadBucket struct {
	Resolution string         `json:"resolution"`
	URLs       []downloadLink `json:"urls"`
}

type downloadLink struct {
	Provider string `json:"provider"`
	URL      string `json:"url"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error"`
}
