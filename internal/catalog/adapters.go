package catalog

import (
	"sort"

	"github.com/justchokingaround/anenyong/internal/episodes"
	"github.com/justchokingaround/anenyong/internal/slug"
)

// Each listing endpoint has its own adapter to SeriesSummary, so the renderer
// only ever sees one shape.

func adaptOngoing(codec slug.Codec, in []ongoingAnime) []SeriesSummary {
	out := make([]SeriesSummary, 0, len(in))
	for _, a := range in {
		out = append(out, SeriesSummary{
			ID:        codec.Canonicalize(firstNonEmpty(a.Slug, a.OtakudesuURL)),
			Title:     a.Title,
			PosterURL: a.Poster,
			Badge:     a.CurrentEpisode,
			Caption:   a.ReleaseDay,
			Section:   SectionOngoing,
		})
	}
	return out
}

func adaptComplete(codec slug.Codec, in []completeAnime) []SeriesSummary {
	out := make([]SeriesSummary, 0, len(in))
	for _, a := range in {
		badge := ""
		if a.EpisodeCount != "" {
			badge = string(a.EpisodeCount) + " Eps"
		}
		out = append(out, SeriesSummary{
			ID:        codec.Canonicalize(firstNonEmpty(a.Slug, a.OtakudesuURL)),
			Title:     a.Title,
			PosterURL: a.Poster,
			Badge:     badge,
			Caption:   string(a.Rating),
			Section:   SectionComplete,
		})
	}
	return out
}

func adaptSearch(codec slug.Codec, in []searchAnime) []SeriesSummary {
	out := make([]SeriesSummary, 0, len(in))
	for _, a := range in {
		out = append(out, SeriesSummary{
			ID:        codec.Canonicalize(firstNonEmpty(a.Slug, a.OtakudesuURL)),
			Title:     a.Title,
			PosterURL: a.Poster,
			Badge:     a.Status,
			Caption:   string(a.Rating),
			Section:   SectionSearch,
		})
	}
	return out
}

func adaptSeries(codec slug.Codec, id string, in animeDetail) *SeriesDetail {
	genres := make([]string, 0, len(in.Genres))
	for _, g := range in.Genres {
		genres = append(genres, g.Name)
	}

	refs := make([]episodes.Ref, 0, len(in.EpisodeLists))
	for _, e := range in.EpisodeLists {
		refs = append(refs, episodes.Ref{
			ID:     firstNonEmpty(e.Slug, e.OtakudesuURL),
			Number: string(e.EpisodeNumber),
			Label:  e.Episode,
		})
	}

	return &SeriesDetail{
		ID:            codec.Canonicalize(firstNonEmpty(id, in.Slug)),
		Title:         in.Title,
		JapaneseTitle: in.JapaneseTitle,
		PosterURL:     in.Poster,
		Synopsis:      in.Synopsis,
		Rating:        string(in.Rating),
		Producer:      in.Produser,
		Kind:          in.Type,
		Status:        in.Status,
		EpisodeCount:  string(in.EpisodeCount),
		Duration:      in.Duration,
		ReleaseDate:   in.ReleaseDate,
		Studio:        in.Studio,
		Genres:        genres,
		Episodes:      refs,
	}
}

func adaptEpisode(codec slug.Codec, id string, in episodeData) *EpisodeDetail {
	out := &EpisodeDetail{
		ID:        codec.Canonicalize(id),
		Title:     in.Episode,
		StreamURL: in.StreamURL,
	}
	if in.Anime != nil {
		out.SeriesID = codec.Canonicalize(firstNonEmpty(in.Anime.Slug, in.Anime.OtakudesuURL))
	}
	if in.HasPreviousEpisode && in.PreviousEpisode != nil {
		out.PreviousID = codec.Canonicalize(firstNonEmpty(in.PreviousEpisode.Slug, in.PreviousEpisode.OtakudesuURL))
	}
	if in.HasNextEpisode && in.NextEpisode != nil {
		out.NextID = codec.Canonicalize(firstNonEmpty(in.NextEpisode.Slug, in.NextEpisode.OtakudesuURL))
	}

	formats := make([]string, 0, len(in.DownloadURLs))
	for format := range in.DownloadURLs {
		formats = append(formats, format)
	}
	sort.Strings(formats)

	for _, format := range formats {
		df := DownloadFormat{Format: format}
		for _, bucket := range in.DownloadURLs[format] {
			res := DownloadResolution{Resolution: bucket.Resolution}
			for _, l := range bucket.URLs {
				res.Links = append(res.Links, DownloadLink{Provider: l.Provider, URL: l.URL})
			}
			df.Resolutions = append(df.Resolutions, res)
		}
		out.Downloads = append(out.Downloads, df)
	}

	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
