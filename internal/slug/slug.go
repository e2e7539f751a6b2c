// Package slug normalizes series and episode identifiers.
//
// The catalog API returns bare slugs ("one-piece") in some responses and full
// upstream URLs ("https://otakudesu.best/anime/one-piece/") in others, including
// cross references such as the next episode. Anything that builds a link must
// canonicalize exactly once.
package slug

import (
	"net/url"
	"strings"
)

// DefaultHost is the upstream site whose URLs show up in slug fields
const DefaultHost = "otakudesu.best"

const (
	seriesPath  = "/anime/"
	episodePath = "/episode/"
)

// Codec canonicalizes slugs for one upstream host
type Codec struct {
	Host string
}

// New returns a Codec for host, falling back to DefaultHost
func New(host string) Codec {
	host = strings.TrimSuffix(strings.TrimSpace(host), "/")
	if host == "" {
		host = DefaultHost
	}
	return Codec{Host: host}
}

var defaultCodec = New(DefaultHost)

// Canonicalize uses the default upstream host
func Canonicalize(raw string) string {
	return defaultCodec.Canonicalize(raw)
}

// Canonicalize returns the bare slug for raw. Full series or episode URLs are
// reduced to the path segment after the marker; anything else is returned unchanged.
func (c Codec) Canonicalize(raw string) string {
	if raw == "" {
		return ""
	}
	for _, marker := range []string{c.Host + seriesPath, c.Host + episodePath} {
		if _, rest, ok := strings.Cut(raw, marker); ok {
			segment, _, _ := strings.Cut(rest, "/")
			return segment
		}
	}
	return raw
}

// IsURL reports whether raw still carries an upstream series or episode URL
func (c Codec) IsURL(raw string) bool {
	return strings.Contains(raw, c.Host+seriesPath) || strings.Contains(raw, c.Host+episodePath)
}

// SeriesLink returns the local route of a series detail page, or "" for an empty slug
func (c Codec) SeriesLink(raw string) string {
	return link("anime.html", c.Canonicalize(raw))
}

// EpisodeLink returns the local route of an episode stream page, or "" for an empty slug
func (c Codec) EpisodeLink(raw string) string {
	return link("stream.html", c.Canonicalize(raw))
}

func link(page, s string) string {
	if s == "" {
		return ""
	}
	return page + "?" + url.Values{"slug": {s}}.Encode()
}
