package slug

import (
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"bare slug", "one-piece", "one-piece"},
		{"series url with trailing slash", "https://otakudesu.best/anime/one-piece/", "one-piece"},
		{"series url without trailing slash", "https://otakudesu.best/anime/one-piece", "one-piece"},
		{"episode url", "https://otakudesu.best/episode/opm-episode-12-sub-indo/", "opm-episode-12-sub-indo"},
		{"scheme-less url", "otakudesu.best/anime/sakamoto-days/", "sakamoto-days"},
		{"nested path keeps first segment", "https://otakudesu.best/anime/one-piece/extra/", "one-piece"},
		{"marker only", "https://otakudesu.best/anime/", ""},
		{"other host untouched", "https://example.com/anime/one-piece/", "https://example.com/anime/one-piece/"},
		{"slash in bare slug untouched", "one-piece/", "one-piece/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Canonicalize(tt.input))
		})
	}
}

func TestCanonicalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"one-piece",
		"https://otakudesu.best/anime/one-piece/",
		"https://otakudesu.best/episode/x-episode-1/",
		"https://otakudesu.best/anime/otakudesu.best/episode/",
		"otakudesu.best/anime/otakudesu.best/anime/a/",
	}
	for _, in := range inputs {
		once := Canonicalize(in)
		assert.Equal(t, once, Canonicalize(once), "input %q", in)
	}

	property := func(s string) bool {
		once := Canonicalize(s)
		return Canonicalize(once) == once
	}
	assert.NoError(t, quick.Check(property, nil))

	prefixed := func(s string) bool {
		raw := "https://otakudesu.best/anime/" + s
		once := Canonicalize(raw)
		return Canonicalize(once) == once
	}
	assert.NoError(t, quick.Check(prefixed, nil))
}

func TestCodecHost(t *testing.T) {
	c := New("mirror.example/")
	assert.Equal(t, "mirror.example", c.Host)
	assert.Equal(t, "naruto", c.Canonicalize("https://mirror.example/anime/naruto/"))
	assert.Equal(t, "https://otakudesu.best/anime/naruto/", c.Canonicalize("https://otakudesu.best/anime/naruto/"))

	assert.Equal(t, DefaultHost, New("").Host)
	assert.Equal(t, DefaultHost, New("  ").Host)
}

func TestIsURL(t *testing.T) {
	c := New("")
	assert.True(t, c.IsURL("https://otakudesu.best/anime/one-piece/"))
	assert.True(t, c.IsURL("https://otakudesu.best/episode/one-piece-1/"))
	assert.False(t, c.IsURL("one-piece"))
}

func TestLinks(t *testing.T) {
	c := New("")

	assert.Equal(t, "anime.html?slug=one-piece", c.SeriesLink("https://otakudesu.best/anime/one-piece/"))
	assert.Equal(t, "anime.html?slug=one-piece", c.SeriesLink("one-piece"))
	assert.Equal(t, "stream.html?slug=op-episode-1", c.EpisodeLink("https://otakudesu.best/episode/op-episode-1/"))

	t.Run("empty slug produces no link", func(t *testing.T) {
		assert.Empty(t, c.SeriesLink(""))
		assert.Empty(t, c.EpisodeLink(""))
		assert.Empty(t, c.SeriesLink("https://otakudesu.best/anime/"))
	})
}
