package server

import (
	"context"
	"encoding/xml"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justchokingaround/anenyong/internal/catalog"
	"github.com/justchokingaround/anenyong/internal/config"
)

type fakeHome struct {
	home *catalog.Home
	err  error
}

func (f fakeHome) Home(context.Context) (*catalog.Home, error) {
	return f.home, f.err
}

func newTestServer(t *testing.T, home HomeSource) http.Handler {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.API.Timeout = 5 * time.Second
	return New(cfg, home, slog.New(slog.NewTextHandler(io.Discard, nil))).Handler()
}

func get(t *testing.T, h http.Handler, host, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Host = host
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// png magic followed by padding
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)

func TestProxy(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/poster.jpg":
			assert.Equal(t, BrowserUserAgent, r.Header.Get("User-Agent"))
			assert.Equal(t, "https://otakudesu.best/", r.Header.Get("Referer"))
			w.Header().Set("Content-Type", "image/jpeg")
			_, _ = w.Write([]byte("jpeg-bytes"))
		case "/untyped":
			// suppress net/http's own sniffing
			w.Header()["Content-Type"] = nil
			_, _ = w.Write(pngBytes)
		default:
			http.NotFound(w, r)
		}
	}))
	defer upstream.Close()

	h := newTestServer(t, fakeHome{})
	proxied := func(path string) string {
		return "/api/proxy?url=" + url.QueryEscape(upstream.URL+path)
	}

	t.Run("streams the body with cache headers", func(t *testing.T) {
		rec := get(t, h, "localhost:8080", proxied("/poster.jpg"))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
		assert.Equal(t, proxyCacheControl, rec.Header().Get("Cache-Control"))
		assert.Equal(t, "jpeg-bytes", rec.Body.String())
	})

	t.Run("accepts a doubly encoded url", func(t *testing.T) {
		target := "/api/proxy?url=" + url.QueryEscape(url.QueryEscape(upstream.URL+"/poster.jpg"))
		rec := get(t, h, "localhost:8080", target)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "jpeg-bytes", rec.Body.String())
	})

	t.Run("sniffs a missing content type", func(t *testing.T) {
		rec := get(t, h, "localhost:8080", proxied("/untyped"))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		assert.Equal(t, pngBytes, rec.Body.Bytes())
	})

	t.Run("passes upstream errors through", func(t *testing.T) {
		rec := get(t, h, "localhost:8080", proxied("/missing"))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Failed to fetch image", rec.Body.String())
	})

	t.Run("missing url", func(t *testing.T) {
		rec := get(t, h, "localhost:8080", "/api/proxy")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"URL is required"}`, rec.Body.String())
	})

	t.Run("rejects non-http schemes", func(t *testing.T) {
		rec := get(t, h, "localhost:8080", "/api/proxy?url="+url.QueryEscape("file:///etc/passwd"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unreachable upstream", func(t *testing.T) {
		closed := httptest.NewServer(http.NotFoundHandler())
		closed.Close()

		rec := get(t, h, "localhost:8080", "/api/proxy?url="+url.QueryEscape(closed.URL+"/x.jpg"))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"Internal Server Error"}`, rec.Body.String())
	})
}

func TestSitemap(t *testing.T) {
	home := &catalog.Home{
		Ongoing: []catalog.SeriesSummary{
			{ID: "https://otakudesu.best/anime/1piece-sub-indo/"},
			{ID: ""},
		},
		Complete: []catalog.SeriesSummary{{ID: "frieren-sub-indo"}},
	}

	t.Run("lists static pages and series", func(t *testing.T) {
		h := newTestServer(t, fakeHome{home: home})
		rec := get(t, h, "anenyong.example", "/api/sitemap")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/xml", rec.Header().Get("Content-Type"))
		assert.Equal(t, sitemapCacheControl, rec.Header().Get("Cache-Control"))

		var set urlSet
		require.NoError(t, xml.Unmarshal(rec.Body.Bytes(), &set))
		assert.Equal(t, sitemapNamespace, set.XMLName.Space)
		assert.Equal(t, []sitemapURL{
			{Loc: "https://anenyong.example/", ChangeFreq: "daily", Priority: "1.0"},
			{Loc: "https://anenyong.example/index.html", ChangeFreq: "daily", Priority: "0.8"},
			{Loc: "https://anenyong.example/anime.html?slug=1piece-sub-indo", ChangeFreq: "daily", Priority: "0.9"},
			{Loc: "https://anenyong.example/anime.html?slug=frieren-sub-indo", ChangeFreq: "weekly", Priority: "0.7"},
		}, set.URLs)
	})

	t.Run("upstream failure", func(t *testing.T) {
		h := newTestServer(t, fakeHome{err: errors.New("api down")})
		rec := get(t, h, "localhost:3000", "/api/sitemap")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "Error generating sitemap")
	})
}

func TestRobots(t *testing.T) {
	h := newTestServer(t, fakeHome{})

	tests := []struct {
		host string
		want string
	}{
		{"localhost:3000", "User-agent: *\nAllow: /\nSitemap: http://localhost:3000/api/sitemap"},
		{"anenyong.example", "User-agent: *\nAllow: /\nSitemap: https://anenyong.example/api/sitemap"},
	}
	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			rec := get(t, h, tt.host, "/api/robots")
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.want, rec.Body.String())
		})
	}
}

func TestHealthz(t *testing.T) {
	rec := get(t, newTestServer(t, fakeHome{}), "localhost", "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.Addr = "127.0.0.1:0"
	srv := New(cfg, fakeHome{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
