package server

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"

	"github.com/justchokingaround/anenyong/internal/catalog"
)

const (
	sitemapNamespace    = "http://www.sitemaps.org/schemas/sitemap/0.9"
	sitemapCacheControl = "public, s-maxage=3600, stale-while-revalidate=600"
)

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// buildSitemap lists the static pages and every series on the home listings
func (s *Server) buildSitemap(baseURL string, home *catalog.Home) urlSet {
	set := urlSet{
		Xmlns: sitemapNamespace,
		URLs: []sitemapURL{
			{Loc: baseURL + "/", ChangeFreq: "daily", Priority: "1.0"},
			{Loc: baseURL + "/index.html", ChangeFreq: "daily", Priority: "0.8"},
		},
	}

	add := func(list []catalog.SeriesSummary, freq, priority string) {
		for _, series := range list {
			link := s.codec.SeriesLink(series.ID)
			if link == "" {
				continue
			}
			set.URLs = append(set.URLs, sitemapURL{
				Loc:        baseURL + "/" + link,
				ChangeFreq: freq,
				Priority:   priority,
			})
		}
	}
	add(home.Ongoing, "daily", "0.9")
	add(home.Complete, "weekly", "0.7")

	return set
}

func (s *Server) sitemapHandler(w http.ResponseWriter, r *http.Request) {
	home, err := s.home.Home(r.Context())
	if err != nil {
		s.logger.Error("sitemap failed", "error", err)
		http.Error(w, "Error generating sitemap", http.StatusInternalServerError)
		return
	}

	out, err := xml.MarshalIndent(s.buildSitemap(baseURL(r), home), "", "    ")
	if err != nil {
		s.logger.Error("sitemap encode failed", "error", err)
		http.Error(w, "Error generating sitemap", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml")
	w.Header().Set("Cache-Control", sitemapCacheControl)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(xml.Header))
	_, _ = w.Write(out)
}

func robotsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = fmt.Fprintf(w, "User-agent: *\nAllow: /\nSitemap: %s/api/sitemap", baseURL(r))
}

// baseURL is the public origin of the request: plain http on localhost, https elsewhere
func baseURL(r *http.Request) string {
	scheme := "https"
	if strings.Contains(r.Host, "localhost") {
		scheme = "http"
	}
	return scheme + "://" + r.Host
}
