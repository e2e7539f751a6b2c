package server

import (
	"bufio"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	proxyCacheControl = "public, max-age=86400, s-maxage=86400, stale-while-revalidate=60"
	// bytes read ahead to sniff a missing content type
	sniffLen = 3072
)

// proxyHandler fetches ?url= with browser headers and streams it back
func (s *Server) proxyHandler(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("url")
	if raw == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "URL is required"})
		return
	}
	// clients sometimes encode the target twice
	if decoded, err := url.PathUnescape(raw); err == nil {
		raw = decoded
	}

	target, err := url.Parse(raw)
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid URL"})
		return
	}

	resp, err := s.fetcher.Stream(r.Context(), target.String(), nil)
	if err != nil {
		s.logger.Error("proxy fetch failed", "url", target.String(), "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
		return
	}
	body := resp.RawBody()
	defer body.Close()

	if status := resp.StatusCode(); status < 200 || status > 299 {
		s.logger.Warn("proxy upstream error", "url", target.String(), "status", status)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, "Failed to fetch image")
		return
	}

	br := bufio.NewReaderSize(body, sniffLen)
	contentType := resp.Header().Get("Content-Type")
	if contentType == "" || strings.HasPrefix(contentType, "application/octet-stream") {
		head, _ := br.Peek(sniffLen)
		contentType = mimetype.Detect(head).String()
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", proxyCacheControl)
	if n := resp.Header().Get("Content-Length"); n != "" {
		w.Header().Set("Content-Length", n)
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, br); err != nil {
		s.logger.Debug("proxy copy interrupted", "url", target.String(), "error", err)
	}
}
