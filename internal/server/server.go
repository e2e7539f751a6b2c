// Package server hosts the companion HTTP endpoints: the poster image proxy,
// the sitemap and robots.txt.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/justchokingaround/anenyong/internal/catalog"
	"github.com/justchokingaround/anenyong/internal/catalog/httpclient"
	"github.com/justchokingaround/anenyong/internal/config"
	"github.com/justchokingaround/anenyong/internal/slug"
)

// BrowserUserAgent is sent by the proxy; the image host rejects unknown agents
const BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// HomeSource provides the listings the sitemap is built from
type HomeSource interface {
	Home(ctx context.Context) (*catalog.Home, error)
}

// Server serves the companion endpoints
type Server struct {
	cfg     config.ServerConfig
	home    HomeSource
	fetcher *httpclient.Client
	codec   slug.Codec
	logger  *slog.Logger
}

// New creates a server. home is usually a *catalog.Client.
func New(cfg *config.Config, home HomeSource, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "server")

	fetchCfg := httpclient.DefaultClientConfig()
	fetchCfg.Timeout = cfg.API.Timeout
	fetchCfg.UserAgent = BrowserUserAgent
	fetchCfg.Headers = map[string]string{
		"Accept": "image/avif,image/webp,image/*,*/*;q=0.8",
	}
	if cfg.Upstream.Referer != "" {
		fetchCfg.Headers["Referer"] = cfg.Upstream.Referer
	}
	fetchCfg.Debug = cfg.Advanced.Debug
	fetchCfg.Logger = logger

	return &Server{
		cfg:     cfg.Server,
		home:    home,
		fetcher: httpclient.NewClient(fetchCfg),
		codec:   slug.New(cfg.Upstream.Host),
		logger:  logger,
	}
}

// Handler returns the router with every endpoint mounted
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", healthzHandler)

	r.Get("/api/proxy", s.proxyHandler)
	r.Get("/api/sitemap", s.sitemapHandler)
	r.Get("/api/robots", robotsHandler)
	r.Get("/robots.txt", robotsHandler)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server started", "addr", s.cfg.Addr)
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("listen and serve: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		s.logger.Info("server stopped")
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}

func healthzHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode JSON response", "error", err)
	}
}
