// Package catalog is a read-only client for the upstream anime catalog API.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/justchokingaround/anenyong/internal/catalog/httpclient"
	"github.com/justchokingaround/anenyong/internal/config"
	"github.com/justchokingaround/anenyong/internal/slug"
)

var (
	// ErrEmptySlug is returned before any request is made for an empty identifier
	ErrEmptySlug = errors.New("empty slug")
	// ErrNotFound is returned when the API reports a missing series or episode
	ErrNotFound = errors.New("not found")
)

// Client fetches catalog pages and adapts them to the domain types
type Client struct {
	http    *httpclient.Client
	baseURL string
	codec   slug.Codec
	logger  *slog.Logger
}

// NewClient creates a catalog client from configuration
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "catalog")

	httpCfg := httpclient.DefaultClientConfig()
	httpCfg.Timeout = cfg.API.Timeout
	if cfg.API.UserAgent != "" {
		httpCfg.UserAgent = cfg.API.UserAgent
	}
	httpCfg.Debug = cfg.Advanced.Debug
	httpCfg.Logger = logger

	return &Client{
		http:    httpclient.NewClient(httpCfg),
		baseURL: strings.TrimRight(cfg.API.BaseURL, "/"),
		codec:   slug.New(cfg.Upstream.Host),
		logger:  logger,
	}
}

// Codec returns the slug codec configured for the upstream host
func (c *Client) Codec() slug.Codec {
	return c.codec
}

// Home returns the ongoing and complete listings
func (c *Client) Home(ctx context.Context) (*Home, error) {
	var data homeData
	if err := c.get(ctx, "/home", &data); err != nil {
		return nil, fmt.Errorf("failed to load home: %w", err)
	}
	return &Home{
		Ongoing:  adaptOngoing(c.codec, data.OngoingAnime),
		Complete: adaptComplete(c.codec, data.CompleteAnime),
	}, nil
}

// Search returns series whose title matches query.
// A blank query returns no results without a request.
func (c *Client) Search(ctx context.Context, query string) ([]SeriesSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []SeriesSummary{}, nil
	}

	var data []searchAnime
	if err := c.get(ctx, "/search/"+url.PathEscape(query), &data); err != nil {
		return nil, fmt.Errorf("failed to search %q: %w", query, err)
	}
	return adaptSearch(c.codec, data), nil
}

// Series returns a series page. id may be a slug or a full upstream URL.
func (c *Client) Series(ctx context.Context, id string) (*SeriesDetail, error) {
	id = c.codec.Canonicalize(strings.TrimSpace(id))
	if id == "" {
		return nil, ErrEmptySlug
	}

	var data animeDetail
	if err := c.get(ctx, "/anime/"+url.PathEscape(id), &data); err != nil {
		return nil, fmt.Errorf("failed to load series %s: %w", id, err)
	}
	return adaptSeries(c.codec, id, data), nil
}

// Episode returns an episode page. id may be a slug or a full upstream URL.
func (c *Client) Episode(ctx context.Context, id string) (*EpisodeDetail, error) {
	id = c.codec.Canonicalize(strings.TrimSpace(id))
	if id == "" {
		return nil, ErrEmptySlug
	}

	var data episodeData
	if err := c.get(ctx, "/episode/"+url.PathEscape(id), &data); err != nil {
		return nil, fmt.Errorf("failed to load episode %s: %w", id, err)
	}
	return adaptEpisode(c.codec, id, data), nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	resp, err := c.http.Get(ctx, c.baseURL+path, nil)
	if err != nil {
		if resp != nil && resp.StatusCode() == http.StatusNotFound {
			return fmt.Errorf("%w: %s", ErrNotFound, apiMessage(resp.Body()))
		}
		return err
	}

	env := envelope[json.RawMessage]{}
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	switch strings.ToLower(env.Status) {
	case "error", "fail", "failed":
		return fmt.Errorf("api status %q: %s", env.Status, apiMessage(resp.Body()))
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return ErrNotFound
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode data: %w", err)
	}

	c.logger.Debug("fetched", "path", path, "bytes", len(resp.Body()))
	return nil
}

func apiMessage(body []byte) string {
	var e errorResponse
	if err := json.Unmarshal(body, &e); err != nil {
		return "unexpected response"
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Error != "" {
		return e.Error
	}
	return "unexpected response"
}
