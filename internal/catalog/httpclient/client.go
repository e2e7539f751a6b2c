// Package httpclient wraps resty with the timeouts, headers and debug logging
// shared by the catalog client and the image proxy.
package httpclient

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client wraps resty.Client with timeout handling and optional request logging
type Client struct {
	resty  *resty.Client
	logger *slog.Logger
}

// ClientConfig holds configuration for the HTTP client
type ClientConfig struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
	Debug     bool
	Logger    *slog.Logger
}

// DefaultClientConfig returns defaults for the catalog client. Requests are never retried.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:   30 * time.Second,
		UserAgent: "anenyong/1.0",
	}
}

// NewClient creates a new HTTP client with the given configuration
func NewClient(config ClientConfig) *Client {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = "anenyong/1.0"
	}

	restyClient := resty.New().
		SetTimeout(config.Timeout).
		SetHeader("User-Agent", config.UserAgent).
		SetHeader("Accept", "application/json, text/html, */*").
		SetHeader("Accept-Language", "id-ID,id;q=0.9,en-US;q=0.8,en;q=0.7")
	if len(config.Headers) > 0 {
		restyClient.SetHeaders(config.Headers)
	}

	client := &Client{
		resty:  restyClient,
		logger: config.Logger,
	}

	if config.Debug && config.Logger != nil {
		restyClient.OnBeforeRequest(func(c *resty.Client, r *resty.Request) error {
			client.logRequest(r)
			return nil
		})
		restyClient.OnAfterResponse(func(c *resty.Client, r *resty.Response) error {
			client.logResponse(r)
			return nil
		})
	}

	return client
}

// Get performs a GET request and buffers the body.
// A status of 400 or above is returned together with an error.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (*resty.Response, error) {
	req := c.resty.R().SetContext(ctx).SetHeaders(headers)

	resp, err := req.Get(url)
	if err != nil {
		return nil, fmt.Errorf("GET request failed for %s: %w", url, err)
	}

	if resp.StatusCode() >= 400 {
		return resp, fmt.Errorf("HTTP error %d for %s", resp.StatusCode(), url)
	}

	return resp, nil
}

// Stream performs a GET request without reading the body. The caller must close
// resp.RawBody(). Unlike Get, error statuses are not turned into errors.
func (c *Client) Stream(ctx context.Context, url string, headers map[string]string) (*resty.Response, error) {
	resp, err := c.resty.R().
		SetContext(ctx).
		SetHeaders(headers).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("GET request failed for %s: %w", url, err)
	}
	return resp, nil
}

func (c *Client) logRequest(r *resty.Request) {
	c.logger.Debug("HTTP Request",
		"method", r.Method,
		"url", r.URL,
		"headers", r.Header,
	)
}

func (c *Client) logResponse(r *resty.Response) {
	c.logger.Debug("HTTP Response",
		"status", r.StatusCode(),
		"url", r.Request.URL,
		"time", r.Time(),
	)

	// empty for streamed responses, their body is left to the caller
	bodyStr := r.String()
	if len(bodyStr) > 1000 {
		bodyStr = bodyStr[:1000] + "... (truncated)"
	}
	c.logger.Debug("Response Body", "body", bodyStr)
}
