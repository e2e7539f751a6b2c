package httpclient

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("fills in defaults", func(t *testing.T) {
		var ua string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ua = r.Header.Get("User-Agent")
		}))
		defer server.Close()

		client := NewClient(ClientConfig{})
		require.NotNil(t, client)
		_, err := client.Get(context.Background(), server.URL, nil)
		require.NoError(t, err)
		assert.Equal(t, "anenyong/1.0", ua)
	})

	t.Run("custom timeout bounds a request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		client := NewClient(ClientConfig{Timeout: 20 * time.Millisecond, UserAgent: "test-agent/1.0"})
		_, err := client.Get(context.Background(), server.URL, nil)
		require.Error(t, err)
	})
}

func TestClient_Get(t *testing.T) {
	t.Run("successful GET request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "GET", r.Method)
			assert.Equal(t, "/test", r.URL.Path)
			assert.Equal(t, "anenyong/1.0", r.Header.Get("User-Agent"))
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status": "ok"}`))
		}))
		defer server.Close()

		client := NewClient(DefaultClientConfig())
		resp, err := client.Get(context.Background(), server.URL+"/test", nil)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode())
		assert.Contains(t, string(resp.Body()), "ok")
	})

	t.Run("default and per-request headers", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "https://otakudesu.best/", r.Header.Get("Referer"))
			assert.Equal(t, "custom-value", r.Header.Get("X-Custom-Header"))
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := NewClient(ClientConfig{Headers: map[string]string{"Referer": "https://otakudesu.best/"}})
		_, err := client.Get(context.Background(), server.URL, map[string]string{"X-Custom-Header": "custom-value"})
		require.NoError(t, err)
	})

	t.Run("handles 404 error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("not found"))
		}))
		defer server.Close()

		client := NewClient(DefaultClientConfig())
		resp, err := client.Get(context.Background(), server.URL, nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode())
	})

	t.Run("handles context cancellation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := NewClient(DefaultClientConfig())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.Get(ctx, server.URL, nil)
		require.Error(t, err)
	})

	t.Run("server errors are not retried", func(t *testing.T) {
		var attempts atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewClient(DefaultClientConfig())
		_, err := client.Get(context.Background(), server.URL, nil)

		require.Error(t, err)
		assert.Equal(t, int32(1), attempts.Load())
	})
}

func TestClient_Stream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("body bytes"))
	}))
	defer server.Close()

	client := NewClient(DefaultClientConfig())
	resp, err := client.Stream(context.Background(), server.URL, nil)
	require.NoError(t, err, "error statuses are not errors for streams")
	defer resp.RawBody().Close()

	assert.Equal(t, http.StatusTeapot, resp.StatusCode())
	assert.Equal(t, "image/png", resp.Header().Get("Content-Type"))

	body, err := io.ReadAll(resp.RawBody())
	require.NoError(t, err)
	assert.Equal(t, "body bytes", string(body))
}

func TestDebugLogging(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":"x"}`))
	}))
	defer server.Close()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	client := NewClient(ClientConfig{Debug: true, Logger: logger})
	_, err := client.Get(context.Background(), server.URL, nil)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "HTTP Request")
	assert.Contains(t, out, "HTTP Response")
	assert.Contains(t, out, `data`)
}
