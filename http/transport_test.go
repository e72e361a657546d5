package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	scraper "github.com/Mario263/Technical-Web-scraper"
	scraperhttp "github.com/Mario263/Technical-Web-scraper/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransport_Get(t *testing.T) {
	t.Parallel()

	t.Run("returns HTML body from server", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html><body>Hello World</body></html>"))
		}))
		defer server.Close()

		resp, err := scraperhttp.NewTransport().Get(context.Background(), server.URL)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "text/html", resp.Header.Get("Content-Type"))
		assert.Equal(t, "<html><body>Hello World</body></html>", string(resp.Body))
	})

	t.Run("returns non-200 responses without error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("404 Not Found"))
		}))
		defer server.Close()

		resp, err := scraperhttp.NewTransport().Get(context.Background(), server.URL)

		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "404 Not Found", string(resp.Body))
	})

	t.Run("sends browser headers and rotates user agents", func(t *testing.T) {
		t.Parallel()

		var (
			mu     sync.Mutex
			agents []string
			accept string
		)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			defer mu.Unlock()
			agents = append(agents, r.UserAgent())
			accept = r.Header.Get("Accept")
		}))
		defer server.Close()

		tr := scraperhttp.NewTransport(scraperhttp.WithUserAgents("agent-a", "agent-b"))
		for range 3 {
			_, err := tr.Get(context.Background(), server.URL)
			require.NoError(t, err)
		}

		assert.Equal(t, []string{"agent-a", "agent-b", "agent-a"}, agents)
		assert.Contains(t, accept, "text/html")
	})

	t.Run("rejects bodies over the size limit", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("x", 20)))
		}))
		defer server.Close()

		_, err := scraperhttp.NewTransport(scraperhttp.WithMaxBodySize(10)).Get(context.Background(), server.URL)

		assert.Equal(t, scraper.EPERMANENT, scraper.ErrorCode(err))
	})

	t.Run("accepts a body exactly at the size limit", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("x", 10)))
		}))
		defer server.Close()

		resp, err := scraperhttp.NewTransport(scraperhttp.WithMaxBodySize(10)).Get(context.Background(), server.URL)

		require.NoError(t, err)
		assert.Len(t, resp.Body, 10)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("response"))
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := scraperhttp.NewTransport().Get(ctx, server.URL)

		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("returns error for non-existent host", func(t *testing.T) {
		t.Parallel()

		_, err := scraperhttp.NewTransport().Get(context.Background(), "http://non-existent-host.invalid/page")

		require.Error(t, err)
	})
}
