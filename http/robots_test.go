package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/Mario263/Technical-Web-scraper/crawl"
	scraperhttp "github.com/Mario263/Technical-Web-scraper/http"
	"github.com/stretchr/testify/assert"
)

// newFetcher returns a single-attempt fetch controller without rate limits.
func newFetcher() *crawl.Controller {
	return &crawl.Controller{Transport: scraperhttp.NewTransport(), MaxAttempts: 1}
}

func TestRobots_Allowed(t *testing.T) {
	t.Parallel()

	t.Run("honours disallow rules", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/robots.txt": "User-agent: *\nDisallow: /private/\n",
		})
		defer srv.Close()

		robots := scraperhttp.NewRobots(newFetcher())

		assert.False(t, robots.Allowed(context.Background(), srv.URL+"/private/notes"))
		assert.True(t, robots.Allowed(context.Background(), srv.URL+"/blog/post"))
	})

	t.Run("allows everything without robots.txt", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{})
		defer srv.Close()

		robots := scraperhttp.NewRobots(newFetcher())

		assert.True(t, robots.Allowed(context.Background(), srv.URL+"/private/notes"))
	})

	t.Run("fetches robots.txt once per host", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/robots.txt" {
				hits.Add(1)
				_, _ = w.Write([]byte("User-agent: *\nDisallow: /admin\n"))
				return
			}
			http.NotFound(w, r)
		}))
		defer srv.Close()

		robots := scraperhttp.NewRobots(newFetcher())
		robots.Allowed(context.Background(), srv.URL+"/a")
		robots.Allowed(context.Background(), srv.URL+"/b")

		assert.Equal(t, int32(1), hits.Load())
	})

	t.Run("lists sitemap directives", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/robots.txt": "User-agent: *\nSitemap: {{BASE}}/sitemap-guides.xml\n",
		})
		defer srv.Close()

		robots := scraperhttp.NewRobots(newFetcher())

		assert.Equal(t, []string{srv.URL + "/sitemap-guides.xml"}, robots.Sitemaps(context.Background(), srv.URL))
	})
}
