package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	scraper "github.com/Mario263/Technical-Web-scraper"
	"github.com/Mario263/Technical-Web-scraper/mock"
	scraperslog "github.com/Mario263/Technical-Web-scraper/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingSitemapService(t *testing.T) {
	t.Parallel()

	t.Run("logs the number of supplemented URLs", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		filter := scraper.NewPathFilter("/guides/")
		var got *scraper.URLFilter
		svc := scraperslog.NewLoggingSitemapService(&mock.SitemapService{
			DiscoverURLsFn: func(_ context.Context, _ string, f *scraper.URLFilter) ([]string, error) {
				got = f
				return []string{"https://learn.example.com/guides/sharding", "https://learn.example.com/guides/replication"}, nil
			},
		}, slog.New(slog.NewTextHandler(&buf, nil)))

		urls, err := svc.DiscoverURLs(context.Background(), "https://learn.example.com/guides", filter)

		require.NoError(t, err)
		assert.Len(t, urls, 2)
		assert.Same(t, filter, got)
		out := buf.String()
		assert.Contains(t, out, "level=INFO")
		assert.Contains(t, out, `msg="sitemap supplement"`)
		assert.Contains(t, out, "base=https://learn.example.com/guides")
		assert.Contains(t, out, "filtered=true")
		assert.Contains(t, out, "urls=2")
	})

	t.Run("warns when discovery fails", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		svc := scraperslog.NewLoggingSitemapService(&mock.SitemapService{
			DiscoverURLsFn: func(context.Context, string, *scraper.URLFilter) ([]string, error) {
				return nil, errors.New("parsing sitemap XML: unexpected EOF")
			},
		}, slog.New(slog.NewTextHandler(&buf, nil)))

		_, err := svc.DiscoverURLs(context.Background(), "https://blog.example.com", nil)

		require.Error(t, err)
		out := buf.String()
		assert.Contains(t, out, "level=WARN")
		assert.Contains(t, out, "filtered=false")
		assert.Contains(t, out, "urls=0")
		assert.Contains(t, out, `error="parsing sitemap XML: unexpected EOF"`)
	})
}
