package slog

import (
	"context"
	"log/slog"
	"time"

	scraper "github.com/Mario263/Technical-Web-scraper"
)

var _ scraper.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService logs sitemap supplements. Failures are logged at
// warn level since the discoverer carries on without them.
type LoggingSitemapService struct {
	next   scraper.SitemapService
	logger *slog.Logger
}

func NewLoggingSitemapService(next scraper.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *scraper.URLFilter) (urls []string, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"base", baseURL,
			"filtered", filter != nil,
			"urls", len(urls),
			"duration", time.Since(begin),
		}
		if err != nil {
			s.logger.Warn("sitemap supplement failed", append(attrs, "error", err)...)
			return
		}
		s.logger.Info("sitemap supplement", attrs...)
	}(time.Now())
	return s.next.DiscoverURLs(ctx, baseURL, filter)
}
