package slog

import (
	"log/slog"
	"time"

	scraper "github.com/Mario263/Technical-Web-scraper"
)

// Ensure LoggingClassifier implements scraper.SiteClassifier.
var _ scraper.SiteClassifier = (*LoggingClassifier)(nil)

// LoggingClassifier wraps a SiteClassifier with logging of each decision.
type LoggingClassifier struct {
	next   scraper.SiteClassifier
	logger *slog.Logger
}

// NewLoggingClassifier creates a new LoggingClassifier.
func NewLoggingClassifier(next scraper.SiteClassifier, logger *slog.Logger) *LoggingClassifier {
	return &LoggingClassifier{next: next, logger: logger}
}

// Classify delegates to the wrapped classifier and logs the site type.
func (c *LoggingClassifier) Classify(url string, page []byte) (st scraper.SiteType) {
	defer func(begin time.Time) {
		c.logger.Info("site classification",
			"url", url,
			"site_type", string(st),
			"sampled", len(page) > 0,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return c.next.Classify(url, page)
}
