package slog

import (
	"log/slog"
	"time"

	scraper "github.com/Mario263/Technical-Web-scraper"
)

// Ensure LoggingExtractor implements scraper.ContentExtractor.
var _ scraper.ContentExtractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps a ContentExtractor with debug logging.
type LoggingExtractor struct {
	next   scraper.ContentExtractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next scraper.ContentExtractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs which strategy won.
func (e *LoggingExtractor) Extract(page *scraper.Page) (rec *scraper.CandidateRecord, err error) {
	defer func(begin time.Time) {
		var strategy string
		var length int
		if rec != nil {
			strategy = rec.DetectedType
			length = rec.RawTextLength
		}
		e.logger.Debug("content extraction",
			"url", page.URL,
			"site_type", string(page.SiteType),
			"strategy", strategy,
			"text_length", length,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(page)
}
