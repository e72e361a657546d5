package slog

import (
	"context"
	"log/slog"
	"time"

	scraper "github.com/Mario263/Technical-Web-scraper"
)

// Ensure LoggingSeenStore implements scraper.SeenStore.
var _ scraper.SeenStore = (*LoggingSeenStore)(nil)

// LoggingSeenStore wraps a SeenStore with debug logging.
type LoggingSeenStore struct {
	next   scraper.SeenStore
	logger *slog.Logger
}

// NewLoggingSeenStore creates a new LoggingSeenStore.
func NewLoggingSeenStore(next scraper.SeenStore, logger *slog.Logger) *LoggingSeenStore {
	return &LoggingSeenStore{next: next, logger: logger}
}

// Lookup delegates to the wrapped store and logs hits and failures.
func (s *LoggingSeenStore) Lookup(ctx context.Context, hash string) (sourceURL string, ok bool, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("seen lookup",
			"hash", hash,
			"hit", ok,
			"first_url", sourceURL,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Lookup(ctx, hash)
}

// Remember delegates to the wrapped store and logs the operation.
func (s *LoggingSeenStore) Remember(ctx context.Context, hash, sourceURL string) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("seen remember",
			"hash", hash,
			"url", sourceURL,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Remember(ctx, hash, sourceURL)
}
