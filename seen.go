package scraper

import "context"

// SeenStore persists content fingerprints across runs.
// The run-scoped seen-set consults it and writes through to it.
type SeenStore interface {
	// Lookup returns the source URL first registered for the hash.
	Lookup(ctx context.Context, hash string) (sourceURL string, ok bool, err error)

	// Remember records the hash unless it is already present.
	Remember(ctx context.Context, hash, sourceURL string) error
}
