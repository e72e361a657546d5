package scraper

import (
	"context"
	"iter"
)

// Listing is a classified source whose base page has been fetched.
type Listing struct {
	Source   *Source
	SiteType SiteType
	Page     *FetchResult
}

// LinkDiscoverer enumerates candidate content URLs from a listing.
type LinkDiscoverer interface {
	// Discover yields absolute candidate URLs in page traversal order.
	// The sequence is lazy and visits at most pageBudget listing pages.
	// It is not restartable; a new call starts discovery over.
	Discover(ctx context.Context, listing *Listing, pageBudget int) iter.Seq2[string, error]
}

// FeedReader lists item links from an RSS or Atom feed.
type FeedReader interface {
	FeedLinks(ctx context.Context, feedURL string) ([]string, error)
}

// RobotsPolicy reports whether robots.txt allows fetching a URL.
type RobotsPolicy interface {
	Allowed(ctx context.Context, url string) bool
}
