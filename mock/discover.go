package mock

import (
	"context"
	"iter"

	scraper "github.com/Mario263/Technical-Web-scraper"
)

var (
	_ scraper.LinkDiscoverer = (*LinkDiscoverer)(nil)
	_ scraper.FeedReader     = (*FeedReader)(nil)
	_ scraper.RobotsPolicy   = (*RobotsPolicy)(nil)
)

// LinkDiscoverer is a mock implementation of scraper.LinkDiscoverer.
type LinkDiscoverer struct {
	DiscoverFn func(ctx context.Context, listing *scraper.Listing, pageBudget int) iter.Seq2[string, error]
}

func (d *LinkDiscoverer) Discover(ctx context.Context, listing *scraper.Listing, pageBudget int) iter.Seq2[string, error] {
	return d.DiscoverFn(ctx, listing, pageBudget)
}

// Links returns a sequence yielding urls in order.
func Links(urls ...string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, u := range urls {
			if !yield(u, nil) {
				return
			}
		}
	}
}

// FeedReader is a mock implementation of scraper.FeedReader.
type FeedReader struct {
	FeedLinksFn func(ctx context.Context, feedURL string) ([]string, error)
}

func (r *FeedReader) FeedLinks(ctx context.Context, feedURL string) ([]string, error) {
	return r.FeedLinksFn(ctx, feedURL)
}

// RobotsPolicy is a mock implementation of scraper.RobotsPolicy.
type RobotsPolicy struct {
	AllowedFn func(ctx context.Context, url string) bool
}

func (p *RobotsPolicy) Allowed(ctx context.Context, url string) bool {
	return p.AllowedFn(ctx, url)
}
