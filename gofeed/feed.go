// Package gofeed reads article links from RSS and Atom feeds.
package gofeed

import (
	"bytes"
	"context"
	"fmt"

	scraper "github.com/Mario263/Technical-Web-scraper"
	"github.com/mmcdole/gofeed"
)

// Ensure FeedReader implements scraper.FeedReader.
var _ scraper.FeedReader = (*FeedReader)(nil)

// FeedReader implements scraper.FeedReader. Feeds are fetched through
// the shared Fetcher so they count against the per-host delay.
type FeedReader struct {
	Fetcher scraper.Fetcher
}

// NewFeedReader creates a new FeedReader.
func NewFeedReader(fetcher scraper.Fetcher) *FeedReader {
	return &FeedReader{Fetcher: fetcher}
}

// FeedLinks returns the item links of the feed at feedURL in feed order.
// Items without a link are skipped. gofeed detects RSS and Atom.
func (r *FeedReader) FeedLinks(ctx context.Context, feedURL string) ([]string, error) {
	result, err := r.Fetcher.Fetch(ctx, feedURL)
	if err != nil {
		return nil, err
	}
	if !result.OK() {
		return nil, result.Failure()
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(result.Body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", feedURL, err)
	}

	links := make([]string, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.Link != "" {
			links = append(links, item.Link)
			continue
		}
		for _, l := range item.Links {
			if l != "" {
				links = append(links, l)
				break
			}
		}
	}
	return links, nil
}
