package gofeed_test

import (
	"context"
	"errors"
	"testing"

	scraper "github.com/Mario263/Technical-Web-scraper"
	scrapergofeed "github.com/Mario263/Technical-Web-scraper/gofeed"
	"github.com/Mario263/Technical-Web-scraper/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rssFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Engineering Notes</title>
    <link>https://example.substack.com</link>
    <item>
      <title>Designing rate limiters</title>
      <link>https://example.substack.com/p/rate-limiters</link>
    </item>
    <item>
      <title>No link here</title>
    </item>
    <item>
      <title>Consistent hashing</title>
      <link>https://example.substack.com/p/consistent-hashing</link>
    </item>
  </channel>
</rss>`

const atomFeed = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Engineering Notes</title>
  <entry>
    <title>Sharding</title>
    <link href="https://example.com/blog/sharding"/>
    <id>urn:1</id>
  </entry>
</feed>`

func serving(body string) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (*scraper.FetchResult, error) {
			return &scraper.FetchResult{URL: url, Status: scraper.FetchOK, StatusCode: 200, Body: []byte(body), Attempts: 1}, nil
		},
	}
}

func TestFeedReader_FeedLinks(t *testing.T) {
	t.Parallel()

	t.Run("returns RSS item links in feed order", func(t *testing.T) {
		t.Parallel()

		reader := scrapergofeed.NewFeedReader(serving(rssFeed))

		links, err := reader.FeedLinks(context.Background(), "https://example.substack.com/feed")

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://example.substack.com/p/rate-limiters",
			"https://example.substack.com/p/consistent-hashing",
		}, links)
	})

	t.Run("reads Atom entries", func(t *testing.T) {
		t.Parallel()

		reader := scrapergofeed.NewFeedReader(serving(atomFeed))

		links, err := reader.FeedLinks(context.Background(), "https://example.com/feed")

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/blog/sharding"}, links)
	})

	t.Run("returns the fetch failure for a missing feed", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*scraper.FetchResult, error) {
				return &scraper.FetchResult{URL: url, Status: scraper.FetchPermanentError, StatusCode: 404, Attempts: 1}, nil
			},
		}
		reader := scrapergofeed.NewFeedReader(fetcher)

		_, err := reader.FeedLinks(context.Background(), "https://example.com/feed")

		assert.Equal(t, scraper.EPERMANENT, scraper.ErrorCode(err))
	})

	t.Run("returns fetcher errors unchanged", func(t *testing.T) {
		t.Parallel()

		want := scraper.Errorf(scraper.EINVALID, "malformed URL")
		fetcher := &mock.Fetcher{
			FetchFn: func(context.Context, string) (*scraper.FetchResult, error) {
				return nil, want
			},
		}
		reader := scrapergofeed.NewFeedReader(fetcher)

		_, err := reader.FeedLinks(context.Background(), "::")

		assert.True(t, errors.Is(err, want))
	})

	t.Run("returns error for a body that is not a feed", func(t *testing.T) {
		t.Parallel()

		reader := scrapergofeed.NewFeedReader(serving("<html><body>not a feed</body></html>"))

		_, err := reader.FeedLinks(context.Background(), "https://example.com/feed")

		assert.Error(t, err)
	})
}
