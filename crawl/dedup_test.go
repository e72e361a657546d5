package crawl_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	scraper "github.com/Mario263/Technical-Web-scraper"
	"github.com/Mario263/Technical-Web-scraper/crawl"
	"github.com/Mario263/Technical-Web-scraper/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scored(url, body string) *scraper.ScoredRecord {
	return &scraper.ScoredRecord{
		CandidateRecord: scraper.CandidateRecord{SourceURL: url, Body: body},
	}
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	t.Run("returns consistent hash for same content", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, crawl.Fingerprint("test content"), crawl.Fingerprint("test content"))
	})

	t.Run("ignores case and whitespace differences", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, crawl.Fingerprint("Hello   World\n\nAgain"), crawl.Fingerprint("hello world again"))
	})

	t.Run("ignores link targets", func(t *testing.T) {
		t.Parallel()
		a := "Read [the follow-up](https://example.com/blog/next) and ![ring](https://example.com/ring.png)."
		b := "Read [the follow-up](https://mirror.example.org/blog/next) and ![ring](https://mirror.example.org/ring.png)."
		assert.Equal(t, crawl.Fingerprint(a), crawl.Fingerprint(b))
	})

	t.Run("keeps link labels", func(t *testing.T) {
		t.Parallel()
		assert.NotEqual(t, crawl.Fingerprint("[one](https://a.example/)"), crawl.Fingerprint("[two](https://a.example/)"))
	})

	t.Run("returns different hashes for different content", func(t *testing.T) {
		t.Parallel()
		assert.NotEqual(t, crawl.Fingerprint("content a"), crawl.Fingerprint("content b"))
	})

	t.Run("returns hex string", func(t *testing.T) {
		t.Parallel()
		assert.Regexp(t, `^[0-9a-f]+$`, crawl.Fingerprint("test"))
	})
}

func TestDeduplicator(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("first registration wins", func(t *testing.T) {
		t.Parallel()

		seen := crawl.NewSeenSet(nil)
		d := crawl.NewDeduplicator(seen)

		dup, err := d.Claim(ctx, scored("https://a.example/1", "same body"))
		require.NoError(t, err)
		assert.False(t, dup)

		dup, err = d.Claim(ctx, scored("https://a.example/2", "Same   BODY"))
		require.NoError(t, err)
		assert.True(t, dup)

		owner, ok := seen.Owner(crawl.Fingerprint("same body"))
		require.True(t, ok)
		assert.Equal(t, "https://a.example/1", owner)
	})

	t.Run("register then is duplicate is idempotent", func(t *testing.T) {
		t.Parallel()

		d := crawl.NewDeduplicator(crawl.NewSeenSet(nil))
		rec := scored("https://a.example/1", "body")

		dup, err := d.IsDuplicate(ctx, rec)
		require.NoError(t, err)
		assert.False(t, dup)

		require.NoError(t, d.Register(ctx, rec))
		require.NoError(t, d.Register(ctx, rec))

		for range 3 {
			dup, err = d.IsDuplicate(ctx, rec)
			require.NoError(t, err)
			assert.True(t, dup)
		}
		assert.Equal(t, 1, d.Seen.Len())
	})

	t.Run("fills in a missing content hash", func(t *testing.T) {
		t.Parallel()

		d := crawl.NewDeduplicator(crawl.NewSeenSet(nil))
		rec := scored("https://a.example/1", "body")

		_, err := d.Claim(ctx, rec)

		require.NoError(t, err)
		assert.Equal(t, crawl.Fingerprint("body"), rec.ContentHash)
	})

	t.Run("claims are serialized across goroutines", func(t *testing.T) {
		t.Parallel()

		d := crawl.NewDeduplicator(crawl.NewSeenSet(nil))

		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			wins int
		)
		for i := range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				dup, err := d.Claim(ctx, scored(fmt.Sprintf("https://a.example/%d", i), "shared body"))
				if err == nil && !dup {
					mu.Lock()
					wins++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, wins)
	})

	t.Run("reports hashes known to the store as duplicates", func(t *testing.T) {
		t.Parallel()

		store := &mock.SeenStore{
			LookupFn: func(_ context.Context, hash string) (string, bool, error) {
				return "https://earlier.example/post", hash == crawl.Fingerprint("old body"), nil
			},
			RememberFn: func(_ context.Context, _, _ string) error { return nil },
		}
		d := crawl.NewDeduplicator(crawl.NewSeenSet(store))

		dup, err := d.Claim(ctx, scored("https://a.example/1", "old body"))
		require.NoError(t, err)
		assert.True(t, dup)

		dup, err = d.Claim(ctx, scored("https://a.example/2", "new body"))
		require.NoError(t, err)
		assert.False(t, dup)
	})

	t.Run("writes new hashes through to the store", func(t *testing.T) {
		t.Parallel()

		remembered := map[string]string{}
		store := &mock.SeenStore{
			LookupFn: func(_ context.Context, _ string) (string, bool, error) { return "", false, nil },
			RememberFn: func(_ context.Context, hash, sourceURL string) error {
				remembered[hash] = sourceURL
				return nil
			},
		}
		d := crawl.NewDeduplicator(crawl.NewSeenSet(store))

		_, err := d.Claim(ctx, scored("https://a.example/1", "body"))

		require.NoError(t, err)
		assert.Equal(t, map[string]string{crawl.Fingerprint("body"): "https://a.example/1"}, remembered)
	})

	t.Run("keeps the record when the store fails", func(t *testing.T) {
		t.Parallel()

		store := &mock.SeenStore{
			LookupFn:   func(_ context.Context, _ string) (string, bool, error) { return "", false, errors.New("store down") },
			RememberFn: func(_ context.Context, _, _ string) error { return errors.New("store down") },
		}
		d := crawl.NewDeduplicator(crawl.NewSeenSet(store))

		dup, err := d.Claim(ctx, scored("https://a.example/1", "body"))
		require.Error(t, err)
		assert.False(t, dup)

		dup, _ = d.Claim(ctx, scored("https://a.example/2", "body"))
		assert.True(t, dup, "run-local set still deduplicates")
	})
}
