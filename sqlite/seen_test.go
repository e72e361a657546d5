package sqlite_test

import (
	"context"
	"testing"

	scraper "github.com/Mario263/Technical-Web-scraper"
	"github.com/Mario263/Technical-Web-scraper/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeenStore(t *testing.T) {
	t.Parallel()

	t.Run("reports unknown hashes as unseen", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewSeenStore(setupTestDB(t))

		_, ok, err := store.Lookup(context.Background(), "abc")

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("remembers the first source URL", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewSeenStore(setupTestDB(t))
		ctx := context.Background()

		require.NoError(t, store.Remember(ctx, "abc", "https://example.com/blog/first"))
		require.NoError(t, store.Remember(ctx, "abc", "https://example.com/blog/second"))

		sourceURL, ok, err := store.Lookup(ctx, "abc")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "https://example.com/blog/first", sourceURL)
	})

	t.Run("persists across store instances", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()
		require.NoError(t, sqlite.NewSeenStore(db).Remember(ctx, "abc", "https://example.com/blog/first"))

		_, ok, err := sqlite.NewSeenStore(db).Lookup(ctx, "abc")

		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("rejects an empty hash", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewSeenStore(setupTestDB(t))

		err := store.Remember(context.Background(), "", "https://example.com/blog/first")

		assert.Equal(t, scraper.EINVALID, scraper.ErrorCode(err))
	})
}
