//go:build integration

package redis_test

import (
	"context"
	"os"
	"testing"

	scraperredis "github.com/Mario263/Technical-Web-scraper/redis"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeenStore_Integration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis not reachable at %s: %v", addr, err)
	}

	store := scraperredis.NewSeenStore(client)
	store.Prefix = "test:" + uuid.NewString() + ":"
	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, store.Prefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
	})

	t.Run("reports unknown hashes as unseen", func(t *testing.T) {
		_, ok, err := store.Lookup(ctx, "missing")

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("first writer wins", func(t *testing.T) {
		require.NoError(t, store.Remember(ctx, "abc", "https://example.com/blog/first"))
		require.NoError(t, store.Remember(ctx, "abc", "https://example.com/blog/second"))

		sourceURL, ok, err := store.Lookup(ctx, "abc")

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "https://example.com/blog/first", sourceURL)
	})
}
