// Package redis provides a Redis-backed store for content fingerprints,
// for deployments where several scraper processes share one seen-set.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	scraper "github.com/Mario263/Technical-Web-scraper"
	"github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces fingerprint keys.
const DefaultPrefix = "seen:"

// Ensure SeenStore implements scraper.SeenStore.
var _ scraper.SeenStore = (*SeenStore)(nil)

// SeenStore implements scraper.SeenStore using Redis string keys.
// Each fingerprint maps to the source URL that first produced it.
type SeenStore struct {
	client *redis.Client

	// Prefix is prepended to every key.
	Prefix string

	// TTL expires fingerprints. Zero keeps them forever.
	TTL time.Duration
}

// NewSeenStore creates a new SeenStore.
func NewSeenStore(client *redis.Client) *SeenStore {
	return &SeenStore{client: client, Prefix: DefaultPrefix}
}

func (s *SeenStore) key(hash string) string {
	return s.Prefix + hash
}

// Lookup returns the source URL first registered for the hash.
func (s *SeenStore) Lookup(ctx context.Context, hash string) (string, bool, error) {
	val, err := s.client.Get(ctx, s.key(hash)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", hash, err)
	}
	return val, true, nil
}

// Remember records the hash unless it is already present.
// SET NX keeps the first writer across processes.
func (s *SeenStore) Remember(ctx context.Context, hash, sourceURL string) error {
	if hash == "" {
		return scraper.Errorf(scraper.EINVALID, "content hash required")
	}
	err := s.client.SetArgs(ctx, s.key(hash), sourceURL, redis.SetArgs{
		Mode: "NX",
		TTL:  s.TTL,
	}).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("set %s: %w", hash, err)
	}
	return nil
}
