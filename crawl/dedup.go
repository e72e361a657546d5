package crawl

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	scraper "github.com/Mario263/Technical-Web-scraper"
	"github.com/cespare/xxhash/v2"
)

// linkTarget matches the (target) part of a markdown link or image.
var linkTarget = regexp.MustCompile(`(\])\([^)]*\)`)

// Fingerprint returns the content hash of a body: xxhash64 over the
// lowercased text with link targets dropped and whitespace runs collapsed
// to single spaces. Mirrors whose links resolve to their own host hash
// alike.
func Fingerprint(body string) string {
	body = linkTarget.ReplaceAllString(body, "$1")
	normalized := strings.Join(strings.Fields(strings.ToLower(body)), " ")
	return fmt.Sprintf("%x", xxhash.Sum64String(normalized))
}

// SeenSet maps content hashes to the source URL that first produced them.
// It is scoped to one run and safe for concurrent use. When Store is set,
// lookups consult it and new hashes are written through to it.
type SeenSet struct {
	Store scraper.SeenStore

	mu   sync.Mutex
	seen map[string]string
}

// NewSeenSet returns an empty set backed by the optional store.
func NewSeenSet(store scraper.SeenStore) *SeenSet {
	return &SeenSet{Store: store, seen: make(map[string]string)}
}

// Contains reports whether hash was already seen in this run or, when a
// store is configured, in an earlier one.
func (s *SeenSet) Contains(ctx context.Context, hash string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contains(ctx, hash)
}

// Add records hash for sourceURL. An existing entry is kept.
func (s *SeenSet) Add(ctx context.Context, hash, sourceURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(ctx, hash, sourceURL)
}

// Claim atomically checks and records hash. It returns true when the hash
// was already present. Store failures are returned alongside a false
// result so that the caller keeps the record.
func (s *SeenSet) Claim(ctx context.Context, hash, sourceURL string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dup, lookupErr := s.contains(ctx, hash)
	if dup {
		return true, nil
	}
	if err := s.add(ctx, hash, sourceURL); err != nil {
		return false, err
	}
	return false, lookupErr
}

// Owner returns the source URL that first registered hash in this run.
func (s *SeenSet) Owner(hash string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.seen[hash]
	return u, ok
}

// Len returns the number of hashes seen in this run.
func (s *SeenSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}

func (s *SeenSet) contains(ctx context.Context, hash string) (bool, error) {
	if s.seen == nil {
		s.seen = make(map[string]string)
	}
	if _, ok := s.seen[hash]; ok {
		return true, nil
	}
	if s.Store == nil {
		return false, nil
	}
	sourceURL, ok, err := s.Store.Lookup(ctx, hash)
	if err != nil {
		return false, fmt.Errorf("seen store lookup: %w", err)
	}
	if ok {
		s.seen[hash] = sourceURL
	}
	return ok, nil
}

func (s *SeenSet) add(ctx context.Context, hash, sourceURL string) error {
	if s.seen == nil {
		s.seen = make(map[string]string)
	}
	if _, ok := s.seen[hash]; ok {
		return nil
	}
	s.seen[hash] = sourceURL
	if s.Store == nil {
		return nil
	}
	if err := s.Store.Remember(ctx, hash, sourceURL); err != nil {
		return fmt.Errorf("seen store remember: %w", err)
	}
	return nil
}

// Deduplicator answers duplicate questions for scored records against a
// seen-set owned by the orchestrator.
type Deduplicator struct {
	Seen *SeenSet
}

// NewDeduplicator returns a Deduplicator over seen.
func NewDeduplicator(seen *SeenSet) *Deduplicator {
	return &Deduplicator{Seen: seen}
}

// IsDuplicate reports whether the record's content was already registered.
func (d *Deduplicator) IsDuplicate(ctx context.Context, rec *scraper.ScoredRecord) (bool, error) {
	return d.Seen.Contains(ctx, hashOf(rec))
}

// Register records the record's content. Registering twice is a no-op.
func (d *Deduplicator) Register(ctx context.Context, rec *scraper.ScoredRecord) error {
	return d.Seen.Add(ctx, hashOf(rec), rec.SourceURL)
}

// Claim registers the record and reports whether it was a duplicate.
// The first record to claim a hash wins.
func (d *Deduplicator) Claim(ctx context.Context, rec *scraper.ScoredRecord) (bool, error) {
	return d.Seen.Claim(ctx, hashOf(rec), rec.SourceURL)
}

// hashOf fills in the record's content hash when it is missing.
func hashOf(rec *scraper.ScoredRecord) string {
	if rec.ContentHash == "" {
		rec.ContentHash = Fingerprint(rec.Body)
	}
	return rec.ContentHash
}
