package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	scraper "github.com/Mario263/Technical-Web-scraper"
)

// Compile-time interface verification.
var _ scraper.SeenStore = (*SeenStore)(nil)

// SeenStore implements scraper.SeenStore using SQLite.
type SeenStore struct {
	db *DB
}

// NewSeenStore creates a new SeenStore.
func NewSeenStore(db *DB) *SeenStore {
	return &SeenStore{db: db}
}

// Lookup returns the source URL first registered for hash.
func (s *SeenStore) Lookup(ctx context.Context, hash string) (string, bool, error) {
	var sourceURL string
	err := s.db.QueryRowContext(ctx, `
		SELECT source_url FROM seen_content WHERE hash = ?
	`, hash).Scan(&sourceURL)

	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return sourceURL, true, nil
}

// Remember records hash unless it is already present. The first source
// URL is kept.
func (s *SeenStore) Remember(ctx context.Context, hash, sourceURL string) error {
	if hash == "" {
		return scraper.Errorf(scraper.EINVALID, "content hash required")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO seen_content (hash, source_url, first_seen)
		VALUES (?, ?, ?)
	`, hash, sourceURL, formatTime(time.Now()))
	return err
}
