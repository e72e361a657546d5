// Package fs provides file-based storage for scrape results.
package fs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	scraper "github.com/Mario263/Technical-Web-scraper"
)

// OutputStore writes the {team_id, items} envelope to a JSON file.
// Writes go to a temporary file that replaces the target on success,
// so readers never observe a partial file.
type OutputStore struct {
	path string
}

// NewOutputStore creates a new OutputStore writing to path.
func NewOutputStore(path string) *OutputStore {
	return &OutputStore{path: path}
}

// Path returns the target file path.
func (s *OutputStore) Path() string {
	return s.path
}

func (s *OutputStore) tempPath() string {
	return s.path + ".tmp"
}

// Write validates every record and writes out atomically.
func (s *OutputStore) Write(out *scraper.Output) error {
	if out.TeamID == "" {
		return scraper.Errorf(scraper.EINVALID, "team id required")
	}
	for i := range out.Items {
		if err := out.Items[i].Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}

	// Encode an empty list rather than null.
	if out.Items == nil {
		out = &scraper.Output{TeamID: out.TeamID, Items: []scraper.Record{}}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(s.tempPath(), data, 0644); err != nil {
		s.abort()
		return err
	}
	if err := os.Rename(s.tempPath(), s.path); err != nil {
		s.abort()
		return err
	}
	return nil
}

func (s *OutputStore) abort() {
	_ = os.Remove(s.tempPath())
}

// ReadOutput reads an envelope written by OutputStore.
func ReadOutput(path string) (*scraper.Output, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, scraper.Errorf(scraper.ENOTFOUND, "output file %s not found", path)
	} else if err != nil {
		return nil, err
	}

	var out scraper.Output
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, scraper.Errorf(scraper.EINVALID, "%s: malformed output: %v", path, err)
	}
	return &out, nil
}
