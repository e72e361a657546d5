package mock

import (
	"context"
	"sync"
	"time"

	scraper "github.com/Mario263/Technical-Web-scraper"
)

var (
	_ scraper.SeenStore = (*SeenStore)(nil)
	_ scraper.Metrics   = (*Metrics)(nil)
)

// SeenStore is a mock implementation of scraper.SeenStore.
type SeenStore struct {
	LookupFn   func(ctx context.Context, hash string) (string, bool, error)
	RememberFn func(ctx context.Context, hash, sourceURL string) error
}

func (s *SeenStore) Lookup(ctx context.Context, hash string) (string, bool, error) {
	return s.LookupFn(ctx, hash)
}

func (s *SeenStore) Remember(ctx context.Context, hash, sourceURL string) error {
	return s.RememberFn(ctx, hash, sourceURL)
}

// Metrics records observations in memory. It is safe for concurrent use.
type Metrics struct {
	mu       sync.Mutex
	Fetches  []scraper.FetchStatus
	Outcomes map[scraper.Outcome]int
}

func (m *Metrics) ObserveFetch(_ string, status scraper.FetchStatus, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Fetches = append(m.Fetches, status)
}

func (m *Metrics) ObserveOutcome(_ string, outcome scraper.Outcome) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Outcomes == nil {
		m.Outcomes = make(map[scraper.Outcome]int)
	}
	m.Outcomes[outcome]++
}

// Outcome returns how many times outcome was observed.
func (m *Metrics) Outcome(outcome scraper.Outcome) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Outcomes[outcome]
}
