// Package bloom remembers visited listing pages with a Bloom filter.
// A false positive only ends pagination one page early, so a small
// filter is enough for a bounded page budget.
package bloom

import (
	"net/url"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
)

// Default sizing for one source's listing pages.
const (
	DefaultExpectedPages     = 1000
	DefaultFalsePositiveRate = 0.001
)

// Filter tracks page URLs. It is not safe for concurrent use.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected URLs
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// NewPageFilter creates a filter with the default listing page sizing.
func NewPageFilter() *Filter {
	return NewFilter(DefaultExpectedPages, DefaultFalsePositiveRate)
}

// Add records a URL.
func (f *Filter) Add(rawURL string) {
	f.f.AddString(Key(rawURL))
}

// Test returns true if the URL might have been recorded.
func (f *Filter) Test(rawURL string) bool {
	return f.f.TestString(Key(rawURL))
}

// Visit records a URL and reports whether it was new.
func (f *Filter) Visit(rawURL string) bool {
	return !f.f.TestAndAddString(Key(rawURL))
}

// Key normalizes a URL so that equivalent spellings of one page collide:
// the host is lowercased and the fragment and trailing slash dropped.
// The query is kept since it carries the page number.
func Key(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return rawURL
	}
	u.Host = strings.ToLower(u.Host)
	u.Scheme = strings.ToLower(u.Scheme)
	u.Fragment = ""
	u.RawFragment = ""
	if len(u.Path) > 1 {
		u.Path = strings.TrimSuffix(u.Path, "/")
		u.RawPath = ""
	}
	return u.String()
}
