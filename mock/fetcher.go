package mock

import (
	"context"

	scraper "github.com/Mario263/Technical-Web-scraper"
)

var (
	_ scraper.Fetcher       = (*Fetcher)(nil)
	_ scraper.Transport     = (*Transport)(nil)
	_ scraper.DomainLimiter = (*DomainLimiter)(nil)
)

// Fetcher is a mock implementation of scraper.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*scraper.FetchResult, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*scraper.FetchResult, error) {
	return f.FetchFn(ctx, url)
}

// Transport is a mock implementation of scraper.Transport.
type Transport struct {
	GetFn func(ctx context.Context, url string) (*scraper.Response, error)
}

func (t *Transport) Get(ctx context.Context, url string) (*scraper.Response, error) {
	return t.GetFn(ctx, url)
}

// DomainLimiter is a mock implementation of scraper.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
