package crawl

import (
	"context"
	"strings"
	"sync"
	"time"

	scraper "github.com/Mario263/Technical-Web-scraper"
	"golang.org/x/time/rate"
)

var _ scraper.DomainLimiter = (*DomainLimiter)(nil)

// DefaultMinDelay is the minimum spacing between requests to one host.
const DefaultMinDelay = 500 * time.Millisecond

// DomainLimiter spaces requests to one host at least a minimum delay
// apart. Every host owns a token bucket with a burst of 1, so different
// hosts proceed concurrently. "www." and letter case are ignored when
// matching hosts.
type DomainLimiter struct {
	limit rate.Limit

	mu    sync.Mutex
	hosts map[string]*rate.Limiter
}

// NewDelayLimiter returns a limiter with the given minimum delay.
// A non-positive delay disables limiting.
func NewDelayLimiter(minDelay time.Duration) *DomainLimiter {
	limit := rate.Inf
	if minDelay > 0 {
		limit = rate.Every(minDelay)
	}
	return &DomainLimiter{limit: limit, hosts: make(map[string]*rate.Limiter)}
}

// Wait blocks until a request to host may start or ctx is done.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	return d.bucket(host).Wait(ctx)
}

func (d *DomainLimiter) bucket(host string) *rate.Limiter {
	key := strings.TrimPrefix(strings.ToLower(host), "www.")

	d.mu.Lock()
	defer d.mu.Unlock()
	b, ok := d.hosts[key]
	if !ok {
		b = rate.NewLimiter(d.limit, 1)
		d.hosts[key] = b
	}
	return b
}
