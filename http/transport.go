// Package http provides the HTTP transport, sitemap discovery and
// robots.txt policy used by the fetch controller and link discovery.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	scraper "github.com/Mario263/Technical-Web-scraper"
)

// DefaultMaxBodySize caps the bytes read from one response.
const DefaultMaxBodySize = 10 << 20

// DefaultUserAgents are rotated across requests.
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
}

// defaultHeaders are sent with every request.
var defaultHeaders = map[string]string{
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.9",
	"Cache-Control":             "no-cache",
	"Upgrade-Insecure-Requests": "1",
}

// Ensure Transport implements scraper.Transport at compile time.
var _ scraper.Transport = (*Transport)(nil)

// Transport performs single GET requests with browser-like headers.
// It does not retry; the fetch controller owns retries and timeouts.
type Transport struct {
	client      *http.Client
	userAgents  []string
	maxBodySize int64
	next        atomic.Uint64
}

// Option configures a Transport.
type Option func(*Transport)

// WithClient sets the HTTP client. Defaults to a client without a timeout,
// since each attempt carries its own deadline.
func WithClient(c *http.Client) Option {
	return func(t *Transport) {
		t.client = c
	}
}

// WithUserAgents replaces the rotated User-Agent list.
func WithUserAgents(agents ...string) Option {
	return func(t *Transport) {
		t.userAgents = agents
	}
}

// WithMaxBodySize sets the response size limit.
// Defaults to DefaultMaxBodySize (10 MiB) if not specified.
func WithMaxBodySize(n int64) Option {
	return func(t *Transport) {
		t.maxBodySize = n
	}
}

// NewTransport creates a new Transport.
func NewTransport(opts ...Option) *Transport {
	t := &Transport{
		userAgents:  DefaultUserAgents,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.client == nil {
		t.client = &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		}
	}
	return t
}

// Get issues one GET request. Non-2xx responses are returned, not treated
// as errors. A body over the size limit fails with EPERMANENT.
func (t *Transport) Get(ctx context.Context, url string) (*scraper.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, scraper.Errorf(scraper.EINVALID, "creating request for %s: %v", url, err)
	}
	for k, v := range defaultHeaders {
		req.Header.Set(k, v)
	}
	if ua := t.userAgent(); ua != "" {
		req.Header.Set("User-Agent", ua)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, t.maxBodySize+1))
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("reading body of %s: %w", url, err)
	}
	if int64(len(body)) > t.maxBodySize {
		return nil, scraper.Errorf(scraper.EPERMANENT, "%s: response larger than %d bytes", url, t.maxBodySize)
	}

	return &scraper.Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

func (t *Transport) userAgent() string {
	if len(t.userAgents) == 0 {
		return ""
	}
	i := t.next.Add(1) - 1
	return t.userAgents[i%uint64(len(t.userAgents))]
}
