package http

import (
	"context"
	"net/url"
	"strings"
	"sync"

	scraper "github.com/Mario263/Technical-Web-scraper"
	"github.com/temoto/robotstxt"
)

// DefaultRobotsAgent is the user agent group consulted in robots.txt.
const DefaultRobotsAgent = "*"

// Ensure Robots implements scraper.RobotsPolicy at compile time.
var _ scraper.RobotsPolicy = (*Robots)(nil)

// Robots reads and caches robots.txt per host.
type Robots struct {
	Fetcher scraper.Fetcher
	Agent   string

	mu    sync.Mutex
	hosts map[string]*robotstxt.RobotsData
}

// NewRobots creates a Robots fetching robots.txt through fetcher.
func NewRobots(fetcher scraper.Fetcher) *Robots {
	return &Robots{Fetcher: fetcher, Agent: DefaultRobotsAgent}
}

// Allowed reports whether robots.txt permits fetching rawURL. Hosts whose
// robots.txt cannot be read are allowed.
func (r *Robots) Allowed(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	data := r.data(ctx, u)
	if data == nil {
		return true
	}
	p := u.EscapedPath()
	if p == "" {
		p = "/"
	}
	if u.RawQuery != "" {
		p += "?" + u.RawQuery
	}
	return data.TestAgent(p, r.agent())
}

// Sitemaps returns the Sitemap directives of the host of rawURL.
func (r *Robots) Sitemaps(ctx context.Context, rawURL string) []string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}
	data := r.data(ctx, u)
	if data == nil {
		return nil
	}
	return data.Sitemaps
}

// data returns the parsed robots.txt of u's host, fetching it once.
// A nil result means no usable robots.txt.
func (r *Robots) data(ctx context.Context, u *url.URL) *robotstxt.RobotsData {
	key := strings.ToLower(u.Scheme + "://" + u.Host)

	r.mu.Lock()
	if data, ok := r.hosts[key]; ok {
		r.mu.Unlock()
		return data
	}
	r.mu.Unlock()

	data := r.fetch(ctx, key+"/robots.txt")
	if ctx.Err() != nil {
		return data
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hosts == nil {
		r.hosts = make(map[string]*robotstxt.RobotsData)
	}
	r.hosts[key] = data
	return data
}

func (r *Robots) fetch(ctx context.Context, robotsURL string) *robotstxt.RobotsData {
	res, err := r.Fetcher.Fetch(ctx, robotsURL)
	if err != nil || res.StatusCode == 0 {
		return nil
	}
	data, err := robotstxt.FromStatusAndBytes(res.StatusCode, res.Body)
	if err != nil {
		return nil
	}
	return data
}

func (r *Robots) agent() string {
	if r.Agent == "" {
		return DefaultRobotsAgent
	}
	return r.Agent
}
