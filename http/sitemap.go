package http

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	scraper "github.com/Mario263/Technical-Web-scraper"
	"github.com/araddon/dateparse"
	"github.com/beevik/etree"
)

var _ scraper.SitemapService = (*SitemapService)(nil)

// SitemapService discovers URLs from website sitemaps. Sitemaps are
// fetched through the fetch controller so they share its rate limits.
type SitemapService struct {
	fetcher scraper.Fetcher
	robots  *Robots
}

// NewSitemapService creates a new SitemapService. Sitemap directives are
// read from robots; if robots is nil, a private one is created.
func NewSitemapService(fetcher scraper.Fetcher, robots *Robots) *SitemapService {
	if robots == nil {
		robots = NewRobots(fetcher)
	}
	return &SitemapService{fetcher: fetcher, robots: robots}
}

// sitemapEntry is one <url> element.
type sitemapEntry struct {
	loc     string
	lastmod time.Time
}

// DiscoverURLs returns the sitemap URLs under baseURL's path, newest
// <lastmod> first. Entries without a date keep their sitemap order after
// the dated ones. The result is empty, not nil, when nothing is found.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *scraper.URLFilter) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, scraper.Errorf(scraper.EINVALID, "invalid base URL %q: %v", baseURL, err)
	}
	prefix := strings.TrimSuffix(base.Path, "/")

	// Sitemaps live at the root of the host.
	root := (&url.URL{Scheme: base.Scheme, Host: base.Host}).String()
	sitemaps := s.robots.Sitemaps(ctx, root)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(sitemaps) == 0 {
		sitemaps = []string{root + "/sitemap.xml"}
	}

	visited := make(map[string]bool)
	var entries []sitemapEntry
	for _, sm := range sitemaps {
		found, err := s.read(ctx, sm, visited)
		if err != nil {
			return nil, err
		}
		entries = append(entries, found...)
	}

	slices.SortStableFunc(entries, func(a, b sitemapEntry) int {
		return b.lastmod.Compare(a.lastmod)
	})

	urls := []string{}
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if seen[e.loc] || !underPath(e.loc, prefix) || !filter.Match(e.loc) {
			continue
		}
		seen[e.loc] = true
		urls = append(urls, e.loc)
	}
	return urls, nil
}

// underPath reports whether rawURL's path lies under prefix on a segment
// boundary: /guides matches /guides/intro but not /guidesmith.
func underPath(rawURL, prefix string) bool {
	if prefix == "" {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.HasPrefix(u.Path, prefix+"/")
}

// read fetches one sitemap and returns its entries, following indexes.
// A sitemap that cannot be fetched contributes nothing.
func (s *SitemapService) read(ctx context.Context, sitemapURL string, visited map[string]bool) ([]sitemapEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if visited[sitemapURL] {
		return nil, nil
	}
	visited[sitemapURL] = true

	res, err := s.fetcher.Fetch(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		return nil, ctx.Err()
	}

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(bytes.NewReader(res.Body)); err != nil {
		return nil, fmt.Errorf("parsing sitemap XML %s: %w", sitemapURL, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("empty sitemap XML %s", sitemapURL)
	}

	if root.Tag != "sitemapindex" {
		return childLocs(root, "url"), nil
	}
	var entries []sitemapEntry
	for _, loc := range childLocs(root, "sitemap") {
		found, err := s.read(ctx, loc.loc, visited)
		if err != nil {
			return nil, err
		}
		entries = append(entries, found...)
	}
	return entries, nil
}

// childLocs returns the <loc> and <lastmod> of every tag child of root.
func childLocs(root *etree.Element, tag string) []sitemapEntry {
	var entries []sitemapEntry
	for _, el := range root.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		e := sitemapEntry{loc: strings.TrimSpace(loc.Text())}
		if e.loc == "" {
			continue
		}
		if lm := el.SelectElement("lastmod"); lm != nil {
			if t, err := dateparse.ParseAny(strings.TrimSpace(lm.Text())); err == nil {
				e.lastmod = t
			}
		}
		entries = append(entries, e)
	}
	return entries
}
