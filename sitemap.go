package scraper

import (
	"context"
	"regexp"
	"slices"
)

// SitemapService discovers URLs from website sitemaps. Guide collections
// and learning hubs list many pages there that no listing page links to.
type SitemapService interface {
	// DiscoverURLs returns the sitemap URLs under baseURL's path.
	// Sitemaps come from robots.txt directives, else /sitemap.xml, and
	// indexes are resolved recursively. A nil filter keeps every URL.
	DiscoverURLs(ctx context.Context, baseURL string, filter *URLFilter) ([]string, error)
}

// URLFilter narrows a URL list. A URL passes when it matches at least one
// Include pattern (or Include is empty) and no Exclude pattern.
type URLFilter struct {
	Include []*regexp.Regexp
	Exclude []*regexp.Regexp
}

// NewPathFilter returns a filter including URLs that contain any of the
// path fragments, compared case-insensitively. No fragments means no
// filter.
func NewPathFilter(fragments ...string) *URLFilter {
	if len(fragments) == 0 {
		return nil
	}
	f := &URLFilter{Include: make([]*regexp.Regexp, 0, len(fragments))}
	for _, frag := range fragments {
		f.Include = append(f.Include, regexp.MustCompile(`(?i)`+regexp.QuoteMeta(frag)))
	}
	return f
}

// Match reports whether url passes the filter. A nil filter passes all.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}
	matches := func(re *regexp.Regexp) bool { return re.MatchString(url) }
	if len(f.Include) > 0 && !slices.ContainsFunc(f.Include, matches) {
		return false
	}
	return !slices.ContainsFunc(f.Exclude, matches)
}
