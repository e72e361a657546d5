package goquery

import (
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"

	scraper "github.com/Mario263/Technical-Web-scraper"
	"github.com/PuerkitoBio/goquery"
)

// excludedSegments are path segments of pages that are never articles.
var excludedSegments = map[string]bool{
	"login": true, "signin": true, "register": true, "signup": true,
	"subscribe": true, "privacy": true, "terms": true, "contact": true,
	"about": true, "author": true, "authors": true, "tag": true, "tags": true,
	"category": true, "categories": true, "search": true, "feed": true,
	"rss": true, "sitemap": true, "comments": true, "edit": true,
	"page": true,
}

// excludedExtensions are file types that are never articles.
var excludedExtensions = map[string]bool{
	".pdf": true, ".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".svg": true, ".webp": true, ".css": true, ".js": true, ".xml": true,
	".zip": true, ".mp3": true, ".mp4": true,
}

var yearSegment = regexp.MustCompile(`/\d{4}/`)

// ExtractLinks returns candidate article URLs from a listing page in
// document order. pageURL resolves relative links; base is the source's
// listing URL, which bounds the host and is itself never returned.
func ExtractLinks(doc *goquery.Document, pageURL, base *url.URL, st scraper.SiteType, set scraper.SelectorSet) []string {
	selectors := set.Links
	if len(selectors) == 0 {
		selectors = []string{"a[href]"}
	}

	seen := make(map[string]bool)
	var links []string
	for _, selector := range selectors {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			href, exists := sel.Attr("href")
			if !exists || href == "" || isNonHTTPLink(href) {
				return
			}
			resolved := resolveURL(pageURL, href)
			if resolved == "" || seen[resolved] {
				return
			}
			if !AcceptLink(base, resolved, st, set.LinkPatterns) {
				return
			}
			seen[resolved] = true
			links = append(links, resolved)
		})
	}
	return links
}

// AcceptLink reports whether link is a same-host article candidate for a
// listing at base: not the listing itself, not an excluded page, and
// matching one of the path patterns.
func AcceptLink(base *url.URL, link string, st scraper.SiteType, patterns []string) bool {
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	if !strings.EqualFold(u.Host, base.Host) {
		return false
	}
	if samePage(u, base) || isExcluded(u.Path) {
		return false
	}
	return matchesPatterns(u.Path, st, patterns)
}

func matchesPatterns(p string, st scraper.SiteType, patterns []string) bool {
	lower := strings.ToLower(p)
	for _, pattern := range patterns {
		pattern = strings.ToLower(pattern)
		// A pattern names a path prefix; the page must lie below it.
		if i := strings.Index(lower, pattern); i >= 0 && len(strings.Trim(lower[i+len(pattern):], "/")) > 0 {
			return true
		}
	}
	if acceptsYearPaths(st) && yearSegment.MatchString(lower) {
		return true
	}
	return len(patterns) == 0 && strings.Trim(lower, "/") != ""
}

func isExcluded(p string) bool {
	lower := strings.ToLower(p)
	if excludedExtensions[path.Ext(lower)] {
		return true
	}
	for _, seg := range strings.Split(lower, "/") {
		if excludedSegments[seg] {
			return true
		}
	}
	return false
}

func samePage(u, base *url.URL) bool {
	return strings.TrimRight(u.Path, "/") == strings.TrimRight(base.Path, "/") && u.RawQuery == base.RawQuery
}

// NextPage returns the URL of listing page number n (1-based). A
// next-page anchor on the current page wins; otherwise the page
// parameter is set on base. Returns "" when neither is available.
func NextPage(doc *goquery.Document, pageURL, base *url.URL, set scraper.SelectorSet, n int) string {
	for _, selector := range set.Pagination {
		href, ok := doc.Find(selector).First().Attr("href")
		if !ok || href == "" || isNonHTTPLink(href) {
			continue
		}
		resolved := resolveURL(pageURL, href)
		if resolved == "" {
			continue
		}
		u, err := url.Parse(resolved)
		if err != nil || !strings.EqualFold(u.Host, base.Host) {
			continue
		}
		return resolved
	}

	if set.PageParam == "" {
		return ""
	}
	next := *base
	next.Fragment = ""
	q := next.Query()
	q.Set(set.PageParam, strconv.Itoa(n))
	next.RawQuery = q.Encode()
	return next.String()
}

// resolveURL resolves a relative URL against a base URL.
// Returns empty string if the href cannot be parsed or if the resolved URL
// is self-referential (same as base URL after stripping fragment).
// Fragments are stripped from the resolved URL for deduplication purposes.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	resolved.RawFragment = ""

	result := resolved.String()
	baseNoFragment := *base
	baseNoFragment.Fragment = ""
	baseNoFragment.RawFragment = ""
	if result == baseNoFragment.String() {
		return ""
	}
	return result
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") ||
		strings.HasPrefix(href, "#")
}
