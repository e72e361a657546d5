package goquery

import (
	"bytes"
	"net/url"
	"regexp"
	"slices"
	"sort"
	"strings"

	scraper "github.com/Mario263/Technical-Web-scraper"
	"github.com/PuerkitoBio/goquery"
)

var _ scraper.SiteClassifier = (*Classifier)(nil)

// Sniffing thresholds.
const (
	minArchivePermalinks = 2
	minArticleCards      = 3
)

// archivePermalink matches newsletter post paths such as /p/some-slug.
var archivePermalink = regexp.MustCompile(`^/p/[^/]+/?$`)

// articleCards are repeated containers typical of blog index pages.
const articleCards = "article, .post, .post-card, .post-preview, .entry, .card"

// blogGenerators are generator meta values of blogging engines.
var blogGenerators = regexp.MustCompile(`(?i)\b(wordpress|ghost|blogger|jekyll|hugo)\b`)

// hostRule maps a publishing platform host to its site type. A name with a
// dot matches that domain and its subdomains, a bare name matches any host
// label.
type hostRule struct {
	name string
	typ  scraper.SiteType
}

// platformHosts classify well-known hosting platforms when no configured
// pattern matches.
var platformHosts = []hostRule{
	{"substack.com", scraper.SiteTypeNewsletterArchive},
	{"github.io", scraper.SiteTypeGuideCollection},
	{"readthedocs", scraper.SiteTypeGuideCollection},
	{"gitbook", scraper.SiteTypeGuideCollection},
	{"wordpress", scraper.SiteTypeBlogListing},
	{"medium.com", scraper.SiteTypeBlogListing},
	{"ghost.io", scraper.SiteTypeBlogListing},
	{"blogspot", scraper.SiteTypeBlogListing},
}

func (r hostRule) match(host string) bool {
	if strings.Contains(r.name, ".") {
		return host == r.name || strings.HasSuffix(host, "."+r.name)
	}
	return slices.Contains(strings.Split(host, "."), r.name)
}

// Classifier assigns site types from a configured pattern table, falling
// back to structural sniffing of a page sample.
type Classifier struct {
	exact  map[string]scraper.SiteType
	prefix []prefixRule
}

type prefixRule struct {
	key string
	typ scraper.SiteType
}

// NewClassifier builds the pattern table from explicit patterns plus one
// prefix row per source that declares a type.
func NewClassifier(patterns []scraper.SitePattern, sources []*scraper.Source) (*Classifier, error) {
	c := &Classifier{exact: make(map[string]scraper.SiteType)}

	for i := range patterns {
		p := patterns[i]
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if err := c.add(p.URL, p.Match, p.Type); err != nil {
			return nil, err
		}
	}
	for _, src := range sources {
		if src == nil || src.Type == "" {
			continue
		}
		if _, err := scraper.ParseSiteType(string(src.Type)); err != nil {
			return nil, err
		}
		if err := c.add(src.URL, scraper.MatchPrefix, src.Type); err != nil {
			return nil, err
		}
	}

	// Longest prefix first; ties keep configuration order.
	sort.SliceStable(c.prefix, func(i, j int) bool {
		return len(c.prefix[i].key) > len(c.prefix[j].key)
	})
	return c, nil
}

func (c *Classifier) add(rawURL string, match scraper.MatchKind, st scraper.SiteType) error {
	key, err := patternKey(rawURL)
	if err != nil {
		return err
	}
	if match == scraper.MatchExact {
		if _, ok := c.exact[key]; !ok {
			c.exact[key] = st
		}
		return nil
	}
	c.prefix = append(c.prefix, prefixRule{key: key, typ: st})
	return nil
}

// Classify returns the site type for rawURL. Exact patterns win over
// prefixes and the longest prefix wins among prefixes. Without a configured
// match the host is checked against known platforms, and the page sample
// is sniffed last.
func (c *Classifier) Classify(rawURL string, page []byte) scraper.SiteType {
	if key, err := patternKey(rawURL); err == nil {
		if st, ok := c.exact[key]; ok {
			return st
		}
		for _, rule := range c.prefix {
			if key == rule.key || strings.HasPrefix(key, rule.key+"/") {
				return rule.typ
			}
		}
	}
	if st, ok := PlatformType(rawURL); ok {
		return st
	}
	if len(page) == 0 {
		return scraper.SiteTypeGeneric
	}
	return Sniff(page)
}

// PlatformType returns the site type of a URL hosted on a known publishing
// platform.
func PlatformType(rawURL string) (scraper.SiteType, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", false
	}
	for _, rule := range platformHosts {
		if rule.match(host) {
			return rule.typ, true
		}
	}
	return "", false
}

// Sniff infers a site type from listing page markup: platform markers
// first, then structure.
func Sniff(page []byte) scraper.SiteType {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return scraper.SiteTypeGeneric
	}

	if doc.Find(".substack").Length() > 0 {
		return scraper.SiteTypeNewsletterArchive
	}
	if generator, ok := doc.Find(`meta[name="generator"]`).Attr("content"); ok && blogGenerators.MatchString(generator) {
		return scraper.SiteTypeBlogListing
	}
	if countArchivePermalinks(doc) >= minArchivePermalinks {
		return scraper.SiteTypeNewsletterArchive
	}

	cards := doc.Find(articleCards).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Find("a[href]").Length() > 0
	})
	if cards.Length() >= minArticleCards {
		return scraper.SiteTypeBlogListing
	}
	return scraper.SiteTypeGeneric
}

func countArchivePermalinks(doc *goquery.Document) int {
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		u, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		if archivePermalink.MatchString(u.Path) {
			seen[strings.TrimSuffix(u.Path, "/")] = true
		}
	})
	return len(seen)
}

// patternKey reduces a URL to lowercase host plus path without query,
// fragment or trailing slash.
func patternKey(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", scraper.Errorf(scraper.EINVALID, "malformed pattern URL %q: %v", rawURL, err)
	}
	if u.Host == "" {
		return "", scraper.Errorf(scraper.EINVALID, "pattern URL %q has no host", rawURL)
	}
	return strings.ToLower(u.Host) + strings.TrimRight(u.Path, "/"), nil
}
