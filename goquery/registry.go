// Package goquery implements site classification, link discovery and
// content extraction on top of goquery.
package goquery

import (
	"slices"

	scraper "github.com/Mario263/Technical-Web-scraper"
)

// Registry holds the default SelectorSet of each site type. A source's own
// selectors override the defaults field by field.
type Registry struct {
	sets map[scraper.SiteType]scraper.SelectorSet
}

// NewRegistry creates a Registry populated with the built-in selector sets.
func NewRegistry() *Registry {
	r := &Registry{sets: make(map[scraper.SiteType]scraper.SelectorSet)}
	for st, set := range defaultSelectors {
		r.sets[st] = set
	}
	return r
}

// Get returns the selector set for a site type.
// Unknown site types get the generic set.
func (r *Registry) Get(st scraper.SiteType) scraper.SelectorSet {
	if set, ok := r.sets[st]; ok {
		return set
	}
	return r.sets[scraper.SiteTypeGeneric]
}

// Register replaces the selector set for a site type.
func (r *Registry) Register(st scraper.SiteType, set scraper.SelectorSet) {
	r.sets[st] = set
}

// List returns the registered site types in canonical order.
func (r *Registry) List() []scraper.SiteType {
	var types []scraper.SiteType
	for _, st := range scraper.SiteTypes() {
		if _, ok := r.sets[st]; ok {
			types = append(types, st)
		}
	}
	return types
}

// Resolve returns the selector set for a source classified as st.
func (r *Registry) Resolve(st scraper.SiteType, src *scraper.Source) scraper.SelectorSet {
	set := r.Get(st)
	if src == nil {
		return set
	}
	return set.Merge(src.Selectors)
}

var (
	articleTitles = []string{
		"h1.post-title",
		"h1.entry-title",
		"h1.article-title",
		".post-header h1",
		".entry-header h1",
		"article h1",
		"h1",
	}
	articleAuthors = []string{
		".author",
		".byline",
		"[rel='author']",
		".post-author",
		".entry-author",
		"[class*='author']",
		".written-by",
		"meta[name='author']",
	}
	articleDates = []string{
		"meta[property='article:published_time']",
		"time[datetime]",
		".post-date",
		".entry-date",
		".published",
		".date",
	}
	nextPage = []string{
		"a[rel='next']",
		"link[rel='next']",
		".pagination a.next",
		".nav-links a.next",
		".pager a.next",
		"a[class*='next']",
	}
)

var defaultSelectors = map[scraper.SiteType]scraper.SelectorSet{
	scraper.SiteTypeBlogListing: {
		Title: articleTitles,
		Body: []string{
			".post-content",
			".entry-content",
			".article-content",
			".post-body",
			"article .content",
			"main article",
			".story-body",
		},
		Author: articleAuthors,
		Date:   articleDates,
		Links: []string{
			"article a[href]",
			".post a[href]",
			".entry a[href]",
			".post-title a[href]",
			".entry-title a[href]",
			"h2 a[href]",
			"h3 a[href]",
			"a[href]",
		},
		LinkPatterns: []string{"/blog/", "/post/", "/posts/", "/article/", "/articles/", "/entry/"},
		Pagination:   nextPage,
		PageParam:    "page",
	},
	scraper.SiteTypeNewsletterArchive: {
		Title: []string{
			"h1.post-title",
			"h1[class*='title']",
			".post-header h1",
			"h1",
		},
		Body: []string{
			".available-content",
			".body.markup",
			".post-content",
			"article .content",
		},
		Author: []string{
			".byline-names",
			"[class*='author']",
			"meta[name='author']",
		},
		Date:         articleDates,
		Links:        []string{".post-preview-title[href]", ".post-preview a[href]", "a[href*='/p/']"},
		LinkPatterns: []string{"/p/"},
		Pagination:   []string{"a[rel='next']", "link[rel='next']"},
	},
	scraper.SiteTypeGuideCollection: {
		Title: []string{"article h1", "main h1", "h1"},
		Body: []string{
			".guide-content",
			"article .content",
			"article",
			".markdown",
			".prose",
			"main",
		},
		Author:       articleAuthors,
		Date:         articleDates,
		Links:        []string{"main a[href]", "article a[href]", "a[href]"},
		LinkPatterns: []string{"/guides/", "/guide/", "/tutorial/", "/tutorials/", "/learn/", "/handbook/"},
		Pagination:   nextPage,
		PageParam:    "page",
	},
	scraper.SiteTypeEducationalHub: {
		Title: []string{"article h1", "main h1", "h1"},
		Body: []string{
			".lesson-content",
			".article-content",
			".post-content",
			"article",
			"main",
		},
		Author:       articleAuthors,
		Date:         articleDates,
		Links:        []string{"main a[href]", "a[href]"},
		LinkPatterns: []string{"/learn/", "/topics/", "/courses/", "/lessons/", "/resources/", "/blog/"},
		Pagination:   nextPage,
		PageParam:    "page",
	},
	scraper.SiteTypeGeneric: {
		Title: articleTitles,
		Body: []string{
			".post-content",
			".entry-content",
			".article-content",
			"main article",
			"article",
			"#content",
		},
		Author:       articleAuthors,
		Date:         articleDates,
		Links:        []string{"a[href]"},
		LinkPatterns: []string{"/blog/", "/post/", "/article/", "/p/", "/entry/", "/guides/", "/learn/", "/topics/"},
		Pagination:   nextPage,
		PageParam:    "page",
	},
}

// yearPathTypes are site types whose links also qualify with a /YYYY/ path segment.
var yearPathTypes = []scraper.SiteType{scraper.SiteTypeBlogListing, scraper.SiteTypeGeneric}

func acceptsYearPaths(st scraper.SiteType) bool {
	return slices.Contains(yearPathTypes, st)
}
