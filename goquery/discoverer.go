package goquery

import (
	"bytes"
	"context"
	"iter"
	"log/slog"
	"net/url"

	scraper "github.com/Mario263/Technical-Web-scraper"
	"github.com/Mario263/Technical-Web-scraper/bloom"
	"github.com/PuerkitoBio/goquery"
)

var _ scraper.LinkDiscoverer = (*Discoverer)(nil)

// supplementLinksPerPage bounds feed and sitemap links relative to the
// page budget.
const supplementLinksPerPage = 25

// Discoverer walks a source's listing pages and yields article links.
// Newsletter archives are supplemented from their feed, guide collections
// and educational hubs from their sitemap.
type Discoverer struct {
	Fetcher  scraper.Fetcher
	Registry *Registry

	Feeds    scraper.FeedReader     // optional
	Sitemaps scraper.SitemapService // optional
	Robots   scraper.RobotsPolicy   // optional

	Logger *slog.Logger
}

// NewDiscoverer creates a Discoverer fetching listing pages with fetcher.
func NewDiscoverer(fetcher scraper.Fetcher, registry *Registry) *Discoverer {
	return &Discoverer{Fetcher: fetcher, Registry: registry}
}

// Discover yields candidate links from listing.Page and up to
// pageBudget−1 further listing pages. Pagination stops early when a page
// adds no new links, fails to fetch, or leads to an already visited page.
func (d *Discoverer) Discover(ctx context.Context, listing *scraper.Listing, pageBudget int) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		src := listing.Source
		base, err := scraper.ParseAbsoluteURL(src.URL)
		if err != nil {
			yield("", err)
			return
		}
		if pageBudget < 1 {
			pageBudget = 1
		}
		set := d.registry().Resolve(listing.SiteType, src)
		logger := d.logger().With("source", src.Label())

		seen := make(map[string]bool)
		emit := func(link string) bool {
			seen[link] = true
			if d.Robots != nil && !d.Robots.Allowed(ctx, link) {
				logger.Debug("link disallowed by robots.txt", "url", link)
				return true
			}
			return yield(link, nil)
		}

		visited := bloom.NewPageFilter()
		page := listing.Page
		pageURL := base
		if page != nil && page.URL != "" {
			if u, err := url.Parse(page.URL); err == nil {
				pageURL = u
			}
		}
		visited.Add(pageURL.String())
		visited.Add(base.String())

		for n := 1; page != nil; n++ {
			doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
			if err != nil {
				logger.Warn("listing page unreadable", "url", pageURL.String(), "err", err)
				break
			}

			fresh := 0
			for _, link := range ExtractLinks(doc, pageURL, base, listing.SiteType, set) {
				if seen[link] {
					continue
				}
				fresh++
				if !emit(link) {
					return
				}
			}
			logger.Debug("listing page", "url", pageURL.String(), "page", n, "links", fresh)

			if fresh == 0 || n >= pageBudget {
				break
			}
			next := NextPage(doc, pageURL, base, set, n+1)
			if next == "" || !visited.Visit(next) {
				break
			}

			res, err := d.Fetcher.Fetch(ctx, next)
			if err != nil {
				yield("", err)
				return
			}
			if !res.OK() {
				if ctx.Err() != nil {
					yield("", ctx.Err())
					return
				}
				logger.Warn("listing page failed", "url", next, "status", res.Status, "err", res.Failure())
				break
			}
			page = res
			if pageURL, err = url.Parse(next); err != nil {
				break
			}
		}

		if ctx.Err() != nil {
			yield("", ctx.Err())
			return
		}

		if listing.SiteType == scraper.SiteTypeNewsletterArchive {
			for _, archive := range archivePages(base) {
				if !visited.Visit(archive) {
					continue
				}
				for _, link := range d.archiveLinks(ctx, archive, base, set, logger) {
					if seen[link] {
						continue
					}
					if !emit(link) {
						return
					}
				}
				if ctx.Err() != nil {
					yield("", ctx.Err())
					return
				}
			}
		}

		limit := pageBudget * supplementLinksPerPage
		for _, link := range d.supplements(ctx, listing, base, set, logger) {
			if limit == 0 {
				return
			}
			if seen[link] {
				continue
			}
			limit--
			if !emit(link) {
				return
			}
		}
	}
}

// archivePages are the newsletter index pages listing every post, oldest
// and newest first.
func archivePages(base *url.URL) []string {
	return []string{
		(&url.URL{Scheme: base.Scheme, Host: base.Host, Path: "/archive"}).String(),
		(&url.URL{Scheme: base.Scheme, Host: base.Host, Path: "/archive", RawQuery: "sort=new"}).String(),
	}
}

// archiveLinks fetches one archive page and returns its post links. A page
// that cannot be fetched yields nothing.
func (d *Discoverer) archiveLinks(ctx context.Context, pageURL string, base *url.URL, set scraper.SelectorSet, logger *slog.Logger) []string {
	res, err := d.Fetcher.Fetch(ctx, pageURL)
	if err != nil {
		logger.Debug("archive page skipped", "url", pageURL, "err", err)
		return nil
	}
	if !res.OK() {
		logger.Debug("archive page skipped", "url", pageURL, "status", res.Status)
		return nil
	}
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body))
	if err != nil {
		logger.Warn("archive page unreadable", "url", pageURL, "err", err)
		return nil
	}
	links := ExtractLinks(doc, u, base, scraper.SiteTypeNewsletterArchive, set)
	logger.Debug("archive page", "url", pageURL, "links", len(links))
	return links
}

// supplements returns feed or sitemap links for site types that have them.
func (d *Discoverer) supplements(ctx context.Context, listing *scraper.Listing, base *url.URL, set scraper.SelectorSet, logger *slog.Logger) []string {
	var (
		candidates []string
		err        error
		origin     string
	)
	switch listing.SiteType {
	case scraper.SiteTypeNewsletterArchive:
		if d.Feeds == nil {
			return nil
		}
		origin = "feed"
		feedURL := url.URL{Scheme: base.Scheme, Host: base.Host, Path: "/feed"}
		candidates, err = d.Feeds.FeedLinks(ctx, feedURL.String())
	case scraper.SiteTypeGuideCollection, scraper.SiteTypeEducationalHub:
		if d.Sitemaps == nil {
			return nil
		}
		origin = "sitemap"
		candidates, err = d.Sitemaps.DiscoverURLs(ctx, base.String(), scraper.NewPathFilter(set.LinkPatterns...))
	default:
		return nil
	}
	if err != nil {
		logger.Warn("link supplement failed", "origin", origin, "err", err)
		return nil
	}

	var links []string
	for _, c := range candidates {
		u, err := url.Parse(c)
		if err != nil {
			continue
		}
		u.Fragment = ""
		u.RawFragment = ""
		link := u.String()
		if AcceptLink(base, link, listing.SiteType, set.LinkPatterns) {
			links = append(links, link)
		}
	}
	logger.Debug("link supplement", "origin", origin, "candidates", len(candidates), "links", len(links))
	return links
}

func (d *Discoverer) registry() *Registry {
	if d.Registry == nil {
		return NewRegistry()
	}
	return d.Registry
}

func (d *Discoverer) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return d.Logger
}
