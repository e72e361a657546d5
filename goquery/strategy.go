package goquery

import (
	"bytes"
	"strings"
	"time"
	"unicode/utf8"

	scraper "github.com/Mario263/Technical-Web-scraper"
	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
)

// Strategy names as recorded in CandidateRecord.DetectedType.
const (
	StrategySelectors = "selectors"
	StrategyDensity   = "density"
	StrategyPlainText = "plaintext"
)

// DefaultFloor is the minimum body length in characters.
const DefaultFloor = 50

// maxAuthorLength rejects author matches that swallowed surrounding text.
const maxAuthorLength = 100

// densityCandidates are the containers compared by the density strategy.
const densityCandidates = "article, main, [class*='content'], [class*='post'], [class*='entry']"

var (
	_ scraper.Strategy = (*SelectorStrategy)(nil)
	_ scraper.Strategy = (*DensityStrategy)(nil)
	_ scraper.Strategy = (*PlainTextStrategy)(nil)
)

// page is a parsed HTML page with metadata read before chrome removal.
type page struct {
	doc    *goquery.Document
	title  string
	author string
	date   time.Time
}

func parsePage(p *scraper.Page, set scraper.SelectorSet) (*page, bool) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(p.HTML))
	if err != nil {
		return nil, false
	}
	parsed := &page{
		doc:    doc,
		author: firstText(doc, set.Author, func(s string) bool { return len(s) < maxAuthorLength }),
		date:   findDate(doc, set.Date),
	}
	parsed.title = firstText(doc, set.Title, func(s string) bool { return utf8.RuneCountInString(s) > 3 })
	if parsed.title == "" {
		parsed.title = documentTitle(doc)
	}
	stripChrome(doc)
	return parsed, true
}

func findDate(doc *goquery.Document, selectors []string) time.Time {
	for _, selector := range selectors {
		var found time.Time
		doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			for _, attr := range []string{"datetime", "content"} {
				if v, ok := sel.Attr(attr); ok {
					if t, err := dateparse.ParseAny(strings.TrimSpace(v)); err == nil {
						found = t
						return false
					}
				}
			}
			if t, err := dateparse.ParseAny(collapse(sel.Text())); err == nil {
				found = t
				return false
			}
			return true
		})
		if !found.IsZero() {
			return found
		}
	}
	return time.Time{}
}

// candidate converts a body selection into a record when it clears the floor.
func candidate(p *scraper.Page, parsed *page, body *goquery.Selection, conv scraper.Converter, floor int) (*scraper.CandidateRecord, bool) {
	length := textLength(body)
	if length < floor {
		return nil, false
	}
	bodyHTML, err := goquery.OuterHtml(body)
	if err != nil {
		return nil, false
	}
	md, err := conv.Convert(bodyHTML, p.URL)
	if err != nil || strings.TrimSpace(md) == "" {
		return nil, false
	}
	return &scraper.CandidateRecord{
		Title:         parsed.title,
		Body:          md,
		Author:        parsed.author,
		PublishedAt:   parsed.date,
		SourceURL:     p.URL,
		SiteType:      p.SiteType,
		RawTextLength: length,
	}, true
}

// SelectorStrategy applies the site type's selector set, merged with the
// source's own selectors.
type SelectorStrategy struct {
	Registry  *Registry
	Converter scraper.Converter
	Floor     int
}

func (s *SelectorStrategy) Name() string { return StrategySelectors }

// Attempt returns the first body selector match above the floor.
func (s *SelectorStrategy) Attempt(p *scraper.Page) (*scraper.CandidateRecord, bool) {
	set := s.Registry.Resolve(p.SiteType, p.Source)
	parsed, ok := parsePage(p, set)
	if !ok {
		return nil, false
	}
	for _, selector := range set.Body {
		var rec *scraper.CandidateRecord
		parsed.doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			rec, ok = candidate(p, parsed, sel, s.Converter, floor(s.Floor))
			return !ok
		})
		if rec != nil {
			return rec, true
		}
	}
	return nil, false
}

// DensityStrategy picks the container with the highest ratio of text
// length to element count.
type DensityStrategy struct {
	Registry  *Registry
	Converter scraper.Converter
	Floor     int
}

func (s *DensityStrategy) Name() string { return StrategyDensity }

func (s *DensityStrategy) Attempt(p *scraper.Page) (*scraper.CandidateRecord, bool) {
	set := s.Registry.Resolve(p.SiteType, p.Source)
	parsed, ok := parsePage(p, set)
	if !ok {
		return nil, false
	}
	if h1 := collapse(parsed.doc.Find("h1").First().Text()); h1 != "" {
		parsed.title = h1
	} else {
		parsed.title = documentTitle(parsed.doc)
	}

	var (
		best      *goquery.Selection
		bestRatio float64
	)
	parsed.doc.Find(densityCandidates).Each(func(_ int, sel *goquery.Selection) {
		length := textLength(sel)
		if length < floor(s.Floor) {
			return
		}
		ratio := float64(length) / float64(max(1, countElements(sel.Nodes[0])))
		if ratio > bestRatio {
			best, bestRatio = sel, ratio
		}
	})
	if best == nil {
		return nil, false
	}
	return candidate(p, parsed, best, s.Converter, floor(s.Floor))
}

// PlainTextStrategy strips all markup from the page body.
type PlainTextStrategy struct {
	Floor int
}

func (s *PlainTextStrategy) Name() string { return StrategyPlainText }

func (s *PlainTextStrategy) Attempt(p *scraper.Page) (*scraper.CandidateRecord, bool) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(p.HTML))
	if err != nil {
		return nil, false
	}
	title := documentTitle(doc)
	stripChrome(doc)

	body := doc.Find("body")
	if body.Length() == 0 {
		return nil, false
	}
	text := plainText(body.Nodes[0])
	length := utf8.RuneCountInString(collapse(text))
	if length < floor(s.Floor) {
		return nil, false
	}
	return &scraper.CandidateRecord{
		Title:         title,
		Body:          text,
		SourceURL:     p.URL,
		SiteType:      p.SiteType,
		RawTextLength: length,
	}, true
}

func floor(n int) int {
	if n <= 0 {
		return DefaultFloor
	}
	return n
}
