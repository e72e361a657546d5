// Package readability provides an extraction strategy backed by
// go-readability.
package readability

import (
	"bytes"
	"net/url"
	"strings"
	"unicode/utf8"

	scraper "github.com/Mario263/Technical-Web-scraper"
	"github.com/go-shiori/go-readability"
)

// Name identifies the strategy in CandidateRecord.DetectedType.
const Name = "readability"

// DefaultFloor is the minimum body length in characters.
const DefaultFloor = 50

// Ensure Strategy implements scraper.Strategy at compile time.
var _ scraper.Strategy = (*Strategy)(nil)

// Strategy wraps go-readability to extract main content from HTML.
type Strategy struct {
	Converter scraper.Converter
	Floor     int
}

// NewStrategy creates a new Strategy converting bodies with conv.
func NewStrategy(conv scraper.Converter) *Strategy {
	return &Strategy{Converter: conv, Floor: DefaultFloor}
}

func (s *Strategy) Name() string { return Name }

// Attempt runs the readability algorithm on the page.
func (s *Strategy) Attempt(page *scraper.Page) (*scraper.CandidateRecord, bool) {
	if len(page.HTML) == 0 {
		return nil, false
	}

	pageURL, _ := url.Parse(page.URL)
	article, err := readability.FromReader(bytes.NewReader(page.HTML), pageURL)
	if err != nil {
		return nil, false
	}

	length := utf8.RuneCountInString(strings.Join(strings.Fields(article.TextContent), " "))
	floor := s.Floor
	if floor <= 0 {
		floor = DefaultFloor
	}
	if length < floor {
		return nil, false
	}

	body, err := s.Converter.Convert(article.Content, page.URL)
	if err != nil || strings.TrimSpace(body) == "" {
		return nil, false
	}

	return &scraper.CandidateRecord{
		Title:         article.Title,
		Body:          body,
		Author:        strings.TrimSpace(article.Byline),
		SourceURL:     page.URL,
		SiteType:      page.SiteType,
		RawTextLength: length,
	}, true
}
