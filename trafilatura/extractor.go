// Package trafilatura provides an extraction strategy backed by
// go-trafilatura.
package trafilatura

import (
	"bytes"
	"net/url"
	"strings"
	"unicode/utf8"

	scraper "github.com/Mario263/Technical-Web-scraper"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Name identifies the strategy in CandidateRecord.DetectedType.
const Name = "trafilatura"

// DefaultFloor is the minimum body length in characters.
const DefaultFloor = 50

// Ensure Strategy implements scraper.Strategy at compile time.
var _ scraper.Strategy = (*Strategy)(nil)

// Strategy wraps go-trafilatura to extract main content from HTML.
type Strategy struct {
	Converter scraper.Converter
	Floor     int
}

// NewStrategy creates a new Strategy converting bodies with conv.
func NewStrategy(conv scraper.Converter) *Strategy {
	return &Strategy{Converter: conv, Floor: DefaultFloor}
}

func (s *Strategy) Name() string { return Name }

// Attempt extracts the main content of the page. It fails when
// trafilatura finds no content node or the text is below the floor.
func (s *Strategy) Attempt(page *scraper.Page) (*scraper.CandidateRecord, bool) {
	if len(page.HTML) == 0 {
		return nil, false
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}
	if u, err := url.Parse(page.URL); err == nil {
		opts.OriginalURL = u
	}

	result, err := trafilatura.Extract(bytes.NewReader(page.HTML), opts)
	if err != nil || result == nil || result.ContentNode == nil {
		return nil, false
	}

	length := utf8.RuneCountInString(strings.Join(strings.Fields(result.ContentText), " "))
	if length < s.floor() {
		return nil, false
	}

	contentHTML, err := renderNode(result.ContentNode)
	if err != nil {
		return nil, false
	}
	body, err := s.Converter.Convert(contentHTML, page.URL)
	if err != nil || strings.TrimSpace(body) == "" {
		return nil, false
	}

	return &scraper.CandidateRecord{
		Title:         result.Metadata.Title,
		Body:          body,
		Author:        result.Metadata.Author,
		PublishedAt:   result.Metadata.Date,
		SourceURL:     page.URL,
		SiteType:      page.SiteType,
		RawTextLength: length,
	}, true
}

func (s *Strategy) floor() int {
	if s.Floor <= 0 {
		return DefaultFloor
	}
	return s.Floor
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
