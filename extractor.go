package scraper

import "time"

// Page is a fetched content page handed to extraction strategies.
type Page struct {
	URL      string
	HTML     []byte
	Source   *Source
	SiteType SiteType
}

// CandidateRecord is what an extraction strategy produced for a page.
type CandidateRecord struct {
	Title       string
	Body        string // Markdown
	Author      string
	PublishedAt time.Time
	SourceURL   string

	// DetectedType names the cascade level that produced the record.
	DetectedType string
	SiteType     SiteType

	// RawTextLength is the length of the body's plain text.
	RawTextLength int
}

// Strategy is one level of the extraction cascade.
type Strategy interface {
	// Name identifies the strategy in CandidateRecord.DetectedType.
	Name() string

	// Attempt returns a candidate, or false when the strategy found
	// nothing usable on the page.
	Attempt(page *Page) (*CandidateRecord, bool)
}

// ContentExtractor runs the extraction cascade for a page.
type ContentExtractor interface {
	// Extract returns the first successful strategy's candidate.
	// Returns EEMPTY when no strategy produced a body above the floor.
	Extract(page *Page) (*CandidateRecord, error)
}
