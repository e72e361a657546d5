package goquery

import (
	scraper "github.com/Mario263/Technical-Web-scraper"
)

var _ scraper.ContentExtractor = (*Extractor)(nil)

// Extractor runs an ordered list of strategies; the first success wins.
type Extractor struct {
	Strategies []scraper.Strategy

	// Floor is the minimum body length enforced on every strategy.
	Floor int
}

// NewExtractor returns the cascade selectors → density → extra → plaintext.
// Extra strategies are typically library extractors such as trafilatura.
func NewExtractor(registry *Registry, conv scraper.Converter, extra ...scraper.Strategy) *Extractor {
	strategies := []scraper.Strategy{
		&SelectorStrategy{Registry: registry, Converter: conv, Floor: DefaultFloor},
		&DensityStrategy{Registry: registry, Converter: conv, Floor: DefaultFloor},
	}
	strategies = append(strategies, extra...)
	strategies = append(strategies, &PlainTextStrategy{Floor: DefaultFloor})
	return &Extractor{Strategies: strategies, Floor: DefaultFloor}
}

// Extract returns the first strategy's candidate whose body clears the
// floor. Returns EEMPTY when every strategy comes up short.
func (e *Extractor) Extract(page *scraper.Page) (*scraper.CandidateRecord, error) {
	if len(page.HTML) == 0 {
		return nil, scraper.Errorf(scraper.EEMPTY, "empty page %s", page.URL)
	}
	for _, s := range e.Strategies {
		rec, ok := s.Attempt(page)
		if !ok || rec == nil || rec.RawTextLength < floor(e.Floor) {
			continue
		}
		rec.DetectedType = s.Name()
		if rec.SourceURL == "" {
			rec.SourceURL = page.URL
		}
		rec.SiteType = page.SiteType
		return rec, nil
	}
	return nil, scraper.Errorf(scraper.EEMPTY, "no content extracted from %s", page.URL)
}
