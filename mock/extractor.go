package mock

import scraper "github.com/Mario263/Technical-Web-scraper"

var (
	_ scraper.ContentExtractor = (*ContentExtractor)(nil)
	_ scraper.Strategy         = (*Strategy)(nil)
	_ scraper.QualityScorer    = (*QualityScorer)(nil)
	_ scraper.SiteClassifier   = (*SiteClassifier)(nil)
)

// ContentExtractor is a mock implementation of scraper.ContentExtractor.
type ContentExtractor struct {
	ExtractFn func(page *scraper.Page) (*scraper.CandidateRecord, error)
}

func (e *ContentExtractor) Extract(page *scraper.Page) (*scraper.CandidateRecord, error) {
	return e.ExtractFn(page)
}

// Strategy is a mock implementation of scraper.Strategy.
type Strategy struct {
	NameFn    func() string
	AttemptFn func(page *scraper.Page) (*scraper.CandidateRecord, bool)
}

func (s *Strategy) Name() string {
	return s.NameFn()
}

func (s *Strategy) Attempt(page *scraper.Page) (*scraper.CandidateRecord, bool) {
	return s.AttemptFn(page)
}

// QualityScorer is a mock implementation of scraper.QualityScorer.
type QualityScorer struct {
	ScoreFn    func(rec *scraper.CandidateRecord) float64
	EvaluateFn func(rec *scraper.CandidateRecord) (*scraper.ScoredRecord, error)
}

func (s *QualityScorer) Score(rec *scraper.CandidateRecord) float64 {
	return s.ScoreFn(rec)
}

func (s *QualityScorer) Evaluate(rec *scraper.CandidateRecord) (*scraper.ScoredRecord, error) {
	return s.EvaluateFn(rec)
}

// SiteClassifier is a mock implementation of scraper.SiteClassifier.
type SiteClassifier struct {
	ClassifyFn func(url string, page []byte) scraper.SiteType
}

func (c *SiteClassifier) Classify(url string, page []byte) scraper.SiteType {
	return c.ClassifyFn(url, page)
}
