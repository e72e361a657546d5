package scraper

import (
	"time"
	"unicode/utf8"
)

// Record field limits.
const (
	MaxTitleLength   = 500
	MinContentLength = 10
)

// ScoredRecord is a candidate with its quality score and fingerprint.
type ScoredRecord struct {
	CandidateRecord
	QualityScore float64
	WordCount    int
	ContentHash  string
}

// Record is one item of the output set.
type Record struct {
	Title       string      `json:"title"`
	Content     string      `json:"content"`
	ContentType ContentType `json:"content_type"`
	SourceURL   string      `json:"source_url,omitempty"`
	Author      string      `json:"author,omitempty"`
	UserID      string      `json:"user_id,omitempty"`
	Metadata    Metadata    `json:"metadata"`
}

// Metadata describes how and when a record was produced.
type Metadata struct {
	ScrapedAt            time.Time  `json:"scraped_at"`
	ContentHash          string     `json:"content_hash"`
	WordCount            int        `json:"word_count"`
	EstimatedReadingTime int        `json:"estimated_reading_time"`
	QualityScore         float64    `json:"quality_score"`
	DetectedType         string     `json:"detected_type,omitempty"`
	PublishedAt          *time.Time `json:"published_at,omitempty"`
}

// Validate returns an error if the record contains invalid fields.
func (r *Record) Validate() error {
	n := utf8.RuneCountInString(r.Title)
	if n == 0 {
		return Errorf(EINVALID, "record title required")
	}
	if n > MaxTitleLength {
		return Errorf(EINVALID, "record title longer than %d characters", MaxTitleLength)
	}
	if utf8.RuneCountInString(r.Content) < MinContentLength {
		return Errorf(EINVALID, "record content shorter than %d characters", MinContentLength)
	}
	if _, err := ParseContentType(string(r.ContentType)); err != nil {
		return err
	}
	if r.Metadata.WordCount < 0 || r.Metadata.EstimatedReadingTime < 0 {
		return Errorf(EINVALID, "record counts must not be negative")
	}
	if r.Metadata.QualityScore < 0 || r.Metadata.QualityScore > 1 {
		return Errorf(EINVALID, "record quality score %v out of range", r.Metadata.QualityScore)
	}
	if r.Metadata.ContentHash == "" {
		return Errorf(EINVALID, "record content hash required")
	}
	return nil
}

// Output is the envelope written by result stores.
type Output struct {
	TeamID string   `json:"team_id"`
	Items  []Record `json:"items"`
}

// QualityScorer scores candidates and gates acceptance.
type QualityScorer interface {
	// Score returns the composite quality score in [0,1].
	Score(rec *CandidateRecord) float64

	// Evaluate scores the candidate and returns EREJECTED when it falls
	// below the configured thresholds.
	Evaluate(rec *CandidateRecord) (*ScoredRecord, error)
}
