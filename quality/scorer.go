// Package quality scores extracted articles and gates their acceptance.
package quality

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	scraper "github.com/Mario263/Technical-Web-scraper"
)

// Default scoring parameters.
const (
	DefaultLengthWeight    = 0.4
	DefaultStructureWeight = 0.3
	DefaultTechnicalWeight = 0.3

	DefaultTargetWords   = 200
	DefaultTargetDensity = 0.02
	DefaultMinScore      = 0.3
	DefaultMinWords      = 100
)

// weightTolerance is how far the weights may stray from summing to 1.
const weightTolerance = 1e-9

// DefaultTerms are the technical terms counted for density.
var DefaultTerms = []string{
	"algorithm", "data structure", "programming", "coding", "software",
	"interview", "technical", "engineering", "development", "code",
	"function", "class", "method", "variable", "api", "database",
	"system design", "architecture", "performance", "optimization",
}

var (
	heading   = regexp.MustCompile(`(?m)^#{1,6}\s+\S`)
	codeFence = regexp.MustCompile("(?m)^\\s*```")

	fenceLine   = regexp.MustCompile("(?m)^\\s*(?:```|~~~).*$")
	inlineLink  = regexp.MustCompile(`!?\[([^\]]*)\]\([^)]*\)`)
	blockMarker = regexp.MustCompile(`(?m)^[ \t]*(?:(?:#{1,6}|>+|[-*+]|\d+[.)])[ \t]+)+`)
)

var _ scraper.QualityScorer = (*Scorer)(nil)

// Weights are the shares of the three components of the score.
type Weights struct {
	Length    float64
	Structure float64
	Technical float64
}

func (w Weights) sum() float64 {
	return w.Length + w.Structure + w.Technical
}

// Scorer computes a weighted score from length, structure and technical
// term density.
type Scorer struct {
	weights       Weights
	targetWords   int
	targetDensity float64
	minScore      float64
	minWords      int
	terms         []string
	termWords     [][]string
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithWeights sets the component weights. They must sum to 1.
func WithWeights(w Weights) Option {
	return func(s *Scorer) {
		s.weights = w
	}
}

// WithTargetWords sets the word count that earns a full length score.
func WithTargetWords(n int) Option {
	return func(s *Scorer) {
		s.targetWords = n
	}
}

// WithTargetDensity sets the term density that earns a full technical
// score. The technical component is min(density/target, 1), so the default
// of DefaultTargetDensity saturates at 2% term density rather than reporting
// the raw ratio. A target of 1 restores the raw ratio.
func WithTargetDensity(d float64) Option {
	return func(s *Scorer) {
		s.targetDensity = d
	}
}

// WithMinScore sets the acceptance threshold.
func WithMinScore(v float64) Option {
	return func(s *Scorer) {
		s.minScore = v
	}
}

// WithMinWords sets the minimum word count for acceptance.
func WithMinWords(n int) Option {
	return func(s *Scorer) {
		s.minWords = n
	}
}

// WithTerms replaces the technical term list.
func WithTerms(terms []string) Option {
	return func(s *Scorer) {
		s.terms = terms
	}
}

// NewScorer creates a Scorer. Returns EINVALID when the weights do not sum
// to 1 or a target is not positive.
func NewScorer(opts ...Option) (*Scorer, error) {
	s := &Scorer{
		weights: Weights{
			Length:    DefaultLengthWeight,
			Structure: DefaultStructureWeight,
			Technical: DefaultTechnicalWeight,
		},
		targetWords:   DefaultTargetWords,
		targetDensity: DefaultTargetDensity,
		minScore:      DefaultMinScore,
		minWords:      DefaultMinWords,
		terms:         DefaultTerms,
	}
	for _, opt := range opts {
		opt(s)
	}

	w := s.weights
	if w.Length < 0 || w.Structure < 0 || w.Technical < 0 {
		return nil, scraper.Errorf(scraper.EINVALID, "quality weights must not be negative")
	}
	if math.Abs(w.sum()-1) > weightTolerance {
		return nil, scraper.Errorf(scraper.EINVALID, "quality weights sum to %v, want 1", w.sum())
	}
	if s.targetWords <= 0 {
		return nil, scraper.Errorf(scraper.EINVALID, "target word count must be positive")
	}
	if s.targetDensity <= 0 {
		return nil, scraper.Errorf(scraper.EINVALID, "target density must be positive")
	}

	for _, t := range s.terms {
		if w := words(t); len(w) > 0 {
			s.termWords = append(s.termWords, w)
		}
	}
	return s, nil
}

// Score returns the composite score in [0,1].
func (s *Scorer) Score(rec *scraper.CandidateRecord) float64 {
	plain := Plain(rec.Body)
	score := s.weights.Length*s.lengthScore(countWords(plain)) +
		s.weights.Structure*structureScore(rec) +
		s.weights.Technical*s.technicalScore(words(plain))
	return min(1, max(0, score))
}

// Evaluate scores rec and applies the acceptance thresholds.
// Returns EREJECTED naming the first failed check.
func (s *Scorer) Evaluate(rec *scraper.CandidateRecord) (*scraper.ScoredRecord, error) {
	scored := &scraper.ScoredRecord{
		CandidateRecord: *rec,
		QualityScore:    s.Score(rec),
		WordCount:       WordCount(rec.Body),
	}
	switch {
	case strings.TrimSpace(rec.Title) == "":
		return nil, scraper.Errorf(scraper.EREJECTED, "%s: empty title", rec.SourceURL)
	case scored.WordCount < s.minWords:
		return nil, scraper.Errorf(scraper.EREJECTED, "%s: %d words, want at least %d", rec.SourceURL, scored.WordCount, s.minWords)
	case scored.QualityScore < s.minScore:
		return nil, scraper.Errorf(scraper.EREJECTED, "%s: score %.2f below %.2f", rec.SourceURL, scored.QualityScore, s.minScore)
	}
	return scored, nil
}

func (s *Scorer) lengthScore(wordCount int) float64 {
	return min(float64(wordCount)/float64(s.targetWords), 1)
}

// structureScore is the share of: a title, a heading or code block in the
// body, and an author.
func structureScore(rec *scraper.CandidateRecord) float64 {
	var n float64
	if strings.TrimSpace(rec.Title) != "" {
		n++
	}
	if heading.MatchString(rec.Body) || codeFence.MatchString(rec.Body) {
		n++
	}
	if strings.TrimSpace(rec.Author) != "" {
		n++
	}
	return n / 3
}

// technicalScore is the term density normalized by the target density.
func (s *Scorer) technicalScore(tokens []string) float64 {
	if len(tokens) == 0 {
		return 0
	}
	hits := 0
	for i := range tokens {
		for _, term := range s.termWords {
			if matchAt(tokens, i, term) {
				hits++
			}
		}
	}
	density := float64(hits) / float64(len(tokens))
	return min(density/s.targetDensity, 1)
}

// matchAt reports whether the words of term start at tokens[i].
func matchAt(tokens []string, i int, term []string) bool {
	if i+len(term) > len(tokens) {
		return false
	}
	for j, w := range term {
		if tokens[i+j] != w {
			return false
		}
	}
	return true
}

// Plain strips markdown syntax from body: fence lines, link targets, and
// heading, quote and list markers. Inline text is left as is.
func Plain(body string) string {
	body = fenceLine.ReplaceAllString(body, "")
	body = inlineLink.ReplaceAllString(body, "$1")
	return blockMarker.ReplaceAllString(body, "")
}

// WordCount counts the words of a markdown body. Markup such as bullets,
// table pipes and link targets does not count.
func WordCount(body string) int {
	return countWords(Plain(body))
}

// countWords counts whitespace-separated fields holding a letter or digit.
func countWords(s string) int {
	n := 0
	for _, f := range strings.Fields(s) {
		if strings.IndexFunc(f, isWordRune) >= 0 {
			n++
		}
	}
	return n
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// words lowercases s and splits it on anything but letters and digits.
func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !isWordRune(r)
	})
}
