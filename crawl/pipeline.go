// Package crawl turns configured sources into validated records. It owns
// fetch control (retries, backoff, rate limiting, block detection),
// content deduplication and the per-source pipeline that ties
// classification, discovery, extraction and scoring together.
package crawl

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	scraper "github.com/Mario263/Technical-Web-scraper"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of links processed at once per source.
const DefaultConcurrency = 2

// wordsPerMinute drives the estimated reading time.
const wordsPerMinute = 200

// Pipeline runs sources through fetch, classification, discovery,
// extraction, scoring and deduplication.
type Pipeline struct {
	Fetcher    scraper.Fetcher
	Classifier scraper.SiteClassifier
	Discoverer scraper.LinkDiscoverer
	Extractor  scraper.ContentExtractor
	Scorer     scraper.QualityScorer

	// Dedup is shared across all sources of a run. A fresh in-memory
	// deduplicator is used when nil.
	Dedup *Deduplicator

	Metrics     scraper.Metrics
	Logger      *slog.Logger
	Clock       Clock
	Concurrency int
}

// ProgressEvent reports progress during a run.
type ProgressEvent struct {
	Type      ProgressType
	Source    string
	Completed int
	Total     int
	URL       string
	Outcome   scraper.Outcome
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting run progress.
type ProgressFunc func(event ProgressEvent)

// linkResult holds the outcome of processing a single discovered link.
type linkResult struct {
	position int
	url      string
	fetched  bool
	outcome  scraper.Outcome
	record   *scraper.ScoredRecord
	canceled bool
	err      error
}

// Run processes sources in order and returns the accepted records with a
// report per source. The result is never nil. Configuration errors halt
// the affected source only; they are joined into the returned error.
// Cancellation of ctx stops the run and marks the result interrupted.
func (p *Pipeline) Run(ctx context.Context, sources []*scraper.Source, progress ProgressFunc) (*scraper.RunResult, error) {
	clock := p.clock()
	result := &scraper.RunResult{
		ID:        uuid.New().String(),
		StartedAt: clock.Now(),
	}

	dedup := p.Dedup
	if dedup == nil {
		dedup = NewDeduplicator(NewSeenSet(nil))
	}

	var errs []error
	for _, src := range sources {
		if ctx.Err() != nil {
			result.Reports = append(result.Reports, scraper.SourceReport{
				Source: src.Label(),
				URL:    src.URL,
				Status: scraper.SourceCanceled,
				Err:    ctx.Err(),
			})
			continue
		}

		report, records, err := p.runSource(ctx, src, dedup, progress)
		if err != nil {
			errs = append(errs, err)
		}
		result.Records = append(result.Records, records...)
		result.Reports = append(result.Reports, *report)
	}

	result.Interrupted = ctx.Err() != nil
	result.FinishedAt = clock.Now()

	p.logger().Info("run finished",
		"run", result.ID,
		"records", len(result.Records),
		"sources", len(sources),
		"interrupted", result.Interrupted,
		"duration", result.FinishedAt.Sub(result.StartedAt),
	)

	return result, errors.Join(errs...)
}

// runSource processes one source. The returned error is a
// *scraper.PipelineError for configuration or programming errors only.
func (p *Pipeline) runSource(ctx context.Context, src *scraper.Source, dedup *Deduplicator, progress ProgressFunc) (*scraper.SourceReport, []scraper.Record, error) {
	label := src.Label()
	report := &scraper.SourceReport{Source: label, URL: src.URL}
	logger := p.logger().With("source", label)

	if !src.Enabled {
		report.Status = scraper.SourceDisabled
		logger.Info("source disabled")
		return report, nil, nil
	}

	if err := src.Validate(); err != nil {
		report.Status = scraper.SourceFailed
		report.Err = err
		return report, nil, &scraper.PipelineError{Source: label, Stage: "validate", Err: err}
	}

	notify(progress, ProgressEvent{Type: ProgressStarted, Source: label, URL: src.URL})
	defer func() {
		notify(progress, ProgressEvent{
			Type:      ProgressFinished,
			Source:    label,
			Completed: report.Discovered,
			Total:     report.Discovered,
		})
		logger.Info("source finished",
			"status", report.Status,
			"site_type", report.SiteType,
			"discovered", report.Discovered,
			"accepted", report.Accepted,
			"rejected", report.Rejected,
			"duplicates", report.Duplicates,
			"err", report.Err,
		)
	}()

	base, err := p.Fetcher.Fetch(ctx, src.URL)
	if err != nil {
		report.Status = scraper.SourceFailed
		report.Err = err
		return report, nil, &scraper.PipelineError{Source: label, Stage: "fetch", Err: err}
	}
	if !base.OK() {
		report.Err = base.Failure()
		switch {
		case ctx.Err() != nil:
			report.Status = scraper.SourceCanceled
			report.Err = ctx.Err()
		case base.Status == scraper.FetchBlocked:
			report.Status = scraper.SourceBlocked
			p.metrics().ObserveOutcome(label, scraper.OutcomeBlocked)
		default:
			report.Status = scraper.SourceFailed
			p.metrics().ObserveOutcome(label, scraper.OutcomeFetchFailed)
		}
		return report, nil, nil
	}

	siteType := p.Classifier.Classify(src.URL, base.Body)
	report.SiteType = siteType

	listing := &scraper.Listing{Source: src, SiteType: siteType, Page: base}
	records, err := p.processLinks(ctx, listing, report, dedup, progress)

	switch {
	case ctx.Err() != nil:
		report.Status = scraper.SourceCanceled
		report.Err = ctx.Err()
	case report.Discovered > 0 && report.Fetched == 0 && report.Blocked == report.Discovered:
		report.Status = scraper.SourceBlocked
		report.Err = scraper.Errorf(scraper.EBLOCKED, "all %d links blocked", report.Discovered)
	case report.Discovered > 0 && report.Fetched == 0:
		report.Status = scraper.SourceFailed
		report.Err = scraper.Errorf(scraper.EPERMANENT, "all %d links failed to fetch", report.Discovered)
	default:
		report.Status = scraper.SourceOK
		if err != nil {
			report.Err = err
		}
	}

	return report, records, nil
}

// processLinks consumes the discovery sequence, fans links out to a
// bounded worker pool and reassembles the results in discovery order.
// The returned error describes a discovery failure; links found before
// it are still processed.
func (p *Pipeline) processLinks(ctx context.Context, listing *scraper.Listing, report *scraper.SourceReport, dedup *Deduplicator, progress ProgressFunc) ([]scraper.Record, error) {
	src := listing.Source
	label := src.Label()

	concurrency := p.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	resultCh := make(chan linkResult, concurrency)
	discovered := make(chan int, 1)
	var discoverErr error

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		n := 0
		for link, err := range p.Discoverer.Discover(gctx, listing, src.PageBudget) {
			if err != nil {
				if gctx.Err() == nil {
					discoverErr = err
				}
				break
			}
			if src.MaxArticles > 0 && n >= src.MaxArticles {
				break
			}
			position := n
			n++
			g.Go(func() error {
				resultCh <- p.processLink(gctx, listing, position, link)
				return nil
			})
		}
		_ = g.Wait()
		discovered <- n
		close(resultCh)
	}()

	var (
		records []scraper.Record
		pending = make(map[int]linkResult)
		next    = 0
	)
	for res := range resultCh {
		pending[res.position] = res
		for {
			r, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			if rec := p.handleResult(ctx, src, r, report, dedup, progress); rec != nil {
				records = append(records, *rec)
			}
		}
	}
	report.Discovered = <-discovered

	if discoverErr != nil {
		p.logger().Warn("discovery stopped", "source", label, "err", discoverErr)
	}
	return records, discoverErr
}

// processLink fetches, extracts and scores one link.
func (p *Pipeline) processLink(ctx context.Context, listing *scraper.Listing, position int, link string) linkResult {
	result := linkResult{position: position, url: link}

	res, err := p.Fetcher.Fetch(ctx, link)
	if err != nil {
		result.outcome = scraper.OutcomeFetchFailed
		result.err = err
		return result
	}
	if !res.OK() {
		if ctx.Err() != nil {
			result.canceled = true
			return result
		}
		result.outcome = scraper.OutcomeFetchFailed
		if res.Status == scraper.FetchBlocked {
			result.outcome = scraper.OutcomeBlocked
		}
		result.err = res.Failure()
		return result
	}
	result.fetched = true

	candidate, err := p.Extractor.Extract(&scraper.Page{
		URL:      res.URL,
		HTML:     res.Body,
		Source:   listing.Source,
		SiteType: listing.SiteType,
	})
	if err != nil {
		result.outcome = scraper.OutcomeEmpty
		result.err = err
		return result
	}
	if candidate.SourceURL == "" {
		candidate.SourceURL = res.URL
	}

	scored, err := p.Scorer.Evaluate(candidate)
	if err != nil {
		result.outcome = scraper.OutcomeRejected
		result.err = err
		return result
	}
	scored.ContentHash = Fingerprint(scored.Body)

	result.outcome = scraper.OutcomeAccepted
	result.record = scored
	return result
}

// handleResult updates the report for one link in discovery order and
// returns the output record when the link was accepted.
func (p *Pipeline) handleResult(ctx context.Context, src *scraper.Source, r linkResult, report *scraper.SourceReport, dedup *Deduplicator, progress ProgressFunc) *scraper.Record {
	label := src.Label()
	if r.canceled {
		return nil
	}
	if r.fetched {
		report.Fetched++
	}

	var rec *scraper.Record
	outcome := r.outcome
	err := r.err

	// An invalid record must not claim its hash, or a valid copy of the same
	// body found later would be dropped as a duplicate.
	if outcome == scraper.OutcomeAccepted {
		hashOf(r.record)
		rec = newRecord(src, r.record, p.clock())
		if verr := rec.Validate(); verr != nil {
			outcome = scraper.OutcomeRejected
			err = verr
			rec = nil
		}
	}
	if outcome == scraper.OutcomeAccepted {
		dup, claimErr := dedup.Claim(ctx, r.record)
		if claimErr != nil {
			p.logger().Warn("seen store unavailable", "source", label, "url", r.url, "err", claimErr)
		}
		if dup {
			outcome = scraper.OutcomeDuplicate
			err = nil
			rec = nil
		}
	}

	switch outcome {
	case scraper.OutcomeAccepted:
		report.Accepted++
	case scraper.OutcomeRejected:
		report.Rejected++
	case scraper.OutcomeEmpty:
		report.Empty++
	case scraper.OutcomeDuplicate:
		report.Duplicates++
	case scraper.OutcomeBlocked:
		report.Blocked++
	case scraper.OutcomeFetchFailed:
		report.FetchFailed++
	}
	p.metrics().ObserveOutcome(label, outcome)

	event := ProgressEvent{
		Type:      ProgressCompleted,
		Source:    label,
		Completed: r.position + 1,
		URL:       r.url,
		Outcome:   outcome,
	}
	if outcome != scraper.OutcomeAccepted {
		event.Type = ProgressFailed
		event.Error = err
		p.logger().Debug("link dropped", "source", label, "url", r.url, "outcome", outcome, "err", err)
	}
	notify(progress, event)

	return rec
}

// newRecord converts an accepted candidate into an output record.
func newRecord(src *scraper.Source, scored *scraper.ScoredRecord, clock Clock) *scraper.Record {
	author := strings.TrimSpace(scored.Author)
	if author == "" {
		author = src.Author
	}

	reading := 0
	if scored.WordCount > 0 {
		reading = max(1, scored.WordCount/wordsPerMinute)
	}

	meta := scraper.Metadata{
		ScrapedAt:            clock.Now().UTC(),
		ContentHash:          scored.ContentHash,
		WordCount:            scored.WordCount,
		EstimatedReadingTime: reading,
		QualityScore:         scored.QualityScore,
		DetectedType:         scored.DetectedType,
	}
	if !scored.PublishedAt.IsZero() {
		published := scored.PublishedAt.UTC()
		meta.PublishedAt = &published
	}

	return &scraper.Record{
		Title:       truncateRunes(strings.TrimSpace(scored.Title), scraper.MaxTitleLength),
		Content:     scored.Body,
		ContentType: src.ContentType,
		SourceURL:   scored.SourceURL,
		Author:      author,
		UserID:      src.UserID,
		Metadata:    meta,
	}
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:n]))
}

func notify(progress ProgressFunc, event ProgressEvent) {
	if progress != nil {
		progress(event)
	}
}

func (p *Pipeline) clock() Clock {
	if p.Clock == nil {
		return SystemClock{}
	}
	return p.Clock
}

func (p *Pipeline) metrics() scraper.Metrics {
	if p.Metrics == nil {
		return scraper.NopMetrics{}
	}
	return p.Metrics
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.Logger
}
