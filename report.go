package scraper

import (
	"context"
	"time"
)

// SourceStatus summarizes how processing of one source ended.
type SourceStatus string

// Source statuses.
const (
	SourceOK       SourceStatus = "ok"
	SourceBlocked  SourceStatus = "blocked"
	SourceFailed   SourceStatus = "failed"
	SourceCanceled SourceStatus = "canceled"
	SourceDisabled SourceStatus = "disabled"
)

// SourceReport holds per-source counters for one run.
type SourceReport struct {
	Source   string       `json:"source"`
	URL      string       `json:"url"`
	SiteType SiteType     `json:"siteType"`
	Status   SourceStatus `json:"status"`

	Discovered  int `json:"discovered"`
	Fetched     int `json:"fetched"`
	Accepted    int `json:"accepted"`
	Rejected    int `json:"rejected"`
	Empty       int `json:"empty"`
	Duplicates  int `json:"duplicates"`
	FetchFailed int `json:"fetchFailed"`
	Blocked     int `json:"blocked"`

	Err error `json:"-"`
}

// AcceptanceRate returns accepted records over fetched pages.
func (r *SourceReport) AcceptanceRate() float64 {
	if r.Fetched == 0 {
		return 0
	}
	return float64(r.Accepted) / float64(r.Fetched)
}

// RunResult is what a pipeline run produced.
type RunResult struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time

	// Records preserves source order, then discovery order within a source.
	Records []Record
	Reports []SourceReport

	// Interrupted is set when the run deadline or cancellation stopped
	// processing before every source was finished.
	Interrupted bool
}

// Run converts the result into a persistable summary.
func (r *RunResult) Run(teamID string) *Run {
	run := &Run{
		ID:          r.ID,
		TeamID:      teamID,
		StartedAt:   r.StartedAt,
		FinishedAt:  r.FinishedAt,
		Interrupted: r.Interrupted,
		Sources:     append([]SourceReport(nil), r.Reports...),
	}
	for _, rep := range r.Reports {
		run.Accepted += rep.Accepted
		run.Rejected += rep.Rejected
		run.Duplicates += rep.Duplicates
	}
	return run
}

// Run is the persisted summary of a pipeline run.
type Run struct {
	ID          string         `json:"id"`
	TeamID      string         `json:"teamId"`
	StartedAt   time.Time      `json:"startedAt"`
	FinishedAt  time.Time      `json:"finishedAt"`
	Accepted    int            `json:"accepted"`
	Rejected    int            `json:"rejected"`
	Duplicates  int            `json:"duplicates"`
	Interrupted bool           `json:"interrupted"`
	Sources     []SourceReport `json:"sources"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.StartedAt.IsZero() {
		return Errorf(EINVALID, "run start time required")
	}
	if !r.FinishedAt.IsZero() && r.FinishedAt.Before(r.StartedAt) {
		return Errorf(EINVALID, "run finished before it started")
	}
	return nil
}

// RunService represents a service for managing run history.
type RunService interface {
	// CreateRun stores a run and its source reports.
	// An ID is assigned when the run has none.
	CreateRun(ctx context.Context, run *Run) error

	// FindRunByID retrieves a run by ID.
	// Returns ENOTFOUND if the run does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)

	// FindRuns retrieves runs, newest first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)

	// DeleteRun permanently removes a run.
	// Returns ENOTFOUND if the run does not exist.
	DeleteRun(ctx context.Context, id string) error
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	TeamID *string `json:"teamId"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
