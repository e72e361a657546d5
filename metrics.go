package scraper

import "time"

// Outcome is the fate of one discovered link.
type Outcome string

// Link outcomes.
const (
	OutcomeAccepted    Outcome = "accepted"
	OutcomeRejected    Outcome = "rejected"
	OutcomeEmpty       Outcome = "empty"
	OutcomeDuplicate   Outcome = "duplicate"
	OutcomeFetchFailed Outcome = "fetch_failed"
	OutcomeBlocked     Outcome = "blocked"
)

// Metrics receives pipeline observations.
type Metrics interface {
	// ObserveFetch records a single fetch attempt.
	ObserveFetch(host string, status FetchStatus, latency time.Duration)

	// ObserveOutcome records what happened to one discovered link.
	ObserveOutcome(source string, outcome Outcome)
}

// NopMetrics discards all observations.
type NopMetrics struct{}

func (NopMetrics) ObserveFetch(string, FetchStatus, time.Duration) {}
func (NopMetrics) ObserveOutcome(string, Outcome)                  {}
