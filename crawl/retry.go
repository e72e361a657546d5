package crawl

import (
	"math/rand/v2"
	"time"

	scraper "github.com/Mario263/Technical-Web-scraper"
)

// DefaultMaxAttempts is the absolute cap on requests per URL.
const DefaultMaxAttempts = 3

// Backoff computes exponential retry delays with additive jitter.
type Backoff struct {
	Base time.Duration
	Max  time.Duration

	// Jitter is the upper bound of the random fraction added to each delay.
	Jitter float64

	// Rand returns a value in [0,1). Defaults to math/rand/v2.
	Rand func() float64
}

// DefaultBackoff returns 1s doubling delays with up to 25% jitter, capped at 60s.
func DefaultBackoff() Backoff {
	return Backoff{
		Base:   1 * time.Second,
		Max:    60 * time.Second,
		Jitter: 0.25,
	}
}

// Delay returns the wait after the given failed attempt (1-based):
// Base × 2^(attempt−1) plus jitter, never more than Max.
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	// Past 2^32 the cap always applies.
	exp := min(attempt-1, 32)
	d := float64(b.Base) * float64(uint64(1)<<exp)

	if b.Jitter > 0 {
		r := b.Rand
		if r == nil {
			r = rand.Float64
		}
		d += d * b.Jitter * r()
	}

	if b.Max > 0 && d > float64(b.Max) {
		return b.Max
	}
	return time.Duration(d)
}

// RetryState is a state of the RetryMachine.
type RetryState string

// Retry machine states.
const (
	StateAttempting RetryState = "attempting"
	StateWaiting    RetryState = "waiting"
	StateSucceeded  RetryState = "succeeded"
	StateFailed     RetryState = "failed"
)

// RetryMachine tracks the retry lifecycle of one URL.
//
//	attempting --ok--> succeeded
//	attempting --transient, attempts left--> waiting --Resume--> attempting
//	attempting --anything else--> failed
//
// Abort moves any non-terminal state to failed.
type RetryMachine struct {
	maxAttempts int
	backoff     Backoff

	state   RetryState
	attempt int
	wait    time.Duration
}

// NewRetryMachine returns a machine in the attempting state for attempt 1.
// maxAttempts is clamped to [1, DefaultMaxAttempts].
func NewRetryMachine(maxAttempts int, backoff Backoff) *RetryMachine {
	if maxAttempts < 1 || maxAttempts > DefaultMaxAttempts {
		maxAttempts = DefaultMaxAttempts
	}
	return &RetryMachine{
		maxAttempts: maxAttempts,
		backoff:     backoff,
		state:       StateAttempting,
		attempt:     1,
	}
}

// State returns the current state.
func (m *RetryMachine) State() RetryState { return m.state }

// Attempt returns the 1-based number of the current or last attempt.
func (m *RetryMachine) Attempt() int { return m.attempt }

// Wait returns the delay computed when the machine entered waiting.
func (m *RetryMachine) Wait() time.Duration { return m.wait }

// Record feeds the outcome of the current attempt and returns the new state.
// It is a no-op outside the attempting state.
func (m *RetryMachine) Record(status scraper.FetchStatus) RetryState {
	if m.state != StateAttempting {
		return m.state
	}
	switch {
	case status == scraper.FetchOK:
		m.state = StateSucceeded
	case status == scraper.FetchTransientError && m.attempt < m.maxAttempts:
		m.state = StateWaiting
		m.wait = m.backoff.Delay(m.attempt)
	default:
		m.state = StateFailed
	}
	return m.state
}

// Resume leaves the waiting state and starts the next attempt.
func (m *RetryMachine) Resume() RetryState {
	if m.state == StateWaiting {
		m.state = StateAttempting
		m.attempt++
		m.wait = 0
	}
	return m.state
}

// Abort ends the machine in the failed state.
func (m *RetryMachine) Abort() {
	if m.state != StateSucceeded {
		m.state = StateFailed
	}
}

// Done reports whether the machine reached a terminal state.
func (m *RetryMachine) Done() bool {
	return m.state == StateSucceeded || m.state == StateFailed
}
