package scraper

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// FetchStatus is the outcome of a fetch attempt sequence.
type FetchStatus string

// Fetch outcomes.
const (
	FetchOK             FetchStatus = "ok"
	FetchTransientError FetchStatus = "transient_error"
	FetchPermanentError FetchStatus = "permanent_error"
	FetchBlocked        FetchStatus = "blocked"
)

// FetchResult holds the outcome of fetching one URL, including retries.
type FetchResult struct {
	URL        string
	Status     FetchStatus
	StatusCode int
	Header     http.Header

	// Body is nil unless Status is FetchOK.
	Body []byte

	// Attempts is the number of requests issued, at most the controller cap.
	Attempts int
	Elapsed  time.Duration

	// Err is the last transport error, if any.
	Err error
}

// OK reports whether the fetch succeeded.
func (r *FetchResult) OK() bool {
	return r != nil && r.Status == FetchOK
}

// Failure maps a non-ok status to an application error.
// Returns nil for successful fetches.
func (r *FetchResult) Failure() error {
	switch r.Status {
	case FetchOK:
		return nil
	case FetchBlocked:
		return Errorf(EBLOCKED, "%s blocked (HTTP %d)", r.URL, r.StatusCode)
	case FetchPermanentError:
		return Errorf(EPERMANENT, "%s: %s", r.URL, r.describe())
	default:
		return Errorf(ETRANSIENT, "%s: %s after %d attempts", r.URL, r.describe(), r.Attempts)
	}
}

func (r *FetchResult) describe() string {
	if r.Err != nil {
		return r.Err.Error()
	}
	return fmt.Sprintf("HTTP %d", r.StatusCode)
}

// Fetcher retrieves pages with retry, backoff and rate limiting.
type Fetcher interface {
	// Fetch retrieves the URL. Expected failures are reported through
	// FetchResult.Status; an error is returned only for malformed URLs.
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// Response is a single HTTP exchange as seen by a Transport.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Transport performs one HTTP GET. Non-2xx statuses are not errors;
// errors are reserved for failures to obtain a response.
type Transport interface {
	Get(ctx context.Context, url string) (*Response, error)
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
