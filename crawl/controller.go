package crawl

import (
	"context"
	"log/slog"
	"time"

	scraper "github.com/Mario263/Technical-Web-scraper"
)

var _ scraper.Fetcher = (*Controller)(nil)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 15 * time.Second

// Controller fetches URLs through a Transport with per-host rate limiting,
// per-attempt timeouts and retries for transient failures.
type Controller struct {
	Transport scraper.Transport
	Limiter   scraper.DomainLimiter // optional
	Clock     Clock
	Logger    *slog.Logger
	Metrics   scraper.Metrics

	MaxAttempts int
	Timeout     time.Duration
	Backoff     Backoff
}

// NewController returns a Controller with default limits around transport.
func NewController(transport scraper.Transport, logger *slog.Logger) *Controller {
	return &Controller{
		Transport:   transport,
		Limiter:     NewDelayLimiter(DefaultMinDelay),
		Clock:       SystemClock{},
		Logger:      logger,
		Metrics:     scraper.NopMetrics{},
		MaxAttempts: DefaultMaxAttempts,
		Timeout:     DefaultTimeout,
		Backoff:     DefaultBackoff(),
	}
}

// Fetch retrieves rawURL. Failures are reported through the result's
// Status; the only error returned is EINVALID for a malformed URL.
// Cancellation of ctx ends the fetch with Err set to the context error.
func (c *Controller) Fetch(ctx context.Context, rawURL string) (*scraper.FetchResult, error) {
	u, err := scraper.ParseAbsoluteURL(rawURL)
	if err != nil {
		return nil, err
	}
	target := u.String()
	clock := c.clock()
	begin := clock.Now()

	result := &scraper.FetchResult{URL: target}
	m := NewRetryMachine(c.MaxAttempts, c.backoff())

	for !m.Done() {
		switch m.State() {
		case StateAttempting:
			if err := c.wait(ctx, u.Host); err != nil {
				c.abort(m, result, err)
				continue
			}
			c.attempt(ctx, m, result, u.Host)

		case StateWaiting:
			if err := clock.Sleep(ctx, m.Wait()); err != nil {
				c.abort(m, result, err)
				continue
			}
			m.Resume()
		}
	}

	result.Elapsed = clock.Now().Sub(begin)
	return result, nil
}

// attempt issues one request and records its outcome in m and result.
func (c *Controller) attempt(ctx context.Context, m *RetryMachine, result *scraper.FetchResult, host string) {
	clock := c.clock()
	actx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	start := clock.Now()
	resp, err := c.Transport.Get(actx, result.URL)
	latency := clock.Now().Sub(start)

	result.Attempts = m.Attempt()
	result.StatusCode = 0
	result.Header = nil
	result.Body = nil
	result.Err = err

	var status scraper.FetchStatus
	if err != nil {
		status = classifyError(err)
	} else {
		status = classifyResponse(resp)
		result.StatusCode = resp.StatusCode
		result.Header = resp.Header
		if status == scraper.FetchOK {
			result.Body = resp.Body
		}
	}
	result.Status = status

	if ctx.Err() != nil && status != scraper.FetchOK {
		result.Err = ctx.Err()
		m.Abort()
	} else {
		m.Record(status)
	}

	c.metrics().ObserveFetch(host, status, latency)

	level := slog.LevelDebug
	if status != scraper.FetchOK {
		level = slog.LevelWarn
	}
	c.logger().Log(ctx, level, "fetch attempt",
		"url", result.URL,
		"attempt", result.Attempts,
		"outcome", status,
		"status", result.StatusCode,
		"latency", latency,
		"wait", m.Wait(),
		"err", err,
	)
}

// abort ends the machine after the run context was canceled.
func (c *Controller) abort(m *RetryMachine, result *scraper.FetchResult, err error) {
	m.Abort()
	if result.Status == "" || result.Status == scraper.FetchOK {
		result.Status = scraper.FetchTransientError
	}
	result.Body = nil
	result.Err = err
}

func (c *Controller) wait(ctx context.Context, host string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.Limiter == nil {
		return nil
	}
	return c.Limiter.Wait(ctx, host)
}

func (c *Controller) clock() Clock {
	if c.Clock == nil {
		return SystemClock{}
	}
	return c.Clock
}

func (c *Controller) backoff() Backoff {
	if c.Backoff.Base <= 0 {
		return DefaultBackoff()
	}
	return c.Backoff
}

func (c *Controller) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

func (c *Controller) metrics() scraper.Metrics {
	if c.Metrics == nil {
		return scraper.NopMetrics{}
	}
	return c.Metrics
}

func (c *Controller) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}
