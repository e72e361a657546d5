package prometheus_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	scraper "github.com/Mario263/Technical-Web-scraper"
	scraperprom "github.com/Mario263/Technical-Web-scraper/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveFetch(t *testing.T) {
	t.Parallel()

	t.Run("counts attempts by host and status", func(t *testing.T) {
		t.Parallel()

		m := scraperprom.NewMetrics()

		m.ObserveFetch("example.com", scraper.FetchOK, 120*time.Millisecond)
		m.ObserveFetch("example.com", scraper.FetchOK, 80*time.Millisecond)
		m.ObserveFetch("example.com", scraper.FetchTransientError, time.Second)

		assert.InDelta(t, 2, testutil.ToFloat64(m.FetchesTotal.WithLabelValues("example.com", "ok")), 0)
		assert.InDelta(t, 1, testutil.ToFloat64(m.FetchesTotal.WithLabelValues("example.com", "transient_error")), 0)
	})

	t.Run("records latency per host", func(t *testing.T) {
		t.Parallel()

		m := scraperprom.NewMetrics()

		m.ObserveFetch("a.example.com", scraper.FetchOK, time.Second)
		m.ObserveFetch("b.example.com", scraper.FetchBlocked, time.Second)

		assert.Equal(t, 2, testutil.CollectAndCount(m.FetchDuration))
	})
}

func TestMetrics_ObserveOutcome(t *testing.T) {
	t.Parallel()

	m := scraperprom.NewMetrics()

	m.ObserveOutcome("blog", scraper.OutcomeAccepted)
	m.ObserveOutcome("blog", scraper.OutcomeDuplicate)
	m.ObserveOutcome("blog", scraper.OutcomeAccepted)

	assert.InDelta(t, 2, testutil.ToFloat64(m.OutcomesTotal.WithLabelValues("blog", "accepted")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.OutcomesTotal.WithLabelValues("blog", "duplicate")), 0)
}

func TestMetrics_Handler(t *testing.T) {
	t.Parallel()

	m := scraperprom.NewMetrics()
	m.ObserveOutcome("blog", scraper.OutcomeRejected)
	srv := httptest.NewServer(m.Handler())
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `scraper_link_outcomes_total{outcome="rejected",source="blog"} 1`)
}
