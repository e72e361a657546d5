package crawl_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/Mario263/Technical-Web-scraper/crawl"
	"github.com/stretchr/testify/assert"
)

func TestIsBlocked(t *testing.T) {
	t.Parallel()

	largeBody := []byte("<html><body>" + strings.Repeat("<p>Forbidden resource.</p>", 50) + "</body></html>")
	challenge := []byte("<html><head><title>Just a moment...</title></head><body>" +
		strings.Repeat("<div class=\"cf-browser-verification\"></div>", 30) + "</body></html>")

	tests := []struct {
		name    string
		status  int
		header  http.Header
		body    []byte
		blocked bool
	}{
		{"403 with challenge markers", http.StatusForbidden, nil, challenge, true},
		{"403 with tiny body", http.StatusForbidden, nil, []byte("denied"), true},
		{"429 with tiny body", http.StatusTooManyRequests, nil, nil, true},
		{"403 with cf-mitigated header", http.StatusForbidden, http.Header{"Cf-Mitigated": {"challenge"}}, largeBody, true},
		{"429 with datadome header", http.StatusTooManyRequests, http.Header{"X-Datadome": {"protected"}}, largeBody, true},
		{"403 served by cloudflare", http.StatusForbidden, http.Header{"Server": {"cloudflare"}}, largeBody, true},
		{"403 plain error page", http.StatusForbidden, nil, largeBody, false},
		{"429 from cloudflare without markers", http.StatusTooManyRequests, http.Header{"Server": {"cloudflare"}}, largeBody, false},
		{"200 with challenge markers", http.StatusOK, nil, challenge, false},
		{"503 with tiny body", http.StatusServiceUnavailable, nil, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.blocked, crawl.IsBlocked(tt.status, tt.header, tt.body))
		})
	}
}
