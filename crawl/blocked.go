package crawl

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"net/http"
	"strings"

	scraper "github.com/Mario263/Technical-Web-scraper"
)

// minChallengeBody is the size below which a 403/429 body is treated as a
// bot wall rather than a real error page.
const minChallengeBody = 512

// challengeMarkers are lowercase fragments of common anti-bot interstitials.
var challengeMarkers = [][]byte{
	[]byte("cf-browser-verification"),
	[]byte("challenge-platform"),
	[]byte("cf-chl-"),
	[]byte("just a moment..."),
	[]byte("checking your browser"),
	[]byte("attention required"),
	[]byte("captcha"),
	[]byte("ddos protection"),
	[]byte("enable javascript and cookies"),
	[]byte("_incapsula_resource"),
	[]byte("px-captcha"),
	[]byte("datadome"),
	[]byte("request unsuccessful. incapsula"),
}

// IsBlocked reports whether a response is an anti-bot block: status 403 or
// 429 together with a challenge marker, a tiny body, or a WAF header.
func IsBlocked(statusCode int, header http.Header, body []byte) bool {
	if statusCode != http.StatusForbidden && statusCode != http.StatusTooManyRequests {
		return false
	}
	if len(body) < minChallengeBody {
		return true
	}
	if hasChallengeHeader(statusCode, header) {
		return true
	}
	lower := bytes.ToLower(body)
	for _, m := range challengeMarkers {
		if bytes.Contains(lower, m) {
			return true
		}
	}
	return false
}

func hasChallengeHeader(statusCode int, header http.Header) bool {
	if header == nil {
		return false
	}
	if strings.EqualFold(header.Get("Cf-Mitigated"), "challenge") {
		return true
	}
	for _, h := range []string{"X-Datadome", "X-Sucuri-Block", "X-Amzn-Waf-Action"} {
		if header.Get(h) != "" {
			return true
		}
	}
	return statusCode == http.StatusForbidden &&
		strings.Contains(strings.ToLower(header.Get("Server")), "cloudflare")
}

// classifyResponse maps a response to a fetch status.
func classifyResponse(resp *scraper.Response) scraper.FetchStatus {
	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		return scraper.FetchOK
	case IsBlocked(code, resp.Header, resp.Body):
		return scraper.FetchBlocked
	case code == http.StatusRequestTimeout, code == http.StatusTooManyRequests:
		return scraper.FetchTransientError
	case code >= 500:
		return scraper.FetchTransientError
	default:
		return scraper.FetchPermanentError
	}
}

// classifyError maps a transport error to a fetch status. DNS and TLS
// failures are permanent; unknown errors are treated as transient.
func classifyError(err error) scraper.FetchStatus {
	switch scraper.ErrorCode(err) {
	case scraper.EPERMANENT, scraper.EINVALID:
		return scraper.FetchPermanentError
	case scraper.ETRANSIENT:
		return scraper.FetchTransientError
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return scraper.FetchTransientError
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return scraper.FetchTransientError
		}
		return scraper.FetchPermanentError
	}

	var (
		certErr     *tls.CertificateVerificationError
		recordErr   tls.RecordHeaderError
		unknownAuth x509.UnknownAuthorityError
		hostErr     x509.HostnameError
		invalidErr  x509.CertificateInvalidError
	)
	if errors.As(err, &certErr) || errors.As(err, &recordErr) ||
		errors.As(err, &unknownAuth) || errors.As(err, &hostErr) || errors.As(err, &invalidErr) {
		return scraper.FetchPermanentError
	}

	// Timeouts, connection resets and unexpected EOFs end up here.
	return scraper.FetchTransientError
}
