package crawl

import (
	"fmt"
	"strings"

	scraper "github.com/Mario263/Technical-Web-scraper"
)

// ShortURL renders a link for progress output: the scheme is dropped and,
// past maxLen runes, the middle of the path is elided so that the host
// and the article slug stay visible.
func ShortURL(rawURL string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	s := rawURL
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}

	host, _, _ := strings.Cut(s, "/")
	hr := []rune(host)
	// Room for host + "/…" + at least a few runes of the tail.
	if len(hr)+2+8 > maxLen {
		return "…" + string(r[len(r)-(maxLen-1):])
	}
	tail := maxLen - len(hr) - 2
	return host + "/…" + string(r[len(r)-tail:])
}

// FormatSize renders a file size with a binary unit.
func FormatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit && exp < 2; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMG"[exp])
}

// FormatRate formats an acceptance rate as a percentage.
func FormatRate(rate float64) string {
	return fmt.Sprintf("%.0f%%", rate*100)
}

// FormatReport renders one line per source report.
func FormatReport(r *scraper.SourceReport) string {
	line := fmt.Sprintf("%-24s %-9s %-18s discovered=%d fetched=%d accepted=%d rejected=%d empty=%d duplicates=%d blocked=%d failed=%d rate=%s",
		r.Source, r.Status, r.SiteType,
		r.Discovered, r.Fetched, r.Accepted, r.Rejected, r.Empty, r.Duplicates, r.Blocked, r.FetchFailed,
		FormatRate(r.AcceptanceRate()))
	if r.Err != nil {
		line += " err=" + scraper.ErrorMessage(r.Err)
	}
	return line
}
