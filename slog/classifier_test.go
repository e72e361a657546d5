package slog_test

import (
	"bytes"
	"log/slog"
	"testing"

	scraper "github.com/Mario263/Technical-Web-scraper"
	"github.com/Mario263/Technical-Web-scraper/mock"
	scraperslog "github.com/Mario263/Technical-Web-scraper/slog"
	"github.com/stretchr/testify/assert"
)

func TestLoggingClassifier_Classify(t *testing.T) {
	t.Parallel()

	t.Run("logs the site type with duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.SiteClassifier{
			ClassifyFn: func(url string, page []byte) scraper.SiteType {
				return scraper.SiteTypeNewsletterArchive
			},
		}

		classifier := scraperslog.NewLoggingClassifier(inner, logger)
		st := classifier.Classify("https://example.substack.com", []byte("<html></html>"))

		assert.Equal(t, scraper.SiteTypeNewsletterArchive, st)
		output := buf.String()
		assert.Contains(t, output, "site classification")
		assert.Contains(t, output, "site_type=newsletter_archive")
		assert.Contains(t, output, "sampled=true")
		assert.Contains(t, output, "duration=")
	})

	t.Run("reports URL-only classification", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.SiteClassifier{
			ClassifyFn: func(string, []byte) scraper.SiteType { return scraper.SiteTypeGeneric },
		}

		scraperslog.NewLoggingClassifier(inner, logger).Classify("https://example.com", nil)

		assert.Contains(t, buf.String(), "sampled=false")
	})
}
