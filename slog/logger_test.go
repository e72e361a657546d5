package slog_test

import (
	"bytes"
	"encoding/json"
	"testing"

	scraper "github.com/Mario263/Technical-Web-scraper"
	scraperslog "github.com/Mario263/Technical-Web-scraper/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("writes text at the requested level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger, err := scraperslog.NewLogger(&buf, "warn", "text")
		require.NoError(t, err)

		logger.Info("hidden")
		logger.Warn("shown", "source", "blog")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "msg=shown source=blog")
	})

	t.Run("writes JSON", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger, err := scraperslog.NewLogger(&buf, "debug", "json")
		require.NoError(t, err)

		logger.Debug("fetch attempt", "attempt", 1)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "fetch attempt", entry["msg"])
		assert.Equal(t, "DEBUG", entry["level"])
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		t.Parallel()

		_, err := scraperslog.NewLogger(&bytes.Buffer{}, "loud", "text")

		assert.Equal(t, scraper.EINVALID, scraper.ErrorCode(err))
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		t.Parallel()

		_, err := scraperslog.NewLogger(&bytes.Buffer{}, "info", "xml")

		assert.Equal(t, scraper.EINVALID, scraper.ErrorCode(err))
	})
}
