package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/Mario263/Technical-Web-scraper/mock"
	scraperslog "github.com/Mario263/Technical-Web-scraper/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func debugLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLoggingSeenStore(t *testing.T) {
	t.Parallel()

	t.Run("logs lookup hits", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.SeenStore{
			LookupFn: func(context.Context, string) (string, bool, error) {
				return "https://example.com/blog/a", true, nil
			},
		}

		url, ok, err := scraperslog.NewLoggingSeenStore(inner, debugLogger(&buf)).Lookup(context.Background(), "abc")

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "https://example.com/blog/a", url)
		assert.Contains(t, buf.String(), "seen lookup")
		assert.Contains(t, buf.String(), "hit=true")
	})

	t.Run("logs remember failures", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.SeenStore{
			RememberFn: func(context.Context, string, string) error {
				return errors.New("database is locked")
			},
		}

		err := scraperslog.NewLoggingSeenStore(inner, debugLogger(&buf)).Remember(context.Background(), "abc", "https://example.com/blog/a")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "seen remember")
		assert.Contains(t, buf.String(), `err="database is locked"`)
	})
}
