// Package slog provides logging decorators for scraper services and the
// logger constructor used by the command line.
package slog

import (
	"io"
	"log/slog"
	"strings"

	scraper "github.com/Mario263/Technical-Web-scraper"
)

// Log output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// NewLogger returns a logger writing to w at the named level in the given
// format. Returns EINVALID for an unknown level or format.
func NewLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, scraper.Errorf(scraper.EINVALID, "unknown log level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case FormatText, "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, scraper.Errorf(scraper.EINVALID, "unknown log format %q", format)
	}
}
