package main_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	scraper "github.com/Mario263/Technical-Web-scraper"
	main "github.com/Mario263/Technical-Web-scraper/cmd/scraper"
	"github.com/Mario263/Technical-Web-scraper/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists runs with counters", func(t *testing.T) {
		t.Parallel()

		var gotFilter scraper.RunFilter
		runs := &mock.RunService{
			FindRunsFn: func(_ context.Context, filter scraper.RunFilter) ([]*scraper.Run, error) {
				gotFilter = filter
				return []*scraper.Run{
					{
						ID:        "run-2",
						TeamID:    "aline123",
						StartedAt: time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC),
						Accepted:  12,
						Rejected:  3,
						Sources:   []scraper.SourceReport{{Source: "blog"}},
					},
					{
						ID:          "run-1",
						TeamID:      "aline123",
						StartedAt:   time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
						Interrupted: true,
					},
				}, nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Runs: runs}

		err := (&main.HistoryCmd{TeamID: "aline123", Limit: 5}).Run(deps)

		require.NoError(t, err)
		require.NotNil(t, gotFilter.TeamID)
		assert.Equal(t, "aline123", *gotFilter.TeamID)
		assert.Equal(t, 5, gotFilter.Limit)
		output := stdout.String()
		assert.Contains(t, output, "run-2  2024-05-02T09:00:00Z  aline123  complete")
		assert.Contains(t, output, "accepted=12 rejected=3")
		assert.Contains(t, output, "sources=1")
		assert.Contains(t, output, "interrupted")
	})

	t.Run("shows helpful message when no runs exist", func(t *testing.T) {
		t.Parallel()

		runs := &mock.RunService{
			FindRunsFn: func(context.Context, scraper.RunFilter) ([]*scraper.Run, error) {
				return nil, nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Runs: runs}

		err := (&main.HistoryCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No runs found")
	})

	t.Run("deletes a run", func(t *testing.T) {
		t.Parallel()

		var deleted string
		runs := &mock.RunService{
			DeleteRunFn: func(_ context.Context, id string) error {
				deleted = id
				return nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Runs: runs}

		err := (&main.HistoryCmd{Delete: "run-1"}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "run-1", deleted)
		assert.Contains(t, stdout.String(), "Deleted run run-1")
	})

	t.Run("reports a missing run", func(t *testing.T) {
		t.Parallel()

		runs := &mock.RunService{
			DeleteRunFn: func(context.Context, string) error {
				return scraper.Errorf(scraper.ENOTFOUND, "run not found")
			},
		}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: stderr, Runs: runs}

		err := (&main.HistoryCmd{Delete: "missing"}).Run(deps)

		assert.Equal(t, scraper.ENOTFOUND, scraper.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error: run not found")
	})

	t.Run("reports a failing store", func(t *testing.T) {
		t.Parallel()

		runs := &mock.RunService{
			FindRunsFn: func(context.Context, scraper.RunFilter) ([]*scraper.Run, error) {
				return nil, errors.New("disk I/O error")
			},
		}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: stderr, Runs: runs}

		err := (&main.HistoryCmd{}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "Internal error")
	})
}
