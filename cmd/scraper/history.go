package main

import (
	"fmt"
	"time"

	scraper "github.com/Mario263/Technical-Web-scraper"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	if c.Delete != "" {
		if err := deps.Runs.DeleteRun(deps.Ctx, c.Delete); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", scraper.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Deleted run %s\n", c.Delete)
		return nil
	}

	filter := scraper.RunFilter{Limit: c.Limit}
	if c.TeamID != "" {
		filter.TeamID = &c.TeamID
	}
	runs, err := deps.Runs.FindRuns(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scraper.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs found. Use 'scraper run --db' to record one.")
		return nil
	}

	for _, r := range runs {
		status := "complete"
		if r.Interrupted {
			status = "interrupted"
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %-11s accepted=%d rejected=%d duplicates=%d sources=%d\n",
			r.ID, r.StartedAt.Format(time.RFC3339), r.TeamID, status,
			r.Accepted, r.Rejected, r.Duplicates, len(r.Sources))
	}
	return nil
}
