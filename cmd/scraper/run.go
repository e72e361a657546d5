package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	scraper "github.com/Mario263/Technical-Web-scraper"
	"github.com/Mario263/Technical-Web-scraper/crawl"
	"github.com/Mario263/Technical-Web-scraper/fs"
)

// Run executes the run command.
func (c *RunCmd) Run(deps *Dependencies) error {
	result, runErr := scrape(deps)

	out := &scraper.Output{TeamID: deps.Config.TeamID, Items: result.Records}
	store := fs.NewOutputStore(c.Output)
	if err := store.Write(out); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scraper.ErrorMessage(err))
		return err
	}
	var size int64
	if fi, err := os.Stat(store.Path()); err == nil {
		size = fi.Size()
	}
	fmt.Fprintf(deps.Stdout, "Saved %d records to %s (%s)\n", len(out.Items), store.Path(), crawl.FormatSize(size))

	if c.Markdown != "" {
		if err := writeMarkdown(c.Markdown, result.Records); err != nil {
			fmt.Fprintf(deps.Stderr, "error writing markdown: %v\n", err)
			return err
		}
	}

	if deps.Runs != nil {
		run := result.Run(deps.Config.TeamID)
		if err := deps.Runs.CreateRun(context.WithoutCancel(deps.Ctx), run); err != nil {
			fmt.Fprintf(deps.Stderr, "error saving run: %s\n", scraper.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Recorded run %s\n", run.ID)
	}

	if runErr != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", runErr)
		return runErr
	}
	return nil
}

// scrape runs the pipeline over the configured sources, printing progress
// and a report line per source.
func scrape(deps *Dependencies) (*scraper.RunResult, error) {
	ctx := deps.Ctx
	if deps.Config.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, deps.Config.Deadline)
		defer cancel()
	}

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stderr, "Scraping %s\n", event.Source)
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  %s %s\n", event.Outcome, crawl.ShortURL(event.URL, 80))
		case crawl.ProgressFinished:
			fmt.Fprintf(deps.Stderr, "  %d links processed\n", event.Total)
		}
	}

	result, err := deps.Pipeline.Run(ctx, deps.Config.Sources, progress)
	for i := range result.Reports {
		fmt.Fprintln(deps.Stdout, crawl.FormatReport(&result.Reports[i]))
	}
	if result.Interrupted {
		fmt.Fprintln(deps.Stderr, "Run interrupted; keeping records accepted so far")
	}
	return result, err
}

func writeMarkdown(dir string, records []scraper.Record) error {
	dir = filepath.Clean(dir)
	store := fs.NewMarkdownStore(filepath.Dir(dir), filepath.Base(dir))
	for i := range records {
		if err := store.Save(&records[i]); err != nil {
			_ = store.Abort()
			return err
		}
	}
	return store.Commit()
}
