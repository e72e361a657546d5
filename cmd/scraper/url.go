package main

import (
	"encoding/json"
	"fmt"

	scraper "github.com/Mario263/Technical-Web-scraper"
	"github.com/Mario263/Technical-Web-scraper/fs"
)

// Run executes the url command.
func (c *URLCmd) Run(deps *Dependencies) error {
	result, runErr := scrape(deps)
	if runErr != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", runErr)
		return runErr
	}

	out := &scraper.Output{TeamID: deps.Config.TeamID, Items: result.Records}
	if out.Items == nil {
		out.Items = []scraper.Record{}
	}

	if c.Output != "" {
		if err := fs.NewOutputStore(c.Output).Write(out); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", scraper.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Saved %d records to %s\n", len(out.Items), c.Output)
		return nil
	}

	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
