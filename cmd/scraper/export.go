package main

import (
	"fmt"
	"os"
	"path/filepath"

	scraper "github.com/Mario263/Technical-Web-scraper"
	"github.com/Mario263/Technical-Web-scraper/fs"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	if dir := filepath.Dir(c.Output); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.Create(c.Output)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	rows, err := fs.ExportCSV(f, c.Inputs)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(c.Output)
		fmt.Fprintf(deps.Stderr, "error: %s\n", scraper.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Exported %d rows from %d files to %s\n", rows, len(c.Inputs), c.Output)
	return nil
}
