package main

import (
	"fmt"

	scraper "github.com/Mario263/Technical-Web-scraper"
)

// Run executes the classify command.
func (c *ClassifyCmd) Run(deps *Dependencies) error {
	if _, err := scraper.ParseAbsoluteURL(c.URL); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scraper.ErrorMessage(err))
		return err
	}

	var sample []byte
	if !c.NoFetch {
		res, err := deps.Fetcher.Fetch(deps.Ctx, c.URL)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", scraper.ErrorMessage(err))
			return err
		}
		if res.OK() {
			sample = res.Body
		} else {
			fmt.Fprintf(deps.Stderr, "warning: %s; classifying from the URL alone\n", scraper.ErrorMessage(res.Failure()))
		}
	}

	fmt.Fprintln(deps.Stdout, deps.Classifier.Classify(c.URL, sample))
	return nil
}
