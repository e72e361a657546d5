package mock

import scraper "github.com/Mario263/Technical-Web-scraper"

var _ scraper.Converter = (*Converter)(nil)

// Converter is a mock implementation of scraper.Converter.
type Converter struct {
	ConvertFn func(html, pageURL string) (string, error)
}

func (c *Converter) Convert(html, pageURL string) (string, error) {
	return c.ConvertFn(html, pageURL)
}
