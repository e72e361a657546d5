package scraper

// Converter converts an extracted HTML fragment to normalized Markdown.
type Converter interface {
	// Convert keeps headings, paragraphs, lists and code blocks and
	// collapses runs of blank lines. Relative links and image sources are
	// resolved against pageURL when it is not empty.
	Convert(html, pageURL string) (string, error)
}
