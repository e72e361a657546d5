package goquery_test

import (
	"testing"
	"time"

	scraper "github.com/Mario263/Technical-Web-scraper"
	"github.com/Mario263/Technical-Web-scraper/goquery"
	"github.com/Mario263/Technical-Web-scraper/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const blogArticle = `<html><head><title>Site | Understanding Channels</title></head>
<body>
<header><nav><a href="/">Home</a></nav>
<h1 class="post-title">Understanding Channels</h1>
<span class="author">Jane Doe</span>
<time datetime="2024-03-15T10:00:00Z">March 15</time>
</header>
<article><div class="post-content">
<p>Channels are the pipes that connect concurrent goroutines in Go programs.</p>
<p>You can send values into channels from one goroutine and receive them in another.</p>
</div></article>
<footer>Copyright Example Inc</footer>
</body></html>`

func TestSelectorStrategy_Attempt(t *testing.T) {
	t.Parallel()

	t.Run("extracts title, byline, date and body", func(t *testing.T) {
		t.Parallel()

		s := &goquery.SelectorStrategy{Registry: goquery.NewRegistry(), Converter: htmltomarkdown.NewConverter()}
		page := &scraper.Page{URL: "https://example.com/blog/channels", HTML: []byte(blogArticle), SiteType: scraper.SiteTypeBlogListing}

		rec, ok := s.Attempt(page)

		require.True(t, ok)
		assert.Equal(t, "Understanding Channels", rec.Title)
		assert.Equal(t, "Jane Doe", rec.Author)
		assert.True(t, rec.PublishedAt.Equal(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)))
		assert.Contains(t, rec.Body, "Channels are the pipes")
		assert.NotContains(t, rec.Body, "Copyright")
		assert.Equal(t, "https://example.com/blog/channels", rec.SourceURL)
		assert.Greater(t, rec.RawTextLength, goquery.DefaultFloor)
	})

	t.Run("source selectors override the defaults", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>Custom</title></head><body>
<div class="custom-body"><p>This body only matches the selector configured for the source itself.</p></div>
</body></html>`
		s := &goquery.SelectorStrategy{Registry: goquery.NewRegistry(), Converter: htmltomarkdown.NewConverter()}
		page := &scraper.Page{
			URL:      "https://example.com/blog/custom",
			HTML:     []byte(html),
			SiteType: scraper.SiteTypeBlogListing,
			Source:   &scraper.Source{Selectors: scraper.SelectorSet{Body: []string{".custom-body"}}},
		}

		rec, ok := s.Attempt(page)

		require.True(t, ok)
		assert.Equal(t, "Custom", rec.Title)
		assert.Contains(t, rec.Body, "configured for the source")
	})

	t.Run("fails when the body is below the floor", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><div class="post-content"><p>Too short.</p></div></body></html>`
		s := &goquery.SelectorStrategy{Registry: goquery.NewRegistry(), Converter: htmltomarkdown.NewConverter()}

		_, ok := s.Attempt(&scraper.Page{URL: "https://example.com/blog/x", HTML: []byte(html), SiteType: scraper.SiteTypeBlogListing})

		assert.False(t, ok)
	})
}

func TestDensityStrategy_Attempt(t *testing.T) {
	t.Parallel()

	t.Run("picks the densest container", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>Doc Title</title></head><body>
<div id="wrap"><main>
<h1>Heading One</h1>
<p>Dense paragraphs of prose score well because they carry a lot of text per element.</p>
<p>A second paragraph adds even more text without adding many elements at all.</p>
</main></div>
<div class="content-links"><a href="/a">a</a><a href="/b">b</a><a href="/c">c</a></div>
</body></html>`
		s := &goquery.DensityStrategy{Registry: goquery.NewRegistry(), Converter: htmltomarkdown.NewConverter()}

		rec, ok := s.Attempt(&scraper.Page{URL: "https://example.com/notes/density", HTML: []byte(html), SiteType: scraper.SiteTypeGeneric})

		require.True(t, ok)
		assert.Equal(t, "Heading One", rec.Title)
		assert.Contains(t, rec.Body, "Dense paragraphs of prose")
		assert.NotContains(t, rec.Body, "content-links")
	})

	t.Run("falls back to the document title without a heading", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>Doc Title</title></head><body>
<article><p>An article without any heading still has more than enough text to be kept.</p></article>
</body></html>`
		s := &goquery.DensityStrategy{Registry: goquery.NewRegistry(), Converter: htmltomarkdown.NewConverter()}

		rec, ok := s.Attempt(&scraper.Page{URL: "https://example.com/notes/untitled", HTML: []byte(html)})

		require.True(t, ok)
		assert.Equal(t, "Doc Title", rec.Title)
	})

	t.Run("fails without a candidate above the floor", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><main><p>Tiny.</p></main></body></html>`
		s := &goquery.DensityStrategy{Registry: goquery.NewRegistry(), Converter: htmltomarkdown.NewConverter()}

		_, ok := s.Attempt(&scraper.Page{URL: "https://example.com/x", HTML: []byte(html)})

		assert.False(t, ok)
	})
}

func TestPlainTextStrategy_Attempt(t *testing.T) {
	t.Parallel()

	t.Run("keeps one paragraph per block without chrome", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>Plain</title><script>var x = 1;</script></head><body>
<nav>Menu</nav>
<div>First paragraph with enough words to clear the floor easily here.</div>
<div>Second paragraph.</div>
</body></html>`
		s := &goquery.PlainTextStrategy{}

		rec, ok := s.Attempt(&scraper.Page{URL: "https://example.com/plain", HTML: []byte(html)})

		require.True(t, ok)
		assert.Equal(t, "Plain", rec.Title)
		assert.Equal(t, "First paragraph with enough words to clear the floor easily here.\n\nSecond paragraph.", rec.Body)
	})

	t.Run("fails below the floor", func(t *testing.T) {
		t.Parallel()

		s := &goquery.PlainTextStrategy{Floor: 100}

		_, ok := s.Attempt(&scraper.Page{URL: "https://example.com/plain", HTML: []byte(`<html><body><p>Some text but not a hundred characters.</p></body></html>`)})

		assert.False(t, ok)
	})
}
