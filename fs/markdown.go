package fs

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	scraper "github.com/Mario263/Technical-Web-scraper"
)

// URLToPath converts an article URL to a relative file path under a
// directory named after the host.
// Example: https://example.com/blog/rate-limiters → example.com/blog/rate-limiters.md
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", scraper.Errorf(scraper.EINVALID, "URL %q has no host", rawURL)
	}

	p := strings.TrimPrefix(u.Path, "/")
	switch {
	case p == "":
		p = "index.md"
	case strings.HasSuffix(p, "/"):
		p += "index.md"
	default:
		p += ".md"
	}
	return filepath.Join(strings.ToLower(u.Host), filepath.FromSlash(p)), nil
}

// FormatRecord formats a record as markdown with YAML frontmatter.
func FormatRecord(rec *scraper.Record) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(rec.SourceURL)
	b.WriteString("\ntitle: ")
	b.WriteString(rec.Title)
	if rec.Author != "" {
		b.WriteString("\nauthor: ")
		b.WriteString(rec.Author)
	}
	b.WriteString("\ntype: ")
	b.WriteString(string(rec.ContentType))
	b.WriteString("\nscraped: ")
	b.WriteString(rec.Metadata.ScrapedAt.Format("2006-01-02"))
	b.WriteString("\n---\n\n")
	b.WriteString(rec.Content)
	return b.String()
}

// MarkdownStore writes records as markdown files with atomic update
// semantics. Files are saved to baseDir/name.tmp and moved to
// baseDir/name on Commit.
type MarkdownStore struct {
	baseDir string
	name    string
}

// NewMarkdownStore creates a new MarkdownStore.
func NewMarkdownStore(baseDir, name string) *MarkdownStore {
	return &MarkdownStore{baseDir: baseDir, name: name}
}

func (s *MarkdownStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *MarkdownStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes one record into the staging directory.
func (s *MarkdownStore) Save(rec *scraper.Record) error {
	relPath, err := URLToPath(rec.SourceURL)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(s.tempDir(), relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(fullPath, []byte(FormatRecord(rec)), 0644)
}

// Commit replaces the final directory with the staged files.
func (s *MarkdownStore) Commit() error {
	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort discards the staged files.
func (s *MarkdownStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}
