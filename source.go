package scraper

import (
	"net/url"
	"strings"
)

// DefaultPageBudget is the number of listing pages visited per source
// when the configuration does not say otherwise.
const DefaultPageBudget = 5

// ContentType labels the kind of content a record holds.
type ContentType string

// Supported content types.
const (
	ContentTypeBlog              ContentType = "blog"
	ContentTypePodcastTranscript ContentType = "podcast_transcript"
	ContentTypeCallTranscript    ContentType = "call_transcript"
	ContentTypeLinkedInPost      ContentType = "linkedin_post"
	ContentTypeRedditComment     ContentType = "reddit_comment"
	ContentTypeBook              ContentType = "book"
	ContentTypeOther             ContentType = "other"
)

// ContentTypes lists every content type in a stable order.
func ContentTypes() []ContentType {
	return []ContentType{
		ContentTypeBlog,
		ContentTypePodcastTranscript,
		ContentTypeCallTranscript,
		ContentTypeLinkedInPost,
		ContentTypeRedditComment,
		ContentTypeBook,
		ContentTypeOther,
	}
}

// ParseContentType returns the content type named by s.
func ParseContentType(s string) (ContentType, error) {
	for _, t := range ContentTypes() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", Errorf(EINVALID, "unknown content type %q", s)
}

// Source is a configured entry point. It is immutable for a run.
type Source struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`

	// Type is an optional hint. When set, it is added to the
	// classification table as a prefix pattern for URL.
	Type SiteType `yaml:"type"`

	PageBudget int `yaml:"page_budget"`

	// MaxArticles caps the number of links processed. Zero means no cap.
	MaxArticles int `yaml:"max_articles"`

	ContentType ContentType `yaml:"content_type"`

	// Author is used when extraction finds no byline.
	Author string `yaml:"author"`
	UserID string `yaml:"user_id"`

	Enabled   bool        `yaml:"enabled"`
	Selectors SelectorSet `yaml:"selectors"`
}

// Label returns a human readable identifier for the source.
func (s *Source) Label() string {
	if s.Name != "" {
		return s.Name
	}
	return s.URL
}

// Validate returns an error if the source contains invalid fields.
func (s *Source) Validate() error {
	if s.URL == "" {
		return Errorf(EINVALID, "source URL required")
	}
	if _, err := ParseAbsoluteURL(s.URL); err != nil {
		return err
	}
	if s.PageBudget < 1 {
		return Errorf(EINVALID, "source %q: page budget must be at least 1", s.Label())
	}
	if s.MaxArticles < 0 {
		return Errorf(EINVALID, "source %q: max articles must not be negative", s.Label())
	}
	if _, err := ParseContentType(string(s.ContentType)); err != nil {
		return Errorf(EINVALID, "source %q: unknown content type %q", s.Label(), s.ContentType)
	}
	if s.Type != "" {
		if _, err := ParseSiteType(string(s.Type)); err != nil {
			return Errorf(EINVALID, "source %q: unknown site type %q", s.Label(), s.Type)
		}
	}
	return nil
}

// ParseAbsoluteURL parses rawURL and requires an http(s) scheme and a host.
func ParseAbsoluteURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, Errorf(EINVALID, "malformed URL %q: %v", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, Errorf(EINVALID, "URL %q must use http or https", rawURL)
	}
	if u.Host == "" {
		return nil, Errorf(EINVALID, "URL %q has no host", rawURL)
	}
	return u, nil
}
