package scraper

// SiteType tags a source with the extraction cascade and link patterns
// that apply to it.
type SiteType string

// Supported site types.
const (
	SiteTypeBlogListing       SiteType = "blog_listing"
	SiteTypeNewsletterArchive SiteType = "newsletter_archive"
	SiteTypeGuideCollection   SiteType = "guide_collection"
	SiteTypeEducationalHub    SiteType = "educational_hub"
	SiteTypeGeneric           SiteType = "generic"
)

// SiteTypes lists every site type in a stable order.
func SiteTypes() []SiteType {
	return []SiteType{
		SiteTypeBlogListing,
		SiteTypeNewsletterArchive,
		SiteTypeGuideCollection,
		SiteTypeEducationalHub,
		SiteTypeGeneric,
	}
}

// ParseSiteType returns the site type named by s.
func ParseSiteType(s string) (SiteType, error) {
	for _, t := range SiteTypes() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", Errorf(EINVALID, "unknown site type %q", s)
}

// SelectorSet is the statically typed selector table for one site type.
// Empty fields mean "use the default for the site type".
type SelectorSet struct {
	Title  []string `yaml:"title"`
	Body   []string `yaml:"body"`
	Author []string `yaml:"author"`
	Date   []string `yaml:"date"`

	// Links selects candidate anchors on listing pages.
	Links []string `yaml:"links"`

	// LinkPatterns are path fragments a candidate URL must contain.
	LinkPatterns []string `yaml:"link_patterns"`

	// Pagination selects the "next page" anchor on listing pages.
	Pagination []string `yaml:"pagination"`

	// PageParam is the query parameter used for numbered pagination
	// when no next-page anchor exists (e.g. "page").
	PageParam string `yaml:"page_param"`
}

// Merge returns a copy of s where every non-empty field of override wins.
func (s SelectorSet) Merge(override SelectorSet) SelectorSet {
	out := s
	if len(override.Title) > 0 {
		out.Title = override.Title
	}
	if len(override.Body) > 0 {
		out.Body = override.Body
	}
	if len(override.Author) > 0 {
		out.Author = override.Author
	}
	if len(override.Date) > 0 {
		out.Date = override.Date
	}
	if len(override.Links) > 0 {
		out.Links = override.Links
	}
	if len(override.LinkPatterns) > 0 {
		out.LinkPatterns = override.LinkPatterns
	}
	if len(override.Pagination) > 0 {
		out.Pagination = override.Pagination
	}
	if override.PageParam != "" {
		out.PageParam = override.PageParam
	}
	return out
}

// MatchKind selects how a SitePattern compares URLs.
type MatchKind string

// Pattern match kinds.
const (
	MatchExact  MatchKind = "exact"
	MatchPrefix MatchKind = "prefix"
)

// SitePattern is one row of the configured classification table.
type SitePattern struct {
	URL   string    `yaml:"url"`
	Match MatchKind `yaml:"match"`
	Type  SiteType  `yaml:"type"`
}

// Validate returns an error if the pattern contains invalid fields.
func (p *SitePattern) Validate() error {
	if p.URL == "" {
		return Errorf(EINVALID, "site pattern URL required")
	}
	if p.Match != MatchExact && p.Match != MatchPrefix {
		return Errorf(EINVALID, "site pattern %q: unknown match kind %q", p.URL, p.Match)
	}
	if _, err := ParseSiteType(string(p.Type)); err != nil {
		return Errorf(EINVALID, "site pattern %q: unknown site type %q", p.URL, p.Type)
	}
	return nil
}

// SiteClassifier assigns a site type to a URL.
type SiteClassifier interface {
	// Classify returns the site type for the URL. The page sample is
	// optional; unmatched input resolves to SiteTypeGeneric.
	Classify(url string, page []byte) SiteType
}
