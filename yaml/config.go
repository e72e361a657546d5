// Package yaml loads the source configuration file.
package yaml

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	scraper "github.com/Mario263/Technical-Web-scraper"
	"gopkg.in/yaml.v3"
)

// Configuration defaults.
const (
	DefaultTeamID      = "technical-content-team"
	DefaultConcurrency = 2
	DefaultTimeout     = 15 * time.Second
	DefaultMinDelay    = 500 * time.Millisecond
	DefaultMaxAttempts = 3
)

// Environment variables that override file values.
const (
	EnvTeamID      = "SCRAPER_TEAM_ID"
	EnvUserID      = "SCRAPER_USER_ID"
	EnvPageBudget  = "SCRAPER_PAGE_BUDGET"
	EnvTimeout     = "SCRAPER_TIMEOUT"
	EnvConcurrency = "SCRAPER_CONCURRENCY"
)

// Config is the parsed configuration file.
type Config struct {
	TeamID string `yaml:"team_id"`
	UserID string `yaml:"user_id"`

	// PageBudget applies to sources that do not set their own.
	PageBudget  int           `yaml:"page_budget"`
	Concurrency int           `yaml:"concurrency"`
	Deadline    time.Duration `yaml:"deadline"`

	Fetch   FetchConfig   `yaml:"fetch"`
	Quality QualityConfig `yaml:"quality"`

	// Selectors overrides fields of the built-in selector set of a site type.
	Selectors map[scraper.SiteType]scraper.SelectorSet `yaml:"selectors"`

	Patterns []scraper.SitePattern `yaml:"patterns"`
	Sources  []*scraper.Source     `yaml:"-"`
}

// FetchConfig holds fetch controller settings.
type FetchConfig struct {
	Timeout     time.Duration `yaml:"timeout"`
	MinDelay    time.Duration `yaml:"min_delay"`
	MaxAttempts int           `yaml:"max_attempts"`
	BackoffBase time.Duration `yaml:"backoff_base"`
	BackoffMax  time.Duration `yaml:"backoff_max"`
	UserAgents  []string      `yaml:"user_agents"`
	MaxBodySize int64         `yaml:"max_body_size"`
	Robots      bool          `yaml:"robots"`
}

// QualityConfig holds scorer settings. Zero values keep the scorer defaults.
type QualityConfig struct {
	MinScore      float64  `yaml:"min_score"`
	MinWords      int      `yaml:"min_words"`
	TargetWords   int      `yaml:"target_words"`
	TargetDensity float64  `yaml:"target_density"`
	Terms         []string `yaml:"terms"`
	Weights       *Weights `yaml:"weights"`
}

// Weights are the score component weights. They must sum to 1.
type Weights struct {
	Length    float64 `yaml:"length"`
	Structure float64 `yaml:"structure"`
	Technical float64 `yaml:"technical"`
}

// file is the on-disk layout. Sources are decoded separately so that
// an omitted "enabled" key means enabled.
type file struct {
	Config  `yaml:",inline"`
	Sources []sourceEntry `yaml:"sources"`
}

type sourceEntry struct {
	source  scraper.Source
	enabled *bool
}

func (e *sourceEntry) UnmarshalYAML(node *yaml.Node) error {
	if err := node.Decode(&e.source); err != nil {
		return err
	}
	var flag struct {
		Enabled *bool `yaml:"enabled"`
	}
	if err := node.Decode(&flag); err != nil {
		return err
	}
	e.enabled = flag.Enabled
	return nil
}

// Load reads and parses the configuration file at path, applying
// SCRAPER_* environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, scraper.Errorf(scraper.ENOTFOUND, "config file %s not found", path)
	} else if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data, os.Getenv)
}

// Parse parses configuration data. getenv supplies environment overrides
// and may be nil.
func Parse(data []byte, getenv func(string) string) (*Config, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, scraper.Errorf(scraper.EINVALID, "failed to parse config file: %v", err)
	}

	cfg := f.Config
	if getenv != nil {
		if err := cfg.applyEnv(getenv); err != nil {
			return nil, err
		}
	}
	cfg.applyDefaults()

	for _, e := range f.Sources {
		src := e.source
		src.Enabled = e.enabled == nil || *e.enabled
		if src.PageBudget == 0 {
			src.PageBudget = cfg.PageBudget
		}
		if src.ContentType == "" {
			src.ContentType = scraper.ContentTypeBlog
		}
		if src.UserID == "" {
			src.UserID = cfg.UserID
		}
		cfg.Sources = append(cfg.Sources, &src)
	}

	for i := range cfg.Patterns {
		if cfg.Patterns[i].Match == "" {
			cfg.Patterns[i].Match = scraper.MatchPrefix
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv(EnvTeamID); v != "" {
		c.TeamID = v
	}
	if v := getenv(EnvUserID); v != "" {
		c.UserID = v
	}
	if v := getenv(EnvPageBudget); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return scraper.Errorf(scraper.EINVALID, "%s: %q is not a number", EnvPageBudget, v)
		}
		c.PageBudget = n
	}
	if v := getenv(EnvConcurrency); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return scraper.Errorf(scraper.EINVALID, "%s: %q is not a number", EnvConcurrency, v)
		}
		c.Concurrency = n
	}
	if v := getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return scraper.Errorf(scraper.EINVALID, "%s: %q is not a duration", EnvTimeout, v)
		}
		c.Fetch.Timeout = d
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.TeamID == "" {
		c.TeamID = DefaultTeamID
	}
	if c.PageBudget == 0 {
		c.PageBudget = scraper.DefaultPageBudget
	}
	if c.Concurrency == 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.Fetch.Timeout == 0 {
		c.Fetch.Timeout = DefaultTimeout
	}
	if c.Fetch.MinDelay == 0 {
		c.Fetch.MinDelay = DefaultMinDelay
	}
	if c.Fetch.MaxAttempts == 0 {
		c.Fetch.MaxAttempts = DefaultMaxAttempts
	}
}

// Validate returns an error if the configuration contains invalid fields.
func (c *Config) Validate() error {
	if c.PageBudget < 1 {
		return scraper.Errorf(scraper.EINVALID, "page budget must be at least 1")
	}
	if c.Concurrency < 1 {
		return scraper.Errorf(scraper.EINVALID, "concurrency must be at least 1")
	}
	if c.Deadline < 0 {
		return scraper.Errorf(scraper.EINVALID, "deadline must not be negative")
	}
	if c.Fetch.Timeout < 0 || c.Fetch.MinDelay < 0 {
		return scraper.Errorf(scraper.EINVALID, "fetch durations must not be negative")
	}
	if c.Fetch.MaxAttempts < 1 || c.Fetch.MaxAttempts > DefaultMaxAttempts {
		return scraper.Errorf(scraper.EINVALID, "max attempts must be between 1 and %d", DefaultMaxAttempts)
	}
	for st := range c.Selectors {
		if _, err := scraper.ParseSiteType(string(st)); err != nil {
			return err
		}
	}
	for i := range c.Patterns {
		if err := c.Patterns[i].Validate(); err != nil {
			return err
		}
	}
	for _, src := range c.Sources {
		if err := src.Validate(); err != nil {
			return err
		}
	}
	return nil
}
