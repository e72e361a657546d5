package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	scraper "github.com/Mario263/Technical-Web-scraper"
	"github.com/Mario263/Technical-Web-scraper/crawl"
	"github.com/Mario263/Technical-Web-scraper/yaml"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Config     *yaml.Config
	Pipeline   *crawl.Pipeline
	Fetcher    scraper.Fetcher
	Classifier scraper.SiteClassifier
	Runs       scraper.RunService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	LogLevel  string `name:"log-level" default:"info" enum:"debug,info,warn,error" env:"SCRAPER_LOG_LEVEL" help:"Log level (debug, info, warn, error)"`
	LogFormat string `name:"log-format" default:"text" enum:"text,json" env:"SCRAPER_LOG_FORMAT" help:"Log format (text, json)"`

	Run      RunCmd      `cmd:"" help:"Scrape every configured source"`
	URL      URLCmd      `cmd:"" name:"url" help:"Scrape a single source URL"`
	Classify ClassifyCmd `cmd:"" help:"Print the site type of a URL"`
	Export   ExportCmd   `cmd:"" help:"Flatten result files into one CSV file"`
	History  HistoryCmd  `cmd:"" help:"List or delete persisted runs"`
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	Config      string        `short:"c" default:"sources.yaml" env:"SCRAPER_CONFIG" help:"Source configuration file"`
	Output      string        `short:"o" default:"output/results.json" help:"Result file"`
	Markdown    string        `help:"Also write records as markdown files into this directory"`
	TeamID      string        `name:"team-id" help:"Team ID of the output envelope"`
	Concurrency int           `help:"Links processed at once per source"`
	Deadline    time.Duration `help:"Stop the run after this long"`
	DB          string        `name:"db" env:"SCRAPER_DB" help:"SQLite database for run history and cross-run deduplication"`
	RedisAddr   string        `name:"redis-addr" env:"SCRAPER_REDIS_ADDR" help:"Redis address for cross-run deduplication"`
	MetricsAddr string        `name:"metrics-addr" help:"Serve Prometheus metrics on this address"`
	Strategy    string        `help:"Extra extraction strategy (trafilatura, readability)"`
}

// URLCmd is the "url" subcommand.
type URLCmd struct {
	URL         string `arg:"" help:"Source URL"`
	Type        string `short:"t" help:"Site type hint"`
	Pages       int    `short:"p" default:"5" help:"Listing pages to visit"`
	MaxArticles int    `name:"max-articles" help:"Maximum number of articles"`
	ContentType string `name:"content-type" default:"blog" help:"Content type of the records"`
	Author      string `help:"Author used when a page has no byline"`
	TeamID      string `name:"team-id" help:"Team ID of the output envelope"`
	Config      string `short:"c" help:"Optional configuration file for fetch and quality settings"`
	Output      string `short:"o" help:"Result file (default: stdout)"`
	Strategy    string `help:"Extra extraction strategy (trafilatura, readability)"`
}

// ClassifyCmd is the "classify" subcommand.
type ClassifyCmd struct {
	URL     string `arg:"" help:"URL to classify"`
	Config  string `short:"c" help:"Optional configuration file with site patterns"`
	NoFetch bool   `name:"no-fetch" help:"Classify from the URL alone"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Output string   `arg:"" help:"CSV file to write"`
	Inputs []string `arg:"" help:"Result files to read"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	DB     string `name:"db" required:"" env:"SCRAPER_DB" help:"SQLite database"`
	TeamID string `name:"team-id" help:"Only show runs of this team"`
	Limit  int    `default:"20" help:"Maximum number of runs"`
	Delete string `help:"Delete the run with this ID"`
}
