package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	scraper "github.com/Mario263/Technical-Web-scraper"
	"github.com/Mario263/Technical-Web-scraper/crawl"
	"github.com/Mario263/Technical-Web-scraper/goquery"
	"github.com/Mario263/Technical-Web-scraper/gofeed"
	"github.com/Mario263/Technical-Web-scraper/htmltomarkdown"
	scraperhttp "github.com/Mario263/Technical-Web-scraper/http"
	scraperprom "github.com/Mario263/Technical-Web-scraper/prometheus"
	"github.com/Mario263/Technical-Web-scraper/quality"
	"github.com/Mario263/Technical-Web-scraper/readability"
	scraperredis "github.com/Mario263/Technical-Web-scraper/redis"
	scraperslog "github.com/Mario263/Technical-Web-scraper/slog"
	"github.com/Mario263/Technical-Web-scraper/sqlite"
	"github.com/Mario263/Technical-Web-scraper/trafilatura"
	"github.com/Mario263/Technical-Web-scraper/yaml"
	"github.com/alecthomas/kong"
	"github.com/redis/go-redis/v9"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	m.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, scraper.ErrorMessage(err))
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database used by run history and the seen store.
	DB *sqlite.DB

	// Redis client used by the seen store.
	Redis *redis.Client

	// Metrics server, running when --metrics-addr is set.
	MetricsServer *http.Server

	// Transport overrides the HTTP transport. Set before calling Run().
	Transport scraper.Transport

	// Getenv supplies configuration overrides. Defaults to os.Getenv.
	Getenv func(string) string
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{Getenv: os.Getenv}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var errs []error
	if m.MetricsServer != nil {
		errs = append(errs, m.MetricsServer.Close())
	}
	if m.Redis != nil {
		errs = append(errs, m.Redis.Close())
	}
	if m.DB != nil {
		errs = append(errs, m.DB.Close())
	}
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("scraper"),
		kong.Description("Extract technical articles from blogs, newsletters and guide sites."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'scraper --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger, err := scraperslog.NewLogger(stderr, cli.LogLevel, cli.LogFormat)
	if err != nil {
		return err
	}
	deps.Logger = logger

	switch cmd := strings.Fields(kongCtx.Command())[0]; cmd {
	case "run":
		if err := m.wireRun(deps, &cli.Run); err != nil {
			return err
		}
	case "url":
		if err := m.wireURL(deps, &cli.URL); err != nil {
			return err
		}
	case "classify":
		cfg, err := m.loadOptionalConfig(cli.Classify.Config)
		if err != nil {
			return err
		}
		classifier, err := goquery.NewClassifier(cfg.Patterns, cfg.Sources)
		if err != nil {
			return err
		}
		deps.Config = cfg
		deps.Classifier = scraperslog.NewLoggingClassifier(classifier, logger)
		deps.Fetcher = m.newController(cfg, logger, nil)
	case "history":
		if err := m.openDB(cli.History.DB); err != nil {
			return err
		}
		deps.Runs = sqlite.NewRunService(m.DB)
	}

	return kongCtx.Run(deps)
}

func (m *Main) wireRun(deps *Dependencies, c *RunCmd) error {
	cfg, err := m.loadOptionalConfig(c.Config)
	if scraper.ErrorCode(err) == scraper.ENOTFOUND {
		fmt.Fprintf(deps.Stderr, "Hint: create %s or pass --config\n", c.Config)
	}
	if err != nil {
		return err
	}

	if c.TeamID != "" {
		cfg.TeamID = c.TeamID
	}
	if c.Concurrency > 0 {
		cfg.Concurrency = c.Concurrency
	}
	if c.Deadline > 0 {
		cfg.Deadline = c.Deadline
	}
	deps.Config = cfg

	var seen scraper.SeenStore
	if c.DB != "" {
		if err := m.openDB(c.DB); err != nil {
			return err
		}
		deps.Runs = sqlite.NewRunService(m.DB)
		seen = sqlite.NewSeenStore(m.DB)
	}
	if c.RedisAddr != "" {
		m.Redis = redis.NewClient(&redis.Options{Addr: c.RedisAddr})
		if err := m.Redis.Ping(deps.Ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis at %s: %w", c.RedisAddr, err)
		}
		seen = scraperredis.NewSeenStore(m.Redis)
	}
	if seen != nil {
		seen = scraperslog.NewLoggingSeenStore(seen, deps.Logger.With("component", "seen"))
	}

	var metrics scraper.Metrics = scraper.NopMetrics{}
	if c.MetricsAddr != "" {
		pm := scraperprom.NewMetrics()
		if err := m.serveMetrics(c.MetricsAddr, pm, deps.Logger); err != nil {
			return err
		}
		metrics = pm
	}

	deps.Pipeline, err = m.newPipeline(cfg, deps.Logger, c.Strategy, seen, metrics)
	return err
}

func (m *Main) wireURL(deps *Dependencies, c *URLCmd) error {
	cfg, err := m.loadOptionalConfig(c.Config)
	if err != nil {
		return err
	}
	if c.TeamID != "" {
		cfg.TeamID = c.TeamID
	}

	src := &scraper.Source{
		URL:         c.URL,
		Type:        scraper.SiteType(c.Type),
		PageBudget:  c.Pages,
		MaxArticles: c.MaxArticles,
		ContentType: scraper.ContentType(c.ContentType),
		Author:      c.Author,
		UserID:      cfg.UserID,
		Enabled:     true,
	}
	if err := src.Validate(); err != nil {
		return err
	}
	cfg.Sources = []*scraper.Source{src}
	deps.Config = cfg

	deps.Pipeline, err = m.newPipeline(cfg, deps.Logger, c.Strategy, nil, scraper.NopMetrics{})
	return err
}

// loadOptionalConfig loads path, or the defaults when path is empty.
func (m *Main) loadOptionalConfig(path string) (*yaml.Config, error) {
	if path == "" {
		return yaml.Parse(nil, m.getenv())
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, scraper.Errorf(scraper.ENOTFOUND, "config file %s not found", path)
	} else if err != nil {
		return nil, err
	}
	return yaml.Parse(data, m.getenv())
}

func (m *Main) openDB(path string) error {
	m.DB = sqlite.NewDB(path)
	if err := m.DB.Open(); err != nil {
		m.DB = nil
		return fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	return nil
}

func (m *Main) serveMetrics(addr string, metrics *scraperprom.Metrics, logger *slog.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	m.MetricsServer = &http.Server{Handler: mux}
	go func() {
		if err := m.MetricsServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "err", err)
		}
	}()
	logger.Info("serving metrics", "addr", ln.Addr().String())
	return nil
}

func (m *Main) getenv() func(string) string {
	if m.Getenv == nil {
		return os.Getenv
	}
	return m.Getenv
}

// newController builds the fetch controller shared by every component
// of a run, so robots.txt, feeds and sitemaps count against the same
// per-host delay as pages.
func (m *Main) newController(cfg *yaml.Config, logger *slog.Logger, metrics scraper.Metrics) *crawl.Controller {
	transport := m.Transport
	if transport == nil {
		var opts []scraperhttp.Option
		if len(cfg.Fetch.UserAgents) > 0 {
			opts = append(opts, scraperhttp.WithUserAgents(cfg.Fetch.UserAgents...))
		}
		if cfg.Fetch.MaxBodySize > 0 {
			opts = append(opts, scraperhttp.WithMaxBodySize(cfg.Fetch.MaxBodySize))
		}
		transport = scraperhttp.NewTransport(opts...)
	}

	controller := crawl.NewController(transport, logger.With("component", "fetch"))
	controller.Limiter = crawl.NewDelayLimiter(cfg.Fetch.MinDelay)
	controller.MaxAttempts = cfg.Fetch.MaxAttempts
	controller.Timeout = cfg.Fetch.Timeout
	if metrics != nil {
		controller.Metrics = metrics
	}
	if cfg.Fetch.BackoffBase > 0 {
		controller.Backoff.Base = cfg.Fetch.BackoffBase
	}
	if cfg.Fetch.BackoffMax > 0 {
		controller.Backoff.Max = cfg.Fetch.BackoffMax
	}
	return controller
}

func (m *Main) newPipeline(cfg *yaml.Config, logger *slog.Logger, strategy string, seen scraper.SeenStore, metrics scraper.Metrics) (*crawl.Pipeline, error) {
	controller := m.newController(cfg, logger, metrics)

	registry := goquery.NewRegistry()
	for st, set := range cfg.Selectors {
		registry.Register(st, registry.Get(st).Merge(set))
	}

	classifier, err := goquery.NewClassifier(cfg.Patterns, cfg.Sources)
	if err != nil {
		return nil, err
	}

	conv := htmltomarkdown.NewConverter()
	var extra []scraper.Strategy
	switch strategy {
	case "":
	case trafilatura.Name:
		extra = append(extra, trafilatura.NewStrategy(conv))
	case readability.Name:
		extra = append(extra, readability.NewStrategy(conv))
	default:
		return nil, scraper.Errorf(scraper.EINVALID, "unknown extraction strategy %q", strategy)
	}

	robots := scraperhttp.NewRobots(controller)
	discoverer := goquery.NewDiscoverer(controller, registry)
	discoverer.Feeds = gofeed.NewFeedReader(controller)
	discoverer.Sitemaps = scraperslog.NewLoggingSitemapService(
		scraperhttp.NewSitemapService(controller, robots),
		logger.With("component", "sitemap"),
	)
	if cfg.Fetch.Robots {
		discoverer.Robots = robots
	}
	discoverer.Logger = logger.With("component", "discover")

	scorer, err := quality.NewScorer(qualityOptions(cfg.Quality)...)
	if err != nil {
		return nil, err
	}

	return &crawl.Pipeline{
		Fetcher:     controller,
		Classifier:  scraperslog.NewLoggingClassifier(classifier, logger.With("component", "classify")),
		Discoverer:  discoverer,
		Extractor:   scraperslog.NewLoggingExtractor(goquery.NewExtractor(registry, conv, extra...), logger.With("component", "extract")),
		Scorer:      scorer,
		Dedup:       crawl.NewDeduplicator(crawl.NewSeenSet(seen)),
		Metrics:     metrics,
		Logger:      logger,
		Concurrency: cfg.Concurrency,
	}, nil
}

func qualityOptions(q yaml.QualityConfig) []quality.Option {
	var opts []quality.Option
	if q.Weights != nil {
		opts = append(opts, quality.WithWeights(quality.Weights{
			Length:    q.Weights.Length,
			Structure: q.Weights.Structure,
			Technical: q.Weights.Technical,
		}))
	}
	if q.MinScore > 0 {
		opts = append(opts, quality.WithMinScore(q.MinScore))
	}
	if q.MinWords > 0 {
		opts = append(opts, quality.WithMinWords(q.MinWords))
	}
	if q.TargetWords > 0 {
		opts = append(opts, quality.WithTargetWords(q.TargetWords))
	}
	if q.TargetDensity > 0 {
		opts = append(opts, quality.WithTargetDensity(q.TargetDensity))
	}
	if len(q.Terms) > 0 {
		opts = append(opts, quality.WithTerms(q.Terms))
	}
	return opts
}
