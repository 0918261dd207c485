package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/sitelinks"
	"github.com/fwojciec/sitelinks/crawl"
	"github.com/fwojciec/sitelinks/goquery"
	sitehtml "github.com/fwojciec/sitelinks/html"
	sitehttp "github.com/fwojciec/sitelinks/http"
	"github.com/fwojciec/sitelinks/rod"
	siteslog "github.com/fwojciec/sitelinks/slog"
	"github.com/fwojciec/sitelinks/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Config files read in order before flags are applied. Missing files
	// are skipped. Set before calling Run().
	ConfigPaths []string

	// SQLite database holding crawl history, opened by serve --db.
	DB *sqlite.DB

	// Fetcher replaces the fetcher selected by --fetcher when set.
	// Used for end-to-end testing.
	Fetcher sitelinks.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		ConfigPaths: DefaultConfigPaths(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if err := checkExplicitConfig(); err != nil {
		return err
	}

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("sitelinks"),
		kong.Description("Crawl a website and list the links it contains."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Configuration(YAMLConfig, m.ConfigPaths...),
		kong.Vars{
			"addr":          sitehttp.DefaultAddr,
			"user_agent":    sitehttp.DefaultUserAgent,
			"recycle_after": strconv.FormatInt(rod.DefaultMaxPages, 10),
		},
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'sitelinks --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Logger = newLogger(stderr, cli.Verbose)

	fetcher, err := m.newFetcher(cli)
	if err != nil {
		return err
	}
	defer fetcher.Close()

	deps.Crawls = siteslog.NewLoggingCrawlService(&crawl.Crawler{
		Fetcher:   siteslog.NewLoggingFetcher(fetcher, deps.Logger),
		Extractor: newExtractor(cli.Extractor),
	}, deps.Logger)

	if kongCtx.Command() == "serve" && cli.Serve.DB != "" {
		m.DB = sqlite.NewDB(cli.Serve.DB)
		if err := m.DB.Open(); err != nil {
			return fmt.Errorf("failed to open database at %q: %w", cli.Serve.DB, err)
		}
		defer m.Close()
		deps.Records = sqlite.NewCrawlRecordService(m.DB)
	}

	return kongCtx.Run(deps)
}

// newFetcher builds the fetcher selected on the command line. The returned
// fetcher is owned by the caller, who must close it.
func (m *Main) newFetcher(cli *CLI) (sitelinks.Fetcher, error) {
	if m.Fetcher != nil {
		return m.Fetcher, nil
	}

	switch cli.Fetcher {
	case "rod":
		opts := []rod.Option{
			rod.WithUserAgent(cli.UserAgent),
			rod.WithRecycleAfter(cli.RecycleAfter),
		}
		if cli.Timeout > 0 {
			opts = append(opts, rod.WithFetchTimeout(cli.Timeout))
		}
		f, err := rod.NewFetcher(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to start browser (Chrome or Chromium must be installed): %w", err)
		}
		return f, nil
	default:
		return sitehttp.NewFetcher(
			sitehttp.WithTimeout(cli.Timeout),
			sitehttp.WithUserAgent(cli.UserAgent),
			sitehttp.WithFollowRedirects(cli.FollowRedirects),
		), nil
	}
}

func newExtractor(name string) sitelinks.LinkExtractor {
	if name == "goquery" {
		return goquery.NewLinkExtractor()
	}
	return sitehtml.NewLinkExtractor()
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// checkExplicitConfig fails when $SITELINKS_CONFIG names a file that cannot
// be read. Default locations are allowed to be missing.
func checkExplicitConfig() error {
	path := os.Getenv(ConfigEnv)
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config file %q from $%s not found", path, ConfigEnv)
		}
		return err
	}
	return nil
}
