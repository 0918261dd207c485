package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/sitelinks"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Crawls  sitelinks.CrawlService
	Records sitelinks.CrawlRecordService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config          kong.ConfigFlag `help:"Load defaults from a YAML config file." placeholder:"PATH"`
	Verbose         bool            `short:"v" help:"Log every page fetch"`
	Timeout         time.Duration   `default:"0s" help:"Per-page fetch timeout (0 disables)"`
	UserAgent       string          `default:"${user_agent}" help:"User-Agent sent with every request"`
	Fetcher         string          `enum:"http,rod" default:"http" help:"Page fetcher: http or rod (headless Chrome)"`
	Extractor       string          `enum:"html,goquery" default:"html" help:"Link extractor: html (tokenizer) or goquery (DOM)"`
	FollowRedirects bool            `help:"Follow redirects instead of reading links from the redirect response"`
	RecycleAfter    int64           `default:"${recycle_after}" help:"Pages a browser renders before it is restarted (rod fetcher; 0 disables)"`

	Serve ServeCmd `cmd:"" help:"Run the JSON API server"`
	Crawl CrawlCmd `cmd:"" help:"Crawl a site and print its links"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `default:"${addr}" help:"Listen address"`
	DB   string `name:"db" placeholder:"PATH" help:"SQLite database for crawl history (disabled when empty)"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URL    string `arg:"" help:"Seed URL"`
	Unique bool   `short:"u" help:"Print each link once, in first-seen order"`
	Count  bool   `short:"c" help:"Print the number of links instead of the links"`
}
