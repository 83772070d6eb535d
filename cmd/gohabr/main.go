package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/gohabr/internal/app"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, showVersion, err := parseArgs(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(exitOK)
	}
	if err != nil {
		log.Error().Err(err).Msg("invalid arguments")
		os.Exit(exitUsage)
	}
	if showVersion {
		fmt.Println(app.VersionString())
		os.Exit(exitOK)
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := app.ValidateConfig(cfg); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(exitUsage)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		stop()
		os.Exit(exitCode(err))
	}
}

// exitCode maps run errors to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, app.ErrNothingToDo):
		return exitUsage
	default:
		return exitFailure
	}
}

// parseArgs builds the configuration from defaults, an optional config file,
// the environment and finally the flags that were given explicitly.
func parseArgs(args []string, stderr io.Writer) (app.Config, bool, error) {
	cfg := app.DefaultConfig()
	fs := flag.NewFlagSet("gohabr", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		configPath  string
		showVersion bool
		flags       = cfg
	)
	fs.StringVar(&configPath, "config", "", "Path to a YAML or JSON config file")
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.StringVar(&flags.BaseURL, "base", cfg.BaseURL, "Content API base URL")
	fs.StringVar(&flags.Lang, "lang", cfg.Lang, "Content language, e.g. 'ru' or 'en'")
	fs.StringVar(&flags.UserAgent, "ua", cfg.UserAgent, "User-Agent for API requests")
	fs.StringVar(&flags.ArticleID, "article", "", "Show the article with this id")
	fs.StringVar(&flags.CommentsID, "comments", "", "Show comments of the article with this id")
	fs.StringVar(&flags.Hub, "hub", "", "List articles of the hub with this alias")
	fs.IntVar(&flags.Page, "page", cfg.Page, "Page number for listings")
	fs.BoolVar(&flags.ListHubs, "hubs", false, "List hubs")
	fs.StringVar(&flags.Search, "search", "", "Search hubs by query")
	fs.StringVar(&flags.Format, "format", cfg.Format, "Output format: text, json or pdf")
	fs.StringVar(&flags.OutputPath, "output", "", "Write output to this path instead of stdout (required for pdf)")
	fs.StringVar(&flags.PDFFont, "pdf.font", "", "UTF-8 TrueType font file for PDF output")
	fs.StringVar(&flags.CacheDir, "cache.dir", cfg.CacheDir, "HTTP cache directory; empty disables the disk cache")
	fs.DurationVar(&flags.CacheMaxAge, "cache.maxAge", 0, "Purge cache entries older than this at startup (e.g. 24h); 0 disables")
	fs.BoolVar(&flags.CacheClear, "cache.clear", false, "Clear the cache directory before running")
	fs.BoolVar(&flags.CacheStrictPerms, "cache.strictPerms", false, "Restrict cache permissions (0700 dirs, 0600 files)")
	fs.Int64Var(&flags.CacheMaxBytes, "cache.maxBytes", 0, "Evict least recently used cache entries above this many bytes; 0 disables")
	fs.IntVar(&flags.CacheMaxEntries, "cache.maxEntries", 0, "Evict least recently used cache entries above this count; 0 disables")
	fs.DurationVar(&flags.MemoryTTL, "cache.memoryTTL", cfg.MemoryTTL, "Lifetime of decoded responses kept in memory; 0 disables")
	fs.Float64Var(&flags.Rate, "rate", 0, "Maximum API requests per second; 0 is unlimited")
	fs.IntVar(&flags.MaxAttempts, "http.attempts", cfg.MaxAttempts, "Attempts per request including retries")
	fs.DurationVar(&flags.RequestTimeout, "http.timeout", cfg.RequestTimeout, "Per-request timeout")
	fs.BoolVar(&flags.Verbose, "v", false, "Verbose logging")
	if err := fs.Parse(args); err != nil {
		return cfg, false, err
	}
	if fs.NArg() > 0 {
		return cfg, false, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			return cfg, false, fmt.Errorf("load config: %w", err)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvOverrides(&cfg)

	// Only flags given on the command line override file and env values.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "base":
			cfg.BaseURL = flags.BaseURL
		case "lang":
			cfg.Lang = flags.Lang
		case "ua":
			cfg.UserAgent = flags.UserAgent
		case "article":
			cfg.ArticleID = flags.ArticleID
		case "comments":
			cfg.CommentsID = flags.CommentsID
		case "hub":
			cfg.Hub = flags.Hub
		case "page":
			cfg.Page = flags.Page
		case "hubs":
			cfg.ListHubs = flags.ListHubs
		case "search":
			cfg.Search = flags.Search
		case "format":
			cfg.Format = flags.Format
		case "output":
			cfg.OutputPath = flags.OutputPath
		case "pdf.font":
			cfg.PDFFont = flags.PDFFont
		case "cache.dir":
			cfg.CacheDir = flags.CacheDir
		case "cache.maxAge":
			cfg.CacheMaxAge = flags.CacheMaxAge
		case "cache.clear":
			cfg.CacheClear = flags.CacheClear
		case "cache.strictPerms":
			cfg.CacheStrictPerms = flags.CacheStrictPerms
		case "cache.maxBytes":
			cfg.CacheMaxBytes = flags.CacheMaxBytes
		case "cache.maxEntries":
			cfg.CacheMaxEntries = flags.CacheMaxEntries
		case "cache.memoryTTL":
			cfg.MemoryTTL = flags.MemoryTTL
		case "rate":
			cfg.Rate = flags.Rate
		case "http.attempts":
			cfg.MaxAttempts = flags.MaxAttempts
		case "http.timeout":
			cfg.RequestTimeout = flags.RequestTimeout
		case "v":
			cfg.Verbose = flags.Verbose
		}
	})
	return cfg, showVersion, nil
}

func run(ctx context.Context, cfg app.Config) error {
	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	return a.Run(ctx)
}
