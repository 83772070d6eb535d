// Package app wires configuration, caches, the API client and renderers
// into the commands the CLI exposes.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/hyperifyio/gohabr/internal/cache"
	"github.com/hyperifyio/gohabr/internal/fetch"
	"github.com/hyperifyio/gohabr/internal/habr"
	"github.com/hyperifyio/gohabr/internal/reader"
	"github.com/hyperifyio/gohabr/internal/render"
	"github.com/hyperifyio/gohabr/internal/transform"
)

// ErrNothingToDo is returned when no command was requested.
var ErrNothingToDo = errors.New("nothing to do: pass -article, -comments, -hub or -hubs")

type App struct {
	cfg       Config
	client    *habr.Client
	memory    *cache.Memory
	httpCache *cache.HTTPCache
	// Stdout receives output when no output path is configured.
	Stdout io.Writer
}

// New validates cfg and prepares caches and the API client.
func New(ctx context.Context, cfg Config) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	a := &App{cfg: cfg, Stdout: os.Stdout}

	if cfg.CacheDir != "" {
		if cfg.CacheClear {
			if err := cache.ClearDir(cfg.CacheDir); err != nil {
				log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("cache clear failed")
			}
		}
		if cfg.CacheMaxAge > 0 {
			if n, err := cache.PurgeHTTPCacheByAge(cfg.CacheDir, cfg.CacheMaxAge); err != nil {
				log.Warn().Err(err).Msg("cache purge failed")
			} else if n > 0 {
				log.Debug().Int("removed", n).Msg("expired cache entries purged")
			}
		}
		a.httpCache = &cache.HTTPCache{Dir: cfg.CacheDir, StrictPerms: cfg.CacheStrictPerms}
	}
	if cfg.MemoryTTL > 0 {
		a.memory = cache.NewMemory(cfg.MemoryTTL, 2*cfg.MemoryTTL)
	}

	f := &fetch.Client{
		HTTPClient:        newAPIHTTPClient(cfg.RequestTimeout),
		UserAgent:         cfg.UserAgent,
		Header:            habr.Header(cfg.Lang),
		MaxAttempts:       cfg.MaxAttempts,
		PerRequestTimeout: cfg.RequestTimeout,
		Cache:             a.httpCache,
	}
	if cfg.Rate > 0 {
		f.Limiter = rate.NewLimiter(rate.Limit(cfg.Rate), 1)
	}

	a.client = &habr.Client{
		BaseURL: cfg.BaseURL,
		Lang:    cfg.Lang,
		Fetcher: f,
		Cache:   a.memory,
		Sink:    transform.LogSink(log.Logger.With().Str("component", "transform").Logger()),
	}
	log.Debug().Str("base", cfg.BaseURL).Str("lang", cfg.Lang).Msg("client ready")
	return a, nil
}

// Close enforces cache size limits and releases in-memory state.
func (a *App) Close() {
	if a.httpCache != nil && (a.cfg.CacheMaxBytes > 0 || a.cfg.CacheMaxEntries > 0) {
		n, err := cache.EnforceHTTPCacheLimits(a.cfg.CacheDir, a.cfg.CacheMaxBytes, a.cfg.CacheMaxEntries)
		if err != nil {
			log.Warn().Err(err).Msg("cache limit enforcement failed")
		} else if n > 0 {
			log.Debug().Int("evicted", n).Msg("cache entries evicted")
		}
	}
	a.memory.Flush()
}

// Run executes the first configured command.
func (a *App) Run(ctx context.Context) error {
	switch {
	case a.cfg.ArticleID != "":
		return a.article(ctx, a.cfg.ArticleID)
	case a.cfg.CommentsID != "":
		return a.comments(ctx, a.cfg.CommentsID)
	case a.cfg.Hub != "":
		return a.articles(ctx, a.cfg.Hub, a.cfg.Page)
	case a.cfg.ListHubs || a.cfg.Search != "":
		return a.hubs(ctx, a.cfg.Page, a.cfg.Search)
	default:
		return ErrNothingToDo
	}
}

func (a *App) article(ctx context.Context, id string) error {
	loader := &reader.Loader{Store: &reader.Store{}, Source: a.client, Log: log.Logger}
	loader.Load(ctx, id)
	loader.Wait()
	if err := loader.Err(); err != nil {
		return fmt.Errorf("article %s: %w", id, err)
	}
	art, ok := loader.Store.Current()
	if !ok {
		return fmt.Errorf("article %s: not loaded", id)
	}
	log.Info().Str("article", id).Int("blocks", len(art.Blocks)).Msg("article loaded")

	if a.cfg.Format == FormatPDF {
		opts := render.PDFOptions{FontFile: a.cfg.PDFFont}
		if err := render.PDFFile(a.cfg.OutputPath, art.Title, art.Blocks, opts); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		log.Info().Str("path", a.cfg.OutputPath).Msg("pdf written")
		return nil
	}
	return a.emit(art, func(w io.Writer) error { return render.Text(w, art.Title, art.Blocks) })
}

func (a *App) comments(ctx context.Context, id string) error {
	threads, err := a.client.GetComments(ctx, id)
	if err != nil {
		return fmt.Errorf("comments %s: %w", id, err)
	}
	log.Info().Str("article", id).Int("threads", len(threads)).Msg("comments loaded")
	return a.emit(threads, func(w io.Writer) error { return render.Comments(w, threads) })
}

func (a *App) articles(ctx context.Context, hub string, page int) error {
	items, pages, err := a.client.GetArticles(ctx, hub, page)
	if err != nil {
		return fmt.Errorf("hub %s: %w", hub, err)
	}
	return a.emit(listing{Page: page, Pages: pages, Items: items}, func(w io.Writer) error {
		return render.Previews(w, items, page, pages)
	})
}

func (a *App) hubs(ctx context.Context, page int, query string) error {
	hubs, pages, err := a.client.GetHubs(ctx, page, query)
	if err != nil {
		return fmt.Errorf("hubs: %w", err)
	}
	return a.emit(listing{Page: page, Pages: pages, Items: hubs}, func(w io.Writer) error {
		return render.Hubs(w, hubs, page, pages)
	})
}

type listing struct {
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Items any `json:"items"`
}

// emit writes v as JSON or through text, to the output path or Stdout.
func (a *App) emit(v any, text func(io.Writer) error) error {
	if a.cfg.Format == FormatPDF {
		return errors.New("pdf output is only available for articles")
	}
	write := func(w io.Writer) error {
		if a.cfg.Format == FormatJSON {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(v)
		}
		return text(w)
	}
	p := strings.TrimSpace(a.cfg.OutputPath)
	if p == "" {
		return write(a.Stdout)
	}
	f, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	return closeOutput(f, write(f))
}

// closeOutput closes f and reports its error unless writing already failed.
func closeOutput(f io.Closer, err error) error {
	if cerr := f.Close(); cerr != nil && err == nil {
		return fmt.Errorf("close output: %w", cerr)
	}
	return err
}
