package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/hyperifyio/gohabr/internal/habr"
)

// Output formats accepted by Config.Format.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatPDF  = "pdf"
)

// Config holds runtime configuration for the application.
type Config struct {
	BaseURL   string
	Lang      string
	UserAgent string

	// Commands; the first one set wins in this order.
	ArticleID  string
	CommentsID string
	Hub        string
	ListHubs   bool
	Search     string
	Page       int

	Format     string
	OutputPath string
	PDFFont    string

	// Cache
	CacheDir         string
	CacheMaxAge      time.Duration
	CacheClear       bool
	CacheStrictPerms bool
	CacheMaxBytes    int64
	CacheMaxEntries  int
	MemoryTTL        time.Duration

	// Transport
	Rate           float64
	MaxAttempts    int
	RequestTimeout time.Duration

	Verbose bool
}

// Default values a fresh Config starts from. ApplyFileConfig treats a field
// still holding its default as unset.
const (
	defaultCacheDir       = ".gohabr-cache"
	defaultFormat         = FormatText
	defaultPage           = 1
	defaultMemoryTTL      = 5 * time.Minute
	defaultMaxAttempts    = 3
	defaultRequestTimeout = 15 * time.Second
)

// DefaultConfig returns the configuration used when nothing else is set.
func DefaultConfig() Config {
	return Config{
		BaseURL:        habr.DefaultBaseURL,
		Lang:           habr.DefaultLang,
		UserAgent:      "gohabr/" + BuildVersion,
		Page:           defaultPage,
		Format:         defaultFormat,
		CacheDir:       defaultCacheDir,
		MemoryTTL:      defaultMemoryTTL,
		MaxAttempts:    defaultMaxAttempts,
		RequestTimeout: defaultRequestTimeout,
	}
}

// ValidateConfig performs schema validation for required settings.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return errors.New("config: base url is required")
	}
	if _, err := language.Parse(cfg.Lang); err != nil {
		return fmt.Errorf("config: invalid language %q: %w", cfg.Lang, err)
	}
	if cfg.Page < 0 || cfg.Rate < 0 || cfg.MaxAttempts < 0 || cfg.CacheMaxBytes < 0 || cfg.CacheMaxEntries < 0 || cfg.MemoryTTL < 0 {
		return errors.New("config: negative limits are not allowed")
	}
	switch cfg.Format {
	case FormatText, FormatJSON:
	case FormatPDF:
		if strings.TrimSpace(cfg.OutputPath) == "" {
			return errors.New("config: pdf output requires an output path")
		}
	default:
		return fmt.Errorf("config: unknown output format %q", cfg.Format)
	}
	return nil
}
