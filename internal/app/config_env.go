package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variables read by ApplyEnvOverrides.
const (
	EnvBaseURL     = "GOHABR_BASE_URL"
	EnvLang        = "GOHABR_LANG"
	EnvCacheDir    = "GOHABR_CACHE_DIR"
	EnvCacheMaxAge = "GOHABR_CACHE_MAX_AGE"
	EnvRate        = "GOHABR_RATE"
	EnvVerbose     = "GOHABR_VERBOSE"
)

// ApplyEnvOverrides overrides cfg fields with environment variables that are
// set. It runs after the config file and before flags, so env beats the
// file and flags beat env. Malformed numeric values are ignored.
func ApplyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}

	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLang)); v != "" {
		cfg.Lang = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvCacheDir)); v != "" {
		cfg.CacheDir = v
	}
	if s := os.Getenv(EnvCacheMaxAge); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			cfg.CacheMaxAge = d
		}
	}
	if s := os.Getenv(EnvRate); s != "" {
		if r, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && r >= 0 {
			cfg.Rate = r
		}
	}

	setBool := func(dst *bool, envKey string) {
		if s := strings.ToLower(strings.TrimSpace(os.Getenv(envKey))); s != "" {
			switch s {
			case "1", "true", "yes", "on":
				*dst = true
			case "0", "false", "no", "off":
				*dst = false
			}
		}
	}
	setBool(&cfg.Verbose, EnvVerbose)
}
