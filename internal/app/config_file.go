package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema.
type FileConfig struct {
	Base      string `yaml:"base" json:"base"`
	Lang      string `yaml:"lang" json:"lang"`
	UserAgent string `yaml:"userAgent" json:"userAgent"`

	Format  string `yaml:"format" json:"format"`
	Output  string `yaml:"output" json:"output"`
	PDFFont string `yaml:"pdfFont" json:"pdfFont"`
	Verbose bool   `yaml:"verbose" json:"verbose"`

	Cache struct {
		Dir         string        `yaml:"dir" json:"dir"`
		MaxAge      time.Duration `yaml:"maxAge" json:"maxAge"`
		Clear       bool          `yaml:"clear" json:"clear"`
		StrictPerms bool          `yaml:"strictPerms" json:"strictPerms"`
		MaxBytes    int64         `yaml:"maxBytes" json:"maxBytes"`
		MaxEntries  int           `yaml:"maxEntries" json:"maxEntries"`
		MemoryTTL   time.Duration `yaml:"memoryTTL" json:"memoryTTL"`
	} `yaml:"cache" json:"cache"`

	HTTP struct {
		Rate        float64       `yaml:"rate" json:"rate"`
		MaxAttempts int           `yaml:"maxAttempts" json:"maxAttempts"`
		Timeout     time.Duration `yaml:"timeout" json:"timeout"`
	} `yaml:"http" json:"http"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from fc onto cfg wherever cfg still holds
// its default. Durations in JSON files are nanoseconds; YAML accepts "90s".
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	d := DefaultConfig()

	setString := func(dst *string, def, v string) {
		if v != "" && (*dst == "" || *dst == def) {
			*dst = v
		}
	}
	setString(&cfg.BaseURL, d.BaseURL, fc.Base)
	setString(&cfg.Lang, d.Lang, fc.Lang)
	setString(&cfg.UserAgent, d.UserAgent, fc.UserAgent)
	setString(&cfg.Format, d.Format, fc.Format)
	setString(&cfg.OutputPath, "", fc.Output)
	setString(&cfg.PDFFont, "", fc.PDFFont)
	setString(&cfg.CacheDir, d.CacheDir, fc.Cache.Dir)

	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
	if !cfg.CacheClear && fc.Cache.Clear {
		cfg.CacheClear = true
	}
	if !cfg.CacheStrictPerms && fc.Cache.StrictPerms {
		cfg.CacheStrictPerms = true
	}
	if cfg.CacheMaxAge == 0 && fc.Cache.MaxAge > 0 {
		cfg.CacheMaxAge = fc.Cache.MaxAge
	}
	if cfg.CacheMaxBytes == 0 && fc.Cache.MaxBytes > 0 {
		cfg.CacheMaxBytes = fc.Cache.MaxBytes
	}
	if cfg.CacheMaxEntries == 0 && fc.Cache.MaxEntries > 0 {
		cfg.CacheMaxEntries = fc.Cache.MaxEntries
	}
	if cfg.MemoryTTL == d.MemoryTTL && fc.Cache.MemoryTTL != 0 {
		cfg.MemoryTTL = fc.Cache.MemoryTTL
	}
	if cfg.Rate == 0 && fc.HTTP.Rate > 0 {
		cfg.Rate = fc.HTTP.Rate
	}
	if cfg.MaxAttempts == d.MaxAttempts && fc.HTTP.MaxAttempts > 0 {
		cfg.MaxAttempts = fc.HTTP.MaxAttempts
	}
	if cfg.RequestTimeout == d.RequestTimeout && fc.HTTP.Timeout > 0 {
		cfg.RequestTimeout = fc.HTTP.Timeout
	}
}
