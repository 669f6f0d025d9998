package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the resolved settings for the tool.
type Config struct {
	BaseURL   string // API base, e.g. "https://i.instagram.com/api/v1/"
	UserAgent string

	PageLimit      int // max items per history page the API will serve
	ThreadPageSize int // inbox page size for thread listing
	LookupPageSize int // widened inbox page size for username lookup

	PageDelay      time.Duration // between successful history pages
	EmptyDelay     time.Duration // before retrying an empty page
	FailureDelay   time.Duration // after a request-level failure
	RetractDelay   time.Duration // between retraction calls
	RequestTimeout time.Duration // per-request HTTP timeout
}

// fileConfig is the on-disk YAML shape. Durations are strings parsed with
// time.ParseDuration so the file stays human-editable.
type fileConfig struct {
	BaseURL   string `yaml:"base_url"`
	UserAgent string `yaml:"user_agent"`

	PageLimit      int `yaml:"page_limit"`
	ThreadPageSize int `yaml:"thread_page_size"`
	LookupPageSize int `yaml:"lookup_page_size"`

	PageDelay      string `yaml:"page_delay"`
	EmptyDelay     string `yaml:"empty_delay"`
	FailureDelay   string `yaml:"failure_delay"`
	RetractDelay   string `yaml:"retract_delay"`
	RequestTimeout string `yaml:"request_timeout"`
}

// Default returns the built-in configuration. The delays mirror the
// platform's tolerated request pacing; lowering them risks rate limiting.
func Default() Config {
	return Config{
		BaseURL:        "https://i.instagram.com/api/v1/",
		UserAgent:      "dmsweep/1.0 (Instagram private API client)",
		PageLimit:      75,
		ThreadPageSize: 20,
		LookupPageSize: 50,
		PageDelay:      800 * time.Millisecond,
		EmptyDelay:     time.Second,
		FailureDelay:   2 * time.Second,
		RetractDelay:   time.Second,
		RequestTimeout: 15 * time.Second,
	}
}

// Load resolves configuration with the following priority:
// 1. Built-in defaults (lowest)
// 2. YAML config file at path, if it exists
// 3. Environment variables DMSWEEP_BASE_URL, DMSWEEP_USER_AGENT (highest).
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path) //nolint:gosec // G304 - path from the settings directory
	if err == nil {
		var fc fileConfig
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
		if err := applyFile(&cfg, fc); err != nil {
			return Config{}, fmt.Errorf("config file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	// Environment variables override the file
	if v := os.Getenv("DMSWEEP_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("DMSWEEP_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}

	if cfg.PageLimit <= 0 {
		return Config{}, fmt.Errorf("page_limit must be positive, got %d", cfg.PageLimit)
	}

	return cfg, nil
}

func applyFile(cfg *Config, fc fileConfig) error {
	if fc.BaseURL != "" {
		cfg.BaseURL = fc.BaseURL
	}
	if fc.UserAgent != "" {
		cfg.UserAgent = fc.UserAgent
	}
	if fc.PageLimit != 0 {
		cfg.PageLimit = fc.PageLimit
	}
	if fc.ThreadPageSize != 0 {
		cfg.ThreadPageSize = fc.ThreadPageSize
	}
	if fc.LookupPageSize != 0 {
		cfg.LookupPageSize = fc.LookupPageSize
	}

	durations := []struct {
		raw  string
		name string
		dst  *time.Duration
	}{
		{fc.PageDelay, "page_delay", &cfg.PageDelay},
		{fc.EmptyDelay, "empty_delay", &cfg.EmptyDelay},
		{fc.FailureDelay, "failure_delay", &cfg.FailureDelay},
		{fc.RetractDelay, "retract_delay", &cfg.RetractDelay},
		{fc.RequestTimeout, "request_timeout", &cfg.RequestTimeout},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", d.name, d.raw, err)
		}
		*d.dst = parsed
	}

	return nil
}
