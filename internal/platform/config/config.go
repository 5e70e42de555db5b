// Package config builds the run configuration from flags, environment, and
// an optional YAML overrides file, so main stays lean.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is everything one validation run needs to know. The input paths and
// credential come from flags; the tuning knobs may be overridden from a YAML
// file.
type Config struct {
	CSVPath      string
	JSONDir      string
	OutputDir    string
	DataDump     string
	GeonamesUser string

	FuzzyThreshold  int
	SearchWorkers   int
	RateLimit       int
	RateWindow      time.Duration
	GeonamesBaseURL string
	SearchBaseURL   string
	ReleaseIndexURL string
	LogLevel        string
}

// Default returns the operating defaults: fuzzy threshold 85, five search
// workers, 1000 calls per 300s window.
func Default() *Config {
	return &Config{
		FuzzyThreshold: 85,
		SearchWorkers:  5,
		RateLimit:      1000,
		RateWindow:     300 * time.Second,
		LogLevel:       "info",
	}
}

// FromEnv layers environment fallbacks over the defaults. The place-ID
// username may come from GEONAMES_USER when the flag is absent.
func FromEnv() *Config {
	cfg := Default()
	if user := os.Getenv("GEONAMES_USER"); user != "" {
		cfg.GeonamesUser = user
	}
	if level := os.Getenv("RORCHECK_LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	return cfg
}

// overrides is the YAML shape of the tuning knobs. Pointers distinguish an
// absent key from an explicit zero; rate_window is a duration string.
type overrides struct {
	FuzzyThreshold  *int    `yaml:"fuzzy_threshold"`
	SearchWorkers   *int    `yaml:"search_workers"`
	RateLimit       *int    `yaml:"rate_limit"`
	RateWindow      *string `yaml:"rate_window"`
	GeonamesBaseURL *string `yaml:"geonames_base_url"`
	SearchBaseURL   *string `yaml:"search_base_url"`
	ReleaseIndexURL *string `yaml:"release_index_url"`
	LogLevel        *string `yaml:"log_level"`
}

// LoadFile applies YAML overrides from path. Keys absent from the file keep
// their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var raw overrides
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if raw.FuzzyThreshold != nil {
		c.FuzzyThreshold = *raw.FuzzyThreshold
	}
	if raw.SearchWorkers != nil {
		c.SearchWorkers = *raw.SearchWorkers
	}
	if raw.RateLimit != nil {
		c.RateLimit = *raw.RateLimit
	}
	if raw.RateWindow != nil {
		d, err := time.ParseDuration(*raw.RateWindow)
		if err != nil {
			return fmt.Errorf("parse config %s: rate_window: %w", path, err)
		}
		c.RateWindow = d
	}
	if raw.GeonamesBaseURL != nil {
		c.GeonamesBaseURL = *raw.GeonamesBaseURL
	}
	if raw.SearchBaseURL != nil {
		c.SearchBaseURL = *raw.SearchBaseURL
	}
	if raw.ReleaseIndexURL != nil {
		c.ReleaseIndexURL = *raw.ReleaseIndexURL
	}
	if raw.LogLevel != nil {
		c.LogLevel = *raw.LogLevel
	}
	return nil
}
