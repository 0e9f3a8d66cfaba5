// Package config loads the numseek YAML configuration: the digit pattern to
// search, the daemon and target-page settings, and output locations.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like
// "600ms" or "3s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// DaemonConfig locates the local browser-profile daemon.
type DaemonConfig struct {
	BaseURL     string   `yaml:"base_url"`
	MinInterval Duration `yaml:"min_interval"`
}

// SearchConfig describes the target signup page and how to drive it.
type SearchConfig struct {
	URL             string   `yaml:"url"`
	SearchBoxName   string   `yaml:"search_box_name"`
	NoResultsMarker string   `yaml:"no_results_marker"`
	TypingDelay     Duration `yaml:"typing_delay"`
	SettleWait      Duration `yaml:"settle_wait"`
}

// Config is the full numseek configuration.
type Config struct {
	Template    string `yaml:"template"`
	ExcludeFour bool   `yaml:"exclude_four"`

	Daemon DaemonConfig `yaml:"daemon"`
	Search SearchConfig `yaml:"search"`

	StateDir   string `yaml:"state_dir"`
	ShotsDir   string `yaml:"shots_dir"`
	LogDir     string `yaml:"log_dir"`
	ResultsLog string `yaml:"results_log"`
}

// Default values applied before the file is read.
const (
	DefaultMinInterval = 600 * time.Millisecond
	DefaultTypingDelay = 150 * time.Millisecond
	DefaultSettleWait  = 3 * time.Second

	defaultSearchBoxName   = "Search by digits or phrases"
	defaultNoResultsMarker = "No numbers found"
)

func defaults() *Config {
	cfg := &Config{
		StateDir:   ".numseek/state",
		ShotsDir:   ".numseek/shots",
		LogDir:     ".numseek/logs",
		ResultsLog: ".numseek/results.log",
	}
	cfg.Daemon.BaseURL = "http://127.0.0.1:50325"
	cfg.Daemon.MinInterval = Duration(DefaultMinInterval)
	cfg.Search.SearchBoxName = defaultSearchBoxName
	cfg.Search.NoResultsMarker = defaultNoResultsMarker
	cfg.Search.TypingDelay = Duration(DefaultTypingDelay)
	cfg.Search.SettleWait = Duration(DefaultSettleWait)
	return cfg
}

// Load reads the YAML file at path over the defaults and validates the
// result. Template validity is checked separately by pkg/pattern.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the fields that have no sensible default.
func (c *Config) Validate() error {
	if c.Template == "" {
		return fmt.Errorf("template is required")
	}
	if c.Search.URL == "" {
		return fmt.Errorf("search.url is required")
	}
	if c.Daemon.MinInterval < 0 {
		return fmt.Errorf("daemon.min_interval must not be negative")
	}
	return nil
}
