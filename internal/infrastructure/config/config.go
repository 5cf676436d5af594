// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigDir is the directory name for voyage configuration.
	DefaultConfigDir = ".voyage"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultEnrichmentDB is the default enrichment cache database name.
	DefaultEnrichmentDB = "enrichment.db"
	// DefaultCorpusFile is the persisted corpus file name.
	DefaultCorpusFile = "corpus.json"
)

// Duration is a time.Duration that round-trips through YAML in the
// human-readable "10s" / "24h" form.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler, accepting "10s"-style strings.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("parsing duration: %w", err)
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the duration as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds static infrastructure configuration (read-only after init).
type Config struct {
	Extraction ExtractionConfig `yaml:"extraction,omitempty"`
	Enrichment EnrichmentConfig `yaml:"enrichment,omitempty"`
	Logging    LoggingConfig    `yaml:"logging,omitempty"`
}

// ExtractionConfig tunes the entity extraction pipeline.
type ExtractionConfig struct {
	// MinConfidence filters mentions below this confidence from results.
	MinConfidence float64 `yaml:"min_confidence,omitempty"`
	// Workers bounds batch extraction concurrency.
	Workers int `yaml:"workers,omitempty"`
	// ContextRunes is the size of the context window captured per mention.
	ContextRunes int `yaml:"context_runes,omitempty"`
}

// EnrichmentConfig holds configuration for knowledge-base enrichment.
type EnrichmentConfig struct {
	Enabled bool `yaml:"enabled,omitempty"`
	// Endpoint is the Wikidata API base URL.
	Endpoint string   `yaml:"endpoint,omitempty"`
	Timeout  Duration `yaml:"timeout,omitempty"`
	// TTL is how long cached enrichments stay fresh.
	TTL Duration `yaml:"ttl,omitempty"`
	// CachePath is the enrichment cache database path. Empty means the
	// default path under the config directory.
	CachePath string `yaml:"cache_path,omitempty"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Extraction: ExtractionConfig{
			MinConfidence: 0.3,
			Workers:       4,
			ContextRunes:  160,
		},
		Enrichment: EnrichmentConfig{
			Enabled:  true,
			Endpoint: "https://www.wikidata.org/w/api.php",
			Timeout:  Duration(10 * time.Second),
			TTL:      Duration(24 * time.Hour),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the .voyage directory in the given path.
// A missing config file is not an error; defaults apply.
func Load(basePath string) (*Config, error) {
	cfg := Default()

	configFile := filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
	data, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		cfg.applyEnvOverrides()
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if endpoint := os.Getenv("VOYAGE_KB_ENDPOINT"); endpoint != "" {
		c.Enrichment.Endpoint = endpoint
	}
	if level := os.Getenv("VOYAGE_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// Validate rejects statically invalid configuration so misconfiguration fails
// at startup rather than mid-pipeline.
func (c *Config) Validate() error {
	if c.Extraction.MinConfidence < 0 || c.Extraction.MinConfidence > 1 {
		return fmt.Errorf("extraction min_confidence must be in [0,1], got %v", c.Extraction.MinConfidence)
	}
	if c.Extraction.Workers < 0 {
		return fmt.Errorf("extraction workers must be positive, got %d", c.Extraction.Workers)
	}
	if c.Extraction.ContextRunes < 0 {
		return fmt.Errorf("extraction context_runes must be positive, got %d", c.Extraction.ContextRunes)
	}
	if c.Enrichment.Timeout < 0 {
		return fmt.Errorf("enrichment timeout must be positive, got %v", c.Enrichment.Timeout)
	}
	if c.Enrichment.TTL < 0 {
		return fmt.Errorf("enrichment ttl must be positive, got %v", c.Enrichment.TTL)
	}
	if c.Enrichment.Enabled && c.Enrichment.Endpoint == "" {
		return fmt.Errorf("enrichment endpoint is required when enrichment is enabled")
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	return nil
}

// ConfigDir returns the path to the .voyage config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}

// CorpusPath returns the path of the persisted corpus file.
func CorpusPath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultCorpusFile)
}

// EnrichmentCachePath returns the enrichment cache database path, honoring an
// explicit override.
func (c *Config) EnrichmentCachePath(basePath string) string {
	if c.Enrichment.CachePath != "" {
		return c.Enrichment.CachePath
	}
	return filepath.Join(basePath, DefaultConfigDir, DefaultEnrichmentDB)
}
