// Package config provides configuration loading and structs for the kuliner server and CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hyperjump/kuliner/internal/dataset"
	"github.com/hyperjump/kuliner/internal/ranking"
	"github.com/hyperjump/kuliner/internal/similarity"
)

// Config holds all configuration for the application.
type Config struct {
	Debug      bool                  `yaml:"debug"`
	Server     ServerConfig          `yaml:"server"`
	Dataset    DatasetConfig         `yaml:"dataset"`
	Lexicon    LexiconConfig         `yaml:"lexicon"`
	Search     SearchConfig          `yaml:"search"`
	Vectorizer similarity.Vectorizer `yaml:"vectorizer"`
	Scoring    ranking.Config        `yaml:"scoring"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatasetConfig locates the catalog and controls hot reload.
type DatasetConfig struct {
	Path     string        `yaml:"path"`
	Format   string        `yaml:"format"`
	Sheet    string        `yaml:"sheet"`
	Table    string        `yaml:"table"`
	Watch    bool          `yaml:"watch"`
	Debounce time.Duration `yaml:"debounce"`
}

// Source converts the dataset section for dataset.Load.
func (d DatasetConfig) Source() dataset.Source {
	return dataset.Source{
		Path:   d.Path,
		Format: dataset.Format(strings.ToLower(d.Format)),
		Sheet:  d.Sheet,
		Table:  d.Table,
	}
}

// LexiconConfig optionally replaces the built-in term tables.
type LexiconConfig struct {
	Path string `yaml:"path"`
}

// SearchConfig holds request limits and the response cache settings.
type SearchConfig struct {
	DefaultTopN  int           `yaml:"default_top_n"`
	MaxTopN      int           `yaml:"max_top_n"`
	WarningTopK  int           `yaml:"warning_top_k"`
	Workers      int           `yaml:"workers"`
	CacheTTL     time.Duration `yaml:"cache_ttl"`
	CacheCleanup time.Duration `yaml:"cache_cleanup"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Dataset.Path = expandPath(cfg.Dataset.Path, configDir)
	if cfg.Lexicon.Path != "" {
		cfg.Lexicon.Path = expandPath(cfg.Lexicon.Path, configDir)
	}

	return &cfg, nil
}

// Save writes the config to path, creating the parent directory.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks the sections that can be wrong in ways defaults cannot fix.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	switch dataset.Format(strings.ToLower(c.Dataset.Format)) {
	case dataset.FormatAuto, dataset.FormatCSV, dataset.FormatXLSX, dataset.FormatSQLite:
	default:
		errs = append(errs, fmt.Errorf("%w: %s", dataset.ErrUnsupportedFormat, c.Dataset.Format))
	}
	if c.Search.DefaultTopN > c.Search.MaxTopN {
		errs = append(errs, fmt.Errorf("search.default_top_n %d exceeds max_top_n %d", c.Search.DefaultTopN, c.Search.MaxTopN))
	}
	if err := c.Vectorizer.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("vectorizer: %w", err))
	}
	if err := c.Scoring.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("scoring: %w", err))
	}
	return errors.Join(errs...)
}

// expandPath converts a path to absolute. "~/" is the home directory; any other relative
// path is relative to configDir.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
		return path
	}
	return filepath.Join(configDir, path)
}
