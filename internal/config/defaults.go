package config

import "time"

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Dataset.Path == "" {
		cfg.Dataset.Path = "./data/kuliner_bandung.csv"
	}
	if cfg.Dataset.Format == "" {
		cfg.Dataset.Format = "auto"
	}
	if cfg.Dataset.Table == "" {
		cfg.Dataset.Table = "businesses"
	}
	if cfg.Dataset.Debounce == 0 {
		cfg.Dataset.Debounce = 500 * time.Millisecond
	}
	if cfg.Search.DefaultTopN == 0 {
		cfg.Search.DefaultTopN = 5
	}
	if cfg.Search.MaxTopN == 0 {
		cfg.Search.MaxTopN = 100
	}
	if cfg.Search.WarningTopK == 0 {
		cfg.Search.WarningTopK = 5
	}
	if cfg.Search.CacheTTL == 0 {
		cfg.Search.CacheTTL = 5 * time.Minute
	}
	if cfg.Search.CacheCleanup == 0 {
		cfg.Search.CacheCleanup = 10 * time.Minute
	}
	cfg.Vectorizer.ApplyDefaults()
	cfg.Scoring.ApplyDefaults()
}
