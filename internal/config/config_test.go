package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
dataset:
  path: "catalog.xlsx"
  sheet: "Bandung"
search:
  cache_ttl: 30s
scoring:
  location_boost: 20
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if want := filepath.Join(dir, "catalog.xlsx"); cfg.Dataset.Path != want {
		t.Errorf("dataset.path = %s, want %s", cfg.Dataset.Path, want)
	}
	if cfg.Search.CacheTTL != 30*time.Second {
		t.Errorf("cache_ttl = %v, want 30s", cfg.Search.CacheTTL)
	}
	if cfg.Scoring.LocationBoost != 20 {
		t.Errorf("location_boost = %v, want 20", cfg.Scoring.LocationBoost)
	}
	if cfg.Scoring.ExactNameBonus != 2000 {
		t.Errorf("exact_name_bonus should default to 2000, got %v", cfg.Scoring.ExactNameBonus)
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	src := cfg.Dataset.Source()
	if src.Sheet != "Bandung" || src.Table != "businesses" || src.Format != "auto" {
		t.Errorf("unexpected source: %+v", src)
	}
}

func TestLoad_debugTrue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
debug: true
dataset:
  path: "/srv/kuliner.csv"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug {
		t.Error("debug should be true when set in config")
	}
	if cfg.Dataset.Path != "/srv/kuliner.csv" {
		t.Errorf("absolute dataset path changed: %s", cfg.Dataset.Path)
	}
}

func TestLoad_invalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [1, 2"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected read error")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"/abs/data.csv", "/abs/data.csv"},
		{"./data.csv", filepath.Join("/etc/kuliner", "data.csv")},
		{"data/data.csv", filepath.Join("/etc/kuliner", "data", "data.csv")},
		{"~/data.csv", filepath.Join(home, "data.csv")},
	}
	for _, tt := range tests {
		if got := expandPath(tt.in, "/etc/kuliner"); got != tt.want {
			t.Errorf("expandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	if cfg.Server.Host != "localhost" {
		t.Errorf("default host: got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default port: got %d", cfg.Server.Port)
	}
	if cfg.Search.DefaultTopN != 5 || cfg.Search.MaxTopN != 100 || cfg.Search.WarningTopK != 5 {
		t.Errorf("search defaults: got %+v", cfg.Search)
	}
	if cfg.Dataset.Debounce != 500*time.Millisecond {
		t.Errorf("debounce: got %v", cfg.Dataset.Debounce)
	}
	if cfg.Vectorizer.MaxFeatures != 1000 || cfg.Vectorizer.MaxDF != 0.8 || cfg.Vectorizer.NgramMax != 2 {
		t.Errorf("vectorizer defaults: got %+v", cfg.Vectorizer)
	}
	if cfg.Scoring.StrictExclusion != -999 {
		t.Errorf("strict exclusion: got %v", cfg.Scoring.StrictExclusion)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Dataset.Format = "parquet"
	cfg.Search.DefaultTopN = 500
	cfg.Scoring.ExactNameBonus = 1
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"parquet", "default_top_n", "scoring"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %q", err, want)
		}
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "saved.yaml")
	cfg := Default()
	cfg.Server.Port = 9090
	cfg.Dataset.Path = "/tmp/kuliner.csv"
	cfg.Search.CacheTTL = 90 * time.Second
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Server.Port != 9090 {
		t.Errorf("loaded port: got %d", loaded.Server.Port)
	}
	if loaded.Search.CacheTTL != 90*time.Second {
		t.Errorf("loaded cache_ttl: got %v", loaded.Search.CacheTTL)
	}
	if loaded.Scoring != cfg.Scoring {
		t.Errorf("scoring round trip: got %+v", loaded.Scoring)
	}
}
