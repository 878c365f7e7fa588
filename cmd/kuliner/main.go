// Package main is the kuliner CLI entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hyperjump/kuliner/internal/config"
	"github.com/hyperjump/kuliner/internal/lexicon"
	"github.com/hyperjump/kuliner/internal/recommend"
	"github.com/hyperjump/kuliner/pkg/utils"
)

var version = "dev"

const localConfig = "config.yaml"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries the state shared by subcommands.
type app struct {
	configPath string
	debug      bool

	cfg      *config.Config
	resolved string
	logger   *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "kuliner",
		Short: "Recommend food businesses in Bandung from a free-text query",
		Long: `kuliner ranks a catalog of food businesses against free-text Indonesian queries
such as "kopi murah di dago" or "tempat keluarga". It can answer from the command
line or serve the same recommendations over HTTP.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "",
		"config file path (defaults to ./config.yaml, then built-in defaults)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newServeCmd(a),
		newRecommendCmd(a),
		newBrowseCmd(a),
		newStatsCmd(a),
		newPrecomputeCmd(a),
		newVersionCmd(),
		newConfigCmd(a),
	)
	return root
}

// setup loads the config and creates the logger.
func (a *app) setup() error {
	cfg, resolved, err := loadConfig(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	debug := cfg.Debug || a.debug
	logger, err := utils.NewLogger(debug)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	a.cfg, a.resolved, a.logger = cfg, resolved, logger
	if resolved == "" {
		logger.Debug("using built-in config")
	} else {
		logger.Debug("config loaded", zap.String("config_path", resolved), zap.Bool("debug", debug))
	}
	return nil
}

func (a *app) close() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// engineOptions translates the config into engine options.
func (a *app) engineOptions() ([]recommend.Option, error) {
	opts := []recommend.Option{
		recommend.WithLogger(a.logger),
		recommend.WithVectorizer(a.cfg.Vectorizer),
		recommend.WithRankingConfig(&a.cfg.Scoring),
		recommend.WithWarningTopK(a.cfg.Search.WarningTopK),
		recommend.WithWorkers(a.cfg.Search.Workers),
		recommend.WithTopN(a.cfg.Search.DefaultTopN, a.cfg.Search.MaxTopN),
	}
	lex, err := a.lexicon()
	if err != nil {
		return nil, err
	}
	return append(opts, recommend.WithLexicon(lex)), nil
}

func (a *app) lexicon() (*lexicon.Lexicon, error) {
	if a.cfg.Lexicon.Path == "" {
		return lexicon.Default()
	}
	lex, err := lexicon.Load(a.cfg.Lexicon.Path)
	if err != nil {
		return nil, fmt.Errorf("load lexicon %s: %w", a.cfg.Lexicon.Path, err)
	}
	return lex, nil
}

func (a *app) loadEngine(ctx context.Context) (*recommend.Engine, []recommend.Option, error) {
	opts, err := a.engineOptions()
	if err != nil {
		return nil, nil, err
	}
	e, err := recommend.Load(ctx, a.cfg.Dataset.Source(), opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("build engine from %s: %w", a.cfg.Dataset.Path, err)
	}
	return e, opts, nil
}

// loadConfig loads path when given. Otherwise it looks for config.yaml in the current
// directory and falls back to the built-in defaults. The second return value is the
// file actually loaded, empty for defaults.
func loadConfig(path string) (*config.Config, string, error) {
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, "", err
		}
		return cfg, path, nil
	}
	if cwd, err := os.Getwd(); err == nil {
		fallback := filepath.Join(cwd, localConfig)
		if _, statErr := os.Stat(fallback); statErr == nil {
			cfg, loadErr := config.Load(fallback)
			if loadErr != nil {
				return nil, "", loadErr
			}
			return cfg, fallback, nil
		} else if !errors.Is(statErr, os.ErrNotExist) {
			return nil, "", statErr
		}
	}
	return config.Default(), "", nil
}

// buildQuery joins positional arguments so multi-word queries work without quotes.
func buildQuery(args []string) string {
	return strings.Join(strings.Fields(strings.Join(args, " ")), " ")
}
