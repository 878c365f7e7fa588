package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hyperjump/kuliner/internal/config"
	"github.com/hyperjump/kuliner/internal/dataset"
	"github.com/hyperjump/kuliner/internal/textproc"
)

func newPrecomputeCmd(a *app) *cobra.Command {
	var in, out string
	cmd := &cobra.Command{
		Use:   "precompute",
		Short: "Write the dataset with the derived search-text columns filled in",
		Long: `Reads a CSV, XLSX or SQLite dataset, builds the search text and its normalized
form for every record and writes the result as CSV or SQLite (by the output extension).
Serving a precomputed dataset skips the stemming pass at startup.`,
		Example: `  kuliner precompute --in data/kuliner_bandung.xlsx --out data/kuliner_bandung.csv`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			defer a.close()
			n, err := a.precompute(cmd.Context(), dataset.Source{Path: in, Sheet: a.cfg.Dataset.Sheet, Table: a.cfg.Dataset.Table}, out)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d records to %s\n", n, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "input dataset path")
	cmd.Flags().StringVar(&out, "out", "", "output path (.csv or .db)")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func (a *app) precompute(ctx context.Context, src dataset.Source, out string) (int, error) {
	table, err := dataset.Load(ctx, src)
	if err != nil {
		return 0, err
	}
	records, _, err := dataset.ToBusinesses(table)
	if err != nil {
		return 0, err
	}
	lex, err := a.lexicon()
	if err != nil {
		return 0, err
	}
	normalizer := textproc.NewNormalizer(lex.Stopwords())
	err = dataset.Precompute(ctx, records, normalizer, dataset.PrecomputeOptions{
		Workers: a.cfg.Search.Workers,
		Force:   true,
	})
	if err != nil {
		return 0, err
	}

	format, err := dataset.DetectFormat(dataset.Source{Path: out})
	if err != nil {
		return 0, err
	}
	switch format {
	case dataset.FormatCSV:
		f, err := os.Create(out)
		if err != nil {
			return 0, fmt.Errorf("create %s: %w", out, err)
		}
		if err := dataset.WriteCSV(f, records); err != nil {
			_ = f.Close()
			return 0, err
		}
		if err := f.Close(); err != nil {
			return 0, err
		}
	case dataset.FormatSQLite:
		if err := dataset.WriteSQLite(ctx, out, a.cfg.Dataset.Table, records); err != nil {
			return 0, err
		}
	default:
		return 0, fmt.Errorf("%w: cannot write %s", dataset.ErrUnsupportedFormat, format)
	}
	a.logger.Info("Dataset precomputed",
		zap.String("in", src.Path), zap.String("out", out), zap.Int("records", len(records)))
	return len(records), nil
}

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
	}
	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config to --config (or ./config.yaml)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.configPath
			if path == "" {
				path = localConfig
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if err := config.Save(path, config.Default()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote default config to %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.AddCommand(initCmd)
	return cmd
}
