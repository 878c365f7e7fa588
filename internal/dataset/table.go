// Package dataset reads the tabular catalog (CSV, XLSX or SQLite) and maps it onto
// models.Business records.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned when the dataset format cannot be determined.
var ErrUnsupportedFormat = errors.New("unsupported dataset format")

// Format names a dataset encoding.
type Format string

const (
	FormatAuto   Format = "auto"
	FormatCSV    Format = "csv"
	FormatXLSX   Format = "xlsx"
	FormatSQLite Format = "sqlite"
)

// Table is a header row plus data rows, all as strings.
type Table struct {
	Header []string
	Rows   [][]string
}

// Source locates a dataset.
type Source struct {
	Path   string
	Format Format
	// Sheet selects the XLSX sheet; the first sheet is used when empty.
	Sheet string
	// Table is the SQLite table name; defaults to "businesses".
	Table string
}

// DetectFormat resolves FormatAuto from the file extension.
func DetectFormat(src Source) (Format, error) {
	if src.Format != "" && src.Format != FormatAuto {
		return src.Format, nil
	}
	switch strings.ToLower(filepath.Ext(src.Path)) {
	case ".csv", ".tsv", ".txt":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, src.Path)
	}
}

// Load reads the dataset at src into a Table.
func Load(ctx context.Context, src Source) (*Table, error) {
	format, err := DetectFormat(src)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatCSV:
		f, err := os.Open(src.Path)
		if err != nil {
			return nil, fmt.Errorf("open dataset: %w", err)
		}
		defer f.Close()
		return ReadCSV(f)
	case FormatXLSX:
		f, err := os.Open(src.Path)
		if err != nil {
			return nil, fmt.Errorf("open dataset: %w", err)
		}
		defer f.Close()
		return ReadXLSX(f, src.Sheet)
	case FormatSQLite:
		return ReadSQLite(ctx, src.Path, src.Table)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// cell returns row[i], or "" when the row is short.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
