package dataset

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/hyperjump/kuliner/internal/models"
)

// ErrMissingColumn is returned when a required dataset column is absent.
var ErrMissingColumn = errors.New("missing required column")

// Column is a logical dataset field.
type Column int

const (
	ColName Column = iota
	ColCategory
	ColPriceTier
	ColPriceRange
	ColMenu
	ColDescription
	ColAddress
	ColAmbience
	ColFacilities
	ColVisitorTypes
	ColSearchText
	ColNormalizedText
	numColumns
)

// columnSpec lists the canonical header first, then accepted aliases.
var columnSpec = [numColumns][]string{
	ColName:           {"nama_rumah_makan", "name"},
	ColCategory:       {"kategori", "category"},
	ColPriceTier:      {"kategori_harga", "price_tier", "price_tier_label"},
	ColPriceRange:     {"range_harga", "harga", "price_range"},
	ColMenu:           {"menu"},
	ColDescription:    {"deskripsi", "description"},
	ColAddress:        {"alamat", "address"},
	ColAmbience:       {"suasana", "ambience", "ambience_tags"},
	ColFacilities:     {"fasilitas", "facilities", "facility_tags"},
	ColVisitorTypes:   {"tipe_pengunjung", "visitor_types", "visitor_type_tags"},
	ColSearchText:     {"metadata_tfidf", "search_text"},
	ColNormalizedText: {"metadata_tfidf_processed", "search_text_normalized"},
}

// CanonicalHeader returns the header written by WriteCSV and WriteSQLite.
func CanonicalHeader() []string {
	header := make([]string, numColumns)
	for c := Column(0); c < numColumns; c++ {
		header[c] = columnSpec[c][0]
	}
	return header
}

// columnIndex maps each logical column to its position in header, -1 when absent.
func columnIndex(header []string) [numColumns]int {
	var idx [numColumns]int
	for c := range idx {
		idx[c] = -1
	}
	for pos, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for c := Column(0); c < numColumns; c++ {
			if idx[c] >= 0 {
				continue
			}
			for _, alias := range columnSpec[c] {
				if h == alias {
					idx[c] = pos
					break
				}
			}
		}
	}
	return idx
}

// ToBusinesses maps table rows onto records. Every column except the normalized search
// text is required. The returned flag reports whether the normalized column is present,
// which lets the engine skip its stemming pass. Missing cells become empty strings.
func ToBusinesses(t *Table) ([]models.Business, bool, error) {
	idx := columnIndex(t.Header)
	for c := Column(0); c < ColNormalizedText; c++ {
		if idx[c] < 0 {
			return nil, false, fmt.Errorf("%w: %s", ErrMissingColumn, columnSpec[c][0])
		}
	}
	hasNormalized := idx[ColNormalizedText] >= 0

	records := make([]models.Business, 0, len(t.Rows))
	for _, row := range t.Rows {
		if isBlankRow(row) {
			continue
		}
		records = append(records, models.Business{
			ID:             len(records),
			Name:           cell(row, idx[ColName]),
			Category:       cell(row, idx[ColCategory]),
			PriceTier:      cell(row, idx[ColPriceTier]),
			PriceRange:     cell(row, idx[ColPriceRange]),
			Menu:           cell(row, idx[ColMenu]),
			Description:    cell(row, idx[ColDescription]),
			Address:        cell(row, idx[ColAddress]),
			Ambience:       cell(row, idx[ColAmbience]),
			Facilities:     cell(row, idx[ColFacilities]),
			VisitorTypes:   cell(row, idx[ColVisitorTypes]),
			SearchText:     cell(row, idx[ColSearchText]),
			NormalizedText: cell(row, idx[ColNormalizedText]),
		})
	}
	return records, hasNormalized, nil
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// BuildSearchText concatenates the descriptive fields of b into one space-separated string.
func BuildSearchText(b *models.Business) string {
	fields := []string{b.Name, b.Category, b.Menu, b.Ambience, b.Facilities, b.VisitorTypes, b.Address, b.PriceTier, b.Description}
	parts := fields[:0]
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, " ")
}

func recordRow(b *models.Business) []string {
	row := make([]string, numColumns)
	row[ColName] = b.Name
	row[ColCategory] = b.Category
	row[ColPriceTier] = b.PriceTier
	row[ColPriceRange] = b.PriceRange
	row[ColMenu] = b.Menu
	row[ColDescription] = b.Description
	row[ColAddress] = b.Address
	row[ColAmbience] = b.Ambience
	row[ColFacilities] = b.Facilities
	row[ColVisitorTypes] = b.VisitorTypes
	row[ColSearchText] = b.SearchText
	row[ColNormalizedText] = b.NormalizedText
	return row
}

// TextNormalizer turns search text into its normalized form.
type TextNormalizer interface {
	Normalize(s string) string
}

// PrecomputeOptions controls Precompute.
type PrecomputeOptions struct {
	// Workers bounds the parallel normalization; defaults to GOMAXPROCS.
	Workers int
	// Force recomputes normalized text even when already present.
	Force bool
}

// Precompute fills empty search text from the descriptive fields and computes the
// normalized search text of every record in place.
func Precompute(ctx context.Context, records []models.Business, n TextNormalizer, opts PrecomputeOptions) error {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range records {
		b := &records[i]
		if strings.TrimSpace(b.SearchText) == "" {
			b.SearchText = BuildSearchText(b)
		}
		if b.NormalizedText != "" && !opts.Force {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			b.NormalizedText = n.Normalize(b.SearchText)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("precompute normalized text: %w", err)
	}
	return nil
}
