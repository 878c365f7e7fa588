// Package cli provides output helpers for the kuliner command.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/hyperjump/kuliner/internal/models"
	"github.com/hyperjump/kuliner/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

const (
	menuWidth        = 80
	descriptionWords = 20
	separator        = "─────────────────────────────────────────────────────────"
)

// ParseOutputFormat accepts "text" or "json"; empty means text.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(s)) {
	case "", OutputText:
		return OutputText, nil
	case OutputJSON:
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (use text or json)", s)
	}
}

// WriteRecommendation writes rec to w in the given format.
func WriteRecommendation(w io.Writer, rec *models.Recommendation, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, rec)
	}
	if rec.ResolvedQuery != "" && rec.ResolvedQuery != strings.ToLower(strings.TrimSpace(rec.Query)) {
		fmt.Fprintf(w, "\nMenampilkan hasil untuk: %s\n", rec.ResolvedQuery)
	}
	if rec.Warning != "" {
		fmt.Fprintf(w, "\n⚠ %s\n", rec.Warning)
	}
	if len(rec.Results) == 0 {
		fmt.Fprintf(w, "\nTidak ada rekomendasi untuk '%s'.\n", rec.Query)
		return nil
	}
	label := "rekomendasi"
	if rec.Fallback {
		label = "rekomendasi (pencarian menu)"
	}
	fmt.Fprintf(w, "\n%d %s untuk '%s' [%s]\n\n", len(rec.Results), label, rec.Query, rec.Mode)
	for _, r := range rec.Results {
		fmt.Fprintln(w, separator)
		fmt.Fprintf(w, "#%d %s (skor %.4f)\n", r.Rank, r.Business.Name, r.Score)
		writeBusiness(w, r.Business)
	}
	fmt.Fprintln(w)
	return nil
}

// WriteRecords writes a browse listing to w.
func WriteRecords(w io.Writer, records []*models.Business, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, records)
	}
	fmt.Fprintf(w, "\n%d tempat makan\n\n", len(records))
	for _, b := range records {
		fmt.Fprintln(w, separator)
		fmt.Fprintln(w, b.Name)
		writeBusiness(w, b)
	}
	fmt.Fprintln(w)
	return nil
}

// WriteStats writes the catalog summary to w.
func WriteStats(w io.Writer, stats models.Stats, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, stats)
	}
	fmt.Fprintf(w, "Total tempat makan: %d\n\nKategori teratas:\n", stats.Total)
	for _, c := range stats.TopCategories {
		fmt.Fprintf(w, "  %-30s %d\n", c.Category, c.Count)
	}
	fmt.Fprintln(w, "\nKategori harga:")
	labels := make([]string, 0, len(stats.PriceTiers))
	for label := range stats.PriceTiers {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		ti, tj := models.ParsePriceTier(labels[i]), models.ParsePriceTier(labels[j])
		if ti != tj {
			return ti < tj
		}
		return labels[i] < labels[j]
	})
	for _, label := range labels {
		name := label
		if name == "" {
			name = "(kosong)"
		}
		fmt.Fprintf(w, "  %-30s %d\n", name, stats.PriceTiers[label])
	}
	return nil
}

func writeBusiness(w io.Writer, b *models.Business) {
	fmt.Fprintf(w, "Kategori: %s | Harga: %s", b.Category, b.PriceTier)
	if b.PriceRange != "" {
		fmt.Fprintf(w, " (%s)", b.PriceRange)
	}
	fmt.Fprintln(w)
	if b.Address != "" {
		fmt.Fprintf(w, "Alamat: %s\n", b.Address)
	}
	if b.Menu != "" {
		fmt.Fprintf(w, "Menu: %s\n", utils.Truncate(b.Menu, menuWidth))
	}
	if b.Description != "" {
		fmt.Fprintf(w, "%s\n", TruncateWords(b.Description, descriptionWords))
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// TruncateWords returns up to maxWords from the space-separated string.
func TruncateWords(s string, maxWords int) string {
	words := strings.Fields(s)
	if len(words) <= maxWords {
		return s
	}
	return strings.Join(words[:maxWords], " ") + "..."
}
