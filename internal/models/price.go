package models

import (
	"fmt"
	"strings"
)

// PriceTier is the closed set of catalog price tiers.
type PriceTier int

const (
	TierUnknown PriceTier = iota
	TierLow
	TierMedium
	TierHigh
)

// String returns the English tier name.
func (t PriceTier) String() string {
	switch t {
	case TierLow:
		return "low"
	case TierMedium:
		return "medium"
	case TierHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Label returns the catalog label for the tier as it appears in the dataset.
func (t PriceTier) Label() string {
	switch t {
	case TierLow:
		return "Murah"
	case TierMedium:
		return "Sedang"
	case TierHigh:
		return "Mahal"
	default:
		return ""
	}
}

// ParsePriceTier maps a catalog label (Indonesian or English) to a tier.
func ParsePriceTier(label string) PriceTier {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "murah", "low":
		return TierLow
	case "sedang", "menengah", "medium":
		return TierMedium
	case "mahal", "high":
		return TierHigh
	default:
		return TierUnknown
	}
}

// PriceFilter is the caller-supplied price constraint of a recommendation request.
type PriceFilter string

const (
	PriceAll    PriceFilter = "all"
	PriceLow    PriceFilter = "low"
	PriceMedium PriceFilter = "medium"
	PriceHigh   PriceFilter = "high"
)

// ParsePriceFilter accepts English or Indonesian filter names, case-insensitively.
// An empty string means no filter.
func ParsePriceFilter(s string) (PriceFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "semua":
		return PriceAll, nil
	case "low", "murah":
		return PriceLow, nil
	case "medium", "sedang":
		return PriceMedium, nil
	case "high", "mahal":
		return PriceHigh, nil
	default:
		return PriceAll, fmt.Errorf("unknown price filter %q", s)
	}
}

// Tier returns the tier the filter selects, or TierUnknown for PriceAll.
func (f PriceFilter) Tier() PriceTier {
	switch f {
	case PriceLow:
		return TierLow
	case PriceMedium:
		return TierMedium
	case PriceHigh:
		return TierHigh
	default:
		return TierUnknown
	}
}
