// Package models defines the catalog records and recommendation payloads shared across packages.
package models

import "strings"

// Business is one row of the food-business catalog.
type Business struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Category       string `json:"category"`
	PriceTier      string `json:"price_tier"`
	PriceRange     string `json:"price_range"`
	Menu           string `json:"menu"`
	Description    string `json:"description"`
	Address        string `json:"address"`
	Ambience       string `json:"ambience"`
	Facilities     string `json:"facilities"`
	VisitorTypes   string `json:"visitor_types"`
	SearchText     string `json:"-"`
	NormalizedText string `json:"-"`
}

// Tier parses the price tier label of the record.
func (b *Business) Tier() PriceTier {
	return ParsePriceTier(b.PriceTier)
}

// AmbienceTags returns the comma-separated ambience list, lower-cased.
func (b *Business) AmbienceTags() []string {
	return SplitTags(b.Ambience)
}

// FacilityTags returns the comma-separated facility list, lower-cased.
func (b *Business) FacilityTags() []string {
	return SplitTags(b.Facilities)
}

// VisitorTypeTags returns the comma-separated visitor-type list, lower-cased.
func (b *Business) VisitorTypeTags() []string {
	return SplitTags(b.VisitorTypes)
}

// SplitTags splits a comma-separated tag list, trimming and lower-casing each entry.
// Empty entries are dropped.
func SplitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
