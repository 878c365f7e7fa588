// Package ranking scores catalog records for a processed query: an analyzer resolves what
// the query asks for, an ordered pipeline of stages adjusts the similarity scores, and the
// ranker selects the final list.
package ranking

import (
	"strings"

	"github.com/hyperjump/kuliner/internal/models"
	"github.com/hyperjump/kuliner/internal/query"
)

// Mode is the scoring mode chosen once per query.
type Mode int

const (
	// ModeFlexible only adds and subtracts bonuses.
	ModeFlexible Mode = iota
	// ModeStrict excludes every record outside the detected category or visitor type.
	// It only applies when no location, ambience or facility term is present.
	ModeStrict
)

// String returns a string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeStrict:
		return "strict"
	default:
		return "flexible"
	}
}

// StrictKind names what triggered strict mode.
type StrictKind int

const (
	StrictNone StrictKind = iota
	StrictCategory
	StrictCafeGroup
	StrictVisitorType
)

// String returns a string representation of the strict kind.
func (k StrictKind) String() string {
	switch k {
	case StrictCategory:
		return "category"
	case StrictCafeGroup:
		return "cafe_group"
	case StrictVisitorType:
		return "visitor_type"
	default:
		return "none"
	}
}

// CategoryFilter selects records by category. With Aliases set, any category containing
// one of them matches; otherwise the category must equal Label, ignoring case.
type CategoryFilter struct {
	Label   string
	Aliases []string
}

// Matches reports whether a lower-cased category satisfies the filter.
func (f *CategoryFilter) Matches(categoryLower string) bool {
	if f == nil {
		return false
	}
	if len(f.Aliases) > 0 {
		for _, a := range f.Aliases {
			if strings.Contains(categoryLower, a) {
				return true
			}
		}
		return false
	}
	return categoryLower == strings.ToLower(f.Label)
}

// LocationFilter is one detected location keyword with the address spellings it covers.
type LocationFilter struct {
	Name     string
	Variants []string
	// Curated is false for keywords mined from catalog addresses.
	Curated bool
	// InCorpus is set when at least one catalog address matches a variant.
	InCorpus bool
}

// Matches reports whether a lower-cased address contains any variant.
func (f LocationFilter) Matches(addressLower string) bool {
	for _, v := range f.Variants {
		if strings.Contains(addressLower, v) {
			return true
		}
	}
	return false
}

// ContentConcept groups the query words rewarded together by the content stage.
type ContentConcept struct {
	Concept string
	// Words are the query words of the concept, in query order.
	Words []string
	// Terms are Words plus their content synonyms; any of them matches.
	Terms []string
}

// QueryContext is everything the stages need to know about one query. It is resolved
// once by the Analyzer and read-only afterwards.
type QueryContext struct {
	Query *query.Processed
	Mode  Mode

	// Strict names the exclusion rule applied by the category stage.
	Strict StrictKind
	// Category is the detected category label, or the cafe group when only cafe
	// intent was found.
	Category *CategoryFilter
	// CategoryDetected is set when a catalog category label occurred in the query.
	CategoryDetected bool
	CafeIntent       bool
	VisitorType      string

	Locations  []LocationFilter
	Activities []string

	Price           models.PriceTier
	PriceFromFilter bool

	// ContentWords are the query words eligible for the content boost, in query order.
	ContentWords []string
	Concepts     []ContentConcept
	// Cuisines are the distinct cuisine concepts named in the query, in query order.
	Cuisines []string

	// Name is the whitespace/case-normalized raw query used for name matching.
	Name string
}

// HasPrice reports whether a price intent was resolved.
func (qc *QueryContext) HasPrice() bool { return qc.Price != models.TierUnknown }

// HasLocation reports whether any location keyword was detected.
func (qc *QueryContext) HasLocation() bool { return len(qc.Locations) > 0 }

// HasCategory reports whether a category or the cafe group constrains the query.
func (qc *QueryContext) HasCategory() bool { return qc.Category != nil }
