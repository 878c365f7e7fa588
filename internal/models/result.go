package models

// ScoredBusiness is a ranked catalog entry. Score is a relative ranking key only;
// heuristic bonuses push it outside [0,1].
type ScoredBusiness struct {
	Business *Business `json:"business"`
	Score    float64   `json:"score"`
	Rank     int       `json:"rank"`
}

// Recommendation is the outcome of a single query.
type Recommendation struct {
	Query         string            `json:"query"`
	ResolvedQuery string            `json:"resolved_query"`
	Mode          string            `json:"mode"`
	Results       []*ScoredBusiness `json:"results"`
	Fallback      bool              `json:"fallback,omitempty"`
	Warning       string            `json:"warning,omitempty"`
	WarningKind   string            `json:"warning_kind,omitempty"`
}

// CategoryCount is one row of the category histogram.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Stats summarizes the catalog.
type Stats struct {
	Total         int             `json:"total"`
	TopCategories []CategoryCount `json:"top_categories"`
	PriceTiers    map[string]int  `json:"price_tiers"`
}
