// Package warning explains, in one short Indonesian sentence, why a result list does not
// fully match what the user asked for.
package warning

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/hyperjump/kuliner/internal/models"
	"github.com/hyperjump/kuliner/internal/ranking"
)

// Kind identifies which rule produced a warning.
type Kind string

const (
	KindNone             Kind = ""
	KindCuisineConflict  Kind = "cuisine_conflict"
	KindNoAreaData       Kind = "no_area_data"
	KindItemUnavailable  Kind = "item_unavailable"
	KindPriceUnavailable Kind = "price_unavailable"
)

// Kinds lists every non-empty kind in evaluation order.
var Kinds = []Kind{KindCuisineConflict, KindNoAreaData, KindItemUnavailable, KindPriceUnavailable}

// Warning is the outcome of one evaluation. The zero value means no warning.
type Warning struct {
	Kind    Kind
	Message string
}

// Input is what a warning is computed from.
type Input struct {
	// Query is the resolved query shown back to the user.
	Query string
	// Top holds the ranked results, best first.
	Top []*models.ScoredBusiness
	// Context is the analysis the results were ranked under.
	Context *ranking.QueryContext
}

const (
	defaultTopK            = 5
	defaultRelevanceWindow = 3.0
)

// Generator evaluates the warning rules. It holds no per-request state.
type Generator struct {
	topK   int
	window float64
	lang   language.Tag
}

// Option configures a Generator.
type Option func(*Generator)

// WithTopK sets how many leading results the price rule inspects.
func WithTopK(k int) Option {
	return func(g *Generator) {
		if k > 0 {
			g.topK = k
		}
	}
}

// WithRelevanceWindow sets how far below the best score a result may fall and still count
// for the price rule. Zero or less disables the window.
func WithRelevanceWindow(w float64) Option {
	return func(g *Generator) {
		g.window = w
	}
}

// New creates a Generator.
func New(opts ...Option) *Generator {
	g := &Generator{
		topK:   defaultTopK,
		window: defaultRelevanceWindow,
		lang:   language.Indonesian,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Warn returns the message of the first applicable rule, or "" when none applies.
func (g *Generator) Warn(in Input) string {
	return g.Evaluate(in).Message
}

// Evaluate runs the rules top to bottom and stops at the first one that applies.
func (g *Generator) Evaluate(in Input) Warning {
	qc := in.Context
	if qc == nil {
		return Warning{}
	}
	if w, ok := g.cuisineConflict(in); ok {
		return w
	}
	if w, ok := g.noAreaData(in); ok {
		return w
	}
	if w, ok := g.itemUnavailable(in); ok {
		return w
	}
	if w, ok := g.priceUnavailable(in); ok {
		return w
	}
	return Warning{}
}

func (g *Generator) cuisineConflict(in Input) (Warning, bool) {
	qc := in.Context
	if len(qc.Cuisines) < 2 {
		return Warning{}, false
	}
	return Warning{
		Kind: KindCuisineConflict,
		Message: fmt.Sprintf("Kamu menyebut beberapa jenis masakan sekaligus (%s). Kami memprioritaskan %s.",
			strings.Join(qc.Cuisines, ", "), prioritized(in)),
	}, true
}

// prioritized picks the cuisine the ranking favoured: the detected category, else the
// category of the best result, else the first cuisine mentioned.
func prioritized(in Input) string {
	qc := in.Context
	if qc.CategoryDetected && qc.Category != nil {
		return qc.Category.Label
	}
	if len(in.Top) > 0 {
		top := strings.ToLower(strings.TrimSpace(in.Top[0].Business.Category))
		for _, c := range qc.Cuisines {
			lc := strings.ToLower(c)
			if top != "" && (strings.Contains(top, lc) || strings.Contains(lc, top)) {
				return c
			}
		}
	}
	return qc.Cuisines[0]
}

// noAreaData fires for a location that neither the results nor the catalog cover.
func (g *Generator) noAreaData(in Input) (Warning, bool) {
	for _, loc := range in.Context.Locations {
		if areaCovered(in.Top, loc) {
			continue
		}
		msg := fmt.Sprintf("Maaf, belum ada data tempat makan di area %s.", g.titled(loc.Name))
		if len(in.Top) > 0 {
			msg += " Berikut rekomendasi terbaik yang kami temukan."
		}
		return Warning{Kind: KindNoAreaData, Message: msg}, true
	}
	return Warning{}, false
}

// itemUnavailable fires when the area exists but the results lack the requested category
// or one of the requested items.
func (g *Generator) itemUnavailable(in Input) (Warning, bool) {
	qc := in.Context
	if len(in.Top) == 0 {
		return Warning{}, false
	}
	area, ok := coveredArea(in.Top, qc.Locations)
	if !ok {
		return Warning{}, false
	}
	if qc.CategoryDetected && qc.Category != nil && !anyCategory(in.Top, qc.Category) {
		return g.unavailable(qc.Category.Label, area), true
	}
	for _, cc := range qc.Concepts {
		if !anyMention(in.Top, cc.Terms) {
			return g.unavailable(strings.Join(cc.Words, " "), area), true
		}
	}
	return Warning{}, false
}

func (g *Generator) unavailable(item string, area ranking.LocationFilter) Warning {
	return Warning{
		Kind: KindItemUnavailable,
		Message: fmt.Sprintf("Maaf, %s belum tersedia di area %s. Berikut tempat makan lain di sekitar sana.",
			item, g.titled(area.Name)),
	}
}

func (g *Generator) priceUnavailable(in Input) (Warning, bool) {
	qc := in.Context
	if !qc.HasPrice() || len(in.Top) == 0 {
		return Warning{}, false
	}
	top := in.Top
	if len(top) > g.topK {
		top = top[:g.topK]
	}
	floor := top[0].Score - g.window
	for _, r := range top {
		if g.window > 0 && r.Score < floor {
			continue
		}
		if r.Business.Tier() == qc.Price {
			return Warning{}, false
		}
	}
	return Warning{
		Kind: KindPriceUnavailable,
		Message: fmt.Sprintf("Maaf, kami tidak menemukan rekomendasi yang pas untuk '%s' dengan harga '%s' di %d hasil teratas. Berikut adalah rekomendasi terbaik yang kami temukan.",
			in.Query, qc.Price.Label(), g.topK),
	}, true
}

// titled capitalizes an area name. A Caser is stateful; build one per call.
func (g *Generator) titled(s string) string {
	return cases.Title(g.lang).String(s)
}

func anyAddress(top []*models.ScoredBusiness, loc ranking.LocationFilter) bool {
	for _, r := range top {
		if loc.Matches(strings.ToLower(r.Business.Address)) {
			return true
		}
	}
	return false
}

func areaCovered(top []*models.ScoredBusiness, loc ranking.LocationFilter) bool {
	return loc.InCorpus || anyAddress(top, loc)
}

// coveredArea returns the first location the catalog has data for.
func coveredArea(top []*models.ScoredBusiness, locs []ranking.LocationFilter) (ranking.LocationFilter, bool) {
	for _, loc := range locs {
		if areaCovered(top, loc) {
			return loc, true
		}
	}
	return ranking.LocationFilter{}, false
}

func anyCategory(top []*models.ScoredBusiness, f *ranking.CategoryFilter) bool {
	for _, r := range top {
		if f.Matches(strings.ToLower(strings.TrimSpace(r.Business.Category))) {
			return true
		}
	}
	return false
}

func anyMention(top []*models.ScoredBusiness, terms []string) bool {
	for _, r := range top {
		text := strings.ToLower(r.Business.Name + " " + r.Business.Menu)
		for _, t := range terms {
			if strings.Contains(text, t) {
				return true
			}
		}
	}
	return false
}
