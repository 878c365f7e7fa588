package ranking

import (
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/kuliner/internal/corpus"
	"github.com/hyperjump/kuliner/internal/lexicon"
	"github.com/hyperjump/kuliner/internal/models"
	"github.com/hyperjump/kuliner/internal/query"
	"github.com/hyperjump/kuliner/internal/textproc"
)

// priceOrder is the keyword detection order; the first tier with a hit wins.
var priceOrder = []models.PriceTier{models.TierLow, models.TierHigh, models.TierMedium}

// Analyzer resolves a processed query into a QueryContext. Its lookup structures are
// built once from the corpus and lexicon and never change.
type Analyzer struct {
	lex    *lexicon.Lexicon
	logger *zap.Logger

	categories   *Matcher
	visitorTypes *Matcher
	cafeIntent   *textproc.PhraseSet
	aliasGroup   []string

	locations  *Matcher
	locByName  map[string]LocationFilter
	activities *Matcher

	price      map[models.PriceTier]*textproc.PhraseSet
	priceWords map[string]struct{}

	cuisine   *textproc.PhraseSet
	cuisineOf map[string]string

	skipContent map[string]struct{}
}

// NewAnalyzer builds the analyzer lookup tables. Mining address, ambience and facility
// filters from the corpus is best effort: a failing source is logged and left empty.
func NewAnalyzer(c *corpus.Corpus, lex *lexicon.Lexicon, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Analyzer{
		lex:          lex,
		logger:       logger,
		categories:   NewMatcher(c.CategoryLabels()),
		visitorTypes: NewMatcher(c.VisitorTypes()),
		cafeIntent:   textproc.NewPhraseSet(lex.CafeIntent()),
		aliasGroup:   lex.CategoryAliasGroup(),
		locByName:    make(map[string]LocationFilter),
		price:        make(map[models.PriceTier]*textproc.PhraseSet),
		priceWords:   make(map[string]struct{}),
		cuisineOf:    make(map[string]string),
		skipContent:  make(map[string]struct{}),
	}

	var names []string
	for _, loc := range lex.Locations() {
		if _, ok := a.locByName[loc.Name]; ok {
			continue
		}
		a.locByName[loc.Name] = LocationFilter{Name: loc.Name, Variants: loc.Variants, Curated: true}
		names = append(names, loc.Name)
	}
	mined := a.mine("address", func() []string { return c.AddressWords(lex.IsLocationIgnored) })
	for _, w := range mined {
		if _, ok := a.locByName[w]; ok {
			continue
		}
		a.locByName[w] = LocationFilter{Name: w, Variants: []string{w}}
		names = append(names, w)
	}
	for name, f := range a.locByName {
		f.InCorpus = len(MatchedLocations(c, []LocationFilter{f})) > 0
		a.locByName[name] = f
	}
	a.locations = NewMatcher(names)

	ambience := a.mine("ambience", c.AmbienceTags)
	facilities := a.mine("facility", c.FacilityTags)
	a.activities = NewMatcher(append(ambience, facilities...))

	for _, tier := range priceOrder {
		kws := lex.PriceKeywords(tier)
		a.price[tier] = textproc.NewPhraseSet(kws)
		for _, kw := range kws {
			for _, tok := range strings.Fields(kw) {
				a.priceWords[tok] = struct{}{}
			}
		}
	}

	var keywords []string
	for _, concept := range lex.CuisineConcepts() {
		for _, kw := range concept.Keywords {
			if _, ok := a.cuisineOf[kw]; ok {
				continue
			}
			a.cuisineOf[kw] = concept.Concept
			keywords = append(keywords, kw)
		}
	}
	a.cuisine = textproc.NewPhraseSet(keywords)

	for _, w := range lex.Stopwords() {
		a.skipContent[w] = struct{}{}
	}
	// expansion triggers describe an occasion, never a dish
	for _, e := range lex.Expansions() {
		for _, tok := range textproc.Tokens(e.Term) {
			a.skipContent[tok] = struct{}{}
		}
	}
	return a
}

// mine runs one filter source and recovers a failure into an empty set.
func (a *Analyzer) mine(source string, fn func() []string) (out []string) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Warn("filter mining failed",
				zap.String("source", source),
				zap.Any("panic", r))
			out = nil
		}
	}()
	return fn()
}

// Analyze resolves q and the caller's price filter into a QueryContext and fixes its mode.
func (a *Analyzer) Analyze(q *query.Processed, filter models.PriceFilter) *QueryContext {
	qc := &QueryContext{
		Query: q,
		Name:  textproc.CollapseSpaces(q.Raw),
	}

	if label, ok := a.categories.Longest(q.Canonical); ok {
		qc.Category = a.categoryFilter(label)
		qc.CategoryDetected = true
	}
	qc.CafeIntent = len(a.cafeIntent.FindAll(textproc.Tokens(q.Canonical))) > 0
	if vt, ok := a.visitorTypes.Longest(q.Canonical); ok {
		qc.VisitorType = vt
	}

	qc.Locations = a.detectLocations(q.Canonical, qc)
	qc.Activities = a.activities.All(q.Canonical)
	qc.Price, qc.PriceFromFilter = a.detectPrice(q.Display, filter)
	qc.ContentWords = a.contentWords(q.Display, qc)
	qc.Concepts = a.groupConcepts(qc.ContentWords)
	qc.Cuisines = a.detectCuisines(q.Display)

	a.selectMode(qc)
	return qc
}

// categoryFilter widens coffee-like labels to every category sharing an alias term.
func (a *Analyzer) categoryFilter(label string) *CategoryFilter {
	lower := strings.ToLower(label)
	for _, alias := range a.aliasGroup {
		if strings.Contains(lower, alias) {
			return &CategoryFilter{Label: label, Aliases: a.aliasGroup}
		}
	}
	return &CategoryFilter{Label: label}
}

func (a *Analyzer) detectLocations(text string, qc *QueryContext) []LocationFilter {
	var covered []string
	if qc.Category != nil {
		covered = append(covered, textproc.Tokens(qc.Category.Label)...)
	}
	covered = append(covered, textproc.Tokens(qc.VisitorType)...)

	var out []LocationFilter
	for _, name := range a.locations.All(text) {
		if contains(covered, name) {
			continue
		}
		f := a.locByName[name]
		f.Variants = append([]string(nil), f.Variants...)
		out = append(out, f)
	}
	return out
}

func (a *Analyzer) detectPrice(display string, filter models.PriceFilter) (models.PriceTier, bool) {
	if tier := filter.Tier(); tier != models.TierUnknown {
		return tier, true
	}
	tokens := textproc.Tokens(display)
	for _, tier := range priceOrder {
		if len(a.price[tier].FindAll(tokens)) > 0 {
			return tier, false
		}
	}
	return models.TierUnknown, false
}

// contentWords keeps the display words that can name a dish or product: no price words,
// no detected location, ambience, facility or visitor-type terms, no filler, nothing of
// two characters or fewer.
func (a *Analyzer) contentWords(display string, qc *QueryContext) []string {
	detected := make(map[string]struct{})
	add := func(phrases ...string) {
		for _, p := range phrases {
			for _, tok := range textproc.Tokens(p) {
				detected[tok] = struct{}{}
			}
		}
	}
	for _, l := range qc.Locations {
		add(l.Name)
		add(l.Variants...)
	}
	add(qc.Activities...)
	add(qc.VisitorType)

	seen := make(map[string]struct{})
	var out []string
	for _, w := range textproc.Tokens(display) {
		if len(w) <= 2 || a.lex.IsContentIgnored(w) {
			continue
		}
		if _, ok := a.skipContent[w]; ok {
			continue
		}
		if _, ok := a.priceWords[w]; ok {
			continue
		}
		if _, ok := detected[w]; ok {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

func (a *Analyzer) groupConcepts(words []string) []ContentConcept {
	index := make(map[string]int)
	var out []ContentConcept
	for _, w := range words {
		concept := a.lex.ContentConcept(w)
		i, ok := index[concept]
		if !ok {
			i = len(out)
			index[concept] = i
			out = append(out, ContentConcept{Concept: concept})
		}
		cc := &out[i]
		cc.Words = append(cc.Words, w)
		for _, t := range append([]string{w}, a.lex.ContentSynonyms(w)...) {
			if !contains(cc.Terms, t) {
				cc.Terms = append(cc.Terms, t)
			}
		}
	}
	return out
}

func (a *Analyzer) detectCuisines(display string) []string {
	var out []string
	for _, m := range a.cuisine.FindAll(textproc.Tokens(display)) {
		concept := a.cuisineOf[m.Phrase]
		if !contains(out, concept) {
			out = append(out, concept)
		}
	}
	return out
}

// selectMode picks strict or flexible scoring once for the whole request. A location,
// ambience or facility term keeps the query flexible: the category then only boosts.
func (a *Analyzer) selectMode(qc *QueryContext) {
	cafeGroup := !qc.CategoryDetected && qc.VisitorType == "" && qc.CafeIntent && len(a.aliasGroup) > 0
	if cafeGroup {
		qc.Category = &CategoryFilter{Label: strings.Join(a.aliasGroup, "/"), Aliases: a.aliasGroup}
	}

	switch {
	case a.hasAreaOrActivity(qc):
	case qc.CategoryDetected:
		qc.Strict = StrictCategory
	case qc.VisitorType != "" && !qc.HasPrice():
		qc.Strict = StrictVisitorType
	case cafeGroup:
		qc.Strict = StrictCafeGroup
	}
	if qc.Strict != StrictNone {
		qc.Mode = ModeStrict
	}
}

// hasAreaOrActivity reports whether a location, or an activity term not already part of
// the detected category or visitor type, narrows the query.
func (a *Analyzer) hasAreaOrActivity(qc *QueryContext) bool {
	if qc.HasLocation() {
		return true
	}
	for _, act := range qc.Activities {
		if qc.CategoryDetected && strings.Contains(strings.ToLower(qc.Category.Label), act) {
			continue
		}
		if qc.VisitorType != "" && strings.Contains(qc.VisitorType, act) {
			continue
		}
		return true
	}
	return false
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
