// Package lexicon holds the curated Indonesian/English term tables: stopwords, synonyms,
// semantic expansions, location variants, price keywords and concept groups.
// A Lexicon is read-only after Load; accessors hand out copies.
package lexicon

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hyperjump/kuliner/internal/models"
	"github.com/hyperjump/kuliner/internal/textproc"
)

//go:embed default.yaml
var defaultYAML []byte

// Synonym is one whole-word substitution.
type Synonym struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Expansion appends Expand to the similarity query when Term occurs.
type Expansion struct {
	Term   string `yaml:"term"`
	Expand string `yaml:"expand"`
}

// Location maps an area or street name to the address spellings it covers.
type Location struct {
	Name     string   `yaml:"name"`
	Variants []string `yaml:"variants"`
}

// Concept groups keywords under one label.
type Concept struct {
	Concept  string   `yaml:"concept"`
	Keywords []string `yaml:"keywords"`
}

type contentSynonym struct {
	Term string   `yaml:"term"`
	Also []string `yaml:"also"`
}

type priceKeywords struct {
	Low    []string `yaml:"low"`
	Medium []string `yaml:"medium"`
	High   []string `yaml:"high"`
}

type document struct {
	Stopwords          []string         `yaml:"stopwords"`
	Whitelist          []string         `yaml:"whitelist"`
	Synonyms           []Synonym        `yaml:"synonyms"`
	Expansions         []Expansion      `yaml:"expansions"`
	Locations          []Location       `yaml:"locations"`
	LocationIgnore     []string         `yaml:"location_ignore"`
	PriceKeywords      priceKeywords    `yaml:"price_keywords"`
	CafeIntent         []string         `yaml:"cafe_intent"`
	CategoryAliasGroup []string         `yaml:"category_alias_group"`
	CuisineConcepts    []Concept        `yaml:"cuisine_concepts"`
	ContentConcepts    []Concept        `yaml:"content_concepts"`
	ContentSynonyms    []contentSynonym `yaml:"content_synonyms"`
	ContentIgnore      []string         `yaml:"content_ignore"`
	PriorityTerms      []string         `yaml:"priority_terms"`
}

// Lexicon is the immutable, validated form of the term tables.
type Lexicon struct {
	stopwords       []string
	whitelist       map[string]struct{}
	synonyms        []Synonym
	expansions      []Expansion
	locations       []Location
	locationIgnore  map[string]struct{}
	priceKeywords   map[models.PriceTier][]string
	cafeIntent      []string
	aliasGroup      []string
	cuisine         []Concept
	contentConcept  map[string]string
	contentSynonyms map[string][]string
	contentIgnore   map[string]struct{}
	priority        []string
}

// Default returns the embedded Bandung lexicon.
func Default() (*Lexicon, error) {
	return Parse(defaultYAML)
}

// MustDefault is Default for callers that cannot recover from a broken embedded table.
func MustDefault() *Lexicon {
	lex, err := Default()
	if err != nil {
		panic(err)
	}
	return lex
}

// Load reads a lexicon YAML file from path.
func Load(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a lexicon document.
func Parse(data []byte) (*Lexicon, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon: %w", err)
	}
	return build(&doc)
}

func build(doc *document) (*Lexicon, error) {
	lex := &Lexicon{
		stopwords:       cleanList(doc.Stopwords),
		whitelist:       toSet(doc.Whitelist),
		locationIgnore:  toSet(doc.LocationIgnore),
		contentIgnore:   toSet(doc.ContentIgnore),
		cafeIntent:      cleanList(doc.CafeIntent),
		aliasGroup:      cleanList(doc.CategoryAliasGroup),
		priority:        cleanList(doc.PriorityTerms),
		contentConcept:  make(map[string]string),
		contentSynonyms: make(map[string][]string),
		priceKeywords: map[models.PriceTier][]string{
			models.TierLow:    cleanList(doc.PriceKeywords.Low),
			models.TierMedium: cleanList(doc.PriceKeywords.Medium),
			models.TierHigh:   cleanList(doc.PriceKeywords.High),
		},
	}

	seen := make(map[string]struct{}, len(doc.Synonyms))
	for _, s := range doc.Synonyms {
		from, to := textproc.Clean(s.From), textproc.Clean(s.To)
		if from == "" || to == "" {
			return nil, fmt.Errorf("synonym %q -> %q: empty side", s.From, s.To)
		}
		if _, dup := seen[from]; dup {
			return nil, fmt.Errorf("duplicate synonym key %q", from)
		}
		seen[from] = struct{}{}
		lex.synonyms = append(lex.synonyms, Synonym{From: from, To: to})
	}

	for _, e := range doc.Expansions {
		term := textproc.Clean(e.Term)
		if term == "" {
			continue
		}
		lex.expansions = append(lex.expansions, Expansion{Term: term, Expand: textproc.Clean(e.Expand)})
	}

	for _, l := range doc.Locations {
		name := textproc.Clean(l.Name)
		variants := cleanList(l.Variants)
		if name == "" || len(variants) == 0 {
			return nil, fmt.Errorf("location %q: needs a name and at least one variant", l.Name)
		}
		lex.locations = append(lex.locations, Location{Name: name, Variants: variants})
	}

	for _, c := range doc.CuisineConcepts {
		kws := cleanList(c.Keywords)
		if strings.TrimSpace(c.Concept) == "" || len(kws) == 0 {
			return nil, fmt.Errorf("cuisine concept %q: needs a label and keywords", c.Concept)
		}
		lex.cuisine = append(lex.cuisine, Concept{Concept: strings.TrimSpace(c.Concept), Keywords: kws})
	}

	for _, c := range doc.ContentConcepts {
		for _, kw := range cleanList(c.Keywords) {
			lex.contentConcept[kw] = c.Concept
		}
	}
	for _, cs := range doc.ContentSynonyms {
		term := textproc.Clean(cs.Term)
		if term != "" {
			lex.contentSynonyms[term] = cleanList(cs.Also)
		}
	}
	return lex, nil
}

// Stopwords returns the culinary filler words dropped by normalization.
func (l *Lexicon) Stopwords() []string { return cloneStrings(l.stopwords) }

// IsWhitelisted reports whether w is a known-valid word that typo correction must keep.
func (l *Lexicon) IsWhitelisted(w string) bool {
	_, ok := l.whitelist[w]
	return ok
}

// Synonyms returns the ordered substitution table.
func (l *Lexicon) Synonyms() []Synonym {
	out := make([]Synonym, len(l.synonyms))
	copy(out, l.synonyms)
	return out
}

// SynonymTargets returns the distinct right-hand sides of the synonym table.
func (l *Lexicon) SynonymTargets() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, s := range l.synonyms {
		if _, ok := seen[s.To]; ok {
			continue
		}
		seen[s.To] = struct{}{}
		out = append(out, s.To)
	}
	return out
}

// Expansions returns the ordered semantic expansion table.
func (l *Lexicon) Expansions() []Expansion {
	out := make([]Expansion, len(l.expansions))
	copy(out, l.expansions)
	return out
}

// Locations returns the curated location table.
func (l *Lexicon) Locations() []Location {
	out := make([]Location, len(l.locations))
	for i, loc := range l.locations {
		out[i] = Location{Name: loc.Name, Variants: cloneStrings(loc.Variants)}
	}
	return out
}

// IsLocationIgnored reports whether an address word must not become a location filter.
func (l *Lexicon) IsLocationIgnored(w string) bool {
	_, ok := l.locationIgnore[w]
	return ok
}

// PriceKeywords returns the query keywords that express the given tier.
func (l *Lexicon) PriceKeywords(tier models.PriceTier) []string {
	return cloneStrings(l.priceKeywords[tier])
}

// AllPriceKeywords returns every price keyword of every tier.
func (l *Lexicon) AllPriceKeywords() []string {
	var out []string
	for _, tier := range []models.PriceTier{models.TierLow, models.TierMedium, models.TierHigh} {
		out = append(out, l.priceKeywords[tier]...)
	}
	return out
}

// CafeIntent returns the generic drink/cafe intent words.
func (l *Lexicon) CafeIntent() []string { return cloneStrings(l.cafeIntent) }

// CategoryAliasGroup returns the terms shared by the coffee-like category labels.
func (l *Lexicon) CategoryAliasGroup() []string { return cloneStrings(l.aliasGroup) }

// CuisineConcepts returns the keyword to category-concept table.
func (l *Lexicon) CuisineConcepts() []Concept {
	out := make([]Concept, len(l.cuisine))
	for i, c := range l.cuisine {
		out[i] = Concept{Concept: c.Concept, Keywords: cloneStrings(c.Keywords)}
	}
	return out
}

// ContentConcept returns the concept label of a content token, or the token itself.
func (l *Lexicon) ContentConcept(term string) string {
	if c, ok := l.contentConcept[term]; ok {
		return c
	}
	return term
}

// ContentSynonyms returns the extra tokens searched alongside term.
func (l *Lexicon) ContentSynonyms(term string) []string {
	return cloneStrings(l.contentSynonyms[term])
}

// IsContentIgnored reports whether a query word never triggers a content boost.
func (l *Lexicon) IsContentIgnored(w string) bool {
	_, ok := l.contentIgnore[w]
	return ok
}

// PriorityTerms returns the hand-picked priority vocabulary.
func (l *Lexicon) PriorityTerms() []string { return cloneStrings(l.priority) }

// KnownTerms returns every single-token word the lexicon itself recognizes: whitelist,
// stopwords, synonym keys, expansion terms, location names and price keywords. Typo
// correction leaves these untouched.
func (l *Lexicon) KnownTerms() []string {
	set := make(map[string]struct{})
	add := func(phrases ...string) {
		for _, p := range phrases {
			for _, tok := range strings.Fields(p) {
				set[tok] = struct{}{}
			}
		}
	}
	for w := range l.whitelist {
		add(w)
	}
	add(l.stopwords...)
	for _, s := range l.synonyms {
		add(s.From)
	}
	for _, e := range l.expansions {
		add(e.Term)
	}
	for _, loc := range l.locations {
		add(loc.Name)
	}
	add(l.AllPriceKeywords()...)
	out := make([]string, 0, len(set))
	for w := range set {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = textproc.Clean(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func toSet(in []string) map[string]struct{} {
	set := make(map[string]struct{}, len(in))
	for _, s := range cleanList(in) {
		set[s] = struct{}{}
	}
	return set
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
