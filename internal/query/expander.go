package query

import (
	"sort"
	"strings"

	"github.com/hyperjump/kuliner/internal/lexicon"
	"github.com/hyperjump/kuliner/internal/textproc"
)

// SynonymReplacer canonicalizes aliases, bilingual pairs, abbreviations and compound
// location names on whole-word boundaries.
type SynonymReplacer struct {
	r *textproc.Replacer
}

// NewSynonymReplacer builds a replacer over the given table.
func NewSynonymReplacer(table []lexicon.Synonym) *SynonymReplacer {
	pairs := make([][2]string, len(table))
	for i, s := range table {
		pairs[i] = [2]string{s.From, s.To}
	}
	return &SynonymReplacer{r: textproc.NewReplacer(pairs)}
}

// Keys returns the sorted synonym keys.
func (s *SynonymReplacer) Keys() []string { return s.r.Keys() }

// Replace substitutes every synonym key found in text in a single pass.
func (s *SynonymReplacer) Replace(text string) string { return s.r.Replace(text) }

// Expander appends context terms for activity, occasion and mood keywords.
type Expander struct {
	terms   *textproc.PhraseSet
	expands map[string]string
	order   map[string]int
}

// NewExpander builds an expander over the given table. Later duplicates of a term are ignored.
func NewExpander(table []lexicon.Expansion) *Expander {
	e := &Expander{
		expands: make(map[string]string, len(table)),
		order:   make(map[string]int, len(table)),
	}
	terms := make([]string, 0, len(table))
	for i, x := range table {
		term := textproc.Clean(x.Term)
		if term == "" {
			continue
		}
		if _, dup := e.expands[term]; dup {
			continue
		}
		e.expands[term] = textproc.Clean(x.Expand)
		e.order[term] = i
		terms = append(terms, term)
	}
	e.terms = textproc.NewPhraseSet(terms)
	return e
}

// Matched returns the expansion terms present in text, in table order.
func (e *Expander) Matched(text string) []string {
	found := e.terms.Distinct(text)
	sort.SliceStable(found, func(i, j int) bool { return e.order[found[i]] < e.order[found[j]] })
	return found
}

// Expand returns text followed by the expansion phrase of every matched term.
func (e *Expander) Expand(text string) string {
	parts := []string{text}
	for _, term := range e.Matched(text) {
		if x := e.expands[term]; x != "" {
			parts = append(parts, x)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
