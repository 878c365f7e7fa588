package textproc

import (
	"strings"

	"github.com/RadhiFadlillah/go-sastrawi"
)

// Stemmer reduces a token to its morphological root.
type Stemmer interface {
	Stem(word string) string
}

// StemmerFunc adapts a plain function to the Stemmer interface.
type StemmerFunc func(string) string

// Stem calls f(word).
func (f StemmerFunc) Stem(word string) string { return f(word) }

type sastrawiStemmer struct {
	stemmer sastrawi.Stemmer
}

// NewSastrawiStemmer returns the Indonesian stemmer backed by the default Sastrawi dictionary.
func NewSastrawiStemmer() Stemmer {
	return &sastrawiStemmer{stemmer: sastrawi.NewStemmer(sastrawi.DefaultDictionary())}
}

func (s *sastrawiStemmer) Stem(word string) string {
	return s.stemmer.Stem(word)
}

// Normalizer is safe for concurrent use; it holds only read-only state.
type Normalizer struct {
	stemmer   Stemmer
	defaults  wordSet
	stopwords map[string]struct{}
}

type wordSet interface {
	Contains(word string) bool
}

// NormalizerOption configures a Normalizer.
type NormalizerOption func(*Normalizer)

// WithStemmer replaces the default Sastrawi stemmer.
func WithStemmer(s Stemmer) NormalizerOption {
	return func(n *Normalizer) {
		if s != nil {
			n.stemmer = s
		}
	}
}

// WithoutDefaultStopwords drops the Sastrawi stopword list, keeping only the extra words
// passed to NewNormalizer.
func WithoutDefaultStopwords() NormalizerOption {
	return func(n *Normalizer) {
		n.defaults = nil
	}
}

// NewNormalizer creates a normalizer whose stopword set is the Sastrawi list plus extra.
func NewNormalizer(extra []string, opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{
		defaults:  sastrawi.DefaultStopword(),
		stopwords: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.stemmer == nil {
		n.stemmer = NewSastrawiStemmer()
	}
	for _, w := range extra {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			n.stopwords[w] = struct{}{}
		}
	}
	return n
}

// IsStopword reports whether w (already lower-cased) is dropped by Normalize.
func (n *Normalizer) IsStopword(w string) bool {
	if _, ok := n.stopwords[w]; ok {
		return true
	}
	return n.defaults != nil && n.defaults.Contains(w)
}

// Normalize cleans s, drops stopwords and stems the remaining tokens.
// A token whose stem is itself a stopword is dropped too, so the output is a fixed point:
// Normalize(Normalize(s)) == Normalize(s).
func (n *Normalizer) Normalize(s string) string {
	tokens := Tokens(s)
	if len(tokens) == 0 {
		return ""
	}
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if n.IsStopword(tok) {
			continue
		}
		stem := n.stemRoot(tok)
		if stem == "" || n.IsStopword(stem) {
			continue
		}
		out = append(out, stem)
	}
	return strings.Join(out, " ")
}

// stemRoot stems tok to a fixed point, at most four rounds.
func (n *Normalizer) stemRoot(tok string) string {
	cur := tok
	for i := 0; i < 4; i++ {
		next := Clean(n.stemmer.Stem(cur))
		if strings.ContainsRune(next, ' ') {
			return cur
		}
		if next == cur {
			return cur
		}
		cur = next
	}
	return cur
}
