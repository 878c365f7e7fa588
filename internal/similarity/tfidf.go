package similarity

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

// ErrEmptyVocabulary is returned by Fit when document-frequency pruning leaves no features.
var ErrEmptyVocabulary = errors.New("no terms remain after pruning")

var tokenRegex = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Vectorizer holds the fixed TF-IDF construction parameters.
type Vectorizer struct {
	// MaxFeatures caps the vocabulary by total corpus count; zero means no cap.
	MaxFeatures int `yaml:"max_features"`
	// MinDF drops terms found in fewer documents.
	MinDF int `yaml:"min_df"`
	// MaxDF drops terms found in more than this fraction of documents.
	MaxDF float64 `yaml:"max_df"`
	// NgramMax is the longest word n-gram extracted.
	NgramMax int `yaml:"ngram_max"`
}

// DefaultVectorizer returns the catalog defaults: 1000 features, unigrams and bigrams,
// min_df 1 and max_df 0.8.
func DefaultVectorizer() Vectorizer {
	return Vectorizer{MaxFeatures: 1000, MinDF: 1, MaxDF: 0.8, NgramMax: 2}
}

// ApplyDefaults fills zero fields from DefaultVectorizer.
func (v *Vectorizer) ApplyDefaults() {
	d := DefaultVectorizer()
	if v.MaxFeatures == 0 {
		v.MaxFeatures = d.MaxFeatures
	}
	if v.MinDF == 0 {
		v.MinDF = d.MinDF
	}
	if v.MaxDF == 0 {
		v.MaxDF = d.MaxDF
	}
	if v.NgramMax == 0 {
		v.NgramMax = d.NgramMax
	}
}

// Validate checks the parameters are usable.
func (v Vectorizer) Validate() error {
	if v.MaxFeatures < 0 {
		return fmt.Errorf("max_features must not be negative, got %d", v.MaxFeatures)
	}
	if v.MinDF < 1 {
		return fmt.Errorf("min_df must be at least 1, got %d", v.MinDF)
	}
	if v.MaxDF <= 0 || v.MaxDF > 1 {
		return fmt.Errorf("max_df must be in (0,1], got %v", v.MaxDF)
	}
	if v.NgramMax < 1 {
		return fmt.Errorf("ngram_max must be at least 1, got %d", v.NgramMax)
	}
	return nil
}

// Analyze splits text into lower-cased word n-grams of length 1..NgramMax.
func (v Vectorizer) Analyze(text string) []string {
	words := tokenRegex.FindAllString(strings.ToLower(text), -1)
	maxN := v.NgramMax
	if maxN < 1 {
		maxN = 1
	}
	terms := make([]string, 0, len(words)*maxN)
	terms = append(terms, words...)
	for n := 2; n <= maxN; n++ {
		for i := 0; i+n <= len(words); i++ {
			terms = append(terms, strings.Join(words[i:i+n], " "))
		}
	}
	return terms
}

type posting struct {
	doc    int
	weight float64
}

// Model is a fitted TF-IDF model. It is read-only and safe for concurrent use.
type Model struct {
	vectorizer Vectorizer
	features   map[string]int
	terms      []string
	idf        []float64
	rows       []SparseVector
	postings   [][]posting
}

// Fit learns the vocabulary and idf weights of docs and returns the fitted model.
func (v Vectorizer) Fit(docs []string) (*Model, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	n := len(docs)
	if n == 0 {
		return nil, ErrEmptyVocabulary
	}

	docCounts := make([]map[string]int, n)
	df := make(map[string]int)
	total := make(map[string]int)
	for i, doc := range docs {
		counts := make(map[string]int)
		for _, term := range v.Analyze(doc) {
			counts[term]++
		}
		for term, c := range counts {
			df[term]++
			total[term] += c
		}
		docCounts[i] = counts
	}

	maxDoc := v.MaxDF * float64(n)
	kept := make([]string, 0, len(df))
	for term, d := range df {
		if d < v.MinDF || float64(d) > maxDoc {
			continue
		}
		kept = append(kept, term)
	}
	if len(kept) == 0 {
		return nil, ErrEmptyVocabulary
	}
	sort.Strings(kept)
	if v.MaxFeatures > 0 && len(kept) > v.MaxFeatures {
		sort.SliceStable(kept, func(i, j int) bool { return total[kept[i]] > total[kept[j]] })
		kept = kept[:v.MaxFeatures]
		sort.Strings(kept)
	}

	m := &Model{
		vectorizer: v,
		features:   make(map[string]int, len(kept)),
		terms:      kept,
		idf:        make([]float64, len(kept)),
		rows:       make([]SparseVector, n),
		postings:   make([][]posting, len(kept)),
	}
	for i, term := range kept {
		m.features[term] = i
		m.idf[i] = math.Log(float64(1+n)/float64(1+df[term])) + 1
	}
	for i, counts := range docCounts {
		row := m.weigh(counts)
		m.rows[i] = row
		for k, idx := range row.Indices {
			m.postings[idx] = append(m.postings[idx], posting{doc: i, weight: row.Values[k]})
		}
	}
	return m, nil
}

// weigh turns raw term counts into a unit-length tf-idf vector over the model's features.
func (m *Model) weigh(counts map[string]int) SparseVector {
	var vec SparseVector
	for term := range counts {
		idx, ok := m.features[term]
		if !ok {
			continue
		}
		vec.Indices = append(vec.Indices, idx)
	}
	sort.Ints(vec.Indices)
	vec.Values = make([]float64, len(vec.Indices))
	for k, idx := range vec.Indices {
		vec.Values[k] = float64(counts[m.terms[idx]]) * m.idf[idx]
	}
	return vec.Normalized()
}

// Transform returns the unit-length tf-idf vector of text. Unknown terms are ignored.
func (m *Model) Transform(text string) SparseVector {
	counts := make(map[string]int)
	for _, term := range m.vectorizer.Analyze(text) {
		counts[term]++
	}
	return m.weigh(counts)
}

// Score returns the cosine similarity of text against every document, in document order.
// A text with no known features scores all zeros.
func (m *Model) Score(text string) []float64 {
	scores := make([]float64, len(m.rows))
	q := m.Transform(text)
	for k, idx := range q.Indices {
		qw := q.Values[k]
		for _, p := range m.postings[idx] {
			scores[p.doc] += qw * p.weight
		}
	}
	for i, s := range scores {
		scores[i] = math.Min(1, math.Max(0, s))
	}
	return scores
}

// Len returns the number of fitted documents.
func (m *Model) Len() int { return len(m.rows) }

// Features returns the number of vocabulary features.
func (m *Model) Features() int { return len(m.terms) }

// Terms returns the sorted feature vocabulary.
func (m *Model) Terms() []string { return append([]string(nil), m.terms...) }

// IDF returns the idf weight of term and whether term is a feature.
func (m *Model) IDF(term string) (float64, bool) {
	idx, ok := m.features[term]
	if !ok {
		return 0, false
	}
	return m.idf[idx], true
}

// Row returns the unit-length vector of document i.
func (m *Model) Row(i int) SparseVector { return m.rows[i] }
