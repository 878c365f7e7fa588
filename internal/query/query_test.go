package query

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperjump/kuliner/internal/lexicon"
	"github.com/hyperjump/kuliner/internal/textproc"
)

type mockVocabulary struct {
	tokens   []string
	priority map[string]bool
}

func newMockVocabulary(tokens []string, priority ...string) *mockVocabulary {
	sorted := append([]string(nil), tokens...)
	sort.Strings(sorted)
	v := &mockVocabulary{tokens: sorted, priority: make(map[string]bool)}
	for _, p := range priority {
		v.priority[p] = true
	}
	return v
}

func (m *mockVocabulary) Contains(tok string) bool {
	i := sort.SearchStrings(m.tokens, tok)
	return i < len(m.tokens) && m.tokens[i] == tok
}

func (m *mockVocabulary) IsPriority(tok string) bool { return m.priority[tok] }

func (m *mockVocabulary) Tokens() []string { return m.tokens }

type mockNames map[string]bool

func (m mockNames) HasExactName(q string) bool { return m[textproc.CollapseSpaces(q)] }

func TestCorrector_Defaults(t *testing.T) {
	c := NewCorrector(newMockVocabulary(nil), nil)
	assert.Equal(t, 0.82, c.longCutoff)
	assert.Equal(t, 0.70, c.shortCutoff)
	assert.Equal(t, 4, c.shortLen)
	assert.Equal(t, 3, c.maxCandidates)

	c = NewCorrector(newMockVocabulary(nil), nil, WithCutoffs(0.9, 0.6), WithShortLength(3), WithMaxCandidates(5), WithCutoffs(2, -1))
	assert.Equal(t, 0.9, c.longCutoff)
	assert.Equal(t, 0.6, c.shortCutoff)
	assert.Equal(t, 3, c.shortLen)
	assert.Equal(t, 5, c.maxCandidates)
}

func TestCorrector_Correct(t *testing.T) {
	vocab := newMockVocabulary([]string{"kopi", "murah", "sushi", "ramen", "rendang", "sapi", "sari"})
	c := NewCorrector(vocab, []string{"nugas"})

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"long token over cutoff", "murahh", "murah"},
		{"long token under cutoff", "murha", "murha"},
		{"short token uses looser cutoff", "kpi", "kopi"},
		{"vocabulary token kept", "ramen", "ramen"},
		{"known token kept", "nugas", "nugas"},
		{"digits kept", "24jm", "24jm"},
		{"no candidate", "zzzz", "zzzz"},
		{"tie broken alphabetically", "sani", "sapi"},
		{"multi token", "kpi murahh braga", "kopi murah braga"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := c.Correct(tt.in)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCorrector_ShortTokens(t *testing.T) {
	c := NewCorrector(newMockVocabulary([]string{"bbq", "kopi"}), []string{"di"})

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"two runes corrected like any other token", "bb", "bbq"},
		{"two runes under the short cutoff", "ko", "ko"},
		{"known short word kept", "di", "di"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := c.Correct(tt.in)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCorrector_PrefersPriority(t *testing.T) {
	vocab := newMockVocabulary([]string{"sapi", "sari"}, "sari")
	c := NewCorrector(vocab, nil)

	got, corrections := c.Correct("sani")
	assert.Equal(t, "sari", got)
	assert.Equal(t, []Correction{{From: "sani", To: "sari"}}, corrections)

	got, _ = NewCorrector(vocab, nil, WithMaxCandidates(1)).Correct("sani")
	assert.Equal(t, "sapi", got)
}

func TestCorrector_Suggest(t *testing.T) {
	c := NewCorrector(newMockVocabulary([]string{"sari", "sapi", "kopi"}), nil)
	got := c.Suggest("sani")
	require.Len(t, got, 2)
	assert.Equal(t, "sapi", got[0].Term)
	assert.Equal(t, "sari", got[1].Term)
	assert.InDelta(t, 0.75, got[0].Ratio, 1e-9)

	assert.Empty(t, c.Suggest("xyz"))
}

func TestSynonymReplacer(t *testing.T) {
	s := NewSynonymReplacer(lexicon.MustDefault().Synonyms())

	tests := []struct {
		in   string
		want string
	}{
		{"kopi murah", "cafe dessert murah"},
		{"kedai kopi", "cafe dessert"},
		{"sushi padang", "sushi masakan padang"},
		{"nasgor buah batu", "nasi goreng buahbatu"},
		{"rendang", "rendang"},
		{"kopian", "kopian"},
		{"chicken fried rice", "ayam nasi goreng"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Replace(tt.in))
		})
	}
}

func TestSynonymReplacer_NoChaining(t *testing.T) {
	s := NewSynonymReplacer([]lexicon.Synonym{
		{From: "a1", To: "b1"},
		{From: "b1", To: "c1"},
	})
	assert.Equal(t, "b1 c1", s.Replace("a1 b1"))
	assert.Equal(t, []string{"a1", "b1"}, s.Keys())
}

func TestExpander(t *testing.T) {
	e := NewExpander([]lexicon.Expansion{
		{Term: "nugas", Expand: "wifi colokan"},
		{Term: "anak kos", Expand: "murah kenyang"},
		{Term: "nugas", Expand: "ignored"},
	})

	assert.Equal(t, "cafe nugas wifi colokan", e.Expand("cafe nugas"))
	assert.Equal(t, "anak kos nugas wifi colokan murah kenyang", e.Expand("anak kos nugas"))
	assert.Equal(t, []string{"nugas", "anak kos"}, e.Matched("anak kos nugas nugas"))
	assert.Equal(t, "menugas", e.Expand("menugas"))
}

func newTestProcessor(names mockNames) *Processor {
	lex := lexicon.MustDefault()
	vocab := newMockVocabulary([]string{"kopi", "murah", "sushi", "padang", "braga", "ini", "itu", "cafe"})
	identity := textproc.StemmerFunc(func(s string) string { return s })
	return NewProcessor(
		names,
		NewCorrector(vocab, lex.KnownTerms()),
		NewSynonymReplacer(lex.Synonyms()),
		NewExpander(lex.Expansions()),
		textproc.NewNormalizer(lex.Stopwords(), textproc.WithStemmer(identity)),
	)
}

func TestProcessor_Process(t *testing.T) {
	p := newTestProcessor(mockNames{"ini itu cafe": true})

	t.Run("corrects then canonicalizes", func(t *testing.T) {
		q := p.Process("Kpi MURAHH!!")
		assert.False(t, q.ExactName)
		assert.Equal(t, "kopi murah", q.Display)
		assert.Equal(t, "cafe dessert murah", q.Canonical)
		assert.Contains(t, q.Expanded, "terjangkau")
		assert.Contains(t, q.Stemmed, "dessert")
		assert.Len(t, q.Corrections, 2)
	})

	t.Run("exact name skips correction and synonyms", func(t *testing.T) {
		q := p.Process("  Ini   Itu Cafe ")
		assert.True(t, q.ExactName)
		assert.Equal(t, "ini itu cafe", q.Display)
		assert.Equal(t, "ini itu cafe", q.Canonical)
		assert.Empty(t, q.Corrections)
		assert.False(t, q.TooShort(2))
	})

	t.Run("stopword only query is too short", func(t *testing.T) {
		q := p.Process("di")
		assert.Equal(t, "di", q.Display)
		assert.Empty(t, q.Stemmed)
		assert.True(t, q.TooShort(2))
	})

	t.Run("empty", func(t *testing.T) {
		q := p.Process("")
		assert.Empty(t, q.Display)
		assert.True(t, q.TooShort(2))
	})
}

func TestProcessor_Deterministic(t *testing.T) {
	p := newTestProcessor(nil)
	a := p.Process("sushi padang braga")
	b := p.Process("sushi padang braga")
	assert.Equal(t, a, b)
	assert.Equal(t, "sushi masakan padang braga", a.Canonical)
}
