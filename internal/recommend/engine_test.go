package recommend

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/hyperjump/kuliner/internal/corpus"
	"github.com/hyperjump/kuliner/internal/fixtures"
	"github.com/hyperjump/kuliner/internal/models"
	"github.com/hyperjump/kuliner/internal/ranking"
	"github.com/hyperjump/kuliner/internal/similarity"
	"github.com/hyperjump/kuliner/internal/warning"
)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(fixtures.Catalog(), opts...)
	require.NoError(t, err)
	return e
}

func names(results []*models.ScoredBusiness) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Business.Name
	}
	return out
}

func TestNew_Errors(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, corpus.ErrEmptyCorpus)

	blank := fixtures.Catalog()
	for i := range blank {
		blank[i].SearchText = "  "
	}
	_, err = New(blank)
	assert.ErrorIs(t, err, corpus.ErrEmptySearchText)

	_, err = New(fixtures.Catalog(), WithRankingConfig(&ranking.Config{ExactNameBonus: 10}))
	assert.ErrorIs(t, err, ranking.ErrInvalidConfig)

	_, err = New(fixtures.Catalog(), WithVectorizer(similarity.Vectorizer{MaxDF: 2}))
	assert.Error(t, err)
}

func TestNew_PrecomputedSwitch(t *testing.T) {
	records := fixtures.Catalog()
	for i := range records {
		records[i].NormalizedText = "sama"
	}

	_, err := New(records, WithPrecomputed(true))
	assert.ErrorIs(t, err, similarity.ErrEmptyVocabulary)

	e, err := New(records, WithPrecomputed(false), WithWorkers(2))
	require.NoError(t, err)
	for _, b := range e.Records() {
		assert.NotEqual(t, "sama", b.NormalizedText)
	}
	assert.Equal(t, "sama", records[0].NormalizedText)
}

func TestNew_DoesNotMutateInput(t *testing.T) {
	records := fixtures.Catalog()
	_, err := New(records)
	require.NoError(t, err)
	for _, b := range records {
		assert.Empty(t, b.NormalizedText)
	}
}

func TestEngine_RecommendValidation(t *testing.T) {
	e := newTestEngine(t, WithTopN(3, 10))

	_, err := e.Recommend("   ", models.PriceAll, 5)
	assert.ErrorIs(t, err, ErrEmptyQuery)

	_, err = e.Recommend("kopi", models.PriceAll, 11)
	assert.ErrorIs(t, err, ErrInvalidTopN)

	rec, err := e.Recommend("kopi", models.PriceAll, 0)
	require.NoError(t, err)
	assert.Len(t, rec.Results, 3)
}

func TestEngine_TooShortQuery(t *testing.T) {
	e := newTestEngine(t)
	for _, q := range []string{"di", "??", "a"} {
		rec, err := e.Recommend(q, models.PriceAll, 5)
		require.NoError(t, err, q)
		assert.Empty(t, rec.Results, q)
		assert.NotNil(t, rec.Results, q)
		assert.Empty(t, rec.Warning, q)
	}
}

func TestEngine_CategoryWithPriceKeyword(t *testing.T) {
	e := newTestEngine(t)
	rec, err := e.Recommend("kopi murah", models.PriceAll, 5)
	require.NoError(t, err)

	assert.Equal(t, "strict", rec.Mode)
	assert.Equal(t, "kopi murah", rec.ResolvedQuery)
	require.Len(t, rec.Results, 5)
	for _, r := range rec.Results {
		assert.Equal(t, "Cafe & Dessert", r.Business.Category)
	}
	assert.ElementsMatch(t, []string{"Warung Kopi Murah Meriah", "Kopi Senja"}, names(rec.Results[:2]))
	for _, r := range rec.Results[:2] {
		assert.Equal(t, models.TierLow, r.Business.Tier())
	}
	assert.Empty(t, rec.Warning)
}

func TestEngine_TypoIsCorrected(t *testing.T) {
	e := newTestEngine(t)
	rec, err := e.Recommend("Kpi MURAHH!!", models.PriceAll, 5)
	require.NoError(t, err)
	assert.Equal(t, "kopi murah", rec.ResolvedQuery)
	require.NotEmpty(t, rec.Results)
	assert.Equal(t, "Cafe & Dessert", rec.Results[0].Business.Category)
}

func TestEngine_PriceFilterOverridesKeywords(t *testing.T) {
	e := newTestEngine(t)
	rec, err := e.Recommend("kopi", models.PriceHigh, 5)
	require.NoError(t, err)
	require.NotEmpty(t, rec.Results)
	assert.Equal(t, "Koffie Huis", rec.Results[0].Business.Name)
	assert.Empty(t, rec.Warning)
}

func TestEngine_CategoryOnlyStaysInCategory(t *testing.T) {
	e := newTestEngine(t)
	rec, err := e.Recommend("masakan padang", models.PriceAll, 10)
	require.NoError(t, err)
	require.NotEmpty(t, rec.Results)
	for _, r := range rec.Results {
		assert.Equal(t, "Masakan Padang", r.Business.Category)
	}
}

func TestEngine_VisitorTypeOnly(t *testing.T) {
	e := newTestEngine(t)
	rec, err := e.Recommend("tempat keluarga", models.PriceAll, 10)
	require.NoError(t, err)
	require.NotEmpty(t, rec.Results)
	assert.Equal(t, "strict", rec.Mode)
	for _, r := range rec.Results {
		assert.Contains(t, strings.ToLower(r.Business.VisitorTypes), "keluarga")
	}
}

func TestEngine_ConflictingCuisines(t *testing.T) {
	e := newTestEngine(t)
	rec, err := e.Recommend("sushi padang", models.PriceAll, 5)
	require.NoError(t, err)
	assert.Equal(t, string(warning.KindCuisineConflict), rec.WarningKind)
	assert.Contains(t, rec.Warning, "Masakan Padang")
	for _, r := range rec.Results {
		assert.Equal(t, "Masakan Padang", r.Business.Category)
	}
}

func TestEngine_ExactNameWins(t *testing.T) {
	e := newTestEngine(t)
	for _, q := range []string{"Ini Itu Cafe", "  ini itu CAFE "} {
		rec, err := e.Recommend(q, models.PriceAll, 5)
		require.NoError(t, err, q)
		require.NotEmpty(t, rec.Results, q)
		assert.Equal(t, "Ini Itu Cafe", rec.Results[0].Business.Name, q)
		assert.Greater(t, rec.Results[0].Score, 900.0, q)
	}
}

func TestEngine_LocationWithMatches(t *testing.T) {
	e := newTestEngine(t)
	rec, err := e.Recommend("sushi braga", models.PriceAll, 5)
	require.NoError(t, err)
	require.NotEmpty(t, rec.Results)
	for _, r := range rec.Results {
		assert.Contains(t, strings.ToLower(r.Business.Address), "braga")
	}
	assert.Equal(t, string(warning.KindItemUnavailable), rec.WarningKind)
	assert.Contains(t, rec.Warning, "sushi")
}

func TestEngine_LocationWithoutMatches(t *testing.T) {
	e := newTestEngine(t)
	rec, err := e.Recommend("bakso gedebage", models.PriceAll, 5)
	require.NoError(t, err)
	require.NotEmpty(t, rec.Results)
	assert.Contains(t, []string{"Bakso Mas Ari", "Mie Kocok Mang Dadeng"}, rec.Results[0].Business.Name)
	assert.Equal(t, string(warning.KindNoAreaData), rec.WarningKind)
	assert.Contains(t, rec.Warning, "Gedebage")
	assert.Equal(t, "flexible", rec.Mode)
}

func TestEngine_CategoryInMatchedArea(t *testing.T) {
	e := newTestEngine(t)
	tests := []struct {
		query    string
		category string
	}{
		{"padang braga", "Masakan Padang"},
		{"masakan sunda di braga", "Masakan Sunda"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec, err := e.Recommend(tt.query, models.PriceAll, 5)
			require.NoError(t, err)
			assert.Equal(t, "flexible", rec.Mode)
			require.NotEmpty(t, rec.Results)
			for _, r := range rec.Results {
				assert.Contains(t, strings.ToLower(r.Business.Address), "braga")
			}
			assert.Equal(t, string(warning.KindItemUnavailable), rec.WarningKind)
			assert.Contains(t, rec.Warning, tt.category+" belum tersedia di area Braga")
		})
	}
}

func TestEngine_IntentTermsAreNotItems(t *testing.T) {
	e := newTestEngine(t)
	tests := []struct {
		query string
		area  string
	}{
		{"wifi di braga", "braga"},
		{"tempat romantis di braga", "braga"},
		{"resto keluarga di sukajadi", "sukajadi"},
		{"tempat nugas di braga", "braga"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec, err := e.Recommend(tt.query, models.PriceAll, 5)
			require.NoError(t, err)
			require.NotEmpty(t, rec.Results)
			assert.Contains(t, strings.ToLower(rec.Results[0].Business.Address), tt.area)
			assert.Empty(t, rec.WarningKind)
			assert.Empty(t, rec.Warning)
		})
	}
}

func TestEngine_Deterministic(t *testing.T) {
	e := newTestEngine(t)
	queries := []string{"kopi murah", "sushi braga", "tempat keluarga", "Ini Itu Cafe", "bakso gedebage"}

	want := make(map[string]*models.Recommendation, len(queries))
	for _, q := range queries {
		rec, err := e.Recommend(q, models.PriceAll, 5)
		require.NoError(t, err)
		want[q] = rec
	}

	g, _ := errgroup.WithContext(context.Background())
	got := make([]*models.Recommendation, len(queries)*4)
	for i := range got {
		i := i
		g.Go(func() error {
			rec, err := e.Recommend(queries[i%len(queries)], models.PriceAll, 5)
			got[i] = rec
			return err
		})
	}
	require.NoError(t, g.Wait())
	for i, rec := range got {
		assert.Equal(t, want[queries[i%len(queries)]], rec)
	}
}

func TestEngine_ResultsAreCopies(t *testing.T) {
	e := newTestEngine(t)
	rec, err := e.Recommend("Ini Itu Cafe", models.PriceAll, 1)
	require.NoError(t, err)
	rec.Results[0].Business.Name = "changed"

	rec, err = e.Recommend("Ini Itu Cafe", models.PriceAll, 1)
	require.NoError(t, err)
	assert.Equal(t, "Ini Itu Cafe", rec.Results[0].Business.Name)
}

func TestEngine_Auxiliary(t *testing.T) {
	e := newTestEngine(t)
	assert.Equal(t, 15, e.Len())
	assert.Contains(t, e.Categories(), "Bakso & Mie")

	got, err := e.FilterByCategory("cafe", 0)
	require.NoError(t, err)
	assert.Len(t, got, 5)

	got, err = e.FilterByPrice("mahal")
	require.NoError(t, err)
	assert.Len(t, got, 4)

	got, err = e.FilterByLocation("braga")
	require.NoError(t, err)
	assert.Len(t, got, 4)

	_, err = e.FilterByLocation(" ")
	assert.ErrorIs(t, err, corpus.ErrEmptyFilter)

	stats := e.Stats()
	assert.Equal(t, 15, stats.Total)
	assert.Equal(t, "Cafe & Dessert", stats.TopCategories[0].Category)

	info := e.Info()
	assert.Equal(t, 15, info.Records)
	assert.Positive(t, info.Features)
	assert.Positive(t, info.Vocabulary)
	assert.Equal(t, []string{"category", "location", "content", "price", "combo", "name"}, info.Stages)
}

func TestHolder(t *testing.T) {
	h := NewHolder(nil)
	assert.Nil(t, h.Load())

	first := newTestEngine(t)
	assert.Nil(t, h.Swap(first))
	assert.Same(t, first, h.Load())

	second := newTestEngine(t)
	assert.Same(t, first, h.Swap(second))
	assert.Same(t, second, h.Load())
}
