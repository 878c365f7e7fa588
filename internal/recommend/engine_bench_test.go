package recommend

import (
	"testing"

	"github.com/hyperjump/kuliner/internal/fixtures"
	"github.com/hyperjump/kuliner/internal/models"
)

func BenchmarkBuild(b *testing.B) {
	records := fixtures.Catalog()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := New(records, WithPrecomputed(false)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRecommend(b *testing.B) {
	e, err := New(fixtures.Catalog())
	if err != nil {
		b.Fatal(err)
	}
	queries := []string{"kopi murah", "tempat keluarga di dago", "sushi braga", "Roemah Kopi Dagoo", "bakso gedebage"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.Recommend(queries[i%len(queries)], models.PriceAll, 5); err != nil {
			b.Fatal(err)
		}
	}
}
