package recommend

import (
	"context"
	"fmt"

	"github.com/hyperjump/kuliner/internal/dataset"
)

// Load reads the dataset at src and builds an engine from it. Normalized search text
// shipped with the dataset is reused unless opts say otherwise.
func Load(ctx context.Context, src dataset.Source, opts ...Option) (*Engine, error) {
	table, err := dataset.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	records, hasNormalized, err := dataset.ToBusinesses(table)
	if err != nil {
		return nil, fmt.Errorf("map dataset %s: %w", src.Path, err)
	}
	opts = append([]Option{WithPrecomputed(hasNormalized)}, opts...)
	return Build(ctx, records, opts...)
}
