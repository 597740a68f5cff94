package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/tair/techstore/internal/product/domain"
	"github.com/tair/techstore/pkg/logger"
)

// Local store kinds
const (
	StoreMemory = "memory"
	StoreFile   = "file"
)

// NewStore builds a local product store. The file path is only used by the
// file store.
func NewStore(kind, path string) (domain.ProductRepository, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", StoreMemory:
		return NewInMemoryStore(), nil
	case StoreFile:
		if path == "" {
			return nil, fmt.Errorf("file store requires a path")
		}
		return NewFileStore(path)
	default:
		return nil, fmt.Errorf("unknown store type: %s", kind)
	}
}

// SeedIfEmpty inserts the demo assortment into an empty repository and
// returns the number of products created
func SeedIfEmpty(ctx context.Context, repo domain.ProductRepository) (int, error) {
	count, err := repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	seeds := domain.SeedProducts()
	for i := range seeds {
		if err := repo.Create(ctx, &seeds[i]); err != nil {
			return i, fmt.Errorf("seed %q: %w", seeds[i].Name, err)
		}
	}

	logger.Info(ctx).Int("products", len(seeds)).Msg("Seeded product catalog")
	return len(seeds), nil
}
