// Package view holds the catalog view model: the selected category, the
// filter and sort selection, and the visible product list derived from them.
package view

import (
	"context"
	"sync"

	"github.com/tair/techstore/internal/apperr"
	"github.com/tair/techstore/internal/product/access"
	"github.com/tair/techstore/internal/product/domain"
	"github.com/tair/techstore/internal/product/filter"
	"github.com/tair/techstore/pkg/logger"
)

// Snapshot is a consistent copy of the view state
type Snapshot struct {
	Category *domain.Category
	Criteria domain.FilterCriteria
	// Products is the visible list; nil while a load is in flight
	Products []domain.Product
	Loading  bool
	Err      error
}

// Catalog is one browsing session over a Product Access Service
type Catalog struct {
	source access.Access

	mu       sync.Mutex
	category *domain.Category
	criteria domain.FilterCriteria
	loaded   []domain.Product
	visible  []domain.Product
	loading  bool
	err      error
	// generation tags each load; a response whose tag is no longer current is dropped
	generation uint64
}

// NewCatalog creates an empty view over source
func NewCatalog(source access.Access) *Catalog {
	return &Catalog{source: source, criteria: domain.DefaultCriteria()}
}

// SelectCategory switches category, resets the filters and loads the
// category's products. A load superseded by a later selection is discarded
// and returns nil.
func (c *Catalog) SelectCategory(ctx context.Context, key string) error {
	category, ok := domain.LookupCategory(key)
	if !ok {
		err := apperr.NewFieldError("category", "unknown category: "+key)
		c.mu.Lock()
		c.err = err
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	c.category = &category
	c.criteria = domain.DefaultCriteria()
	c.loaded = nil
	gen := c.beginLoad()
	c.mu.Unlock()

	return c.load(ctx, gen, category)
}

// Refresh reloads the current category keeping the filters. It is a no-op
// while a load is in flight or before a category is selected.
func (c *Catalog) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.loading || c.category == nil {
		c.mu.Unlock()
		return nil
	}
	category := *c.category
	gen := c.beginLoad()
	c.mu.Unlock()

	return c.load(ctx, gen, category)
}

// UpdateFilter merges the patch and recomputes from the loaded products
func (c *Catalog) UpdateFilter(patch domain.CriteriaPatch) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.criteria = c.criteria.Merge(patch)
	c.recompute()
}

// ApplyFilters recomputes the visible list
func (c *Catalog) ApplyFilters() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recompute()
}

// ResetFilters clears every filter and recomputes
func (c *Catalog) ResetFilters() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.criteria = domain.DefaultCriteria()
	c.recompute()
}

// FilteredProducts returns the visible list, or nil while loading
func (c *Catalog) FilteredProducts() []domain.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loading {
		return nil
	}
	return append([]domain.Product{}, c.visible...)
}

// IsLoading reports whether a load is in flight
func (c *Catalog) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Snapshot returns a copy of the current state
func (c *Catalog) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{Criteria: c.criteria.Clone(), Loading: c.loading, Err: c.err}
	if c.category != nil {
		category := *c.category
		s.Category = &category
	}
	if !c.loading {
		s.Products = append([]domain.Product{}, c.visible...)
	}
	return s
}

// beginLoad must be called with the lock held
func (c *Catalog) beginLoad() uint64 {
	c.generation++
	c.loading = true
	c.err = nil
	c.visible = nil
	return c.generation
}

func (c *Catalog) load(ctx context.Context, gen uint64, category domain.Category) error {
	products, err := c.source.List(ctx, access.ListRequest{
		CategoryKey: category.Key,
		Criteria:    domain.DefaultCriteria(),
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation || c.category == nil || c.category.Key != category.Key {
		logger.Debug(ctx).
			Str("category", category.Key).
			Uint64("generation", gen).
			Msg("Discarding stale catalog load")
		return nil
	}

	c.loading = false
	if err != nil {
		c.err = err
		c.loaded = nil
		c.visible = nil
		return err
	}
	c.loaded = products
	c.recompute()
	return nil
}

// recompute must be called with the lock held
func (c *Catalog) recompute() {
	if c.loading {
		return
	}
	c.visible = filter.Apply(c.criteria, c.loaded)
}
