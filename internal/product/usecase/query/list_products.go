package query

import (
	"context"
	"fmt"

	"github.com/tair/techstore/internal/product/domain"
)

// ListProductsQuery represents the query to list the products of a category.
// CategoryKey wins over CategoryID; neither selects every category.
type ListProductsQuery struct {
	CategoryKey string
	CategoryID  uint
	Criteria    domain.FilterCriteria
}

// ListProductsHandler handles list products query
type ListProductsHandler struct {
	repo domain.ProductRepository
}

// NewListProductsHandler creates a new list products handler
func NewListProductsHandler(repo domain.ProductRepository) *ListProductsHandler {
	return &ListProductsHandler{repo: repo}
}

// Handle executes the list products query. An unknown category key yields
// an empty list.
func (h *ListProductsHandler) Handle(ctx context.Context, query ListProductsQuery) ([]domain.Product, error) {
	categoryID := query.CategoryID
	if query.CategoryKey != "" {
		c, ok := domain.LookupCategory(query.CategoryKey)
		if !ok {
			return []domain.Product{}, nil
		}
		categoryID = c.ID
	}

	products, err := h.repo.List(ctx, categoryID, query.Criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, nil
}
