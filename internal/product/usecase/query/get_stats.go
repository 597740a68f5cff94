package query

import (
	"context"
	"fmt"

	"github.com/tair/techstore/internal/product/domain"
)

// GetStatsQuery represents the query to get product statistics
type GetStatsQuery struct{}

// CategoryStats is one category's row in ProductStats
type CategoryStats struct {
	CategoryID   uint    `json:"category_id"`
	CategoryKey  string  `json:"category_key"`
	Products     int64   `json:"products"`
	InStock      int64   `json:"in_stock"`
	AveragePrice float64 `json:"average_price"`
}

// ProductStats represents product statistics
type ProductStats struct {
	TotalProducts   int64           `json:"total_products"`
	InStockProducts int64           `json:"in_stock_products"`
	AveragePrice    float64         `json:"average_price"`
	TotalCategories int64           `json:"total_categories"`
	Categories      []CategoryStats `json:"categories"`
}

// GetStatsHandler handles get stats query
type GetStatsHandler struct {
	repo domain.ProductRepository
}

// NewGetStatsHandler creates a new get stats handler
func NewGetStatsHandler(repo domain.ProductRepository) *GetStatsHandler {
	return &GetStatsHandler{repo: repo}
}

// Handle executes the get stats query
func (h *GetStatsHandler) Handle(ctx context.Context, query GetStatsQuery) (*ProductStats, error) {
	rows, err := h.repo.StatsByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get product stats: %w", err)
	}

	stats := &ProductStats{Categories: make([]CategoryStats, 0, len(rows))}
	var totalPrice float64
	for _, row := range rows {
		c, _ := domain.CategoryByID(row.CategoryID)
		stats.Categories = append(stats.Categories, CategoryStats{
			CategoryID:   row.CategoryID,
			CategoryKey:  c.Key,
			Products:     row.Products,
			InStock:      row.InStock,
			AveragePrice: row.AveragePrice,
		})
		stats.TotalProducts += row.Products
		stats.InStockProducts += row.InStock
		totalPrice += row.AveragePrice * float64(row.Products)
	}

	if stats.TotalProducts > 0 {
		stats.AveragePrice = totalPrice / float64(stats.TotalProducts)
	}
	stats.TotalCategories = int64(len(rows))

	return stats, nil
}
