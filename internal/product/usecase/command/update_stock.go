package command

import (
	"context"
	"fmt"

	"github.com/tair/techstore/internal/apperr"
	"github.com/tair/techstore/internal/product/domain"
	"github.com/tair/techstore/pkg/auth"
)

// UpdateStockCommand represents the command to update product stock
type UpdateStockCommand struct {
	Credential string
	ProductID  uint
	Stock      int
}

// UpdateStockHandler handles stock update command
type UpdateStockHandler struct {
	repo   domain.ProductRepository
	gate   auth.Gate
	events domain.EventPublisher
}

// NewUpdateStockHandler creates a new update stock handler
func NewUpdateStockHandler(repo domain.ProductRepository, gate auth.Gate, events domain.EventPublisher) *UpdateStockHandler {
	return &UpdateStockHandler{repo: repo, gate: gate, events: events}
}

// Handle executes the update stock command
func (h *UpdateStockHandler) Handle(ctx context.Context, cmd UpdateStockCommand) (*domain.Product, error) {
	principal, err := AuthorizeAdmin(ctx, h.gate, cmd.Credential)
	if err != nil {
		return nil, err
	}

	if cmd.Stock < 0 {
		return nil, apperr.NewFieldError("stock_quantity", "must be a non-negative integer")
	}

	product, err := h.repo.FindByID(ctx, cmd.ProductID)
	if err != nil {
		return nil, err
	}
	before := *product

	if err := h.repo.UpdateStock(ctx, cmd.ProductID, cmd.Stock); err != nil {
		return nil, fmt.Errorf("failed to update stock: %w", err)
	}
	product.StockQuantity = cmd.Stock

	after := *product
	publish(ctx, h.events, domain.ProductChange{
		Type:      domain.ChangeUpdated,
		ProductID: product.ID,
		ActorID:   principal.UserID,
		Before:    &before,
		After:     &after,
	})

	return product, nil
}
