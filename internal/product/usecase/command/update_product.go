package command

import (
	"context"
	"fmt"

	"github.com/tair/techstore/internal/product/domain"
	"github.com/tair/techstore/pkg/auth"
)

// UpdateProductCommand represents the command to update a product.
// Only the fields set in Patch change.
type UpdateProductCommand struct {
	Credential string
	ID         uint
	Patch      domain.ProductPatch
}

// UpdateProductHandler handles product update command
type UpdateProductHandler struct {
	repo   domain.ProductRepository
	gate   auth.Gate
	events domain.EventPublisher
}

// NewUpdateProductHandler creates a new update product handler
func NewUpdateProductHandler(repo domain.ProductRepository, gate auth.Gate, events domain.EventPublisher) *UpdateProductHandler {
	return &UpdateProductHandler{repo: repo, gate: gate, events: events}
}

// Handle executes the update product command
func (h *UpdateProductHandler) Handle(ctx context.Context, cmd UpdateProductCommand) (*domain.Product, error) {
	principal, err := AuthorizeAdmin(ctx, h.gate, cmd.Credential)
	if err != nil {
		return nil, err
	}

	product, err := h.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}
	if cmd.Patch.IsEmpty() {
		return product, nil
	}
	before := *product

	patch := cmd.Patch
	if patch.CategoryKey != nil {
		id := resolveCategory(*patch.CategoryKey, product.CategoryID)
		patch.CategoryID = &id
	}
	patch.Apply(product)

	if err := product.Validate(); err != nil {
		return nil, err
	}
	warnOutsideCategory(ctx, product)

	if err := ensureUniqueSKU(ctx, h.repo, product.SKU, product.ID); err != nil {
		return nil, err
	}

	if err := h.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

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
