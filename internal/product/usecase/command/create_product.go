package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/tair/techstore/internal/product/domain"
	"github.com/tair/techstore/pkg/auth"
)

// CreateProductCommand represents the command to create a new product
type CreateProductCommand struct {
	Credential string
	Input      domain.ProductInput
}

// CreateProductHandler handles product creation command
type CreateProductHandler struct {
	repo   domain.ProductRepository
	gate   auth.Gate
	events domain.EventPublisher
}

// NewCreateProductHandler creates a new create product handler
func NewCreateProductHandler(repo domain.ProductRepository, gate auth.Gate, events domain.EventPublisher) *CreateProductHandler {
	return &CreateProductHandler{repo: repo, gate: gate, events: events}
}

// Handle executes the create product command
func (h *CreateProductHandler) Handle(ctx context.Context, cmd CreateProductCommand) (*domain.Product, error) {
	principal, err := AuthorizeAdmin(ctx, h.gate, cmd.Credential)
	if err != nil {
		return nil, err
	}

	in := cmd.Input
	product := &domain.Product{
		CategoryID:       resolveCategory(in.CategoryKey, in.CategoryID),
		Name:             strings.TrimSpace(in.Name),
		Brand:            strings.TrimSpace(in.Brand),
		ProductType:      strings.TrimSpace(in.ProductType),
		ShortDescription: in.ShortDescription,
		Description:      in.Description,
		ImageURL:         in.ImageURL,
		Price:            in.Price,
		StockQuantity:    in.StockQuantity,
		SKU:              domain.NormalizeSKU(in.SKU),
	}

	if err := product.Validate(); err != nil {
		return nil, err
	}
	warnOutsideCategory(ctx, product)

	if err := ensureUniqueSKU(ctx, h.repo, product.SKU, 0); err != nil {
		return nil, err
	}

	if err := h.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	created := *product
	publish(ctx, h.events, domain.ProductChange{
		Type:      domain.ChangeCreated,
		ProductID: product.ID,
		ActorID:   principal.UserID,
		After:     &created,
	})

	return product, nil
}
