package command

import (
	"context"
	"fmt"

	"github.com/tair/techstore/internal/product/domain"
	"github.com/tair/techstore/pkg/auth"
)

// DeleteProductCommand represents the command to delete a product
type DeleteProductCommand struct {
	Credential string
	ID         uint
}

// DeleteProductHandler handles product deletion command
type DeleteProductHandler struct {
	repo   domain.ProductRepository
	gate   auth.Gate
	events domain.EventPublisher
}

// NewDeleteProductHandler creates a new delete product handler
func NewDeleteProductHandler(repo domain.ProductRepository, gate auth.Gate, events domain.EventPublisher) *DeleteProductHandler {
	return &DeleteProductHandler{repo: repo, gate: gate, events: events}
}

// Handle executes the delete product command. Products referenced by order
// items are kept and a ConflictError is returned.
func (h *DeleteProductHandler) Handle(ctx context.Context, cmd DeleteProductCommand) error {
	principal, err := AuthorizeAdmin(ctx, h.gate, cmd.Credential)
	if err != nil {
		return err
	}

	product, err := h.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return err
	}

	if err := h.repo.Delete(ctx, cmd.ID); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	publish(ctx, h.events, domain.ProductChange{
		Type:      domain.ChangeDeleted,
		ProductID: cmd.ID,
		ActorID:   principal.UserID,
		Before:    product,
	})

	return nil
}
