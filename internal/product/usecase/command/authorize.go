package command

import (
	"context"
	"errors"

	"github.com/tair/techstore/internal/apperr"
	"github.com/tair/techstore/internal/product/domain"
	"github.com/tair/techstore/pkg/auth"
	"github.com/tair/techstore/pkg/logger"
)

// AuthorizeAdmin resolves the credential and requires the Admin role.
// Gate failures become 401, a missing role becomes 403.
func AuthorizeAdmin(ctx context.Context, gate auth.Gate, credential string) (*auth.Principal, error) {
	principal, err := auth.RequireRole(ctx, gate, credential, auth.RoleAdmin)
	switch {
	case err == nil:
		return principal, nil
	case errors.Is(err, auth.ErrForbidden):
		return nil, apperr.NewForbiddenError("admin role required")
	default:
		return nil, apperr.NewUnauthorizedError(err.Error())
	}
}

// ensureUniqueSKU fails when another product already carries the sku
func ensureUniqueSKU(ctx context.Context, repo domain.ProductRepository, sku *string, self uint) error {
	if sku == nil {
		return nil
	}
	existing, err := repo.FindBySKU(ctx, *sku)
	if apperr.IsNotFoundError(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != self {
		return apperr.NewConflictError("SKU must be unique")
	}
	return nil
}

// resolveCategory maps a category key to its id. Unknown keys resolve to 0,
// which product validation rejects.
func resolveCategory(key string, fallback uint) uint {
	if key == "" {
		return fallback
	}
	if c, ok := domain.LookupCategory(key); ok {
		return c.ID
	}
	return 0
}

// warnOutsideCategory logs brand or type values the category does not list
func warnOutsideCategory(ctx context.Context, p *domain.Product) {
	c, ok := domain.CategoryByID(p.CategoryID)
	if !ok {
		return
	}
	if !c.AllowsBrand(p.Brand) || !c.AllowsType(p.ProductType) {
		logger.Warn(ctx).
			Str("category", c.Key).
			Str("brand", p.Brand).
			Str("product_type", p.ProductType).
			Msg("Product brand or type is not listed for its category")
	}
}

// publish announces a committed change. The write already succeeded, so a
// publish failure is logged and not returned.
func publish(ctx context.Context, events domain.EventPublisher, change domain.ProductChange) {
	if events == nil {
		return
	}
	if err := events.PublishProductChanged(ctx, change); err != nil {
		logger.Error(ctx).
			Err(err).
			Str("event_type", string(change.Type)).
			Uint("product_id", change.ProductID).
			Msg("Failed to publish product change")
	}
}
