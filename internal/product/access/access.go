// Package access defines the Product Access Service consumed by the catalog
// view model and the CLI, with an in-process implementation over the use
// case handlers. A remote implementation lives in the client package.
package access

import (
	"context"

	"github.com/tair/techstore/internal/product/domain"
	"github.com/tair/techstore/internal/product/usecase/command"
	"github.com/tair/techstore/internal/product/usecase/query"
	"github.com/tair/techstore/pkg/auth"
)

// ListRequest selects the products of one category. CategoryKey wins over
// CategoryID; leaving both empty lists every category.
type ListRequest struct {
	CategoryKey string
	CategoryID  uint
	Criteria    domain.FilterCriteria
}

// Access is the Product Access Service. Reads are public; mutations carry
// the caller's bearer credential.
type Access interface {
	List(ctx context.Context, req ListRequest) ([]domain.Product, error)
	Get(ctx context.Context, id uint) (*domain.Product, error)
	Create(ctx context.Context, credential string, in domain.ProductInput) (*domain.Product, error)
	Update(ctx context.Context, credential string, id uint, patch domain.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, credential string, id uint) error
}

// Local serves the access operations in process
type Local struct {
	listHandler   *query.ListProductsHandler
	getHandler    *query.GetProductHandler
	createHandler *command.CreateProductHandler
	updateHandler *command.UpdateProductHandler
	deleteHandler *command.DeleteProductHandler
}

var _ Access = (*Local)(nil)

// NewLocal wires the use case handlers over the repository
func NewLocal(repo domain.ProductRepository, gate auth.Gate, events domain.EventPublisher) *Local {
	return &Local{
		listHandler:   query.NewListProductsHandler(repo),
		getHandler:    query.NewGetProductHandler(repo),
		createHandler: command.NewCreateProductHandler(repo, gate, events),
		updateHandler: command.NewUpdateProductHandler(repo, gate, events),
		deleteHandler: command.NewDeleteProductHandler(repo, gate, events),
	}
}

func (l *Local) List(ctx context.Context, req ListRequest) ([]domain.Product, error) {
	return l.listHandler.Handle(ctx, query.ListProductsQuery{
		CategoryKey: req.CategoryKey,
		CategoryID:  req.CategoryID,
		Criteria:    req.Criteria,
	})
}

func (l *Local) Get(ctx context.Context, id uint) (*domain.Product, error) {
	return l.getHandler.Handle(ctx, query.GetProductQuery{ID: id})
}

func (l *Local) Create(ctx context.Context, credential string, in domain.ProductInput) (*domain.Product, error) {
	return l.createHandler.Handle(ctx, command.CreateProductCommand{Credential: credential, Input: in})
}

func (l *Local) Update(ctx context.Context, credential string, id uint, patch domain.ProductPatch) (*domain.Product, error) {
	return l.updateHandler.Handle(ctx, command.UpdateProductCommand{Credential: credential, ID: id, Patch: patch})
}

func (l *Local) Delete(ctx context.Context, credential string, id uint) error {
	return l.deleteHandler.Handle(ctx, command.DeleteProductCommand{Credential: credential, ID: id})
}
