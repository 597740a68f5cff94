//go:build wireinject
// +build wireinject

package product

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/tair/techstore/internal/product/access"
	"github.com/tair/techstore/internal/product/delivery/http"
	"github.com/tair/techstore/internal/product/domain"
	"github.com/tair/techstore/internal/product/usecase/command"
	"github.com/tair/techstore/internal/product/usecase/query"
	"github.com/tair/techstore/pkg/auth"
)

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideProductRepository,
)

var CommandHandlerSet = wire.NewSet(
	command.NewCreateProductHandler,
	command.NewUpdateProductHandler,
	command.NewDeleteProductHandler,
	command.NewUpdateStockHandler,
)

var QueryHandlerSet = wire.NewSet(
	query.NewGetProductHandler,
	query.NewListProductsHandler,
	query.NewGetStatsHandler,
)

var AllHandlersSet = wire.NewSet(
	RepositorySet,
	CommandHandlerSet,
	QueryHandlerSet,
)

// InitializeModule wires the catalog module with all dependencies
func InitializeModule(db *gorm.DB, gate auth.Gate, events domain.EventPublisher, reg prometheus.Registerer) (*Module, error) {
	wire.Build(
		AllHandlersSet,
		http.NewProductHandler,
		access.NewLocal,
		wire.Struct(new(Module), "*"),
	)
	return nil, nil
}
