package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/techstore/internal/product/domain"
)

var tracer = otel.Tracer("product-repository")

// TracingRepository wraps a ProductRepository with a span per call
type TracingRepository struct {
	next domain.ProductRepository
}

var _ domain.ProductRepository = (*TracingRepository)(nil)

// NewTracingRepository creates a new repository with tracing
func NewTracingRepository(next domain.ProductRepository) *TracingRepository {
	return &TracingRepository{next: next}
}

func (r *TracingRepository) Create(ctx context.Context, product *domain.Product) error {
	ctx, span := tracer.Start(ctx, "repository.Create",
		trace.WithAttributes(
			attribute.String("product.name", product.Name),
			attribute.String("product.sku", product.SKUValue()),
			attribute.Int("product.category_id", int(product.CategoryID)),
			attribute.Float64("product.price", product.Price),
			attribute.Int("product.stock_quantity", product.StockQuantity),
		),
	)
	defer span.End()

	if err := r.next.Create(ctx, product); err != nil {
		recordError(span, err)
		return err
	}

	span.SetAttributes(attribute.Int("product.id", int(product.ID)))
	return nil
}

func (r *TracingRepository) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.FindByID",
		trace.WithAttributes(attribute.Int("product.id", int(id))),
	)
	defer span.End()

	product, err := r.next.FindByID(ctx, id)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("product.name", product.Name),
		attribute.Bool("product.in_stock", product.IsInStock()),
	)
	return product, nil
}

func (r *TracingRepository) FindBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.FindBySKU",
		trace.WithAttributes(attribute.String("product.sku", sku)),
	)
	defer span.End()

	product, err := r.next.FindBySKU(ctx, sku)
	if err != nil {
		// a miss is the expected outcome of a uniqueness probe
		span.SetAttributes(attribute.Bool("product.found", false))
		return nil, err
	}

	span.SetAttributes(
		attribute.Bool("product.found", true),
		attribute.Int("product.id", int(product.ID)),
	)
	return product, nil
}

func (r *TracingRepository) List(ctx context.Context, categoryID uint, criteria domain.FilterCriteria) ([]domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.List",
		trace.WithAttributes(
			attribute.Int("query.category_id", int(categoryID)),
			attribute.StringSlice("query.brands", criteria.Brands),
			attribute.StringSlice("query.types", criteria.Types),
			attribute.String("query.search", criteria.Search),
			attribute.String("query.sort", string(criteria.Sort)),
		),
	)
	defer span.End()

	products, err := r.next.List(ctx, categoryID, criteria)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(products)))
	return products, nil
}

func (r *TracingRepository) Update(ctx context.Context, product *domain.Product) error {
	ctx, span := tracer.Start(ctx, "repository.Update",
		trace.WithAttributes(
			attribute.Int("product.id", int(product.ID)),
			attribute.String("product.name", product.Name),
			attribute.Float64("product.price", product.Price),
		),
	)
	defer span.End()

	if err := r.next.Update(ctx, product); err != nil {
		recordError(span, err)
		return err
	}
	return nil
}

func (r *TracingRepository) Delete(ctx context.Context, id uint) error {
	ctx, span := tracer.Start(ctx, "repository.Delete",
		trace.WithAttributes(attribute.Int("product.id", int(id))),
	)
	defer span.End()

	if err := r.next.Delete(ctx, id); err != nil {
		recordError(span, err)
		return err
	}
	return nil
}

func (r *TracingRepository) Count(ctx context.Context) (int64, error) {
	ctx, span := tracer.Start(ctx, "repository.Count")
	defer span.End()

	count, err := r.next.Count(ctx)
	if err != nil {
		recordError(span, err)
		return 0, err
	}

	span.SetAttributes(attribute.Int64("result.count", count))
	return count, nil
}

func (r *TracingRepository) UpdateStock(ctx context.Context, id uint, stock int) error {
	ctx, span := tracer.Start(ctx, "repository.UpdateStock",
		trace.WithAttributes(
			attribute.Int("product.id", int(id)),
			attribute.Int("stock.new_value", stock),
		),
	)
	defer span.End()

	if err := r.next.UpdateStock(ctx, id, stock); err != nil {
		recordError(span, err)
		return err
	}
	return nil
}

func (r *TracingRepository) StatsByCategory(ctx context.Context) ([]domain.CategoryStats, error) {
	ctx, span := tracer.Start(ctx, "repository.StatsByCategory")
	defer span.End()

	stats, err := r.next.StatsByCategory(ctx)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.categories", len(stats)))
	return stats, nil
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
