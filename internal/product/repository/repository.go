package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tair/techstore/internal/apperr"
	"github.com/tair/techstore/internal/product/domain"
	"github.com/tair/techstore/internal/product/filter"
)

type GormProductRepository struct {
	db *gorm.DB
}

var _ domain.ProductRepository = (*GormProductRepository)(nil)

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Product{}, &domain.OrderItem{})
}

func (r *GormProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return translateError("create", err)
	}
	return nil
}

func (r *GormProductRepository) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).First(&product, "product_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NewNotFoundError("product", id)
	}
	if err != nil {
		return nil, translateError("find", err)
	}
	return &product, nil
}

// FindBySKU returns a NotFoundError when no product carries the sku
func (r *GormProductRepository) FindBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NewNotFoundError("product", 0)
	}
	if err != nil {
		return nil, translateError("find", err)
	}
	return &product, nil
}

func (r *GormProductRepository) List(ctx context.Context, categoryID uint, criteria domain.FilterCriteria) ([]domain.Product, error) {
	query := r.db.WithContext(ctx).Model(&domain.Product{})
	if where, args := filter.BuildWhere(r.db.Dialector.Name(), categoryID, criteria); where != "" {
		query = query.Where(where, args...)
	}

	products := make([]domain.Product, 0)
	if err := query.Order(filter.OrderBy(criteria.Sort)).Find(&products).Error; err != nil {
		return nil, translateError("list", err)
	}
	return products, nil
}

// Update overwrites every column except the creation timestamp; order lines
// are never written through a product
func (r *GormProductRepository) Update(ctx context.Context, product *domain.Product) error {
	result := r.db.WithContext(ctx).Model(product).Select("*").Omit("CreatedAt", "OrderItems").Updates(product)
	if result.Error != nil {
		return translateError("update", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NewNotFoundError("product", product.ID)
	}
	return nil
}

func (r *GormProductRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Product{}, "product_id = ?", id)
	if result.Error != nil {
		return translateError("delete", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NewNotFoundError("product", id)
	}
	return nil
}

func (r *GormProductRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).Count(&count).Error
	if err != nil {
		return 0, translateError("count", err)
	}
	return count, nil
}

func (r *GormProductRepository) UpdateStock(ctx context.Context, id uint, stock int) error {
	result := r.db.WithContext(ctx).Model(&domain.Product{}).Where("product_id = ?", id).Update("stock_quantity", stock)
	if result.Error != nil {
		return translateError("update stock", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NewNotFoundError("product", id)
	}
	return nil
}

func (r *GormProductRepository) StatsByCategory(ctx context.Context) ([]domain.CategoryStats, error) {
	stats := make([]domain.CategoryStats, 0)
	err := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Select("category_id, COUNT(*) AS products, " +
			"SUM(CASE WHEN stock_quantity > 0 THEN 1 ELSE 0 END) AS in_stock, " +
			"AVG(price) AS average_price").
		Group("category_id").
		Order("category_id").
		Scan(&stats).Error
	if err != nil {
		return nil, translateError("stats", err)
	}
	return stats, nil
}

// AddOrderItem records an order line, which pins the product against deletion
func (r *GormProductRepository) AddOrderItem(ctx context.Context, item *domain.OrderItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		if isForeignKeyViolation(err) {
			return apperr.NewNotFoundError("product", item.ProductID)
		}
		return translateError("create order item", err)
	}
	return nil
}
