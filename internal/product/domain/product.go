package domain

import (
	"context"
	"strings"
	"time"

	"github.com/tair/techstore/internal/apperr"
)

// Product represents a sellable catalog item
type Product struct {
	ID               uint      `json:"product_id" gorm:"column:product_id;primaryKey"`
	CategoryID       uint      `json:"category_id" gorm:"not null;index"`
	Name             string    `json:"name" gorm:"size:255;not null"`
	Brand            string    `json:"brand" gorm:"size:100;index"`
	ProductType      string    `json:"product_type" gorm:"size:100;index"`
	ShortDescription string    `json:"short_description,omitempty" gorm:"size:500"`
	Description      string    `json:"description,omitempty" gorm:"type:text"`
	ImageURL         string    `json:"image_url,omitempty" gorm:"size:500"`
	Price            float64   `json:"price" gorm:"not null"`
	StockQuantity    int       `json:"stock_quantity" gorm:"not null;default:0"`
	SKU              *string   `json:"sku,omitempty" gorm:"size:64;uniqueIndex"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// OrderItems is never loaded; it declares order_items.product_id as a
	// restricting foreign key to products.product_id.
	OrderItems []OrderItem `json:"-" gorm:"foreignKey:ProductID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

// IsInStock checks if product has stock on hand
func (p *Product) IsInStock() bool {
	return p.StockQuantity > 0
}

// SKUValue returns the sku or an empty string
func (p *Product) SKUValue() string {
	if p.SKU == nil {
		return ""
	}
	return *p.SKU
}

// Validate checks the invariants every stored product must satisfy
func (p *Product) Validate() error {
	var fields []apperr.FieldError
	if strings.TrimSpace(p.Name) == "" {
		fields = append(fields, apperr.FieldError{Field: "name", Message: "is required"})
	}
	if strings.TrimSpace(p.Brand) == "" {
		fields = append(fields, apperr.FieldError{Field: "brand", Message: "is required"})
	}
	if strings.TrimSpace(p.ProductType) == "" {
		fields = append(fields, apperr.FieldError{Field: "product_type", Message: "is required"})
	}
	if !(p.Price > 0) {
		fields = append(fields, apperr.FieldError{Field: "price", Message: "must be greater than 0"})
	}
	if p.StockQuantity < 0 {
		fields = append(fields, apperr.FieldError{Field: "stock_quantity", Message: "must be a non-negative integer"})
	}
	if _, ok := CategoryByID(p.CategoryID); !ok {
		fields = append(fields, apperr.FieldError{Field: "category", Message: "must reference a known category"})
	}
	if len(fields) > 0 {
		return apperr.NewValidationError(fields...)
	}
	return nil
}

// OrderItem is an order line referencing a product. Products with order
// lines cannot be deleted.
type OrderItem struct {
	ID           uint      `json:"order_item_id" gorm:"column:order_item_id;primaryKey"`
	OrderID      uint      `json:"order_id" gorm:"not null;index"`
	ProductID    uint      `json:"product_id" gorm:"not null;index"`
	Quantity     int       `json:"quantity" gorm:"not null"`
	PricePerUnit float64   `json:"price_per_unit" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName specifies the table name
func (OrderItem) TableName() string {
	return "order_items"
}

// ProductInput carries the fields of a product to create
type ProductInput struct {
	CategoryKey      string
	CategoryID       uint
	Name             string
	Brand            string
	ProductType      string
	ShortDescription string
	Description      string
	ImageURL         string
	Price            float64
	StockQuantity    int
	SKU              string
}

// ProductPatch carries a partial update; nil fields keep their stored value
type ProductPatch struct {
	CategoryKey      *string
	CategoryID       *uint
	Name             *string
	Brand            *string
	ProductType      *string
	ShortDescription *string
	Description      *string
	ImageURL         *string
	Price            *float64
	StockQuantity    *int
	// SKU set to an empty string clears it
	SKU *string
}

// IsEmpty reports whether the patch changes nothing
func (p ProductPatch) IsEmpty() bool {
	return p.CategoryKey == nil && p.CategoryID == nil && p.Name == nil && p.Brand == nil &&
		p.ProductType == nil && p.ShortDescription == nil && p.Description == nil &&
		p.ImageURL == nil && p.Price == nil && p.StockQuantity == nil && p.SKU == nil
}

// Apply merges the patch into the product
func (p ProductPatch) Apply(product *Product) {
	if p.CategoryID != nil {
		product.CategoryID = *p.CategoryID
	}
	if p.Name != nil {
		product.Name = strings.TrimSpace(*p.Name)
	}
	if p.Brand != nil {
		product.Brand = strings.TrimSpace(*p.Brand)
	}
	if p.ProductType != nil {
		product.ProductType = strings.TrimSpace(*p.ProductType)
	}
	if p.ShortDescription != nil {
		product.ShortDescription = *p.ShortDescription
	}
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.ImageURL != nil {
		product.ImageURL = *p.ImageURL
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.StockQuantity != nil {
		product.StockQuantity = *p.StockQuantity
	}
	if p.SKU != nil {
		product.SKU = NormalizeSKU(*p.SKU)
	}
}

// NormalizeSKU trims the sku and maps blank values to nil
func NormalizeSKU(sku string) *string {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil
	}
	return &sku
}

// CategoryStats summarises the products of one category
type CategoryStats struct {
	CategoryID   uint    `json:"category_id"`
	Products     int64   `json:"products"`
	InStock      int64   `json:"in_stock"`
	AveragePrice float64 `json:"average_price"`
}

// ProductRepository defines the contract for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id uint) (*Product, error)
	FindBySKU(ctx context.Context, sku string) (*Product, error)
	// List returns products of the category (all categories when zero)
	// matching the criteria, ordered by the criteria's sort key.
	List(ctx context.Context, categoryID uint, criteria FilterCriteria) ([]Product, error)
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	UpdateStock(ctx context.Context, id uint, stock int) error
	StatsByCategory(ctx context.Context) ([]CategoryStats, error)
}

// ChangeType names a product mutation
type ChangeType string

const (
	ChangeCreated ChangeType = "product.created"
	ChangeUpdated ChangeType = "product.updated"
	ChangeDeleted ChangeType = "product.deleted"
)

// ProductChange describes a committed mutation
type ProductChange struct {
	Type      ChangeType
	ProductID uint
	ActorID   uint
	Before    *Product
	After     *Product
}

// EventPublisher announces committed product mutations
type EventPublisher interface {
	PublishProductChanged(ctx context.Context, change ProductChange) error
}
