// Package dto holds the snake_case wire records of the product REST API and
// their mapping to the domain model. The HTTP handlers and the REST client
// share them so both directions translate the same way.
package dto

import (
	"time"

	"github.com/tair/techstore/internal/apperr"
	"github.com/tair/techstore/internal/product/domain"
)

// ProductRecord is a product on the wire
type ProductRecord struct {
	ProductID        uint      `json:"product_id" example:"1"`
	CategoryID       uint      `json:"category_id" example:"3"`
	Name             string    `json:"name" example:"Lenovo IdeaPad 3 15"`
	Brand            string    `json:"brand" example:"Lenovo"`
	ProductType      string    `json:"product_type" example:"office"`
	ShortDescription string    `json:"short_description"`
	Description      string    `json:"description"`
	ImageURL         string    `json:"image_url"`
	Price            float64   `json:"price" example:"19999"`
	StockQuantity    int       `json:"stock_quantity" example:"10"`
	SKU              *string   `json:"sku"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// FromProduct converts a domain product to its wire record
func FromProduct(p *domain.Product) ProductRecord {
	return ProductRecord{
		ProductID:        p.ID,
		CategoryID:       p.CategoryID,
		Name:             p.Name,
		Brand:            p.Brand,
		ProductType:      p.ProductType,
		ShortDescription: p.ShortDescription,
		Description:      p.Description,
		ImageURL:         p.ImageURL,
		Price:            p.Price,
		StockQuantity:    p.StockQuantity,
		SKU:              p.SKU,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// FromProducts converts a list, never returning nil
func FromProducts(products []domain.Product) []ProductRecord {
	out := make([]ProductRecord, 0, len(products))
	for i := range products {
		out = append(out, FromProduct(&products[i]))
	}
	return out
}

// Product converts the wire record back to the domain model
func (r ProductRecord) Product() domain.Product {
	return domain.Product{
		ID:               r.ProductID,
		CategoryID:       r.CategoryID,
		Name:             r.Name,
		Brand:            r.Brand,
		ProductType:      r.ProductType,
		ShortDescription: r.ShortDescription,
		Description:      r.Description,
		ImageURL:         r.ImageURL,
		Price:            r.Price,
		StockQuantity:    r.StockQuantity,
		SKU:              domain.NormalizeSKU(stringValue(r.SKU)),
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

// Products converts a list of wire records
func Products(records []ProductRecord) []domain.Product {
	out := make([]domain.Product, 0, len(records))
	for _, r := range records {
		out = append(out, r.Product())
	}
	return out
}

// CreateProductRequest is the body of POST /api/products
type CreateProductRequest struct {
	CategoryID       *Numeric `json:"category_id,omitempty" swaggertype:"integer" example:"3"`
	CategoryKey      string   `json:"categoryKey,omitempty" example:"notebooks"`
	Name             string   `json:"name" example:"ASUS TUF Gaming F15"`
	Brand            string   `json:"brand" example:"ASUS"`
	ProductType      string   `json:"product_type" example:"gaming"`
	ShortDescription string   `json:"short_description,omitempty"`
	Description      string   `json:"description,omitempty"`
	ImageURL         string   `json:"image_url,omitempty"`
	Price            *Numeric `json:"price" swaggertype:"number" example:"34999"`
	StockQuantity    *Numeric `json:"stock_quantity,omitempty" swaggertype:"integer" example:"5"`
	SKU              string   `json:"sku,omitempty" example:"NB-TUF-15"`
}

// Input converts the request into a domain input. Malformed numbers are
// reported as field errors.
func (r CreateProductRequest) Input() (domain.ProductInput, error) {
	var fields []apperr.FieldError
	in := domain.ProductInput{
		CategoryKey:      r.CategoryKey,
		Name:             r.Name,
		Brand:            r.Brand,
		ProductType:      r.ProductType,
		ShortDescription: r.ShortDescription,
		Description:      r.Description,
		ImageURL:         r.ImageURL,
		SKU:              r.SKU,
	}

	if r.CategoryID != nil {
		id, ok := r.CategoryID.Int()
		if !ok || id < 0 {
			fields = append(fields, apperr.FieldError{Field: "category_id", Message: "must be a positive integer"})
		} else {
			in.CategoryID = uint(id)
		}
	}
	if r.Price != nil {
		if !r.Price.Valid {
			fields = append(fields, apperr.FieldError{Field: "price", Message: "must be a number"})
		} else {
			in.Price = r.Price.Value
		}
	}
	if r.StockQuantity != nil {
		stock, ok := r.StockQuantity.Int()
		if !ok {
			fields = append(fields, apperr.FieldError{Field: "stock_quantity", Message: "must be a non-negative integer"})
		} else {
			in.StockQuantity = stock
		}
	}

	if len(fields) > 0 {
		return domain.ProductInput{}, apperr.NewValidationError(fields...)
	}
	return in, nil
}

// NewCreateProductRequest builds the request body for a domain input
func NewCreateProductRequest(in domain.ProductInput) CreateProductRequest {
	req := CreateProductRequest{
		CategoryKey:      in.CategoryKey,
		Name:             in.Name,
		Brand:            in.Brand,
		ProductType:      in.ProductType,
		ShortDescription: in.ShortDescription,
		Description:      in.Description,
		ImageURL:         in.ImageURL,
		Price:            NewNumeric(in.Price),
		StockQuantity:    NewNumeric(float64(in.StockQuantity)),
		SKU:              in.SKU,
	}
	if in.CategoryID != 0 {
		req.CategoryID = NewNumeric(float64(in.CategoryID))
	}
	return req
}

// UpdateProductRequest is the body of PUT /api/products/{id}. Absent fields
// keep their stored value.
type UpdateProductRequest struct {
	CategoryID       *Numeric `json:"category_id,omitempty" swaggertype:"integer"`
	CategoryKey      *string  `json:"categoryKey,omitempty"`
	Name             *string  `json:"name,omitempty"`
	Brand            *string  `json:"brand,omitempty"`
	ProductType      *string  `json:"product_type,omitempty"`
	ShortDescription *string  `json:"short_description,omitempty"`
	Description      *string  `json:"description,omitempty"`
	ImageURL         *string  `json:"image_url,omitempty"`
	Price            *Numeric `json:"price,omitempty" swaggertype:"number"`
	StockQuantity    *Numeric `json:"stock_quantity,omitempty" swaggertype:"integer"`
	SKU              *string  `json:"sku,omitempty"`
}

// Patch converts the request into a domain patch
func (r UpdateProductRequest) Patch() (domain.ProductPatch, error) {
	var fields []apperr.FieldError
	patch := domain.ProductPatch{
		CategoryKey:      r.CategoryKey,
		Name:             r.Name,
		Brand:            r.Brand,
		ProductType:      r.ProductType,
		ShortDescription: r.ShortDescription,
		Description:      r.Description,
		ImageURL:         r.ImageURL,
		SKU:              r.SKU,
	}

	if r.CategoryID != nil {
		id, ok := r.CategoryID.Int()
		if !ok || id <= 0 {
			fields = append(fields, apperr.FieldError{Field: "category_id", Message: "must be a positive integer"})
		} else {
			v := uint(id)
			patch.CategoryID = &v
		}
	}
	if r.Price != nil {
		if !r.Price.Valid {
			fields = append(fields, apperr.FieldError{Field: "price", Message: "must be a number"})
		} else {
			v := r.Price.Value
			patch.Price = &v
		}
	}
	if r.StockQuantity != nil {
		stock, ok := r.StockQuantity.Int()
		if !ok {
			fields = append(fields, apperr.FieldError{Field: "stock_quantity", Message: "must be a non-negative integer"})
		} else {
			patch.StockQuantity = &stock
		}
	}

	if len(fields) > 0 {
		return domain.ProductPatch{}, apperr.NewValidationError(fields...)
	}
	return patch, nil
}

// NewUpdateProductRequest builds the request body for a domain patch
func NewUpdateProductRequest(p domain.ProductPatch) UpdateProductRequest {
	req := UpdateProductRequest{
		CategoryKey:      p.CategoryKey,
		Name:             p.Name,
		Brand:            p.Brand,
		ProductType:      p.ProductType,
		ShortDescription: p.ShortDescription,
		Description:      p.Description,
		ImageURL:         p.ImageURL,
		SKU:              p.SKU,
	}
	if p.CategoryID != nil {
		req.CategoryID = NewNumeric(float64(*p.CategoryID))
	}
	if p.Price != nil {
		req.Price = NewNumeric(*p.Price)
	}
	if p.StockQuantity != nil {
		req.StockQuantity = NewNumeric(float64(*p.StockQuantity))
	}
	return req
}

// UpdateStockRequest is the body of PATCH /api/products/{id}/stock
type UpdateStockRequest struct {
	StockQuantity *Numeric `json:"stock_quantity" swaggertype:"integer" example:"12"`
}

// DeleteResponse is the body returned by DELETE /api/products/{id}
type DeleteResponse struct {
	Success bool `json:"success" example:"true"`
}

// ErrorResponse is the body of every non-2xx product API response
type ErrorResponse struct {
	Error  string              `json:"error" example:"SKU must be unique"`
	Fields []apperr.FieldError `json:"fields,omitempty"`
}

// CategoryRecord is a category on the wire
type CategoryRecord struct {
	ID       uint            `json:"category_id" example:"3"`
	Key      string          `json:"key" example:"notebooks"`
	Title    string          `json:"title" example:"Notebooks"`
	Subtitle string          `json:"subtitle"`
	Brands   []string        `json:"brands"`
	Types    []domain.Option `json:"types"`
}

// FromCategory converts a catalog category to its wire record
func FromCategory(c domain.Category) CategoryRecord {
	return CategoryRecord{
		ID:       c.ID,
		Key:      c.Key,
		Title:    c.Title,
		Subtitle: c.Subtitle,
		Brands:   c.Brands,
		Types:    c.Types,
	}
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
