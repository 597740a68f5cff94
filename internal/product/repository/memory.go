package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tair/techstore/internal/apperr"
	"github.com/tair/techstore/internal/product/domain"
	"github.com/tair/techstore/internal/product/filter"
)

// InMemoryStore is a thread-safe in-memory ProductRepository
type InMemoryStore struct {
	mu       sync.RWMutex
	products map[uint]domain.Product
	// orderRefs counts order lines per product id
	orderRefs map[uint]int
	nextID    uint
	now       func() time.Time
}

var _ domain.ProductRepository = (*InMemoryStore)(nil)

// NewInMemoryStore constructs an empty store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		products:  make(map[uint]domain.Product),
		orderRefs: make(map[uint]int),
		nextID:    1,
		now:       time.Now,
	}
}

func (s *InMemoryStore) Create(ctx context.Context, product *domain.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkSKU(product.SKU, 0); err != nil {
		return err
	}

	product.ID = s.nextID
	s.nextID++
	now := s.now()
	product.CreatedAt = now
	product.UpdatedAt = now
	s.products[product.ID] = clone(*product)
	return nil
}

func (s *InMemoryStore) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, apperr.NewNotFoundError("product", id)
	}
	out := clone(p)
	return &out, nil
}

func (s *InMemoryStore) FindBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.SKU != nil && *p.SKU == sku {
			out := clone(p)
			return &out, nil
		}
	}
	return nil, apperr.NewNotFoundError("product", 0)
}

func (s *InMemoryStore) List(ctx context.Context, categoryID uint, criteria domain.FilterCriteria) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if categoryID != 0 && p.CategoryID != categoryID {
			continue
		}
		out = append(out, clone(p))
	}
	s.mu.RUnlock()

	// map iteration is random; establish id order before the stable sort
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return filter.Apply(criteria, out), nil
}

func (s *InMemoryStore) Update(ctx context.Context, product *domain.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.products[product.ID]
	if !ok {
		return apperr.NewNotFoundError("product", product.ID)
	}
	if err := s.checkSKU(product.SKU, product.ID); err != nil {
		return err
	}

	product.CreatedAt = stored.CreatedAt
	product.UpdatedAt = s.now()
	s.products[product.ID] = clone(*product)
	return nil
}

func (s *InMemoryStore) Delete(ctx context.Context, id uint) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return apperr.NewNotFoundError("product", id)
	}
	if s.orderRefs[id] > 0 {
		return apperr.NewConflictError("product is referenced by existing orders")
	}
	delete(s.products, id)
	return nil
}

func (s *InMemoryStore) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.products)), nil
}

func (s *InMemoryStore) UpdateStock(ctx context.Context, id uint, stock int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return apperr.NewNotFoundError("product", id)
	}
	p.StockQuantity = stock
	p.UpdatedAt = s.now()
	s.products[id] = p
	return nil
}

func (s *InMemoryStore) StatsByCategory(ctx context.Context) ([]domain.CategoryStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	byCategory := make(map[uint]*domain.CategoryStats)
	totals := make(map[uint]float64)
	for _, p := range s.products {
		st, ok := byCategory[p.CategoryID]
		if !ok {
			st = &domain.CategoryStats{CategoryID: p.CategoryID}
			byCategory[p.CategoryID] = st
		}
		st.Products++
		if p.IsInStock() {
			st.InStock++
		}
		totals[p.CategoryID] += p.Price
	}

	out := make([]domain.CategoryStats, 0, len(byCategory))
	for id, st := range byCategory {
		st.AveragePrice = totals[id] / float64(st.Products)
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CategoryID < out[j].CategoryID })
	return out, nil
}

// AddOrderItem records an order line, which pins the product against deletion
func (s *InMemoryStore) AddOrderItem(ctx context.Context, item *domain.OrderItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[item.ProductID]; !ok {
		return apperr.NewNotFoundError("product", item.ProductID)
	}
	s.orderRefs[item.ProductID]++
	return nil
}

// checkSKU must be called with the lock held
func (s *InMemoryStore) checkSKU(sku *string, self uint) error {
	if sku == nil {
		return nil
	}
	for id, p := range s.products {
		if id != self && p.SKU != nil && *p.SKU == *sku {
			return apperr.NewConflictError("SKU must be unique")
		}
	}
	return nil
}

// snapshot returns products and order references for persistence; lock held
func (s *InMemoryStore) snapshot() ([]domain.Product, map[uint]int) {
	list := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		list = append(list, clone(p))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })

	refs := make(map[uint]int, len(s.orderRefs))
	for id, n := range s.orderRefs {
		refs[id] = n
	}
	return list, refs
}

// restore replaces the store content; lock held
func (s *InMemoryStore) restore(products []domain.Product, refs map[uint]int) {
	s.products = make(map[uint]domain.Product, len(products))
	s.nextID = 1
	for _, p := range products {
		s.products[p.ID] = clone(p)
		if p.ID >= s.nextID {
			s.nextID = p.ID + 1
		}
	}
	s.orderRefs = make(map[uint]int, len(refs))
	for id, n := range refs {
		s.orderRefs[id] = n
	}
}

func clone(p domain.Product) domain.Product {
	if p.SKU != nil {
		sku := *p.SKU
		p.SKU = &sku
	}
	return p
}
