package command

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/tair/techstore/internal/apperr"
	"github.com/tair/techstore/internal/product/domain"
	"github.com/tair/techstore/internal/product/repository"
	"github.com/tair/techstore/pkg/auth"
)

type recordingPublisher struct {
	mu      sync.Mutex
	changes []domain.ProductChange
	err     error
}

func (p *recordingPublisher) PublishProductChanged(ctx context.Context, change domain.ProductChange) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changes = append(p.changes, change)
	return p.err
}

// tokenGate accepts "admin" and "client" credentials
var tokenGate = auth.GateFunc(func(ctx context.Context, token string) (*auth.Principal, error) {
	switch token {
	case "admin":
		return &auth.Principal{UserID: 1, Roles: []string{auth.RoleClient, auth.RoleAdmin}}, nil
	case "client":
		return &auth.Principal{UserID: 2, Roles: []string{auth.RoleClient}}, nil
	case "":
		return nil, auth.ErrMissingToken
	default:
		return nil, auth.ErrInvalidToken
	}
})

func validInput() domain.ProductInput {
	return domain.ProductInput{
		CategoryKey:   "notebooks",
		Name:          "ASUS TUF Gaming F15",
		Brand:         "ASUS",
		ProductType:   "gaming",
		Price:         34999,
		StockQuantity: 5,
		SKU:           "NB-TUF-15",
	}
}

func setup() (*repository.InMemoryStore, *recordingPublisher) {
	return repository.NewInMemoryStore(), &recordingPublisher{}
}

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()
	repo, events := setup()
	h := NewCreateProductHandler(repo, tokenGate, events)

	p, err := h.Handle(ctx, CreateProductCommand{Credential: "admin", Input: validInput()})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == 0 || p.CategoryID != 3 || p.SKUValue() != "NB-TUF-15" {
		t.Errorf("unexpected product %+v", p)
	}
	if len(events.changes) != 1 || events.changes[0].Type != domain.ChangeCreated || events.changes[0].ActorID != 1 {
		t.Errorf("expected one created event, got %+v", events.changes)
	}
}

func TestCreateProductRejections(t *testing.T) {
	tests := []struct {
		name       string
		credential string
		mutate     func(in *domain.ProductInput)
		check      func(error) bool
	}{
		{"no credential", "", nil, func(err error) bool {
			return apperr.IsAuthorizationError(err) && !apperr.IsForbidden(err)
		}},
		{"invalid credential", "forged", nil, func(err error) bool {
			return apperr.IsAuthorizationError(err) && !apperr.IsForbidden(err)
		}},
		{"client role", "client", nil, apperr.IsForbidden},
		{"empty name", "admin", func(in *domain.ProductInput) { in.Name = "" }, apperr.IsValidationError},
		{"zero price", "admin", func(in *domain.ProductInput) { in.Price = 0 }, apperr.IsValidationError},
		{"negative stock", "admin", func(in *domain.ProductInput) { in.StockQuantity = -1 }, apperr.IsValidationError},
		{"unknown category", "admin", func(in *domain.ProductInput) { in.CategoryKey = "furniture" }, apperr.IsValidationError},
		{"invalid and unauthorized", "client", func(in *domain.ProductInput) { in.Name = "" }, apperr.IsForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo, events := setup()
			h := NewCreateProductHandler(repo, tokenGate, events)

			in := validInput()
			if tt.mutate != nil {
				tt.mutate(&in)
			}
			_, err := h.Handle(ctx, CreateProductCommand{Credential: tt.credential, Input: in})
			if !tt.check(err) {
				t.Fatalf("unexpected error %v", err)
			}
			if n, _ := repo.Count(ctx); n != 0 {
				t.Errorf("rejected create wrote %d products", n)
			}
			if len(events.changes) != 0 {
				t.Error("rejected create published an event")
			}
		})
	}
}

func TestCreateProductDuplicateSKU(t *testing.T) {
	ctx := context.Background()
	repo, events := setup()
	h := NewCreateProductHandler(repo, tokenGate, events)

	if _, err := h.Handle(ctx, CreateProductCommand{Credential: "admin", Input: validInput()}); err != nil {
		t.Fatal(err)
	}
	_, err := h.Handle(ctx, CreateProductCommand{Credential: "admin", Input: validInput()})
	if !apperr.IsConflictError(err) {
		t.Fatalf("expected conflict, got %v", err)
	}

	// blank skus never collide
	for i := 0; i < 2; i++ {
		in := validInput()
		in.SKU = "  "
		if _, err := h.Handle(ctx, CreateProductCommand{Credential: "admin", Input: in}); err != nil {
			t.Fatalf("create without sku: %v", err)
		}
	}
}

func TestCreateProductPublishFailureIsNotFatal(t *testing.T) {
	repo, events := setup()
	events.err = errors.New("broker down")
	h := NewCreateProductHandler(repo, tokenGate, events)

	if _, err := h.Handle(context.Background(), CreateProductCommand{Credential: "admin", Input: validInput()}); err != nil {
		t.Fatalf("publish failure must not fail the command: %v", err)
	}
}

func seedOne(t *testing.T, repo domain.ProductRepository) *domain.Product {
	t.Helper()
	h := NewCreateProductHandler(repo, tokenGate, nil)
	p, err := h.Handle(context.Background(), CreateProductCommand{Credential: "admin", Input: validInput()})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestUpdateProduct(t *testing.T) {
	ctx := context.Background()
	repo, events := setup()
	p := seedOne(t, repo)
	h := NewUpdateProductHandler(repo, tokenGate, events)

	price := 29999.0
	key := "gaming"
	updated, err := h.Handle(ctx, UpdateProductCommand{
		Credential: "admin",
		ID:         p.ID,
		Patch:      domain.ProductPatch{Price: &price, CategoryKey: &key},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Price != 29999 || updated.CategoryID != 6 {
		t.Errorf("patch not applied: %+v", updated)
	}
	if updated.Name != p.Name || updated.SKUValue() != p.SKUValue() {
		t.Error("fields outside the patch must keep their values")
	}
	if len(events.changes) != 1 || events.changes[0].Before.Price != 34999 || events.changes[0].After.Price != 29999 {
		t.Errorf("unexpected events %+v", events.changes)
	}
}

func TestUpdateProductRejections(t *testing.T) {
	empty := ""
	zero := 0.0
	negative := -3
	badKey := "furniture"
	taken := "TAKEN"

	tests := []struct {
		name       string
		credential string
		id         func(p *domain.Product) uint
		patch      domain.ProductPatch
		check      func(error) bool
	}{
		{"no role", "client", nil, domain.ProductPatch{Price: &zero}, apperr.IsForbidden},
		{"no credential", "", nil, domain.ProductPatch{Price: &zero}, apperr.IsAuthorizationError},
		{"missing product", "admin", func(*domain.Product) uint { return 999 }, domain.ProductPatch{Name: &empty}, apperr.IsNotFoundError},
		{"blank name", "admin", nil, domain.ProductPatch{Name: &empty}, apperr.IsValidationError},
		{"zero price", "admin", nil, domain.ProductPatch{Price: &zero}, apperr.IsValidationError},
		{"negative stock", "admin", nil, domain.ProductPatch{StockQuantity: &negative}, apperr.IsValidationError},
		{"unknown category", "admin", nil, domain.ProductPatch{CategoryKey: &badKey}, apperr.IsValidationError},
		{"sku taken", "admin", nil, domain.ProductPatch{SKU: &taken}, apperr.IsConflictError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo, events := setup()
			p := seedOne(t, repo)

			other := validInput()
			other.SKU = taken
			if _, err := NewCreateProductHandler(repo, tokenGate, nil).Handle(ctx, CreateProductCommand{Credential: "admin", Input: other}); err != nil {
				t.Fatal(err)
			}

			id := p.ID
			if tt.id != nil {
				id = tt.id(p)
			}
			_, err := NewUpdateProductHandler(repo, tokenGate, events).Handle(ctx, UpdateProductCommand{
				Credential: tt.credential,
				ID:         id,
				Patch:      tt.patch,
			})
			if !tt.check(err) {
				t.Fatalf("unexpected error %v", err)
			}

			stored, _ := repo.FindByID(ctx, p.ID)
			if stored.Price != p.Price || stored.Name != p.Name || stored.SKUValue() != p.SKUValue() {
				t.Errorf("rejected update changed the record: %+v", stored)
			}
			if len(events.changes) != 0 {
				t.Error("rejected update published an event")
			}
		})
	}
}

func TestUpdateProductKeepsOwnSKU(t *testing.T) {
	repo, _ := setup()
	p := seedOne(t, repo)
	sku := p.SKUValue()

	if _, err := NewUpdateProductHandler(repo, tokenGate, nil).Handle(context.Background(), UpdateProductCommand{
		Credential: "admin",
		ID:         p.ID,
		Patch:      domain.ProductPatch{SKU: &sku},
	}); err != nil {
		t.Fatalf("re-saving the same sku must succeed: %v", err)
	}
}

func TestDeleteProduct(t *testing.T) {
	ctx := context.Background()
	repo, events := setup()
	p := seedOne(t, repo)
	h := NewDeleteProductHandler(repo, tokenGate, events)

	if err := h.Handle(ctx, DeleteProductCommand{Credential: "client", ID: p.ID}); !apperr.IsForbidden(err) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err := h.Handle(ctx, DeleteProductCommand{Credential: "admin", ID: 999}); !apperr.IsNotFoundError(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := h.Handle(ctx, DeleteProductCommand{Credential: "admin", ID: p.ID}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.FindByID(ctx, p.ID); !apperr.IsNotFoundError(err) {
		t.Error("product still present after delete")
	}
	if len(events.changes) != 1 || events.changes[0].Type != domain.ChangeDeleted {
		t.Errorf("expected one deleted event, got %+v", events.changes)
	}
}

func TestDeleteReferencedProduct(t *testing.T) {
	ctx := context.Background()
	repo, _ := setup()
	p := seedOne(t, repo)
	if err := repo.AddOrderItem(ctx, &domain.OrderItem{OrderID: 7, ProductID: p.ID, Quantity: 1}); err != nil {
		t.Fatal(err)
	}

	err := NewDeleteProductHandler(repo, tokenGate, nil).Handle(ctx, DeleteProductCommand{Credential: "admin", ID: p.ID})
	if !apperr.IsConflictError(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if _, err := repo.FindByID(ctx, p.ID); err != nil {
		t.Errorf("referenced product must still exist: %v", err)
	}
}

func TestUpdateStock(t *testing.T) {
	ctx := context.Background()
	repo, _ := setup()
	p := seedOne(t, repo)
	h := NewUpdateStockHandler(repo, tokenGate, nil)

	if _, err := h.Handle(ctx, UpdateStockCommand{Credential: "admin", ProductID: p.ID, Stock: -1}); !apperr.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := h.Handle(ctx, UpdateStockCommand{Credential: "client", ProductID: p.ID, Stock: 1}); !apperr.IsForbidden(err) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	got, err := h.Handle(ctx, UpdateStockCommand{Credential: "admin", ProductID: p.ID, Stock: 0})
	if err != nil {
		t.Fatalf("update stock: %v", err)
	}
	if got.IsInStock() {
		t.Error("stock not applied")
	}
}
