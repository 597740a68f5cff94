package access

import (
	"context"
	"testing"

	"github.com/tair/techstore/internal/apperr"
	"github.com/tair/techstore/internal/product/domain"
	"github.com/tair/techstore/internal/product/repository"
	"github.com/tair/techstore/pkg/auth"
)

func TestLocalRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewInMemoryStore()
	admin := auth.StaticGate{Principal: &auth.Principal{UserID: 1, Roles: []string{auth.RoleAdmin}}}
	svc := NewLocal(repo, admin, nil)

	created, err := svc.Create(ctx, "", domain.ProductInput{
		CategoryKey: "kitchen",
		Name:        "Tefal Kettle",
		Brand:       "Tefal",
		ProductType: "kettle",
		Price:       1299,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := svc.List(ctx, ListRequest{CategoryKey: "kitchen"})
	if err != nil || len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("list = %v, %v", list, err)
	}

	stock := 7
	updated, err := svc.Update(ctx, "", created.ID, domain.ProductPatch{StockQuantity: &stock})
	if err != nil || updated.StockQuantity != 7 {
		t.Fatalf("update = %+v, %v", updated, err)
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil || got.StockQuantity != 7 {
		t.Fatalf("get = %+v, %v", got, err)
	}

	if err := svc.Delete(ctx, "", created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, created.ID); !apperr.IsNotFoundError(err) {
		t.Errorf("expected not found after delete, got %v", err)
	}
}

func TestLocalReadsArePublic(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewInMemoryStore()
	if _, err := repository.SeedIfEmpty(ctx, repo); err != nil {
		t.Fatal(err)
	}
	svc := NewLocal(repo, auth.StaticGate{}, nil)

	if list, err := svc.List(ctx, ListRequest{CategoryKey: "tv"}); err != nil || len(list) != 3 {
		t.Errorf("anonymous list = %d, %v", len(list), err)
	}
	if _, err := svc.Get(ctx, 1); err != nil {
		t.Errorf("anonymous get: %v", err)
	}

	price := 1.0
	if _, err := svc.Update(ctx, "", 1, domain.ProductPatch{Price: &price}); !apperr.IsAuthorizationError(err) || apperr.IsForbidden(err) {
		t.Errorf("anonymous update: expected 401-class error, got %v", err)
	}
	if err := svc.Delete(ctx, "", 1); !apperr.IsAuthorizationError(err) {
		t.Errorf("anonymous delete: expected authorization error, got %v", err)
	}
}
