package repository

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tair/techstore/internal/apperr"
	"github.com/tair/techstore/internal/product/domain"
	"github.com/tair/techstore/pkg/database"
)

type orderLinker interface {
	AddOrderItem(ctx context.Context, item *domain.OrderItem) error
}

func newSQLiteRepo(t *testing.T) domain.ProductRepository {
	t.Helper()
	db, err := database.NewSQLiteConnection(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	repo := NewGormProductRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return repo
}

func newFileRepo(t *testing.T) domain.ProductRepository {
	t.Helper()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "products.json"))
	if err != nil {
		t.Fatalf("open file store: %v", err)
	}
	return store
}

func backends() map[string]func(t *testing.T) domain.ProductRepository {
	return map[string]func(t *testing.T) domain.ProductRepository{
		"gorm-sqlite": newSQLiteRepo,
		"memory":      func(*testing.T) domain.ProductRepository { return NewInMemoryStore() },
		"file":        newFileRepo,
		"traced":      func(t *testing.T) domain.ProductRepository { return NewTracingRepository(NewInMemoryStore()) },
	}
}

func sample(category uint, name, brand, typ string, price float64, sku string) *domain.Product {
	return &domain.Product{
		CategoryID:    category,
		Name:          name,
		Brand:         brand,
		ProductType:   typ,
		Price:         price,
		StockQuantity: 3,
		SKU:           domain.NormalizeSKU(sku),
	}
}

func mustCreate(t *testing.T, repo domain.ProductRepository, p *domain.Product) *domain.Product {
	t.Helper()
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("create %q: %v", p.Name, err)
	}
	if p.ID == 0 {
		t.Fatalf("create %q did not assign an id", p.Name)
	}
	return p
}

func TestRepositoryCRUD(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := open(t)

			p := mustCreate(t, repo, sample(3, "Lenovo IdeaPad", "Lenovo", "office", 1000, "LEN-1"))

			got, err := repo.FindByID(ctx, p.ID)
			if err != nil {
				t.Fatalf("find: %v", err)
			}
			if got.Name != "Lenovo IdeaPad" || got.SKUValue() != "LEN-1" {
				t.Errorf("unexpected product %+v", got)
			}

			bySKU, err := repo.FindBySKU(ctx, "LEN-1")
			if err != nil || bySKU.ID != p.ID {
				t.Fatalf("find by sku = %v, %v", bySKU, err)
			}

			got.Price = 1200
			got.SKU = nil
			if err := repo.Update(ctx, got); err != nil {
				t.Fatalf("update: %v", err)
			}
			updated, _ := repo.FindByID(ctx, p.ID)
			if updated.Price != 1200 || updated.SKU != nil {
				t.Errorf("update not persisted: %+v", updated)
			}

			if err := repo.UpdateStock(ctx, p.ID, 0); err != nil {
				t.Fatalf("update stock: %v", err)
			}
			updated, _ = repo.FindByID(ctx, p.ID)
			if updated.IsInStock() {
				t.Error("stock not updated")
			}

			if n, _ := repo.Count(ctx); n != 1 {
				t.Errorf("count = %d, want 1", n)
			}

			if err := repo.Delete(ctx, p.ID); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, err := repo.FindByID(ctx, p.ID); !apperr.IsNotFoundError(err) {
				t.Errorf("expected not found after delete, got %v", err)
			}
		})
	}
}

func TestRepositoryNotFound(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := open(t)

			if _, err := repo.FindByID(ctx, 42); !apperr.IsNotFoundError(err) {
				t.Errorf("find: expected not found, got %v", err)
			}
			if _, err := repo.FindBySKU(ctx, "nope"); !apperr.IsNotFoundError(err) {
				t.Errorf("find by sku: expected not found, got %v", err)
			}
			if err := repo.Delete(ctx, 42); !apperr.IsNotFoundError(err) {
				t.Errorf("delete: expected not found, got %v", err)
			}
			if err := repo.UpdateStock(ctx, 42, 1); !apperr.IsNotFoundError(err) {
				t.Errorf("update stock: expected not found, got %v", err)
			}
			missing := sample(1, "Ghost", "Apple", "smartphone", 10, "")
			missing.ID = 42
			if err := repo.Update(ctx, missing); !apperr.IsNotFoundError(err) {
				t.Errorf("update: expected not found, got %v", err)
			}
		})
	}
}

func TestRepositoryDuplicateSKU(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := open(t)

			mustCreate(t, repo, sample(1, "Phone A", "Apple", "smartphone", 100, "DUP"))
			err := repo.Create(ctx, sample(1, "Phone B", "Apple", "smartphone", 100, "DUP"))
			if !apperr.IsConflictError(err) {
				t.Fatalf("expected conflict, got %v", err)
			}

			// products without sku never collide
			mustCreate(t, repo, sample(1, "Phone C", "Apple", "smartphone", 100, ""))
			mustCreate(t, repo, sample(1, "Phone D", "Apple", "smartphone", 100, ""))
		})
	}
}

func TestRepositoryDeleteReferenced(t *testing.T) {
	for name, open := range backends() {
		if name == "traced" {
			continue
		}
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := open(t)

			p := mustCreate(t, repo, sample(2, "LG TV", "LG", "tv", 500, ""))
			linker := repo.(orderLinker)
			if err := linker.AddOrderItem(ctx, &domain.OrderItem{OrderID: 1, ProductID: p.ID, Quantity: 1, PricePerUnit: 500}); err != nil {
				t.Fatalf("add order item: %v", err)
			}

			if err := repo.Delete(ctx, p.ID); !apperr.IsConflictError(err) {
				t.Fatalf("expected conflict, got %v", err)
			}
			if _, err := repo.FindByID(ctx, p.ID); err != nil {
				t.Errorf("referenced product must survive: %v", err)
			}
		})
	}
}

func TestRepositoryList(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := open(t)

			a := mustCreate(t, repo, sample(3, "ASUS TUF", "ASUS", "gaming", 300, "TUF-15"))
			b := mustCreate(t, repo, sample(3, "Lenovo IdeaPad", "Lenovo", "office", 100, ""))
			c := mustCreate(t, repo, sample(3, "HP Victus", "HP", "gaming", 300, ""))
			mustCreate(t, repo, sample(1, "iPhone", "Apple", "smartphone", 900, ""))

			floor := 150.0
			tests := []struct {
				name     string
				category uint
				criteria domain.FilterCriteria
				want     []uint
			}{
				{"whole category", 3, domain.DefaultCriteria(), []uint{a.ID, b.ID, c.ID}},
				{"all categories", 0, domain.DefaultCriteria(), []uint{a.ID, b.ID, c.ID, c.ID + 1}},
				{"type", 3, domain.FilterCriteria{Types: []string{"gaming"}}, []uint{a.ID, c.ID}},
				{"brand", 3, domain.FilterCriteria{Brands: []string{"Lenovo", "HP"}}, []uint{b.ID, c.ID}},
				{"min price", 3, domain.FilterCriteria{MinPrice: &floor}, []uint{a.ID, c.ID}},
				{"search sku", 3, domain.FilterCriteria{Search: "tuf-15"}, []uint{a.ID}},
				{"search brand", 0, domain.FilterCriteria{Search: "APPLE"}, []uint{c.ID + 1}},
				{"price asc ties by id", 3, domain.FilterCriteria{Sort: domain.SortPriceAsc}, []uint{b.ID, a.ID, c.ID}},
				{"price desc ties by id", 3, domain.FilterCriteria{Sort: domain.SortPriceDesc}, []uint{a.ID, c.ID, b.ID}},
				{"empty category", 9, domain.DefaultCriteria(), []uint{}},
			}

			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					got, err := repo.List(ctx, tt.category, tt.criteria)
					if err != nil {
						t.Fatalf("list: %v", err)
					}
					if len(got) != len(tt.want) {
						t.Fatalf("got %d products, want %d", len(got), len(tt.want))
					}
					for i := range got {
						if got[i].ID != tt.want[i] {
							t.Errorf("position %d: got id %d, want %d", i, got[i].ID, tt.want[i])
						}
					}
				})
			}
		})
	}
}

func TestRepositoryStats(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := open(t)

			mustCreate(t, repo, sample(2, "TV A", "LG", "tv", 100, ""))
			out := mustCreate(t, repo, sample(2, "TV B", "LG", "tv", 300, ""))
			mustCreate(t, repo, sample(5, "Iron", "Philips", "iron", 50, ""))
			if err := repo.UpdateStock(ctx, out.ID, 0); err != nil {
				t.Fatal(err)
			}

			stats, err := repo.StatsByCategory(ctx)
			if err != nil {
				t.Fatalf("stats: %v", err)
			}
			if len(stats) != 2 {
				t.Fatalf("expected 2 categories, got %+v", stats)
			}
			tv := stats[0]
			if tv.CategoryID != 2 || tv.Products != 2 || tv.InStock != 1 || tv.AveragePrice != 200 {
				t.Errorf("unexpected tv stats %+v", tv)
			}
		})
	}
}

func TestFileStorePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "products.json")

	store, err := NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	p := mustCreate(t, store, sample(4, "Tefal Kettle", "Tefal", "kettle", 40, "K-1"))
	if err := store.AddOrderItem(ctx, &domain.OrderItem{ProductID: p.ID, Quantity: 1}); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := reopened.FindByID(ctx, p.ID)
	if err != nil || got.SKUValue() != "K-1" {
		t.Fatalf("reloaded product = %+v, %v", got, err)
	}
	if err := reopened.Delete(ctx, p.ID); !apperr.IsConflictError(err) {
		t.Errorf("order references must survive reload, got %v", err)
	}

	next := mustCreate(t, reopened, sample(4, "Bosch Oven", "Bosch", "microwave", 90, ""))
	if next.ID <= p.ID {
		t.Errorf("ids must keep increasing after reload, got %d", next.ID)
	}
}

func TestNewStore(t *testing.T) {
	if s, err := NewStore("", ""); err != nil || s == nil {
		t.Errorf("default store: %v", err)
	}
	if _, err := NewStore("file", ""); err == nil {
		t.Error("file store without path should fail")
	}
	if _, err := NewStore("bogus", ""); err == nil {
		t.Error("unknown store should fail")
	}
	if s, err := NewStore("FILE", filepath.Join(t.TempDir(), "p.json")); err != nil || s == nil {
		t.Errorf("file store: %v", err)
	}
}

func TestSeedIfEmpty(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryStore()

	n, err := SeedIfEmpty(ctx, repo)
	if err != nil || n != len(domain.SeedProducts()) {
		t.Fatalf("seed = %d, %v", n, err)
	}
	n, err = SeedIfEmpty(ctx, repo)
	if err != nil || n != 0 {
		t.Errorf("second seed should be a no-op, got %d, %v", n, err)
	}
}

func TestRepositorySearchLiterals(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := open(t)

			exact := mustCreate(t, repo, sample(10, "Charger 100% fast", "Bosch", "tool", 20, "NB_15"))
			mustCreate(t, repo, sample(10, "Charger 1000 fast", "Bosch", "tool", 25, "NBX15"))

			tests := []struct {
				name   string
				search string
			}{
				{"percent", "100%"},
				{"underscore", "nb_15"},
				{"padded", "  100%  "},
			}
			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					got, err := repo.List(ctx, 10, domain.FilterCriteria{Search: tt.search})
					if err != nil {
						t.Fatalf("list: %v", err)
					}
					if len(got) != 1 || got[0].ID != exact.ID {
						t.Errorf("search %q: got %d products, want only id %d", tt.search, len(got), exact.ID)
					}
				})
			}
		})
	}
}

func TestRepositoryOrderItemForMissingProduct(t *testing.T) {
	for name, open := range backends() {
		if name == "traced" {
			continue
		}
		t.Run(name, func(t *testing.T) {
			repo := open(t)
			err := repo.(orderLinker).AddOrderItem(context.Background(), &domain.OrderItem{OrderID: 1, ProductID: 404, Quantity: 1, PricePerUnit: 1})
			if !apperr.IsNotFoundError(err) {
				t.Errorf("expected not found, got %v", err)
			}
		})
	}
}

func TestGormOrderItemForeignKey(t *testing.T) {
	db, err := database.NewSQLiteConnection(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	repo := NewGormProductRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	ddl := func(table string) string {
		var sql string
		if err := db.Raw("SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?", table).Row().Scan(&sql); err != nil {
			t.Fatalf("read %s ddl: %v", table, err)
		}
		return sql
	}
	if products := ddl("products"); strings.Contains(products, "FOREIGN KEY") {
		t.Errorf("products must not carry a foreign key: %s", products)
	}
	if items := ddl("order_items"); !strings.Contains(items, "FOREIGN KEY") || !strings.Contains(items, "products") {
		t.Errorf("order_items must reference products: %s", items)
	}

	ctx := context.Background()
	n, err := SeedIfEmpty(ctx, repo)
	if err != nil || n != len(domain.SeedProducts()) {
		t.Fatalf("seed = %d, %v", n, err)
	}
	if count, _ := repo.Count(ctx); count != int64(n) {
		t.Errorf("count = %d, want %d", count, n)
	}
}
