package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/techstore/internal/product/domain"
	"github.com/tair/techstore/internal/product/dto"
	"github.com/tair/techstore/internal/product/repository"
	"github.com/tair/techstore/internal/product/usecase/command"
	"github.com/tair/techstore/internal/product/usecase/query"
	"github.com/tair/techstore/pkg/auth"
)

// tokenGate accepts "admin" and "client" bearer tokens
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

func newTestRouter(t *testing.T) (*mux.Router, *repository.InMemoryStore) {
	t.Helper()
	store := repository.NewInMemoryStore()
	if _, err := repository.SeedIfEmpty(context.Background(), store); err != nil {
		t.Fatalf("seed: %v", err)
	}

	h := NewProductHandler(
		command.NewCreateProductHandler(store, tokenGate, nil),
		command.NewUpdateProductHandler(store, tokenGate, nil),
		command.NewDeleteProductHandler(store, tokenGate, nil),
		command.NewUpdateStockHandler(store, tokenGate, nil),
		query.NewGetProductHandler(store),
		query.NewListProductsHandler(store),
		query.NewGetStatsHandler(store),
		tokenGate,
		prometheus.NewRegistry(),
	)
	router := mux.NewRouter()
	router.Use(RecoveryMiddleware, RequestIDMiddleware, SecurityHeadersMiddleware)
	h.RegisterRoutes(router)
	h.RegisterHealthCheck(router, nil)
	h.RegisterIndex(router, "test")
	return router, store
}

func do(t *testing.T, router http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestListProducts(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name  string
		path  string
		check func(t *testing.T, records []dto.ProductRecord)
	}{
		{"category key", "/api/products?categoryKey=tv", func(t *testing.T, records []dto.ProductRecord) {
			if len(records) != 3 {
				t.Fatalf("expected 3 tv products, got %d", len(records))
			}
			for i := 1; i < len(records); i++ {
				if records[i-1].ProductID > records[i].ProductID {
					t.Error("default sort should be ascending product_id")
				}
			}
		}},
		{"brand and sort", "/api/products?categoryKey=tv&brand=Samsung&brand=LG&sort=price-asc", func(t *testing.T, records []dto.ProductRecord) {
			if len(records) != 2 || records[0].Brand != "LG" || records[1].Brand != "Samsung" {
				t.Errorf("unexpected records %+v", records)
			}
		}},
		{"price range", "/api/products?categoryKey=notebooks&minPrice=20000&maxPrice=36000", func(t *testing.T, records []dto.ProductRecord) {
			if len(records) != 1 || records[0].Brand != "ASUS" {
				t.Errorf("unexpected records %+v", records)
			}
		}},
		{"search", "/api/products?categoryKey=kitchen&search=KETTLE", func(t *testing.T, records []dto.ProductRecord) {
			if len(records) != 1 || records[0].Brand != "Tefal" {
				t.Errorf("unexpected records %+v", records)
			}
		}},
		{"unknown category", "/api/products?categoryKey=spaceships", func(t *testing.T, records []dto.ProductRecord) {
			if records == nil || len(records) != 0 {
				t.Errorf("expected empty array, got %+v", records)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodGet, tt.path, "", "")
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			var records []dto.ProductRecord
			decode(t, rec, &records)
			tt.check(t, records)
		})
	}

	rec := do(t, router, http.MethodGet, "/api/products?categoryId=abc", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad categoryId: expected 400, got %d", rec.Code)
	}
}

func TestGetProduct(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/products/1", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var record dto.ProductRecord
	decode(t, rec, &record)
	if record.ProductID != 1 {
		t.Errorf("unexpected record %+v", record)
	}
	if !strings.Contains(rec.Body.String(), `"stock_quantity"`) {
		t.Error("wire format should be snake_case")
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("expected a request id header")
	}

	rec = do(t, router, http.MethodGet, "/api/products/9999", "", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestCreateProduct(t *testing.T) {
	router, store := newTestRouter(t)
	body := `{"categoryKey":"notebooks","name":"HP Pavilion 15","brand":"HP","product_type":"office","price":"25999","stock_quantity":4,"sku":"NB-HP-15"}`

	rec := do(t, router, http.MethodPost, "/api/products", "admin", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created dto.ProductRecord
	decode(t, rec, &created)
	if created.CategoryID != 3 || created.Price != 25999 || created.SKU == nil || *created.SKU != "NB-HP-15" {
		t.Errorf("unexpected record %+v", created)
	}

	rec = do(t, router, http.MethodPost, "/api/products", "admin", body)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate sku: expected 409, got %d", rec.Code)
	}

	count, _ := store.Count(context.Background())
	tests := []struct {
		name   string
		token  string
		body   string
		status int
	}{
		{"anonymous", "", body, http.StatusUnauthorized},
		{"invalid token", "forged", body, http.StatusUnauthorized},
		{"client", "client", body, http.StatusForbidden},
		{"anonymous with bad body", "", `{"price":"abc"}`, http.StatusUnauthorized},
		{"empty name", "admin", `{"categoryKey":"tv","name":"","brand":"LG","product_type":"tv","price":10}`, http.StatusBadRequest},
		{"bad price", "admin", `{"categoryKey":"tv","name":"X","brand":"LG","product_type":"tv","price":"abc"}`, http.StatusBadRequest},
		{"malformed json", "admin", `{`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, "/api/products", tt.token, tt.body)
			if rec.Code != tt.status {
				t.Errorf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
		})
	}

	after, _ := store.Count(context.Background())
	if after != count {
		t.Errorf("rejected requests must not write: %d -> %d", count, after)
	}
}

func TestUpdateProduct(t *testing.T) {
	router, store := newTestRouter(t)

	rec := do(t, router, http.MethodPut, "/api/products/1", "admin", `{"price":"30999.5"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var updated dto.ProductRecord
	decode(t, rec, &updated)
	if updated.Price != 30999.5 {
		t.Errorf("unexpected price %v", updated.Price)
	}

	before, _ := store.FindByID(context.Background(), 2)
	rec = do(t, router, http.MethodPut, "/api/products/2", "client", `{"price":1}`)
	if rec.Code != http.StatusForbidden {
		t.Errorf("client update: expected 403, got %d", rec.Code)
	}
	after, _ := store.FindByID(context.Background(), 2)
	if after.Price != before.Price {
		t.Error("forbidden update must not change the record")
	}

	rec = do(t, router, http.MethodPut, "/api/products/9999", "admin", `{"price":1}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing product: expected 404, got %d", rec.Code)
	}

	rec = do(t, router, http.MethodPut, "/api/products/1", "admin", `{"price":-5}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("negative price: expected 400, got %d", rec.Code)
	}
}

func TestDeleteProduct(t *testing.T) {
	router, store := newTestRouter(t)

	if err := store.AddOrderItem(context.Background(), &domain.OrderItem{ProductID: 2, Quantity: 1, PricePerUnit: 100}); err != nil {
		t.Fatalf("add order item: %v", err)
	}

	rec := do(t, router, http.MethodDelete, "/api/products/1", "admin", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != `{"success":true}` {
		t.Fatalf("expected 200 {success:true}, got %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, router, http.MethodDelete, "/api/products/1", "admin", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete: expected 404, got %d", rec.Code)
	}

	rec = do(t, router, http.MethodDelete, "/api/products/2", "admin", "")
	if rec.Code != http.StatusConflict {
		t.Errorf("referenced product: expected 409, got %d", rec.Code)
	}
	if _, err := store.FindByID(context.Background(), 2); err != nil {
		t.Errorf("referenced product should still exist: %v", err)
	}
}

func TestUpdateStockAndStats(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodPatch, "/api/products/1/stock", "admin", `{"stock_quantity":0}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, router, http.MethodPatch, "/api/products/1/stock", "admin", `{"stock_quantity":-1}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("negative stock: expected 400, got %d", rec.Code)
	}

	rec = do(t, router, http.MethodGet, "/api/products/stats", "", "")
	var stats query.ProductStats
	decode(t, rec, &stats)
	if stats.TotalProducts != int64(len(domain.SeedProducts())) || stats.InStockProducts != stats.TotalProducts-1 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestCategoriesAndIndex(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/categories", "", "")
	var categories []dto.CategoryRecord
	decode(t, rec, &categories)
	if len(categories) != len(domain.Categories()) {
		t.Errorf("expected %d categories, got %d", len(domain.Categories()), len(categories))
	}

	rec = do(t, router, http.MethodGet, "/api/categories/tv", "", "")
	if rec.Code != http.StatusOK {
		t.Errorf("tv: expected 200, got %d", rec.Code)
	}
	rec = do(t, router, http.MethodGet, "/api/categories/nope", "", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown: expected 404, got %d", rec.Code)
	}

	for _, path := range []string{"/", "/health"} {
		rec = do(t, router, http.MethodGet, path, "", "")
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rec.Code)
		}
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected security headers")
	}
}
