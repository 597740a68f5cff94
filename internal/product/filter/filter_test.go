package filter

import (
	"reflect"
	"strings"
	"testing"

	"github.com/tair/techstore/internal/product/domain"
)

func catalog() []domain.Product {
	sku := "NB-ASUS-TUF"
	return []domain.Product{
		{ID: 1, Name: "Lenovo IdeaPad 3", Brand: "Lenovo", ProductType: "office", Price: 100},
		{ID: 2, Name: "ASUS TUF Gaming", Brand: "ASUS", ProductType: "gaming", Price: 200, SKU: &sku},
		{ID: 3, Name: "MacBook Air", Brand: "Apple", ProductType: "ultrabook", Price: 300, Description: "Retina display"},
		{ID: 4, Name: "HP Victus", Brand: "HP", ProductType: "gaming", Price: 150},
	}
}

func ids(products []domain.Product) []uint {
	out := make([]uint, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func price(v float64) *float64 { return &v }

func TestFilter(t *testing.T) {
	tests := []struct {
		name     string
		criteria domain.FilterCriteria
		want     []uint
	}{
		{"no criteria", domain.FilterCriteria{}, []uint{1, 2, 3, 4}},
		{"brand", domain.FilterCriteria{Brands: []string{"ASUS", "Apple"}}, []uint{2, 3}},
		{"type", domain.FilterCriteria{Types: []string{"gaming"}}, []uint{2, 4}},
		{"min price", domain.FilterCriteria{MinPrice: price(150)}, []uint{2, 3, 4}},
		{"max price", domain.FilterCriteria{MaxPrice: price(150)}, []uint{1, 4}},
		{"zero bounds ignored", domain.FilterCriteria{MinPrice: price(0), MaxPrice: price(0)}, []uint{1, 2, 3, 4}},
		{"negative bound ignored", domain.FilterCriteria{MaxPrice: price(-1)}, []uint{1, 2, 3, 4}},
		{"search name case-insensitive", domain.FilterCriteria{Search: "macbook"}, []uint{3}},
		{"search description", domain.FilterCriteria{Search: "RETINA"}, []uint{3}},
		{"search sku", domain.FilterCriteria{Search: "nb-asus"}, []uint{2}},
		{"search padded", domain.FilterCriteria{Search: "  macbook \t"}, []uint{3}},
		{"search across fields", domain.FilterCriteria{Search: "lenovo office"}, []uint{1}},
		{"combined", domain.FilterCriteria{Types: []string{"gaming"}, MaxPrice: price(180)}, []uint{4}},
		{"nothing matches", domain.FilterCriteria{Brands: []string{"Dell"}}, []uint{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Filter(tt.criteria, catalog()))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMinPriceKeepsMoreExpensive(t *testing.T) {
	products := []domain.Product{{ID: 1, Price: 100}, {ID: 2, Price: 200}}
	got := Filter(domain.FilterCriteria{MinPrice: price(150)}, products)
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("expected only product 2, got %v", ids(got))
	}
}

func TestMatches(t *testing.T) {
	p := catalog()[1]
	if !Matches(domain.FilterCriteria{Brands: []string{"ASUS"}, Search: "tuf"}, &p) {
		t.Error("expected match")
	}
	if Matches(domain.FilterCriteria{Brands: []string{"ASUS"}, Search: "lenovo"}, &p) {
		t.Error("expected every predicate to be required")
	}
}

func TestSortIsStable(t *testing.T) {
	products := []domain.Product{
		{ID: 3, Price: 10},
		{ID: 1, Price: 10},
		{ID: 2, Price: 5},
	}

	tests := []struct {
		key  domain.SortKey
		want []uint
	}{
		{domain.SortPriceAsc, []uint{2, 3, 1}},
		{domain.SortPriceDesc, []uint{3, 1, 2}},
		{domain.SortDefault, []uint{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			got := ids(Sort(tt.key, products))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	if products[0].ID != 3 {
		t.Error("Sort must not reorder its input")
	}
}

func TestApply(t *testing.T) {
	got := Apply(domain.FilterCriteria{Types: []string{"gaming"}, Sort: domain.SortPriceDesc}, catalog())
	if want := []uint{2, 4}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("got %v, want %v", ids(got), want)
	}
}

func TestBuildWhere(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		where, args := BuildWhere(DialectSQLite, 0, domain.FilterCriteria{})
		if where != "" || len(args) != 0 {
			t.Errorf("expected empty clause, got %q %v", where, args)
		}
	})

	t.Run("full", func(t *testing.T) {
		c := domain.FilterCriteria{
			Brands:   []string{"ASUS"},
			Types:    []string{"gaming"},
			MinPrice: price(100),
			MaxPrice: price(0),
			Search:   "50%_Off",
		}
		where, args := BuildWhere(DialectPostgres, 3, c)

		for _, frag := range []string{"category_id = ?", "brand IN ?", "product_type IN ?", "price >= ?", "CONCAT_WS", "LIKE ? ESCAPE '!'"} {
			if !strings.Contains(where, frag) {
				t.Errorf("clause %q missing %q", where, frag)
			}
		}
		if strings.Contains(where, "price <= ?") {
			t.Error("inactive ceiling must not be emitted")
		}
		if len(args) != 5 {
			t.Fatalf("expected 5 args, got %d", len(args))
		}
		if args[4] != `%50!%!_off%` {
			t.Errorf("search arg not escaped: %v", args[4])
		}
	})

	t.Run("escape character and padding", func(t *testing.T) {
		where, args := BuildWhere(DialectSQLite, 0, domain.FilterCriteria{Search: "  wow!_100%  "})
		if !strings.HasSuffix(where, "LIKE ? ESCAPE '!'") {
			t.Errorf("sqlite clause must declare the escape character: %q", where)
		}
		if len(args) != 1 || args[0] != `%wow!!!_100!%%` {
			t.Errorf("unexpected search arg %v", args)
		}

		if where, args := BuildWhere(DialectSQLite, 0, domain.FilterCriteria{Search: "   "}); where != "" || len(args) != 0 {
			t.Errorf("blank search must not constrain, got %q %v", where, args)
		}
	})

	t.Run("sqlite concatenation", func(t *testing.T) {
		where, _ := BuildWhere(DialectSQLite, 0, domain.FilterCriteria{Search: "x"})
		if !strings.Contains(where, "|| ' ' ||") || strings.Contains(where, "CONCAT_WS") {
			t.Errorf("unexpected sqlite search expression %q", where)
		}
	})
}

func TestOrderBy(t *testing.T) {
	tests := map[domain.SortKey]string{
		domain.SortDefault:   "product_id ASC",
		domain.SortPriceAsc:  "price ASC, product_id ASC",
		domain.SortPriceDesc: "price DESC, product_id ASC",
	}
	for key, want := range tests {
		if got := OrderBy(key); got != want {
			t.Errorf("OrderBy(%q) = %q, want %q", key, got, want)
		}
	}
}
