package domain

import "testing"

func TestParsePriceBound(t *testing.T) {
	tests := []struct {
		in   string
		want *float64
	}{
		{"", nil},
		{"   ", nil},
		{"abc", nil},
		{"12abc", nil},
		{"NaN", nil},
		{"Inf", nil},
		{"150", ptr(150)},
		{" 99.5 ", ptr(99.5)},
		{"0", ptr(0)},
		{"-5", ptr(-5)},
	}

	for _, tt := range tests {
		got := ParsePriceBound(tt.in)
		switch {
		case tt.want == nil && got != nil:
			t.Errorf("ParsePriceBound(%q) = %v, want nil", tt.in, *got)
		case tt.want != nil && (got == nil || *got != *tt.want):
			t.Errorf("ParsePriceBound(%q) = %v, want %v", tt.in, got, *tt.want)
		}
	}
}

func TestActivePriceBounds(t *testing.T) {
	c := FilterCriteria{MinPrice: ptr(0), MaxPrice: ptr(-10)}
	if _, ok := c.ActiveMinPrice(); ok {
		t.Error("zero floor must be inactive")
	}
	if _, ok := c.ActiveMaxPrice(); ok {
		t.Error("negative ceiling must be inactive")
	}

	c = FilterCriteria{MinPrice: ptr(10), MaxPrice: ptr(20)}
	if v, ok := c.ActiveMinPrice(); !ok || v != 10 {
		t.Errorf("floor = %v, %v", v, ok)
	}
	if v, ok := c.ActiveMaxPrice(); !ok || v != 20 {
		t.Errorf("ceiling = %v, %v", v, ok)
	}
}

func TestParseSortKey(t *testing.T) {
	tests := map[string]SortKey{
		"":           SortDefault,
		"default":    SortDefault,
		"price-asc":  SortPriceAsc,
		"price-desc": SortPriceDesc,
		"name":       SortDefault,
	}
	for in, want := range tests {
		if got := ParseSortKey(in); got != want {
			t.Errorf("ParseSortKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCriteriaMerge(t *testing.T) {
	base := FilterCriteria{Brands: []string{"Apple"}, Search: "pro", Sort: SortPriceAsc}

	floor := "1000"
	bad := "cheap"
	merged := base.Merge(CriteriaPatch{Types: []string{"office"}, MinPrice: &floor, MaxPrice: &bad})

	if len(merged.Brands) != 1 || merged.Brands[0] != "Apple" {
		t.Errorf("brands should be kept, got %v", merged.Brands)
	}
	if len(merged.Types) != 1 || merged.Types[0] != "office" {
		t.Errorf("types not applied: %v", merged.Types)
	}
	if merged.MinPrice == nil || *merged.MinPrice != 1000 {
		t.Errorf("min price not applied: %v", merged.MinPrice)
	}
	if merged.MaxPrice != nil {
		t.Errorf("non-numeric max price must unset the bound, got %v", *merged.MaxPrice)
	}
	if merged.Search != "pro" || merged.Sort != SortPriceAsc {
		t.Error("untouched fields must be kept")
	}

	cleared := merged.Merge(CriteriaPatch{Brands: []string{}})
	if len(cleared.Brands) != 0 {
		t.Errorf("empty slice should clear brands, got %v", cleared.Brands)
	}

	// merge must not alias the original slices
	merged.Brands[0] = "Samsung"
	if base.Brands[0] != "Apple" {
		t.Error("merge aliased the base criteria")
	}
}

func ptr(v float64) *float64 { return &v }
