// Package filter selects and orders catalog products. The in-memory
// predicates and the SQL builder implement the same rules so local and
// database-backed stores return identical views.
package filter

import (
	"sort"
	"strings"

	"github.com/tair/techstore/internal/product/domain"
)

// Predicate decides whether a product belongs in the result
type Predicate func(p *domain.Product) bool

// Brand passes when no brand is selected or the product's brand is selected
func Brand(brands []string) Predicate {
	return func(p *domain.Product) bool {
		return len(brands) == 0 || contains(brands, p.Brand)
	}
}

// Type passes when no type is selected or the product's type is selected
func Type(types []string) Predicate {
	return func(p *domain.Product) bool {
		return len(types) == 0 || contains(types, p.ProductType)
	}
}

// MinPrice passes when the floor is unset, non-positive, or met
func MinPrice(bound *float64) Predicate {
	return func(p *domain.Product) bool {
		return bound == nil || *bound <= 0 || p.Price >= *bound
	}
}

// MaxPrice passes when the ceiling is unset, non-positive, or met
func MaxPrice(bound *float64) Predicate {
	return func(p *domain.Product) bool {
		return bound == nil || *bound <= 0 || p.Price <= *bound
	}
}

// Search passes when the trimmed text is empty or occurs, case-insensitively,
// in the product's searchable fields
func Search(text string) Predicate {
	needle := strings.ToLower(strings.TrimSpace(text))
	return func(p *domain.Product) bool {
		return needle == "" || strings.Contains(SearchableText(p), needle)
	}
}

// SearchableText is the lowercased haystack the search predicate scans
func SearchableText(p *domain.Product) string {
	return strings.ToLower(strings.Join([]string{
		p.Name,
		p.Brand,
		p.ProductType,
		p.ShortDescription,
		p.Description,
		p.SKUValue(),
	}, " "))
}

// Predicates returns the criteria's five sub-predicates
func Predicates(c domain.FilterCriteria) []Predicate {
	return []Predicate{
		Brand(c.Brands),
		Type(c.Types),
		MinPrice(c.MinPrice),
		MaxPrice(c.MaxPrice),
		Search(c.Search),
	}
}

// Matches reports whether the product passes every predicate
func Matches(c domain.FilterCriteria, p *domain.Product) bool {
	for _, pred := range Predicates(c) {
		if !pred(p) {
			return false
		}
	}
	return true
}

// Filter returns the matching products in their original order
func Filter(c domain.FilterCriteria, products []domain.Product) []domain.Product {
	preds := Predicates(c)
	out := make([]domain.Product, 0, len(products))
next:
	for i := range products {
		for _, pred := range preds {
			if !pred(&products[i]) {
				continue next
			}
		}
		out = append(out, products[i])
	}
	return out
}

// Sort returns a stably sorted copy of the products
func Sort(key domain.SortKey, products []domain.Product) []domain.Product {
	out := append([]domain.Product(nil), products...)
	switch key {
	case domain.SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case domain.SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	}
	return out
}

// Apply filters, then sorts
func Apply(c domain.FilterCriteria, products []domain.Product) []domain.Product {
	return Sort(c.Sort, Filter(c, products))
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
