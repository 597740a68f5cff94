package domain

import (
	"math"
	"strconv"
	"strings"
)

// SortKey names a product ordering
type SortKey string

const (
	SortDefault   SortKey = "default"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
)

// ParseSortKey maps unknown or empty values to SortDefault
func ParseSortKey(s string) SortKey {
	switch SortKey(strings.TrimSpace(s)) {
	case SortPriceAsc:
		return SortPriceAsc
	case SortPriceDesc:
		return SortPriceDesc
	default:
		return SortDefault
	}
}

// FilterCriteria selects and orders products within one category.
// Empty brand and type sets and nil price bounds impose no constraint.
type FilterCriteria struct {
	Brands   []string
	Types    []string
	MinPrice *float64
	MaxPrice *float64
	Search   string
	Sort     SortKey
}

// DefaultCriteria returns criteria that pass every product in id order
func DefaultCriteria() FilterCriteria {
	return FilterCriteria{Sort: SortDefault}
}

// Clone returns a deep copy
func (c FilterCriteria) Clone() FilterCriteria {
	out := c
	out.Brands = append([]string(nil), c.Brands...)
	out.Types = append([]string(nil), c.Types...)
	if c.MinPrice != nil {
		v := *c.MinPrice
		out.MinPrice = &v
	}
	if c.MaxPrice != nil {
		v := *c.MaxPrice
		out.MaxPrice = &v
	}
	return out
}

// ActiveMinPrice returns the floor when it constrains the result
func (c FilterCriteria) ActiveMinPrice() (float64, bool) {
	if c.MinPrice == nil || *c.MinPrice <= 0 {
		return 0, false
	}
	return *c.MinPrice, true
}

// ActiveMaxPrice returns the ceiling when it constrains the result
func (c FilterCriteria) ActiveMaxPrice() (float64, bool) {
	if c.MaxPrice == nil || *c.MaxPrice <= 0 {
		return 0, false
	}
	return *c.MaxPrice, true
}

// CriteriaPatch is a partial filter update. Nil fields are left as they are;
// a non-nil empty slice clears the selection.
type CriteriaPatch struct {
	Brands []string
	Types  []string
	// MinPrice and MaxPrice hold raw user input; blank or non-numeric text unsets the bound.
	MinPrice *string
	MaxPrice *string
	Search   *string
	Sort     *SortKey
}

// Merge applies the patch to the criteria
func (c FilterCriteria) Merge(p CriteriaPatch) FilterCriteria {
	out := c.Clone()
	if p.Brands != nil {
		out.Brands = append([]string{}, p.Brands...)
	}
	if p.Types != nil {
		out.Types = append([]string{}, p.Types...)
	}
	if p.MinPrice != nil {
		out.MinPrice = ParsePriceBound(*p.MinPrice)
	}
	if p.MaxPrice != nil {
		out.MaxPrice = ParsePriceBound(*p.MaxPrice)
	}
	if p.Search != nil {
		out.Search = *p.Search
	}
	if p.Sort != nil {
		out.Sort = ParseSortKey(string(*p.Sort))
	}
	return out
}

// ParsePriceBound parses a price bound, returning nil for blank or non-numeric input
func ParsePriceBound(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
