package dto

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/tair/techstore/internal/apperr"
	"github.com/tair/techstore/internal/product/domain"
)

// Query parameter names of GET /api/products
const (
	ParamCategoryKey = "categoryKey"
	ParamCategoryID  = "categoryId"
	ParamBrand       = "brand"
	ParamType        = "type"
	ParamMinPrice    = "minPrice"
	ParamMaxPrice    = "maxPrice"
	ParamSearch      = "search"
	ParamSort        = "sort"
)

// ListQuery is the decoded form of the product listing parameters
type ListQuery struct {
	CategoryKey string
	CategoryID  uint
	Criteria    domain.FilterCriteria
}

// Encode renders the query as URL parameters. Unset values are omitted.
func (q ListQuery) Encode() url.Values {
	v := url.Values{}
	if q.CategoryKey != "" {
		v.Set(ParamCategoryKey, q.CategoryKey)
	}
	if q.CategoryID != 0 {
		v.Set(ParamCategoryID, strconv.FormatUint(uint64(q.CategoryID), 10))
	}
	for _, b := range q.Criteria.Brands {
		v.Add(ParamBrand, b)
	}
	for _, t := range q.Criteria.Types {
		v.Add(ParamType, t)
	}
	if min, ok := q.Criteria.ActiveMinPrice(); ok {
		v.Set(ParamMinPrice, strconv.FormatFloat(min, 'f', -1, 64))
	}
	if max, ok := q.Criteria.ActiveMaxPrice(); ok {
		v.Set(ParamMaxPrice, strconv.FormatFloat(max, 'f', -1, 64))
	}
	if s := strings.TrimSpace(q.Criteria.Search); s != "" {
		v.Set(ParamSearch, s)
	}
	if q.Criteria.Sort != "" && q.Criteria.Sort != domain.SortDefault {
		v.Set(ParamSort, string(q.Criteria.Sort))
	}
	return v
}

// DecodeListQuery parses listing parameters. Brand and type accept repeated
// parameters or comma-separated lists; unparsable price bounds are ignored.
func DecodeListQuery(v url.Values) (ListQuery, error) {
	q := ListQuery{
		CategoryKey: strings.TrimSpace(v.Get(ParamCategoryKey)),
		Criteria: domain.FilterCriteria{
			Brands:   splitValues(v[ParamBrand]),
			Types:    splitValues(v[ParamType]),
			MinPrice: domain.ParsePriceBound(v.Get(ParamMinPrice)),
			MaxPrice: domain.ParsePriceBound(v.Get(ParamMaxPrice)),
			Search:   strings.TrimSpace(v.Get(ParamSearch)),
			Sort:     domain.ParseSortKey(v.Get(ParamSort)),
		},
	}

	if raw := strings.TrimSpace(v.Get(ParamCategoryID)); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return ListQuery{}, apperr.NewFieldError(ParamCategoryID, "must be a positive integer")
		}
		q.CategoryID = uint(id)
	}
	return q, nil
}

func splitValues(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
