package filter

import (
	"strings"

	"github.com/tair/techstore/internal/product/domain"
)

// Dialect names as reported by gorm dialectors
const (
	DialectPostgres = "postgres"
	DialectMySQL    = "mysql"
	DialectSQLite   = "sqlite"
)

var searchColumns = []string{"name", "brand", "product_type", "short_description", "description", "sku"}

// BuildWhere translates the category and criteria into a parameterized WHERE
// clause using "?" placeholders. A zero categoryID means every category.
// The clause is empty when nothing constrains the query.
func BuildWhere(dialect string, categoryID uint, c domain.FilterCriteria) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)

	if categoryID != 0 {
		conds = append(conds, "category_id = ?")
		args = append(args, categoryID)
	}
	if len(c.Brands) > 0 {
		conds = append(conds, "brand IN ?")
		args = append(args, c.Brands)
	}
	if len(c.Types) > 0 {
		conds = append(conds, "product_type IN ?")
		args = append(args, c.Types)
	}
	if v, ok := c.ActiveMinPrice(); ok {
		conds = append(conds, "price >= ?")
		args = append(args, v)
	}
	if v, ok := c.ActiveMaxPrice(); ok {
		conds = append(conds, "price <= ?")
		args = append(args, v)
	}
	if search := strings.TrimSpace(c.Search); search != "" {
		conds = append(conds, searchExpr(dialect)+" LIKE ? ESCAPE '"+likeEscape+"'")
		args = append(args, "%"+escapeLike(strings.ToLower(search))+"%")
	}

	return strings.Join(conds, " AND "), args
}

// OrderBy returns the ORDER BY clause for the sort key. Price ties fall back
// to product id so results match the stable in-memory sort.
func OrderBy(key domain.SortKey) string {
	switch key {
	case domain.SortPriceAsc:
		return "price ASC, product_id ASC"
	case domain.SortPriceDesc:
		return "price DESC, product_id ASC"
	default:
		return "product_id ASC"
	}
}

// searchExpr builds LOWER(<fields joined by a space>) for the dialect
func searchExpr(dialect string) string {
	cols := make([]string, len(searchColumns))
	for i, col := range searchColumns {
		cols[i] = "COALESCE(" + col + ", '')"
	}
	switch dialect {
	case DialectMySQL, DialectPostgres:
		return "LOWER(CONCAT_WS(' ', " + strings.Join(cols, ", ") + "))"
	default:
		return "LOWER(" + strings.Join(cols, " || ' ' || ") + ")"
	}
}

// likeEscape is declared explicitly in every LIKE clause; sqlite has no
// default escape character and backslash handling differs between dialects.
const likeEscape = "!"

var likeEscaper = strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")

// escapeLike makes % and _ in user text match literally
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
