package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/tair/techstore/internal/apperr"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"

	mysqlDuplicateEntry  = 1062
	mysqlRowIsReferenced = 1451
)

// translateError maps driver failures onto the application error taxonomy.
// Unrecognized errors are wrapped and returned as-is.
func translateError(op string, err error) error {
	switch {
	case isDuplicateKey(err):
		return apperr.NewConflictError("SKU must be unique")
	case isForeignKeyViolation(err):
		return apperr.NewConflictError("product is referenced by existing orders")
	default:
		return fmt.Errorf("product repository %s: %w", op, err)
	}
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pgForeignKeyViolation {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlRowIsReferenced {
		return true
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
