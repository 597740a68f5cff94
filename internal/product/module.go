package product

import (
	"gorm.io/gorm"

	"github.com/tair/techstore/internal/product/access"
	"github.com/tair/techstore/internal/product/delivery/http"
	"github.com/tair/techstore/internal/product/domain"
	"github.com/tair/techstore/internal/product/repository"
)

// Module bundles what the server needs from the catalog context
type Module struct {
	Handler    *http.ProductHandler
	Repository domain.ProductRepository
	Access     *access.Local
}

// ProvideProductRepository migrates the schema and returns a traced gorm repository
func ProvideProductRepository(db *gorm.DB) (domain.ProductRepository, error) {
	repo := repository.NewGormProductRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		return nil, err
	}
	return repository.NewTracingRepository(repo), nil
}
