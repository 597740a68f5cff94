package user

import (
	"gorm.io/gorm"

	"github.com/tair/techstore/internal/user/delivery/http"
	"github.com/tair/techstore/internal/user/domain"
	"github.com/tair/techstore/internal/user/repository"
	"github.com/tair/techstore/internal/user/usecase/command"
)

// Module bundles what the server needs from the account context
type Module struct {
	Handler     *http.UserHandler
	Gate        *DirectoryGate
	EnsureAdmin *command.EnsureAdminHandler
}

// ProvideUserRepository migrates the schema and returns a traced gorm repository
func ProvideUserRepository(db *gorm.DB) (domain.UserRepository, error) {
	repo := repository.NewGormUserRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		return nil, err
	}
	return repository.NewTracingRepository(repo), nil
}
