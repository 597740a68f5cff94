//go:build wireinject
// +build wireinject

package user

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/tair/techstore/internal/user/delivery/http"
	"github.com/tair/techstore/internal/user/usecase/command"
	"github.com/tair/techstore/internal/user/usecase/query"
	"github.com/tair/techstore/pkg/auth"
)

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideUserRepository,
)

var CommandHandlerSet = wire.NewSet(
	wire.Bind(new(command.TokenIssuer), new(*auth.TokenManager)),
	command.NewRegisterUserHandler,
	command.NewLoginUserHandler,
	command.NewUpdateProfileHandler,
	command.NewChangeRoleHandler,
	command.NewDeleteUserHandler,
	command.NewEnsureAdminHandler,
)

var QueryHandlerSet = wire.NewSet(
	query.NewGetUserHandler,
	query.NewListUsersHandler,
	query.NewGetStatsHandler,
)

var AllHandlersSet = wire.NewSet(
	RepositorySet,
	CommandHandlerSet,
	QueryHandlerSet,
	NewDirectoryGate,
	wire.Bind(new(auth.Gate), new(*DirectoryGate)),
)

// InitializeModule wires the account module with all dependencies
func InitializeModule(db *gorm.DB, tokens *auth.TokenManager, reg prometheus.Registerer) (*Module, error) {
	wire.Build(
		AllHandlersSet,
		http.NewUserHandler,
		wire.Struct(new(Module), "*"),
	)
	return nil, nil
}
