package command

import (
	"context"
	"fmt"

	"github.com/tair/techstore/internal/apperr"
	"github.com/tair/techstore/internal/user/domain"
	"github.com/tair/techstore/pkg/auth"
	"github.com/tair/techstore/pkg/logger"
)

// EnsureAdminCommand names the bootstrap administrator account
type EnsureAdminCommand struct {
	Email    string
	Password string
}

// EnsureAdminHandler creates or promotes the bootstrap administrator
type EnsureAdminHandler struct {
	repo domain.UserRepository
}

// NewEnsureAdminHandler creates a new ensure admin handler
func NewEnsureAdminHandler(repo domain.UserRepository) *EnsureAdminHandler {
	return &EnsureAdminHandler{repo: repo}
}

// Handle makes sure the account exists and holds the Admin role. An empty
// email disables bootstrapping.
func (h *EnsureAdminHandler) Handle(ctx context.Context, cmd EnsureAdminCommand) (*domain.User, error) {
	email := normalizeEmail(cmd.Email)
	if email == "" {
		return nil, nil
	}

	existing, err := h.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if !existing.IsAdmin() {
			if err := h.repo.AddRole(ctx, existing.ID, domain.RoleAdmin); err != nil {
				return nil, err
			}
			logger.Info(ctx).Uint("user_id", existing.ID).Msg("Promoted bootstrap user to Admin")
		}
		return h.repo.FindByID(ctx, existing.ID)
	case !apperr.IsNotFoundError(err):
		return nil, err
	}

	if len(cmd.Password) < minPasswordLength {
		return nil, fmt.Errorf("bootstrap admin password must be at least %d characters", minPasswordLength)
	}
	hashedPassword, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{FirstName: "Admin", Email: email, PasswordHash: hashedPassword}
	if err := h.repo.Create(ctx, user, domain.RoleClient, domain.RoleAdmin); err != nil {
		return nil, err
	}
	logger.Info(ctx).Uint("user_id", user.ID).Msg("Created bootstrap Admin user")
	return user, nil
}
