package command

import (
	"context"

	"github.com/tair/techstore/internal/apperr"
	"github.com/tair/techstore/internal/user/domain"
)

// ChangeRoleCommand represents the command to grant or revoke a role (admin only)
type ChangeRoleCommand struct {
	UserID uint
	Role   string
	Grant  bool
}

// ChangeRoleHandler handles user role change command
type ChangeRoleHandler struct {
	repo domain.UserRepository
}

// NewChangeRoleHandler creates a new change role handler
func NewChangeRoleHandler(repo domain.UserRepository) *ChangeRoleHandler {
	return &ChangeRoleHandler{repo: repo}
}

// Handle executes the change role command and returns the updated user
func (h *ChangeRoleHandler) Handle(ctx context.Context, cmd ChangeRoleCommand) (*domain.User, error) {
	if cmd.Role != domain.RoleAdmin && cmd.Role != domain.RoleClient {
		return nil, apperr.NewFieldError("role", "must be Admin or Client")
	}

	var err error
	if cmd.Grant {
		err = h.repo.AddRole(ctx, cmd.UserID, cmd.Role)
	} else {
		err = h.repo.RemoveRole(ctx, cmd.UserID, cmd.Role)
	}
	if err != nil {
		return nil, err
	}

	return h.repo.FindByID(ctx, cmd.UserID)
}
