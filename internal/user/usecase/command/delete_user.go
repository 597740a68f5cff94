package command

import (
	"context"

	"github.com/tair/techstore/internal/apperr"
	"github.com/tair/techstore/internal/user/domain"
)

// DeleteUserCommand represents the command to delete a user
type DeleteUserCommand struct {
	ActorID uint
	ID      uint
}

// DeleteUserHandler handles user deletion command
type DeleteUserHandler struct {
	repo domain.UserRepository
}

// NewDeleteUserHandler creates a new delete user handler
func NewDeleteUserHandler(repo domain.UserRepository) *DeleteUserHandler {
	return &DeleteUserHandler{repo: repo}
}

// Handle executes the delete user command. Admins cannot delete themselves.
func (h *DeleteUserHandler) Handle(ctx context.Context, cmd DeleteUserCommand) error {
	if cmd.ActorID != 0 && cmd.ActorID == cmd.ID {
		return apperr.NewFieldError("id", "you cannot delete your own account")
	}
	return h.repo.Delete(ctx, cmd.ID)
}
