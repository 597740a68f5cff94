package command

import (
	"context"

	"github.com/tair/techstore/internal/apperr"
	"github.com/tair/techstore/internal/user/domain"
	"github.com/tair/techstore/pkg/auth"
)

// LoginUserCommand represents the command to login a user
type LoginUserCommand struct {
	Email    string
	Password string
}

// LoginUserHandler handles user login command
type LoginUserHandler struct {
	repo   domain.UserRepository
	tokens TokenIssuer
}

// NewLoginUserHandler creates a new login user handler
func NewLoginUserHandler(repo domain.UserRepository, tokens TokenIssuer) *LoginUserHandler {
	return &LoginUserHandler{repo: repo, tokens: tokens}
}

// Handle executes the login user command
func (h *LoginUserHandler) Handle(ctx context.Context, cmd LoginUserCommand) (*AuthResult, error) {
	if cmd.Email == "" || cmd.Password == "" {
		return nil, apperr.NewValidationError(
			apperr.FieldError{Field: "email", Message: "email and password are required"},
		)
	}

	user, err := h.repo.FindByEmail(ctx, normalizeEmail(cmd.Email))
	if apperr.IsNotFoundError(err) {
		return nil, apperr.NewUnauthorizedError("invalid email or password")
	}
	if err != nil {
		return nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, cmd.Password) {
		return nil, apperr.NewUnauthorizedError("invalid email or password")
	}

	return issue(h.tokens, user)
}
