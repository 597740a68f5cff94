package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tair/techstore/internal/apperr"
	"github.com/tair/techstore/internal/user/domain"
	"github.com/tair/techstore/pkg/auth"
)

const minPasswordLength = 6

// TokenIssuer signs session tokens
type TokenIssuer interface {
	GenerateToken(userID uint, roles []string) (string, time.Time, error)
}

// AuthResult is returned by registration and login
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// RegisterUserCommand represents the command to register a new user
type RegisterUserCommand struct {
	Name     string
	Email    string
	Password string
}

// RegisterUserHandler handles user registration command
type RegisterUserHandler struct {
	repo   domain.UserRepository
	tokens TokenIssuer
}

// NewRegisterUserHandler creates a new register user handler
func NewRegisterUserHandler(repo domain.UserRepository, tokens TokenIssuer) *RegisterUserHandler {
	return &RegisterUserHandler{repo: repo, tokens: tokens}
}

// Handle executes the register user command. New users get the Client role.
func (h *RegisterUserHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (*AuthResult, error) {
	name := strings.TrimSpace(cmd.Name)
	email := normalizeEmail(cmd.Email)

	var fields []apperr.FieldError
	if name == "" {
		fields = append(fields, apperr.FieldError{Field: "name", Message: "is required"})
	}
	if email == "" {
		fields = append(fields, apperr.FieldError{Field: "email", Message: "is required"})
	} else if !strings.Contains(email, "@") {
		fields = append(fields, apperr.FieldError{Field: "email", Message: "must be a valid email address"})
	}
	if len(cmd.Password) < minPasswordLength {
		fields = append(fields, apperr.FieldError{Field: "password", Message: fmt.Sprintf("must be at least %d characters", minPasswordLength)})
	}
	if len(fields) > 0 {
		return nil, apperr.NewValidationError(fields...)
	}

	if existing, _ := h.repo.FindByEmail(ctx, email); existing != nil {
		return nil, apperr.NewConflictError("a user with this email already exists")
	}

	hashedPassword, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		FirstName:    name,
		Email:        email,
		PasswordHash: hashedPassword,
	}
	if err := h.repo.Create(ctx, user, domain.RoleClient); err != nil {
		return nil, err
	}

	return issue(h.tokens, user)
}

func issue(tokens TokenIssuer, user *domain.User) (*AuthResult, error) {
	token, expiresAt, err := tokens.GenerateToken(user.ID, user.RoleNames())
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
