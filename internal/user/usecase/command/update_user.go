package command

import (
	"context"
	"strings"

	"github.com/tair/techstore/internal/apperr"
	"github.com/tair/techstore/internal/user/domain"
)

// UpdateProfileCommand represents the command to update the caller's profile
type UpdateProfileCommand struct {
	UserID uint
	Patch  domain.ProfilePatch
}

// UpdateProfileHandler handles profile update command
type UpdateProfileHandler struct {
	repo domain.UserRepository
}

// NewUpdateProfileHandler creates a new update profile handler
func NewUpdateProfileHandler(repo domain.UserRepository) *UpdateProfileHandler {
	return &UpdateProfileHandler{repo: repo}
}

// Handle executes the update profile command. Empty fields are ignored;
// at least one field must carry a value.
func (h *UpdateProfileHandler) Handle(ctx context.Context, cmd UpdateProfileCommand) (*domain.User, error) {
	firstName := trimmed(cmd.Patch.FirstName)
	lastName := trimmed(cmd.Patch.LastName)
	phone := trimmed(cmd.Patch.PhoneNumber)
	email := normalizeEmail(trimmed(cmd.Patch.Email))

	if firstName == "" && lastName == "" && phone == "" && email == "" {
		return nil, apperr.NewFieldError("profile", "no fields to update")
	}
	if email != "" && !strings.Contains(email, "@") {
		return nil, apperr.NewFieldError("email", "must be a valid email address")
	}

	user, err := h.repo.FindByID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	if email != "" {
		if other, _ := h.repo.FindByEmail(ctx, email); other != nil && other.ID != user.ID {
			return nil, apperr.NewConflictError("a user with this email already exists")
		}
		user.Email = email
	}
	if phone != "" {
		if other, _ := h.repo.FindByPhone(ctx, phone); other != nil && other.ID != user.ID {
			return nil, apperr.NewConflictError("a user with this phone number already exists")
		}
		user.PhoneNumber = &phone
	}
	if firstName != "" {
		user.FirstName = firstName
	}
	if lastName != "" {
		user.LastName = lastName
	}

	if err := h.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
