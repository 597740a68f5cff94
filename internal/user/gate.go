package user

import (
	"context"

	"github.com/tair/techstore/internal/apperr"
	"github.com/tair/techstore/internal/user/domain"
	"github.com/tair/techstore/pkg/auth"
)

// DirectoryGate authenticates bearer tokens and reloads the caller's roles
// from the user directory, so revoked roles stop working before the token expires.
type DirectoryGate struct {
	tokens *auth.TokenManager
	repo   domain.UserRepository
}

var _ auth.Gate = (*DirectoryGate)(nil)

// NewDirectoryGate creates a gate over the token manager and user repository
func NewDirectoryGate(tokens *auth.TokenManager, repo domain.UserRepository) *DirectoryGate {
	return &DirectoryGate{tokens: tokens, repo: repo}
}

// Authenticate validates the token and returns the stored user's current roles
func (g *DirectoryGate) Authenticate(ctx context.Context, token string) (*auth.Principal, error) {
	claims, err := g.tokens.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := g.repo.FindByID(ctx, claims.UserID)
	if apperr.IsNotFoundError(err) {
		return nil, auth.ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}

	return &auth.Principal{UserID: user.ID, Roles: user.RoleNames()}, nil
}
