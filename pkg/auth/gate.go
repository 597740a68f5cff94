package auth

import (
	"context"
	"errors"
)

// Role names
const (
	RoleAdmin  = "Admin"
	RoleClient = "Client"
)

var (
	// ErrMissingToken is returned when no bearer credential was supplied
	ErrMissingToken = errors.New("authorization token required")
	// ErrInvalidToken is returned for malformed, forged or expired credentials
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrForbidden is returned when the caller lacks the required role
	ErrForbidden = errors.New("insufficient permissions")
)

// Principal is the authenticated caller
type Principal struct {
	UserID uint
	Roles  []string
}

// HasRole reports whether the principal holds the role
func (p *Principal) HasRole(role string) bool {
	if p == nil {
		return false
	}
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Gate resolves a bearer credential into a principal
type Gate interface {
	Authenticate(ctx context.Context, token string) (*Principal, error)
}

// GateFunc adapts a function to the Gate interface
type GateFunc func(ctx context.Context, token string) (*Principal, error)

// Authenticate calls f(ctx, token)
func (f GateFunc) Authenticate(ctx context.Context, token string) (*Principal, error) {
	return f(ctx, token)
}

// StaticGate authenticates every call as the same principal.
// It backs offline tooling where the operator is trusted locally.
type StaticGate struct {
	Principal *Principal
}

// Authenticate returns the configured principal
func (g StaticGate) Authenticate(ctx context.Context, token string) (*Principal, error) {
	if g.Principal == nil {
		return nil, ErrMissingToken
	}
	p := *g.Principal
	p.Roles = append([]string(nil), g.Principal.Roles...)
	return &p, nil
}

// RequireRole authenticates the token and checks the role
func RequireRole(ctx context.Context, gate Gate, token, role string) (*Principal, error) {
	principal, err := gate.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	if !principal.HasRole(role) {
		return principal, ErrForbidden
	}
	return principal, nil
}
