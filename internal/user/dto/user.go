// Package dto holds the camelCase wire records of the account API.
package dto

import (
	"time"

	"github.com/tair/techstore/internal/user/domain"
)

// UserRecord is a user on the wire; the password hash never leaves the server
type UserRecord struct {
	UserID      uint      `json:"userId" example:"1"`
	FirstName   string    `json:"firstName" example:"Ada"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email" example:"ada@example.com"`
	PhoneNumber *string   `json:"phoneNumber"`
	CreatedAt   time.Time `json:"createdAt"`
	Roles       []string  `json:"roles" example:"Client"`
}

// FromUser converts a domain user to its wire record
func FromUser(u *domain.User) UserRecord {
	return UserRecord{
		UserID:      u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		CreatedAt:   u.CreatedAt,
		Roles:       u.RoleNames(),
	}
}

// FromUsers converts a list, never returning nil
func FromUsers(users []domain.User) []UserRecord {
	out := make([]UserRecord, 0, len(users))
	for i := range users {
		out = append(out, FromUser(&users[i]))
	}
	return out
}

// IsAdmin reports whether the record carries the Admin role
func (r UserRecord) IsAdmin() bool {
	for _, role := range r.Roles {
		if role == domain.RoleAdmin {
			return true
		}
	}
	return false
}

// RegisterRequest is the body of POST /api/auth/register
type RegisterRequest struct {
	Name     string `json:"name" example:"Ada"`
	Email    string `json:"email" example:"ada@example.com"`
	Password string `json:"password" example:"secret1"`
}

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email" example:"ada@example.com"`
	Password string `json:"password" example:"secret1"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Token string     `json:"token"`
	User  UserRecord `json:"user"`
}

// ProfileRequest is the body of PUT /api/auth/me
type ProfileRequest struct {
	FirstName   *string `json:"firstName,omitempty"`
	LastName    *string `json:"lastName,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	Email       *string `json:"email,omitempty"`
}

// Patch converts the request to a domain profile patch
func (r ProfileRequest) Patch() domain.ProfilePatch {
	return domain.ProfilePatch{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		PhoneNumber: r.PhoneNumber,
		Email:       r.Email,
	}
}

// UserResponse wraps a single user
type UserResponse struct {
	User UserRecord `json:"user"`
}

// UsersResponse wraps the admin user listing
type UsersResponse struct {
	Users []UserRecord `json:"users"`
}

// SuccessResponse acknowledges a deletion
type SuccessResponse struct {
	Success bool `json:"success"`
}
