package domain

import (
	"context"
	"time"
)

// Role names
const (
	RoleClient = "Client"
	RoleAdmin  = "Admin"
)

// Role is a named permission set
type Role struct {
	ID   uint   `json:"role_id" gorm:"column:role_id;primaryKey"`
	Name string `json:"role_name" gorm:"column:role_name;size:50;uniqueIndex;not null"`
}

// TableName specifies the table name
func (Role) TableName() string {
	return "roles"
}

// User represents the user entity (domain model)
type User struct {
	ID           uint      `json:"user_id" gorm:"column:user_id;primaryKey"`
	FirstName    string    `json:"first_name" gorm:"size:100"`
	LastName     string    `json:"last_name" gorm:"size:100"`
	Email        string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PhoneNumber  *string   `json:"phone_number" gorm:"size:32;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Roles        []Role    `json:"roles" gorm:"many2many:user_roles;joinForeignKey:UserID;joinReferences:RoleID"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

// RoleNames returns the names of the user's roles
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// HasRole checks if user holds the role
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// IsAdmin checks if user has admin role
func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

// ProfilePatch carries profile fields to change; nil or empty fields are kept
type ProfilePatch struct {
	FirstName   *string
	LastName    *string
	PhoneNumber *string
	Email       *string
}

// UserRepository defines the contract for user data access
type UserRepository interface {
	Create(ctx context.Context, user *User, roles ...string) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByPhone(ctx context.Context, phone string) (*User, error)
	// List returns every user, newest first
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, user *User) error
	AddRole(ctx context.Context, userID uint, role string) error
	RemoveRole(ctx context.Context, userID uint, role string) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context, role string) (int64, error)
}
