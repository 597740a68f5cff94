package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/tair/techstore/internal/apperr"
	"github.com/tair/techstore/internal/user/domain"
)

// GormUserRepository implements UserRepository interface using GORM
type GormUserRepository struct {
	db *gorm.DB
}

var _ domain.UserRepository = (*GormUserRepository)(nil)

// NewGormUserRepository creates a new GORM user repository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// AutoMigrate runs database migrations and creates the built-in roles
func (r *GormUserRepository) AutoMigrate() error {
	if err := r.db.AutoMigrate(&domain.Role{}, &domain.User{}); err != nil {
		return err
	}
	for _, name := range []string{domain.RoleClient, domain.RoleAdmin} {
		if _, err := r.role(r.db, name); err != nil {
			return err
		}
	}
	return nil
}

// Create inserts a new user with the named roles
func (r *GormUserRepository) Create(ctx context.Context, user *domain.User, roles ...string) error {
	db := r.db.WithContext(ctx)
	user.Roles = user.Roles[:0]
	for _, name := range roles {
		role, err := r.role(db, name)
		if err != nil {
			return err
		}
		user.Roles = append(user.Roles, *role)
	}
	if err := db.Create(user).Error; err != nil {
		return translateError("create user", err)
	}
	return nil
}

// FindByID retrieves a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	return r.findOne(ctx, id, "user_id = ?", id)
}

// FindByEmail retrieves a user by email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, 0, "email = ?", email)
}

// FindByPhone retrieves a user by phone number
func (r *GormUserRepository) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return r.findOne(ctx, 0, "phone_number = ?", phone)
}

func (r *GormUserRepository) findOne(ctx context.Context, id uint, cond string, arg interface{}) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Preload("Roles").Where(cond, arg).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NewNotFoundError("user", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// List retrieves all users, newest first
func (r *GormUserRepository) List(ctx context.Context) ([]domain.User, error) {
	users := make([]domain.User, 0)
	err := r.db.WithContext(ctx).Preload("Roles").Order("created_at DESC").Order("user_id DESC").Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find users: %w", err)
	}
	return users, nil
}

// Update saves the profile columns of a user
func (r *GormUserRepository) Update(ctx context.Context, user *domain.User) error {
	result := r.db.WithContext(ctx).Model(user).
		Select("FirstName", "LastName", "Email", "PhoneNumber", "PasswordHash", "UpdatedAt").
		Updates(user)
	if result.Error != nil {
		return translateError("update user", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NewNotFoundError("user", user.ID)
	}
	return nil
}

// AddRole grants a role; granting a held role is a no-op
func (r *GormUserRepository) AddRole(ctx context.Context, userID uint, name string) error {
	db := r.db.WithContext(ctx)
	user, err := r.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.HasRole(name) {
		return nil
	}
	role, err := r.role(db, name)
	if err != nil {
		return err
	}
	if err := db.Model(user).Association("Roles").Append(role); err != nil {
		return fmt.Errorf("failed to add role: %w", err)
	}
	return nil
}

// RemoveRole revokes a role; revoking a missing role is a no-op
func (r *GormUserRepository) RemoveRole(ctx context.Context, userID uint, name string) error {
	db := r.db.WithContext(ctx)
	user, err := r.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	for i := range user.Roles {
		if user.Roles[i].Name == name {
			if err := db.Model(user).Association("Roles").Delete(&user.Roles[i]); err != nil {
				return fmt.Errorf("failed to remove role: %w", err)
			}
			return nil
		}
	}
	return nil
}

// Delete removes a user and its role assignments
func (r *GormUserRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Select("Roles").Delete(&domain.User{ID: id})
	if result.Error != nil {
		return translateError("delete user", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NewNotFoundError("user", id)
	}
	return nil
}

// Count returns the total number of users
func (r *GormUserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// CountByRole returns the number of users holding the role
func (r *GormUserRepository) CountByRole(ctx context.Context, name string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("user_roles").
		Joins("JOIN roles ON roles.role_id = user_roles.role_id").
		Where("roles.role_name = ?", name).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count users by role: %w", err)
	}
	return count, nil
}

// role returns the named role, creating it on first use
func (r *GormUserRepository) role(db *gorm.DB, name string) (*domain.Role, error) {
	role := domain.Role{Name: name}
	if err := db.Where("role_name = ?", name).FirstOrCreate(&role).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve role %s: %w", name, err)
	}
	return &role, nil
}

func translateError(op string, err error) error {
	var (
		pqErr *pq.Error
		myErr *mysql.MySQLError
	)
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey),
		errors.As(err, &pqErr) && pqErr.Code == "23505",
		errors.As(err, &myErr) && myErr.Number == 1062,
		strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return apperr.NewConflictError("email or phone number is already registered")
	case errors.Is(err, gorm.ErrForeignKeyViolated),
		errors.As(err, &pqErr) && pqErr.Code == "23503",
		errors.As(err, &myErr) && myErr.Number == 1451,
		strings.Contains(err.Error(), "FOREIGN KEY constraint failed"):
		return apperr.NewConflictError("user has related data and cannot be deleted")
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}
