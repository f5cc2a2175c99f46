package repository

import (
	"context"
	"errors"
	"time"

	"github.com/norvik-group/facility-api/internal/domain"
	"gorm.io/gorm"
)

// UserFilters defines filter options for user listing
type UserFilters struct {
	Search   string
	RoleID   *uint
	IsActive *bool
}

var userSortableFields = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"email":       "email",
	"displayName": "display_name",
}

// UserRepository handles user data access operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user in the database
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID retrieves a user with the role preloaded
func (r *UserRepository) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Preload("Role").First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail finds a user by email, returning nil when absent
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Preload("Role").Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Update updates an existing user in the database
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// Delete removes a user
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.User{}, id).Error
}

// TouchLastLogin stamps the user's last login time
func (r *UserRepository) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", id).
		Update("last_login_at", at).Error
}

// List returns a paginated list of users
func (r *UserRepository) List(ctx context.Context, page, perPage int, filters *UserFilters, sort SortConfig) ([]domain.User, Page, error) {
	query := r.db.WithContext(ctx).Model(&domain.User{}).Preload("Role")

	if filters != nil {
		var parts []Filter
		if filters.Search != "" {
			parts = append(parts, Or(
				Like("email", filters.Search),
				Like("display_name", filters.Search),
			))
		}
		if filters.RoleID != nil {
			parts = append(parts, Eq("role_id", *filters.RoleID))
		}
		if filters.IsActive != nil {
			parts = append(parts, Eq("is_active", *filters.IsActive))
		}
		query = ApplyFilter(query, And(parts...))
	}

	query = query.Order(BuildOrderClause(sort, userSortableFields, "display_name"))

	var users []domain.User
	pageInfo, err := Paginate(query, page, perPage, &users)
	return users, pageInfo, err
}
