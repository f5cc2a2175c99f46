package repository

import (
	"context"
	"errors"

	"github.com/norvik-group/facility-api/internal/domain"
	"gorm.io/gorm"
)

// PermissionRepository handles role and permission data access operations
type PermissionRepository struct {
	db *gorm.DB
}

// NewPermissionRepository creates a new permission repository instance
func NewPermissionRepository(db *gorm.DB) *PermissionRepository {
	return &PermissionRepository{db: db}
}

// CreateRole creates a role with its permission rows in one transaction
func (r *PermissionRepository) CreateRole(ctx context.Context, role *domain.Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}

// GetRole retrieves a role with its permissions preloaded
func (r *PermissionRepository) GetRole(ctx context.Context, id uint) (*domain.Role, error) {
	var role domain.Role
	err := r.db.WithContext(ctx).Preload("Permissions").First(&role, id).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// GetRoleByName finds a role by name, returning nil when absent
func (r *PermissionRepository) GetRoleByName(ctx context.Context, name string) (*domain.Role, error) {
	var role domain.Role
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

// UpdateRole saves role fields without touching the permission rows
func (r *PermissionRepository) UpdateRole(ctx context.Context, role *domain.Role) error {
	return r.db.WithContext(ctx).Omit("Permissions").Save(role).Error
}

// ReplacePermissions swaps a role's permission rows atomically
func (r *PermissionRepository) ReplacePermissions(ctx context.Context, roleID uint, perms []domain.RolePermission) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", roleID).Delete(&domain.RolePermission{}).Error; err != nil {
			return err
		}
		for i := range perms {
			perms[i].ID = 0
			perms[i].RoleID = roleID
		}
		if len(perms) == 0 {
			return nil
		}
		return tx.Create(&perms).Error
	})
}

// DeleteRole removes a role; permission rows cascade
func (r *PermissionRepository) DeleteRole(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Select("Permissions").Delete(&domain.Role{BaseModel: domain.BaseModel{ID: id}}).Error
}

// ListRoles returns all roles with permissions preloaded
func (r *PermissionRepository) ListRoles(ctx context.Context) ([]domain.Role, error) {
	var roles []domain.Role
	err := r.db.WithContext(ctx).Preload("Permissions").Order("name ASC").Find(&roles).Error
	return roles, err
}

// GetPermission loads the permission row for a role and module, returning nil
// when no row exists.
func (r *PermissionRepository) GetPermission(ctx context.Context, roleID uint, module domain.Module) (*domain.RolePermission, error) {
	var perm domain.RolePermission
	err := r.db.WithContext(ctx).
		Where("role_id = ? AND module = ?", roleID, module).
		First(&perm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &perm, nil
}

// CountUsersWithRole returns how many users reference the role
func (r *PermissionRepository) CountUsersWithRole(ctx context.Context, roleID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("role_id = ?", roleID).
		Count(&count).Error
	return count, err
}
