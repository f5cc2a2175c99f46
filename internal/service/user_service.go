package service

import (
	"context"
	"errors"

	"github.com/norvik-group/facility-api/internal/domain"
	"github.com/norvik-group/facility-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserService manages users, roles and their permission sets
type UserService struct {
	users  *repository.UserRepository
	roles  *repository.PermissionRepository
	perms  *PermissionService
	logger *zap.Logger
}

// NewUserService creates a new user service instance
func NewUserService(
	users *repository.UserRepository,
	roles *repository.PermissionRepository,
	perms *PermissionService,
	logger *zap.Logger,
) *UserService {
	return &UserService{users: users, roles: roles, perms: perms, logger: logger}
}

// CreateUser registers a new user under an existing role
func (s *UserService) CreateUser(ctx context.Context, req *domain.CreateUserRequest) (*domain.User, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleUsers, domain.CapabilityCreate); err != nil {
		return nil, err
	}

	existing, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}
	if _, err := s.roles.GetRole(ctx, req.RoleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}

	user := &domain.User{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		RoleID:      req.RoleID,
		Phone:       req.Phone,
		IsActive:    true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		s.logger.Error("failed to create user", zap.Error(err))
		return nil, err
	}

	s.logger.Info("user created", zap.Uint("id", user.ID), zap.String("email", user.Email))
	return user, nil
}

// GetUser retrieves a user with their role
func (s *UserService) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleUsers, domain.CapabilityView); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ListUsers returns a paginated user list
func (s *UserService) ListUsers(ctx context.Context, page, perPage int, filters *repository.UserFilters, sort repository.SortConfig) ([]domain.User, repository.Page, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleUsers, domain.CapabilityView); err != nil {
		return nil, repository.Page{}, err
	}
	return s.users.List(ctx, page, perPage, filters, sort)
}

// UpdateUser applies a partial update to a user
func (s *UserService) UpdateUser(ctx context.Context, id uint, req *domain.UpdateUserRequest) (*domain.User, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleUsers, domain.CapabilityEdit); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.Email != nil && *req.Email != user.Email {
		existing, err := s.users.GetByEmail(ctx, *req.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, ErrDuplicateEmail
		}
		user.Email = *req.Email
	}
	if req.RoleID != nil {
		if _, err := s.roles.GetRole(ctx, *req.RoleID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrRoleNotFound
			}
			return nil, err
		}
		user.RoleID = *req.RoleID
	}
	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	user.Role = nil
	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Error("failed to update user", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return s.users.GetByID(ctx, id)
}

// DeleteUser removes a user
func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	if err := s.perms.Authorize(ctx, domain.ModuleUsers, domain.CapabilityDelete); err != nil {
		return err
	}

	if _, err := s.users.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", zap.Uint("id", id))
	return nil
}

// CreateRole creates a role with its permission rows
func (s *UserService) CreateRole(ctx context.Context, req *domain.CreateRoleRequest) (*domain.Role, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleUsers, domain.CapabilityCreate); err != nil {
		return nil, err
	}

	role := &domain.Role{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
		Permissions: mapPermissionRequests(req.Permissions),
	}
	if err := s.roles.CreateRole(ctx, role); err != nil {
		s.logger.Error("failed to create role", zap.Error(err))
		return nil, err
	}

	s.logger.Info("role created", zap.Uint("id", role.ID), zap.String("name", role.Name))
	return role, nil
}

// GetRole retrieves a role with its permissions
func (s *UserService) GetRole(ctx context.Context, id uint) (*domain.Role, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleUsers, domain.CapabilityView); err != nil {
		return nil, err
	}

	role, err := s.roles.GetRole(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	return role, nil
}

// ListRoles returns all roles
func (s *UserService) ListRoles(ctx context.Context) ([]domain.Role, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleUsers, domain.CapabilityView); err != nil {
		return nil, err
	}
	return s.roles.ListRoles(ctx)
}

// UpdateRole applies a partial update to a role. When permissions are given
// the whole permission set is replaced.
func (s *UserService) UpdateRole(ctx context.Context, id uint, req *domain.UpdateRoleRequest) (*domain.Role, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleUsers, domain.CapabilityEdit); err != nil {
		return nil, err
	}

	role, err := s.roles.GetRole(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		role.Name = *req.Name
	}
	if req.Description != nil {
		role.Description = *req.Description
	}
	if req.IsActive != nil {
		role.IsActive = *req.IsActive
	}

	role.Permissions = nil
	if err := s.roles.UpdateRole(ctx, role); err != nil {
		s.logger.Error("failed to update role", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	if req.Permissions != nil {
		perms := mapPermissionRequests(*req.Permissions)
		if err := s.roles.ReplacePermissions(ctx, id, perms); err != nil {
			s.logger.Error("failed to replace role permissions", zap.Uint("id", id), zap.Error(err))
			return nil, err
		}
	}

	return s.roles.GetRole(ctx, id)
}

// DeleteRole removes a role that no user references
func (s *UserService) DeleteRole(ctx context.Context, id uint) error {
	if err := s.perms.Authorize(ctx, domain.ModuleUsers, domain.CapabilityDelete); err != nil {
		return err
	}

	if _, err := s.roles.GetRole(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoleNotFound
		}
		return err
	}

	inUse, err := s.roles.CountUsersWithRole(ctx, id)
	if err != nil {
		return err
	}
	if inUse > 0 {
		return ErrRoleInUse
	}

	if err := s.roles.DeleteRole(ctx, id); err != nil {
		return err
	}
	s.logger.Info("role deleted", zap.Uint("id", id))
	return nil
}

func mapPermissionRequests(reqs []domain.RolePermissionRequest) []domain.RolePermission {
	perms := make([]domain.RolePermission, 0, len(reqs))
	for _, p := range reqs {
		perms = append(perms, domain.RolePermission{
			Module:     domain.Module(p.Module),
			CanView:    p.CanView,
			CanCreate:  p.CanCreate,
			CanEdit:    p.CanEdit,
			CanDelete:  p.CanDelete,
			CanViewAll: p.CanViewAll,
		})
	}
	return perms
}
