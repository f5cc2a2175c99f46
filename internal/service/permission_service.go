package service

import (
	"context"

	"github.com/norvik-group/facility-api/internal/auth"
	"github.com/norvik-group/facility-api/internal/domain"
	"github.com/norvik-group/facility-api/internal/repository"
	"go.uber.org/zap"
)

// PermissionService resolves role permissions per module. Resolution fails
// closed: no authenticated user, no permission row, or a cleared flag all
// deny the action.
type PermissionService struct {
	perms  *repository.PermissionRepository
	logger *zap.Logger
}

// NewPermissionService creates a new permission service instance
func NewPermissionService(perms *repository.PermissionRepository, logger *zap.Logger) *PermissionService {
	return &PermissionService{perms: perms, logger: logger}
}

// Authorize checks that the caller's role grants the capability on the
// module. Returns ErrUnauthorized without a caller, ErrPermissionDenied on
// any missing or cleared grant.
func (s *PermissionService) Authorize(ctx context.Context, module domain.Module, capability domain.Capability) error {
	uc := auth.GetUserContext(ctx)
	if uc == nil {
		return ErrUnauthorized
	}
	if uc.IsService {
		return nil
	}

	perm, err := s.perms.GetPermission(ctx, uc.RoleID, module)
	if err != nil {
		s.logger.Error("permission lookup failed",
			zap.Uint("roleId", uc.RoleID),
			zap.String("module", string(module)),
			zap.Error(err))
		return ErrPermissionDenied
	}
	if perm == nil || !perm.Allows(capability) {
		s.logger.Debug("permission denied",
			zap.Uint("userId", uc.UserID),
			zap.String("module", string(module)),
			zap.String("capability", string(capability)))
		return ErrPermissionDenied
	}
	return nil
}

// HasViewAll reports whether the caller may see records beyond their own.
// Lookup failures count as no.
func (s *PermissionService) HasViewAll(ctx context.Context, module domain.Module) bool {
	uc := auth.GetUserContext(ctx)
	if uc == nil {
		return false
	}
	if uc.IsService {
		return true
	}
	perm, err := s.perms.GetPermission(ctx, uc.RoleID, module)
	if err != nil || perm == nil {
		return false
	}
	return perm.CanViewAll
}

// Scope builds the ownership scope for list queries on a module.
func (s *PermissionService) Scope(ctx context.Context, module domain.Module) repository.OwnershipScope {
	return repository.OwnershipScope{
		UserID:  auth.UserID(ctx),
		ViewAll: s.HasViewAll(ctx, module),
	}
}
