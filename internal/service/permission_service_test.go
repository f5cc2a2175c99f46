package service_test

import (
	"context"
	"testing"

	"github.com/norvik-group/facility-api/internal/domain"
	"github.com/norvik-group/facility-api/internal/repository"
	"github.com/norvik-group/facility-api/internal/service"
	"github.com/norvik-group/facility-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func newPermissionService(db *gorm.DB) *service.PermissionService {
	return service.NewPermissionService(repository.NewPermissionRepository(db), testutil.Logger())
}

func TestPermissionService_Authorize(t *testing.T) {
	db := testutil.SetupTestDB(t)
	perms := newPermissionService(db)

	viewOnly := testutil.CreateRole(t, db, "viewer", domain.RolePermission{
		Module:  domain.ModuleSuppliers,
		CanView: true,
	})

	t.Run("no authenticated user", func(t *testing.T) {
		err := perms.Authorize(context.Background(), domain.ModuleSuppliers, domain.CapabilityView)
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	})

	t.Run("granted capability", func(t *testing.T) {
		ctx := testutil.UserCtx(1, viewOnly.ID)
		err := perms.Authorize(ctx, domain.ModuleSuppliers, domain.CapabilityView)
		assert.NoError(t, err)
	})

	t.Run("cleared flag denies", func(t *testing.T) {
		ctx := testutil.UserCtx(1, viewOnly.ID)
		err := perms.Authorize(ctx, domain.ModuleSuppliers, domain.CapabilityDelete)
		assert.ErrorIs(t, err, service.ErrPermissionDenied)
	})

	t.Run("no permission row denies", func(t *testing.T) {
		ctx := testutil.UserCtx(1, viewOnly.ID)
		err := perms.Authorize(ctx, domain.ModulePayments, domain.CapabilityView)
		assert.ErrorIs(t, err, service.ErrPermissionDenied)
	})

	t.Run("unknown role denies", func(t *testing.T) {
		ctx := testutil.UserCtx(1, 9999)
		err := perms.Authorize(ctx, domain.ModuleSuppliers, domain.CapabilityView)
		assert.ErrorIs(t, err, service.ErrPermissionDenied)
	})

	t.Run("system caller bypasses role resolution", func(t *testing.T) {
		err := perms.Authorize(testutil.ServiceCtx(), domain.ModuleSuppliers, domain.CapabilityDelete)
		assert.NoError(t, err)
	})
}

func TestPermissionService_HasViewAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	perms := newPermissionService(db)

	restricted := testutil.CreateRole(t, db, "restricted", domain.RolePermission{
		Module:  domain.ModuleAccommodations,
		CanView: true,
	})
	manager := testutil.CreateRole(t, db, "manager", testutil.FullAccess(domain.ModuleAccommodations))

	t.Run("no user", func(t *testing.T) {
		assert.False(t, perms.HasViewAll(context.Background(), domain.ModuleAccommodations))
	})

	t.Run("view without view all", func(t *testing.T) {
		ctx := testutil.UserCtx(1, restricted.ID)
		assert.False(t, perms.HasViewAll(ctx, domain.ModuleAccommodations))
	})

	t.Run("view all granted", func(t *testing.T) {
		ctx := testutil.UserCtx(1, manager.ID)
		assert.True(t, perms.HasViewAll(ctx, domain.ModuleAccommodations))
	})

	t.Run("system caller", func(t *testing.T) {
		assert.True(t, perms.HasViewAll(testutil.ServiceCtx(), domain.ModuleAccommodations))
	})
}

func TestPermissionService_Scope(t *testing.T) {
	db := testutil.SetupTestDB(t)
	perms := newPermissionService(db)

	restricted := testutil.CreateRole(t, db, "restricted", domain.RolePermission{
		Module:  domain.ModuleAssets,
		CanView: true,
	})

	ctx := testutil.UserCtx(42, restricted.ID)
	scope := perms.Scope(ctx, domain.ModuleAssets)
	assert.Equal(t, uint(42), scope.UserID)
	assert.False(t, scope.ViewAll)
}
