package service_test

import (
	"fmt"
	"testing"

	"github.com/norvik-group/facility-api/internal/domain"
	"github.com/norvik-group/facility-api/internal/repository"
	"github.com/norvik-group/facility-api/internal/service"
	"github.com/norvik-group/facility-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSupplierService(db *gorm.DB) *service.SupplierService {
	perms := newPermissionService(db)
	// No ledger connection: balance lookups report the ledger as unavailable.
	return service.NewSupplierService(repository.NewSupplierRepository(db), nil, perms, testutil.Logger())
}

func createSupplierType(t *testing.T, db *gorm.DB, name string) *domain.SupplierType {
	t.Helper()
	st := &domain.SupplierType{Name: name}
	require.NoError(t, db.Create(st).Error)
	return st
}

func TestSupplierService_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newSupplierService(db)
	role := testutil.CreateRole(t, db, "ops", testutil.FullAccess(domain.ModuleSuppliers))
	ctx := testutil.UserCtx(1, role.ID)

	plumbing := createSupplierType(t, db, "plumbing")
	electrical := createSupplierType(t, db, "electrical")

	t.Run("with type links", func(t *testing.T) {
		supplier, err := svc.Create(ctx, &domain.CreateSupplierRequest{
			Name:      "Oslo Plumbing AS",
			VATNumber: "NO999888777",
			TypeIDs:   []uint{plumbing.ID, electrical.ID},
		})
		require.NoError(t, err)
		assert.Len(t, supplier.Types, 2)
		assert.Equal(t, uint(1), supplier.CreatedBy)
	})

	t.Run("duplicate VAT number", func(t *testing.T) {
		_, err := svc.Create(ctx, &domain.CreateSupplierRequest{
			Name:      "Copycat AS",
			VATNumber: "NO999888777",
		})
		assert.ErrorIs(t, err, service.ErrDuplicateVATNumber)
	})

	t.Run("unknown type id", func(t *testing.T) {
		_, err := svc.Create(ctx, &domain.CreateSupplierRequest{
			Name:      "Typo AS",
			VATNumber: "NO111222333",
			TypeIDs:   []uint{plumbing.ID, 9999},
		})
		assert.ErrorIs(t, err, service.ErrSupplierTypeNotFound)
	})
}

func TestSupplierService_Update_ReplacesTypes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newSupplierService(db)
	role := testutil.CreateRole(t, db, "ops", testutil.FullAccess(domain.ModuleSuppliers))
	ctx := testutil.UserCtx(1, role.ID)

	plumbing := createSupplierType(t, db, "plumbing")
	electrical := createSupplierType(t, db, "electrical")
	cleaning := createSupplierType(t, db, "cleaning")

	supplier, err := svc.Create(ctx, &domain.CreateSupplierRequest{
		Name:      "Oslo Plumbing AS",
		VATNumber: fmt.Sprintf("NO%09d", testutil.NextSeq()),
		TypeIDs:   []uint{plumbing.ID, electrical.ID},
	})
	require.NoError(t, err)

	newTypes := []uint{cleaning.ID}
	updated, err := svc.Update(ctx, supplier.ID, &domain.UpdateSupplierRequest{TypeIDs: &newTypes})
	require.NoError(t, err)
	require.Len(t, updated.Types, 1)
	assert.Equal(t, "cleaning", updated.Types[0].Name)
}

func TestSupplierService_Get_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newSupplierService(db)
	role := testutil.CreateRole(t, db, "ops", testutil.FullAccess(domain.ModuleSuppliers))
	ctx := testutil.UserCtx(1, role.ID)

	_, err := svc.Get(ctx, 9999)
	assert.ErrorIs(t, err, service.ErrSupplierNotFound)
}

func TestSupplierService_LedgerBalance_Disabled(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newSupplierService(db)
	role := testutil.CreateRole(t, db, "ops", testutil.FullAccess(domain.ModuleSuppliers))
	ctx := testutil.UserCtx(1, role.ID)

	supplier, err := svc.Create(ctx, &domain.CreateSupplierRequest{
		Name:      "Oslo Plumbing AS",
		VATNumber: fmt.Sprintf("NO%09d", testutil.NextSeq()),
	})
	require.NoError(t, err)

	_, err = svc.LedgerBalance(ctx, supplier.ID)
	assert.ErrorIs(t, err, service.ErrLedgerUnavailable)
}

func TestSupplierService_Types(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newSupplierService(db)
	role := testutil.CreateRole(t, db, "ops", testutil.FullAccess(domain.ModuleSuppliers))
	ctx := testutil.UserCtx(1, role.ID)

	created, err := svc.CreateType(ctx, &domain.CreateSupplierTypeRequest{Name: "hvac"})
	require.NoError(t, err)

	types, err := svc.ListTypes(ctx)
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.Equal(t, "hvac", types[0].Name)

	require.NoError(t, svc.DeleteType(ctx, created.ID))
	types, err = svc.ListTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, types, 0)
}
