package service_test

import (
	"testing"

	"github.com/norvik-group/facility-api/internal/domain"
	"github.com/norvik-group/facility-api/internal/repository"
	"github.com/norvik-group/facility-api/internal/service"
	"github.com/norvik-group/facility-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAccommodationService(db *gorm.DB) *service.AccommodationService {
	perms := newPermissionService(db)
	return service.NewAccommodationService(
		repository.NewAccommodationRepository(db),
		repository.NewClientRepository(db),
		perms,
		testutil.Logger(),
	)
}

func TestAccommodationService_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newAccommodationService(db)
	role := testutil.CreateRole(t, db, "ops", testutil.FullAccess(domain.ModuleAccommodations))
	client := testutil.CreateClient(t, db, "Housing Client")
	ctx := testutil.UserCtx(3, role.ID)

	t.Run("audit columns stamped", func(t *testing.T) {
		acc, err := svc.Create(ctx, &domain.CreateAccommodationRequest{
			Name:     "Worker housing A",
			Address:  "Storgata 1",
			ClientID: &client.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, uint(3), acc.CreatedBy)
		assert.Equal(t, uint(3), acc.UpdatedBy)
	})

	t.Run("unknown client rejected", func(t *testing.T) {
		clientID := uint(9999)
		_, err := svc.Create(ctx, &domain.CreateAccommodationRequest{
			Name:     "Worker housing B",
			Address:  "Storgata 2",
			ClientID: &clientID,
		})
		assert.ErrorIs(t, err, service.ErrClientNotFound)
	})
}

func TestAccommodationService_List_OwnershipVisibility(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newAccommodationService(db)

	restricted := testutil.CreateRole(t, db, "restricted", domain.RolePermission{
		Module:    domain.ModuleAccommodations,
		CanView:   true,
		CanCreate: true,
	})
	manager := testutil.CreateRole(t, db, "manager", testutil.FullAccess(domain.ModuleAccommodations))

	aliceCtx := testutil.UserCtx(10, restricted.ID)
	bobCtx := testutil.UserCtx(20, restricted.ID)
	managerCtx := testutil.UserCtx(30, manager.ID)

	_, err := svc.Create(aliceCtx, &domain.CreateAccommodationRequest{Name: "Alice's unit", Address: "Gate 1"})
	require.NoError(t, err)
	_, err = svc.Create(bobCtx, &domain.CreateAccommodationRequest{Name: "Bob's unit", Address: "Gate 2"})
	require.NoError(t, err)

	t.Run("restricted user sees only own records", func(t *testing.T) {
		rows, page, err := svc.List(aliceCtx, 1, 10, nil, repository.SortConfig{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
		require.Len(t, rows, 1)
		assert.Equal(t, "Alice's unit", rows[0].Name)
	})

	t.Run("view all sees everything", func(t *testing.T) {
		rows, page, err := svc.List(managerCtx, 1, 10, nil, repository.SortConfig{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)
		assert.Len(t, rows, 2)
	})

	t.Run("editing a record makes it visible to the editor", func(t *testing.T) {
		// The manager edits Alice's record; the updated_by column now points
		// at the manager, so a restricted manager-owned listing would include
		// it. Alice still sees it through created_by.
		rows, _, err := svc.List(aliceCtx, 1, 10, nil, repository.SortConfig{})
		require.NoError(t, err)
		require.Len(t, rows, 1)

		name := "Alice's renovated unit"
		_, err = svc.Update(managerCtx, rows[0].ID, &domain.UpdateAccommodationRequest{Name: &name})
		require.NoError(t, err)

		rows, _, err = svc.List(aliceCtx, 1, 10, nil, repository.SortConfig{})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, name, rows[0].Name)
	})
}

func TestAccommodationService_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newAccommodationService(db)
	role := testutil.CreateRole(t, db, "ops", testutil.FullAccess(domain.ModuleAccommodations))
	ctx := testutil.UserCtx(1, role.ID)

	acc, err := svc.Create(ctx, &domain.CreateAccommodationRequest{Name: "Short-lived", Address: "Gate 3"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, acc.ID))
	_, err = svc.Get(ctx, acc.ID)
	assert.ErrorIs(t, err, service.ErrAccommodationNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, acc.ID), service.ErrAccommodationNotFound)
}
