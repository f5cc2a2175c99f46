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

func newProfessionService(db *gorm.DB) *service.ProfessionService {
	perms := newPermissionService(db)
	return service.NewProfessionService(repository.NewProfessionRepository(db), perms, testutil.Logger())
}

func TestProfessionService_Upsert(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newProfessionService(db)
	role := testutil.CreateRole(t, db, "ops", testutil.FullAccess(domain.ModuleProfessions))
	ctx := testutil.UserCtx(1, role.ID)

	created, err := svc.Upsert(ctx, &domain.UpsertProfessionRequest{
		Name:       "plumber",
		HourlyRate: 850,
	})
	require.NoError(t, err)
	assert.Equal(t, float64(850), created.HourlyRate)

	// Same name updates in place instead of creating a second row.
	updated, err := svc.Upsert(ctx, &domain.UpsertProfessionRequest{
		Name:        "plumber",
		Description: "Pipes and fittings",
		HourlyRate:  900,
	})
	require.NoError(t, err)
	assert.Equal(t, float64(900), updated.HourlyRate)
	assert.Equal(t, "Pipes and fittings", updated.Description)

	professions, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, professions, 1)
}

func TestProfessionService_GetAndDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newProfessionService(db)
	role := testutil.CreateRole(t, db, "ops", testutil.FullAccess(domain.ModuleProfessions))
	ctx := testutil.UserCtx(1, role.ID)

	_, err := svc.Upsert(ctx, &domain.UpsertProfessionRequest{Name: "electrician", HourlyRate: 950})
	require.NoError(t, err)

	found, err := svc.Get(ctx, "electrician")
	require.NoError(t, err)
	assert.Equal(t, float64(950), found.HourlyRate)

	_, err = svc.Get(ctx, "carpenter")
	assert.ErrorIs(t, err, service.ErrProfessionNotFound)

	require.NoError(t, svc.Delete(ctx, "electrician"))
	assert.ErrorIs(t, svc.Delete(ctx, "electrician"), service.ErrProfessionNotFound)
}
