package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/norvik-group/facility-api/internal/domain"
	"github.com/norvik-group/facility-api/internal/repository"
	"github.com/norvik-group/facility-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createWorkOrder(t *testing.T, db *gorm.DB, clientID uint, status domain.WorkOrderStatus, slaDueAt time.Time) *domain.WorkOrder {
	t.Helper()
	wo := &domain.WorkOrder{
		OwnedModel: domain.OwnedModel{CreatedBy: 1, UpdatedBy: 1},
		Title:      "Broken radiator",
		ClientID:   clientID,
		Priority:   domain.PriorityMedium,
		Status:     status,
		SLADueAt:   slaDueAt,
	}
	require.NoError(t, db.Create(wo).Error)
	return wo
}

func TestWorkOrderRepository_GetByID_PreloadsLineItems(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewWorkOrderRepository(db)
	client := testutil.CreateClient(t, db, "Housing Client")

	wo := createWorkOrder(t, db, client.ID, domain.WorkOrderStatusRequested, time.Now().Add(24*time.Hour))

	require.NoError(t, repo.AddService(context.Background(), &domain.WorkOrderService{
		WorkOrderID:     wo.ID,
		ServiceCategory: "plumbing",
		Price:           1500,
	}))
	require.NoError(t, repo.AddPart(context.Background(), &domain.WorkOrderPart{
		WorkOrderID: wo.ID,
		Name:        "Radiator valve",
		Quantity:    2,
		UnitPrice:   250,
		TotalPrice:  500,
	}))
	require.NoError(t, repo.AddAddon(context.Background(), &domain.WorkOrderAddon{
		WorkOrderID: wo.ID,
		Name:        "Disposal",
		Price:       100,
	}))

	found, err := repo.GetByID(context.Background(), wo.ID)
	require.NoError(t, err)
	assert.Equal(t, "Broken radiator", found.Title)
	assert.Len(t, found.Services, 1)
	assert.Len(t, found.Parts, 1)
	assert.Len(t, found.Addons, 1)
	require.NotNil(t, found.Client)
	assert.Equal(t, "Housing Client", found.Client.Name)
}

func TestWorkOrderRepository_Delete_RemovesLineItems(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewWorkOrderRepository(db)
	client := testutil.CreateClient(t, db, "Housing Client")

	wo := createWorkOrder(t, db, client.ID, domain.WorkOrderStatusRequested, time.Now().Add(24*time.Hour))
	require.NoError(t, repo.AddService(context.Background(), &domain.WorkOrderService{
		WorkOrderID:     wo.ID,
		ServiceCategory: "plumbing",
		Price:           1500,
	}))

	require.NoError(t, repo.Delete(context.Background(), wo.ID))

	_, err := repo.GetByID(context.Background(), wo.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var count int64
	require.NoError(t, db.Model(&domain.WorkOrderService{}).Where("work_order_id = ?", wo.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestWorkOrderRepository_MarkSLABreaches(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewWorkOrderRepository(db)
	client := testutil.CreateClient(t, db, "Housing Client")

	now := time.Now().UTC()
	pastDue := createWorkOrder(t, db, client.ID, domain.WorkOrderStatusInProgress, now.Add(-time.Hour))
	notDue := createWorkOrder(t, db, client.ID, domain.WorkOrderStatusRequested, now.Add(time.Hour))
	completed := createWorkOrder(t, db, client.ID, domain.WorkOrderStatusCompleted, now.Add(-time.Hour))
	rejected := createWorkOrder(t, db, client.ID, domain.WorkOrderStatusRejected, now.Add(-time.Hour))

	changed, err := repo.MarkSLABreaches(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)

	for _, tc := range []struct {
		id       uint
		breached bool
	}{
		{pastDue.ID, true},
		{notDue.ID, false},
		{completed.ID, false},
		{rejected.ID, false},
	} {
		found, err := repo.GetByID(context.Background(), tc.id)
		require.NoError(t, err)
		assert.Equal(t, tc.breached, found.SLABreached, "work order %d", tc.id)
	}

	// A second sweep finds nothing new.
	changed, err = repo.MarkSLABreaches(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(0), changed)
}

func TestWorkOrderRepository_List_FiltersAndScope(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewWorkOrderRepository(db)
	client := testutil.CreateClient(t, db, "Housing Client")
	other := testutil.CreateClient(t, db, "Other Client")

	due := time.Now().Add(24 * time.Hour)
	mine := createWorkOrder(t, db, client.ID, domain.WorkOrderStatusRequested, due)
	createWorkOrder(t, db, other.ID, domain.WorkOrderStatusCompleted, due)

	foreign := &domain.WorkOrder{
		OwnedModel: domain.OwnedModel{CreatedBy: 99, UpdatedBy: 99},
		Title:      "Someone else's ticket",
		ClientID:   client.ID,
		Priority:   domain.PriorityLow,
		Status:     domain.WorkOrderStatusRequested,
		SLADueAt:   due,
	}
	require.NoError(t, db.Create(foreign).Error)

	t.Run("filter by status", func(t *testing.T) {
		status := domain.WorkOrderStatusRequested
		orders, page, err := repo.List(context.Background(), 1, 10,
			&repository.WorkOrderFilters{Status: &status},
			repository.SortConfig{}, repository.OwnershipScope{ViewAll: true})
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)
		assert.Len(t, orders, 2)
	})

	t.Run("filter by client", func(t *testing.T) {
		orders, page, err := repo.List(context.Background(), 1, 10,
			&repository.WorkOrderFilters{ClientID: &other.ID},
			repository.SortConfig{}, repository.OwnershipScope{ViewAll: true})
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
		assert.Equal(t, other.ID, orders[0].ClientID)
	})

	t.Run("ownership scope hides foreign rows", func(t *testing.T) {
		orders, page, err := repo.List(context.Background(), 1, 10, nil,
			repository.SortConfig{}, repository.OwnershipScope{UserID: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)
		for _, wo := range orders {
			assert.NotEqual(t, foreign.ID, wo.ID)
		}
		_ = mine
	})
}
