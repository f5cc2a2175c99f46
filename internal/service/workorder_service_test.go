package service_test

import (
	"testing"
	"time"

	"github.com/norvik-group/facility-api/internal/domain"
	"github.com/norvik-group/facility-api/internal/repository"
	"github.com/norvik-group/facility-api/internal/service"
	"github.com/norvik-group/facility-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newWorkOrderService(db *gorm.DB) *service.WorkOrderService {
	perms := newPermissionService(db)
	return service.NewWorkOrderService(
		repository.NewWorkOrderRepository(db),
		repository.NewClientRepository(db),
		repository.NewAccommodationRepository(db),
		repository.NewPricingRuleRepository(db),
		perms,
		testutil.Logger(),
	)
}

func TestWorkOrderService_Create_SLAWindows(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newWorkOrderService(db)
	role := testutil.CreateRole(t, db, "ops", testutil.FullAccess(domain.ModuleWorkOrders))
	client := testutil.CreateClient(t, db, "Housing Client")
	ctx := testutil.UserCtx(1, role.ID)

	cases := []struct {
		priority int
		slaHours int
	}{
		{1, 4},
		{2, 8},
		{3, 24},
		{4, 48},
		{5, 72},
	}

	for _, tc := range cases {
		before := time.Now().UTC()
		wo, err := svc.Create(ctx, &domain.CreateWorkOrderRequest{
			Title:    "Leaking pipe",
			ClientID: client.ID,
			Priority: tc.priority,
		})
		require.NoError(t, err)

		expected := before.Add(time.Duration(tc.slaHours) * time.Hour)
		assert.WithinDuration(t, expected, wo.SLADueAt, 5*time.Second, "priority %d", tc.priority)
		assert.Equal(t, domain.WorkOrderStatusRequested, wo.Status)
		assert.False(t, wo.SLABreached)
	}
}

func TestWorkOrderService_Create_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newWorkOrderService(db)
	role := testutil.CreateRole(t, db, "ops", testutil.FullAccess(domain.ModuleWorkOrders))
	client := testutil.CreateClient(t, db, "Housing Client")
	ctx := testutil.UserCtx(1, role.ID)

	t.Run("unknown client", func(t *testing.T) {
		_, err := svc.Create(ctx, &domain.CreateWorkOrderRequest{
			Title:    "Leaking pipe",
			ClientID: 9999,
		})
		assert.ErrorIs(t, err, service.ErrClientNotFound)
	})

	t.Run("unknown accommodation", func(t *testing.T) {
		accID := uint(9999)
		_, err := svc.Create(ctx, &domain.CreateWorkOrderRequest{
			Title:           "Leaking pipe",
			ClientID:        client.ID,
			AccommodationID: &accID,
		})
		assert.ErrorIs(t, err, service.ErrAccommodationNotFound)
	})

	t.Run("missing priority defaults to medium", func(t *testing.T) {
		wo, err := svc.Create(ctx, &domain.CreateWorkOrderRequest{
			Title:    "Leaking pipe",
			ClientID: client.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.PriorityMedium, wo.Priority)
	})

	t.Run("requires create capability", func(t *testing.T) {
		viewer := testutil.CreateRole(t, db, "viewer", domain.RolePermission{
			Module:  domain.ModuleWorkOrders,
			CanView: true,
		})
		_, err := svc.Create(testutil.UserCtx(2, viewer.ID), &domain.CreateWorkOrderRequest{
			Title:    "Leaking pipe",
			ClientID: client.ID,
		})
		assert.ErrorIs(t, err, service.ErrPermissionDenied)
	})
}

func TestWorkOrderService_Update_StatusAndPriority(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newWorkOrderService(db)
	role := testutil.CreateRole(t, db, "ops", testutil.FullAccess(domain.ModuleWorkOrders))
	client := testutil.CreateClient(t, db, "Housing Client")
	ctx := testutil.UserCtx(1, role.ID)

	wo, err := svc.Create(ctx, &domain.CreateWorkOrderRequest{
		Title:    "Leaking pipe",
		ClientID: client.ID,
		Priority: 3,
	})
	require.NoError(t, err)

	t.Run("invalid status rejected", func(t *testing.T) {
		bad := "paused"
		_, err := svc.Update(ctx, wo.ID, &domain.UpdateWorkOrderRequest{Status: &bad})
		assert.ErrorIs(t, err, service.ErrInvalidStatus)
	})

	t.Run("completion stamps the timestamp", func(t *testing.T) {
		completed := string(domain.WorkOrderStatusCompleted)
		updated, err := svc.Update(ctx, wo.ID, &domain.UpdateWorkOrderRequest{Status: &completed})
		require.NoError(t, err)
		assert.Equal(t, domain.WorkOrderStatusCompleted, updated.Status)
		require.NotNil(t, updated.CompletedAt)
	})

	t.Run("leaving completed clears the timestamp", func(t *testing.T) {
		rework := string(domain.WorkOrderStatusRework)
		updated, err := svc.Update(ctx, wo.ID, &domain.UpdateWorkOrderRequest{Status: &rework})
		require.NoError(t, err)
		assert.Equal(t, domain.WorkOrderStatusRework, updated.Status)
		assert.Nil(t, updated.CompletedAt)
	})

	t.Run("priority change rebases the SLA deadline", func(t *testing.T) {
		critical := 1
		updated, err := svc.Update(ctx, wo.ID, &domain.UpdateWorkOrderRequest{Priority: &critical})
		require.NoError(t, err)
		assert.Equal(t, domain.PriorityCritical, updated.Priority)
		assert.WithinDuration(t, updated.CreatedAt.Add(4*time.Hour), updated.SLADueAt, time.Second)
	})
}

func TestWorkOrderService_ReopenAsWarranty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newWorkOrderService(db)
	role := testutil.CreateRole(t, db, "ops", testutil.FullAccess(domain.ModuleWorkOrders))
	client := testutil.CreateClient(t, db, "Housing Client")
	ctx := testutil.UserCtx(1, role.ID)

	wo, err := svc.Create(ctx, &domain.CreateWorkOrderRequest{
		Title:    "Leaking pipe",
		ClientID: client.ID,
		Priority: 2,
	})
	require.NoError(t, err)

	t.Run("only completed orders can reopen", func(t *testing.T) {
		_, err := svc.ReopenAsWarranty(ctx, wo.ID)
		assert.ErrorIs(t, err, service.ErrInvalidStatus)
	})

	completed := string(domain.WorkOrderStatusCompleted)
	_, err = svc.Update(ctx, wo.ID, &domain.UpdateWorkOrderRequest{Status: &completed})
	require.NoError(t, err)

	t.Run("reopen resets the lifecycle", func(t *testing.T) {
		before := time.Now().UTC()
		reopened, err := svc.ReopenAsWarranty(ctx, wo.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.WorkOrderStatusWarranty, reopened.Status)
		assert.True(t, reopened.ReopenedAsWarranty)
		assert.Nil(t, reopened.CompletedAt)
		assert.False(t, reopened.SLABreached)
		// Fresh SLA window from now, using the order's priority tier.
		assert.WithinDuration(t, before.Add(8*time.Hour), reopened.SLADueAt, 5*time.Second)
	})
}

func TestWorkOrderService_ValueFromApprovedLineItems(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newWorkOrderService(db)
	role := testutil.CreateRole(t, db, "ops", testutil.FullAccess(domain.ModuleWorkOrders))
	client := testutil.CreateClient(t, db, "Housing Client")
	ctx := testutil.UserCtx(1, role.ID)

	wo, err := svc.Create(ctx, &domain.CreateWorkOrderRequest{
		Title:    "Bathroom renovation",
		ClientID: client.ID,
	})
	require.NoError(t, err)

	line, err := svc.AddService(ctx, wo.ID, &domain.CreateWorkOrderServiceRequest{
		ServiceCategory: "plumbing",
		Price:           1000,
	})
	require.NoError(t, err)

	part, err := svc.AddPart(ctx, wo.ID, &domain.CreateWorkOrderPartRequest{
		Name:            "Copper pipe",
		ServiceCategory: "plumbing",
		Quantity:        4,
		UnitPrice:       50,
	})
	require.NoError(t, err)
	assert.Equal(t, float64(200), part.TotalPrice)

	addon, err := svc.AddAddon(ctx, wo.ID, &domain.CreateWorkOrderAddonRequest{
		Name:            "Waste disposal",
		ServiceCategory: "plumbing",
		Price:           300,
	})
	require.NoError(t, err)

	t.Run("unapproved lines contribute nothing", func(t *testing.T) {
		found, err := svc.Get(ctx, wo.ID)
		require.NoError(t, err)
		assert.Equal(t, float64(0), found.WorkOrderValue)
	})

	t.Run("approved lines sum up", func(t *testing.T) {
		_, err := svc.ApproveService(ctx, wo.ID, line.ID, true)
		require.NoError(t, err)
		_, err = svc.ApprovePart(ctx, wo.ID, part.ID, true)
		require.NoError(t, err)
		_, err = svc.ApproveAddon(ctx, wo.ID, addon.ID, true)
		require.NoError(t, err)

		found, err := svc.Get(ctx, wo.ID)
		require.NoError(t, err)
		assert.Equal(t, float64(1500), found.WorkOrderValue)
	})

	t.Run("revoking approval removes the line from the total", func(t *testing.T) {
		revoked, err := svc.ApproveAddon(ctx, wo.ID, addon.ID, false)
		require.NoError(t, err)
		assert.False(t, revoked.ApprovedByClient)
		assert.Nil(t, revoked.ApprovedByUserID)

		found, err := svc.Get(ctx, wo.ID)
		require.NoError(t, err)
		assert.Equal(t, float64(1200), found.WorkOrderValue)
	})

	t.Run("deleting a line recomputes the total", func(t *testing.T) {
		require.NoError(t, svc.DeletePart(ctx, wo.ID, part.ID))

		found, err := svc.Get(ctx, wo.ID)
		require.NoError(t, err)
		assert.Equal(t, float64(1000), found.WorkOrderValue)
	})

	t.Run("line item under a different order is not found", func(t *testing.T) {
		other, err := svc.Create(ctx, &domain.CreateWorkOrderRequest{
			Title:    "Other ticket",
			ClientID: client.ID,
		})
		require.NoError(t, err)
		_, err = svc.ApproveService(ctx, other.ID, line.ID, true)
		assert.ErrorIs(t, err, service.ErrLineItemNotFound)
	})
}

func TestWorkOrderService_PricingRulesAdjustValue(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newWorkOrderService(db)
	role := testutil.CreateRole(t, db, "ops", testutil.FullAccess(domain.ModuleWorkOrders))
	client := testutil.CreateClient(t, db, "Housing Client")
	ctx := testutil.UserCtx(1, role.ID)

	// 10% discount on plumbing services, 20% markup on plumbing materials.
	require.NoError(t, db.Create(&domain.PricingRule{
		OwnedModel:      domain.OwnedModel{CreatedBy: 1, UpdatedBy: 1},
		ClientID:        client.ID,
		ServiceCategory: "plumbing",
		RuleType:        domain.PricingRuleDiscount,
		PercentageValue: 10,
		AppliesTo:       []string{domain.LineItemKindService},
		IsActive:        true,
	}).Error)
	require.NoError(t, db.Create(&domain.PricingRule{
		OwnedModel:      domain.OwnedModel{CreatedBy: 1, UpdatedBy: 1},
		ClientID:        client.ID,
		ServiceCategory: "plumbing",
		RuleType:        domain.PricingRuleMarkup,
		PercentageValue: 20,
		AppliesTo:       []string{domain.LineItemKindMaterial},
		IsActive:        true,
	}).Error)
	// Inactive rules are ignored.
	require.NoError(t, db.Create(&domain.PricingRule{
		OwnedModel:      domain.OwnedModel{CreatedBy: 1, UpdatedBy: 1},
		ClientID:        client.ID,
		ServiceCategory: "plumbing",
		RuleType:        domain.PricingRuleMarkup,
		PercentageValue: 50,
		AppliesTo:       []string{domain.LineItemKindService},
		IsActive:        false,
	}).Error)

	wo, err := svc.Create(ctx, &domain.CreateWorkOrderRequest{
		Title:    "Bathroom renovation",
		ClientID: client.ID,
	})
	require.NoError(t, err)

	line, err := svc.AddService(ctx, wo.ID, &domain.CreateWorkOrderServiceRequest{
		ServiceCategory: "plumbing",
		Price:           1000,
	})
	require.NoError(t, err)
	part, err := svc.AddPart(ctx, wo.ID, &domain.CreateWorkOrderPartRequest{
		Name:            "Copper pipe",
		ServiceCategory: "plumbing",
		Quantity:        2,
		UnitPrice:       100,
	})
	require.NoError(t, err)
	// Electrical work has no rule for this client.
	other, err := svc.AddService(ctx, wo.ID, &domain.CreateWorkOrderServiceRequest{
		ServiceCategory: "electrical",
		Price:           500,
	})
	require.NoError(t, err)

	_, err = svc.ApproveService(ctx, wo.ID, line.ID, true)
	require.NoError(t, err)
	_, err = svc.ApprovePart(ctx, wo.ID, part.ID, true)
	require.NoError(t, err)
	_, err = svc.ApproveService(ctx, wo.ID, other.ID, true)
	require.NoError(t, err)

	found, err := svc.Get(ctx, wo.ID)
	require.NoError(t, err)
	// 1000 * 0.9 + 200 * 1.2 + 500 = 1640
	assert.InDelta(t, 1640, found.WorkOrderValue, 0.001)
}
