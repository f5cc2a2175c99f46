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

func newPricingRuleService(db *gorm.DB) *service.PricingRuleService {
	perms := newPermissionService(db)
	return service.NewPricingRuleService(
		repository.NewPricingRuleRepository(db),
		repository.NewClientRepository(db),
		perms,
		testutil.Logger(),
	)
}

func TestPricingRuleService_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newPricingRuleService(db)
	role := testutil.CreateRole(t, db, "ops", testutil.FullAccess(domain.ModulePricingRules))
	client := testutil.CreateClient(t, db, "Housing Client")
	ctx := testutil.UserCtx(1, role.ID)

	t.Run("valid rule", func(t *testing.T) {
		rule, err := svc.Create(ctx, &domain.CreatePricingRuleRequest{
			ClientID:        client.ID,
			ServiceCategory: "plumbing",
			RuleType:        "discount",
			PercentageValue: 12.5,
			AppliesTo:       []string{"service", "material"},
		})
		require.NoError(t, err)
		assert.True(t, rule.IsActive)
		assert.True(t, rule.AppliesToKind(domain.LineItemKindService))
		assert.True(t, rule.AppliesToKind(domain.LineItemKindMaterial))
		assert.False(t, rule.AppliesToKind(domain.LineItemKindAddon))
	})

	t.Run("percentage out of range", func(t *testing.T) {
		_, err := svc.Create(ctx, &domain.CreatePricingRuleRequest{
			ClientID:        client.ID,
			ServiceCategory: "plumbing",
			RuleType:        "markup",
			PercentageValue: 120,
			AppliesTo:       []string{"service"},
		})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("unknown client", func(t *testing.T) {
		_, err := svc.Create(ctx, &domain.CreatePricingRuleRequest{
			ClientID:        9999,
			ServiceCategory: "plumbing",
			RuleType:        "discount",
			PercentageValue: 10,
			AppliesTo:       []string{"service"},
		})
		assert.ErrorIs(t, err, service.ErrClientNotFound)
	})
}

func TestPricingRuleService_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newPricingRuleService(db)
	role := testutil.CreateRole(t, db, "ops", testutil.FullAccess(domain.ModulePricingRules))
	client := testutil.CreateClient(t, db, "Housing Client")
	ctx := testutil.UserCtx(1, role.ID)

	rule, err := svc.Create(ctx, &domain.CreatePricingRuleRequest{
		ClientID:        client.ID,
		ServiceCategory: "plumbing",
		RuleType:        "discount",
		PercentageValue: 10,
		AppliesTo:       []string{"service"},
	})
	require.NoError(t, err)

	t.Run("deactivate", func(t *testing.T) {
		inactive := false
		updated, err := svc.Update(ctx, rule.ID, &domain.UpdatePricingRuleRequest{IsActive: &inactive})
		require.NoError(t, err)
		assert.False(t, updated.IsActive)
	})

	t.Run("percentage bound enforced", func(t *testing.T) {
		bad := 101.0
		_, err := svc.Update(ctx, rule.ID, &domain.UpdatePricingRuleRequest{PercentageValue: &bad})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("unknown rule", func(t *testing.T) {
		value := 5.0
		_, err := svc.Update(ctx, 9999, &domain.UpdatePricingRuleRequest{PercentageValue: &value})
		assert.ErrorIs(t, err, service.ErrPricingRuleNotFound)
	})
}

func TestPricingRule_Adjust(t *testing.T) {
	discount := &domain.PricingRule{RuleType: domain.PricingRuleDiscount, PercentageValue: 10}
	assert.InDelta(t, 90, discount.Adjust(100), 0.001)

	markup := &domain.PricingRule{RuleType: domain.PricingRuleMarkup, PercentageValue: 25}
	assert.InDelta(t, 125, markup.Adjust(100), 0.001)
}
