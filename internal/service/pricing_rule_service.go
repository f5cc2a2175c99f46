package service

import (
	"context"
	"errors"

	"github.com/norvik-group/facility-api/internal/domain"
	"github.com/norvik-group/facility-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PricingRuleService manages per-client price adjustments
type PricingRuleService struct {
	rules   *repository.PricingRuleRepository
	clients *repository.ClientRepository
	perms   *PermissionService
	logger  *zap.Logger
}

// NewPricingRuleService creates a new pricing rule service instance
func NewPricingRuleService(
	rules *repository.PricingRuleRepository,
	clients *repository.ClientRepository,
	perms *PermissionService,
	logger *zap.Logger,
) *PricingRuleService {
	return &PricingRuleService{rules: rules, clients: clients, perms: perms, logger: logger}
}

// Create registers a pricing rule. The percentage must stay within [0, 100]
// and the client must exist.
func (s *PricingRuleService) Create(ctx context.Context, req *domain.CreatePricingRuleRequest) (*domain.PricingRule, error) {
	if err := s.perms.Authorize(ctx, domain.ModulePricingRules, domain.CapabilityCreate); err != nil {
		return nil, err
	}

	if req.PercentageValue < 0 || req.PercentageValue > 100 {
		return nil, ErrInvalidInput
	}
	if _, err := s.clients.GetByID(ctx, req.ClientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	rule := &domain.PricingRule{
		ClientID:        req.ClientID,
		ServiceCategory: req.ServiceCategory,
		RuleType:        domain.PricingRuleType(req.RuleType),
		PercentageValue: req.PercentageValue,
		AppliesTo:       req.AppliesTo,
		IsActive:        true,
	}
	stampCreate(ctx, &rule.OwnedModel)

	if err := s.rules.Create(ctx, rule); err != nil {
		s.logger.Error("failed to create pricing rule", zap.Error(err))
		return nil, err
	}

	s.logger.Info("pricing rule created",
		zap.Uint("id", rule.ID),
		zap.Uint("clientId", rule.ClientID),
		zap.String("serviceCategory", rule.ServiceCategory),
		zap.String("ruleType", string(rule.RuleType)))
	return rule, nil
}

// Get retrieves a single pricing rule
func (s *PricingRuleService) Get(ctx context.Context, id uint) (*domain.PricingRule, error) {
	if err := s.perms.Authorize(ctx, domain.ModulePricingRules, domain.CapabilityView); err != nil {
		return nil, err
	}

	rule, err := s.rules.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPricingRuleNotFound
		}
		return nil, err
	}
	return rule, nil
}

// List returns pricing rules visible to the caller
func (s *PricingRuleService) List(ctx context.Context, page, perPage int, filters *repository.PricingRuleFilters, sort repository.SortConfig) ([]domain.PricingRule, repository.Page, error) {
	if err := s.perms.Authorize(ctx, domain.ModulePricingRules, domain.CapabilityView); err != nil {
		return nil, repository.Page{}, err
	}

	scope := s.perms.Scope(ctx, domain.ModulePricingRules)
	return s.rules.List(ctx, page, perPage, filters, sort, scope)
}

// Update applies a partial update to a pricing rule
func (s *PricingRuleService) Update(ctx context.Context, id uint, req *domain.UpdatePricingRuleRequest) (*domain.PricingRule, error) {
	if err := s.perms.Authorize(ctx, domain.ModulePricingRules, domain.CapabilityEdit); err != nil {
		return nil, err
	}

	rule, err := s.rules.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPricingRuleNotFound
		}
		return nil, err
	}

	if req.PercentageValue != nil {
		if *req.PercentageValue < 0 || *req.PercentageValue > 100 {
			return nil, ErrInvalidInput
		}
		rule.PercentageValue = *req.PercentageValue
	}
	if req.ServiceCategory != nil {
		rule.ServiceCategory = *req.ServiceCategory
	}
	if req.RuleType != nil {
		rule.RuleType = domain.PricingRuleType(*req.RuleType)
	}
	if req.AppliesTo != nil {
		rule.AppliesTo = *req.AppliesTo
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}
	stampUpdate(ctx, &rule.OwnedModel)

	if err := s.rules.Update(ctx, rule); err != nil {
		s.logger.Error("failed to update pricing rule", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return rule, nil
}

// Delete removes a pricing rule
func (s *PricingRuleService) Delete(ctx context.Context, id uint) error {
	if err := s.perms.Authorize(ctx, domain.ModulePricingRules, domain.CapabilityDelete); err != nil {
		return err
	}

	if _, err := s.rules.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPricingRuleNotFound
		}
		return err
	}

	if err := s.rules.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("pricing rule deleted", zap.Uint("id", id))
	return nil
}
