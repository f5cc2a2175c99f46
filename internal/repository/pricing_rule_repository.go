package repository

import (
	"context"

	"github.com/norvik-group/facility-api/internal/domain"
	"gorm.io/gorm"
)

// PricingRuleFilters defines filter options for pricing rule listing
type PricingRuleFilters struct {
	ClientID        *uint
	ServiceCategory string
	RuleType        *domain.PricingRuleType
	IsActive        *bool
}

var pricingRuleSortableFields = map[string]string{
	"createdAt":       "created_at",
	"updatedAt":       "updated_at",
	"serviceCategory": "service_category",
	"ruleType":        "rule_type",
	"percentageValue": "percentage_value",
}

// PricingRuleRepository handles pricing rule data access operations
type PricingRuleRepository struct {
	db *gorm.DB
}

// NewPricingRuleRepository creates a new pricing rule repository instance
func NewPricingRuleRepository(db *gorm.DB) *PricingRuleRepository {
	return &PricingRuleRepository{db: db}
}

// Create creates a new pricing rule in the database
func (r *PricingRuleRepository) Create(ctx context.Context, rule *domain.PricingRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

// GetByID retrieves a pricing rule by its ID
func (r *PricingRuleRepository) GetByID(ctx context.Context, id uint) (*domain.PricingRule, error) {
	var rule domain.PricingRule
	err := r.db.WithContext(ctx).First(&rule, id).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

// Update updates an existing pricing rule in the database
func (r *PricingRuleRepository) Update(ctx context.Context, rule *domain.PricingRule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}

// Delete removes a pricing rule
func (r *PricingRuleRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.PricingRule{}, id).Error
}

// List returns a paginated list of pricing rules restricted to the caller's
// ownership scope.
func (r *PricingRuleRepository) List(ctx context.Context, page, perPage int, filters *PricingRuleFilters, sort SortConfig, scope OwnershipScope) ([]domain.PricingRule, Page, error) {
	query := r.db.WithContext(ctx).Model(&domain.PricingRule{})

	if filters != nil {
		var parts []Filter
		if filters.ClientID != nil {
			parts = append(parts, Eq("client_id", *filters.ClientID))
		}
		if filters.ServiceCategory != "" {
			parts = append(parts, Like("service_category", filters.ServiceCategory))
		}
		if filters.RuleType != nil {
			parts = append(parts, Eq("rule_type", *filters.RuleType))
		}
		if filters.IsActive != nil {
			parts = append(parts, Eq("is_active", *filters.IsActive))
		}
		query = ApplyFilter(query, And(parts...))
	}

	query = ApplyOwnershipFilter(query, scope)
	query = query.Order(BuildOrderClause(sort, pricingRuleSortableFields, "updated_at"))

	var rules []domain.PricingRule
	pageInfo, err := Paginate(query, page, perPage, &rules)
	return rules, pageInfo, err
}

// ActiveRulesForClient loads the active pricing rules for a client. The
// caller matches them on service category and line-item kind.
func (r *PricingRuleRepository) ActiveRulesForClient(ctx context.Context, clientID uint) ([]domain.PricingRule, error) {
	var rules []domain.PricingRule
	err := r.db.WithContext(ctx).
		Where("client_id = ? AND is_active = ?", clientID, true).
		Find(&rules).Error
	return rules, err
}
