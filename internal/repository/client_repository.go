package repository

import (
	"context"
	"errors"

	"github.com/norvik-group/facility-api/internal/domain"
	"gorm.io/gorm"
)

// ClientFilters defines filter options for client listing
type ClientFilters struct {
	Search   string
	City     string
	IsActive *bool
}

var clientSortableFields = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"name":      "name",
	"city":      "city",
	"orgNumber": "org_number",
}

// ClientRepository handles client data access operations
type ClientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new client repository instance
func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// Create creates a new client in the database
func (r *ClientRepository) Create(ctx context.Context, client *domain.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

// GetByID retrieves a client by its ID
func (r *ClientRepository) GetByID(ctx context.Context, id uint) (*domain.Client, error) {
	var client domain.Client
	err := r.db.WithContext(ctx).First(&client, id).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// GetWithPricingRules retrieves a client with its pricing rules preloaded
func (r *ClientRepository) GetWithPricingRules(ctx context.Context, id uint) (*domain.Client, error) {
	var client domain.Client
	err := r.db.WithContext(ctx).
		Preload("PricingRules", func(db *gorm.DB) *gorm.DB {
			return db.Order("service_category ASC")
		}).
		First(&client, id).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// GetByOrgNumber finds a client by organization number, returning nil when absent
func (r *ClientRepository) GetByOrgNumber(ctx context.Context, orgNumber string) (*domain.Client, error) {
	var client domain.Client
	err := r.db.WithContext(ctx).Where("org_number = ?", orgNumber).First(&client).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &client, nil
}

// Update updates an existing client in the database
func (r *ClientRepository) Update(ctx context.Context, client *domain.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

// Delete removes a client; pricing rules cascade
func (r *ClientRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Select("PricingRules").Delete(&domain.Client{OwnedModel: domain.OwnedModel{BaseModel: domain.BaseModel{ID: id}}}).Error
}

// List returns a paginated list of clients restricted to the caller's
// ownership scope.
func (r *ClientRepository) List(ctx context.Context, page, perPage int, filters *ClientFilters, sort SortConfig, scope OwnershipScope) ([]domain.Client, Page, error) {
	query := r.db.WithContext(ctx).Model(&domain.Client{})

	if filters != nil {
		var parts []Filter
		if filters.Search != "" {
			parts = append(parts, Or(
				Like("name", filters.Search),
				Like("org_number", filters.Search),
			))
		}
		if filters.City != "" {
			parts = append(parts, Like("city", filters.City))
		}
		if filters.IsActive != nil {
			parts = append(parts, Eq("is_active", *filters.IsActive))
		}
		query = ApplyFilter(query, And(parts...))
	}

	query = ApplyOwnershipFilter(query, scope)
	query = query.Order(BuildOrderClause(sort, clientSortableFields, "updated_at"))

	var clients []domain.Client
	pageInfo, err := Paginate(query, page, perPage, &clients)
	return clients, pageInfo, err
}

// CountActive returns the total count of active clients
func (r *ClientRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Client{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}
