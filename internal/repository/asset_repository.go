package repository

import (
	"context"
	"errors"

	"github.com/norvik-group/facility-api/internal/domain"
	"gorm.io/gorm"
)

// AssetFilters defines filter options for asset listing
type AssetFilters struct {
	Search          string
	Category        string
	Status          *domain.AssetStatus
	AccommodationID *uint
}

var assetSortableFields = map[string]string{
	"createdAt":    "created_at",
	"updatedAt":    "updated_at",
	"name":         "name",
	"category":     "category",
	"status":       "status",
	"serialNumber": "serial_number",
	"purchaseDate": "purchase_date",
}

// AssetRepository handles asset data access operations
type AssetRepository struct {
	db *gorm.DB
}

// NewAssetRepository creates a new asset repository instance
func NewAssetRepository(db *gorm.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

// Create creates a new asset in the database
func (r *AssetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	return r.db.WithContext(ctx).Create(asset).Error
}

// GetByID retrieves an asset with its accommodation preloaded
func (r *AssetRepository) GetByID(ctx context.Context, id uint) (*domain.Asset, error) {
	var asset domain.Asset
	err := r.db.WithContext(ctx).Preload("Accommodation").First(&asset, id).Error
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

// GetBySerialNumber finds an asset by serial number, returning nil when absent
func (r *AssetRepository) GetBySerialNumber(ctx context.Context, serial string) (*domain.Asset, error) {
	var asset domain.Asset
	err := r.db.WithContext(ctx).Where("serial_number = ?", serial).First(&asset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &asset, nil
}

// Update updates an existing asset in the database
func (r *AssetRepository) Update(ctx context.Context, asset *domain.Asset) error {
	return r.db.WithContext(ctx).Save(asset).Error
}

// Delete removes an asset
func (r *AssetRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.Asset{}, id).Error
}

// List returns a paginated list of assets restricted to the caller's
// ownership scope.
func (r *AssetRepository) List(ctx context.Context, page, perPage int, filters *AssetFilters, sort SortConfig, scope OwnershipScope) ([]domain.Asset, Page, error) {
	query := r.db.WithContext(ctx).Model(&domain.Asset{}).Preload("Accommodation")

	if filters != nil {
		var parts []Filter
		if filters.Search != "" {
			parts = append(parts, Or(
				Like("name", filters.Search),
				Like("serial_number", filters.Search),
			))
		}
		if filters.Category != "" {
			parts = append(parts, Like("category", filters.Category))
		}
		if filters.Status != nil {
			parts = append(parts, Eq("status", *filters.Status))
		}
		if filters.AccommodationID != nil {
			parts = append(parts, Eq("accommodation_id", *filters.AccommodationID))
		}
		query = ApplyFilter(query, And(parts...))
	}

	query = ApplyOwnershipFilter(query, scope)
	query = query.Order(BuildOrderClause(sort, assetSortableFields, "updated_at"))

	var assets []domain.Asset
	pageInfo, err := Paginate(query, page, perPage, &assets)
	return assets, pageInfo, err
}
