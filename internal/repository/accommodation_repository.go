package repository

import (
	"context"

	"github.com/norvik-group/facility-api/internal/domain"
	"gorm.io/gorm"
)

// AccommodationFilters defines filter options for accommodation listing
type AccommodationFilters struct {
	Search   string
	City     string
	Type     *domain.AccommodationType
	Status   *domain.AccommodationStatus
	ClientID *uint
}

// accommodationSortableFields maps API field names to database column names
// Only fields in this map can be used for sorting (whitelist approach)
var accommodationSortableFields = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"name":        "name",
	"city":        "city",
	"type":        "type",
	"status":      "status",
	"capacity":    "capacity",
	"monthlyRent": "monthly_rent",
}

// AccommodationRepository handles accommodation data access operations
type AccommodationRepository struct {
	db *gorm.DB
}

// NewAccommodationRepository creates a new accommodation repository instance
func NewAccommodationRepository(db *gorm.DB) *AccommodationRepository {
	return &AccommodationRepository{db: db}
}

// Create creates a new accommodation in the database
func (r *AccommodationRepository) Create(ctx context.Context, acc *domain.Accommodation) error {
	return r.db.WithContext(ctx).Create(acc).Error
}

// GetByID retrieves an accommodation by its ID with its client preloaded
func (r *AccommodationRepository) GetByID(ctx context.Context, id uint) (*domain.Accommodation, error) {
	var acc domain.Accommodation
	err := r.db.WithContext(ctx).Preload("Client").First(&acc, id).Error
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// Update updates an existing accommodation in the database
func (r *AccommodationRepository) Update(ctx context.Context, acc *domain.Accommodation) error {
	return r.db.WithContext(ctx).Save(acc).Error
}

// Delete removes an accommodation
func (r *AccommodationRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.Accommodation{}, id).Error
}

// List returns a paginated list of accommodations restricted to the caller's
// ownership scope.
func (r *AccommodationRepository) List(ctx context.Context, page, perPage int, filters *AccommodationFilters, sort SortConfig, scope OwnershipScope) ([]domain.Accommodation, Page, error) {
	query := r.db.WithContext(ctx).Model(&domain.Accommodation{}).Preload("Client")

	if filters != nil {
		var parts []Filter
		if filters.Search != "" {
			parts = append(parts, Or(
				Like("name", filters.Search),
				Like("address", filters.Search),
			))
		}
		if filters.City != "" {
			parts = append(parts, Like("city", filters.City))
		}
		if filters.Type != nil {
			parts = append(parts, Eq("type", *filters.Type))
		}
		if filters.Status != nil {
			parts = append(parts, Eq("status", *filters.Status))
		}
		if filters.ClientID != nil {
			parts = append(parts, Eq("client_id", *filters.ClientID))
		}
		query = ApplyFilter(query, And(parts...))
	}

	query = ApplyOwnershipFilter(query, scope)
	query = query.Order(BuildOrderClause(sort, accommodationSortableFields, "updated_at"))

	var accommodations []domain.Accommodation
	pageInfo, err := Paginate(query, page, perPage, &accommodations)
	return accommodations, pageInfo, err
}

// CountByStatus returns how many accommodations are in the given status
func (r *AccommodationRepository) CountByStatus(ctx context.Context, status domain.AccommodationStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Accommodation{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
