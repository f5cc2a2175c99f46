package repository

import (
	"context"
	"errors"

	"github.com/norvik-group/facility-api/internal/domain"
	"gorm.io/gorm"
)

// SupplierFilters defines filter options for supplier listing
type SupplierFilters struct {
	Search string
	City   string
	Status *domain.SupplierStatus
	TypeID *uint
}

var supplierSortableFields = map[string]string{
	"createdAt": "suppliers.created_at",
	"updatedAt": "suppliers.updated_at",
	"name":      "suppliers.name",
	"city":      "suppliers.city",
	"status":    "suppliers.status",
	"vatNumber": "suppliers.vat_number",
}

// SupplierRepository handles supplier data access operations
type SupplierRepository struct {
	db *gorm.DB
}

// NewSupplierRepository creates a new supplier repository instance
func NewSupplierRepository(db *gorm.DB) *SupplierRepository {
	return &SupplierRepository{db: db}
}

// Create creates a new supplier in the database
func (r *SupplierRepository) Create(ctx context.Context, supplier *domain.Supplier) error {
	return r.db.WithContext(ctx).Create(supplier).Error
}

// GetByID retrieves a supplier with its type links preloaded
func (r *SupplierRepository) GetByID(ctx context.Context, id uint) (*domain.Supplier, error) {
	var supplier domain.Supplier
	err := r.db.WithContext(ctx).Preload("Types").First(&supplier, id).Error
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

// GetByVATNumber finds a supplier by VAT number, returning nil when absent
func (r *SupplierRepository) GetByVATNumber(ctx context.Context, vatNumber string) (*domain.Supplier, error) {
	var supplier domain.Supplier
	err := r.db.WithContext(ctx).Where("vat_number = ?", vatNumber).First(&supplier).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &supplier, nil
}

// Update updates an existing supplier in the database
func (r *SupplierRepository) Update(ctx context.Context, supplier *domain.Supplier) error {
	return r.db.WithContext(ctx).Save(supplier).Error
}

// Delete removes a supplier and its type links in one transaction
func (r *SupplierRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Supplier{BaseModel: domain.BaseModel{ID: id}}).
			Association("Types").Clear(); err != nil {
			return err
		}
		return tx.Delete(&domain.Supplier{}, id).Error
	})
}

// ReplaceTypes swaps the supplier's type links for the given set atomically.
func (r *SupplierRepository) ReplaceTypes(ctx context.Context, supplierID uint, types []domain.SupplierType) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		supplier := domain.Supplier{OwnedModel: domain.OwnedModel{BaseModel: domain.BaseModel{ID: supplierID}}}
		return tx.Model(&supplier).Association("Types").Replace(types)
	})
}

// List returns a paginated list of suppliers restricted to the caller's
// ownership scope.
func (r *SupplierRepository) List(ctx context.Context, page, perPage int, filters *SupplierFilters, sort SortConfig, scope OwnershipScope) ([]domain.Supplier, Page, error) {
	query := r.db.WithContext(ctx).Model(&domain.Supplier{}).Preload("Types")

	if filters != nil {
		var parts []Filter
		if filters.Search != "" {
			parts = append(parts, Or(
				Like("suppliers.name", filters.Search),
				Like("suppliers.vat_number", filters.Search),
			))
		}
		if filters.City != "" {
			parts = append(parts, Like("suppliers.city", filters.City))
		}
		if filters.Status != nil {
			parts = append(parts, Eq("suppliers.status", *filters.Status))
		}
		query = ApplyFilter(query, And(parts...))
		if filters.TypeID != nil {
			query = query.
				Joins("JOIN supplier_type_links ON supplier_type_links.supplier_id = suppliers.id").
				Where("supplier_type_links.supplier_type_id = ?", *filters.TypeID)
		}
	}

	query = ApplyOwnershipFilter(query, scope)
	query = query.Order(BuildOrderClause(sort, supplierSortableFields, "suppliers.updated_at"))

	var suppliers []domain.Supplier
	pageInfo, err := Paginate(query, page, perPage, &suppliers)
	return suppliers, pageInfo, err
}

// CountActive returns the total count of active suppliers
func (r *SupplierRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Supplier{}).
		Where("status = ?", domain.SupplierStatusActive).
		Count(&count).Error
	return count, err
}

// ListTypes returns all supplier types ordered by name
func (r *SupplierRepository) ListTypes(ctx context.Context) ([]domain.SupplierType, error) {
	var types []domain.SupplierType
	err := r.db.WithContext(ctx).Order("name ASC").Find(&types).Error
	return types, err
}

// GetTypesByIDs loads the supplier types for the given ids
func (r *SupplierRepository) GetTypesByIDs(ctx context.Context, ids []uint) ([]domain.SupplierType, error) {
	var types []domain.SupplierType
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&types).Error
	return types, err
}

// CreateType creates a new supplier type
func (r *SupplierRepository) CreateType(ctx context.Context, t *domain.SupplierType) error {
	return r.db.WithContext(ctx).Create(t).Error
}

// DeleteType removes a supplier type and its links
func (r *SupplierRepository) DeleteType(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM supplier_type_links WHERE supplier_type_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.SupplierType{}, id).Error
	})
}
