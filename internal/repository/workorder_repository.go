package repository

import (
	"context"
	"time"

	"github.com/norvik-group/facility-api/internal/domain"
	"gorm.io/gorm"
)

// WorkOrderFilters defines filter options for work order listing
type WorkOrderFilters struct {
	Search          string
	Status          *domain.WorkOrderStatus
	Priority        *domain.WorkOrderPriority
	ClientID        *uint
	AccommodationID *uint
	AssignedTo      *uint
	SLABreached     *bool
}

var workOrderSortableFields = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"title":       "title",
	"priority":    "priority",
	"status":      "status",
	"slaDueAt":    "sla_due_at",
	"scheduledAt": "scheduled_at",
	"value":       "work_order_value",
}

// WorkOrderRepository handles work order data access operations
type WorkOrderRepository struct {
	db *gorm.DB
}

// NewWorkOrderRepository creates a new work order repository instance
func NewWorkOrderRepository(db *gorm.DB) *WorkOrderRepository {
	return &WorkOrderRepository{db: db}
}

// Create creates a new work order in the database
func (r *WorkOrderRepository) Create(ctx context.Context, wo *domain.WorkOrder) error {
	return r.db.WithContext(ctx).Create(wo).Error
}

// GetByID retrieves a work order with its line items and relations preloaded
func (r *WorkOrderRepository) GetByID(ctx context.Context, id uint) (*domain.WorkOrder, error) {
	var wo domain.WorkOrder
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Accommodation").
		Preload("Technician").
		Preload("Services").
		Preload("Parts").
		Preload("Addons").
		First(&wo, id).Error
	if err != nil {
		return nil, err
	}
	return &wo, nil
}

// Update updates an existing work order in the database
func (r *WorkOrderRepository) Update(ctx context.Context, wo *domain.WorkOrder) error {
	return r.db.WithContext(ctx).Omit("Services", "Parts", "Addons").Save(wo).Error
}

// Delete removes a work order and its line items
func (r *WorkOrderRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Select("Services", "Parts", "Addons").
		Delete(&domain.WorkOrder{OwnedModel: domain.OwnedModel{BaseModel: domain.BaseModel{ID: id}}}).Error
}

// List returns a paginated list of work orders restricted to the caller's
// ownership scope.
func (r *WorkOrderRepository) List(ctx context.Context, page, perPage int, filters *WorkOrderFilters, sort SortConfig, scope OwnershipScope) ([]domain.WorkOrder, Page, error) {
	query := r.db.WithContext(ctx).Model(&domain.WorkOrder{}).
		Preload("Client").
		Preload("Accommodation")

	if filters != nil {
		var parts []Filter
		if filters.Search != "" {
			parts = append(parts, Or(
				Like("title", filters.Search),
				Like("description", filters.Search),
			))
		}
		if filters.Status != nil {
			parts = append(parts, Eq("status", *filters.Status))
		}
		if filters.Priority != nil {
			parts = append(parts, Eq("priority", *filters.Priority))
		}
		if filters.ClientID != nil {
			parts = append(parts, Eq("client_id", *filters.ClientID))
		}
		if filters.AccommodationID != nil {
			parts = append(parts, Eq("accommodation_id", *filters.AccommodationID))
		}
		if filters.AssignedTo != nil {
			parts = append(parts, Eq("assigned_to", *filters.AssignedTo))
		}
		if filters.SLABreached != nil {
			parts = append(parts, Eq("sla_breached", *filters.SLABreached))
		}
		query = ApplyFilter(query, And(parts...))
	}

	query = ApplyOwnershipFilter(query, scope)
	query = query.Order(BuildOrderClause(sort, workOrderSortableFields, "sla_due_at"))

	var orders []domain.WorkOrder
	pageInfo, err := Paginate(query, page, perPage, &orders)
	return orders, pageInfo, err
}

// MarkSLABreaches flags open work orders past their SLA deadline and returns
// how many rows changed. Completed and rejected orders are left alone.
func (r *WorkOrderRepository) MarkSLABreaches(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&domain.WorkOrder{}).
		Where("sla_breached = ?", false).
		Where("sla_due_at < ?", now).
		Where("status NOT IN ?", []domain.WorkOrderStatus{
			domain.WorkOrderStatusCompleted,
			domain.WorkOrderStatusRejected,
		}).
		Update("sla_breached", true)
	return result.RowsAffected, result.Error
}

// CountByStatus returns the number of work orders per status
func (r *WorkOrderRepository) CountByStatus(ctx context.Context) ([]domain.WorkOrderStatusCount, error) {
	var counts []domain.WorkOrderStatusCount
	err := r.db.WithContext(ctx).Model(&domain.WorkOrder{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&counts).Error
	return counts, err
}

// CountOpen returns how many work orders are not completed or rejected
func (r *WorkOrderRepository) CountOpen(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.WorkOrder{}).
		Where("status NOT IN ?", []domain.WorkOrderStatus{
			domain.WorkOrderStatusCompleted,
			domain.WorkOrderStatusRejected,
		}).
		Count(&count).Error
	return count, err
}

// CountBreached returns how many open work orders have breached their SLA
func (r *WorkOrderRepository) CountBreached(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.WorkOrder{}).
		Where("sla_breached = ?", true).
		Where("status NOT IN ?", []domain.WorkOrderStatus{
			domain.WorkOrderStatusCompleted,
			domain.WorkOrderStatusRejected,
		}).
		Count(&count).Error
	return count, err
}

// CountCompletedSince returns how many work orders completed after the cutoff
func (r *WorkOrderRepository) CountCompletedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.WorkOrder{}).
		Where("status = ? AND completed_at >= ?", domain.WorkOrderStatusCompleted, since).
		Count(&count).Error
	return count, err
}

// SumValue totals the computed value across all work orders
func (r *WorkOrderRepository) SumValue(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&domain.WorkOrder{}).
		Select("COALESCE(SUM(work_order_value), 0)").
		Scan(&total).Error
	return total, err
}

// UpdateValue persists a recomputed work order value
func (r *WorkOrderRepository) UpdateValue(ctx context.Context, id uint, value float64) error {
	return r.db.WithContext(ctx).Model(&domain.WorkOrder{}).
		Where("id = ?", id).
		Update("work_order_value", value).Error
}

// --- Line items ---

// AddService attaches a service line to a work order
func (r *WorkOrderRepository) AddService(ctx context.Context, svc *domain.WorkOrderService) error {
	return r.db.WithContext(ctx).Create(svc).Error
}

// GetService retrieves a service line by id
func (r *WorkOrderRepository) GetService(ctx context.Context, id uint) (*domain.WorkOrderService, error) {
	var svc domain.WorkOrderService
	if err := r.db.WithContext(ctx).First(&svc, id).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

// UpdateService saves a service line
func (r *WorkOrderRepository) UpdateService(ctx context.Context, svc *domain.WorkOrderService) error {
	return r.db.WithContext(ctx).Save(svc).Error
}

// DeleteService removes a service line
func (r *WorkOrderRepository) DeleteService(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.WorkOrderService{}, id).Error
}

// AddPart attaches a part line to a work order
func (r *WorkOrderRepository) AddPart(ctx context.Context, part *domain.WorkOrderPart) error {
	return r.db.WithContext(ctx).Create(part).Error
}

// GetPart retrieves a part line by id
func (r *WorkOrderRepository) GetPart(ctx context.Context, id uint) (*domain.WorkOrderPart, error) {
	var part domain.WorkOrderPart
	if err := r.db.WithContext(ctx).First(&part, id).Error; err != nil {
		return nil, err
	}
	return &part, nil
}

// UpdatePart saves a part line
func (r *WorkOrderRepository) UpdatePart(ctx context.Context, part *domain.WorkOrderPart) error {
	return r.db.WithContext(ctx).Save(part).Error
}

// DeletePart removes a part line
func (r *WorkOrderRepository) DeletePart(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.WorkOrderPart{}, id).Error
}

// AddAddon attaches an addon line to a work order
func (r *WorkOrderRepository) AddAddon(ctx context.Context, addon *domain.WorkOrderAddon) error {
	return r.db.WithContext(ctx).Create(addon).Error
}

// GetAddon retrieves an addon line by id
func (r *WorkOrderRepository) GetAddon(ctx context.Context, id uint) (*domain.WorkOrderAddon, error) {
	var addon domain.WorkOrderAddon
	if err := r.db.WithContext(ctx).First(&addon, id).Error; err != nil {
		return nil, err
	}
	return &addon, nil
}

// UpdateAddon saves an addon line
func (r *WorkOrderRepository) UpdateAddon(ctx context.Context, addon *domain.WorkOrderAddon) error {
	return r.db.WithContext(ctx).Save(addon).Error
}

// DeleteAddon removes an addon line
func (r *WorkOrderRepository) DeleteAddon(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.WorkOrderAddon{}, id).Error
}
