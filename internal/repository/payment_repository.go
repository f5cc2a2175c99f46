package repository

import (
	"context"
	"time"

	"github.com/norvik-group/facility-api/internal/domain"
	"gorm.io/gorm"
)

// PaymentFilters defines filter options for payment listing
type PaymentFilters struct {
	Search     string
	Status     *domain.PaymentStatus
	SupplierID *uint
	ClientID   *uint
	Category   string
	DueBefore  *time.Time
}

var paymentSortableFields = map[string]string{
	"createdAt":  "created_at",
	"updatedAt":  "updated_at",
	"billNumber": "bill_number",
	"amount":     "amount",
	"status":     "status",
	"dueDate":    "due_date",
}

// PaymentRepository handles payment data access operations
type PaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository instance
func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create creates a new payment in the database
func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// GetByID retrieves a payment with its counterparties preloaded
func (r *PaymentRepository) GetByID(ctx context.Context, id uint) (*domain.Payment, error) {
	var payment domain.Payment
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Client").
		First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// Update updates an existing payment in the database
func (r *PaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

// Delete removes a payment
func (r *PaymentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.Payment{}, id).Error
}

// List returns a paginated list of payments restricted to the caller's
// ownership scope.
func (r *PaymentRepository) List(ctx context.Context, page, perPage int, filters *PaymentFilters, sort SortConfig, scope OwnershipScope) ([]domain.Payment, Page, error) {
	query := r.db.WithContext(ctx).Model(&domain.Payment{}).
		Preload("Supplier").
		Preload("Client")

	if filters != nil {
		var parts []Filter
		if filters.Search != "" {
			parts = append(parts, Like("bill_number", filters.Search))
		}
		if filters.Status != nil {
			parts = append(parts, Eq("status", *filters.Status))
		}
		if filters.SupplierID != nil {
			parts = append(parts, Eq("supplier_id", *filters.SupplierID))
		}
		if filters.ClientID != nil {
			parts = append(parts, Eq("client_id", *filters.ClientID))
		}
		if filters.Category != "" {
			parts = append(parts, Like("category", filters.Category))
		}
		query = ApplyFilter(query, And(parts...))
		if filters.DueBefore != nil {
			query = query.Where("due_date < ?", *filters.DueBefore)
		}
	}

	query = ApplyOwnershipFilter(query, scope)
	query = query.Order(BuildOrderClause(sort, paymentSortableFields, "due_date"))

	var payments []domain.Payment
	pageInfo, err := Paginate(query, page, perPage, &payments)
	return payments, pageInfo, err
}

// MarkOverdue flips pending payments past their due date to overdue and
// returns how many rows changed.
func (r *PaymentRepository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&domain.Payment{}).
		Where("status = ? AND due_date < ?", domain.PaymentStatusPending, now).
		Update("status", domain.PaymentStatusOverdue)
	return result.RowsAffected, result.Error
}

// CountByStatus returns how many payments are in the given status
func (r *PaymentRepository) CountByStatus(ctx context.Context, status domain.PaymentStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Payment{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

// SumAmountByStatus totals the amount of all payments in the given status
func (r *PaymentRepository) SumAmountByStatus(ctx context.Context, status domain.PaymentStatus) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&domain.Payment{}).
		Where("status = ?", status).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
