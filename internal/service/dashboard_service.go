package service

import (
	"context"
	"time"

	"github.com/norvik-group/facility-api/internal/domain"
	"github.com/norvik-group/facility-api/internal/repository"
	"go.uber.org/zap"
)

// DashboardService aggregates headline numbers across the modules
type DashboardService struct {
	orders         *repository.WorkOrderRepository
	payments       *repository.PaymentRepository
	suppliers      *repository.SupplierRepository
	clients        *repository.ClientRepository
	accommodations *repository.AccommodationRepository
	perms          *PermissionService
	logger         *zap.Logger
}

// NewDashboardService creates a new dashboard service instance
func NewDashboardService(
	orders *repository.WorkOrderRepository,
	payments *repository.PaymentRepository,
	suppliers *repository.SupplierRepository,
	clients *repository.ClientRepository,
	accommodations *repository.AccommodationRepository,
	perms *PermissionService,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		orders:         orders,
		payments:       payments,
		suppliers:      suppliers,
		clients:        clients,
		accommodations: accommodations,
		perms:          perms,
		logger:         logger,
	}
}

// Summary builds the dashboard headline aggregate
func (s *DashboardService) Summary(ctx context.Context) (*domain.DashboardSummary, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleDashboard, domain.CapabilityView); err != nil {
		return nil, err
	}

	summary := &domain.DashboardSummary{}
	var err error

	if summary.OpenWorkOrders, err = s.orders.CountOpen(ctx); err != nil {
		return nil, err
	}
	if summary.BreachedWorkOrders, err = s.orders.CountBreached(ctx); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if summary.CompletedThisMonth, err = s.orders.CountCompletedSince(ctx, monthStart); err != nil {
		return nil, err
	}
	if summary.TotalWorkOrderValue, err = s.orders.SumValue(ctx); err != nil {
		return nil, err
	}

	if summary.PendingPayments, err = s.payments.CountByStatus(ctx, domain.PaymentStatusPending); err != nil {
		return nil, err
	}
	if summary.OverduePayments, err = s.payments.CountByStatus(ctx, domain.PaymentStatusOverdue); err != nil {
		return nil, err
	}
	if summary.PendingAmount, err = s.payments.SumAmountByStatus(ctx, domain.PaymentStatusPending); err != nil {
		return nil, err
	}

	if summary.ActiveSuppliers, err = s.suppliers.CountActive(ctx); err != nil {
		return nil, err
	}
	if summary.ActiveClients, err = s.clients.CountActive(ctx); err != nil {
		return nil, err
	}

	if summary.OccupiedUnits, err = s.accommodations.CountByStatus(ctx, domain.AccommodationStatusOccupied); err != nil {
		return nil, err
	}
	if summary.AvailableUnits, err = s.accommodations.CountByStatus(ctx, domain.AccommodationStatusAvailable); err != nil {
		return nil, err
	}

	return summary, nil
}

// WorkOrdersByStatus returns the status breakdown for the dashboard chart
func (s *DashboardService) WorkOrdersByStatus(ctx context.Context) ([]domain.WorkOrderStatusCount, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleDashboard, domain.CapabilityView); err != nil {
		return nil, err
	}
	return s.orders.CountByStatus(ctx)
}
