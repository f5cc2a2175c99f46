package service

import (
	"context"
	"errors"
	"time"

	"github.com/norvik-group/facility-api/internal/auth"
	"github.com/norvik-group/facility-api/internal/domain"
	"github.com/norvik-group/facility-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const timestampLayout = time.RFC3339

// WorkOrderService manages maintenance tickets across their lifecycle
type WorkOrderService struct {
	orders         *repository.WorkOrderRepository
	clients        *repository.ClientRepository
	accommodations *repository.AccommodationRepository
	rules          *repository.PricingRuleRepository
	perms          *PermissionService
	logger         *zap.Logger
}

// NewWorkOrderService creates a new work order service instance
func NewWorkOrderService(
	orders *repository.WorkOrderRepository,
	clients *repository.ClientRepository,
	accommodations *repository.AccommodationRepository,
	rules *repository.PricingRuleRepository,
	perms *PermissionService,
	logger *zap.Logger,
) *WorkOrderService {
	return &WorkOrderService{
		orders:         orders,
		clients:        clients,
		accommodations: accommodations,
		rules:          rules,
		perms:          perms,
		logger:         logger,
	}
}

// Create opens a new work order. The SLA deadline is derived from the
// priority tier at creation time.
func (s *WorkOrderService) Create(ctx context.Context, req *domain.CreateWorkOrderRequest) (*domain.WorkOrder, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleWorkOrders, domain.CapabilityCreate); err != nil {
		return nil, err
	}

	if _, err := s.clients.GetByID(ctx, req.ClientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	if req.AccommodationID != nil {
		if _, err := s.accommodations.GetByID(ctx, *req.AccommodationID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAccommodationNotFound
			}
			return nil, err
		}
	}

	priority := domain.WorkOrderPriority(req.Priority)
	if !priority.IsValid() {
		priority = domain.PriorityMedium
	}

	now := time.Now().UTC()
	wo := &domain.WorkOrder{
		Title:           req.Title,
		Description:     req.Description,
		ClientID:        req.ClientID,
		AccommodationID: req.AccommodationID,
		IsDiagnostic:    req.IsDiagnostic,
		Priority:        priority,
		Status:          domain.WorkOrderStatusRequested,
		SLADueAt:        now.Add(time.Duration(priority.SLAHours()) * time.Hour),
		AssignedTo:      req.AssignedTo,
	}
	if req.ScheduledAt != "" {
		at, err := time.Parse(timestampLayout, req.ScheduledAt)
		if err != nil {
			return nil, ErrInvalidInput
		}
		wo.ScheduledAt = &at
	}
	stampCreate(ctx, &wo.OwnedModel)

	if err := s.orders.Create(ctx, wo); err != nil {
		s.logger.Error("failed to create work order", zap.Error(err))
		return nil, err
	}

	s.logger.Info("work order created",
		zap.Uint("id", wo.ID),
		zap.Uint("clientId", wo.ClientID),
		zap.Int("priority", int(wo.Priority)),
		zap.Time("slaDueAt", wo.SLADueAt))
	return wo, nil
}

// Get retrieves a work order with its line items
func (s *WorkOrderService) Get(ctx context.Context, id uint) (*domain.WorkOrder, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleWorkOrders, domain.CapabilityView); err != nil {
		return nil, err
	}
	return s.getOrder(ctx, id)
}

// List returns work orders visible to the caller
func (s *WorkOrderService) List(ctx context.Context, page, perPage int, filters *repository.WorkOrderFilters, sort repository.SortConfig) ([]domain.WorkOrder, repository.Page, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleWorkOrders, domain.CapabilityView); err != nil {
		return nil, repository.Page{}, err
	}

	scope := s.perms.Scope(ctx, domain.ModuleWorkOrders)
	return s.orders.List(ctx, page, perPage, filters, sort, scope)
}

// Update applies a partial update to a work order. Status values are checked
// against the known states; any valid value is accepted. Changing priority
// rebases the SLA deadline on the ticket's creation time.
func (s *WorkOrderService) Update(ctx context.Context, id uint, req *domain.UpdateWorkOrderRequest) (*domain.WorkOrder, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleWorkOrders, domain.CapabilityEdit); err != nil {
		return nil, err
	}

	wo, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.AccommodationID != nil {
		if _, err := s.accommodations.GetByID(ctx, *req.AccommodationID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAccommodationNotFound
			}
			return nil, err
		}
		wo.AccommodationID = req.AccommodationID
	}
	if req.Title != nil {
		wo.Title = *req.Title
	}
	if req.Description != nil {
		wo.Description = *req.Description
	}
	if req.IsDiagnostic != nil {
		wo.IsDiagnostic = *req.IsDiagnostic
	}
	if req.Priority != nil {
		priority := domain.WorkOrderPriority(*req.Priority)
		if !priority.IsValid() {
			return nil, ErrInvalidInput
		}
		if priority != wo.Priority {
			wo.Priority = priority
			wo.SLADueAt = wo.CreatedAt.Add(time.Duration(priority.SLAHours()) * time.Hour)
		}
	}
	if req.Status != nil {
		status := domain.WorkOrderStatus(*req.Status)
		if !status.IsValid() {
			return nil, ErrInvalidStatus
		}
		if status != wo.Status {
			s.logger.Info("work order status changed",
				zap.Uint("id", wo.ID),
				zap.String("from", string(wo.Status)),
				zap.String("to", string(status)))
			wo.Status = status
			if status == domain.WorkOrderStatusCompleted {
				now := time.Now().UTC()
				wo.CompletedAt = &now
			} else {
				wo.CompletedAt = nil
			}
		}
	}
	if req.ScheduledAt != nil {
		at, err := time.Parse(timestampLayout, *req.ScheduledAt)
		if err != nil {
			return nil, ErrInvalidInput
		}
		wo.ScheduledAt = &at
	}
	if req.AssignedTo != nil {
		wo.AssignedTo = req.AssignedTo
	}
	stampUpdate(ctx, &wo.OwnedModel)

	if err := s.orders.Update(ctx, wo); err != nil {
		s.logger.Error("failed to update work order", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return s.getOrder(ctx, id)
}

// Delete removes a work order and its line items
func (s *WorkOrderService) Delete(ctx context.Context, id uint) error {
	if err := s.perms.Authorize(ctx, domain.ModuleWorkOrders, domain.CapabilityDelete); err != nil {
		return err
	}

	if _, err := s.getOrder(ctx, id); err != nil {
		return err
	}

	if err := s.orders.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("work order deleted", zap.Uint("id", id))
	return nil
}

// ReopenAsWarranty reopens a completed work order under warranty. The ticket
// gets a fresh SLA window from the current time.
func (s *WorkOrderService) ReopenAsWarranty(ctx context.Context, id uint) (*domain.WorkOrder, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleWorkOrders, domain.CapabilityEdit); err != nil {
		return nil, err
	}

	wo, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if wo.Status != domain.WorkOrderStatusCompleted {
		return nil, ErrInvalidStatus
	}

	now := time.Now().UTC()
	wo.Status = domain.WorkOrderStatusWarranty
	wo.ReopenedAsWarranty = true
	wo.CompletedAt = nil
	wo.SLADueAt = now.Add(time.Duration(wo.Priority.SLAHours()) * time.Hour)
	wo.SLABreached = false
	stampUpdate(ctx, &wo.OwnedModel)

	if err := s.orders.Update(ctx, wo); err != nil {
		return nil, err
	}

	s.logger.Info("work order reopened under warranty", zap.Uint("id", id))
	return s.getOrder(ctx, id)
}

// MarkSLABreaches flags open orders past their deadline. Called by the
// scheduled job, so it bypasses the per-user permission check.
func (s *WorkOrderService) MarkSLABreaches(ctx context.Context, now time.Time) (int64, error) {
	changed, err := s.orders.MarkSLABreaches(ctx, now)
	if err != nil {
		return 0, err
	}
	if changed > 0 {
		s.logger.Warn("work orders breached SLA", zap.Int64("count", changed))
	}
	return changed, nil
}

// --- Line items ---

// AddService attaches a priced service line to a work order
func (s *WorkOrderService) AddService(ctx context.Context, workOrderID uint, req *domain.CreateWorkOrderServiceRequest) (*domain.WorkOrderService, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleWorkOrders, domain.CapabilityEdit); err != nil {
		return nil, err
	}
	if _, err := s.getOrder(ctx, workOrderID); err != nil {
		return nil, err
	}

	svc := &domain.WorkOrderService{
		WorkOrderID:     workOrderID,
		ServiceCategory: req.ServiceCategory,
		Description:     req.Description,
		Price:           req.Price,
	}
	if err := s.orders.AddService(ctx, svc); err != nil {
		return nil, err
	}
	if err := s.RecomputeValue(ctx, workOrderID); err != nil {
		return nil, err
	}
	return svc, nil
}

// DeleteService removes a service line and recomputes the order value
func (s *WorkOrderService) DeleteService(ctx context.Context, workOrderID, serviceID uint) error {
	if err := s.perms.Authorize(ctx, domain.ModuleWorkOrders, domain.CapabilityEdit); err != nil {
		return err
	}
	svc, err := s.orders.GetService(ctx, serviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLineItemNotFound
		}
		return err
	}
	if svc.WorkOrderID != workOrderID {
		return ErrLineItemNotFound
	}
	if err := s.orders.DeleteService(ctx, serviceID); err != nil {
		return err
	}
	return s.RecomputeValue(ctx, workOrderID)
}

// ApproveService records the client's approval decision on a service line
func (s *WorkOrderService) ApproveService(ctx context.Context, workOrderID, serviceID uint, approved bool) (*domain.WorkOrderService, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleWorkOrders, domain.CapabilityEdit); err != nil {
		return nil, err
	}
	svc, err := s.orders.GetService(ctx, serviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLineItemNotFound
		}
		return nil, err
	}
	if svc.WorkOrderID != workOrderID {
		return nil, ErrLineItemNotFound
	}

	applyApproval(ctx, &svc.ClientApproval, approved)
	if err := s.orders.UpdateService(ctx, svc); err != nil {
		return nil, err
	}
	if err := s.RecomputeValue(ctx, workOrderID); err != nil {
		return nil, err
	}
	return svc, nil
}

// AddPart attaches a material line; the total is quantity times unit price
func (s *WorkOrderService) AddPart(ctx context.Context, workOrderID uint, req *domain.CreateWorkOrderPartRequest) (*domain.WorkOrderPart, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleWorkOrders, domain.CapabilityEdit); err != nil {
		return nil, err
	}
	if _, err := s.getOrder(ctx, workOrderID); err != nil {
		return nil, err
	}

	part := &domain.WorkOrderPart{
		WorkOrderID:     workOrderID,
		Name:            req.Name,
		ServiceCategory: req.ServiceCategory,
		Quantity:        req.Quantity,
		UnitPrice:       req.UnitPrice,
		TotalPrice:      req.Quantity * req.UnitPrice,
	}
	if err := s.orders.AddPart(ctx, part); err != nil {
		return nil, err
	}
	if err := s.RecomputeValue(ctx, workOrderID); err != nil {
		return nil, err
	}
	return part, nil
}

// DeletePart removes a material line and recomputes the order value
func (s *WorkOrderService) DeletePart(ctx context.Context, workOrderID, partID uint) error {
	if err := s.perms.Authorize(ctx, domain.ModuleWorkOrders, domain.CapabilityEdit); err != nil {
		return err
	}
	part, err := s.orders.GetPart(ctx, partID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLineItemNotFound
		}
		return err
	}
	if part.WorkOrderID != workOrderID {
		return ErrLineItemNotFound
	}
	if err := s.orders.DeletePart(ctx, partID); err != nil {
		return err
	}
	return s.RecomputeValue(ctx, workOrderID)
}

// ApprovePart records the client's approval decision on a material line
func (s *WorkOrderService) ApprovePart(ctx context.Context, workOrderID, partID uint, approved bool) (*domain.WorkOrderPart, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleWorkOrders, domain.CapabilityEdit); err != nil {
		return nil, err
	}
	part, err := s.orders.GetPart(ctx, partID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLineItemNotFound
		}
		return nil, err
	}
	if part.WorkOrderID != workOrderID {
		return nil, ErrLineItemNotFound
	}

	applyApproval(ctx, &part.ClientApproval, approved)
	if err := s.orders.UpdatePart(ctx, part); err != nil {
		return nil, err
	}
	if err := s.RecomputeValue(ctx, workOrderID); err != nil {
		return nil, err
	}
	return part, nil
}

// AddAddon attaches an extra priced item to a work order
func (s *WorkOrderService) AddAddon(ctx context.Context, workOrderID uint, req *domain.CreateWorkOrderAddonRequest) (*domain.WorkOrderAddon, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleWorkOrders, domain.CapabilityEdit); err != nil {
		return nil, err
	}
	if _, err := s.getOrder(ctx, workOrderID); err != nil {
		return nil, err
	}

	addon := &domain.WorkOrderAddon{
		WorkOrderID:     workOrderID,
		Name:            req.Name,
		ServiceCategory: req.ServiceCategory,
		Price:           req.Price,
	}
	if err := s.orders.AddAddon(ctx, addon); err != nil {
		return nil, err
	}
	if err := s.RecomputeValue(ctx, workOrderID); err != nil {
		return nil, err
	}
	return addon, nil
}

// DeleteAddon removes an addon line and recomputes the order value
func (s *WorkOrderService) DeleteAddon(ctx context.Context, workOrderID, addonID uint) error {
	if err := s.perms.Authorize(ctx, domain.ModuleWorkOrders, domain.CapabilityEdit); err != nil {
		return err
	}
	addon, err := s.orders.GetAddon(ctx, addonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLineItemNotFound
		}
		return err
	}
	if addon.WorkOrderID != workOrderID {
		return ErrLineItemNotFound
	}
	if err := s.orders.DeleteAddon(ctx, addonID); err != nil {
		return err
	}
	return s.RecomputeValue(ctx, workOrderID)
}

// ApproveAddon records the client's approval decision on an addon line
func (s *WorkOrderService) ApproveAddon(ctx context.Context, workOrderID, addonID uint, approved bool) (*domain.WorkOrderAddon, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleWorkOrders, domain.CapabilityEdit); err != nil {
		return nil, err
	}
	addon, err := s.orders.GetAddon(ctx, addonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLineItemNotFound
		}
		return nil, err
	}
	if addon.WorkOrderID != workOrderID {
		return nil, ErrLineItemNotFound
	}

	applyApproval(ctx, &addon.ClientApproval, approved)
	if err := s.orders.UpdateAddon(ctx, addon); err != nil {
		return nil, err
	}
	if err := s.RecomputeValue(ctx, workOrderID); err != nil {
		return nil, err
	}
	return addon, nil
}

// RecomputeValue recalculates the work order value from its approved line
// items. Each line is adjusted by the client's active pricing rules that
// match its service category and line-item kind before summing.
func (s *WorkOrderService) RecomputeValue(ctx context.Context, workOrderID uint) error {
	wo, err := s.getOrder(ctx, workOrderID)
	if err != nil {
		return err
	}

	rules, err := s.rules.ActiveRulesForClient(ctx, wo.ClientID)
	if err != nil {
		return err
	}

	var total float64
	for _, svc := range wo.Services {
		if svc.ApprovedByClient {
			total += adjustedPrice(rules, svc.ServiceCategory, domain.LineItemKindService, svc.Price)
		}
	}
	for _, part := range wo.Parts {
		if part.ApprovedByClient {
			total += adjustedPrice(rules, part.ServiceCategory, domain.LineItemKindMaterial, part.TotalPrice)
		}
	}
	for _, addon := range wo.Addons {
		if addon.ApprovedByClient {
			total += adjustedPrice(rules, addon.ServiceCategory, domain.LineItemKindAddon, addon.Price)
		}
	}

	return s.orders.UpdateValue(ctx, workOrderID, total)
}

// adjustedPrice runs a base price through every rule matching the line's
// service category and kind.
func adjustedPrice(rules []domain.PricingRule, category, kind string, base float64) float64 {
	price := base
	for i := range rules {
		rule := &rules[i]
		if rule.ServiceCategory == category && rule.AppliesToKind(kind) {
			price = rule.Adjust(price)
		}
	}
	return price
}

// applyApproval stamps or clears the approval columns for the acting user
func applyApproval(ctx context.Context, approval *domain.ClientApproval, approved bool) {
	if approved {
		uid := auth.UserID(ctx)
		now := time.Now().UTC()
		approval.ApprovedByClient = true
		approval.ApprovedByUserID = &uid
		approval.ApprovedDate = &now
		return
	}
	approval.ApprovedByClient = false
	approval.ApprovedByUserID = nil
	approval.ApprovedDate = nil
}

func (s *WorkOrderService) getOrder(ctx context.Context, id uint) (*domain.WorkOrder, error) {
	wo, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkOrderNotFound
		}
		return nil, err
	}
	return wo, nil
}
