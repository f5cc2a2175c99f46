package service

import (
	"context"
	"errors"
	"time"

	"github.com/norvik-group/facility-api/internal/domain"
	"github.com/norvik-group/facility-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// PaymentService tracks bills against suppliers and clients
type PaymentService struct {
	payments  *repository.PaymentRepository
	suppliers *repository.SupplierRepository
	clients   *repository.ClientRepository
	perms     *PermissionService
	logger    *zap.Logger
}

// NewPaymentService creates a new payment service instance
func NewPaymentService(
	payments *repository.PaymentRepository,
	suppliers *repository.SupplierRepository,
	clients *repository.ClientRepository,
	perms *PermissionService,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		payments:  payments,
		suppliers: suppliers,
		clients:   clients,
		perms:     perms,
		logger:    logger,
	}
}

// Create registers a new bill
func (s *PaymentService) Create(ctx context.Context, req *domain.CreatePaymentRequest) (*domain.Payment, error) {
	if err := s.perms.Authorize(ctx, domain.ModulePayments, domain.CapabilityCreate); err != nil {
		return nil, err
	}

	if err := s.checkCounterparties(ctx, req.SupplierID, req.ClientID); err != nil {
		return nil, err
	}

	dueDate, err := time.Parse(dateLayout, req.DueDate)
	if err != nil {
		return nil, ErrInvalidInput
	}

	payment := &domain.Payment{
		BillNumber: req.BillNumber,
		SupplierID: req.SupplierID,
		ClientID:   req.ClientID,
		Amount:     req.Amount,
		Category:   req.Category,
		DueDate:    dueDate,
		Notes:      req.Notes,
	}
	if req.Currency != "" {
		payment.Currency = req.Currency
	}
	if req.Status != "" {
		payment.Status = domain.PaymentStatus(req.Status)
	}
	stampCreate(ctx, &payment.OwnedModel)

	if err := s.payments.Create(ctx, payment); err != nil {
		s.logger.Error("failed to create payment", zap.Error(err))
		return nil, err
	}

	s.logger.Info("payment created",
		zap.Uint("id", payment.ID),
		zap.String("billNumber", payment.BillNumber),
		zap.Float64("amount", payment.Amount))
	return payment, nil
}

// Get retrieves a single payment
func (s *PaymentService) Get(ctx context.Context, id uint) (*domain.Payment, error) {
	if err := s.perms.Authorize(ctx, domain.ModulePayments, domain.CapabilityView); err != nil {
		return nil, err
	}

	payment, err := s.payments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return payment, nil
}

// List returns payments visible to the caller
func (s *PaymentService) List(ctx context.Context, page, perPage int, filters *repository.PaymentFilters, sort repository.SortConfig) ([]domain.Payment, repository.Page, error) {
	if err := s.perms.Authorize(ctx, domain.ModulePayments, domain.CapabilityView); err != nil {
		return nil, repository.Page{}, err
	}

	scope := s.perms.Scope(ctx, domain.ModulePayments)
	return s.payments.List(ctx, page, perPage, filters, sort, scope)
}

// Update applies a partial update to a payment
func (s *PaymentService) Update(ctx context.Context, id uint, req *domain.UpdatePaymentRequest) (*domain.Payment, error) {
	if err := s.perms.Authorize(ctx, domain.ModulePayments, domain.CapabilityEdit); err != nil {
		return nil, err
	}

	payment, err := s.payments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	if err := s.checkCounterparties(ctx, req.SupplierID, req.ClientID); err != nil {
		return nil, err
	}

	if req.BillNumber != nil {
		payment.BillNumber = *req.BillNumber
	}
	if req.SupplierID != nil {
		payment.SupplierID = req.SupplierID
	}
	if req.ClientID != nil {
		payment.ClientID = req.ClientID
	}
	if req.Amount != nil {
		payment.Amount = *req.Amount
	}
	if req.Currency != nil {
		payment.Currency = *req.Currency
	}
	if req.Category != nil {
		payment.Category = *req.Category
	}
	if req.Status != nil {
		payment.Status = domain.PaymentStatus(*req.Status)
	}
	if req.DueDate != nil {
		due, err := time.Parse(dateLayout, *req.DueDate)
		if err != nil {
			return nil, ErrInvalidInput
		}
		payment.DueDate = due
	}
	if req.PaidDate != nil {
		paid, err := time.Parse(dateLayout, *req.PaidDate)
		if err != nil {
			return nil, ErrInvalidInput
		}
		payment.PaidDate = &paid
		payment.Status = domain.PaymentStatusPaid
	}
	if req.Notes != nil {
		payment.Notes = *req.Notes
	}
	stampUpdate(ctx, &payment.OwnedModel)

	if err := s.payments.Update(ctx, payment); err != nil {
		s.logger.Error("failed to update payment", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return payment, nil
}

// Delete removes a payment
func (s *PaymentService) Delete(ctx context.Context, id uint) error {
	if err := s.perms.Authorize(ctx, domain.ModulePayments, domain.CapabilityDelete); err != nil {
		return err
	}

	if _, err := s.payments.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPaymentNotFound
		}
		return err
	}

	if err := s.payments.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("payment deleted", zap.Uint("id", id))
	return nil
}

// MarkOverdue flips pending bills past their due date to overdue. Called by
// the scheduled job, so it bypasses the per-user permission check.
func (s *PaymentService) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	changed, err := s.payments.MarkOverdue(ctx, now)
	if err != nil {
		return 0, err
	}
	if changed > 0 {
		s.logger.Info("payments marked overdue", zap.Int64("count", changed))
	}
	return changed, nil
}

func (s *PaymentService) checkCounterparties(ctx context.Context, supplierID, clientID *uint) error {
	if supplierID != nil {
		if _, err := s.suppliers.GetByID(ctx, *supplierID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSupplierNotFound
			}
			return err
		}
	}
	if clientID != nil {
		if _, err := s.clients.GetByID(ctx, *clientID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClientNotFound
			}
			return err
		}
	}
	return nil
}
