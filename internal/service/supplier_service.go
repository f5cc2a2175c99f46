package service

import (
	"context"
	"errors"

	"github.com/norvik-group/facility-api/internal/domain"
	"github.com/norvik-group/facility-api/internal/erp"
	"github.com/norvik-group/facility-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrLedgerUnavailable is returned when the accounting ledger integration is
// not configured.
var ErrLedgerUnavailable = errors.New("accounting ledger unavailable")

// SupplierService manages the vendor registry and its type classification.
// When the accounting ledger is configured it also resolves vendor balances.
type SupplierService struct {
	suppliers *repository.SupplierRepository
	ledger    *erp.Client
	perms     *PermissionService
	logger    *zap.Logger
}

// NewSupplierService creates a new supplier service instance. The ledger
// client may be nil when the integration is disabled.
func NewSupplierService(suppliers *repository.SupplierRepository, ledger *erp.Client, perms *PermissionService, logger *zap.Logger) *SupplierService {
	return &SupplierService{suppliers: suppliers, ledger: ledger, perms: perms, logger: logger}
}

// Create registers a new supplier. VAT numbers are unique across the
// registry.
func (s *SupplierService) Create(ctx context.Context, req *domain.CreateSupplierRequest) (*domain.Supplier, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleSuppliers, domain.CapabilityCreate); err != nil {
		return nil, err
	}

	existing, err := s.suppliers.GetByVATNumber(ctx, req.VATNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateVATNumber
	}

	supplier := &domain.Supplier{
		Name:          req.Name,
		VATNumber:     req.VATNumber,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		City:          req.City,
		PostalCode:    req.PostalCode,
		Country:       req.Country,
		ContactPerson: req.ContactPerson,
		PaymentTerms:  req.PaymentTerms,
		Notes:         req.Notes,
	}
	if req.Status != "" {
		supplier.Status = domain.SupplierStatus(req.Status)
	}
	if len(req.TypeIDs) > 0 {
		types, err := s.suppliers.GetTypesByIDs(ctx, req.TypeIDs)
		if err != nil {
			return nil, err
		}
		if len(types) != len(req.TypeIDs) {
			return nil, ErrSupplierTypeNotFound
		}
		supplier.Types = types
	}
	stampCreate(ctx, &supplier.OwnedModel)

	if err := s.suppliers.Create(ctx, supplier); err != nil {
		s.logger.Error("failed to create supplier", zap.Error(err))
		return nil, err
	}

	s.logger.Info("supplier created",
		zap.Uint("id", supplier.ID),
		zap.String("name", supplier.Name),
		zap.String("vatNumber", supplier.VATNumber))
	return supplier, nil
}

// Get retrieves a single supplier with its type links
func (s *SupplierService) Get(ctx context.Context, id uint) (*domain.Supplier, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleSuppliers, domain.CapabilityView); err != nil {
		return nil, err
	}

	supplier, err := s.suppliers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, err
	}
	return supplier, nil
}

// List returns suppliers visible to the caller
func (s *SupplierService) List(ctx context.Context, page, perPage int, filters *repository.SupplierFilters, sort repository.SortConfig) ([]domain.Supplier, repository.Page, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleSuppliers, domain.CapabilityView); err != nil {
		return nil, repository.Page{}, err
	}

	scope := s.perms.Scope(ctx, domain.ModuleSuppliers)
	return s.suppliers.List(ctx, page, perPage, filters, sort, scope)
}

// Update applies a partial update to a supplier. When TypeIDs is present the
// whole type set is replaced atomically.
func (s *SupplierService) Update(ctx context.Context, id uint, req *domain.UpdateSupplierRequest) (*domain.Supplier, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleSuppliers, domain.CapabilityEdit); err != nil {
		return nil, err
	}

	supplier, err := s.suppliers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, err
	}

	if req.VATNumber != nil && *req.VATNumber != supplier.VATNumber {
		existing, err := s.suppliers.GetByVATNumber(ctx, *req.VATNumber)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, ErrDuplicateVATNumber
		}
		supplier.VATNumber = *req.VATNumber
	}
	if req.Name != nil {
		supplier.Name = *req.Name
	}
	if req.Email != nil {
		supplier.Email = *req.Email
	}
	if req.Phone != nil {
		supplier.Phone = *req.Phone
	}
	if req.Address != nil {
		supplier.Address = *req.Address
	}
	if req.City != nil {
		supplier.City = *req.City
	}
	if req.PostalCode != nil {
		supplier.PostalCode = *req.PostalCode
	}
	if req.Country != nil {
		supplier.Country = *req.Country
	}
	if req.ContactPerson != nil {
		supplier.ContactPerson = *req.ContactPerson
	}
	if req.Status != nil {
		supplier.Status = domain.SupplierStatus(*req.Status)
	}
	if req.PaymentTerms != nil {
		supplier.PaymentTerms = *req.PaymentTerms
	}
	if req.Notes != nil {
		supplier.Notes = *req.Notes
	}
	stampUpdate(ctx, &supplier.OwnedModel)

	supplier.Types = nil
	if err := s.suppliers.Update(ctx, supplier); err != nil {
		s.logger.Error("failed to update supplier", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	if req.TypeIDs != nil {
		types, err := s.suppliers.GetTypesByIDs(ctx, *req.TypeIDs)
		if err != nil {
			return nil, err
		}
		if len(types) != len(*req.TypeIDs) {
			return nil, ErrSupplierTypeNotFound
		}
		if err := s.suppliers.ReplaceTypes(ctx, id, types); err != nil {
			s.logger.Error("failed to replace supplier types", zap.Uint("id", id), zap.Error(err))
			return nil, err
		}
	}

	return s.suppliers.GetByID(ctx, id)
}

// Delete removes a supplier together with its type links
func (s *SupplierService) Delete(ctx context.Context, id uint) error {
	if err := s.perms.Authorize(ctx, domain.ModuleSuppliers, domain.CapabilityDelete); err != nil {
		return err
	}

	if _, err := s.suppliers.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSupplierNotFound
		}
		return err
	}

	if err := s.suppliers.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("supplier deleted", zap.Uint("id", id))
	return nil
}

// ListTypes returns the vendor type catalogue
func (s *SupplierService) ListTypes(ctx context.Context) ([]domain.SupplierType, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleSuppliers, domain.CapabilityView); err != nil {
		return nil, err
	}
	return s.suppliers.ListTypes(ctx)
}

// CreateType adds a vendor type to the catalogue
func (s *SupplierService) CreateType(ctx context.Context, req *domain.CreateSupplierTypeRequest) (*domain.SupplierType, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleSuppliers, domain.CapabilityCreate); err != nil {
		return nil, err
	}

	t := &domain.SupplierType{Name: req.Name, Description: req.Description}
	if err := s.suppliers.CreateType(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteType removes a vendor type and detaches it from all suppliers
func (s *SupplierService) DeleteType(ctx context.Context, id uint) error {
	if err := s.perms.Authorize(ctx, domain.ModuleSuppliers, domain.CapabilityDelete); err != nil {
		return err
	}
	return s.suppliers.DeleteType(ctx, id)
}

// LedgerBalance looks up the supplier's open balance in the accounting
// ledger by VAT number. Returns nil when the vendor has no ledger entry.
func (s *SupplierService) LedgerBalance(ctx context.Context, id uint) (*erp.VendorBalance, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleSuppliers, domain.CapabilityView); err != nil {
		return nil, err
	}
	if !s.ledger.IsEnabled() {
		return nil, ErrLedgerUnavailable
	}

	supplier, err := s.suppliers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, err
	}
	return s.ledger.VendorBalanceByVAT(ctx, supplier.VATNumber)
}
