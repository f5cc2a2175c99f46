package service

import (
	"context"
	"errors"

	"github.com/norvik-group/facility-api/internal/domain"
	"github.com/norvik-group/facility-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AccommodationService manages housing records
type AccommodationService struct {
	accommodations *repository.AccommodationRepository
	clients        *repository.ClientRepository
	perms          *PermissionService
	logger         *zap.Logger
}

// NewAccommodationService creates a new accommodation service instance
func NewAccommodationService(
	accommodations *repository.AccommodationRepository,
	clients *repository.ClientRepository,
	perms *PermissionService,
	logger *zap.Logger,
) *AccommodationService {
	return &AccommodationService{
		accommodations: accommodations,
		clients:        clients,
		perms:          perms,
		logger:         logger,
	}
}

// Create registers a new accommodation
func (s *AccommodationService) Create(ctx context.Context, req *domain.CreateAccommodationRequest) (*domain.Accommodation, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleAccommodations, domain.CapabilityCreate); err != nil {
		return nil, err
	}

	if req.ClientID != nil {
		if _, err := s.clients.GetByID(ctx, *req.ClientID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrClientNotFound
			}
			return nil, err
		}
	}

	acc := &domain.Accommodation{
		Name:        req.Name,
		Address:     req.Address,
		City:        req.City,
		PostalCode:  req.PostalCode,
		Country:     req.Country,
		Capacity:    req.Capacity,
		MonthlyRent: req.MonthlyRent,
		ClientID:    req.ClientID,
		Notes:       req.Notes,
	}
	if req.Type != "" {
		acc.Type = domain.AccommodationType(req.Type)
	}
	if req.Status != "" {
		acc.Status = domain.AccommodationStatus(req.Status)
	}
	if acc.Capacity < 1 {
		acc.Capacity = 1
	}
	stampCreate(ctx, &acc.OwnedModel)

	if err := s.accommodations.Create(ctx, acc); err != nil {
		s.logger.Error("failed to create accommodation", zap.Error(err))
		return nil, err
	}

	s.logger.Info("accommodation created",
		zap.Uint("id", acc.ID),
		zap.String("name", acc.Name))
	return acc, nil
}

// Get retrieves a single accommodation
func (s *AccommodationService) Get(ctx context.Context, id uint) (*domain.Accommodation, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleAccommodations, domain.CapabilityView); err != nil {
		return nil, err
	}

	acc, err := s.accommodations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccommodationNotFound
		}
		return nil, err
	}
	return acc, nil
}

// List returns accommodations visible to the caller
func (s *AccommodationService) List(ctx context.Context, page, perPage int, filters *repository.AccommodationFilters, sort repository.SortConfig) ([]domain.Accommodation, repository.Page, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleAccommodations, domain.CapabilityView); err != nil {
		return nil, repository.Page{}, err
	}

	scope := s.perms.Scope(ctx, domain.ModuleAccommodations)
	return s.accommodations.List(ctx, page, perPage, filters, sort, scope)
}

// Update applies a partial update to an accommodation
func (s *AccommodationService) Update(ctx context.Context, id uint, req *domain.UpdateAccommodationRequest) (*domain.Accommodation, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleAccommodations, domain.CapabilityEdit); err != nil {
		return nil, err
	}

	acc, err := s.accommodations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccommodationNotFound
		}
		return nil, err
	}

	if req.ClientID != nil {
		if _, err := s.clients.GetByID(ctx, *req.ClientID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrClientNotFound
			}
			return nil, err
		}
		acc.ClientID = req.ClientID
	}
	if req.Name != nil {
		acc.Name = *req.Name
	}
	if req.Address != nil {
		acc.Address = *req.Address
	}
	if req.City != nil {
		acc.City = *req.City
	}
	if req.PostalCode != nil {
		acc.PostalCode = *req.PostalCode
	}
	if req.Country != nil {
		acc.Country = *req.Country
	}
	if req.Type != nil {
		acc.Type = domain.AccommodationType(*req.Type)
	}
	if req.Status != nil {
		acc.Status = domain.AccommodationStatus(*req.Status)
	}
	if req.Capacity != nil {
		acc.Capacity = *req.Capacity
	}
	if req.MonthlyRent != nil {
		acc.MonthlyRent = *req.MonthlyRent
	}
	if req.Notes != nil {
		acc.Notes = *req.Notes
	}
	stampUpdate(ctx, &acc.OwnedModel)

	if err := s.accommodations.Update(ctx, acc); err != nil {
		s.logger.Error("failed to update accommodation", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return acc, nil
}

// Delete removes an accommodation
func (s *AccommodationService) Delete(ctx context.Context, id uint) error {
	if err := s.perms.Authorize(ctx, domain.ModuleAccommodations, domain.CapabilityDelete); err != nil {
		return err
	}

	if _, err := s.accommodations.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAccommodationNotFound
		}
		return err
	}

	if err := s.accommodations.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("accommodation deleted", zap.Uint("id", id))
	return nil
}
