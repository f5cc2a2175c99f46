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

// AssetService manages equipment registered against accommodations
type AssetService struct {
	assets         *repository.AssetRepository
	accommodations *repository.AccommodationRepository
	perms          *PermissionService
	logger         *zap.Logger
}

// NewAssetService creates a new asset service instance
func NewAssetService(
	assets *repository.AssetRepository,
	accommodations *repository.AccommodationRepository,
	perms *PermissionService,
	logger *zap.Logger,
) *AssetService {
	return &AssetService{
		assets:         assets,
		accommodations: accommodations,
		perms:          perms,
		logger:         logger,
	}
}

// Create registers a new asset. Serial numbers are unique when given.
func (s *AssetService) Create(ctx context.Context, req *domain.CreateAssetRequest) (*domain.Asset, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleAssets, domain.CapabilityCreate); err != nil {
		return nil, err
	}

	if req.SerialNumber != "" {
		existing, err := s.assets.GetBySerialNumber(ctx, req.SerialNumber)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrDuplicateSerialNumber
		}
	}
	if req.AccommodationID != nil {
		if _, err := s.accommodations.GetByID(ctx, *req.AccommodationID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAccommodationNotFound
			}
			return nil, err
		}
	}

	asset := &domain.Asset{
		Name:            req.Name,
		SerialNumber:    req.SerialNumber,
		Category:        req.Category,
		AccommodationID: req.AccommodationID,
		Tags:            req.Tags,
		Notes:           req.Notes,
	}
	if req.Status != "" {
		asset.Status = domain.AssetStatus(req.Status)
	}
	if req.PurchaseDate != "" {
		d, err := time.Parse(dateLayout, req.PurchaseDate)
		if err != nil {
			return nil, ErrInvalidInput
		}
		asset.PurchaseDate = &d
	}
	if req.WarrantyUntil != "" {
		d, err := time.Parse(dateLayout, req.WarrantyUntil)
		if err != nil {
			return nil, ErrInvalidInput
		}
		asset.WarrantyUntil = &d
	}
	stampCreate(ctx, &asset.OwnedModel)

	if err := s.assets.Create(ctx, asset); err != nil {
		s.logger.Error("failed to create asset", zap.Error(err))
		return nil, err
	}

	s.logger.Info("asset created", zap.Uint("id", asset.ID), zap.String("name", asset.Name))
	return asset, nil
}

// Get retrieves a single asset
func (s *AssetService) Get(ctx context.Context, id uint) (*domain.Asset, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleAssets, domain.CapabilityView); err != nil {
		return nil, err
	}

	asset, err := s.assets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, err
	}
	return asset, nil
}

// List returns assets visible to the caller
func (s *AssetService) List(ctx context.Context, page, perPage int, filters *repository.AssetFilters, sort repository.SortConfig) ([]domain.Asset, repository.Page, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleAssets, domain.CapabilityView); err != nil {
		return nil, repository.Page{}, err
	}

	scope := s.perms.Scope(ctx, domain.ModuleAssets)
	return s.assets.List(ctx, page, perPage, filters, sort, scope)
}

// Update applies a partial update to an asset
func (s *AssetService) Update(ctx context.Context, id uint, req *domain.UpdateAssetRequest) (*domain.Asset, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleAssets, domain.CapabilityEdit); err != nil {
		return nil, err
	}

	asset, err := s.assets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, err
	}

	if req.SerialNumber != nil && *req.SerialNumber != asset.SerialNumber {
		if *req.SerialNumber != "" {
			existing, err := s.assets.GetBySerialNumber(ctx, *req.SerialNumber)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != id {
				return nil, ErrDuplicateSerialNumber
			}
		}
		asset.SerialNumber = *req.SerialNumber
	}
	if req.AccommodationID != nil {
		if _, err := s.accommodations.GetByID(ctx, *req.AccommodationID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAccommodationNotFound
			}
			return nil, err
		}
		asset.AccommodationID = req.AccommodationID
	}
	if req.Name != nil {
		asset.Name = *req.Name
	}
	if req.Category != nil {
		asset.Category = *req.Category
	}
	if req.Status != nil {
		asset.Status = domain.AssetStatus(*req.Status)
	}
	if req.PurchaseDate != nil {
		d, err := time.Parse(dateLayout, *req.PurchaseDate)
		if err != nil {
			return nil, ErrInvalidInput
		}
		asset.PurchaseDate = &d
	}
	if req.WarrantyUntil != nil {
		d, err := time.Parse(dateLayout, *req.WarrantyUntil)
		if err != nil {
			return nil, ErrInvalidInput
		}
		asset.WarrantyUntil = &d
	}
	if req.Tags != nil {
		asset.Tags = *req.Tags
	}
	if req.Notes != nil {
		asset.Notes = *req.Notes
	}
	stampUpdate(ctx, &asset.OwnedModel)

	if err := s.assets.Update(ctx, asset); err != nil {
		s.logger.Error("failed to update asset", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return asset, nil
}

// Delete removes an asset
func (s *AssetService) Delete(ctx context.Context, id uint) error {
	if err := s.perms.Authorize(ctx, domain.ModuleAssets, domain.CapabilityDelete); err != nil {
		return err
	}

	if _, err := s.assets.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssetNotFound
		}
		return err
	}

	if err := s.assets.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("asset deleted", zap.Uint("id", id))
	return nil
}
