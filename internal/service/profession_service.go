package service

import (
	"context"

	"github.com/norvik-group/facility-api/internal/domain"
	"github.com/norvik-group/facility-api/internal/repository"
	"go.uber.org/zap"
)

// ProfessionService manages the trade registry. Professions are keyed by
// name; saving an existing name updates it in place.
type ProfessionService struct {
	professions *repository.ProfessionRepository
	perms       *PermissionService
	logger      *zap.Logger
}

// NewProfessionService creates a new profession service instance
func NewProfessionService(professions *repository.ProfessionRepository, perms *PermissionService, logger *zap.Logger) *ProfessionService {
	return &ProfessionService{professions: professions, perms: perms, logger: logger}
}

// Upsert creates or updates a profession by name
func (s *ProfessionService) Upsert(ctx context.Context, req *domain.UpsertProfessionRequest) (*domain.Profession, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleProfessions, domain.CapabilityCreate); err != nil {
		return nil, err
	}

	p := &domain.Profession{
		Name:        req.Name,
		Description: req.Description,
		HourlyRate:  req.HourlyRate,
	}
	if err := s.professions.Upsert(ctx, p); err != nil {
		s.logger.Error("failed to upsert profession", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}

	s.logger.Info("profession saved", zap.String("name", p.Name))
	return s.professions.GetByName(ctx, req.Name)
}

// Get retrieves a profession by name
func (s *ProfessionService) Get(ctx context.Context, name string) (*domain.Profession, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleProfessions, domain.CapabilityView); err != nil {
		return nil, err
	}

	p, err := s.professions.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProfessionNotFound
	}
	return p, nil
}

// List returns all professions
func (s *ProfessionService) List(ctx context.Context) ([]domain.Profession, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleProfessions, domain.CapabilityView); err != nil {
		return nil, err
	}
	return s.professions.List(ctx)
}

// Delete removes a profession by name
func (s *ProfessionService) Delete(ctx context.Context, name string) error {
	if err := s.perms.Authorize(ctx, domain.ModuleProfessions, domain.CapabilityDelete); err != nil {
		return err
	}

	p, err := s.professions.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrProfessionNotFound
	}

	if err := s.professions.Delete(ctx, name); err != nil {
		return err
	}
	s.logger.Info("profession deleted", zap.String("name", name))
	return nil
}
