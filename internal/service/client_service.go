package service

import (
	"context"
	"errors"

	"github.com/norvik-group/facility-api/internal/domain"
	"github.com/norvik-group/facility-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ClientService manages the client registry
type ClientService struct {
	clients *repository.ClientRepository
	perms   *PermissionService
	logger  *zap.Logger
}

// NewClientService creates a new client service instance
func NewClientService(clients *repository.ClientRepository, perms *PermissionService, logger *zap.Logger) *ClientService {
	return &ClientService{clients: clients, perms: perms, logger: logger}
}

// Create registers a new client. Organization numbers are unique.
func (s *ClientService) Create(ctx context.Context, req *domain.CreateClientRequest) (*domain.Client, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleClients, domain.CapabilityCreate); err != nil {
		return nil, err
	}

	existing, err := s.clients.GetByOrgNumber(ctx, req.OrgNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateOrgNumber
	}

	client := &domain.Client{
		Name:          req.Name,
		OrgNumber:     req.OrgNumber,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		City:          req.City,
		ContactPerson: req.ContactPerson,
		IsActive:      true,
	}
	stampCreate(ctx, &client.OwnedModel)

	if err := s.clients.Create(ctx, client); err != nil {
		s.logger.Error("failed to create client", zap.Error(err))
		return nil, err
	}

	s.logger.Info("client created",
		zap.Uint("id", client.ID),
		zap.String("name", client.Name))
	return client, nil
}

// Get retrieves a single client with its pricing rules
func (s *ClientService) Get(ctx context.Context, id uint) (*domain.Client, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleClients, domain.CapabilityView); err != nil {
		return nil, err
	}

	client, err := s.clients.GetWithPricingRules(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return client, nil
}

// List returns clients visible to the caller
func (s *ClientService) List(ctx context.Context, page, perPage int, filters *repository.ClientFilters, sort repository.SortConfig) ([]domain.Client, repository.Page, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleClients, domain.CapabilityView); err != nil {
		return nil, repository.Page{}, err
	}

	scope := s.perms.Scope(ctx, domain.ModuleClients)
	return s.clients.List(ctx, page, perPage, filters, sort, scope)
}

// Update applies a partial update to a client
func (s *ClientService) Update(ctx context.Context, id uint, req *domain.UpdateClientRequest) (*domain.Client, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleClients, domain.CapabilityEdit); err != nil {
		return nil, err
	}

	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	if req.OrgNumber != nil && *req.OrgNumber != client.OrgNumber {
		existing, err := s.clients.GetByOrgNumber(ctx, *req.OrgNumber)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, ErrDuplicateOrgNumber
		}
		client.OrgNumber = *req.OrgNumber
	}
	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.Email != nil {
		client.Email = *req.Email
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.Address != nil {
		client.Address = *req.Address
	}
	if req.City != nil {
		client.City = *req.City
	}
	if req.ContactPerson != nil {
		client.ContactPerson = *req.ContactPerson
	}
	if req.IsActive != nil {
		client.IsActive = *req.IsActive
	}
	stampUpdate(ctx, &client.OwnedModel)

	if err := s.clients.Update(ctx, client); err != nil {
		s.logger.Error("failed to update client", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return client, nil
}

// Delete removes a client; its pricing rules go with it
func (s *ClientService) Delete(ctx context.Context, id uint) error {
	if err := s.perms.Authorize(ctx, domain.ModuleClients, domain.CapabilityDelete); err != nil {
		return err
	}

	if _, err := s.clients.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClientNotFound
		}
		return err
	}

	if err := s.clients.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("client deleted", zap.Uint("id", id))
	return nil
}
