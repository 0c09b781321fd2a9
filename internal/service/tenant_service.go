package service

import (
	"context"

	"github.com/google/uuid"

	"faktura/internal/domain"
	"faktura/internal/port"
)

// UpdateTenantInput carries the mutable tenant fields. The tax id is fixed
// at registration and cannot change.
type UpdateTenantInput struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
}

// TenantService exposes the tenant profile operations.
type TenantService interface {
	GetByID(ctx context.Context, tenantID uuid.UUID) (*domain.Tenant, error)
	Update(ctx context.Context, tenantID uuid.UUID, input UpdateTenantInput) (*domain.Tenant, error)
}

type tenantService struct {
	tenantRepo port.TenantRepository
}

// NewTenantService creates a new TenantService.
func NewTenantService(tenantRepo port.TenantRepository) TenantService {
	return &tenantService{tenantRepo: tenantRepo}
}

func (s *tenantService) GetByID(ctx context.Context, tenantID uuid.UUID) (*domain.Tenant, error) {
	return s.tenantRepo.GetByID(ctx, tenantID)
}

func (s *tenantService) Update(ctx context.Context, tenantID uuid.UUID, input UpdateTenantInput) (*domain.Tenant, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		tenant.Name = *input.Name
	}
	if input.Address != nil {
		tenant.Address = *input.Address
	}
	if err := s.tenantRepo.Update(ctx, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}
