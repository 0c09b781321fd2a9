package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"faktura/internal/domain"
	"faktura/internal/port"
)

// RegisterInput is the DTO for registering a tenant with its first user.
type RegisterInput struct {
	CompanyName string `json:"company_name" binding:"required"`
	TaxID       string `json:"tax_id" binding:"required"`
	Address     string `json:"address"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	FullName    string `json:"full_name" binding:"required"`
}

// RegisterOutput contains the results of a successful registration.
type RegisterOutput struct {
	Tenant *domain.Tenant `json:"tenant"`
	User   *domain.User   `json:"user"`
	Tokens *TokenPair     `json:"tokens"`
}

// RegistrationService defines the tenant self-registration contract. The
// first user of a tenant always becomes the admin.
type RegistrationService interface {
	Register(ctx context.Context, input RegisterInput) (*RegisterOutput, error)
}

type registrationService struct {
	tenantRepo port.TenantRepository
	userRepo   port.UserRepository
	authSvc    AuthService
}

// NewRegistrationService creates a new RegistrationService.
func NewRegistrationService(
	tenantRepo port.TenantRepository,
	userRepo port.UserRepository,
	authSvc AuthService,
) RegistrationService {
	return &registrationService{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
		authSvc:    authSvc,
	}
}

func (s *registrationService) Register(ctx context.Context, input RegisterInput) (*RegisterOutput, error) {
	tenant := &domain.Tenant{
		ID:       uuid.New(),
		Name:     input.CompanyName,
		TaxID:    input.TaxID,
		Address:  input.Address,
		IsActive: true,
	}
	if err := s.tenantRepo.Create(ctx, tenant); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		TenantID:     tenant.ID,
		Email:        input.Email,
		PasswordHash: string(hash),
		FullName:     input.FullName,
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	tokens, err := s.authSvc.Login(ctx, LoginInput{
		TaxID:    input.TaxID,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("issuing tokens after registration: %w", err)
	}

	return &RegisterOutput{Tenant: tenant, User: user, Tokens: tokens}, nil
}
