package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"faktura/internal/domain"
	"faktura/internal/port"
)

// InviteUserInput is the DTO for inviting a new user into a tenant.
type InviteUserInput struct {
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"full_name" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// UpdateUserInput carries optional changes to a user. Nil fields are left
// untouched.
type UpdateUserInput struct {
	FullName *string `json:"full_name"`
	Role     *string `json:"role"`
	Password *string `json:"password"`
	IsActive *bool   `json:"is_active"`
}

// UserService manages the users of a tenant. All operations are scoped to
// the caller's tenant.
type UserService interface {
	Invite(ctx context.Context, tenantID uuid.UUID, input InviteUserInput) (*domain.User, error)
	GetByID(ctx context.Context, tenantID, userID uuid.UUID) (*domain.User, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.User, int, error)
	Update(ctx context.Context, tenantID, userID, actorID uuid.UUID, actorRole domain.UserRole, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, tenantID, userID uuid.UUID) error
}

type userService struct {
	userRepo   port.UserRepository
	tenantRepo port.TenantRepository
	emails     port.EmailSender
}

// NewUserService creates a new UserService.
func NewUserService(userRepo port.UserRepository, tenantRepo port.TenantRepository, emails port.EmailSender) UserService {
	return &userService{userRepo: userRepo, tenantRepo: tenantRepo, emails: emails}
}

func (s *userService) Invite(ctx context.Context, tenantID uuid.UUID, input InviteUserInput) (*domain.User, error) {
	role, ok := domain.ParseUserRole(input.Role)
	if !ok {
		return nil, domain.ErrInvalidRole
	}
	if role == domain.RoleAdmin {
		// The admin account is created at registration and is unique.
		return nil, domain.ErrAdminProtected
	}

	tempPassword, err := generateTempPassword()
	if err != nil {
		return nil, fmt.Errorf("generating temporary password: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), 12)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Email:        input.Email,
		PasswordHash: string(hash),
		FullName:     input.FullName,
		Role:         role,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	tenantName := ""
	if tenant, terr := s.tenantRepo.GetByID(ctx, tenantID); terr == nil {
		tenantName = tenant.Name
	}

	// Invite delivery is best effort. The account exists either way and the
	// admin can reset the password.
	if err := s.emails.SendInvite(ctx, port.InviteEmail{
		To:           user.Email,
		FullName:     user.FullName,
		TenantName:   tenantName,
		TempPassword: tempPassword,
	}); err != nil {
		log.Printf("userService.Invite: sending invite to %s: %v", user.Email, err)
	}

	return user, nil
}

func (s *userService) GetByID(ctx context.Context, tenantID, userID uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, tenantID, userID)
}

func (s *userService) ListByTenant(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.User, int, error) {
	return s.userRepo.ListByTenant(ctx, tenantID, offset, limit)
}

func (s *userService) Update(ctx context.Context, tenantID, userID, actorID uuid.UUID, actorRole domain.UserRole, input UpdateUserInput) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}

	// Non-admins may only edit themselves, and never their role or active
	// flag.
	if actorRole != domain.RoleAdmin {
		if actorID != user.ID {
			return nil, domain.ErrForbidden
		}
		if input.Role != nil || input.IsActive != nil {
			return nil, domain.ErrForbidden
		}
	}

	if user.Role == domain.RoleAdmin {
		// The admin's role and active flag stay fixed for the lifetime of
		// the tenant, and only the admin may change their own password.
		if input.Role != nil || input.IsActive != nil {
			return nil, domain.ErrAdminProtected
		}
		if input.Password != nil && actorID != user.ID {
			return nil, domain.ErrAdminProtected
		}
	}

	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.Role != nil {
		role, ok := domain.ParseUserRole(*input.Role)
		if !ok {
			return nil, domain.ErrInvalidRole
		}
		if role == domain.RoleAdmin {
			return nil, domain.ErrAdminProtected
		}
		user.Role = role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), 12)
		if err != nil {
			return nil, fmt.Errorf("hashing password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, tenantID, userID uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, tenantID, userID)
	if err != nil {
		return err
	}
	if user.Role == domain.RoleAdmin {
		return domain.ErrAdminProtected
	}
	return s.userRepo.Delete(ctx, tenantID, userID)
}

func generateTempPassword() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
