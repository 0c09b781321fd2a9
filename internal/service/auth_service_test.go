package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"faktura/internal/config"
	"faktura/internal/domain"
	"faktura/internal/service"
	"faktura/mocks"
)

func setupAuthService() (*mocks.MockUserRepo, *mocks.MockTenantRepo, service.AuthService) {
	userRepo := new(mocks.MockUserRepo)
	tenantRepo := new(mocks.MockTenantRepo)
	svc := service.NewAuthService(userRepo, tenantRepo, config.JWTConfig{
		Secret:             "test-secret",
		Issuer:             "faktura-test",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
	})
	return userRepo, tenantRepo, svc
}

func activeTenant() *domain.Tenant {
	return &domain.Tenant{ID: uuid.New(), Name: "Acme", TaxID: "DE123456789", IsActive: true}
}

func activeUser(tenantID uuid.UUID, password string) *domain.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return &domain.User{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Email:        "user@acme.test",
		PasswordHash: string(hash),
		Role:         domain.RoleManager,
		IsActive:     true,
	}
}

func TestLogin_Success(t *testing.T) {
	userRepo, tenantRepo, svc := setupAuthService()
	tenant := activeTenant()
	user := activeUser(tenant.ID, "correct-horse")

	tenantRepo.On("GetByTaxID", mock.Anything, tenant.TaxID).Return(tenant, nil)
	userRepo.On("GetByEmail", mock.Anything, tenant.ID, user.Email).Return(user, nil)

	pair, err := svc.Login(context.Background(), service.LoginInput{
		TaxID:    tenant.TaxID,
		Email:    user.Email,
		Password: "correct-horse",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.True(t, pair.ExpiresAt.After(time.Now()))

	claims, err := svc.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, claims.TenantID)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, domain.RoleManager, claims.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	userRepo, tenantRepo, svc := setupAuthService()
	tenant := activeTenant()
	user := activeUser(tenant.ID, "correct-horse")

	tenantRepo.On("GetByTaxID", mock.Anything, tenant.TaxID).Return(tenant, nil)
	userRepo.On("GetByEmail", mock.Anything, tenant.ID, user.Email).Return(user, nil)

	_, err := svc.Login(context.Background(), service.LoginInput{
		TaxID:    tenant.TaxID,
		Email:    user.Email,
		Password: "battery-staple",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_UnknownTenantLooksLikeBadCredentials(t *testing.T) {
	_, tenantRepo, svc := setupAuthService()

	tenantRepo.On("GetByTaxID", mock.Anything, "DE000000000").Return(nil, domain.ErrNotFound)

	_, err := svc.Login(context.Background(), service.LoginInput{
		TaxID:    "DE000000000",
		Email:    "user@acme.test",
		Password: "correct-horse",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_InactiveTenant(t *testing.T) {
	_, tenantRepo, svc := setupAuthService()
	tenant := activeTenant()
	tenant.IsActive = false

	tenantRepo.On("GetByTaxID", mock.Anything, tenant.TaxID).Return(tenant, nil)

	_, err := svc.Login(context.Background(), service.LoginInput{
		TaxID:    tenant.TaxID,
		Email:    "user@acme.test",
		Password: "correct-horse",
	})

	assert.ErrorIs(t, err, domain.ErrTenantInactive)
}

func TestLogin_InactiveUser(t *testing.T) {
	userRepo, tenantRepo, svc := setupAuthService()
	tenant := activeTenant()
	user := activeUser(tenant.ID, "correct-horse")
	user.IsActive = false

	tenantRepo.On("GetByTaxID", mock.Anything, tenant.TaxID).Return(tenant, nil)
	userRepo.On("GetByEmail", mock.Anything, tenant.ID, user.Email).Return(user, nil)

	_, err := svc.Login(context.Background(), service.LoginInput{
		TaxID:    tenant.TaxID,
		Email:    user.Email,
		Password: "correct-horse",
	})

	assert.ErrorIs(t, err, domain.ErrUserInactive)
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	userRepo, tenantRepo, svc := setupAuthService()
	tenant := activeTenant()
	user := activeUser(tenant.ID, "correct-horse")

	tenantRepo.On("GetByTaxID", mock.Anything, tenant.TaxID).Return(tenant, nil)
	userRepo.On("GetByEmail", mock.Anything, tenant.ID, user.Email).Return(user, nil)
	userRepo.On("GetByID", mock.Anything, tenant.ID, user.ID).Return(user, nil)

	pair, err := svc.Login(context.Background(), service.LoginInput{
		TaxID:    tenant.TaxID,
		Email:    user.Email,
		Password: "correct-horse",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
}

func TestRefreshToken_AccessTokenIsRejected(t *testing.T) {
	userRepo, tenantRepo, svc := setupAuthService()
	tenant := activeTenant()
	user := activeUser(tenant.ID, "correct-horse")

	tenantRepo.On("GetByTaxID", mock.Anything, tenant.TaxID).Return(tenant, nil)
	userRepo.On("GetByEmail", mock.Anything, tenant.ID, user.Email).Return(user, nil)

	pair, err := svc.Login(context.Background(), service.LoginInput{
		TaxID:    tenant.TaxID,
		Email:    user.Email,
		Password: "correct-horse",
	})
	require.NoError(t, err)

	// An access token must not be usable as a refresh token.
	_, err = svc.RefreshToken(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestValidateToken_RefreshTokenIsRejected(t *testing.T) {
	userRepo, tenantRepo, svc := setupAuthService()
	tenant := activeTenant()
	user := activeUser(tenant.ID, "correct-horse")

	tenantRepo.On("GetByTaxID", mock.Anything, tenant.TaxID).Return(tenant, nil)
	userRepo.On("GetByEmail", mock.Anything, tenant.ID, user.Email).Return(user, nil)

	pair, err := svc.Login(context.Background(), service.LoginInput{
		TaxID:    tenant.TaxID,
		Email:    user.Email,
		Password: "correct-horse",
	})
	require.NoError(t, err)

	_, err = svc.ValidateToken(pair.RefreshToken)
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, _, svc := setupAuthService()

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}
