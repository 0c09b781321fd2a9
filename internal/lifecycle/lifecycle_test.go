package lifecycle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"faktura/internal/domain"
	"faktura/internal/lifecycle"
)

func TestAuthorize_TransitionTable(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.InvoiceStatus
		to      domain.InvoiceStatus
		role    domain.UserRole
		wantErr error
	}{
		{"clerk cannot move draft to ready", domain.StatusDraft, domain.StatusReady, domain.RoleClerk, domain.ErrTransitionDenied},
		{"clerk cannot move ready to submitted", domain.StatusReady, domain.StatusSubmitted, domain.RoleClerk, domain.ErrTransitionDenied},
		{"manager moves draft to ready", domain.StatusDraft, domain.StatusReady, domain.RoleManager, nil},
		{"manager cannot submit", domain.StatusReady, domain.StatusSubmitted, domain.RoleManager, domain.ErrTransitionDenied},
		{"admin moves draft to ready", domain.StatusDraft, domain.StatusReady, domain.RoleAdmin, nil},
		{"admin submits ready invoice", domain.StatusReady, domain.StatusSubmitted, domain.RoleAdmin, nil},
		{"no skipping draft to submitted even for admin", domain.StatusDraft, domain.StatusSubmitted, domain.RoleAdmin, domain.ErrTransitionDenied},
		{"no backward transition ready to draft", domain.StatusReady, domain.StatusDraft, domain.RoleAdmin, domain.ErrTransitionDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := lifecycle.Authorize(tt.from, tt.to, tt.role)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestAuthorize_EditsWithoutStatusChange(t *testing.T) {
	for _, role := range []domain.UserRole{domain.RoleClerk, domain.RoleManager, domain.RoleAdmin} {
		assert.NoError(t, lifecycle.Authorize(domain.StatusDraft, domain.StatusDraft, role))
		assert.NoError(t, lifecycle.Authorize(domain.StatusReady, domain.StatusReady, role))
	}
}

func TestAuthorize_SubmittedIsImmutable(t *testing.T) {
	for _, role := range []domain.UserRole{domain.RoleClerk, domain.RoleManager, domain.RoleAdmin} {
		err := lifecycle.Authorize(domain.StatusSubmitted, domain.StatusSubmitted, role)
		assert.ErrorIs(t, err, domain.ErrInvoiceSubmitted)

		err = lifecycle.Authorize(domain.StatusSubmitted, domain.StatusDraft, role)
		assert.ErrorIs(t, err, domain.ErrInvoiceSubmitted)
	}
}

func TestAuthorizeSubmit(t *testing.T) {
	assert.NoError(t, lifecycle.AuthorizeSubmit(domain.StatusReady, domain.RoleAdmin))

	assert.ErrorIs(t, lifecycle.AuthorizeSubmit(domain.StatusReady, domain.RoleManager), domain.ErrTransitionDenied)
	assert.ErrorIs(t, lifecycle.AuthorizeSubmit(domain.StatusReady, domain.RoleClerk), domain.ErrTransitionDenied)
	assert.ErrorIs(t, lifecycle.AuthorizeSubmit(domain.StatusDraft, domain.RoleAdmin), domain.ErrNotReadyForSubmission)
	assert.ErrorIs(t, lifecycle.AuthorizeSubmit(domain.StatusSubmitted, domain.RoleAdmin), domain.ErrInvoiceSubmitted)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, lifecycle.CanTransition(domain.StatusDraft, domain.StatusReady, domain.RoleManager))
	assert.True(t, lifecycle.CanTransition(domain.StatusReady, domain.StatusSubmitted, domain.RoleAdmin))
	assert.False(t, lifecycle.CanTransition(domain.StatusDraft, domain.StatusReady, domain.RoleClerk))
	assert.False(t, lifecycle.CanTransition(domain.StatusSubmitted, domain.StatusReady, domain.RoleAdmin))
}
