package port

import (
	"context"

	"github.com/google/uuid"

	"faktura/internal/domain"
)

// InvoiceRepository defines the contract for invoice persistence.
//
// Create and Update persist the invoice header together with its lines in a
// single transaction: a crash mid-write must never leave an invoice with zero
// lines or totals that disagree with its line list. Update replaces the line
// collection wholesale.
//
// The (tenant_id, invoice_number) uniqueness constraint is owned by the
// database; implementations translate a constraint violation into
// domain.ErrDuplicateInvoiceNumber so racing creates surface in the same
// vocabulary as a proactive validation failure.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *domain.Invoice) error
	GetByID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*domain.Invoice, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.Invoice, int, error)
	ListAllByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Invoice, error)
	Update(ctx context.Context, inv *domain.Invoice) error
	// UpdateStatus advances the status with a compare-and-set on the expected
	// current status. Returns domain.ErrStatusConflict when the row has moved
	// on concurrently and domain.ErrInvoiceNotFound when no tenant-owned row
	// matches.
	UpdateStatus(ctx context.Context, tenantID, invoiceID uuid.UUID, from, to domain.InvoiceStatus) error
	// NumberExists reports whether invoiceNumber is already taken within the
	// tenant, excluding excludeID (the invoice itself, on update). This is a
	// fast-fail pre-check only; the database constraint is the source of truth.
	NumberExists(ctx context.Context, tenantID uuid.UUID, invoiceNumber string, excludeID *uuid.UUID) (bool, error)
	Delete(ctx context.Context, tenantID, invoiceID uuid.UUID) error
}
