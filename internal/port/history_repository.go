package port

import (
	"context"

	"github.com/google/uuid"

	"faktura/internal/domain"
)

// StatusHistoryRepository defines the contract for the append-only status
// audit trail. Rows are never updated or deleted; when an invoice is removed
// its history is deliberately retained as an orphaned audit record.
type StatusHistoryRepository interface {
	Append(ctx context.Context, entry *domain.InvoiceStatusHistory) error
	ListByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]domain.InvoiceStatusHistory, error)
}
