package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"faktura/internal/domain"
	"faktura/internal/port"
)

type historyRepo struct {
	db *sqlx.DB
}

// NewStatusHistoryRepo creates a new PostgreSQL-backed
// StatusHistoryRepository. The table is append-only and carries no foreign
// key to invoices: history rows are retained as orphaned audit records when
// an invoice is deleted.
func NewStatusHistoryRepo(db *sqlx.DB) port.StatusHistoryRepository {
	return &historyRepo{db: db}
}

func (r *historyRepo) Append(ctx context.Context, entry *domain.InvoiceStatusHistory) error {
	if entry.ChangedAt.IsZero() {
		entry.ChangedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO invoice_status_history (id, invoice_id, tenant_id, old_status, new_status, changed_by, changed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID, entry.InvoiceID, entry.TenantID,
		entry.OldStatus, entry.NewStatus, entry.ChangedBy, entry.ChangedAt)
	if err != nil {
		return fmt.Errorf("historyRepo.Append: %w", err)
	}
	return nil
}

func (r *historyRepo) ListByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]domain.InvoiceStatusHistory, error) {
	var entries []domain.InvoiceStatusHistory
	err := r.db.SelectContext(ctx, &entries,
		`SELECT * FROM invoice_status_history
		 WHERE invoice_id = $1 AND tenant_id = $2
		 ORDER BY changed_at ASC, id ASC`,
		invoiceID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("historyRepo.ListByInvoice: %w", err)
	}
	return entries, nil
}
