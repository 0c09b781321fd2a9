package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"faktura/internal/domain"
	"faktura/internal/port"
)

type invoiceRepo struct {
	db *sqlx.DB
}

// NewInvoiceRepo creates a new PostgreSQL-backed InvoiceRepository.
func NewInvoiceRepo(db *sqlx.DB) port.InvoiceRepository {
	return &invoiceRepo{db: db}
}

// Create persists the invoice header and its lines in one transaction so a
// crash mid-write cannot leave a line-less invoice behind.
func (r *invoiceRepo) Create(ctx context.Context, inv *domain.Invoice) error {
	now := time.Now().UTC()
	inv.CreatedAt = now
	inv.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Create begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO invoices (id, tenant_id, invoice_number, invoice_date, customer_name,
			sub_total, vat, total, status, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		inv.ID, inv.TenantID, inv.InvoiceNumber, inv.Date, inv.CustomerName,
		inv.SubTotal, inv.VAT, inv.Total, inv.Status, inv.CreatedBy,
		inv.CreatedAt, inv.UpdatedAt)
	if err != nil {
		if isDuplicateNumber(err) {
			return domain.ErrDuplicateInvoiceNumber
		}
		return fmt.Errorf("invoiceRepo.Create: %w", err)
	}

	if err := insertLines(ctx, tx, inv); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("invoiceRepo.Create commit: %w", err)
	}
	return nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := r.db.GetContext(ctx, &inv,
		"SELECT * FROM invoices WHERE id = $1 AND tenant_id = $2", invoiceID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.GetByID: %w", err)
	}

	err = r.db.SelectContext(ctx, &inv.Lines,
		`SELECT * FROM invoice_lines WHERE invoice_id = $1 AND tenant_id = $2
		 ORDER BY position ASC`, invoiceID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.GetByID lines: %w", err)
	}
	return &inv, nil
}

func (r *invoiceRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.Invoice, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM invoices WHERE tenant_id = $1", tenantID)
	if err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.ListByTenant count: %w", err)
	}

	var invoices []domain.Invoice
	err = r.db.SelectContext(ctx, &invoices,
		`SELECT * FROM invoices WHERE tenant_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		tenantID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.ListByTenant: %w", err)
	}

	if err := r.attachLines(ctx, tenantID, invoices); err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

func (r *invoiceRepo) ListAllByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	err := r.db.SelectContext(ctx, &invoices,
		"SELECT * FROM invoices WHERE tenant_id = $1 ORDER BY invoice_number ASC", tenantID)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.ListAllByTenant: %w", err)
	}
	if err := r.attachLines(ctx, tenantID, invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

// Update rewrites the header and replaces the line collection wholesale in
// one transaction. Status is deliberately not written here: it only moves
// through UpdateStatus, and the guard below makes an edit that races a
// concurrent submit fail instead of mutating an immutable invoice.
func (r *invoiceRepo) Update(ctx context.Context, inv *domain.Invoice) error {
	inv.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Update begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx,
		`UPDATE invoices SET invoice_number = $1, invoice_date = $2, customer_name = $3,
			sub_total = $4, vat = $5, total = $6, updated_at = $7
		 WHERE id = $8 AND tenant_id = $9 AND status <> $10`,
		inv.InvoiceNumber, inv.Date, inv.CustomerName,
		inv.SubTotal, inv.VAT, inv.Total, inv.UpdatedAt,
		inv.ID, inv.TenantID, domain.StatusSubmitted)
	if err != nil {
		if isDuplicateNumber(err) {
			return domain.ErrDuplicateInvoiceNumber
		}
		return fmt.Errorf("invoiceRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		var exists bool
		if err := tx.GetContext(ctx, &exists,
			"SELECT EXISTS (SELECT 1 FROM invoices WHERE id = $1 AND tenant_id = $2)",
			inv.ID, inv.TenantID); err != nil {
			return fmt.Errorf("invoiceRepo.Update recheck: %w", err)
		}
		if exists {
			return domain.ErrInvoiceSubmitted
		}
		return domain.ErrInvoiceNotFound
	}

	_, err = tx.ExecContext(ctx,
		"DELETE FROM invoice_lines WHERE invoice_id = $1 AND tenant_id = $2",
		inv.ID, inv.TenantID)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Update delete lines: %w", err)
	}
	if err := insertLines(ctx, tx, inv); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("invoiceRepo.Update commit: %w", err)
	}
	return nil
}

// UpdateStatus advances the status only when the row still holds the
// expected current status, so a concurrently-advanced invoice fails with a
// conflict instead of being silently overwritten.
func (r *invoiceRepo) UpdateStatus(ctx context.Context, tenantID, invoiceID uuid.UUID, from, to domain.InvoiceStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE invoices SET status = $1, updated_at = $2
		 WHERE id = $3 AND tenant_id = $4 AND status = $5`,
		to, time.Now().UTC(), invoiceID, tenantID, from)
	if err != nil {
		return fmt.Errorf("invoiceRepo.UpdateStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 1 {
		return nil
	}

	var exists bool
	err = r.db.GetContext(ctx, &exists,
		"SELECT EXISTS (SELECT 1 FROM invoices WHERE id = $1 AND tenant_id = $2)",
		invoiceID, tenantID)
	if err != nil {
		return fmt.Errorf("invoiceRepo.UpdateStatus recheck: %w", err)
	}
	if !exists {
		return domain.ErrInvoiceNotFound
	}
	return domain.ErrStatusConflict
}

func (r *invoiceRepo) NumberExists(ctx context.Context, tenantID uuid.UUID, invoiceNumber string, excludeID *uuid.UUID) (bool, error) {
	var exists bool
	var err error
	if excludeID != nil {
		err = r.db.GetContext(ctx, &exists,
			`SELECT EXISTS (SELECT 1 FROM invoices
			 WHERE tenant_id = $1 AND invoice_number = $2 AND id <> $3)`,
			tenantID, invoiceNumber, *excludeID)
	} else {
		err = r.db.GetContext(ctx, &exists,
			`SELECT EXISTS (SELECT 1 FROM invoices
			 WHERE tenant_id = $1 AND invoice_number = $2)`,
			tenantID, invoiceNumber)
	}
	if err != nil {
		return false, fmt.Errorf("invoiceRepo.NumberExists: %w", err)
	}
	return exists, nil
}

// Delete removes the invoice and its lines. Status history rows are left in
// place on purpose: the audit trail outlives the invoice.
func (r *invoiceRepo) Delete(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Delete begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		"DELETE FROM invoice_lines WHERE invoice_id = $1 AND tenant_id = $2",
		invoiceID, tenantID)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Delete lines: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		"DELETE FROM invoices WHERE id = $1 AND tenant_id = $2", invoiceID, tenantID)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvoiceNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("invoiceRepo.Delete commit: %w", err)
	}
	return nil
}

func insertLines(ctx context.Context, tx *sqlx.Tx, inv *domain.Invoice) error {
	for i := range inv.Lines {
		line := &inv.Lines[i]
		if line.ID == uuid.Nil {
			line.ID = uuid.New()
		}
		line.InvoiceID = inv.ID
		line.TenantID = inv.TenantID
		line.Position = i + 1

		_, err := tx.ExecContext(ctx,
			`INSERT INTO invoice_lines (id, invoice_id, tenant_id, position, description,
				quantity, unit_price, line_total)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			line.ID, line.InvoiceID, line.TenantID, line.Position, line.Description,
			line.Quantity, line.UnitPrice, line.LineTotal)
		if err != nil {
			return fmt.Errorf("invoiceRepo insert line %d: %w", line.Position, err)
		}
	}
	return nil
}

// attachLines loads the lines for a batch of invoices with one query.
func (r *invoiceRepo) attachLines(ctx context.Context, tenantID uuid.UUID, invoices []domain.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(invoices))
	for i := range invoices {
		ids[i] = invoices[i].ID
	}

	query, args, err := sqlx.In(
		"SELECT * FROM invoice_lines WHERE tenant_id = ? AND invoice_id IN (?) ORDER BY position ASC",
		tenantID, ids)
	if err != nil {
		return fmt.Errorf("invoiceRepo.attachLines: %w", err)
	}

	var lines []domain.InvoiceLine
	if err := r.db.SelectContext(ctx, &lines, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("invoiceRepo.attachLines: %w", err)
	}

	byInvoice := make(map[uuid.UUID][]domain.InvoiceLine, len(invoices))
	for _, line := range lines {
		byInvoice[line.InvoiceID] = append(byInvoice[line.InvoiceID], line)
	}
	for i := range invoices {
		invoices[i].Lines = byInvoice[invoices[i].ID]
	}
	return nil
}

func isDuplicateNumber(err error) bool {
	return strings.Contains(err.Error(), "duplicate key") &&
		strings.Contains(err.Error(), "invoice_number")
}
