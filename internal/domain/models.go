package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tenant represents an isolated company account. All business data is scoped
// to exactly one tenant.
type Tenant struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	TaxID      string    `db:"tax_id" json:"tax_id"`
	Address    string    `db:"address" json:"address"`
	IsActive   bool      `db:"is_active" json:"is_active"`
	IsVerified bool      `db:"is_verified" json:"is_verified"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// User represents an authenticated user belonging to a tenant.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TenantID     uuid.UUID `db:"tenant_id" json:"tenant_id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Invoice is the aggregate root of the invoicing domain. SubTotal and Total
// are always recomputed server-side from the line list; VAT is the only
// caller-supplied monetary field. Money columns use decimals, never floats.
type Invoice struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	TenantID      uuid.UUID       `db:"tenant_id" json:"tenant_id"`
	InvoiceNumber string          `db:"invoice_number" json:"invoice_number"`
	Date          string          `db:"invoice_date" json:"date"`
	CustomerName  string          `db:"customer_name" json:"customer_name"`
	SubTotal      decimal.Decimal `db:"sub_total" json:"sub_total"`
	VAT           decimal.Decimal `db:"vat" json:"vat"`
	Total         decimal.Decimal `db:"total" json:"total"`
	Status        InvoiceStatus   `db:"status" json:"status"`
	CreatedBy     uuid.UUID       `db:"created_by" json:"created_by"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`

	// Lines are owned exclusively by the invoice and replaced wholesale on
	// update. Loaded separately from the invoices table.
	Lines []InvoiceLine `db:"-" json:"lines"`
}

// InvoiceLine is a single position on an invoice. Lines hold no traversable
// back-reference to their invoice, only the scoping keys used for querying.
type InvoiceLine struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	InvoiceID   uuid.UUID       `db:"invoice_id" json:"invoice_id"`
	TenantID    uuid.UUID       `db:"tenant_id" json:"tenant_id"`
	Position    int             `db:"position" json:"position"`
	Description string          `db:"description" json:"description"`
	Quantity    decimal.Decimal `db:"quantity" json:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price" json:"unit_price"`
	LineTotal   decimal.Decimal `db:"line_total" json:"line_total"`
}

// RecomputeTotals derives every line's LineTotal, then SubTotal and Total,
// from the line list. VAT is taken as-is: it is the only monetary field the
// caller is authoritative for. Total is rounded to two decimal places, half
// away from zero.
func (inv *Invoice) RecomputeTotals() {
	sub := decimal.Zero
	for i := range inv.Lines {
		lt := inv.Lines[i].Quantity.Mul(inv.Lines[i].UnitPrice)
		inv.Lines[i].LineTotal = lt
		sub = sub.Add(lt)
	}
	inv.SubTotal = sub
	inv.Total = sub.Add(inv.VAT).Round(2)
}

// InvoiceStatusHistory is one row of the append-only status audit trail.
// OldStatus is nil for the initial draft assignment at creation. Rows are
// never mutated and survive deletion of their invoice.
type InvoiceStatusHistory struct {
	ID        uuid.UUID      `db:"id" json:"id"`
	InvoiceID uuid.UUID      `db:"invoice_id" json:"invoice_id"`
	TenantID  uuid.UUID      `db:"tenant_id" json:"tenant_id"`
	OldStatus *InvoiceStatus `db:"old_status" json:"old_status"`
	NewStatus InvoiceStatus  `db:"new_status" json:"new_status"`
	ChangedBy uuid.UUID      `db:"changed_by" json:"changed_by"`
	ChangedAt time.Time      `db:"changed_at" json:"changed_at"`
}
