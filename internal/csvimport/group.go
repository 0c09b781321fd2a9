package csvimport

import (
	"github.com/shopspring/decimal"

	"faktura/internal/domain"
)

// DefaultVATRate is the fixed VAT rate applied to imported invoices. Import
// files carry no per-invoice VAT override; the interactive write path does.
var DefaultVATRate = decimal.NewFromFloat(0.20)

// Group folds validated records into draft invoice candidates. Records
// sharing an invoice number (exact string match) become one invoice with one
// line per record, in first-appearance order; header fields come from the
// group's first record. Totals: subTotal from the lines, vat at
// DefaultVATRate rounded to two decimals, total = subTotal + vat.
//
// Records must already have passed ValidateRow; Group assumes quantities and
// prices parse.
func Group(records []Record) []domain.Invoice {
	byNumber := make(map[string]*domain.Invoice)
	var order []string

	for _, rec := range records {
		inv, ok := byNumber[rec.InvoiceNumber]
		if !ok {
			inv = &domain.Invoice{
				InvoiceNumber: rec.InvoiceNumber,
				Date:          rec.Date,
				CustomerName:  rec.CustomerName,
				Status:        domain.StatusDraft,
			}
			byNumber[rec.InvoiceNumber] = inv
			order = append(order, rec.InvoiceNumber)
		}

		qty, _ := decimal.NewFromString(rec.Quantity)
		price, _ := decimal.NewFromString(rec.UnitPrice)
		inv.Lines = append(inv.Lines, domain.InvoiceLine{
			Position:    len(inv.Lines) + 1,
			Description: rec.Description,
			Quantity:    qty,
			UnitPrice:   price,
		})
	}

	invoices := make([]domain.Invoice, 0, len(order))
	for _, number := range order {
		inv := byNumber[number]
		subTotal := decimal.Zero
		for _, line := range inv.Lines {
			subTotal = subTotal.Add(line.Quantity.Mul(line.UnitPrice))
		}
		inv.VAT = subTotal.Mul(DefaultVATRate).Round(2)
		inv.RecomputeTotals()
		invoices = append(invoices, *inv)
	}
	return invoices
}
