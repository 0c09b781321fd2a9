package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"faktura/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row. One row per invoice line so the export
// round-trips through the import format.
var columns = []string{
	"InvoiceNumber",
	"Date",
	"CustomerName",
	"Status",
	"Description",
	"Quantity",
	"UnitPrice",
	"LineTotal",
	"SubTotal",
	"VAT",
	"Total",
}

// Writer wraps csv.Writer for exporting invoices as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteInvoices converts a batch of invoices to CSV rows and writes them.
// An invoice without lines still produces one row with empty line columns.
func (w *Writer) WriteInvoices(invoices []domain.Invoice) error {
	for i := range invoices {
		for _, row := range invoiceToRows(&invoices[i]) {
			if err := w.csv.Write(row); err != nil {
				return err
			}
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func invoiceToRows(inv *domain.Invoice) [][]string {
	base := func() []string {
		row := make([]string, len(columns))
		row[0] = inv.InvoiceNumber
		row[1] = inv.Date
		row[2] = inv.CustomerName
		row[3] = string(inv.Status)
		row[8] = inv.SubTotal.StringFixed(2)
		row[9] = inv.VAT.StringFixed(2)
		row[10] = inv.Total.StringFixed(2)
		return row
	}

	if len(inv.Lines) == 0 {
		return [][]string{base()}
	}

	rows := make([][]string, 0, len(inv.Lines))
	for _, line := range inv.Lines {
		row := base()
		row[4] = line.Description
		row[5] = line.Quantity.String()
		row[6] = line.UnitPrice.String()
		row[7] = line.LineTotal.StringFixed(2)
		rows = append(rows, row)
	}
	return rows
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a tenant name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition header.
// Format: {sanitized_tenant_name}_invoices_{YYYY-MM-DD}.csv
func BuildFilename(tenantName string) string {
	sanitized := SanitizeFilename(tenantName)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_invoices_%s.csv", sanitized, date)
}
