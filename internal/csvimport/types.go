// Package csvimport implements the bulk-import pipeline that turns an
// uploaded CSV file into draft invoices: file pre-check, delimiter sniffing,
// per-row validation, and grouping of rows into invoices. Import is
// all-or-nothing at the file level: a single invalid row fails the whole
// import and no invoices are created.
package csvimport

import (
	"fmt"
	"strings"
)

// RequiredColumns are the header columns an import file must carry, matched
// case-insensitively and in any order.
var RequiredColumns = []string{
	"InvoiceNumber",
	"Date",
	"CustomerName",
	"Description",
	"Quantity",
	"UnitPrice",
}

// Record is one parsed data row. Values are kept as raw strings until row
// validation has confirmed they parse.
type Record struct {
	InvoiceNumber string
	Date          string
	CustomerName  string
	Description   string
	Quantity      string
	UnitPrice     string
}

// RowFailure names every problem on a single data row. Row numbering starts
// at 2: row 1 is the header.
type RowFailure struct {
	Row    int      `json:"row"`
	Errors []string `json:"errors"`
}

// Failure is the structured validation failure of an import. Either
// FileErrors (structural problems with the file as a whole) or RowErrors
// (per-row violations) is populated, never both.
type Failure struct {
	FileErrors []string     `json:"file_errors,omitempty"`
	RowErrors  []RowFailure `json:"row_errors,omitempty"`
}

func (f *Failure) Error() string {
	if len(f.FileErrors) > 0 {
		return "csv import failed: " + strings.Join(f.FileErrors, "; ")
	}
	return fmt.Sprintf("csv import failed: %d invalid rows", len(f.RowErrors))
}
