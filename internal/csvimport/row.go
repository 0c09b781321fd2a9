package csvimport

import (
	"time"

	"github.com/shopspring/decimal"

	"faktura/internal/validation"
)

// RowResult is the outcome of validating a single imported record.
type RowResult struct {
	RowNumber int
	Record    Record
	Errors    []string
}

// Valid reports whether the row passed every check.
func (r RowResult) Valid() bool { return len(r.Errors) == 0 }

// ValidateRow checks one record. rowNumber is the position in the file,
// starting at 2 because row 1 is the header. All violations are collected.
func ValidateRow(rec Record, rowNumber int) RowResult {
	res := RowResult{RowNumber: rowNumber, Record: rec}

	if rec.InvoiceNumber == "" {
		res.Errors = append(res.Errors, "InvoiceNumber must not be empty")
	}
	if rec.Date == "" {
		res.Errors = append(res.Errors, "Date must not be empty")
	} else if _, err := time.Parse(validation.DateLayout, rec.Date); err != nil {
		res.Errors = append(res.Errors, "Date must be a valid date in YYYY-MM-DD format")
	}
	if rec.CustomerName == "" {
		res.Errors = append(res.Errors, "CustomerName must not be empty")
	}
	if rec.Description == "" {
		res.Errors = append(res.Errors, "Description must not be empty")
	}

	if qty, err := decimal.NewFromString(rec.Quantity); err != nil {
		res.Errors = append(res.Errors, "Quantity must be a number")
	} else if !qty.IsPositive() {
		res.Errors = append(res.Errors, "Quantity must be greater than zero")
	}
	if price, err := decimal.NewFromString(rec.UnitPrice); err != nil {
		res.Errors = append(res.Errors, "UnitPrice must be a number")
	} else if price.IsNegative() {
		res.Errors = append(res.Errors, "UnitPrice must not be negative")
	}

	return res
}

// ValidateRows validates every record and returns all results plus the
// subset of failed rows. The pipeline aborts the import when any row failed.
func ValidateRows(records []Record) (results []RowResult, failed []RowFailure) {
	for i, rec := range records {
		res := ValidateRow(rec, i+2)
		results = append(results, res)
		if !res.Valid() {
			failed = append(failed, RowFailure{Row: res.RowNumber, Errors: res.Errors})
		}
	}
	return results, failed
}
