package csvimport

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Parse runs the file-level pre-check and parses all data rows into records.
// It returns a *Failure describing structural problems (wrong extension,
// empty file, missing header columns, malformed CSV, no data rows) or the
// parsed records in file order.
func Parse(filename string, data []byte) ([]Record, *Failure) {
	if !strings.EqualFold(filepath.Ext(filename), ".csv") {
		return nil, &Failure{FileErrors: []string{"file must have a .csv extension"}}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &Failure{FileErrors: []string{"file is empty"}}
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, &Failure{FileErrors: []string{"file has no readable header line"}}
	}

	index, missing := mapColumns(header)
	if len(missing) > 0 {
		return nil, &Failure{FileErrors: []string{
			fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")),
		}}
	}

	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &Failure{FileErrors: []string{fmt.Sprintf("malformed csv: %v", err)}}
		}
		records = append(records, Record{
			InvoiceNumber: field(row, index["invoicenumber"]),
			Date:          field(row, index["date"]),
			CustomerName:  field(row, index["customername"]),
			Description:   field(row, index["description"]),
			Quantity:      field(row, index["quantity"]),
			UnitPrice:     field(row, index["unitprice"]),
		})
	}

	if len(records) == 0 {
		return nil, &Failure{FileErrors: []string{"file contains no data rows"}}
	}
	return records, nil
}

// sniffDelimiter picks the field separator from the header line: a semicolon
// in the header means ';', otherwise ','.
func sniffDelimiter(data []byte) rune {
	headerLine := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		headerLine = data[:i]
	}
	if bytes.ContainsRune(headerLine, ';') {
		return ';'
	}
	return ','
}

// mapColumns resolves required column positions case-insensitively and
// reports any missing column by its canonical name.
func mapColumns(header []string) (map[string]int, []string) {
	index := make(map[string]int, len(RequiredColumns))
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}

	var missing []string
	resolved := make(map[string]int, len(RequiredColumns))
	for _, col := range RequiredColumns {
		key := strings.ToLower(col)
		pos, ok := index[key]
		if !ok {
			missing = append(missing, col)
			continue
		}
		resolved[key] = pos
	}
	return resolved, missing
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
