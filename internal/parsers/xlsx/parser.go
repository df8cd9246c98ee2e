// Package xlsx reads dataset tables from Excel workbooks. Supplier and
// customer lists are often maintained as spreadsheets rather than CSV.
package xlsx

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	parsercsv "github.com/cargoplan/facility-service/internal/parsers/csv"
)

// ReadTable reads the first sheet of a workbook into the same Table shape
// the CSV parser produces, so downstream mapping is format-agnostic.
func ReadTable(content []byte) (*parsercsv.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	table := &parsercsv.Table{}
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		if table.Headers == nil {
			table.Headers = row
			continue
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}
