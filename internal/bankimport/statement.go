package bankimport

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Legacy statement CSV layout: Date,Description,Reference,Amount,Balance
// with a single header row.
const (
	stmtNumFields = 5
	stmtColDate   = 0
	stmtColDesc   = 1
	stmtColRef    = 2
	stmtColAmount = 3
	stmtColBal    = 4
)

// ParseStatement reads a legacy bank-statement CSV into statement rows.
// Values are not validated here; the import pipeline handles bad rows.
func ParseStatement(r io.Reader) ([]StatementRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = stmtNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading statement CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var rows []StatementRow
	for _, rec := range records[1:] {
		rows = append(rows, StatementRow{
			Date:        rec[stmtColDate],
			Description: rec[stmtColDesc],
			Reference:   rec[stmtColRef],
			Amount:      rec[stmtColAmount],
			Balance:     rec[stmtColBal],
		})
	}
	return rows, nil
}
