package report

import (
	"errors"
	"time"
)

// ErrUnavailable indicates the ledger service could not be reached.
// Scheduled imports treat this as "try again next run"; manual imports
// surface it to the user.
var ErrUnavailable = errors.New("ledger service unavailable")

// Source fetches reports from the external accounting service.
type Source interface {
	BankStatement(from, to time.Time) (Report, error)
	TrialBalance(date time.Time) (Report, error)
}

// Cell is a single value in a report row.
type Cell struct {
	Value string `json:"Value"`
}

// Row is one row of a report. The service nests data rows: the first
// top-level row carries the header cells, the second carries the data rows
// in its Rows field.
type Row struct {
	Cells []Cell `json:"Cells,omitempty"`
	Rows  []Row  `json:"Rows,omitempty"`
}

// Report is a single report returned by the ledger service.
type Report struct {
	Name string `json:"ReportName"`
	Rows []Row  `json:"Rows"`
}

// Records linearizes the two-level report structure into header-keyed
// records, one per data row. Reports without a header row and a data
// section yield no records. This does not cover every report shape the
// service can produce, only the ones imported here.
func (r Report) Records() []map[string]string {
	if len(r.Rows) < 2 {
		return nil
	}

	headers := make([]string, len(r.Rows[0].Cells))
	for i, c := range r.Rows[0].Cells {
		headers[i] = c.Value
	}

	var records []map[string]string
	for _, row := range r.Rows[1].Rows {
		rec := make(map[string]string, len(headers))
		for i, c := range row.Cells {
			if i >= len(headers) {
				break
			}
			rec[headers[i]] = c.Value
		}
		records = append(records, rec)
	}
	return records
}
