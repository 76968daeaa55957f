package bankimport

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pledgebook-dev/pledgebook/internal/errtrack"
	"github.com/pledgebook-dev/pledgebook/internal/identity"
	"github.com/pledgebook-dev/pledgebook/internal/model"
	"github.com/pledgebook-dev/pledgebook/internal/report"
)

// Rows whose description matches one of these are running totals in the
// statement, not donations, and are never imported.
const (
	openingBalanceMarker = "Opening Balance"
	closingBalanceMarker = "Closing Balance"
)

const dateFormat = "2006-01-02"

// StatementRow is one statement line as delivered by the ledger service or
// the legacy statement CSV. Values stay string-normalized until insertion
// because the identity digest is computed over the raw text.
type StatementRow struct {
	Date        string
	Description string
	Reference   string
	Amount      string
	Balance     string // never part of the identity
}

// Store is the slice of the transaction store the importer needs.
type Store interface {
	Exists(uniqueID string) (bool, error)
	Create(txn model.BankTransaction) error
}

// Result summarizes one import run.
type Result struct {
	Imported int
	Skipped  int // already present or balance markers
	Failed   int // malformed rows, reported to the error tracker
	Deferred bool
}

// Importer ingests bank-statement rows and persists previously-unseen
// transactions.
type Importer struct {
	Source   report.Source
	Store    Store
	Reporter errtrack.Reporter
}

// Run fetches the bank statement for the window and imports it. If the
// ledger service is unavailable a scheduled run defers to the next one; a
// manual run surfaces the failure.
func (im *Importer) Run(from, to time.Time, manual bool) (Result, error) {
	rep, err := im.Source.BankStatement(from, to)
	if err != nil {
		if errors.Is(err, report.ErrUnavailable) && !manual {
			return Result{Deferred: true}, nil
		}
		return Result{}, fmt.Errorf("fetching bank statement: %w", err)
	}

	return im.RunRows(RowsFromReport(rep))
}

// RunRows imports statement rows directly, e.g. from a saved export or a
// legacy statement CSV. Row order is significant: it decides which of two
// identical rows keeps the plain identity.
func (im *Importer) RunRows(rows []StatementRow) (Result, error) {
	hasher := identity.New()

	var res Result
	for _, row := range rows {
		if row.Description == openingBalanceMarker || row.Description == closingBalanceMarker {
			res.Skipped++
			continue
		}

		// The counter must advance for every candidate row, including ones
		// that turn out to exist already, so re-imports stay idempotent.
		uniqueID := hasher.Compute(row.Reference, row.Date, row.Amount)

		exists, err := im.Store.Exists(uniqueID)
		if err != nil {
			return res, err
		}
		if exists {
			res.Skipped++
			continue
		}

		txn, err := parseRow(row, uniqueID)
		if err != nil {
			im.Reporter.Report(errtrack.NewEvent("bank-import", row.Reference, err.Error()))
			res.Failed++
			continue
		}

		if err := im.Store.Create(txn); err != nil {
			return res, fmt.Errorf("creating transaction %s: %w", uniqueID, err)
		}
		res.Imported++
	}
	return res, nil
}

func parseRow(row StatementRow, uniqueID string) (model.BankTransaction, error) {
	date, err := time.Parse(dateFormat, row.Date)
	if err != nil {
		return model.BankTransaction{}, fmt.Errorf("parsing date %q: %w", row.Date, err)
	}

	amount, err := decimal.NewFromString(row.Amount)
	if err != nil {
		return model.BankTransaction{}, fmt.Errorf("parsing amount %q: %w", row.Amount, err)
	}

	return model.BankTransaction{
		Date:        date,
		Description: row.Description,
		Reference:   row.Reference,
		Amount:      amount,
		UniqueID:    uniqueID,
	}, nil
}

// RowsFromReport linearizes a bank-statement report into statement rows.
func RowsFromReport(rep report.Report) []StatementRow {
	var rows []StatementRow
	for _, rec := range rep.Records() {
		rows = append(rows, StatementRow{
			Date:        rec["Date"],
			Description: rec["Description"],
			Reference:   rec["Reference"],
			Amount:      rec["Amount"],
			Balance:     rec["Balance"],
		})
	}
	return rows
}
