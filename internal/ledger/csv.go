package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pledgebook-dev/pledgebook/internal/model"
)

// Header is the CSV header for transactions.csv.
const Header = "date,description,reference,amount,unique_id,do_not_reconcile,pledge_id"

const (
	numFields  = 7
	dateFormat = "2006-01-02"
	colDate    = 0
	colDesc    = 1
	colRef     = 2
	colAmount  = 3
	colUnique  = 4
	colNoRec   = 5
	colPledge  = 6
)

// ReadTransactions reads all transactions from a transactions.csv reader.
func ReadTransactions(r io.Reader) ([]model.BankTransaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transactions CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var txns []model.BankTransaction
	for i, rec := range records[1:] {
		txn, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

// WriteTransactions writes transactions to a transactions.csv writer
// (including header).
func WriteTransactions(w io.Writer, txns []model.BankTransaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, txn := range txns {
		if err := cw.Write(MarshalTransaction(txn)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// AppendTransactions appends transactions to an existing transactions.csv
// writer (no header).
func AppendTransactions(w io.Writer, txns []model.BankTransaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	for i, txn := range txns {
		if err := cw.Write(MarshalTransaction(txn)); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	return cw.Error()
}

// MarshalTransaction converts a BankTransaction to a CSV row.
func MarshalTransaction(txn model.BankTransaction) []string {
	row := make([]string, numFields)
	row[colDate] = txn.Date.Format(dateFormat)
	row[colDesc] = txn.Description
	row[colRef] = txn.Reference
	row[colAmount] = txn.Amount.StringFixed(2)
	row[colUnique] = txn.UniqueID

	if txn.DoNotReconcile {
		row[colNoRec] = "true"
	}

	row[colPledge] = txn.PledgeID
	return row
}

// UnmarshalTransaction converts a CSV row to a BankTransaction.
func UnmarshalTransaction(record []string) (model.BankTransaction, error) {
	if len(record) != numFields {
		return model.BankTransaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[colDate])
	if err != nil {
		return model.BankTransaction{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.BankTransaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	if record[colUnique] == "" {
		return model.BankTransaction{}, fmt.Errorf("missing unique_id")
	}

	return model.BankTransaction{
		Date:           date,
		Description:    record[colDesc],
		Reference:      record[colRef],
		Amount:         amount,
		UniqueID:       record[colUnique],
		DoNotReconcile: record[colNoRec] == "true",
		PledgeID:       record[colPledge],
	}, nil
}
