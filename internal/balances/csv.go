package balances

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pledgebook-dev/pledgebook/internal/model"
)

const (
	numFields  = 4
	dateFormat = "2006-01-02"
	colDate    = 0
	colName    = 1
	colAmount  = 2
	colYTD     = 3
)

// ReadSnapshots reads balances.csv.
func ReadSnapshots(r io.Reader) ([]model.BalanceSnapshot, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading balances CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var snaps []model.BalanceSnapshot
	for i, rec := range records[1:] {
		s, err := UnmarshalSnapshot(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		snaps = append(snaps, s)
	}
	return snaps, nil
}

// WriteSnapshots writes balances.csv.
func WriteSnapshots(w io.Writer, snaps []model.BalanceSnapshot) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"date", "account_name", "amount", "ytd_amount"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, s := range snaps {
		if err := cw.Write(MarshalSnapshot(s)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalSnapshot converts a BalanceSnapshot to a CSV row.
func MarshalSnapshot(s model.BalanceSnapshot) []string {
	row := make([]string, numFields)
	row[colDate] = s.Date.Format(dateFormat)
	row[colName] = s.AccountName
	row[colAmount] = s.Amount.StringFixed(2)
	row[colYTD] = s.YTDAmount.StringFixed(2)
	return row
}

// UnmarshalSnapshot converts a CSV row to a BalanceSnapshot.
func UnmarshalSnapshot(record []string) (model.BalanceSnapshot, error) {
	if len(record) != numFields {
		return model.BalanceSnapshot{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[colDate])
	if err != nil {
		return model.BalanceSnapshot{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.BalanceSnapshot{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	ytd, err := decimal.NewFromString(record[colYTD])
	if err != nil {
		return model.BalanceSnapshot{}, fmt.Errorf("parsing ytd_amount %q: %w", record[colYTD], err)
	}

	return model.BalanceSnapshot{
		Date:        date,
		AccountName: record[colName],
		Amount:      amount,
		YTDAmount:   ytd,
	}, nil
}
