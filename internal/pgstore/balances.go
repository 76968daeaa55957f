package pgstore

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/pledgebook-dev/pledgebook/internal/model"
)

// BalanceStore is the Postgres balance-snapshot store.
type BalanceStore struct {
	db *sql.DB
}

// Upsert creates or replaces the snapshot for (date, account name).
func (s *BalanceStore) Upsert(snap model.BalanceSnapshot) error {
	if snap.AccountName == "" {
		return fmt.Errorf("snapshot has no account name")
	}

	_, err := s.db.Exec(
		`INSERT INTO balance_snapshots (date, account_name, amount, ytd_amount)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (date, account_name) DO UPDATE SET amount = $3, ytd_amount = $4`,
		snap.Date, snap.AccountName, snap.Amount.StringFixed(2), snap.YTDAmount.StringFixed(2))
	if err != nil {
		return fmt.Errorf("upserting balance for %s: %w", snap.AccountName, err)
	}
	return nil
}

// All returns every snapshot.
func (s *BalanceStore) All() ([]model.BalanceSnapshot, error) {
	rows, err := s.db.Query("SELECT date, account_name, amount, ytd_amount FROM balance_snapshots ORDER BY date, account_name")
	if err != nil {
		return nil, fmt.Errorf("querying balances: %w", err)
	}
	defer rows.Close()

	var snaps []model.BalanceSnapshot
	for rows.Next() {
		var snap model.BalanceSnapshot
		var amount, ytd string
		if err := rows.Scan(&snap.Date, &snap.AccountName, &amount, &ytd); err != nil {
			return nil, fmt.Errorf("scanning balance: %w", err)
		}
		snap.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parsing amount %q: %w", amount, err)
		}
		snap.YTDAmount, err = decimal.NewFromString(ytd)
		if err != nil {
			return nil, fmt.Errorf("parsing ytd_amount %q: %w", ytd, err)
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating balances: %w", err)
	}
	return snaps, nil
}
