package pgstore

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/pledgebook-dev/pledgebook/internal/model"
)

// TransactionStore is the Postgres bank-transaction store.
type TransactionStore struct {
	db *sql.DB
}

const txnColumns = "unique_id, date, description, reference, amount, do_not_reconcile, pledge_id"

// Exists reports whether a transaction with the given identity exists.
func (s *TransactionStore) Exists(uniqueID string) (bool, error) {
	var one int
	err := s.db.QueryRow("SELECT 1 FROM bank_transactions WHERE unique_id = $1", uniqueID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking transaction %s: %w", uniqueID, err)
	}
	return true, nil
}

// Create inserts a transaction. An existing identity is left untouched so
// concurrent import runs cannot double-insert.
func (s *TransactionStore) Create(txn model.BankTransaction) error {
	if txn.UniqueID == "" {
		return fmt.Errorf("transaction has no unique_id")
	}

	_, err := s.db.Exec(
		`INSERT INTO bank_transactions (`+txnColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (unique_id) DO NOTHING`,
		txn.UniqueID, txn.Date, txn.Description, txn.Reference,
		txn.Amount.StringFixed(2), txn.DoNotReconcile, txn.PledgeID)
	if err != nil {
		return fmt.Errorf("creating transaction %s: %w", txn.UniqueID, err)
	}
	return nil
}

// All returns every transaction in insertion-stable order.
func (s *TransactionStore) All() ([]model.BankTransaction, error) {
	return s.query("SELECT " + txnColumns + " FROM bank_transactions ORDER BY date, unique_id")
}

// Unreconciled returns transactions with no attached pledge that are not
// flagged do-not-reconcile.
func (s *TransactionStore) Unreconciled() ([]model.BankTransaction, error) {
	return s.query(`SELECT ` + txnColumns + ` FROM bank_transactions
		WHERE pledge_id = '' AND NOT do_not_reconcile
		ORDER BY date, unique_id`)
}

// AttachPledge links a transaction to a pledge. The WHERE clause enforces
// the same write-time integrity as the CSV store.
func (s *TransactionStore) AttachPledge(uniqueID, pledgeID string) error {
	if pledgeID == "" {
		return fmt.Errorf("empty pledge id")
	}

	res, err := s.db.Exec(
		`UPDATE bank_transactions SET pledge_id = $2
		 WHERE unique_id = $1 AND pledge_id = '' AND NOT do_not_reconcile`,
		uniqueID, pledgeID)
	if err != nil {
		return fmt.Errorf("attaching pledge to %s: %w", uniqueID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("attaching pledge to %s: %w", uniqueID, err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %s missing, flagged or already reconciled", uniqueID)
	}
	return nil
}

// SetDoNotReconcile flags or unflags a transaction. Flagging a reconciled
// transaction is rejected.
func (s *TransactionStore) SetDoNotReconcile(uniqueID string, flag bool) error {
	res, err := s.db.Exec(
		`UPDATE bank_transactions SET do_not_reconcile = $2
		 WHERE unique_id = $1 AND (NOT $2 OR pledge_id = '')`,
		uniqueID, flag)
	if err != nil {
		return fmt.Errorf("flagging transaction %s: %w", uniqueID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("flagging transaction %s: %w", uniqueID, err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %s missing or reconciled", uniqueID)
	}
	return nil
}

func (s *TransactionStore) query(q string) ([]model.BankTransaction, error) {
	rows, err := s.db.Query(q)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer rows.Close()

	var txns []model.BankTransaction
	for rows.Next() {
		var txn model.BankTransaction
		var amount string
		if err := rows.Scan(&txn.UniqueID, &txn.Date, &txn.Description, &txn.Reference,
			&amount, &txn.DoNotReconcile, &txn.PledgeID); err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}
		txn.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parsing amount %q: %w", amount, err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}
	return txns, nil
}
