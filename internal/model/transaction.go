package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankTransaction is a single ledger movement reported by the accounting
// service or parsed from a legacy statement CSV.
type BankTransaction struct {
	Date           time.Time
	Description    string
	Reference      string // free-text reference used for reconciliation
	Amount         decimal.Decimal
	UniqueID       string // digest identity, see internal/identity
	DoNotReconcile bool
	PledgeID       string // external serial of the attached pledge; "" = unreconciled
}

// Reconciled reports whether the transaction is attached to a pledge.
func (t BankTransaction) Reconciled() bool {
	return t.PledgeID != ""
}
