package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceSnapshot is a ledger account's balance at a period boundary,
// archived from the accounting service's trial balance. One snapshot
// exists per (Date, AccountName) pair.
type BalanceSnapshot struct {
	Date        time.Time // period end, always a month end
	AccountName string
	Amount      decimal.Decimal // credit minus debit for the period
	YTDAmount   decimal.Decimal // credit minus debit year to date
}
