package trialbalance

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pledgebook-dev/pledgebook/internal/errtrack"
	"github.com/pledgebook-dev/pledgebook/internal/model"
	"github.com/pledgebook-dev/pledgebook/internal/report"
)

// Store is the slice of the balances store the importer needs.
type Store interface {
	Upsert(snap model.BalanceSnapshot) error
}

// Result summarizes one trial-balance import run.
type Result struct {
	Periods   int
	Snapshots int
	Failed    int
	Deferred  bool
}

// Importer archives month-end trial balances from the ledger service.
type Importer struct {
	Source   report.Source
	Store    Store
	Reporter errtrack.Reporter
}

// Run walks month-end dates from start until today, upserting one snapshot
// per (date, account). Already-archived periods are simply overwritten with
// equal values, so repeat runs are safe. Unavailability defers a scheduled
// run and fails a manual one, like the statement import.
func (im *Importer) Run(start, today time.Time, manual bool) (Result, error) {
	var res Result
	for date := start; date.Before(today); date = nextMonthEnd(date) {
		rep, err := im.Source.TrialBalance(date)
		if err != nil {
			if errors.Is(err, report.ErrUnavailable) && !manual {
				res.Deferred = true
				return res, nil
			}
			return res, fmt.Errorf("fetching trial balance for %s: %w", date.Format("2006-01-02"), err)
		}
		res.Periods++

		for _, rec := range rep.Records() {
			name := rec["Account"]
			if name == "" {
				continue
			}

			snap, err := snapshot(date, name, rec)
			if err != nil {
				im.Reporter.Report(errtrack.NewEvent("trial-balance", name, err.Error()))
				res.Failed++
				continue
			}

			if err := im.Store.Upsert(snap); err != nil {
				return res, fmt.Errorf("storing balance for %s: %w", name, err)
			}
			res.Snapshots++
		}
	}
	return res, nil
}

func snapshot(date time.Time, name string, rec map[string]string) (model.BalanceSnapshot, error) {
	credit, err := toDecimal(rec["Credit"])
	if err != nil {
		return model.BalanceSnapshot{}, fmt.Errorf("parsing credit: %w", err)
	}
	debit, err := toDecimal(rec["Debit"])
	if err != nil {
		return model.BalanceSnapshot{}, fmt.Errorf("parsing debit: %w", err)
	}
	ytdCredit, err := toDecimal(rec["YTD Credit"])
	if err != nil {
		return model.BalanceSnapshot{}, fmt.Errorf("parsing ytd credit: %w", err)
	}
	ytdDebit, err := toDecimal(rec["YTD Debit"])
	if err != nil {
		return model.BalanceSnapshot{}, fmt.Errorf("parsing ytd debit: %w", err)
	}

	return model.BalanceSnapshot{
		Date:        date,
		AccountName: name,
		Amount:      credit.Sub(debit),
		YTDAmount:   ytdCredit.Sub(ytdDebit),
	}, nil
}

// toDecimal treats the report's empty cells as zero.
func toDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// nextMonthEnd steps from one month end to the next, regardless of month
// length.
func nextMonthEnd(d time.Time) time.Time {
	return d.AddDate(0, 0, 1).AddDate(0, 1, 0).AddDate(0, 0, -1)
}
