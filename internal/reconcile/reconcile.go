package reconcile

import (
	"fmt"

	"github.com/pledgebook-dev/pledgebook/internal/errtrack"
	"github.com/pledgebook-dev/pledgebook/internal/model"
)

// TransactionStore is the slice of the ledger the reconciler needs.
type TransactionStore interface {
	Unreconciled() ([]model.BankTransaction, error)
	AttachPledge(uniqueID, pledgeID string) error
}

// PledgeStore provides pledges grouped by reference code.
type PledgeStore interface {
	ByReference() (map[string][]model.Pledge, error)
}

// Result summarizes one reconciliation run.
type Result struct {
	Matched   int
	Ambiguous int // reference shared by several pledges; left untouched
	Unmatched int
}

// Run attaches unreconciled transactions to the pledge whose reference code
// matches theirs. A reference matching more than one pledge is flagged and
// skipped rather than resolved silently. Re-running with no new data is a
// no-op: only the unreconciled remainder is ever considered.
func Run(txns TransactionStore, pledges PledgeStore, reporter errtrack.Reporter) (Result, error) {
	byRef, err := pledges.ByReference()
	if err != nil {
		return Result{}, err
	}

	candidates, err := txns.Unreconciled()
	if err != nil {
		return Result{}, err
	}

	var res Result
	for _, txn := range candidates {
		matches := byRef[txn.Reference]
		if txn.Reference == "" || len(matches) == 0 {
			res.Unmatched++
			continue
		}

		if len(matches) > 1 {
			reporter.Report(errtrack.NewEvent("reconcile", txn.Reference,
				fmt.Sprintf("reference matches %d pledges", len(matches))))
			res.Ambiguous++
			continue
		}

		if err := txns.AttachPledge(txn.UniqueID, matches[0].ExternalID); err != nil {
			return res, fmt.Errorf("attaching %s: %w", txn.UniqueID, err)
		}
		res.Matched++
	}
	return res, nil
}
