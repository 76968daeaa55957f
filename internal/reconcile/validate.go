package reconcile

import (
	"fmt"

	"github.com/pledgebook-dev/pledgebook/internal/model"
)

// ValidationError describes a single integrity violation in the books.
type ValidationError struct {
	Subject     string // unique id, pledge id or reference involved
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("integrity [%s]: %s", e.Subject, e.Description)
}

// Validate checks the stored transactions and pledges for violations that
// would corrupt reconciliation. The stores reject these at write time; this
// catches data produced by older tools or edited by hand.
func Validate(txns []model.BankTransaction, pledges []model.Pledge) []ValidationError {
	var errs []ValidationError

	pledgeIDs := make(map[string]bool, len(pledges))
	for _, p := range pledges {
		if pledgeIDs[p.ExternalID] {
			errs = append(errs, ValidationError{
				Subject:     p.ExternalID,
				Description: "duplicate pledge external id",
			})
		}
		pledgeIDs[p.ExternalID] = true
	}

	uniqueSeen := make(map[string]bool, len(txns))
	for _, txn := range txns {
		if uniqueSeen[txn.UniqueID] {
			errs = append(errs, ValidationError{
				Subject:     txn.UniqueID,
				Description: "duplicate transaction identity",
			})
		}
		uniqueSeen[txn.UniqueID] = true

		if txn.Reconciled() && txn.DoNotReconcile {
			errs = append(errs, ValidationError{
				Subject:     txn.UniqueID,
				Description: "transaction reconciled to a pledge and also marked do-not-reconcile",
			})
		}

		if txn.Reconciled() && !pledgeIDs[txn.PledgeID] {
			errs = append(errs, ValidationError{
				Subject:     txn.UniqueID,
				Description: fmt.Sprintf("reconciled to unknown pledge %s", txn.PledgeID),
			})
		}
	}

	return errs
}
