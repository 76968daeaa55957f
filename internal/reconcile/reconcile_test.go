package reconcile

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pledgebook-dev/pledgebook/internal/errtrack"
	"github.com/pledgebook-dev/pledgebook/internal/ledger"
	"github.com/pledgebook-dev/pledgebook/internal/model"
	"github.com/pledgebook-dev/pledgebook/internal/pledges"
)

type captureReporter struct {
	events []errtrack.Event
}

func (r *captureReporter) Report(e errtrack.Event) {
	r.events = append(r.events, e)
}

func newStores(t *testing.T) (*ledger.Service, *pledges.Service) {
	t.Helper()
	dir := t.TempDir()
	return ledger.NewService(dir), pledges.NewService(dir)
}

func txn(uniqueID, ref string) model.BankTransaction {
	return model.BankTransaction{
		Date:      time.Date(2021, 1, 2, 0, 0, 0, 0, time.UTC),
		Reference: ref,
		Amount:    decimal.RequireFromString("50.00"),
		UniqueID:  uniqueID,
	}
}

func pledge(externalID, ref string) model.Pledge {
	return model.Pledge{
		ExternalID:    externalID,
		CompletedTime: time.Date(2021, 1, 1, 12, 0, 0, 0, time.UTC),
		Reference:     ref,
		Amount:        decimal.RequireFromString("50.00"),
		PaymentMethod: model.PaymentMethodBank,
	}
}

func TestRun_MatchesByReference(t *testing.T) {
	txStore, plStore := newStores(t)
	require.NoError(t, plStore.Create(pledge("100", "REF1")))
	require.NoError(t, txStore.Create(txn("id1", "REF1")))
	require.NoError(t, txStore.Create(txn("id2", "REF9")))

	res, err := Run(txStore, plStore, errtrack.Discard{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Matched)
	assert.Equal(t, 1, res.Unmatched)

	txns, err := txStore.All()
	require.NoError(t, err)
	assert.Equal(t, "100", txns[0].PledgeID)
	assert.Empty(t, txns[1].PledgeID)
}

func TestRun_Idempotent(t *testing.T) {
	txStore, plStore := newStores(t)
	require.NoError(t, plStore.Create(pledge("100", "REF1")))
	require.NoError(t, txStore.Create(txn("id1", "REF1")))

	first, err := Run(txStore, plStore, errtrack.Discard{})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Matched)

	second, err := Run(txStore, plStore, errtrack.Discard{})
	require.NoError(t, err)
	assert.Equal(t, 0, second.Matched)
	assert.Equal(t, 0, second.Unmatched)
	assert.Equal(t, 0, second.Ambiguous)
}

func TestRun_SkipsFlaggedTransactions(t *testing.T) {
	txStore, plStore := newStores(t)
	require.NoError(t, plStore.Create(pledge("100", "REF1")))
	require.NoError(t, txStore.Create(txn("id1", "REF1")))
	require.NoError(t, txStore.SetDoNotReconcile("id1", true))

	res, err := Run(txStore, plStore, errtrack.Discard{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Matched)

	txns, err := txStore.All()
	require.NoError(t, err)
	assert.Empty(t, txns[0].PledgeID)
}

func TestRun_AmbiguousReferenceIsFlaggedNotResolved(t *testing.T) {
	txStore, plStore := newStores(t)
	require.NoError(t, plStore.Create(pledge("100", "REF1")))
	require.NoError(t, plStore.Create(pledge("101", "REF1")))
	require.NoError(t, txStore.Create(txn("id1", "REF1")))

	reporter := &captureReporter{}
	res, err := Run(txStore, plStore, reporter)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Matched)
	assert.Equal(t, 1, res.Ambiguous)

	require.Len(t, reporter.events, 1)
	assert.Equal(t, "reconcile", reporter.events[0].Source)
	assert.Equal(t, "REF1", reporter.events[0].Subject)

	txns, err := txStore.All()
	require.NoError(t, err)
	assert.Empty(t, txns[0].PledgeID, "ambiguous match must not pick a pledge")
}

func TestRun_EmptyReferenceNeverMatches(t *testing.T) {
	txStore, plStore := newStores(t)
	require.NoError(t, plStore.Create(pledge("100", "")))
	require.NoError(t, txStore.Create(txn("id1", "")))

	res, err := Run(txStore, plStore, errtrack.Discard{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Matched)
	assert.Equal(t, 1, res.Unmatched)
}

func TestValidate_Clean(t *testing.T) {
	txns := []model.BankTransaction{txn("id1", "REF1")}
	ps := []model.Pledge{pledge("100", "REF1")}
	assert.Empty(t, Validate(txns, ps))
}

func TestValidate_ReconciledAndFlagged(t *testing.T) {
	bad := txn("id1", "REF1")
	bad.PledgeID = "100"
	bad.DoNotReconcile = true

	errs := Validate([]model.BankTransaction{bad}, []model.Pledge{pledge("100", "REF1")})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "do-not-reconcile")
}

func TestValidate_DuplicateIdentities(t *testing.T) {
	errs := Validate([]model.BankTransaction{txn("id1", "REF1"), txn("id1", "REF2")}, nil)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Description, "duplicate transaction identity")
}

func TestValidate_UnknownPledge(t *testing.T) {
	bad := txn("id1", "REF1")
	bad.PledgeID = "999"

	errs := Validate([]model.BankTransaction{bad}, []model.Pledge{pledge("100", "REF1")})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Description, "unknown pledge")
}

func TestValidate_DuplicatePledgeSerials(t *testing.T) {
	errs := Validate(nil, []model.Pledge{pledge("100", "REF1"), pledge("100", "REF2")})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Description, "duplicate pledge")
}
