package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pledgebook-dev/pledgebook/internal/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func txn(uniqueID, ref string) model.BankTransaction {
	return model.BankTransaction{
		Date:        date(2021, 1, 2),
		Description: "Donation A",
		Reference:   ref,
		Amount:      dec("50.00"),
		UniqueID:    uniqueID,
	}
}

func TestCreateAndAll(t *testing.T) {
	svc := NewService(t.TempDir())

	require.NoError(t, svc.Create(txn("id1", "REF1")))
	require.NoError(t, svc.Create(txn("id2", "REF2")))

	txns, err := svc.All()
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, "id1", txns[0].UniqueID)
	assert.Equal(t, "REF2", txns[1].Reference)
	assert.True(t, txns[0].Amount.Equal(dec("50.00")))
}

func TestAll_EmptyLedger(t *testing.T) {
	svc := NewService(t.TempDir())
	txns, err := svc.All()
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestExists(t *testing.T) {
	svc := NewService(t.TempDir())
	require.NoError(t, svc.Create(txn("id1", "REF1")))

	ok, err := svc.Exists("id1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Exists("nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCreate_DuplicateIdentity(t *testing.T) {
	svc := NewService(t.TempDir())
	require.NoError(t, svc.Create(txn("id1", "REF1")))

	err := svc.Create(txn("id1", "REF1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestCreate_MissingIdentity(t *testing.T) {
	svc := NewService(t.TempDir())
	err := svc.Create(txn("", "REF1"))
	assert.Error(t, err)
}

func TestAttachPledge(t *testing.T) {
	svc := NewService(t.TempDir())
	require.NoError(t, svc.Create(txn("id1", "REF1")))

	require.NoError(t, svc.AttachPledge("id1", "42"))

	txns, err := svc.All()
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "42", txns[0].PledgeID)
	assert.True(t, txns[0].Reconciled())
}

func TestAttachPledge_AlreadyReconciled(t *testing.T) {
	svc := NewService(t.TempDir())
	require.NoError(t, svc.Create(txn("id1", "REF1")))
	require.NoError(t, svc.AttachPledge("id1", "42"))

	err := svc.AttachPledge("id1", "43")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already reconciled")
}

func TestAttachPledge_Flagged(t *testing.T) {
	svc := NewService(t.TempDir())
	require.NoError(t, svc.Create(txn("id1", "REF1")))
	require.NoError(t, svc.SetDoNotReconcile("id1", true))

	err := svc.AttachPledge("id1", "42")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "do-not-reconcile")
}

func TestSetDoNotReconcile_Reconciled(t *testing.T) {
	svc := NewService(t.TempDir())
	require.NoError(t, svc.Create(txn("id1", "REF1")))
	require.NoError(t, svc.AttachPledge("id1", "42"))

	err := svc.SetDoNotReconcile("id1", true)
	assert.Error(t, err)
}

func TestDetachPledge(t *testing.T) {
	svc := NewService(t.TempDir())
	require.NoError(t, svc.Create(txn("id1", "REF1")))
	require.NoError(t, svc.AttachPledge("id1", "42"))
	require.NoError(t, svc.DetachPledge("id1"))

	txns, err := svc.All()
	require.NoError(t, err)
	assert.False(t, txns[0].Reconciled())
}

func TestUnreconciled(t *testing.T) {
	svc := NewService(t.TempDir())
	require.NoError(t, svc.Create(txn("id1", "REF1")))
	require.NoError(t, svc.Create(txn("id2", "REF2")))
	require.NoError(t, svc.Create(txn("id3", "REF3")))

	require.NoError(t, svc.AttachPledge("id1", "42"))
	require.NoError(t, svc.SetDoNotReconcile("id2", true))

	txns, err := svc.Unreconciled()
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "id3", txns[0].UniqueID)
}

func TestUpdate_UnknownTransaction(t *testing.T) {
	svc := NewService(t.TempDir())
	require.NoError(t, svc.Create(txn("id1", "REF1")))

	err := svc.AttachPledge("missing", "42")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no transaction")
}

func TestRoundTrip_PreservesFlags(t *testing.T) {
	svc := NewService(t.TempDir())
	tx := txn("id1", "REF1")
	tx.DoNotReconcile = true
	require.NoError(t, svc.Create(tx))
	require.NoError(t, svc.Create(txn("id2", "REF2")))
	require.NoError(t, svc.AttachPledge("id2", "7"))

	txns, err := svc.All()
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.True(t, txns[0].DoNotReconcile)
	assert.Equal(t, "7", txns[1].PledgeID)
}
