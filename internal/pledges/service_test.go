package pledges

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pledgebook-dev/pledgebook/internal/model"
)

func pledge(externalID, ref string) model.Pledge {
	return model.Pledge{
		ExternalID:    externalID,
		CompletedTime: time.Date(2021, 1, 2, 9, 30, 0, 0, time.UTC),
		Reference:     ref,
		RecipientOrg:  "Against Malaria Foundation",
		Amount:        decimal.RequireFromString("50.00"),
		FirstName:     "Ada",
		LastName:      "Lovelace",
		Email:         "ada@example.org",
		PaymentMethod: model.PaymentMethodBank,
	}
}

func TestCreateAndAll(t *testing.T) {
	svc := NewService(t.TempDir())

	require.NoError(t, svc.Create(pledge("100", "REF1")))
	require.NoError(t, svc.Create(pledge("101", "REF2")))

	ps, err := svc.All()
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.Equal(t, "100", ps[0].ExternalID)
	assert.Equal(t, "REF2", ps[1].Reference)
	assert.Equal(t, model.PaymentMethodBank, ps[0].PaymentMethod)
}

func TestAll_Empty(t *testing.T) {
	svc := NewService(t.TempDir())
	ps, err := svc.All()
	require.NoError(t, err)
	assert.Empty(t, ps)
}

func TestExists(t *testing.T) {
	svc := NewService(t.TempDir())
	require.NoError(t, svc.Create(pledge("100", "REF1")))

	ok, err := svc.Exists("100")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Exists("999")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCreate_DuplicateSerial(t *testing.T) {
	svc := NewService(t.TempDir())
	require.NoError(t, svc.Create(pledge("100", "REF1")))

	err := svc.Create(pledge("100", "REF9"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestCreate_MissingSerial(t *testing.T) {
	svc := NewService(t.TempDir())
	err := svc.Create(pledge("", "REF1"))
	assert.Error(t, err)
}

func TestByReference(t *testing.T) {
	svc := NewService(t.TempDir())
	require.NoError(t, svc.Create(pledge("100", "REF1")))
	require.NoError(t, svc.Create(pledge("101", "REF2")))
	require.NoError(t, svc.Create(pledge("102", "REF2")))

	noRef := pledge("103", "")
	require.NoError(t, svc.Create(noRef))

	byRef, err := svc.ByReference()
	require.NoError(t, err)
	assert.Len(t, byRef, 2)
	assert.Len(t, byRef["REF1"], 1)
	assert.Len(t, byRef["REF2"], 2)
	_, ok := byRef[""]
	assert.False(t, ok)
}

func TestRoundTrip_PreservesConsentFlags(t *testing.T) {
	svc := NewService(t.TempDir())

	p := pledge("100", "REF1")
	p.SubscribeToUpdates = true
	p.ShareWithGWWC = true
	p.Recurring = true
	p.RecurringFrequency = "monthly"
	require.NoError(t, svc.Create(p))

	ps, err := svc.All()
	require.NoError(t, err)
	require.Len(t, ps, 1)
	got := ps[0]
	assert.True(t, got.SubscribeToUpdates)
	assert.True(t, got.ShareWithGWWC)
	assert.True(t, got.Recurring)
	assert.False(t, got.PublishDonation)
	assert.False(t, got.ShareWithGivewell)
	assert.Equal(t, "monthly", got.RecurringFrequency)
}

func TestRoundTrip_PreservesTimestamp(t *testing.T) {
	svc := NewService(t.TempDir())
	require.NoError(t, svc.Create(pledge("100", "REF1")))

	ps, err := svc.All()
	require.NoError(t, err)
	assert.True(t, ps[0].CompletedTime.Equal(time.Date(2021, 1, 2, 9, 30, 0, 0, time.UTC)))
}
