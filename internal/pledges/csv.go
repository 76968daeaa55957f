package pledges

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pledgebook-dev/pledgebook/internal/model"
)

// Header is the CSV header for pledges.csv.
const Header = "external_id,completed_time,ip,drupal_uid,drupal_username,preferred_donation_method,reference,recipient_org,amount,first_name,last_name,email,subscribe_to_updates,publish_donation,share_with_givewell,share_with_gwwc,share_with_tlycs,recurring,recurring_frequency,how_did_you_hear_about_us,payment_method"

const (
	numFields       = 21
	timestampFormat = time.RFC3339
	colExternalID   = 0
	colCompleted    = 1
	colIP           = 2
	colUID          = 3
	colUsername     = 4
	colPreferred    = 5
	colReference    = 6
	colRecipient    = 7
	colAmount       = 8
	colFirstName    = 9
	colLastName     = 10
	colEmail        = 11
	colSubscribe    = 12
	colPublish      = 13
	colShareGW      = 14
	colShareGWWC    = 15
	colShareTLYCS   = 16
	colRecurring    = 17
	colFrequency    = 18
	colHowHeard     = 19
	colPayment      = 20
)

// ReadPledges reads all pledges from a pledges.csv reader.
func ReadPledges(r io.Reader) ([]model.Pledge, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading pledges CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var ps []model.Pledge
	for i, rec := range records[1:] {
		p, err := UnmarshalPledge(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		ps = append(ps, p)
	}
	return ps, nil
}

// AppendPledges appends pledges to an existing pledges.csv writer (no header).
func AppendPledges(w io.Writer, ps []model.Pledge) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	for i, p := range ps {
		if err := cw.Write(MarshalPledge(p)); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	return cw.Error()
}

// MarshalPledge converts a Pledge to a CSV row.
func MarshalPledge(p model.Pledge) []string {
	row := make([]string, numFields)
	row[colExternalID] = p.ExternalID
	row[colCompleted] = p.CompletedTime.Format(timestampFormat)
	row[colIP] = p.IP
	row[colUID] = p.DrupalUID
	row[colUsername] = p.DrupalUsername
	row[colPreferred] = p.PreferredDonationMethod
	row[colReference] = p.Reference
	row[colRecipient] = p.RecipientOrg
	row[colAmount] = p.Amount.StringFixed(2)
	row[colFirstName] = p.FirstName
	row[colLastName] = p.LastName
	row[colEmail] = p.Email
	row[colSubscribe] = marshalBool(p.SubscribeToUpdates)
	row[colPublish] = marshalBool(p.PublishDonation)
	row[colShareGW] = marshalBool(p.ShareWithGivewell)
	row[colShareGWWC] = marshalBool(p.ShareWithGWWC)
	row[colShareTLYCS] = marshalBool(p.ShareWithTLYCS)
	row[colRecurring] = marshalBool(p.Recurring)
	row[colFrequency] = p.RecurringFrequency
	row[colHowHeard] = p.HowDidYouHearAboutUs
	row[colPayment] = string(p.PaymentMethod)
	return row
}

// UnmarshalPledge converts a CSV row to a Pledge.
func UnmarshalPledge(record []string) (model.Pledge, error) {
	if len(record) != numFields {
		return model.Pledge{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	if record[colExternalID] == "" {
		return model.Pledge{}, fmt.Errorf("missing external_id")
	}

	completed, err := time.Parse(timestampFormat, record[colCompleted])
	if err != nil {
		return model.Pledge{}, fmt.Errorf("parsing completed_time %q: %w", record[colCompleted], err)
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Pledge{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	return model.Pledge{
		ExternalID:              record[colExternalID],
		CompletedTime:           completed,
		IP:                      record[colIP],
		DrupalUID:               record[colUID],
		DrupalUsername:          record[colUsername],
		PreferredDonationMethod: record[colPreferred],
		Reference:               record[colReference],
		RecipientOrg:            record[colRecipient],
		Amount:                  amount,
		FirstName:               record[colFirstName],
		LastName:                record[colLastName],
		Email:                   record[colEmail],
		SubscribeToUpdates:      record[colSubscribe] == "true",
		PublishDonation:         record[colPublish] == "true",
		ShareWithGivewell:       record[colShareGW] == "true",
		ShareWithGWWC:           record[colShareGWWC] == "true",
		ShareWithTLYCS:          record[colShareTLYCS] == "true",
		Recurring:               record[colRecurring] == "true",
		RecurringFrequency:      record[colFrequency],
		HowDidYouHearAboutUs:    record[colHowHeard],
		PaymentMethod:           model.PaymentMethod(record[colPayment]),
	}, nil
}

func marshalBool(b bool) string {
	if b {
		return "true"
	}
	return ""
}
