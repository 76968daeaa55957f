package pgstore

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/pledgebook-dev/pledgebook/internal/model"
)

// PledgeStore is the Postgres pledge store.
type PledgeStore struct {
	db *sql.DB
}

const pledgeColumns = `external_id, completed_time, ip, drupal_uid, drupal_username,
	preferred_donation_method, reference, recipient_org, amount, first_name,
	last_name, email, subscribe_to_updates, publish_donation, share_with_givewell,
	share_with_gwwc, share_with_tlycs, recurring, recurring_frequency,
	how_did_you_hear_about_us, payment_method`

// Exists reports whether a pledge with the given external serial id exists.
func (s *PledgeStore) Exists(externalID string) (bool, error) {
	var one int
	err := s.db.QueryRow("SELECT 1 FROM pledges WHERE external_id = $1", externalID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking pledge %s: %w", externalID, err)
	}
	return true, nil
}

// Create inserts a pledge. An existing serial id is left untouched.
func (s *PledgeStore) Create(p model.Pledge) error {
	if p.ExternalID == "" {
		return fmt.Errorf("pledge has no external_id")
	}

	_, err := s.db.Exec(
		`INSERT INTO pledges (`+pledgeColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		 ON CONFLICT (external_id) DO NOTHING`,
		p.ExternalID, p.CompletedTime, p.IP, p.DrupalUID, p.DrupalUsername,
		p.PreferredDonationMethod, p.Reference, p.RecipientOrg, p.Amount.StringFixed(2),
		p.FirstName, p.LastName, p.Email, p.SubscribeToUpdates, p.PublishDonation,
		p.ShareWithGivewell, p.ShareWithGWWC, p.ShareWithTLYCS, p.Recurring,
		p.RecurringFrequency, p.HowDidYouHearAboutUs, string(p.PaymentMethod))
	if err != nil {
		return fmt.Errorf("creating pledge %s: %w", p.ExternalID, err)
	}
	return nil
}

// All returns every pledge.
func (s *PledgeStore) All() ([]model.Pledge, error) {
	rows, err := s.db.Query("SELECT " + pledgeColumns + " FROM pledges ORDER BY external_id")
	if err != nil {
		return nil, fmt.Errorf("querying pledges: %w", err)
	}
	defer rows.Close()

	var ps []model.Pledge
	for rows.Next() {
		var p model.Pledge
		var amount, method string
		if err := rows.Scan(&p.ExternalID, &p.CompletedTime, &p.IP, &p.DrupalUID,
			&p.DrupalUsername, &p.PreferredDonationMethod, &p.Reference, &p.RecipientOrg,
			&amount, &p.FirstName, &p.LastName, &p.Email, &p.SubscribeToUpdates,
			&p.PublishDonation, &p.ShareWithGivewell, &p.ShareWithGWWC, &p.ShareWithTLYCS,
			&p.Recurring, &p.RecurringFrequency, &p.HowDidYouHearAboutUs, &method); err != nil {
			return nil, fmt.Errorf("scanning pledge: %w", err)
		}
		p.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parsing amount %q: %w", amount, err)
		}
		p.PaymentMethod = model.PaymentMethod(method)
		ps = append(ps, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pledges: %w", err)
	}
	return ps, nil
}

// ByReference returns pledges grouped by reference code.
func (s *PledgeStore) ByReference() (map[string][]model.Pledge, error) {
	ps, err := s.All()
	if err != nil {
		return nil, err
	}

	byRef := make(map[string][]model.Pledge)
	for _, p := range ps {
		if p.Reference == "" {
			continue
		}
		byRef[p.Reference] = append(byRef[p.Reference], p)
	}
	return byRef, nil
}
