package pgstore

import (
	"database/sql"
	"fmt"

	"github.com/pledgebook-dev/pledgebook/internal/model"
)

// CharityStore is the Postgres partner-charity store.
type CharityStore struct {
	db *sql.DB
}

// All returns every partner charity.
func (s *CharityStore) All() ([]model.PartnerCharity, error) {
	rows, err := s.db.Query("SELECT name, contact_email, active FROM partner_charities ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying charities: %w", err)
	}
	defer rows.Close()

	var charities []model.PartnerCharity
	for rows.Next() {
		var c model.PartnerCharity
		if err := rows.Scan(&c.Name, &c.ContactEmail, &c.Active); err != nil {
			return nil, fmt.Errorf("scanning charity: %w", err)
		}
		charities = append(charities, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating charities: %w", err)
	}
	return charities, nil
}

// Upsert creates or updates a charity by name.
func (s *CharityStore) Upsert(c model.PartnerCharity) error {
	if c.Name == "" {
		return fmt.Errorf("charity has no name")
	}

	_, err := s.db.Exec(
		`INSERT INTO partner_charities (name, contact_email, active)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (name) DO UPDATE SET contact_email = $2, active = $3`,
		c.Name, c.ContactEmail, c.Active)
	if err != nil {
		return fmt.Errorf("upserting charity %s: %w", c.Name, err)
	}
	return nil
}
