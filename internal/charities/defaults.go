package charities

import "github.com/pledgebook-dev/pledgebook/internal/model"

// DefaultCharities returns the starter set of partner charities written by
// init. Names must match the recipient_org values in the legacy export.
func DefaultCharities() []model.PartnerCharity {
	return []model.PartnerCharity{
		{Name: "Against Malaria Foundation", Active: true},
		{Name: "GiveDirectly", Active: true},
		{Name: "Schistosomiasis Control Initiative", Active: true},
		{Name: "Deworm the World Initiative", Active: true},
	}
}
