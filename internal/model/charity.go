package model

// PartnerCharity is a recipient organization that pledges can be
// designated to. Name is the key used to resolve legacy export rows.
type PartnerCharity struct {
	Name         string
	ContactEmail string
	Active       bool
}
