package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is the channel a donor paid through.
type PaymentMethod string

const (
	PaymentMethodBank  PaymentMethod = "bank"
	PaymentMethodCard  PaymentMethod = "card"
	PaymentMethodOther PaymentMethod = "other"
)

// Pledge is a donor's recorded commitment to donate, created by a webform
// submission or a bulk import of the legacy export.
type Pledge struct {
	ExternalID              string // webform serial, globally unique import key
	CompletedTime           time.Time
	IP                      string
	DrupalUID               string
	DrupalUsername          string
	PreferredDonationMethod string
	Reference               string // links to bank transactions
	RecipientOrg            string // partner charity name
	Amount                  decimal.Decimal
	FirstName               string
	LastName                string
	Email                   string
	SubscribeToUpdates      bool
	PublishDonation         bool
	ShareWithGivewell       bool
	ShareWithGWWC           bool
	ShareWithTLYCS          bool
	Recurring               bool
	RecurringFrequency      string
	HowDidYouHearAboutUs    string
	PaymentMethod           PaymentMethod
}
