package pledgeimport

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pledgebook-dev/pledgebook/internal/model"
)

// Resolver resolves legacy recipient-org names to partner charities.
type Resolver interface {
	Resolve(name string) (model.PartnerCharity, bool)
}

// legacyTimeFormat is the timestamp format of the webform export,
// e.g. "01/02/2021 - 09:30".
const legacyTimeFormat = "01/02/2006 - 15:04"

// amountJunk strips currency symbols, whitespace and separators from legacy
// amount values ("AUD $1,000.00" -> "1000.00").
var amountJunk = regexp.MustCompile(`[a-zA-Z$ /,]`)

// fieldMapping binds one internal pledge field to its legacy export column
// and the coercion applied to the raw value.
type fieldMapping struct {
	field  string // internal name, for diagnostics
	column string // legacy export column
	assign func(p *model.Pledge, value string, charities Resolver) error
}

// fieldMap is the declarative transform from the legacy export to a Pledge,
// evaluated in order for every row. The consent columns carry the full
// webform question text as their header.
var fieldMap = []fieldMapping{
	{"external_id", "webform_serial", func(p *model.Pledge, v string, _ Resolver) error {
		p.ExternalID = v
		return nil
	}},
	{"completed_time", "webform_completed_time", func(p *model.Pledge, v string, _ Resolver) error {
		ts, err := time.Parse(legacyTimeFormat, v)
		if err != nil {
			return fmt.Errorf("parsing timestamp %q: %w", v, err)
		}
		p.CompletedTime = ts
		return nil
	}},
	{"ip", "webform_ip_address", func(p *model.Pledge, v string, _ Resolver) error {
		p.IP = v
		return nil
	}},
	{"drupal_uid", "webform_uid", func(p *model.Pledge, v string, _ Resolver) error {
		p.DrupalUID = v
		return nil
	}},
	{"drupal_username", "webform_username", func(p *model.Pledge, v string, _ Resolver) error {
		p.DrupalUsername = v
		return nil
	}},
	{"preferred_donation_method", "preferred_donation_method", func(p *model.Pledge, v string, _ Resolver) error {
		p.PreferredDonationMethod = v
		return nil
	}},
	{"reference", "transactionref", func(p *model.Pledge, v string, _ Resolver) error {
		p.Reference = v
		return nil
	}},
	{"recipient_org", "recipient_org", func(p *model.Pledge, v string, charities Resolver) error {
		c, ok := charities.Resolve(v)
		if !ok {
			return fmt.Errorf("unknown partner charity %q", v)
		}
		p.RecipientOrg = c.Name
		return nil
	}},
	{"amount", "donation_amount", func(p *model.Pledge, v string, _ Resolver) error {
		cleaned := amountJunk.ReplaceAllString(v, "")
		amount, err := decimal.NewFromString(cleaned)
		if err != nil {
			return fmt.Errorf("parsing amount %q: %w", v, err)
		}
		p.Amount = amount
		return nil
	}},
	{"first_name", "ea_donor_name", func(p *model.Pledge, v string, _ Resolver) error {
		p.FirstName = v
		return nil
	}},
	{"last_name", "ea_donor_last_name", func(p *model.Pledge, v string, _ Resolver) error {
		p.LastName = v
		return nil
	}},
	{"email", "email", func(p *model.Pledge, v string, _ Resolver) error {
		p.Email = v
		return nil
	}},
	{"subscribe_to_updates", "Stay in touch (receive occasional emails with important updates, new research, and events near you)", func(p *model.Pledge, v string, _ Resolver) error {
		p.SubscribeToUpdates = parseConsent(v)
		return nil
	}},
	{"recurring", "I want to set up recurring donations through my bank", func(p *model.Pledge, v string, _ Resolver) error {
		p.Recurring = parseConsent(v)
		return nil
	}},
	{"recurring_frequency", "recurring_donation_frequency", func(p *model.Pledge, v string, _ Resolver) error {
		p.RecurringFrequency = v
		return nil
	}},
	// The export never carried a separate publish column; the webform reused
	// the stay-in-touch answer.
	{"publish_donation", "Stay in touch (receive occasional emails with important updates, new research, and events near you)", func(p *model.Pledge, v string, _ Resolver) error {
		p.PublishDonation = parseConsent(v)
		return nil
	}},
	{"how_did_you_hear_about_us", "how_did_you_hear_about_us", func(p *model.Pledge, v string, _ Resolver) error {
		p.HowDidYouHearAboutUs = v
		return nil
	}},
	{"share_with_givewell", "Share my email address and information about my donation with GiveWell. (GiveWell will not share your information with any third parties.)", func(p *model.Pledge, v string, _ Resolver) error {
		p.ShareWithGivewell = parseConsent(v)
		return nil
	}},
	{"share_with_gwwc", "Share my email address and information about my donation with Giving What We Can. (Giving What We Can will not share your information with any third parties.)", func(p *model.Pledge, v string, _ Resolver) error {
		p.ShareWithGWWC = parseConsent(v)
		return nil
	}},
	{"share_with_tlycs", "Share my email address and information about my donation with The Life You Can Save. (The Life You Can Save will not share your information with any third parties.)", func(p *model.Pledge, v string, _ Resolver) error {
		p.ShareWithTLYCS = parseConsent(v)
		return nil
	}},
}

// buildPledge applies the field map to one header-keyed record.
func buildPledge(rec map[string]string, charities Resolver) (model.Pledge, error) {
	var p model.Pledge
	for _, m := range fieldMap {
		value, ok := rec[m.column]
		if !ok {
			return model.Pledge{}, fmt.Errorf("field %s: column %q missing", m.field, m.column)
		}
		if err := m.assign(&p, value, charities); err != nil {
			return model.Pledge{}, fmt.Errorf("field %s: %w", m.field, err)
		}
	}

	// The webform's own payment channel field was retired upstream; every
	// imported pledge is recorded as a bank donation.
	p.PaymentMethod = model.PaymentMethodBank
	return p, nil
}

// parseConsent normalizes the export's truthy strings ("Yes", "1", question
// text echoes) to a bool. Empty and explicit negatives are false.
func parseConsent(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "0", "no", "n", "false":
		return false
	default:
		return true
	}
}
