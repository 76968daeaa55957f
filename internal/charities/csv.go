package charities

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/pledgebook-dev/pledgebook/internal/model"
)

const (
	numFields = 3
	colName   = 0
	colEmail  = 1
	colActive = 2
)

// ReadCharities reads partner-charities.csv.
func ReadCharities(r io.Reader) ([]model.PartnerCharity, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading charities CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var charities []model.PartnerCharity
	for i, rec := range records[1:] {
		c, err := UnmarshalCharity(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		charities = append(charities, c)
	}
	return charities, nil
}

// WriteCharities writes partner-charities.csv.
func WriteCharities(w io.Writer, charities []model.PartnerCharity) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"name", "contact_email", "active"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, c := range charities {
		if err := cw.Write(MarshalCharity(c)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalCharity converts a PartnerCharity to a CSV row.
func MarshalCharity(c model.PartnerCharity) []string {
	row := make([]string, numFields)
	row[colName] = c.Name
	row[colEmail] = c.ContactEmail
	if c.Active {
		row[colActive] = "true"
	}
	return row
}

// UnmarshalCharity converts a CSV row to a PartnerCharity.
func UnmarshalCharity(record []string) (model.PartnerCharity, error) {
	if len(record) != numFields {
		return model.PartnerCharity{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	if record[colName] == "" {
		return model.PartnerCharity{}, fmt.Errorf("missing charity name")
	}

	return model.PartnerCharity{
		Name:         record[colName],
		ContactEmail: record[colEmail],
		Active:       record[colActive] == "true",
	}, nil
}
