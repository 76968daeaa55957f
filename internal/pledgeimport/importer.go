package pledgeimport

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/pledgebook-dev/pledgebook/internal/errtrack"
	"github.com/pledgebook-dev/pledgebook/internal/model"
)

// headerSentinel marks the header row of the legacy export. Anything above
// it is preamble emitted by the export tool and is discarded.
const headerSentinel = "webform_serial"

// Store is the slice of the pledge store the importer needs.
type Store interface {
	Exists(externalID string) (bool, error)
	Create(p model.Pledge) error
}

// RowError describes one row that could not be imported.
type RowError struct {
	Serial string
	Reason string
}

// Result summarizes one import run.
type Result struct {
	Imported int
	Skipped  int // serial already imported
	Failed   []RowError
}

// Importer ingests the legacy webform CSV export and persists new pledges.
type Importer struct {
	Store     Store
	Charities Resolver
	Reporter  errtrack.Reporter
}

// Run imports every row of the export. Each row is attempted independently:
// a bad row is reported and skipped, never aborting the batch.
func (im *Importer) Run(r io.Reader) (Result, error) {
	records, err := scan(r)
	if err != nil {
		return Result{}, err
	}

	var res Result
	for _, rec := range records {
		serial := rec[headerSentinel]

		exists, err := im.Store.Exists(serial)
		if err != nil {
			return res, err
		}
		if exists {
			res.Skipped++
			continue
		}

		if err := im.importRow(rec); err != nil {
			im.Reporter.Report(errtrack.NewEvent("pledge-import", serial, err.Error()))
			res.Failed = append(res.Failed, RowError{Serial: serial, Reason: err.Error()})
			continue
		}
		res.Imported++
	}
	return res, nil
}

func (im *Importer) importRow(rec map[string]string) error {
	p, err := buildPledge(rec, im.Charities)
	if err != nil {
		return err
	}
	if err := im.Store.Create(p); err != nil {
		return err
	}
	return nil
}

// scan discards preamble rows until the header sentinel, then zips every
// following row against the header into column-keyed records. Short rows
// simply lack the trailing columns; the field map reports those as missing.
func scan(r io.Reader) ([]map[string]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading export CSV: %w", err)
	}

	headerAt := -1
	for i, row := range rows {
		if len(row) > 0 && row[0] == headerSentinel {
			headerAt = i
			break
		}
	}
	if headerAt == -1 {
		return nil, fmt.Errorf("no header row starting with %q", headerSentinel)
	}

	header := rows[headerAt]
	var records []map[string]string
	for _, row := range rows[headerAt+1:] {
		rec := make(map[string]string, len(header))
		for i, value := range row {
			if i >= len(header) {
				break
			}
			rec[header[i]] = value
		}
		records = append(records, rec)
	}
	return records, nil
}
