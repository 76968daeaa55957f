package errtrack

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Event is one recorded import failure.
type Event struct {
	ID        string
	Timestamp time.Time
	Source    string // which importer reported it
	Subject   string // row key, reference, or similar
	Message   string
}

// Reporter accepts failure events. Calls are fire-and-forget: importers do
// not consume a result and must keep going whatever happens here.
type Reporter interface {
	Report(e Event)
}

// NewEvent builds an Event with a fresh id and the current time.
func NewEvent(source, subject, message string) Event {
	return Event{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Source:    source,
		Subject:   subject,
		Message:   message,
	}
}

// Header is the CSV header for import-errors.csv.
const Header = "id,timestamp,source,subject,message"

const (
	numFields    = 5
	logFile      = "logs/import-errors.csv"
	colID        = 0
	colTimestamp = 1
	colSource    = 2
	colSubject   = 3
	colMessage   = 4
)

// Log is a Reporter that appends events to <dataRoot>/logs/import-errors.csv.
type Log struct {
	dataRoot string
}

// NewLog creates a Log.
func NewLog(dataRoot string) *Log {
	return &Log{dataRoot: dataRoot}
}

// Report appends one event. Failures to write are reported on stderr and
// otherwise dropped.
func (l *Log) Report(e Event) {
	if err := l.append(e); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to record import error: %v\n", err)
	}
}

func (l *Log) append(e Event) error {
	path := filepath.Join(l.dataRoot, logFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening error log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	if err := cw.Write(MarshalEvent(e)); err != nil {
		return fmt.Errorf("writing event: %w", err)
	}
	return cw.Error()
}

// Read returns all recorded events. A missing file is an empty log.
func (l *Log) Read() ([]Event, error) {
	path := filepath.Join(l.dataRoot, logFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening error log: %w", err)
	}
	defer f.Close()

	return readEvents(f)
}

func readEvents(r io.Reader) ([]Event, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading error log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var events []Event
	for i, rec := range records[1:] {
		e, err := UnmarshalEvent(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		events = append(events, e)
	}
	return events, nil
}

// MarshalEvent converts an Event to a CSV row.
func MarshalEvent(e Event) []string {
	row := make([]string, numFields)
	row[colID] = e.ID
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colSource] = e.Source
	row[colSubject] = e.Subject
	row[colMessage] = e.Message
	return row
}

// UnmarshalEvent converts a CSV row to an Event.
func UnmarshalEvent(record []string) (Event, error) {
	if len(record) != numFields {
		return Event{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Event{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	return Event{
		ID:        record[colID],
		Timestamp: ts,
		Source:    record[colSource],
		Subject:   record[colSubject],
		Message:   record[colMessage],
	}, nil
}

// Discard is a Reporter that drops every event. Useful in tests.
type Discard struct{}

// Report does nothing.
func (Discard) Report(Event) {}
