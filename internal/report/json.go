package report

import (
	"encoding/json"
	"fmt"
	"io"
)

// envelope is the wire format the service wraps reports in.
type envelope struct {
	Reports []Report `json:"Reports"`
}

// Decode reads a saved report export and returns its first report.
func Decode(r io.Reader) (Report, error) {
	var env envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return Report{}, fmt.Errorf("decoding report: %w", err)
	}
	if len(env.Reports) == 0 {
		return Report{}, fmt.Errorf("report export contains no reports")
	}
	return env.Reports[0], nil
}
