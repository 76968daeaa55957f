package commands

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pledgebook-dev/pledgebook/internal/report"
)

// fileSource serves ledger-service reports from JSON exports saved in the
// data repository's import/ directory. A missing export reads as service
// unavailability, so scheduled imports defer until the file shows up.
type fileSource struct {
	dir string
}

func newFileSource(dataRoot string) fileSource {
	return fileSource{dir: filepath.Join(dataRoot, "import")}
}

func (s fileSource) BankStatement(from, to time.Time) (report.Report, error) {
	return s.read(bankStatementFile)
}

func (s fileSource) TrialBalance(date time.Time) (report.Report, error) {
	return s.read("trial-balance-" + date.Format("2006-01-02") + ".json")
}

const bankStatementFile = "bank-statement.json"

func (s fileSource) read(name string) (report.Report, error) {
	f, err := os.Open(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return report.Report{}, report.ErrUnavailable
	}
	if err != nil {
		return report.Report{}, err
	}
	defer f.Close()

	return report.Decode(f)
}

// markProcessed moves a consumed export into import/processed/, stamping it
// with the run date so repeat exports do not collide.
func (s fileSource) markProcessed(name string, runDate time.Time) error {
	stamped := runDate.Format("2006-01-02") + "-" + name
	return os.Rename(filepath.Join(s.dir, name), filepath.Join(s.dir, "processed", stamped))
}
