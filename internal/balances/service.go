package balances

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pledgebook-dev/pledgebook/internal/model"
)

// Service provides access to month-end balance snapshots stored at
// <dataRoot>/ledger/balances.csv.
type Service struct {
	dataRoot string
}

// NewService creates a balances Service.
func NewService(dataRoot string) *Service {
	return &Service{dataRoot: dataRoot}
}

// All returns every snapshot. A missing file is an empty set.
func (s *Service) All() ([]model.BalanceSnapshot, error) {
	path := s.path()
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening balances %s: %w", path, err)
	}
	defer f.Close()

	snaps, err := ReadSnapshots(f)
	if err != nil {
		return nil, fmt.Errorf("reading balances %s: %w", path, err)
	}
	return snaps, nil
}

// Upsert creates or replaces the snapshot for (date, account name).
// Re-importing the same trial balance is a no-op beyond overwriting equal
// values, which keeps repeat runs idempotent.
func (s *Service) Upsert(snap model.BalanceSnapshot) error {
	if snap.AccountName == "" {
		return fmt.Errorf("snapshot has no account name")
	}

	snaps, err := s.All()
	if err != nil {
		return err
	}

	replaced := false
	for i := range snaps {
		if snaps[i].AccountName == snap.AccountName && snaps[i].Date.Equal(snap.Date) {
			snaps[i] = snap
			replaced = true
			break
		}
	}
	if !replaced {
		snaps = append(snaps, snap)
	}

	path := s.path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating balances dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("rewriting balances: %w", err)
	}
	defer f.Close()

	if err := WriteSnapshots(f, snaps); err != nil {
		return fmt.Errorf("rewriting balances: %w", err)
	}
	return nil
}

func (s *Service) path() string {
	return filepath.Join(s.dataRoot, "ledger", "balances.csv")
}
