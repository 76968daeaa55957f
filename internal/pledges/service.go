package pledges

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pledgebook-dev/pledgebook/internal/model"
)

// Service provides access to pledges stored at
// <dataRoot>/pledges/pledges.csv.
type Service struct {
	dataRoot string
}

// NewService creates a pledges Service.
func NewService(dataRoot string) *Service {
	return &Service{dataRoot: dataRoot}
}

// All returns every pledge. A missing file is an empty set.
func (s *Service) All() ([]model.Pledge, error) {
	path := s.path()
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening pledges %s: %w", path, err)
	}
	defer f.Close()

	ps, err := ReadPledges(f)
	if err != nil {
		return nil, fmt.Errorf("reading pledges %s: %w", path, err)
	}
	return ps, nil
}

// Exists reports whether a pledge with the given external serial id has
// already been imported.
func (s *Service) Exists(externalID string) (bool, error) {
	ps, err := s.All()
	if err != nil {
		return false, err
	}
	for _, p := range ps {
		if p.ExternalID == externalID {
			return true, nil
		}
	}
	return false, nil
}

// Create appends a new pledge. Re-importing an existing serial id is
// rejected; callers skip rows whose id they have already seen.
func (s *Service) Create(p model.Pledge) error {
	if p.ExternalID == "" {
		return fmt.Errorf("pledge has no external_id")
	}

	exists, err := s.Exists(p.ExternalID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("pledge %s already exists", p.ExternalID)
	}

	path := s.path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating pledges dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening pledges: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	if err := AppendPledges(f, []model.Pledge{p}); err != nil {
		return fmt.Errorf("appending pledge: %w", err)
	}
	return nil
}

// ByReference returns pledges grouped by reference code. References are
// intended to be unique per pledge but that is not enforced upstream, so
// callers must handle multi-pledge groups.
func (s *Service) ByReference() (map[string][]model.Pledge, error) {
	ps, err := s.All()
	if err != nil {
		return nil, err
	}

	byRef := make(map[string][]model.Pledge)
	for _, p := range ps {
		if p.Reference == "" {
			continue
		}
		byRef[p.Reference] = append(byRef[p.Reference], p)
	}
	return byRef, nil
}

func (s *Service) path() string {
	return filepath.Join(s.dataRoot, "pledges", "pledges.csv")
}
