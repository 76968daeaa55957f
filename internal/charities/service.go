package charities

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pledgebook-dev/pledgebook/internal/model"
)

// Service provides in-memory lookup over the partner charities a pledge can
// be designated to.
type Service struct {
	charities []model.PartnerCharity
	byName    map[string]model.PartnerCharity
}

// NewService creates a Service from a slice of charities.
func NewService(charities []model.PartnerCharity) *Service {
	byName := make(map[string]model.PartnerCharity, len(charities))
	for _, c := range charities {
		byName[c.Name] = c
	}
	return &Service{charities: charities, byName: byName}
}

// Load reads partner-charities.csv from a data root and returns a Service.
// A missing file yields an empty Service.
func Load(dataRoot string) (*Service, error) {
	f, err := os.Open(path(dataRoot))
	if errors.Is(err, fs.ErrNotExist) {
		return NewService(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening partner charities: %w", err)
	}
	defer f.Close()

	charities, err := ReadCharities(f)
	if err != nil {
		return nil, fmt.Errorf("reading partner charities: %w", err)
	}
	return NewService(charities), nil
}

// All returns all charities.
func (s *Service) All() []model.PartnerCharity {
	return s.charities
}

// Resolve returns the charity with the given name.
func (s *Service) Resolve(name string) (model.PartnerCharity, bool) {
	c, ok := s.byName[name]
	return c, ok
}

// Exists reports whether a charity name is known.
func (s *Service) Exists(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Save writes the charities to <dataRoot>/charities/partner-charities.csv.
func (s *Service) Save(dataRoot string) error {
	p := path(dataRoot)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("creating charities dir: %w", err)
	}

	f, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("creating partner charities file: %w", err)
	}
	defer f.Close()

	if err := WriteCharities(f, s.charities); err != nil {
		return fmt.Errorf("writing partner charities: %w", err)
	}
	return nil
}

func path(dataRoot string) string {
	return filepath.Join(dataRoot, "charities", "partner-charities.csv")
}
