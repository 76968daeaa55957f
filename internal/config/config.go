package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// File is the config file name inside a data repository.
const File = "pledgebook.yaml"

// EnvDatabaseDSN is the environment variable carrying the Postgres DSN for
// the postgres store backend. It lives in the environment or a .env file,
// never in the YAML.
const EnvDatabaseDSN = "PLEDGEBOOK_DATABASE_DSN"

// Store backends.
const (
	BackendCSV      = "csv"
	BackendPostgres = "postgres"
)

// Config represents the top-level pledgebook.yaml configuration.
type Config struct {
	Organization OrganizationConfig `yaml:"organization"`
	Store        StoreConfig        `yaml:"store"`
	Statement    StatementConfig    `yaml:"statement"`
	Fiscal       FiscalConfig       `yaml:"fiscal"`
	Git          GitConfig          `yaml:"git"`
}

// OrganizationConfig identifies the charity running the books.
type OrganizationConfig struct {
	Name string `yaml:"name"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Backend string `yaml:"backend"`
}

// StatementConfig controls bank-statement imports from the ledger service.
type StatementConfig struct {
	DaysToImport int    `yaml:"days_to_import"`
	AccountID    string `yaml:"account_id"` // incoming donations account at the service
}

// FiscalConfig defines trial-balance archival boundaries.
type FiscalConfig struct {
	BalanceStart string `yaml:"balance_start"` // first archived month end, "YYYY-MM-DD"
}

// GitConfig controls auto-committing the data repository.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a pledgebook.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new data repo.
func Default(orgName string) *Config {
	return &Config{
		Organization: OrganizationConfig{Name: orgName},
		Store:        StoreConfig{Backend: BackendCSV},
		Statement: StatementConfig{
			DaysToImport: 32,
		},
		Fiscal: FiscalConfig{
			BalanceStart: "2016-01-31",
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Pledgebook",
			AuthorEmail: "books@pledgebook.dev",
		},
	}
}

// LoadEnv overlays a .env file from the data root onto the process
// environment, if one exists. Real environment variables win.
func LoadEnv(dataRoot string) error {
	err := godotenv.Load(filepath.Join(dataRoot, ".env"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// DatabaseDSN returns the Postgres DSN from the environment, empty if unset.
func DatabaseDSN() string {
	return os.Getenv(EnvDatabaseDSN)
}

// BalanceStartDate parses the fiscal balance_start setting.
func (c *Config) BalanceStartDate() (time.Time, error) {
	d, err := time.Parse("2006-01-02", c.Fiscal.BalanceStart)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing fiscal.balance_start %q: %w", c.Fiscal.BalanceStart, err)
	}
	return d, nil
}
