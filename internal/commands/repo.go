package commands

import (
	"fmt"
	"path/filepath"

	"github.com/pledgebook-dev/pledgebook/internal/balances"
	"github.com/pledgebook-dev/pledgebook/internal/charities"
	"github.com/pledgebook-dev/pledgebook/internal/config"
	"github.com/pledgebook-dev/pledgebook/internal/gitops"
	"github.com/pledgebook-dev/pledgebook/internal/ledger"
	"github.com/pledgebook-dev/pledgebook/internal/model"
	"github.com/pledgebook-dev/pledgebook/internal/pgstore"
	"github.com/pledgebook-dev/pledgebook/internal/pledges"
)

// transactionStore is the union of ledger operations the commands use,
// satisfied by both the CSV service and the Postgres store.
type transactionStore interface {
	All() ([]model.BankTransaction, error)
	Exists(uniqueID string) (bool, error)
	Create(txn model.BankTransaction) error
	Unreconciled() ([]model.BankTransaction, error)
	AttachPledge(uniqueID, pledgeID string) error
}

type pledgeStore interface {
	All() ([]model.Pledge, error)
	Exists(externalID string) (bool, error)
	Create(p model.Pledge) error
	ByReference() (map[string][]model.Pledge, error)
}

type balanceStore interface {
	Upsert(snap model.BalanceSnapshot) error
}

// stores bundles the persistence backend selected by the config.
type stores struct {
	txns      transactionStore
	pledges   pledgeStore
	balances  balanceStore
	charities *charities.Service
	close     func() error
}

// loadRepo resolves the data repository directory, reads its config and
// overlays its .env file onto the environment.
func loadRepo(repoDir string) (string, *config.Config, error) {
	dir, err := filepath.Abs(repoDir)
	if err != nil {
		return "", nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(dir, config.File))
	if err != nil {
		return "", nil, fmt.Errorf("not a pledgebook repository: %w", err)
	}

	if err := config.LoadEnv(dir); err != nil {
		return "", nil, err
	}
	return dir, cfg, nil
}

// openStores opens the backend named in the config. Callers must close the
// returned stores.
func openStores(dataRoot string, cfg *config.Config) (*stores, error) {
	switch cfg.Store.Backend {
	case config.BackendCSV, "":
		charitySvc, err := charities.Load(dataRoot)
		if err != nil {
			return nil, err
		}
		return &stores{
			txns:      ledger.NewService(dataRoot),
			pledges:   pledges.NewService(dataRoot),
			balances:  balances.NewService(dataRoot),
			charities: charitySvc,
			close:     func() error { return nil },
		}, nil

	case config.BackendPostgres:
		dsn := config.DatabaseDSN()
		if dsn == "" {
			return nil, fmt.Errorf("postgres backend selected but %s is not set", config.EnvDatabaseDSN)
		}

		db, err := pgstore.Open(dsn)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, err
		}

		list, err := db.Charities().All()
		if err != nil {
			db.Close()
			return nil, err
		}
		return &stores{
			txns:      db.Transactions(),
			pledges:   db.Pledges(),
			balances:  db.Balances(),
			charities: charities.NewService(list),
			close:     db.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// maybeCommit auto-commits the data repository after a mutating command.
// Only the CSV backend writes files worth committing.
func maybeCommit(dataRoot string, cfg *config.Config, message string) error {
	if !cfg.Git.AutoCommit || cfg.Store.Backend == config.BackendPostgres {
		return nil
	}
	if !gitops.IsRepo(dataRoot) {
		return nil
	}

	changed, err := gitops.HasChanges(dataRoot)
	if err != nil {
		return fmt.Errorf("checking repository state: %w", err)
	}
	if !changed {
		return nil
	}

	hash, err := gitops.CommitAll(dataRoot, message, cfg.Git.AuthorName, cfg.Git.AuthorEmail)
	if err != nil {
		return fmt.Errorf("committing books: %w", err)
	}
	fmt.Printf("Committed %s\n", hash)
	return nil
}
