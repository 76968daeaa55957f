package ledger

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pledgebook-dev/pledgebook/internal/model"
)

// Service provides access to the bank-transaction ledger stored at
// <dataRoot>/ledger/transactions.csv.
type Service struct {
	dataRoot string
}

// NewService creates a ledger Service.
func NewService(dataRoot string) *Service {
	return &Service{dataRoot: dataRoot}
}

// All returns every transaction. A missing file is an empty ledger.
func (s *Service) All() ([]model.BankTransaction, error) {
	path := s.path()
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening ledger %s: %w", path, err)
	}
	defer f.Close()

	txns, err := ReadTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("reading ledger %s: %w", path, err)
	}
	return txns, nil
}

// Exists reports whether a transaction with the given identity is already
// in the ledger.
func (s *Service) Exists(uniqueID string) (bool, error) {
	txns, err := s.All()
	if err != nil {
		return false, err
	}
	for _, txn := range txns {
		if txn.UniqueID == uniqueID {
			return true, nil
		}
	}
	return false, nil
}

// Create appends a new transaction. Re-inserting an existing identity is
// rejected so concurrent import runs cannot double-insert.
func (s *Service) Create(txn model.BankTransaction) error {
	if txn.UniqueID == "" {
		return fmt.Errorf("transaction has no unique_id")
	}

	exists, err := s.Exists(txn.UniqueID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("transaction %s already exists", txn.UniqueID)
	}

	path := s.path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating ledger dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	if err := AppendTransactions(f, []model.BankTransaction{txn}); err != nil {
		return fmt.Errorf("appending transaction: %w", err)
	}
	return nil
}

// Unreconciled returns transactions with no attached pledge that are not
// flagged do-not-reconcile.
func (s *Service) Unreconciled() ([]model.BankTransaction, error) {
	txns, err := s.All()
	if err != nil {
		return nil, err
	}

	var out []model.BankTransaction
	for _, txn := range txns {
		if !txn.Reconciled() && !txn.DoNotReconcile {
			out = append(out, txn)
		}
	}
	return out, nil
}

// AttachPledge links a transaction to a pledge. Attaching to a flagged or
// already-reconciled transaction is an integrity error.
func (s *Service) AttachPledge(uniqueID, pledgeID string) error {
	if pledgeID == "" {
		return fmt.Errorf("empty pledge id")
	}

	return s.update(uniqueID, func(txn *model.BankTransaction) error {
		if txn.DoNotReconcile {
			return fmt.Errorf("transaction %s is flagged do-not-reconcile", uniqueID)
		}
		if txn.Reconciled() {
			return fmt.Errorf("transaction %s is already reconciled to pledge %s", uniqueID, txn.PledgeID)
		}
		txn.PledgeID = pledgeID
		return nil
	})
}

// DetachPledge clears a transaction's pledge link.
func (s *Service) DetachPledge(uniqueID string) error {
	return s.update(uniqueID, func(txn *model.BankTransaction) error {
		txn.PledgeID = ""
		return nil
	})
}

// SetDoNotReconcile flags or unflags a transaction. Flagging a reconciled
// transaction is an integrity error.
func (s *Service) SetDoNotReconcile(uniqueID string, flag bool) error {
	return s.update(uniqueID, func(txn *model.BankTransaction) error {
		if flag && txn.Reconciled() {
			return fmt.Errorf("transaction %s is reconciled to pledge %s", uniqueID, txn.PledgeID)
		}
		txn.DoNotReconcile = flag
		return nil
	})
}

func (s *Service) update(uniqueID string, mutate func(*model.BankTransaction) error) error {
	txns, err := s.All()
	if err != nil {
		return err
	}

	found := false
	for i := range txns {
		if txns[i].UniqueID != uniqueID {
			continue
		}
		if err := mutate(&txns[i]); err != nil {
			return err
		}
		found = true
		break
	}
	if !found {
		return fmt.Errorf("no transaction with unique_id %s", uniqueID)
	}

	f, err := os.Create(s.path())
	if err != nil {
		return fmt.Errorf("rewriting ledger: %w", err)
	}
	defer f.Close()

	if err := WriteTransactions(f, txns); err != nil {
		return fmt.Errorf("rewriting ledger: %w", err)
	}
	return nil
}

func (s *Service) path() string {
	return filepath.Join(s.dataRoot, "ledger", "transactions.csv")
}
