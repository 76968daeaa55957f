// Package pgstore is the Postgres persistence backend. It mirrors the CSV
// services' operations for deployments where the books live in a shared
// database rather than a data repository.
package pgstore

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// DB wraps a Postgres connection and hands out per-entity stores.
type DB struct {
	sql *sql.DB
}

// Open connects to Postgres and verifies the connection.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return &DB{sql: db}, nil
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

// Migrate creates the schema if it does not exist yet.
func (d *DB) Migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS bank_transactions (
			unique_id        text PRIMARY KEY,
			date             date NOT NULL,
			description      text NOT NULL DEFAULT '',
			reference        text NOT NULL DEFAULT '',
			amount           numeric(12,2) NOT NULL,
			do_not_reconcile boolean NOT NULL DEFAULT false,
			pledge_id        text NOT NULL DEFAULT '',
			CHECK (NOT (do_not_reconcile AND pledge_id <> ''))
		)`,
		`CREATE TABLE IF NOT EXISTS pledges (
			external_id               text PRIMARY KEY,
			completed_time            timestamptz NOT NULL,
			ip                        text NOT NULL DEFAULT '',
			drupal_uid                text NOT NULL DEFAULT '',
			drupal_username           text NOT NULL DEFAULT '',
			preferred_donation_method text NOT NULL DEFAULT '',
			reference                 text NOT NULL DEFAULT '',
			recipient_org             text NOT NULL DEFAULT '',
			amount                    numeric(12,2) NOT NULL,
			first_name                text NOT NULL DEFAULT '',
			last_name                 text NOT NULL DEFAULT '',
			email                     text NOT NULL DEFAULT '',
			subscribe_to_updates      boolean NOT NULL DEFAULT false,
			publish_donation          boolean NOT NULL DEFAULT false,
			share_with_givewell       boolean NOT NULL DEFAULT false,
			share_with_gwwc           boolean NOT NULL DEFAULT false,
			share_with_tlycs          boolean NOT NULL DEFAULT false,
			recurring                 boolean NOT NULL DEFAULT false,
			recurring_frequency       text NOT NULL DEFAULT '',
			how_did_you_hear_about_us text NOT NULL DEFAULT '',
			payment_method            text NOT NULL DEFAULT 'bank'
		)`,
		`CREATE TABLE IF NOT EXISTS partner_charities (
			name          text PRIMARY KEY,
			contact_email text NOT NULL DEFAULT '',
			active        boolean NOT NULL DEFAULT true
		)`,
		`CREATE TABLE IF NOT EXISTS balance_snapshots (
			date         date NOT NULL,
			account_name text NOT NULL,
			amount       numeric(12,2) NOT NULL,
			ytd_amount   numeric(12,2) NOT NULL,
			PRIMARY KEY (date, account_name)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := d.sql.Exec(stmt); err != nil {
			return fmt.Errorf("migrating schema: %w", err)
		}
	}
	return nil
}

// Transactions returns the bank-transaction store.
func (d *DB) Transactions() *TransactionStore {
	return &TransactionStore{db: d.sql}
}

// Pledges returns the pledge store.
func (d *DB) Pledges() *PledgeStore {
	return &PledgeStore{db: d.sql}
}

// Charities returns the partner-charity store.
func (d *DB) Charities() *CharityStore {
	return &CharityStore{db: d.sql}
}

// Balances returns the balance-snapshot store.
func (d *DB) Balances() *BalanceStore {
	return &BalanceStore{db: d.sql}
}
