// Package database provides schema creation and demo seeding
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rewater/rewater-go/internal/domain/report"
	"github.com/rewater/rewater-go/internal/infrastructure/security"
)

// DemoVendor is one of the vendors seeded into an empty database.
type DemoVendor struct {
	Name string
	Type string
}

// DemoVendors are the refill stations the dashboard ships with.
var DemoVendors = []DemoVendor{
	{Name: "AquaPure - Dhanmondi", Type: "retail"},
	{Name: "ClearWell - Gulshan", Type: "office"},
	{Name: "PureDrop - Mirpur", Type: "community"},
	{Name: "H2O Hub - Banani", Type: "retail"},
}

// TableCreator handles the creation of the dashboard schema.
type TableCreator struct {
	withIndexes bool
}

// NewTableCreator creates a new TableCreator. Indexes are created only for
// the SQLite dialect, where CREATE INDEX IF NOT EXISTS is available.
func NewTableCreator(sqliteFamily bool) *TableCreator {
	return &TableCreator{withIndexes: sqliteFamily}
}

// CreateSchema executes all necessary queries to build the tables and indexes.
// Every statement is idempotent.
func (tc *TableCreator) CreateSchema(ctx context.Context, db *sql.DB) error {
	for _, tableSQL := range tables {
		if _, err := db.ExecContext(ctx, tableSQL); err != nil {
			return fmt.Errorf("failed to create table for query [%s]: %w", tableSQL, err)
		}
	}

	if !tc.withIndexes {
		return nil
	}
	for _, indexSQL := range indexes {
		if _, err := db.ExecContext(ctx, indexSQL); err != nil {
			return fmt.Errorf("failed to create index for query [%s]: %w", indexSQL, err)
		}
	}
	return nil
}

// SeedVendors inserts any demo vendor that is missing, matched by name.
func (tc *TableCreator) SeedVendors(ctx context.Context, db *sql.DB) (int, error) {
	inserted := 0
	now := time.Now().Format(report.TimestampLayout)
	for _, v := range DemoVendors {
		var id string
		err := db.QueryRowContext(ctx, "SELECT id FROM vendors WHERE name = ?", v.Name).Scan(&id)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return inserted, fmt.Errorf("failed to check for vendor %q: %w", v.Name, err)
		}

		_, err = db.ExecContext(ctx, `INSERT INTO vendors (id, name, vendor_type, created_at) VALUES (?, ?, ?, ?)`,
			security.GenerateULID(), v.Name, v.Type, now)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert vendor %q: %w", v.Name, err)
		}
		inserted++
	}
	return inserted, nil
}

var tables = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id VARCHAR(26) PRIMARY KEY,
		full_name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NULL UNIQUE,
		phone VARCHAR(64) NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(32) NOT NULL DEFAULT 'customer',
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS vendors (
		id VARCHAR(26) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		vendor_type VARCHAR(64) NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS refills (
		id VARCHAR(26) PRIMARY KEY,
		created_at DATETIME NOT NULL,
		customer_id VARCHAR(26) NULL,
		vendor_id VARCHAR(26) NULL,
		bottle_id VARCHAR(64) NULL,
		volume_l INTEGER NULL,
		amount DECIMAL(10,2) NULL,
		status VARCHAR(32) NOT NULL,
		FOREIGN KEY (customer_id) REFERENCES users(id),
		FOREIGN KEY (vendor_id) REFERENCES vendors(id)
	)`,
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_refills_status ON refills(status)`,
	`CREATE INDEX IF NOT EXISTS idx_refills_created_at ON refills(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
	`CREATE INDEX IF NOT EXISTS idx_users_phone ON users(phone)`,
}
