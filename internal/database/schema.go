package database

import "fmt"

// The sales table mirrors the upstream ledger: one row per sale line,
// loaded by an external sync and treated as read-only here.
// customer_segments holds the batch-computed segment assignment, exactly
// one row per (company, cuit).
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS sales (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		cuit TEXT NOT NULL,
		customer_name TEXT,
		company TEXT NOT NULL,
		category TEXT,
		subcategory TEXT,
		product_code TEXT,
		product_description TEXT,
		vehicle_brand TEXT,
		amount REAL NOT NULL DEFAULT 0,
		units INTEGER NOT NULL DEFAULT 0,
		period TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_cuit_period ON sales(cuit, period)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_subcategory_period ON sales(subcategory, period)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_company ON sales(company)`,
	`CREATE TABLE IF NOT EXISTS customer_segments (
		company TEXT NOT NULL,
		cuit TEXT NOT NULL,
		customer_name TEXT,
		mix_type TEXT NOT NULL,
		dominant_category TEXT NOT NULL,
		top_subcategory TEXT NOT NULL,
		share_pct REAL NOT NULL DEFAULT 0,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (company, cuit)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_segments_profile
		ON customer_segments(mix_type, dominant_category, top_subcategory)`,
}

// Migrate creates the schema if it does not exist yet. Statements are
// idempotent, so re-running on an existing store is safe.
func (db *DB) Migrate() error {
	for _, stmt := range migrations {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
