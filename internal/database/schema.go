package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// CounterBill is the counters row that numbers bills.
const CounterBill = "bill"

// CreateSchema creates all tables needed for the till.
// Safe to call on every start - uses IF NOT EXISTS.
func CreateSchema(db *DB) error {
	ddl := sqliteSchema
	if db.Dialect == DialectPostgres {
		ddl = postgresSchema
	}

	// One statement per Exec: lib/pq accepts batches, but this keeps both drivers on the same path.
	for _, stmt := range strings.Split(ddl, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	if err := initCounter(db, CounterBill); err != nil {
		return fmt.Errorf("failed to initialise bill counter: %w", err)
	}
	return nil
}

// initCounter creates the named counter once. Numbering continues from the
// existing history the first time the counter is created.
func initCounter(db *DB, name string) error {
	var exists int
	err := db.QueryRow(Rebind(db.Dialect, `SELECT 1 FROM counters WHERE name = $1`), name).Scan(&exists)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	_, err = db.Exec(Rebind(db.Dialect, `
		INSERT INTO counters (name, value)
		SELECT CAST($1 AS TEXT), COUNT(*) FROM sales_history`), name)
	return err
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS menu_items (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE CHECK (name <> ''),
    price INTEGER NOT NULL CHECK (price >= 0),
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS tables (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    table_name TEXT NOT NULL UNIQUE CHECK (table_name <> ''),
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS orders (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    table_id INTEGER NOT NULL REFERENCES tables(id),
    -- no REFERENCES: lines keep their own name and price, so menu items may be deleted while ordered
    menu_item_id INTEGER NOT NULL,
    menu_name TEXT NOT NULL,
    price INTEGER NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_orders_table_id ON orders(table_id);

CREATE TABLE IF NOT EXISTS sales_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    bill_id TEXT NOT NULL UNIQUE,
    table_name TEXT NOT NULL,
    total_amount INTEGER NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_sales_history_created_at ON sales_history(created_at);

CREATE TABLE IF NOT EXISTS sale_items (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    sale_id INTEGER NOT NULL REFERENCES sales_history(id),
    menu_name TEXT NOT NULL,
    price INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sale_items_sale_id ON sale_items(sale_id);

CREATE TABLE IF NOT EXISTS counters (
    name TEXT PRIMARY KEY,
    value INTEGER NOT NULL
);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS menu_items (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL UNIQUE CHECK (name <> ''),
    price INTEGER NOT NULL CHECK (price >= 0),
    created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS tables (
    id BIGSERIAL PRIMARY KEY,
    table_name TEXT NOT NULL UNIQUE CHECK (table_name <> ''),
    created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS orders (
    id BIGSERIAL PRIMARY KEY,
    table_id BIGINT NOT NULL REFERENCES tables(id),
    -- no REFERENCES: lines keep their own name and price, so menu items may be deleted while ordered
    menu_item_id BIGINT NOT NULL,
    menu_name TEXT NOT NULL,
    price INTEGER NOT NULL,
    created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_orders_table_id ON orders(table_id);

CREATE TABLE IF NOT EXISTS sales_history (
    id BIGSERIAL PRIMARY KEY,
    bill_id TEXT NOT NULL UNIQUE,
    table_name TEXT NOT NULL,
    total_amount INTEGER NOT NULL,
    created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_sales_history_created_at ON sales_history(created_at);

CREATE TABLE IF NOT EXISTS sale_items (
    id BIGSERIAL PRIMARY KEY,
    sale_id BIGINT NOT NULL REFERENCES sales_history(id),
    menu_name TEXT NOT NULL,
    price INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sale_items_sale_id ON sale_items(sale_id);

CREATE TABLE IF NOT EXISTS counters (
    name TEXT PRIMARY KEY,
    value BIGINT NOT NULL
);
`
