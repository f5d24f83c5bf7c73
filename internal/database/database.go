package database

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // SQLite driver, registered as "sqlite"

	"shabu_pos/internal/config"
	"shabu_pos/pkg/utils"
)

// Dialect names the SQL engine behind a DB.
type Dialect string

const (
	DialectSQLite   Dialect = config.DriverSQLite
	DialectPostgres Dialect = config.DriverPostgres
)

// DB is the single process-wide storage connection.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Open opens the configured database, verifies the connection and applies the schema.
// The pool is capped at one connection: the till has exactly one writer.
func Open(cfg config.Config) (*DB, error) {
	dialect := Dialect(cfg.DBDriver)

	dsn := cfg.DBDSN
	if dialect == DialectSQLite {
		dsn = sqliteDSN(dsn)
	}

	conn, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", dialect, err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("connecting to %s database: %w", dialect, err)
	}

	db := &DB{DB: conn, Dialect: dialect}

	if err := CreateSchema(db); err != nil {
		conn.Close()
		return nil, err
	}

	utils.LogInfo("Database ready", map[string]interface{}{"driver": string(dialect), "dsn": redact(cfg)})
	return db, nil
}

// Close releases the connection. It is safe to call on a nil DB.
func (db *DB) Close() error {
	if db == nil || db.DB == nil {
		return nil
	}
	return db.DB.Close()
}

var placeholder = regexp.MustCompile(`\$\d+`)

// Rebind rewrites the $N placeholders used throughout the repositories into
// the form the dialect expects. Queries must number their placeholders in
// argument order.
func Rebind(dialect Dialect, query string) string {
	if dialect != DialectSQLite {
		return query
	}
	return placeholder.ReplaceAllString(query, "?")
}

// sqliteDSN turns foreign keys on for every connection the pool opens.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

func redact(cfg config.Config) string {
	if cfg.DBDriver == config.DriverSQLite {
		return cfg.DBDSN
	}
	return "(postgres dsn)"
}
