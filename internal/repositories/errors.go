package repositories

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"shabu_pos/internal/database"
)

var (
	// ErrNotFound is returned when a specific record is not found.
	ErrNotFound = errors.New("requested record not found")

	// ErrDatabaseError is returned for unexpected database errors.
	// It can be used to wrap more specific driver errors.
	ErrDatabaseError = errors.New("database error")

	// ErrDuplicateKey is returned when an insert/update violates a unique constraint.
	ErrDuplicateKey = errors.New("duplicate key value violates unique constraint")

	// ErrUnresolved is returned when a name cannot be resolved to the row it refers to.
	ErrUnresolved = errors.New("referenced record does not exist")

	// ErrConflict is returned when a delete cannot proceed because dependent rows exist.
	ErrConflict = errors.New("record is still referenced")
)

// SQLExecutor defines an interface that can be satisfied by *sql.DB or *sql.Tx
// This allows repository methods to be used within transactions or with a direct DB connection.
type SQLExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	QueryRow(query string, args ...interface{}) *sql.Row
	Query(query string, args ...interface{}) (*sql.Rows, error)
}

// scanner is an interface satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

// dialected carries the dialect every repository needs to rebind its queries.
type dialected struct {
	dialect database.Dialect
}

func (d dialected) bind(query string) string {
	return database.Rebind(d.dialect, query)
}

// isUniqueViolation reports whether err is a unique constraint failure from either driver.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Name() == "unique_violation"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			return strings.Contains(liteErr.Error(), "UNIQUE")
		}
	}
	return false
}

// isForeignKeyViolation reports whether err is a foreign key failure from either driver.
func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Name() == "foreign_key_violation"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY ||
			(liteErr.Code() == sqlite3.SQLITE_CONSTRAINT && strings.Contains(liteErr.Error(), "FOREIGN KEY"))
	}
	return false
}

// checkAffected turns a zero-row update/delete into ErrNotFound.
func checkAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
