package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"shabu_pos/internal/database"
)

// CounterRepository hands out persisted sequence numbers. Next must run in the
// same transaction as the write that consumes the number.
type CounterRepository interface {
	Next(executor SQLExecutor, name string) (int64, error)
}

type counterRepository struct {
	dialected
	db *sql.DB
}

// NewCounterRepository creates a new instance of CounterRepository.
func NewCounterRepository(db *database.DB) CounterRepository {
	return &counterRepository{dialected: dialected{db.Dialect}, db: db.DB}
}

func (r *counterRepository) Next(executor SQLExecutor, name string) (int64, error) {
	var value int64
	query := `UPDATE counters SET value = value + 1 WHERE name = $1 RETURNING value`
	if err := executor.QueryRow(r.bind(query), name).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%w: counter '%s'", ErrNotFound, name)
		}
		return 0, fmt.Errorf("%w: advancing counter '%s': %v", ErrDatabaseError, name, err)
	}
	return value, nil
}
