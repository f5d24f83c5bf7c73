package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"shabu_pos/internal/database"
	"shabu_pos/internal/models"
)

// TableRepository defines the interface for dining table operations.
type TableRepository interface {
	CreateTable(executor SQLExecutor, table *models.DiningTable) (int64, error)
	GetTables() ([]models.DiningTable, error) // Ordered by name
	GetTableIDByName(executor SQLExecutor, name string) (int64, error)
	RenameTable(executor SQLExecutor, oldName, newName string) error
	DeleteTable(executor SQLExecutor, tableID int64) error
}

type tableRepository struct {
	dialected
	db *sql.DB
}

// NewTableRepository creates a new instance of TableRepository.
func NewTableRepository(db *database.DB) TableRepository {
	return &tableRepository{dialected: dialected{db.Dialect}, db: db.DB}
}

func (r *tableRepository) CreateTable(executor SQLExecutor, table *models.DiningTable) (int64, error) {
	query := `INSERT INTO tables (table_name) VALUES ($1) RETURNING id`
	err := executor.QueryRow(r.bind(query), table.Name).Scan(&table.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: table '%s' already exists", ErrDuplicateKey, table.Name)
		}
		return 0, fmt.Errorf("%w: creating table: %v", ErrDatabaseError, err)
	}
	return table.ID, nil
}

func (r *tableRepository) GetTables() ([]models.DiningTable, error) {
	tables := []models.DiningTable{}
	rows, err := r.db.Query(`SELECT id, table_name, created_at FROM tables ORDER BY table_name`)
	if err != nil {
		return nil, fmt.Errorf("%w: getting tables: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var t models.DiningTable
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning table: %v", ErrDatabaseError, err)
		}
		tables = append(tables, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating tables: %v", ErrDatabaseError, err)
	}
	return tables, nil
}

func (r *tableRepository) GetTableIDByName(executor SQLExecutor, name string) (int64, error) {
	var id int64
	err := executor.QueryRow(r.bind(`SELECT id FROM tables WHERE table_name = $1`), name).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("%w: getting table '%s': %v", ErrDatabaseError, name, err)
	}
	return id, nil
}

// RenameTable relies on the UNIQUE constraint to reject a name that is already taken.
func (r *tableRepository) RenameTable(executor SQLExecutor, oldName, newName string) error {
	result, err := executor.Exec(r.bind(`UPDATE tables SET table_name = $1 WHERE table_name = $2`), newName, oldName)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: table '%s' already exists", ErrDuplicateKey, newName)
		}
		return fmt.Errorf("%w: renaming table '%s': %v", ErrDatabaseError, oldName, err)
	}
	if err := checkAffected(result); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: getting rows affected for table '%s': %v", ErrDatabaseError, oldName, err)
	}
	return nil
}

func (r *tableRepository) DeleteTable(executor SQLExecutor, tableID int64) error {
	result, err := executor.Exec(r.bind(`DELETE FROM tables WHERE id = $1`), tableID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: table ID %d still has order lines", ErrConflict, tableID)
		}
		return fmt.Errorf("%w: deleting table ID %d: %v", ErrDatabaseError, tableID, err)
	}
	if err := checkAffected(result); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: getting rows affected for table ID %d: %v", ErrDatabaseError, tableID, err)
	}
	return nil
}
