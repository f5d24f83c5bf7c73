package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"shabu_pos/internal/database"
	"shabu_pos/internal/models"
)

// OrderRepository defines the interface for open order line operations.
type OrderRepository interface {
	CreateLine(executor SQLExecutor, line *models.OrderLine) (int64, error)
	GetLinesByTableID(executor SQLExecutor, tableID int64) ([]models.OrderLine, error) // Oldest first
	CountLinesByTableID(executor SQLExecutor, tableID int64) (int, error)
	DeleteLine(executor SQLExecutor, lineID int64) error
	DeleteLinesByTableID(executor SQLExecutor, tableID int64) (int64, error) // Returns rows affected
}

type orderRepository struct {
	dialected
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository.
func NewOrderRepository(db *database.DB) OrderRepository {
	return &orderRepository{dialected: dialected{db.Dialect}, db: db.DB}
}

func (r *orderRepository) CreateLine(executor SQLExecutor, line *models.OrderLine) (int64, error) {
	query := `INSERT INTO orders (table_id, menu_item_id, menu_name, price)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id`
	err := executor.QueryRow(r.bind(query), line.TableID, line.MenuItemID, line.MenuName, line.Price).Scan(&line.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, fmt.Errorf("%w: table ID %d", ErrUnresolved, line.TableID)
		}
		return 0, fmt.Errorf("%w: creating order line: %v", ErrDatabaseError, err)
	}
	return line.ID, nil
}

func (r *orderRepository) GetLinesByTableID(executor SQLExecutor, tableID int64) ([]models.OrderLine, error) {
	lines := []models.OrderLine{}
	query := `SELECT id, table_id, menu_item_id, menu_name, price, created_at
	          FROM orders
	          WHERE table_id = $1
	          ORDER BY created_at, id`
	rows, err := executor.Query(r.bind(query), tableID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying order lines for table ID %d: %v", ErrDatabaseError, tableID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var l models.OrderLine
		if err := rows.Scan(&l.ID, &l.TableID, &l.MenuItemID, &l.MenuName, &l.Price, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning order line for table ID %d: %v", ErrDatabaseError, tableID, err)
		}
		lines = append(lines, l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating order lines for table ID %d: %v", ErrDatabaseError, tableID, err)
	}
	return lines, nil
}

func (r *orderRepository) CountLinesByTableID(executor SQLExecutor, tableID int64) (int, error) {
	var count int
	err := executor.QueryRow(r.bind(`SELECT COUNT(*) FROM orders WHERE table_id = $1`), tableID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting order lines for table ID %d: %v", ErrDatabaseError, tableID, err)
	}
	return count, nil
}

func (r *orderRepository) DeleteLine(executor SQLExecutor, lineID int64) error {
	result, err := executor.Exec(r.bind(`DELETE FROM orders WHERE id = $1`), lineID)
	if err != nil {
		return fmt.Errorf("%w: deleting order line ID %d: %v", ErrDatabaseError, lineID, err)
	}
	if err := checkAffected(result); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: getting rows affected for order line ID %d: %v", ErrDatabaseError, lineID, err)
	}
	return nil
}

func (r *orderRepository) DeleteLinesByTableID(executor SQLExecutor, tableID int64) (int64, error) {
	result, err := executor.Exec(r.bind(`DELETE FROM orders WHERE table_id = $1`), tableID)
	if err != nil {
		return 0, fmt.Errorf("%w: deleting order lines for table ID %d: %v", ErrDatabaseError, tableID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for deleting order lines for table ID %d: %v", ErrDatabaseError, tableID, err)
	}
	return rowsAffected, nil
}
