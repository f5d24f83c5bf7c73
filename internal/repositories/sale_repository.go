package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"shabu_pos/internal/database"
	"shabu_pos/internal/models"
)

// SaleRepository defines the interface for the sales ledger.
type SaleRepository interface {
	CreateSale(executor SQLExecutor, sale *models.Sale) (int64, error)
	CreateSaleItem(executor SQLExecutor, item *models.SaleItem) (int64, error)
	GetSales() ([]models.Sale, error) // Newest first
	SearchSales(field models.SearchField, text string) ([]models.Sale, error)
	GetSaleByBillID(executor SQLExecutor, billID string) (*models.Sale, error)
	GetSaleItemsBySaleID(executor SQLExecutor, saleID int64) ([]models.SaleItem, error)
	BillIDExists(executor SQLExecutor, billID string) (bool, error)
	DeleteSaleItemsBySaleID(executor SQLExecutor, saleID int64) (int64, error)
	DeleteSale(executor SQLExecutor, saleID int64) error
	DeleteAllSales(executor SQLExecutor) (int64, error) // Returns sale headers removed
}

type saleRepository struct {
	dialected
	db *sql.DB
}

// NewSaleRepository creates a new instance of SaleRepository.
func NewSaleRepository(db *database.DB) SaleRepository {
	return &saleRepository{dialected: dialected{db.Dialect}, db: db.DB}
}

const saleColumns = `id, bill_id, table_name, total_amount, created_at`

func (r *saleRepository) CreateSale(executor SQLExecutor, sale *models.Sale) (int64, error) {
	query := `INSERT INTO sales_history (bill_id, table_name, total_amount)
	          VALUES ($1, $2, $3)
	          RETURNING id`
	err := executor.QueryRow(r.bind(query), sale.BillID, sale.TableName, sale.TotalAmount).Scan(&sale.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: bill '%s' already exists", ErrDuplicateKey, sale.BillID)
		}
		return 0, fmt.Errorf("%w: creating sale: %v", ErrDatabaseError, err)
	}
	return sale.ID, nil
}

func (r *saleRepository) CreateSaleItem(executor SQLExecutor, item *models.SaleItem) (int64, error) {
	query := `INSERT INTO sale_items (sale_id, menu_name, price) VALUES ($1, $2, $3) RETURNING id`
	err := executor.QueryRow(r.bind(query), item.SaleID, item.MenuName, item.Price).Scan(&item.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, fmt.Errorf("%w: sale ID %d", ErrUnresolved, item.SaleID)
		}
		return 0, fmt.Errorf("%w: creating sale item: %v", ErrDatabaseError, err)
	}
	return item.ID, nil
}

func (r *saleRepository) GetSales() ([]models.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales_history ORDER BY created_at DESC, id DESC`
	return r.querySales(query)
}

// SearchSales matches text as a literal substring against the column(s) selected by field.
// Totals and timestamps are matched on their text form.
func (r *saleRepository) SearchSales(field models.SearchField, text string) ([]models.Sale, error) {
	var where string
	switch field {
	case models.SearchAll:
		where = `bill_id LIKE $1 ESCAPE '\' OR table_name LIKE $2 ESCAPE '\'
		         OR CAST(total_amount AS TEXT) LIKE $3 ESCAPE '\' OR CAST(created_at AS TEXT) LIKE $4 ESCAPE '\'`
	case models.SearchBillID:
		where = `bill_id LIKE $1 ESCAPE '\'`
	case models.SearchTable:
		where = `table_name LIKE $1 ESCAPE '\'`
	case models.SearchDate:
		where = `CAST(created_at AS TEXT) LIKE $1 ESCAPE '\'`
	case models.SearchTotal:
		where = `CAST(total_amount AS TEXT) LIKE $1 ESCAPE '\'`
	default:
		return nil, fmt.Errorf("unknown search field '%s'", field)
	}

	pattern := "%" + escapeLike(text) + "%"
	args := []interface{}{pattern}
	if field == models.SearchAll {
		args = []interface{}{pattern, pattern, pattern, pattern}
	}

	query := `SELECT ` + saleColumns + ` FROM sales_history WHERE ` + where + ` ORDER BY created_at DESC, id DESC`
	return r.querySales(r.bind(query), args...)
}

func (r *saleRepository) querySales(query string, args ...interface{}) ([]models.Sale, error) {
	sales := []models.Sale{}
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying sales: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.Sale
		if err := scanSale(rows, &s); err != nil {
			return nil, fmt.Errorf("%w: scanning sale: %v", ErrDatabaseError, err)
		}
		sales = append(sales, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating sales: %v", ErrDatabaseError, err)
	}
	return sales, nil
}

func (r *saleRepository) GetSaleByBillID(executor SQLExecutor, billID string) (*models.Sale, error) {
	sale := &models.Sale{}
	query := `SELECT ` + saleColumns + ` FROM sales_history WHERE bill_id = $1`
	if err := scanSale(executor.QueryRow(r.bind(query), billID), sale); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting sale '%s': %v", ErrDatabaseError, billID, err)
	}
	return sale, nil
}

func (r *saleRepository) GetSaleItemsBySaleID(executor SQLExecutor, saleID int64) ([]models.SaleItem, error) {
	items := []models.SaleItem{}
	query := `SELECT id, sale_id, menu_name, price FROM sale_items WHERE sale_id = $1 ORDER BY id`
	rows, err := executor.Query(r.bind(query), saleID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying sale items for sale ID %d: %v", ErrDatabaseError, saleID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var it models.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.MenuName, &it.Price); err != nil {
			return nil, fmt.Errorf("%w: scanning sale item for sale ID %d: %v", ErrDatabaseError, saleID, err)
		}
		items = append(items, it)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating sale items for sale ID %d: %v", ErrDatabaseError, saleID, err)
	}
	return items, nil
}

func (r *saleRepository) BillIDExists(executor SQLExecutor, billID string) (bool, error) {
	var count int
	err := executor.QueryRow(r.bind(`SELECT COUNT(*) FROM sales_history WHERE bill_id = $1`), billID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("%w: checking bill '%s': %v", ErrDatabaseError, billID, err)
	}
	return count > 0, nil
}

func (r *saleRepository) DeleteSaleItemsBySaleID(executor SQLExecutor, saleID int64) (int64, error) {
	result, err := executor.Exec(r.bind(`DELETE FROM sale_items WHERE sale_id = $1`), saleID)
	if err != nil {
		return 0, fmt.Errorf("%w: deleting sale items for sale ID %d: %v", ErrDatabaseError, saleID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for sale items of sale ID %d: %v", ErrDatabaseError, saleID, err)
	}
	return rowsAffected, nil
}

func (r *saleRepository) DeleteSale(executor SQLExecutor, saleID int64) error {
	result, err := executor.Exec(r.bind(`DELETE FROM sales_history WHERE id = $1`), saleID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: sale ID %d still has items", ErrConflict, saleID)
		}
		return fmt.Errorf("%w: deleting sale ID %d: %v", ErrDatabaseError, saleID, err)
	}
	if err := checkAffected(result); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: getting rows affected for sale ID %d: %v", ErrDatabaseError, saleID, err)
	}
	return nil
}

func (r *saleRepository) DeleteAllSales(executor SQLExecutor) (int64, error) {
	if _, err := executor.Exec(`DELETE FROM sale_items`); err != nil {
		return 0, fmt.Errorf("%w: deleting all sale items: %v", ErrDatabaseError, err)
	}
	result, err := executor.Exec(`DELETE FROM sales_history`)
	if err != nil {
		return 0, fmt.Errorf("%w: deleting all sales: %v", ErrDatabaseError, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for deleting all sales: %v", ErrDatabaseError, err)
	}
	return rowsAffected, nil
}

func scanSale(s scanner, sale *models.Sale) error {
	return s.Scan(&sale.ID, &sale.BillID, &sale.TableName, &sale.TotalAmount, &sale.CreatedAt)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
