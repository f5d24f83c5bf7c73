package services

import (
	"database/sql"
	"errors"
	"fmt"

	"shabu_pos/internal/database"
	"shabu_pos/internal/models"
	"shabu_pos/internal/repositories"
)

// maxBillIDAttempts bounds the search for a bill number not already taken by a manually recorded sale.
const maxBillIDAttempts = 1000

// CheckoutResult is the stored bill produced by a checkout.
type CheckoutResult struct {
	Sale  models.Sale
	Items []models.LineItem
}

// OrderService manages the open order lines of each table and checks them out.
type OrderService interface {
	AddLine(tableName, menuName string, price int) (*models.OrderLine, error)
	GetLines(tableName string) ([]models.OrderLine, error)
	DeleteLine(lineID int64) error
	ClearLines(tableName string) (int64, error)
	Checkout(tableName string) (*CheckoutResult, error)
}

type orderService struct {
	orderRepo   repositories.OrderRepository
	tableRepo   repositories.TableRepository
	menuRepo    repositories.MenuRepository
	saleRepo    repositories.SaleRepository
	counterRepo repositories.CounterRepository
	db          *sql.DB
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(
	or repositories.OrderRepository,
	tr repositories.TableRepository,
	mr repositories.MenuRepository,
	sr repositories.SaleRepository,
	cr repositories.CounterRepository,
	db *sql.DB,
) OrderService {
	return &orderService{
		orderRepo:   or,
		tableRepo:   tr,
		menuRepo:    mr,
		saleRepo:    sr,
		counterRepo: cr,
		db:          db,
	}
}

// FormatBillID renders a bill sequence number, e.g. 1 -> S-00001.
func FormatBillID(seq int64) string {
	return fmt.Sprintf("S-%05d", seq)
}

// AddLine records one unit of menuName at tableName. price is stored as given,
// so the line keeps the price shown when it was ordered.
func (s *orderService) AddLine(tableName, menuName string, price int) (*models.OrderLine, error) {
	if err := validatePrice(price); err != nil {
		return nil, err
	}

	tableID, err := s.tableRepo.GetTableIDByName(s.db, tableName)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: table '%s'", repositories.ErrUnresolved, tableName)
		}
		return nil, fmt.Errorf("failed to resolve table '%s': %w", tableName, err)
	}
	menuID, err := s.menuRepo.GetItemIDByName(s.db, menuName)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: menu item '%s'", repositories.ErrUnresolved, menuName)
		}
		return nil, fmt.Errorf("failed to resolve menu item '%s': %w", menuName, err)
	}

	line := &models.OrderLine{TableID: tableID, MenuItemID: menuID, MenuName: menuName, Price: price}
	if _, err := s.orderRepo.CreateLine(s.db, line); err != nil {
		return nil, fmt.Errorf("failed to add order line: %w", err)
	}
	return line, nil
}

func (s *orderService) GetLines(tableName string) ([]models.OrderLine, error) {
	tableID, err := s.resolveTable(tableName)
	if err != nil {
		return nil, err
	}
	lines, err := s.orderRepo.GetLinesByTableID(s.db, tableID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order lines for table '%s': %w", tableName, err)
	}
	return lines, nil
}

func (s *orderService) DeleteLine(lineID int64) error {
	if err := s.orderRepo.DeleteLine(s.db, lineID); err != nil {
		return fmt.Errorf("failed to delete order line %d: %w", lineID, err)
	}
	return nil
}

// ClearLines removes every open line of the table. A table without lines is not an error.
func (s *orderService) ClearLines(tableName string) (int64, error) {
	tableID, err := s.resolveTable(tableName)
	if err != nil {
		return 0, err
	}
	removed, err := s.orderRepo.DeleteLinesByTableID(s.db, tableID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear order lines for table '%s': %w", tableName, err)
	}
	return removed, nil
}

// Checkout turns the table's open lines into a stored bill and clears the table,
// all in one transaction. The bill number comes from the persisted counter.
func (s *orderService) Checkout(tableName string) (*CheckoutResult, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	tableID, err := s.tableRepo.GetTableIDByName(tx, tableName)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: table '%s'", repositories.ErrNotFound, tableName)
		}
		return nil, fmt.Errorf("failed to resolve table '%s': %w", tableName, err)
	}

	lines, err := s.orderRepo.GetLinesByTableID(tx, tableID)
	if err != nil {
		return nil, fmt.Errorf("failed to read order lines: %w", err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: table '%s'", ErrEmptyOrder, tableName)
	}
	items := make([]models.LineItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, l.Item())
	}

	billID, err := s.nextBillID(tx)
	if err != nil {
		return nil, err
	}

	detail, err := writeSale(s.saleRepo, tx, billID, tableName, items)
	if err != nil {
		return nil, err
	}
	if _, err := s.orderRepo.DeleteLinesByTableID(tx, tableID); err != nil {
		return nil, fmt.Errorf("failed to clear table after checkout: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit checkout transaction: %w", err)
	}
	return &CheckoutResult{Sale: detail.Sale, Items: items}, nil
}

func (s *orderService) nextBillID(tx *sql.Tx) (string, error) {
	for i := 0; i < maxBillIDAttempts; i++ {
		seq, err := s.counterRepo.Next(tx, database.CounterBill)
		if err != nil {
			return "", fmt.Errorf("failed to allocate bill number: %w", err)
		}
		billID := FormatBillID(seq)
		taken, err := s.saleRepo.BillIDExists(tx, billID)
		if err != nil {
			return "", err
		}
		if !taken {
			return billID, nil
		}
	}
	return "", fmt.Errorf("%w: no free bill number after %d attempts", repositories.ErrDatabaseError, maxBillIDAttempts)
}

func (s *orderService) resolveTable(tableName string) (int64, error) {
	tableID, err := s.tableRepo.GetTableIDByName(s.db, tableName)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return 0, fmt.Errorf("%w: table '%s'", repositories.ErrNotFound, tableName)
		}
		return 0, fmt.Errorf("failed to resolve table '%s': %w", tableName, err)
	}
	return tableID, nil
}
