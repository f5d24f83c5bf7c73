package services

import (
	"database/sql"
	"errors"
	"fmt"

	"shabu_pos/internal/models"
	"shabu_pos/internal/repositories"
)

// SaleService manages the ledger of completed bills.
type SaleService interface {
	RecordSale(billID, tableName string, items []models.LineItem, total int) (*models.SaleDetail, error)
	GetSales() ([]models.Sale, error)
	GetSaleDetails(billID string) (*models.SaleDetail, error)
	DeleteSale(billID string) error
	ClearAllSales() (int64, error)
	SearchSales(text string, field string) ([]models.Sale, error)
}

type saleService struct {
	saleRepo repositories.SaleRepository
	db       *sql.DB
}

// NewSaleService creates a new instance of SaleService.
func NewSaleService(sr repositories.SaleRepository, db *sql.DB) SaleService {
	return &saleService{saleRepo: sr, db: db}
}

// RecordSale stores a header and its items as one unit. total must equal the
// sum of the item prices.
func (s *saleService) RecordSale(billID, tableName string, items []models.LineItem, total int) (*models.SaleDetail, error) {
	billID, err := validateName("bill", billID)
	if err != nil {
		return nil, err
	}
	if tableName, err = validateName("table", tableName); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: bill '%s'", ErrEmptyOrder, billID)
	}
	if sum := models.SumPrices(items); sum != total {
		return nil, fmt.Errorf("%w: total %d does not match item sum %d", ErrValidation, total, sum)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	detail, err := writeSale(s.saleRepo, tx, billID, tableName, items)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit sale transaction: %w", err)
	}
	return detail, nil
}

// writeSale inserts the header and items through executor; the caller owns the transaction.
func writeSale(saleRepo repositories.SaleRepository, executor repositories.SQLExecutor, billID, tableName string, items []models.LineItem) (*models.SaleDetail, error) {
	sale := models.Sale{
		BillID:      billID,
		TableName:   tableName,
		TotalAmount: models.SumPrices(items),
	}
	if _, err := saleRepo.CreateSale(executor, &sale); err != nil {
		return nil, fmt.Errorf("failed to create sale record: %w", err)
	}

	detail := &models.SaleDetail{Sale: sale, Items: make([]models.SaleItem, 0, len(items))}
	for _, it := range items {
		saleItem := models.SaleItem{SaleID: sale.ID, MenuName: it.Name, Price: it.Price}
		if _, err := saleRepo.CreateSaleItem(executor, &saleItem); err != nil {
			return nil, fmt.Errorf("failed to create sale item '%s': %w", it.Name, err)
		}
		detail.Items = append(detail.Items, saleItem)
	}

	// created_at is assigned by the database default.
	stored, err := saleRepo.GetSaleByBillID(executor, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload sale '%s': %w", billID, err)
	}
	detail.Sale = *stored
	return detail, nil
}

func (s *saleService) GetSales() ([]models.Sale, error) {
	sales, err := s.saleRepo.GetSales()
	if err != nil {
		return nil, fmt.Errorf("failed to get sales: %w", err)
	}
	return sales, nil
}

func (s *saleService) GetSaleDetails(billID string) (*models.SaleDetail, error) {
	sale, err := s.saleRepo.GetSaleByBillID(s.db, billID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: bill '%s'", repositories.ErrNotFound, billID)
		}
		return nil, fmt.Errorf("failed to get sale '%s': %w", billID, err)
	}
	items, err := s.saleRepo.GetSaleItemsBySaleID(s.db, sale.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get items of sale '%s': %w", billID, err)
	}
	return &models.SaleDetail{Sale: *sale, Items: items}, nil
}

func (s *saleService) DeleteSale(billID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	sale, err := s.saleRepo.GetSaleByBillID(tx, billID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: bill '%s'", repositories.ErrNotFound, billID)
		}
		return fmt.Errorf("failed to fetch sale for deletion: %w", err)
	}
	if _, err := s.saleRepo.DeleteSaleItemsBySaleID(tx, sale.ID); err != nil {
		return fmt.Errorf("failed to delete sale items: %w", err)
	}
	if err := s.saleRepo.DeleteSale(tx, sale.ID); err != nil {
		return fmt.Errorf("failed to delete sale: %w", err)
	}

	return tx.Commit()
}

func (s *saleService) ClearAllSales() (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	removed, err := s.saleRepo.DeleteAllSales(tx)
	if err != nil {
		return 0, fmt.Errorf("failed to clear sales: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sales clear: %w", err)
	}
	return removed, nil
}

// SearchSales returns sales whose selected column contains text, newest first.
// Empty text lists every sale.
func (s *saleService) SearchSales(text string, field string) ([]models.Sale, error) {
	if !models.IsValidSearchField(field) {
		return nil, fmt.Errorf("%w: unknown search field '%s'", ErrValidation, field)
	}
	if text == "" {
		return s.GetSales()
	}
	sales, err := s.saleRepo.SearchSales(models.SearchField(field), text)
	if err != nil {
		return nil, fmt.Errorf("failed to search sales: %w", err)
	}
	return sales, nil
}
