package services

import (
	"database/sql"
	"errors"
	"fmt"

	"shabu_pos/internal/models"
	"shabu_pos/internal/repositories"
)

// TableService manages dining tables.
type TableService interface {
	AddTable(name string) (*models.DiningTable, error)
	RenameTable(oldName, newName string) error
	DeleteTable(name string) error
	GetTableNames() ([]string, error)
}

type tableService struct {
	tableRepo repositories.TableRepository
	orderRepo repositories.OrderRepository
	db        *sql.DB
}

// NewTableService creates a new instance of TableService.
func NewTableService(tr repositories.TableRepository, or repositories.OrderRepository, db *sql.DB) TableService {
	return &tableService{tableRepo: tr, orderRepo: or, db: db}
}

func (s *tableService) AddTable(name string) (*models.DiningTable, error) {
	name, err := validateName("table", name)
	if err != nil {
		return nil, err
	}
	table := &models.DiningTable{Name: name}
	if _, err := s.tableRepo.CreateTable(s.db, table); err != nil {
		return nil, fmt.Errorf("failed to add table: %w", err)
	}
	return table, nil
}

func (s *tableService) RenameTable(oldName, newName string) error {
	newName, err := validateName("table", newName)
	if err != nil {
		return err
	}
	if err := s.tableRepo.RenameTable(s.db, oldName, newName); err != nil {
		return fmt.Errorf("failed to rename table '%s': %w", oldName, err)
	}
	return nil
}

// DeleteTable removes a table that has no open order lines.
func (s *tableService) DeleteTable(name string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	tableID, err := s.tableRepo.GetTableIDByName(tx, name)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: table '%s'", repositories.ErrNotFound, name)
		}
		return fmt.Errorf("failed to fetch table for deletion: %w", err)
	}

	count, err := s.orderRepo.CountLinesByTableID(tx, tableID)
	if err != nil {
		return fmt.Errorf("failed to count order lines: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: table '%s' has %d open order line(s)", repositories.ErrConflict, name, count)
	}

	if _, err := s.orderRepo.DeleteLinesByTableID(tx, tableID); err != nil {
		return fmt.Errorf("failed to delete order lines: %w", err)
	}
	if err := s.tableRepo.DeleteTable(tx, tableID); err != nil {
		return fmt.Errorf("failed to delete table '%s': %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit table deletion: %w", err)
	}
	return nil
}

func (s *tableService) GetTableNames() ([]string, error) {
	tables, err := s.tableRepo.GetTables()
	if err != nil {
		return nil, fmt.Errorf("failed to get tables: %w", err)
	}
	names := make([]string, 0, len(tables))
	for _, t := range tables {
		names = append(names, t.Name)
	}
	return names, nil
}
