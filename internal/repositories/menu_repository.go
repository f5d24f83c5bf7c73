package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"shabu_pos/internal/database"
	"shabu_pos/internal/models"
)

// MenuRepository defines the interface for menu-related database operations.
// Menu items are addressed by name, which is unique.
type MenuRepository interface {
	CreateItem(executor SQLExecutor, item *models.MenuItem) (int64, error)
	GetItems() ([]models.MenuItem, error) // Ordered by name
	GetItemIDByName(executor SQLExecutor, name string) (int64, error)
	UpdateItemByName(executor SQLExecutor, oldName string, item *models.MenuItem) error
	DeleteItemByName(executor SQLExecutor, name string) error
}

type menuRepository struct {
	dialected
	db *sql.DB
}

// NewMenuRepository creates a new instance of MenuRepository.
func NewMenuRepository(db *database.DB) MenuRepository {
	return &menuRepository{dialected: dialected{db.Dialect}, db: db.DB}
}

func (r *menuRepository) CreateItem(executor SQLExecutor, item *models.MenuItem) (int64, error) {
	query := `INSERT INTO menu_items (name, price) VALUES ($1, $2) RETURNING id`
	err := executor.QueryRow(r.bind(query), item.Name, item.Price).Scan(&item.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: menu item '%s' already exists", ErrDuplicateKey, item.Name)
		}
		return 0, fmt.Errorf("%w: creating menu item: %v", ErrDatabaseError, err)
	}
	return item.ID, nil
}

func (r *menuRepository) GetItems() ([]models.MenuItem, error) {
	items := []models.MenuItem{}
	query := `SELECT id, name, price, created_at, updated_at FROM menu_items ORDER BY name`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: getting menu items: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.MenuItem
		if err := scanMenuItem(rows, &item); err != nil {
			return nil, fmt.Errorf("%w: scanning menu item: %v", ErrDatabaseError, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating menu items: %v", ErrDatabaseError, err)
	}
	return items, nil
}

func (r *menuRepository) GetItemIDByName(executor SQLExecutor, name string) (int64, error) {
	var id int64
	err := executor.QueryRow(r.bind(`SELECT id FROM menu_items WHERE name = $1`), name).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("%w: getting menu item '%s': %v", ErrDatabaseError, name, err)
	}
	return id, nil
}

func (r *menuRepository) UpdateItemByName(executor SQLExecutor, oldName string, item *models.MenuItem) error {
	query := `UPDATE menu_items SET name = $1, price = $2, updated_at = CURRENT_TIMESTAMP WHERE name = $3`
	result, err := executor.Exec(r.bind(query), item.Name, item.Price, oldName)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: menu item '%s' already exists", ErrDuplicateKey, item.Name)
		}
		return fmt.Errorf("%w: updating menu item '%s': %v", ErrDatabaseError, oldName, err)
	}
	if err := checkAffected(result); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: getting rows affected for menu item '%s': %v", ErrDatabaseError, oldName, err)
	}
	return nil
}

// DeleteItemByName removes the menu row only. Open order lines and sale items keep their snapshots.
func (r *menuRepository) DeleteItemByName(executor SQLExecutor, name string) error {
	result, err := executor.Exec(r.bind(`DELETE FROM menu_items WHERE name = $1`), name)
	if err != nil {
		return fmt.Errorf("%w: deleting menu item '%s': %v", ErrDatabaseError, name, err)
	}
	if err := checkAffected(result); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: getting rows affected for menu item '%s': %v", ErrDatabaseError, name, err)
	}
	return nil
}

func scanMenuItem(s scanner, item *models.MenuItem) error {
	return s.Scan(&item.ID, &item.Name, &item.Price, &item.CreatedAt, &item.UpdatedAt)
}
