package services

import (
	"database/sql"
	"fmt"

	"shabu_pos/internal/models"
	"shabu_pos/internal/repositories"
)

// MenuService manages the editable menu.
type MenuService interface {
	AddItem(name string, price int) (*models.MenuItem, error)
	UpdateItem(oldName, newName string, price int) error
	DeleteItem(name string) error
	GetItems() ([]models.MenuItem, error)
	GetPrices() (map[string]int, error)
}

type menuService struct {
	menuRepo repositories.MenuRepository
	db       *sql.DB
}

// NewMenuService creates a new instance of MenuService.
func NewMenuService(mr repositories.MenuRepository, db *sql.DB) MenuService {
	return &menuService{menuRepo: mr, db: db}
}

func (s *menuService) AddItem(name string, price int) (*models.MenuItem, error) {
	name, err := validateName("menu item", name)
	if err != nil {
		return nil, err
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}

	item := &models.MenuItem{Name: name, Price: price}
	if _, err := s.menuRepo.CreateItem(s.db, item); err != nil {
		return nil, fmt.Errorf("failed to add menu item: %w", err)
	}
	return item, nil
}

func (s *menuService) UpdateItem(oldName, newName string, price int) error {
	newName, err := validateName("menu item", newName)
	if err != nil {
		return err
	}
	if err := validatePrice(price); err != nil {
		return err
	}

	item := &models.MenuItem{Name: newName, Price: price}
	if err := s.menuRepo.UpdateItemByName(s.db, oldName, item); err != nil {
		return fmt.Errorf("failed to update menu item '%s': %w", oldName, err)
	}
	return nil
}

// DeleteItem removes the item from the menu. Order lines and past bills that
// reference it keep their own name and price.
func (s *menuService) DeleteItem(name string) error {
	if err := s.menuRepo.DeleteItemByName(s.db, name); err != nil {
		return fmt.Errorf("failed to delete menu item '%s': %w", name, err)
	}
	return nil
}

func (s *menuService) GetItems() ([]models.MenuItem, error) {
	items, err := s.menuRepo.GetItems()
	if err != nil {
		return nil, fmt.Errorf("failed to get menu items: %w", err)
	}
	return items, nil
}

func (s *menuService) GetPrices() (map[string]int, error) {
	items, err := s.GetItems()
	if err != nil {
		return nil, err
	}
	prices := make(map[string]int, len(items))
	for _, it := range items {
		prices[it.Name] = it.Price
	}
	return prices, nil
}
