package services

import (
	"database/sql"
	"errors"
	"fmt"

	"shabu_pos/internal/models"
	"shabu_pos/internal/repositories"
)

// SeedReport counts the rows a seeding pass actually inserted.
type SeedReport struct {
	MenuItemsAdded int
	TablesAdded    int
}

// SeedService inserts the starter menu and tables.
type SeedService interface {
	SeedDefaults() (SeedReport, error)
}

type seedService struct {
	menuRepo  repositories.MenuRepository
	tableRepo repositories.TableRepository
	db        *sql.DB
}

// NewSeedService creates a new instance of SeedService.
func NewSeedService(mr repositories.MenuRepository, tr repositories.TableRepository, db *sql.DB) SeedService {
	return &seedService{menuRepo: mr, tableRepo: tr, db: db}
}

// SeedDefaults runs in one transaction and skips every name that already
// exists, so running it again is a no-op.
func (s *seedService) SeedDefaults() (SeedReport, error) {
	var report SeedReport

	tx, err := s.db.Begin()
	if err != nil {
		return report, fmt.Errorf("failed to start seed transaction: %w", err)
	}
	defer tx.Rollback()

	for _, it := range models.StarterMenu {
		_, err := s.menuRepo.GetItemIDByName(tx, it.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return SeedReport{}, fmt.Errorf("failed to check menu item '%s': %w", it.Name, err)
		}
		if _, err := s.menuRepo.CreateItem(tx, &models.MenuItem{Name: it.Name, Price: it.Price}); err != nil {
			return SeedReport{}, fmt.Errorf("failed to seed menu item '%s': %w", it.Name, err)
		}
		report.MenuItemsAdded++
	}

	for i := 1; i <= models.StarterTableCount; i++ {
		name := fmt.Sprintf("T%d", i)
		_, err := s.tableRepo.GetTableIDByName(tx, name)
		if err == nil {
			continue
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return SeedReport{}, fmt.Errorf("failed to check table '%s': %w", name, err)
		}
		if _, err := s.tableRepo.CreateTable(tx, &models.DiningTable{Name: name}); err != nil {
			return SeedReport{}, fmt.Errorf("failed to seed table '%s': %w", name, err)
		}
		report.TablesAdded++
	}

	if err := tx.Commit(); err != nil {
		return SeedReport{}, fmt.Errorf("failed to commit seed transaction: %w", err)
	}
	return report, nil
}
