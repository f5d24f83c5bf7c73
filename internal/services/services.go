package services

import (
	"shabu_pos/internal/database"
	"shabu_pos/internal/repositories"
)

// Services bundles every service built over one database connection.
type Services struct {
	Menu  MenuService
	Table TableService
	Order OrderService
	Sale  SaleService
	Seed  SeedService
}

// New wires repositories and services over db.
func New(db *database.DB) *Services {
	menuRepo := repositories.NewMenuRepository(db)
	tableRepo := repositories.NewTableRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	saleRepo := repositories.NewSaleRepository(db)
	counterRepo := repositories.NewCounterRepository(db)

	return &Services{
		Menu:  NewMenuService(menuRepo, db.DB),
		Table: NewTableService(tableRepo, orderRepo, db.DB),
		Order: NewOrderService(orderRepo, tableRepo, menuRepo, saleRepo, counterRepo, db.DB),
		Sale:  NewSaleService(saleRepo, db.DB),
		Seed:  NewSeedService(menuRepo, tableRepo, db.DB),
	}
}
