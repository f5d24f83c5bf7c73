// Package gateway is the till's persistence facade. Every operation is a
// single synchronous call that commits immediately and reports plain
// success or failure; the reason for a failure is logged and kept in
// LastError for callers that want to word a message.
package gateway

import (
	"github.com/google/uuid"

	"shabu_pos/internal/config"
	"shabu_pos/internal/database"
	"shabu_pos/internal/models"
	"shabu_pos/internal/services"
	"shabu_pos/pkg/utils"
)

// Gateway owns the storage connection for the lifetime of the process.
type Gateway struct {
	db      *database.DB
	svc     *services.Services
	session string
	lastErr error
}

// Open connects to the configured database and, when cfg.Seed is set and the
// menu is empty, seeds the starter menu and tables.
func Open(cfg config.Config) (*Gateway, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	g := New(db)
	if cfg.Seed && len(g.ListMenuItems()) == 0 {
		g.SeedDefaults()
	}
	return g, nil
}

// New builds a gateway over an already opened database.
func New(db *database.DB) *Gateway {
	return &Gateway{
		db:      db,
		svc:     services.New(db),
		session: uuid.NewString(),
	}
}

// Close releases the storage connection.
func (g *Gateway) Close() error {
	utils.LogDebug("Closing database", map[string]interface{}{"session": g.session})
	return g.db.Close()
}

// Services exposes the typed-error operations behind the gateway.
func (g *Gateway) Services() *services.Services { return g.svc }

// Session identifies this gateway's log lines.
func (g *Gateway) Session() string { return g.session }

// LastError is the error behind the most recent failed call, or nil.
func (g *Gateway) LastError() error { return g.lastErr }

// LastErrorKind classifies LastError.
func (g *Gateway) LastErrorKind() services.ErrorKind { return services.KindOf(g.lastErr) }

func (g *Gateway) ok() bool {
	g.lastErr = nil
	return true
}

func (g *Gateway) fail(op string, err error, fields map[string]interface{}) bool {
	g.lastErr = err
	kind := services.KindOf(err)
	f := map[string]interface{}{"op": op, "kind": string(kind), "session": g.session}
	for k, v := range fields {
		f[k] = v
	}
	if kind == services.KindStorage {
		utils.LogError(err, "Storage operation failed", f)
	} else {
		utils.LogWarn(err, "Operation rejected", f)
	}
	return false
}

// --- Menu ---

func (g *Gateway) AddMenuItem(name string, price int) bool {
	if _, err := g.svc.Menu.AddItem(name, price); err != nil {
		return g.fail("add_menu_item", err, map[string]interface{}{"name": name})
	}
	return g.ok()
}

func (g *Gateway) UpdateMenuItem(oldName, newName string, price int) bool {
	if err := g.svc.Menu.UpdateItem(oldName, newName, price); err != nil {
		return g.fail("update_menu_item", err, map[string]interface{}{"name": oldName})
	}
	return g.ok()
}

func (g *Gateway) DeleteMenuItem(name string) bool {
	if err := g.svc.Menu.DeleteItem(name); err != nil {
		return g.fail("delete_menu_item", err, map[string]interface{}{"name": name})
	}
	return g.ok()
}

// ListMenuItems maps menu names to prices. Use ListMenu for name order.
func (g *Gateway) ListMenuItems() map[string]int {
	prices, err := g.svc.Menu.GetPrices()
	if err != nil {
		g.fail("list_menu_items", err, nil)
		return map[string]int{}
	}
	g.ok()
	return prices
}

// ListMenu returns the menu ordered by name.
func (g *Gateway) ListMenu() []models.MenuItem {
	items, err := g.svc.Menu.GetItems()
	if err != nil {
		g.fail("list_menu", err, nil)
		return []models.MenuItem{}
	}
	g.ok()
	return items
}

// --- Tables ---

func (g *Gateway) AddTable(name string) bool {
	if _, err := g.svc.Table.AddTable(name); err != nil {
		return g.fail("add_table", err, map[string]interface{}{"table": name})
	}
	return g.ok()
}

func (g *Gateway) RenameTable(oldName, newName string) bool {
	if err := g.svc.Table.RenameTable(oldName, newName); err != nil {
		return g.fail("rename_table", err, map[string]interface{}{"table": oldName, "new_name": newName})
	}
	return g.ok()
}

// DeleteTable fails while the table still has open order lines.
func (g *Gateway) DeleteTable(name string) bool {
	if err := g.svc.Table.DeleteTable(name); err != nil {
		return g.fail("delete_table", err, map[string]interface{}{"table": name})
	}
	return g.ok()
}

// ListTables returns table names in alphabetical order.
func (g *Gateway) ListTables() []string {
	names, err := g.svc.Table.GetTableNames()
	if err != nil {
		g.fail("list_tables", err, nil)
		return []string{}
	}
	g.ok()
	return names
}

// --- Order lines ---

func (g *Gateway) AddOrderLine(tableName, menuName string, price int) bool {
	if _, err := g.svc.Order.AddLine(tableName, menuName, price); err != nil {
		return g.fail("add_order_line", err, map[string]interface{}{"table": tableName, "name": menuName})
	}
	return g.ok()
}

// ListOrderLines returns the table's open lines, oldest first; empty for an unknown table.
func (g *Gateway) ListOrderLines(tableName string) []models.OrderLine {
	lines, err := g.svc.Order.GetLines(tableName)
	if err != nil {
		g.fail("list_order_lines", err, map[string]interface{}{"table": tableName})
		return []models.OrderLine{}
	}
	g.ok()
	return lines
}

func (g *Gateway) DeleteOrderLine(lineID int64) bool {
	if err := g.svc.Order.DeleteLine(lineID); err != nil {
		return g.fail("delete_order_line", err, map[string]interface{}{"line_id": lineID})
	}
	return g.ok()
}

func (g *Gateway) ClearOrderLines(tableName string) bool {
	if _, err := g.svc.Order.ClearLines(tableName); err != nil {
		return g.fail("clear_order_lines", err, map[string]interface{}{"table": tableName})
	}
	return g.ok()
}

// Checkout stores the table's open lines as a new bill and clears the table.
func (g *Gateway) Checkout(tableName string) (*services.CheckoutResult, bool) {
	result, err := g.svc.Order.Checkout(tableName)
	if err != nil {
		return nil, g.fail("checkout", err, map[string]interface{}{"table": tableName})
	}
	utils.LogInfo("Checkout completed", map[string]interface{}{
		"bill_id": result.Sale.BillID, "table": tableName, "total": result.Sale.TotalAmount, "session": g.session,
	})
	return result, g.ok()
}

// --- Sales history ---

func (g *Gateway) RecordSale(billID, tableName string, items []models.LineItem, total int) bool {
	if _, err := g.svc.Sale.RecordSale(billID, tableName, items, total); err != nil {
		return g.fail("record_sale", err, map[string]interface{}{"bill_id": billID})
	}
	return g.ok()
}

// ListSales returns sale headers, newest first.
func (g *Gateway) ListSales() []models.Sale {
	sales, err := g.svc.Sale.GetSales()
	if err != nil {
		g.fail("list_sales", err, nil)
		return []models.Sale{}
	}
	g.ok()
	return sales
}

func (g *Gateway) GetSaleDetails(billID string) (*models.SaleDetail, bool) {
	detail, err := g.svc.Sale.GetSaleDetails(billID)
	if err != nil {
		return nil, g.fail("get_sale_details", err, map[string]interface{}{"bill_id": billID})
	}
	return detail, g.ok()
}

func (g *Gateway) DeleteSale(billID string) bool {
	if err := g.svc.Sale.DeleteSale(billID); err != nil {
		return g.fail("delete_sale", err, map[string]interface{}{"bill_id": billID})
	}
	return g.ok()
}

func (g *Gateway) ClearAllSales() bool {
	removed, err := g.svc.Sale.ClearAllSales()
	if err != nil {
		return g.fail("clear_all_sales", err, nil)
	}
	utils.LogInfo("Sales history cleared", map[string]interface{}{"removed": removed, "session": g.session})
	return g.ok()
}

// SearchSales matches text against field (all, bill_id, table, date, total), newest first.
func (g *Gateway) SearchSales(text string, field string) []models.Sale {
	sales, err := g.svc.Sale.SearchSales(text, field)
	if err != nil {
		g.fail("search_sales", err, map[string]interface{}{"field": field})
		return []models.Sale{}
	}
	g.ok()
	return sales
}

// --- Utility ---

// SeedDefaults inserts the starter menu and tables T1..T9, skipping names that exist.
func (g *Gateway) SeedDefaults() {
	report, err := g.svc.Seed.SeedDefaults()
	if err != nil {
		g.fail("seed_defaults", err, nil)
		return
	}
	g.ok()
	utils.LogInfo("Default data seeded", map[string]interface{}{
		"menu_items_added": report.MenuItemsAdded, "tables_added": report.TablesAdded, "session": g.session,
	})
}
