package models

import "time"

// OrderLine is one unit of a menu item ordered at a table and not yet paid.
// MenuName and Price are snapshots taken when the line was created; later
// menu edits do not reach them.
type OrderLine struct {
	ID         int64     `json:"id" db:"id"`
	TableID    int64     `json:"table_id" db:"table_id"`
	MenuItemID int64     `json:"menu_item_id" db:"menu_item_id"`
	MenuName   string    `json:"name" db:"menu_name"`
	Price      int       `json:"price" db:"price"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// LineItem is a name/price pair as printed on a bill.
type LineItem struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
}

// Item returns the snapshot pair carried by the line.
func (l OrderLine) Item() LineItem {
	return LineItem{Name: l.MenuName, Price: l.Price}
}

// SumPrices totals a list of line items.
func SumPrices(items []LineItem) int {
	total := 0
	for _, it := range items {
		total += it.Price
	}
	return total
}
