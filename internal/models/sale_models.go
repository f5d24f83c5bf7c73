package models

import "time"

// Sale is a completed bill header. TotalAmount is computed once at checkout.
type Sale struct {
	ID          int64     `json:"-" db:"id"`
	BillID      string    `json:"id" db:"bill_id"`
	TableName   string    `json:"table" db:"table_name"`
	TotalAmount int       `json:"total" db:"total_amount"`
	CreatedAt   time.Time `json:"timestamp" db:"created_at"`
}

// SaleItem is one line of a completed bill.
type SaleItem struct {
	ID       int64  `json:"-" db:"id"`
	SaleID   int64  `json:"-" db:"sale_id"`
	MenuName string `json:"name" db:"menu_name"`
	Price    int    `json:"price" db:"price"`
}

// SaleDetail is a sale header joined with its items, in insertion order.
type SaleDetail struct {
	Sale
	Items []SaleItem `json:"items"`
}

// LineItems converts the stored items back to name/price pairs.
func (d SaleDetail) LineItems() []LineItem {
	items := make([]LineItem, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, LineItem{Name: it.MenuName, Price: it.Price})
	}
	return items
}

// SearchField selects which sale column(s) a history search matches against.
type SearchField string

const (
	SearchAll    SearchField = "all"
	SearchBillID SearchField = "bill_id"
	SearchTable  SearchField = "table"
	SearchDate   SearchField = "date"
	SearchTotal  SearchField = "total"
)

// IsValidSearchField checks if the provided string names a SearchField.
func IsValidSearchField(field string) bool {
	switch SearchField(field) {
	case SearchAll,
		SearchBillID,
		SearchTable,
		SearchDate,
		SearchTotal:
		return true
	default:
		return false
	}
}
