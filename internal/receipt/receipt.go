// Package receipt renders bills as fixed-layout text.
package receipt

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"shabu_pos/internal/models"
	"shabu_pos/internal/services"
)

const (
	TimeLayout    = "2006-01-02 15:04:05"
	billLineWidth = 35
	rule          = "--------------------------------"
	closingRule   = "================================"
)

// Receipt is everything printed on one bill.
type Receipt struct {
	Shop   string
	BillID string
	Time   time.Time
	Table  string
	Items  []models.LineItem
	Total  int
}

// FromCheckout builds the receipt handed out at checkout.
func FromCheckout(shop string, result *services.CheckoutResult) Receipt {
	return Receipt{
		Shop:   shop,
		BillID: result.Sale.BillID,
		Time:   result.Sale.CreatedAt,
		Table:  result.Sale.TableName,
		Items:  result.Items,
		Total:  result.Sale.TotalAmount,
	}
}

// FromSale rebuilds a receipt from the sales history for reprinting.
func FromSale(shop string, detail *models.SaleDetail) Receipt {
	return Receipt{
		Shop:   shop,
		BillID: detail.BillID,
		Time:   detail.CreatedAt,
		Table:  detail.TableName,
		Items:  detail.LineItems(),
		Total:  detail.TotalAmount,
	}
}

// Render returns the receipt text. Column widths count runes.
func (r Receipt) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "========= %s =========\n", r.Shop)
	b.WriteString("       ใบเสร็จรับเงิน (Receipt)\n")
	fmt.Fprintf(&b, "Bill ID: %s\n", r.BillID)
	fmt.Fprintf(&b, "วันที่: %s\n", Timestamp(r.Time))
	fmt.Fprintf(&b, "โต๊ะ: %s\n", r.Table)
	b.WriteString(rule + "\n")
	for _, it := range r.Items {
		fmt.Fprintf(&b, "%-20s %5s\n", it.Name, Amount(it.Price))
	}
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "ยอดสุทธิ:           %5s บาท\n", Amount(r.Total))
	b.WriteString(closingRule)
	return b.String()
}

// Timestamp formats t on the till's clock. Stored times come back in UTC.
func Timestamp(t time.Time) string {
	return t.Local().Format(TimeLayout)
}

// Amount formats baht with thousands separators.
func Amount(baht int) string {
	return humanize.Comma(int64(baht))
}

// BillLine renders one row of the running bill: the name, padding, then the
// price right-aligned at 35 columns, with at least one space between.
func BillLine(name string, price int) string {
	p := Amount(price)
	space := billLineWidth - utf8.RuneCountInString(name) - utf8.RuneCountInString(p)
	if space < 1 {
		space = 1
	}
	return name + strings.Repeat(" ", space) + p
}
