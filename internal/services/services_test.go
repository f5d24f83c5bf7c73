package services

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"shabu_pos/internal/config"
	"shabu_pos/internal/database"
	"shabu_pos/internal/models"
	"shabu_pos/internal/repositories"
)

// setupTestServices opens a fresh SQLite file and wires every service over it.
func setupTestServices(t *testing.T) (*Services, *database.DB) {
	t.Helper()
	cfg := config.Default()
	cfg.DBDSN = filepath.Join(t.TempDir(), "pos.db")

	db, err := database.Open(cfg)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db), db
}

func setupSeeded(t *testing.T) (*Services, *database.DB) {
	t.Helper()
	svc, db := setupTestServices(t)
	if _, err := svc.Seed.SeedDefaults(); err != nil {
		t.Fatalf("Failed to seed: %v", err)
	}
	return svc, db
}

func mustAddLine(t *testing.T, svc *Services, table, menu string, price int) {
	t.Helper()
	if _, err := svc.Order.AddLine(table, menu, price); err != nil {
		t.Fatalf("AddLine(%s, %s): %v", table, menu, err)
	}
}

func TestCheckout_Scenario(t *testing.T) {
	svc, _ := setupSeeded(t)

	mustAddLine(t, svc, "T1", "กุ้งสด", 89)
	mustAddLine(t, svc, "T1", "น้ำรีฟิล", 39)

	res, err := svc.Order.Checkout("T1")
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if res.Sale.BillID != "S-00001" {
		t.Errorf("expected bill S-00001, got %s", res.Sale.BillID)
	}
	if res.Sale.TotalAmount != 128 {
		t.Errorf("expected total 128, got %d", res.Sale.TotalAmount)
	}
	if res.Sale.CreatedAt.IsZero() {
		t.Error("expected the stored timestamp on the result")
	}
	if len(res.Items) != 2 || res.Items[0].Name != "กุ้งสด" || res.Items[1].Name != "น้ำรีฟิล" {
		t.Errorf("unexpected items: %+v", res.Items)
	}

	lines, err := svc.Order.GetLines("T1")
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 0 {
		t.Errorf("expected T1 empty after checkout, got %d lines", len(lines))
	}

	detail, err := svc.Sale.GetSaleDetails("S-00001")
	if err != nil {
		t.Fatalf("GetSaleDetails: %v", err)
	}
	if detail.TableName != "T1" || models.SumPrices(detail.LineItems()) != detail.TotalAmount {
		t.Errorf("unexpected stored sale: %+v", detail)
	}

	err = svc.Table.RenameTable("T1", "T9")
	if !errors.Is(err, repositories.ErrDuplicateKey) || KindOf(err) != KindDuplicateKey {
		t.Errorf("expected duplicate key renaming T1 to T9, got %v", err)
	}
}

func TestCheckout_EmptyAndUnknownTable(t *testing.T) {
	svc, _ := setupSeeded(t)

	if _, err := svc.Order.Checkout("T2"); KindOf(err) != KindValidation || !errors.Is(err, ErrEmptyOrder) {
		t.Errorf("expected ErrEmptyOrder, got %v", err)
	}
	if _, err := svc.Order.Checkout("T99"); KindOf(err) != KindNotFound {
		t.Errorf("expected not found, got %v", err)
	}
	sales, err := svc.Sale.GetSales()
	if err != nil {
		t.Fatal(err)
	}
	if len(sales) != 0 {
		t.Errorf("expected no sales, got %d", len(sales))
	}
}

func TestCheckout_BillIDsMonotonic(t *testing.T) {
	svc, _ := setupSeeded(t)

	// A manually recorded sale already owns S-00002.
	if _, err := svc.Sale.RecordSale("S-00002", "T5", []models.LineItem{{Name: "ชุดผักรวม", Price: 59}}, 59); err != nil {
		t.Fatal(err)
	}

	var bills []string
	for i := 0; i < 3; i++ {
		mustAddLine(t, svc, "T1", "ข้าวผัดกระเทียม", 35)
		res, err := svc.Order.Checkout("T1")
		if err != nil {
			t.Fatalf("Checkout %d: %v", i, err)
		}
		bills = append(bills, res.Sale.BillID)

		if i == 0 {
			// Deleting the newest sale must not make its number reusable.
			if err := svc.Sale.DeleteSale(res.Sale.BillID); err != nil {
				t.Fatal(err)
			}
		}
	}
	if _, err := svc.Sale.ClearAllSales(); err != nil {
		t.Fatal(err)
	}
	mustAddLine(t, svc, "T1", "ข้าวผัดกระเทียม", 35)
	res, err := svc.Order.Checkout("T1")
	if err != nil {
		t.Fatal(err)
	}
	bills = append(bills, res.Sale.BillID)

	want := []string{"S-00001", "S-00003", "S-00004", "S-00005"}
	for i := range want {
		if bills[i] != want[i] {
			t.Errorf("bill %d: expected %s, got %s", i, want[i], bills[i])
		}
	}
}

func TestCheckout_RollsBackAsOneUnit(t *testing.T) {
	svc, db := setupSeeded(t)

	// Make the second sale item insert fail after the header went in.
	_, err := db.Exec(`CREATE TRIGGER fail_sale_item BEFORE INSERT ON sale_items
		WHEN NEW.menu_name = 'boom' BEGIN SELECT RAISE(ABORT, 'boom'); END`)
	if err != nil {
		t.Fatalf("Failed to create trigger: %v", err)
	}
	if _, err := svc.Menu.AddItem("boom", 1); err != nil {
		t.Fatal(err)
	}
	mustAddLine(t, svc, "T3", "กุ้งสด", 89)
	mustAddLine(t, svc, "T3", "boom", 1)

	_, err = svc.Order.Checkout("T3")
	if err == nil {
		t.Fatal("expected checkout to fail")
	}
	if KindOf(err) != KindStorage {
		t.Errorf("expected storage kind, got %s (%v)", KindOf(err), err)
	}

	sales, err := svc.Sale.GetSales()
	if err != nil {
		t.Fatal(err)
	}
	if len(sales) != 0 {
		t.Errorf("expected no partial sale, got %+v", sales)
	}
	lines, err := svc.Order.GetLines("T3")
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 {
		t.Errorf("expected T3 lines untouched, got %d", len(lines))
	}

	if _, err := db.Exec(`DROP TRIGGER fail_sale_item`); err != nil {
		t.Fatal(err)
	}
	res, err := svc.Order.Checkout("T3")
	if err != nil {
		t.Fatal(err)
	}
	if res.Sale.BillID != "S-00001" {
		t.Errorf("expected the rolled back number to be reused, got %s", res.Sale.BillID)
	}
}

func TestOrderLines_SnapshotIsolation(t *testing.T) {
	svc, _ := setupSeeded(t)

	mustAddLine(t, svc, "T1", "หมึกสด", 79)
	if err := svc.Menu.UpdateItem("หมึกสด", "หมึกสด", 99); err != nil {
		t.Fatal(err)
	}
	mustAddLine(t, svc, "T1", "หมึกสด", 99)
	if err := svc.Menu.DeleteItem("หมึกสด"); err != nil {
		t.Fatalf("DeleteItem with open lines: %v", err)
	}

	res, err := svc.Order.Checkout("T1")
	if err != nil {
		t.Fatal(err)
	}
	if res.Sale.TotalAmount != 79+99 {
		t.Errorf("expected lines to keep their own prices, got total %d", res.Sale.TotalAmount)
	}

	// Later menu edits do not reach the stored bill.
	if _, err := svc.Menu.AddItem("หมึกสด", 500); err != nil {
		t.Fatal(err)
	}
	detail, err := svc.Sale.GetSaleDetails(res.Sale.BillID)
	if err != nil {
		t.Fatal(err)
	}
	if detail.Items[0].Price != 79 || detail.Items[1].Price != 99 {
		t.Errorf("stored items changed: %+v", detail.Items)
	}
}

func TestAddLine_Unresolved(t *testing.T) {
	svc, _ := setupSeeded(t)

	tests := []struct {
		table, menu string
	}{
		{"T99", "กุ้งสด"},
		{"T1", "ไม่มีเมนูนี้"},
	}
	for _, tt := range tests {
		_, err := svc.Order.AddLine(tt.table, tt.menu, 10)
		if KindOf(err) != KindResolutionFailure {
			t.Errorf("AddLine(%s, %s): expected resolution failure, got %v", tt.table, tt.menu, err)
		}
	}
	lines, err := svc.Order.GetLines("T1")
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 0 {
		t.Errorf("expected no line written, got %d", len(lines))
	}
}

func TestDeleteTable(t *testing.T) {
	svc, _ := setupSeeded(t)

	mustAddLine(t, svc, "T4", "ลูกชิ้นรวม", 69)
	if err := svc.Table.DeleteTable("T4"); KindOf(err) != KindConflict {
		t.Errorf("expected conflict, got %v", err)
	}
	if err := svc.Table.DeleteTable("T404"); KindOf(err) != KindNotFound {
		t.Errorf("expected not found, got %v", err)
	}

	removed, err := svc.Order.ClearLines("T4")
	if err != nil || removed != 1 {
		t.Fatalf("ClearLines: removed %d, err %v", removed, err)
	}
	if err := svc.Table.DeleteTable("T4"); err != nil {
		t.Fatalf("DeleteTable: %v", err)
	}

	names, err := svc.Table.GetTableNames()
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range names {
		if n == "T4" {
			t.Error("T4 still listed")
		}
	}
	if _, err := svc.Order.ClearLines("T4"); KindOf(err) != KindNotFound {
		t.Errorf("expected not found clearing a deleted table, got %v", err)
	}
}

func TestMenu_Validation(t *testing.T) {
	svc, _ := setupTestServices(t)

	tests := []struct {
		name  string
		price int
		kind  ErrorKind
	}{
		{"", 10, KindValidation},
		{"   ", 10, KindValidation},
		{"ชาเย็น", -1, KindValidation},
		{"ชาเย็น", 0, KindNone},
		{"ชาเย็น", 25, KindDuplicateKey},
	}
	for _, tt := range tests {
		_, err := svc.Menu.AddItem(tt.name, tt.price)
		if got := KindOf(err); got != tt.kind {
			t.Errorf("AddItem(%q, %d): expected %q, got %q (%v)", tt.name, tt.price, tt.kind, got, err)
		}
	}

	if err := svc.Menu.UpdateItem("ชาเย็น", "ชาเย็น", 30); err != nil {
		t.Fatal(err)
	}
	prices, err := svc.Menu.GetPrices()
	if err != nil {
		t.Fatal(err)
	}
	if prices["ชาเย็น"] != 30 {
		t.Errorf("expected reprice to 30, got %d", prices["ชาเย็น"])
	}
	if err := svc.Menu.DeleteItem("ไม่มี"); KindOf(err) != KindNotFound {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestSeedDefaults_Idempotent(t *testing.T) {
	svc, _ := setupTestServices(t)

	report, err := svc.Seed.SeedDefaults()
	if err != nil {
		t.Fatal(err)
	}
	if report.MenuItemsAdded != len(models.StarterMenu) || report.TablesAdded != models.StarterTableCount {
		t.Errorf("unexpected first seed report: %+v", report)
	}

	if err := svc.Menu.UpdateItem("กุ้งสด", "กุ้งสด", 95); err != nil {
		t.Fatal(err)
	}
	report, err = svc.Seed.SeedDefaults()
	if err != nil {
		t.Fatal(err)
	}
	if report != (SeedReport{}) {
		t.Errorf("expected reseed to add nothing, got %+v", report)
	}

	prices, err := svc.Menu.GetPrices()
	if err != nil {
		t.Fatal(err)
	}
	if prices["กุ้งสด"] != 95 {
		t.Errorf("reseed overwrote an edited price: %d", prices["กุ้งสด"])
	}
	names, err := svc.Table.GetTableNames()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 9 || names[0] != "T1" {
		t.Errorf("unexpected tables: %v", names)
	}
}

func TestRecordSale(t *testing.T) {
	svc, _ := setupTestServices(t)
	items := []models.LineItem{{Name: "ชุดหมูสไลด์", Price: 159}, {Name: "น้ำรีฟิล", Price: 39}}

	if _, err := svc.Sale.RecordSale("B-1", "T1", items, 1); KindOf(err) != KindValidation {
		t.Errorf("expected validation error for a wrong total, got %v", err)
	}
	if _, err := svc.Sale.RecordSale("B-1", "T1", nil, 0); !errors.Is(err, ErrEmptyOrder) {
		t.Errorf("expected ErrEmptyOrder, got %v", err)
	}

	detail, err := svc.Sale.RecordSale("B-1", "T1", items, 198)
	if err != nil {
		t.Fatalf("RecordSale: %v", err)
	}
	if detail.TotalAmount != 198 || len(detail.Items) != 2 {
		t.Errorf("unexpected detail: %+v", detail)
	}
	if _, err := svc.Sale.RecordSale("B-1", "T2", items, 198); KindOf(err) != KindDuplicateKey {
		t.Errorf("expected duplicate key, got %v", err)
	}

	if err := svc.Sale.DeleteSale("B-1"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Sale.DeleteSale("B-1"); KindOf(err) != KindNotFound {
		t.Errorf("expected not found, got %v", err)
	}
	if _, err := svc.Sale.GetSaleDetails("B-1"); KindOf(err) != KindNotFound {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestSearchSales(t *testing.T) {
	svc, _ := setupTestServices(t)
	for i, table := range []string{"T1", "T2", "VIP"} {
		bill := fmt.Sprintf("S-%05d", i+1)
		if _, err := svc.Sale.RecordSale(bill, table, []models.LineItem{{Name: "x", Price: 100 + i}}, 100+i); err != nil {
			t.Fatal(err)
		}
	}

	all, err := svc.Sale.SearchSales("", string(models.SearchTable))
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || all[0].BillID != "S-00003" {
		t.Errorf("expected every sale newest first, got %+v", all)
	}

	got, err := svc.Sale.SearchSales("vip", string(models.SearchAll))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].TableName != "VIP" {
		t.Errorf("expected VIP sale, got %+v", got)
	}

	got, err = svc.Sale.SearchSales("101", string(models.SearchTotal))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].BillID != "S-00002" {
		t.Errorf("expected S-00002, got %+v", got)
	}

	if _, err := svc.Sale.SearchSales("x", "waiter"); KindOf(err) != KindValidation {
		t.Errorf("expected validation error for unknown field, got %v", err)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorKind
	}{
		{nil, KindNone},
		{fmt.Errorf("wrap: %w", repositories.ErrDuplicateKey), KindDuplicateKey},
		{fmt.Errorf("wrap: %w", repositories.ErrNotFound), KindNotFound},
		{fmt.Errorf("%w: table 'T1'", repositories.ErrUnresolved), KindResolutionFailure},
		{repositories.ErrConflict, KindConflict},
		{ErrValidation, KindValidation},
		{ErrEmptyOrder, KindValidation},
		{fmt.Errorf("%w: disk I/O", repositories.ErrDatabaseError), KindStorage},
		{errors.New("connection refused"), KindStorage},
	}
	for _, tt := range tests {
		if got := KindOf(tt.err); got != tt.want {
			t.Errorf("KindOf(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
