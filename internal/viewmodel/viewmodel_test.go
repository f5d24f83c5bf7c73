package viewmodel

import (
	"errors"
	"path/filepath"
	"testing"

	"shabu_pos/internal/config"
	"shabu_pos/internal/gateway"
	"shabu_pos/internal/repositories"
	"shabu_pos/internal/services"
)

func setupTestModel(t *testing.T) (*Model, *gateway.Gateway) {
	t.Helper()
	cfg := config.Default()
	cfg.DBDSN = filepath.Join(t.TempDir(), "pos.db")

	g, err := gateway.Open(cfg)
	if err != nil {
		t.Fatalf("Failed to open gateway: %v", err)
	}
	t.Cleanup(func() { g.Close() })
	return New(g), g
}

func TestNew_SelectsFirstTable(t *testing.T) {
	m, _ := setupTestModel(t)

	if m.CurrentTable != "T1" {
		t.Errorf("expected T1 selected, got %q", m.CurrentTable)
	}
	if len(m.TableOrder) != 9 || len(m.Tables) != 9 {
		t.Errorf("expected 9 tables, got %v", m.TableOrder)
	}
	if m.Menu["กุ้งสด"] != 89 {
		t.Errorf("expected กุ้งสด at 89, got %d", m.Menu["กุ้งสด"])
	}
	if err := m.Select("T404"); !errors.Is(err, ErrUnknownTable) {
		t.Errorf("expected ErrUnknownTable, got %v", err)
	}
}

func TestModel_OrderAndCheckout(t *testing.T) {
	m, g := setupTestModel(t)

	if err := m.Select("T2"); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"กุ้งสด", "น้ำรีฟิล", "น้ำรีฟิล"} {
		if err := m.AddItem(name); err != nil {
			t.Fatalf("AddItem(%s): %v", name, err)
		}
	}
	if err := m.AddItem("ไม่มี"); !errors.Is(err, ErrUnknownMenuItem) {
		t.Errorf("expected ErrUnknownMenuItem, got %v", err)
	}
	if got := m.Total(); got != 89+39+39 {
		t.Errorf("expected total 167, got %d", got)
	}

	if err := m.RemoveItem(2); err != nil {
		t.Fatal(err)
	}
	if err := m.RemoveItem(5); !errors.Is(err, ErrNoSuchLine) {
		t.Errorf("expected ErrNoSuchLine, got %v", err)
	}
	if lines := m.CurrentLines(); len(lines) != 2 || m.Total() != 128 {
		t.Fatalf("unexpected lines after remove: %+v", lines)
	}

	res, err := m.Checkout()
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if res.Sale.BillID != "S-00001" || res.Sale.TableName != "T2" {
		t.Errorf("unexpected sale: %+v", res.Sale)
	}
	if len(m.CurrentLines()) != 0 || m.Total() != 0 {
		t.Error("expected the view to show T2 empty after checkout")
	}
	if len(g.ListSales()) != 1 {
		t.Error("expected the sale in history")
	}

	_, err = m.Checkout()
	if services.KindOf(err) != services.KindValidation {
		t.Errorf("expected empty-order failure, got %v", err)
	}
}

func TestModel_TableEdits(t *testing.T) {
	m, _ := setupTestModel(t)

	if err := m.Select("T3"); err != nil {
		t.Fatal(err)
	}
	if err := m.RenameTable("T3", "ริมหน้าต่าง"); err != nil {
		t.Fatalf("RenameTable: %v", err)
	}
	if m.CurrentTable != "ริมหน้าต่าง" {
		t.Errorf("expected selection to follow the rename, got %q", m.CurrentTable)
	}
	err := m.RenameTable("ริมหน้าต่าง", "T9")
	if services.KindOf(err) != services.KindDuplicateKey {
		t.Errorf("expected duplicate key, got %v", err)
	}
	if m.CurrentTable != "ริมหน้าต่าง" {
		t.Errorf("failed rename moved the selection to %q", m.CurrentTable)
	}

	if err := m.AddItem("ชุดผักรวม"); err != nil {
		t.Fatal(err)
	}
	if err := m.DeleteTable("ริมหน้าต่าง"); services.KindOf(err) != services.KindConflict {
		t.Errorf("expected conflict deleting an occupied table, got %v", err)
	}
	if err := m.RemoveItem(0); err != nil {
		t.Fatal(err)
	}
	if err := m.DeleteTable("ริมหน้าต่าง"); err != nil {
		t.Fatalf("DeleteTable: %v", err)
	}
	if m.CurrentTable != m.TableOrder[0] {
		t.Errorf("expected selection to fall back to %q, got %q", m.TableOrder[0], m.CurrentTable)
	}

	if err := m.AddTable("VIP"); err != nil {
		t.Fatal(err)
	}
	if _, ok := m.Tables["VIP"]; !ok {
		t.Error("expected VIP in the view")
	}
}

func TestModel_NoTables(t *testing.T) {
	m, _ := setupTestModel(t)

	for _, name := range append([]string(nil), m.TableOrder...) {
		if err := m.DeleteTable(name); err != nil {
			t.Fatalf("DeleteTable(%s): %v", name, err)
		}
	}
	if m.CurrentTable != "" {
		t.Errorf("expected no selection, got %q", m.CurrentTable)
	}
	if err := m.AddItem("กุ้งสด"); !errors.Is(err, ErrNoTableSelected) {
		t.Errorf("expected ErrNoTableSelected, got %v", err)
	}
	if _, err := m.Checkout(); !errors.Is(err, ErrNoTableSelected) {
		t.Errorf("expected ErrNoTableSelected, got %v", err)
	}
}

func TestModel_MenuEdits(t *testing.T) {
	m, _ := setupTestModel(t)

	if err := m.AddItem("หมึกสด"); err != nil {
		t.Fatal(err)
	}
	if err := m.SaveMenuItem("หมึกสด", 99); err != nil {
		t.Fatalf("reprice: %v", err)
	}
	if err := m.SaveMenuItem("ชาเย็น", 25); err != nil {
		t.Fatalf("add: %v", err)
	}
	if m.Menu["หมึกสด"] != 99 || m.Menu["ชาเย็น"] != 25 {
		t.Errorf("unexpected menu: %v", m.Menu)
	}
	if err := m.SaveMenuItem("ชาเย็น", -5); services.KindOf(err) != services.KindValidation {
		t.Errorf("expected validation error, got %v", err)
	}

	if err := m.DeleteMenuItem("หมึกสด"); err != nil {
		t.Fatal(err)
	}
	if _, ok := m.Menu["หมึกสด"]; ok {
		t.Error("expected หมึกสด gone from the menu")
	}
	// The open line keeps the price it was ordered at.
	if lines := m.CurrentLines(); len(lines) != 1 || lines[0].Price != 79 {
		t.Errorf("unexpected lines: %+v", lines)
	}
}

func TestModel_FailuresKeepTheirKind(t *testing.T) {
	m, _ := setupTestModel(t)

	if err := m.AddItem("กุ้งสด"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		call func() error
		want error
		kind services.ErrorKind
	}{
		{"rename onto existing", func() error { return m.RenameTable("T1", "T9") }, repositories.ErrDuplicateKey, services.KindDuplicateKey},
		{"add existing table", func() error { return m.AddTable("T2") }, repositories.ErrDuplicateKey, services.KindDuplicateKey},
		{"delete occupied table", func() error { return m.DeleteTable("T1") }, repositories.ErrConflict, services.KindConflict},
		{"delete missing table", func() error { return m.DeleteTable("T404") }, repositories.ErrNotFound, services.KindNotFound},
		{"delete missing menu item", func() error { return m.DeleteMenuItem("ไม่มี") }, repositories.ErrNotFound, services.KindNotFound},
		{"negative price", func() error { return m.SaveMenuItem("กุ้งสด", -1) }, services.ErrValidation, services.KindValidation},
	}
	for _, tt := range tests {
		err := tt.call()
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, err)
		}
		if got := services.KindOf(err); got != tt.kind {
			t.Errorf("%s: expected kind %q, got %q", tt.name, tt.kind, got)
		}
	}

	if err := m.Select("T2"); err != nil {
		t.Fatal(err)
	}
	_, err := m.Checkout()
	if !errors.Is(err, services.ErrEmptyOrder) {
		t.Errorf("expected ErrEmptyOrder from an empty checkout, got %v", err)
	}
}
