// Package viewmodel mirrors what the till screen shows: every table with its
// open order lines, the menu, and the selected table. It is a read-through
// cache of the gateway and is rebuilt after every change, never patched.
package viewmodel

import (
	"errors"
	"fmt"

	"shabu_pos/internal/models"
	"shabu_pos/internal/services"
)

var (
	ErrNoTableSelected = errors.New("no table selected")
	ErrUnknownTable    = errors.New("table does not exist")
	ErrUnknownMenuItem = errors.New("menu item does not exist")
	ErrNoSuchLine      = errors.New("order line index out of range")
)

// Store is the part of the gateway the view model reads and writes through.
type Store interface {
	ListTables() []string
	ListOrderLines(tableName string) []models.OrderLine
	ListMenuItems() map[string]int
	AddTable(name string) bool
	RenameTable(oldName, newName string) bool
	DeleteTable(name string) bool
	AddOrderLine(tableName, menuName string, price int) bool
	DeleteOrderLine(lineID int64) bool
	Checkout(tableName string) (*services.CheckoutResult, bool)
	AddMenuItem(name string, price int) bool
	UpdateMenuItem(oldName, newName string, price int) bool
	DeleteMenuItem(name string) bool
	LastError() error
}

// Model is the in-memory view. CurrentTable is "" when no table is selected.
type Model struct {
	store Store

	Tables       map[string][]models.OrderLine
	TableOrder   []string
	Menu         map[string]int
	CurrentTable string
}

// New loads the view from store and selects the first table.
func New(store Store) *Model {
	m := &Model{store: store}
	m.Refresh()
	return m
}

// Refresh rebuilds every field from the store. The current table is kept
// when it still exists and otherwise falls back to the first table.
func (m *Model) Refresh() {
	names := m.store.ListTables()
	tables := make(map[string][]models.OrderLine, len(names))
	for _, n := range names {
		tables[n] = m.store.ListOrderLines(n)
	}
	m.Tables = tables
	m.TableOrder = names
	m.Menu = m.store.ListMenuItems()

	if _, ok := m.Tables[m.CurrentTable]; !ok {
		m.CurrentTable = ""
		if len(m.TableOrder) > 0 {
			m.CurrentTable = m.TableOrder[0]
		}
	}
}

// Select makes name the current table.
func (m *Model) Select(name string) error {
	if _, ok := m.Tables[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}
	m.CurrentTable = name
	return nil
}

// CurrentLines returns the open lines of the current table.
func (m *Model) CurrentLines() []models.OrderLine {
	return m.Tables[m.CurrentTable]
}

// Total sums the current table's open lines.
func (m *Model) Total() int {
	total := 0
	for _, l := range m.CurrentLines() {
		total += l.Price
	}
	return total
}

func (m *Model) AddTable(name string) error {
	ok := m.store.AddTable(name)
	err := m.result("add table", ok)
	m.Refresh()
	return err
}

// RenameTable renames oldName. The selection follows the table when it was current.
func (m *Model) RenameTable(oldName, newName string) error {
	if newName == oldName {
		return nil
	}
	ok := m.store.RenameTable(oldName, newName)
	if ok && m.CurrentTable == oldName {
		m.CurrentTable = newName
	}
	err := m.result("rename table", ok)
	m.Refresh()
	return err
}

// DeleteTable deletes name; it fails while the table has open lines.
func (m *Model) DeleteTable(name string) error {
	ok := m.store.DeleteTable(name)
	err := m.result("delete table", ok)
	m.Refresh()
	return err
}

// AddItem orders one unit of menuName at the current price for the current table.
func (m *Model) AddItem(menuName string) error {
	if m.CurrentTable == "" {
		return ErrNoTableSelected
	}
	price, found := m.Menu[menuName]
	if !found {
		return fmt.Errorf("%w: %s", ErrUnknownMenuItem, menuName)
	}
	ok := m.store.AddOrderLine(m.CurrentTable, menuName, price)
	err := m.result("add item", ok)
	m.Refresh()
	return err
}

// RemoveItem removes the index-th open line of the current table.
func (m *Model) RemoveItem(index int) error {
	lines := m.CurrentLines()
	if index < 0 || index >= len(lines) {
		return fmt.Errorf("%w: %d", ErrNoSuchLine, index)
	}
	ok := m.store.DeleteOrderLine(lines[index].ID)
	err := m.result("remove item", ok)
	m.Refresh()
	return err
}

// Checkout bills the current table.
func (m *Model) Checkout() (*services.CheckoutResult, error) {
	if m.CurrentTable == "" {
		return nil, ErrNoTableSelected
	}
	res, ok := m.store.Checkout(m.CurrentTable)
	err := m.result("checkout", ok)
	m.Refresh()
	if err != nil {
		return nil, err
	}
	return res, nil
}

// SaveMenuItem adds name to the menu, or reprices it when it already exists.
func (m *Model) SaveMenuItem(name string, price int) error {
	var ok bool
	if _, exists := m.Menu[name]; exists {
		ok = m.store.UpdateMenuItem(name, name, price)
	} else {
		ok = m.store.AddMenuItem(name, price)
	}
	err := m.result("save menu item", ok)
	m.Refresh()
	return err
}

// DeleteMenuItem removes name from the menu; open lines keep their snapshot.
func (m *Model) DeleteMenuItem(name string) error {
	ok := m.store.DeleteMenuItem(name)
	err := m.result("delete menu item", ok)
	m.Refresh()
	return err
}

// result reads the store's error for a failed call. It must run before
// Refresh, whose reads clear the store's last error.
func (m *Model) result(op string, ok bool) error {
	if ok {
		return nil
	}
	if err := m.store.LastError(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s failed", op)
}
