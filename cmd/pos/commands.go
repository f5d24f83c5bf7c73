package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"shabu_pos/internal/gateway"
	"shabu_pos/internal/models"
	"shabu_pos/internal/receipt"
	"shabu_pos/internal/services"
	"shabu_pos/internal/viewmodel"
	"shabu_pos/pkg/utils"
)

type cli struct {
	g    *gateway.Gateway
	shop string
	out  io.Writer
}

func (c *cli) dispatch(args []string) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "menu":
		return c.menu(rest)
	case "table":
		return c.table(rest)
	case "order":
		return c.order(rest)
	case "checkout":
		if len(rest) != 1 {
			return usageErr("checkout <table>")
		}
		return c.checkout(rest[0])
	case "history":
		return c.history(rest)
	case "seed":
		c.g.SeedDefaults()
		return c.g.LastError()
	default:
		return usageErr("unknown command %q", cmd)
	}
}

func (c *cli) menu(args []string) error {
	sub, args := split(args)
	switch {
	case sub == "ls" || sub == "":
		for _, it := range c.g.ListMenu() {
			fmt.Fprintln(c.out, receipt.BillLine(it.Name, it.Price))
		}
		return c.g.LastError()
	case sub == "add" && len(args) == 2:
		price, err := parsePrice(args[1])
		if err != nil {
			return err
		}
		return c.check("add menu item", c.g.AddMenuItem(args[0], price))
	case sub == "set" && len(args) == 2:
		price, err := parsePrice(args[1])
		if err != nil {
			return err
		}
		return viewmodel.New(c.g).SaveMenuItem(args[0], price)
	case sub == "edit" && len(args) == 3:
		price, err := parsePrice(args[2])
		if err != nil {
			return err
		}
		return c.check("edit menu item", c.g.UpdateMenuItem(args[0], args[1], price))
	case sub == "rm" && len(args) == 1:
		return viewmodel.New(c.g).DeleteMenuItem(args[0])
	}
	return usageErr("menu ls | add <name> <price> | set <name> <price> | edit <old> <new> <price> | rm <name>")
}

func (c *cli) table(args []string) error {
	sub, args := split(args)
	switch {
	case sub == "ls" || sub == "":
		m := viewmodel.New(c.g)
		for _, name := range m.TableOrder {
			lines := m.Tables[name]
			if len(lines) == 0 {
				fmt.Fprintf(c.out, "%s\n", name)
				continue
			}
			fmt.Fprintf(c.out, "%s\t%d item(s)\t%s บาท\n", name, len(lines), receipt.Amount(sumLines(lines)))
		}
		return nil
	case sub == "add" && len(args) == 1:
		return viewmodel.New(c.g).AddTable(args[0])
	case sub == "rename" && len(args) == 2:
		return viewmodel.New(c.g).RenameTable(args[0], args[1])
	case sub == "rm" && len(args) == 1:
		return viewmodel.New(c.g).DeleteTable(args[0])
	}
	return usageErr("table ls | add <name> | rename <old> <new> | rm <name>")
}

func (c *cli) order(args []string) error {
	sub, args := split(args)
	if len(args) == 0 {
		return usageErr("order ls <table> | add <table> <item>... | rm <table> <line#> | clear <table>")
	}
	m := viewmodel.New(c.g)
	if err := m.Select(args[0]); err != nil {
		return err
	}

	switch {
	case sub == "ls" && len(args) == 1:
		c.printLines(m)
		return nil
	case sub == "add" && len(args) >= 2:
		for _, item := range args[1:] {
			if err := m.AddItem(item); err != nil {
				return err
			}
		}
		c.printLines(m)
		return nil
	case sub == "rm" && len(args) == 2:
		n, err := utils.StrToInt64(args[1])
		if err != nil {
			return usageErr("line number must be an integer")
		}
		if err := m.RemoveItem(int(n) - 1); err != nil {
			return err
		}
		c.printLines(m)
		return nil
	case sub == "clear" && len(args) == 1:
		return c.check("clear order", c.g.ClearOrderLines(args[0]))
	}
	return usageErr("order ls <table> | add <table> <item>... | rm <table> <line#> | clear <table>")
}

func (c *cli) printLines(m *viewmodel.Model) {
	for i, l := range m.CurrentLines() {
		fmt.Fprintf(c.out, "%2d. %s\n", i+1, receipt.BillLine(l.MenuName, l.Price))
	}
	fmt.Fprintf(c.out, "รวม: %s บาท\n", receipt.Amount(m.Total()))
}

func (c *cli) checkout(table string) error {
	m := viewmodel.New(c.g)
	if err := m.Select(table); err != nil {
		return err
	}
	res, err := m.Checkout()
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, receipt.FromCheckout(c.shop, res).Render())
	return nil
}

func (c *cli) history(args []string) error {
	sub, args := split(args)
	switch {
	case sub == "ls" || sub == "":
		c.printSales(c.g.ListSales())
		return c.g.LastError()
	case sub == "show" && len(args) == 1:
		detail, ok := c.g.GetSaleDetails(args[0])
		if err := c.check("show bill", ok); err != nil {
			return err
		}
		fmt.Fprintln(c.out, receipt.FromSale(c.shop, detail).Render())
		return nil
	case sub == "search" && (len(args) == 1 || len(args) == 2):
		field := string(models.SearchAll)
		if len(args) == 2 {
			field = args[1]
		}
		if !models.IsValidSearchField(field) {
			return usageErr("unknown search field %q", field)
		}
		c.printSales(c.g.SearchSales(args[0], field))
		return c.g.LastError()
	case sub == "rm" && len(args) == 1:
		return c.check("delete bill", c.g.DeleteSale(args[0]))
	case sub == "clear" && len(args) == 0:
		return c.check("clear history", c.g.ClearAllSales())
	}
	return usageErr("history ls | show <bill> | search <text> [field] | rm <bill> | clear")
}

func (c *cli) printSales(sales []models.Sale) {
	total := 0
	for _, s := range sales {
		fmt.Fprintf(c.out, "%s\t%s\t%s\t%s บาท\n", s.BillID, receipt.Timestamp(s.CreatedAt), s.TableName, receipt.Amount(s.TotalAmount))
		total += s.TotalAmount
	}
	fmt.Fprintf(c.out, "%s bill(s), %s บาท\n", humanize.Comma(int64(len(sales))), receipt.Amount(total))
}

// check turns a gateway boolean into the error behind it.
func (c *cli) check(op string, ok bool) error {
	if ok {
		return nil
	}
	if err := c.g.LastError(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s failed", op)
}

// describe words an operation failure for the terminal.
func describe(err error) string {
	switch {
	case errors.Is(err, viewmodel.ErrUnknownTable), errors.Is(err, viewmodel.ErrUnknownMenuItem),
		errors.Is(err, viewmodel.ErrNoSuchLine), errors.Is(err, viewmodel.ErrNoTableSelected):
		return "error: " + err.Error()
	}

	var hint string
	switch services.KindOf(err) {
	case services.KindDuplicateKey:
		hint = "the name is already in use"
	case services.KindNotFound:
		hint = "no such record"
	case services.KindResolutionFailure:
		hint = "unknown table or menu item"
	case services.KindConflict:
		hint = "the table still has open orders"
	case services.KindValidation:
		hint = "invalid input"
	default:
		hint = "storage error"
	}
	return fmt.Sprintf("error (%s): %s\n  %v", services.KindOf(err), hint, err)
}

func parsePrice(s string) (int, error) {
	price, err := utils.StrToPrice(s)
	if err != nil {
		return 0, usageErr("price must be a whole number of baht: %v", err)
	}
	return price, nil
}

func sumLines(lines []models.OrderLine) int {
	total := 0
	for _, l := range lines {
		total += l.Price
	}
	return total
}

func split(args []string) (string, []string) {
	if len(args) == 0 {
		return "", nil
	}
	return strings.ToLower(args[0]), args[1:]
}

func usageErr(format string, a ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{errUsage}, a...)...)
}
