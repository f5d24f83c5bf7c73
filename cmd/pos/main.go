package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"shabu_pos/internal/config"
	"shabu_pos/internal/gateway"
	"shabu_pos/pkg/utils"
)

const usage = `usage: pos [flags] <command> [args]

commands:
  menu ls | add <name> <price> | set <name> <price> | edit <old> <new> <price> | rm <name>
  table ls | add <name> | rename <old> <new> | rm <name>
  order ls <table> | add <table> <item>... | rm <table> <line#> | clear <table>
  checkout <table>
  history ls | show <bill> | search <text> [all|bill_id|table|date|total] | rm <bill> | clear
  seed

flags:
`

// errUsage marks a malformed command line.
var errUsage = errors.New("bad usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one command and returns the process exit code:
// 0 on success, 1 when an operation fails, 2 on bad usage.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("pos", flag.ContinueOnError)
	fs.SetOutput(stderr)
	envFile := fs.String("env", ".env", "optional .env file")
	dsn := fs.String("db", "", "database file (sqlite) or connection string (postgres)")
	driver := fs.String("driver", "", "database driver: sqlite or postgres")
	logLevel := fs.String("log-level", "", "log level (debug, info, warn, error, disabled)")
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintln(stderr, "config:", err)
		return 1
	}
	// Flags win over the environment.
	if *dsn != "" {
		cfg.DBDSN = *dsn
	}
	if *driver != "" {
		cfg.DBDriver = *driver
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, "config:", err)
		return 1
	}

	utils.InitLogger(cfg.LogLevel, cfg.LogPretty)

	g, err := gateway.Open(cfg)
	if err != nil {
		utils.LogError(err, "Failed to open database")
		fmt.Fprintln(stderr, "cannot open database:", err)
		return 1
	}
	defer g.Close()

	c := &cli{g: g, shop: cfg.ShopName, out: stdout}
	if err := c.dispatch(fs.Args()); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(stderr, err)
			fs.Usage()
			return 2
		}
		fmt.Fprintln(stderr, describe(err))
		return 1
	}
	return 0
}
