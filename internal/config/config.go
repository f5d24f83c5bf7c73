// Package config loads runtime configuration for the till from environment
// variables, optionally seeded from a .env file next to the executable.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"

	"shabu_pos/pkg/utils"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all runtime configuration values.
type Config struct {
	DBDriver  string // sqlite or postgres
	DBDSN     string // file path for sqlite, connection string for postgres
	LogLevel  string
	LogPretty bool
	Seed      bool   // seed the starter menu and tables when the menu is empty
	ShopName  string // receipt banner
}

// Default returns the configuration used when nothing is set: a local
// shabu_pos.db file next to the working directory.
func Default() Config {
	return Config{
		DBDriver:  DriverSQLite,
		DBDSN:     "shabu_pos.db",
		LogLevel:  "info",
		LogPretty: true,
		Seed:      true,
		ShopName:  "เพลิดเพลินชาบู",
	}
}

// Load reads an optional .env file and then the POS_* environment variables.
// A missing .env file is not an error.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	d := Default()
	cfg := Config{
		DBDriver:  strings.ToLower(utils.Getenv("POS_DB_DRIVER", d.DBDriver)),
		DBDSN:     utils.Getenv("POS_DB_DSN", d.DBDSN),
		LogLevel:  utils.Getenv("POS_LOG_LEVEL", d.LogLevel),
		LogPretty: utils.GetenvBool("POS_LOG_PRETTY", d.LogPretty),
		Seed:      utils.GetenvBool("POS_SEED", d.Seed),
		ShopName:  utils.Getenv("POS_SHOP_NAME", d.ShopName),
	}
	return cfg, cfg.Validate()
}

// Validate checks that the driver is supported and a DSN is present.
func (c Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q (use %s or %s)", c.DBDriver, DriverSQLite, DriverPostgres)
	}
	if utils.IsEmpty(c.DBDSN) {
		return errors.New("database DSN must not be empty")
	}
	return nil
}
