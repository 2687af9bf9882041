package starvault

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/starvault/starvault/starvault/database"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log     LogConfig         `toml:"log"`
	Store   StoreConfig       `toml:"store"`
	DB      database.DBConfig `toml:"db"`
	Mongo   MongoConfig       `toml:"mongo"`
	Catalog CatalogConfig     `toml:"catalog"`
	Spaces  SpacesConfig      `toml:"spaces"`
	Economy EconomyConfig     `toml:"economy"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

// StoreConfig selects the ledger adapter. Exactly one backs a deployment.
type StoreConfig struct {
	// Driver is "postgres", "mongo" or "file".
	Driver string `toml:"driver"`
	// Path is the ledger file for the file driver; empty keeps the
	// ledger in memory only.
	Path string `toml:"path"`
}

type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// CatalogConfig selects where card and pack definitions load from.
type CatalogConfig struct {
	// Source is "file" or "spaces".
	Source    string `toml:"source"`
	CardsPath string `toml:"cards_path"`
	PacksPath string `toml:"packs_path"`
}

type SpacesConfig struct {
	Key    string `toml:"key"`
	Secret string `toml:"secret"`
	Region string `toml:"region"`
	Bucket string `toml:"bucket"`
	Root   string `toml:"root"`
}

type EconomyConfig struct {
	ROIPercentage           float64     `toml:"roi_percentage"`
	SellRatio               float64     `toml:"sell_ratio"`
	StartingBalance         int64       `toml:"starting_balance"`
	MaxOpenQuantity         int         `toml:"max_open_quantity"`
	OperationTimeoutSeconds int         `toml:"operation_timeout_seconds"`
	Daily                   GrantConfig `toml:"daily"`
	Busk                    GrantConfig `toml:"busk"`
}

type GrantConfig struct {
	Min             int64 `toml:"min"`
	Max             int64 `toml:"max"`
	CooldownMinutes int   `toml:"cooldown_minutes"`
}

const defaultStartingBalance = 100

// StartingBalanceOrDefault returns the configured first-access balance,
// falling back to the standard 100.
func (c EconomyConfig) StartingBalanceOrDefault() int64 {
	if c.StartingBalance <= 0 {
		return defaultStartingBalance
	}
	return c.StartingBalance
}
