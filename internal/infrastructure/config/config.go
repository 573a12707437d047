package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Venue struct {
		Env          string `toml:"env"` // "live" or "demo"
		LiveHost     string `toml:"live_host"`
		DemoHost     string `toml:"demo_host"`
		Port         int    `toml:"port"`
		PacingSec    int    `toml:"pacing_sec"`
		TimeoutSec   int    `toml:"timeout_sec"`
		TradeSide    string `toml:"trade_side"`
		HistoryStart string `toml:"history_start"` // YYYY-MM-DD, deal pagination epoch
	} `toml:"venue"`

	Storage struct {
		Driver     string `toml:"driver"` // "postgres" or "sqlite"
		DSN        string `toml:"dsn"`
		SQLitePath string `toml:"sqlite_path"`
	} `toml:"storage"`

	Redis struct {
		Addr   string `toml:"addr"`
		DB     int    `toml:"db"`
		Prefix string `toml:"prefix"`
	} `toml:"redis"`

	Chain struct {
		RPCURL     string `toml:"rpc_url"`
		RewardsURL string `toml:"rewards_url"`
	} `toml:"chain"`

	Price struct {
		BaseURL string `toml:"base_url"`
		Market  string `toml:"market"`
	} `toml:"price"`
}

func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Venue.Env == "" {
		cfg.Venue.Env = "live"
	}
	if cfg.Venue.Port <= 0 {
		cfg.Venue.Port = 5035
	}
	if cfg.Venue.PacingSec <= 0 {
		cfg.Venue.PacingSec = 3
	}
	if cfg.Venue.TimeoutSec <= 0 {
		cfg.Venue.TimeoutSec = 300
	}
	if cfg.Venue.TradeSide == "" {
		cfg.Venue.TradeSide = "sell"
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "sqlite"
	}
	if cfg.Storage.SQLitePath == "" {
		cfg.Storage.SQLitePath = "data/hedgesync.db"
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Redis.Prefix == "" {
		cfg.Redis.Prefix = "hedgesync"
	}
}

func validate(cfg *Config) error {
	env := strings.ToLower(strings.TrimSpace(cfg.Venue.Env))
	if env != "live" && env != "demo" {
		return fmt.Errorf("venue.env %q: want live or demo", cfg.Venue.Env)
	}
	cfg.Venue.Env = env

	if cfg.VenueHost() == "" {
		return errors.New("venue host empty for selected env")
	}
	if cfg.Venue.TradeSide != "buy" && cfg.Venue.TradeSide != "sell" {
		return fmt.Errorf("venue.trade_side %q: want buy or sell", cfg.Venue.TradeSide)
	}
	if cfg.Venue.HistoryStart != "" {
		if _, err := time.Parse("2006-01-02", cfg.Venue.HistoryStart); err != nil {
			return fmt.Errorf("venue.history_start: %w", err)
		}
	}

	switch cfg.Storage.Driver {
	case "postgres":
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return errors.New("storage.dsn empty but driver is postgres")
		}
	case "sqlite":
	default:
		return fmt.Errorf("storage.driver %q: want postgres or sqlite", cfg.Storage.Driver)
	}

	if strings.TrimSpace(cfg.Chain.RPCURL) == "" {
		return errors.New("chain.rpc_url is empty")
	}
	if strings.TrimSpace(cfg.Chain.RewardsURL) == "" {
		return errors.New("chain.rewards_url is empty")
	}
	if strings.TrimSpace(cfg.Price.BaseURL) == "" {
		return errors.New("price.base_url is empty")
	}
	if strings.TrimSpace(cfg.Price.Market) == "" {
		return errors.New("price.market is empty")
	}
	return nil
}

// VenueHost is the endpoint for the configured environment.
func (c *Config) VenueHost() string {
	if c.Venue.Env == "demo" {
		return c.Venue.DemoHost
	}
	return c.Venue.LiveHost
}

// HistoryStartTime is the fixed epoch deal pagination starts from.
func (c *Config) HistoryStartTime() time.Time {
	if c.Venue.HistoryStart == "" {
		return time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
	}
	t, _ := time.Parse("2006-01-02", c.Venue.HistoryStart)
	return t
}
