package config

import (
	"time"

	"github.com/fox-one/pkg/store/db"
)

// Config anchor config
type Config struct {
	App    App       `json:"app"`
	DB     db.Config `json:"db"`
	Oracle Oracle    `json:"oracle"`
	Nats   Nats      `json:"nats"`
	Assets []Asset   `json:"assets"`
}

// App app config
type App struct {
	// CustodyID holds locked reserves and is the sole authorized
	// minter of the synthetic token.
	CustodyID    string `json:"custody_id"`
	StableSymbol string `json:"stable_symbol"`
	Location     string `json:"location"`
}

// Oracle upstream price endpoint config
type Oracle struct {
	EndPoint string        `json:"end_point"`
	Interval time.Duration `json:"interval"`
	CacheExp time.Duration `json:"cache_exp"`
}

// Nats event publishing config
type Nats struct {
	URL string `json:"url"`
}

// Asset one reserve asset and its feed binding
type Asset struct {
	Symbol       string `json:"symbol"`
	FeedID       string `json:"feed_id"`
	FeedDecimals int32  `json:"feed_decimals"`
}

func defaultApp(cfg *Config) {
	if cfg.App.CustodyID == "" {
		cfg.App.CustodyID = "anchor-custody"
	}
	if cfg.App.StableSymbol == "" {
		cfg.App.StableSymbol = "AUSD"
	}
	if cfg.Oracle.Interval <= 0 {
		cfg.Oracle.Interval = 15 * time.Second
	}
	if cfg.Oracle.CacheExp <= 0 {
		cfg.Oracle.CacheExp = 5 * time.Second
	}
}
