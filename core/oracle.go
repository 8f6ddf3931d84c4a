package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a single price observation from an external feed. Price is an
// integer scaled by 10^Decimals.
type Quote struct {
	FeedID    string          `json:"feed_id"`
	Price     decimal.Decimal `json:"price"`
	Decimals  int32           `json:"decimals"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Price is the persisted form of a quote.
type Price struct {
	ID        uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	FeedID    string          `sql:"size:36;index:idx_prices_feed" json:"feed_id"`
	Price     decimal.Decimal `sql:"type:decimal(64,0)" json:"price"`
	Decimals  int32           `json:"decimals"`
	UpdatedAt time.Time       `json:"updated_at"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// PriceFeed serves the latest quote of one feed.
type PriceFeed interface {
	LatestQuote(ctx context.Context) (*Quote, error)
}

// PriceStore persists polled quotes.
type PriceStore interface {
	Save(ctx context.Context, quote *Quote) error
	Latest(ctx context.Context, feedID string) (*Quote, error)
}

// OracleAdapter values reserve assets in 18-decimal fixed-point USD. Both
// methods fail with a StalePriceError if the feed has not updated within
// the staleness window.
type OracleAdapter interface {
	GetUsdValue(ctx context.Context, asset string, amount decimal.Decimal) (decimal.Decimal, error)
	GetTokenAmountForUsd(ctx context.Context, asset string, usdAmount decimal.Decimal) (decimal.Decimal, error)
}
