package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// EventType string
type EventType string

const (
	// EventTypeDeposit collateral locked
	EventTypeDeposit EventType = "deposit"
	// EventTypeMint synthetic dollars issued
	EventTypeMint EventType = "mint"
	// EventTypeRedeem collateral released
	EventTypeRedeem EventType = "redeem"
	// EventTypeBurn debt repaid
	EventTypeBurn EventType = "burn"
	// EventTypeLiquidation third-party liquidation
	EventTypeLiquidation EventType = "liquidation"
)

// Event is one journaled engine operation.
type Event struct {
	ID          uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	TraceID     string          `sql:"size:36;unique_index:idx_events_trace" json:"trace_id"`
	Type        EventType       `sql:"size:20" json:"type"`
	UserID      string          `sql:"size:64;index:idx_events_user" json:"user_id"`
	Asset       string          `sql:"size:20" json:"asset,omitempty"`
	Amount      decimal.Decimal `sql:"type:decimal(64,0)" json:"amount"`
	Data        string          `sql:"size:1024" json:"data,omitempty"`
	PublishedAt *time.Time      `json:"published_at,omitempty"`
	CreatedAt   time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// EventStore event journal interface
type EventStore interface {
	Create(ctx context.Context, event *Event) error
	List(ctx context.Context, fromID uint64, limit int) ([]*Event, error)
	ListUnpublished(ctx context.Context, limit int) ([]*Event, error)
	MarkPublished(ctx context.Context, ids []uint64) error
}
