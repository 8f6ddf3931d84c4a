package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Balance is one (user, asset) holding. Amounts are 18-decimal
// fixed-point integers.
type Balance struct {
	UserID    string          `sql:"size:64;PRIMARY_KEY" json:"user_id"`
	Asset     string          `sql:"size:20;PRIMARY_KEY" json:"asset"`
	Amount    decimal.Decimal `sql:"type:decimal(64,0)" json:"amount"`
	Version   int64           `sql:"default:0" json:"version"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Allowance lets spender pull up to Amount of Asset from Owner.
type Allowance struct {
	Owner     string          `sql:"size:64;PRIMARY_KEY" json:"owner"`
	Spender   string          `sql:"size:64;PRIMARY_KEY" json:"spender"`
	Asset     string          `sql:"size:20;PRIMARY_KEY" json:"asset"`
	Amount    decimal.Decimal `sql:"type:decimal(64,0)" json:"amount"`
	UpdatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TokenSupply tracks the outstanding supply of a minted asset.
type TokenSupply struct {
	Asset     string          `sql:"size:20;PRIMARY_KEY" json:"asset"`
	Amount    decimal.Decimal `sql:"type:decimal(64,0)" json:"amount"`
	UpdatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// ReserveLedger moves reserve assets between accounts. Transfer moves the
// sender's own funds; TransferFrom additionally spends the allowance the
// owner granted to the recipient.
type ReserveLedger interface {
	Transfer(ctx context.Context, asset, from, to string, amount decimal.Decimal) error
	TransferFrom(ctx context.Context, asset, from, to string, amount decimal.Decimal) error
	BalanceOf(ctx context.Context, asset, user string) (decimal.Decimal, error)
}

// StableTokenLedger is the synthetic-dollar bookkeeping the engine
// governs. Only the engine custody account is authorized to mint and
// burn; the interface is handed to the engine alone.
type StableTokenLedger interface {
	Mint(ctx context.Context, to string, amount decimal.Decimal) error
	Burn(ctx context.Context, from string, amount decimal.Decimal) error
	Transfer(ctx context.Context, from, to string, amount decimal.Decimal) error
	TransferFrom(ctx context.Context, from, to string, amount decimal.Decimal) error
	BalanceOf(ctx context.Context, user string) (decimal.Decimal, error)
	TotalSupply(ctx context.Context) (decimal.Decimal, error)
	Allowance(ctx context.Context, owner, spender string) (decimal.Decimal, error)
}

// WalletStore is the full balance ledger: reserve assets plus the
// synthetic token, everything keyed by asset. The asset-less
// StableTokenLedger view is obtained by binding one asset, see
// wallet.StableToken.
type WalletStore interface {
	ReserveLedger
	Approve(ctx context.Context, owner, spender, asset string, amount decimal.Decimal) error
	Mint(ctx context.Context, asset, to string, amount decimal.Decimal) error
	Burn(ctx context.Context, asset, from string, amount decimal.Decimal) error
	TotalSupply(ctx context.Context, asset string) (decimal.Decimal, error)
	AllowanceOf(ctx context.Context, owner, spender, asset string) (decimal.Decimal, error)
}
