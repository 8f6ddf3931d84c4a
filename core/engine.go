package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// Engine is the solvency engine: it owns the collateral and debt
// ledgers, values positions through the oracle adapter and enforces the
// minimum health factor on every mutating operation. Mutations are
// serialized by a single non-reentrant lock and roll back all ledger
// effects on failure.
type Engine interface {
	Deposit(ctx context.Context, account, asset string, amount decimal.Decimal) error
	Mint(ctx context.Context, account string, amount decimal.Decimal) error
	DepositAndMint(ctx context.Context, account, asset string, depositAmount, mintAmount decimal.Decimal) error
	Redeem(ctx context.Context, account, asset string, amount decimal.Decimal) error
	Burn(ctx context.Context, account string, amount decimal.Decimal) error
	RedeemForDebt(ctx context.Context, account, asset string, redeemAmount, burnAmount decimal.Decimal) error
	Liquidate(ctx context.Context, liquidator, account, asset string, debtToCover decimal.Decimal) error

	// Read accessors. Total over unknown accounts and zero amounts; a
	// zero-debt account never consults the oracle for its health factor.
	HealthFactor(ctx context.Context, account string) (decimal.Decimal, error)
	Vault(ctx context.Context, account string) (*Vault, error)
	CollateralOf(ctx context.Context, account, asset string) decimal.Decimal
	DebtOf(ctx context.Context, account string) decimal.Decimal
	Deposits(ctx context.Context, account string) []*CollateralPosition
	UsdValue(ctx context.Context, asset string, amount decimal.Decimal) (decimal.Decimal, error)
	TokenAmountForUsd(ctx context.Context, asset string, usdAmount decimal.Decimal) (decimal.Decimal, error)
	Assets() []string
	RiskParameters() RiskParameters

	TotalDeposited(ctx context.Context, asset string) decimal.Decimal
	Debtors(ctx context.Context) []string
}
