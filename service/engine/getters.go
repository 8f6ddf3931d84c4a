package engine

import (
	"context"

	"github.com/shopspring/decimal"

	"anchor/core"
	"anchor/internal/solvency"
)

func (e *solvencyEngine) HealthFactor(ctx context.Context, account string) (decimal.Decimal, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.healthFactor(ctx, account)
}

func (e *solvencyEngine) Vault(ctx context.Context, account string) (*core.Vault, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	value, err := e.collateralValue(ctx, account)
	if err != nil {
		return nil, err
	}

	debt := e.debtOf(account)

	return &core.Vault{
		UserID:        account,
		Debt:          debt,
		CollateralUsd: value,
		HealthFactor:  solvency.HealthFactor(debt, value),
		Positions:     e.positions(account),
	}, nil
}

func (e *solvencyEngine) CollateralOf(ctx context.Context, account, asset string) decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.collateralOf(account, asset)
}

func (e *solvencyEngine) DebtOf(ctx context.Context, account string) decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.debtOf(account)
}

func (e *solvencyEngine) Deposits(ctx context.Context, account string) []*core.CollateralPosition {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.positions(account)
}

func (e *solvencyEngine) UsdValue(ctx context.Context, asset string, amount decimal.Decimal) (decimal.Decimal, error) {
	return e.oracle.GetUsdValue(ctx, asset, amount)
}

func (e *solvencyEngine) TokenAmountForUsd(ctx context.Context, asset string, usdAmount decimal.Decimal) (decimal.Decimal, error) {
	return e.oracle.GetTokenAmountForUsd(ctx, asset, usdAmount)
}

func (e *solvencyEngine) Assets() []string {
	return e.registry.Symbols()
}

func (e *solvencyEngine) RiskParameters() core.RiskParameters {
	return core.RiskParameters{
		LiquidationThreshold: solvency.LiquidationThreshold,
		LiquidationPrecision: solvency.LiquidationPrecision,
		LiquidationBonus:     solvency.LiquidationBonus,
		MinHealthFactor:      solvency.MinHealthFactor,
	}
}

func (e *solvencyEngine) TotalDeposited(ctx context.Context, asset string) decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()

	total := decimal.Zero
	for _, deposits := range e.collateral {
		total = total.Add(deposits[asset])
	}

	return total
}

// Debtors lists accounts with outstanding debt, for the liquidation
// sentinel.
func (e *solvencyEngine) Debtors(ctx context.Context) []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	debtors := make([]string, 0, len(e.debt))
	for account, debt := range e.debt {
		if debt.IsPositive() {
			debtors = append(debtors, account)
		}
	}

	return debtors
}

// positions returns the account's non-zero deposits in registry order.
// Callers hold the engine lock.
func (e *solvencyEngine) positions(account string) []*core.CollateralPosition {
	positions := make([]*core.CollateralPosition, 0)
	for _, asset := range e.registry.Symbols() {
		amount := e.collateralOf(account, asset)
		if amount.IsZero() {
			continue
		}

		positions = append(positions, &core.CollateralPosition{
			Asset:  asset,
			Amount: amount,
		})
	}

	return positions
}
