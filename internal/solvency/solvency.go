// Package solvency holds the fixed risk parameters and the pure
// health-factor arithmetic. All values are 18-decimal fixed-point
// integers and every division truncates toward zero, so collateral is
// only ever undervalued, never overvalued.
package solvency

import (
	"time"

	"github.com/shopspring/decimal"

	"anchor/pkg/number"
)

var (
	// Wad is the 18-decimal fixed-point unit.
	Wad = number.Decimal("1000000000000000000")

	// LiquidationThreshold counts 50% of raw collateral value toward
	// solvency, requiring 200% overcollateralization for a factor of 1.
	LiquidationThreshold = decimal.NewFromInt(50)
	// LiquidationPrecision percentage denominator
	LiquidationPrecision = decimal.NewFromInt(100)
	// LiquidationBonus extra collateral share awarded to liquidators
	LiquidationBonus = decimal.NewFromInt(10)

	// MinHealthFactor is 1.0 in fixed point.
	MinHealthFactor = Wad
	// MaxHealthFactor is assigned to accounts with no debt.
	MaxHealthFactor = number.Decimal("115792089237316195423570985008687907853269984665640564039457584007913129639935")
)

// FeedTimeout is how old a quote may be before it is rejected as stale.
const FeedTimeout = 3 * time.Hour

// AdjustedCollateral discounts raw collateral value by the liquidation
// threshold.
func AdjustedCollateral(collateralUsd decimal.Decimal) decimal.Decimal {
	return number.MulDiv(collateralUsd, LiquidationThreshold, LiquidationPrecision)
}

// HealthFactor derives the solvency ratio of a position. An account with
// no debt is maximally healthy.
func HealthFactor(debt, collateralUsd decimal.Decimal) decimal.Decimal {
	if debt.IsZero() {
		return MaxHealthFactor
	}

	return number.MulDiv(AdjustedCollateral(collateralUsd), Wad, debt)
}

// LiquidationReward is the bonus collateral granted on top of the
// debt-equivalent amount seized.
func LiquidationReward(tokenAmount decimal.Decimal) decimal.Decimal {
	return number.MulDiv(tokenAmount, LiquidationBonus, LiquidationPrecision)
}
