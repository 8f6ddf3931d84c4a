package engine

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"anchor/core"
	"anchor/internal/solvency"
)

// Liquidate lets a third party repay part of an unhealthy account's
// debt in exchange for a discounted slice of its collateral. The
// target's health factor must strictly improve, else the whole call
// fails with the ledgers unchanged.
//
// If system collateralization ever falls to 100% or below, the seized
// value is worth less than the burned tokens and liquidation becomes
// economically irrational. That extreme-market failure mode is accepted
// here, not special-cased.
func (e *solvencyEngine) Liquidate(ctx context.Context, liquidator, account, asset string, debtToCover decimal.Decimal) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !debtToCover.IsPositive() {
		return core.ErrZeroAmount
	}

	starting, err := e.healthFactor(ctx, account)
	if err != nil {
		return err
	}
	if starting.GreaterThanOrEqual(solvency.MinHealthFactor) {
		return &core.HealthFactorOkError{Factor: starting}
	}

	tokenAmount, err := e.oracle.GetTokenAmountForUsd(ctx, asset, debtToCover)
	if err != nil {
		return err
	}
	seized := tokenAmount.Add(solvency.LiquidationReward(tokenAmount))

	if e.collateralOf(account, asset).LessThan(seized) {
		return core.ErrInsufficientCollateral
	}
	if e.debtOf(account).LessThan(debtToCover) {
		return core.ErrInsufficientDebt
	}

	// ledger effects first, then validate the outcome
	e.subCollateral(account, asset, seized)
	e.debt[account] = e.debtOf(account).Sub(debtToCover)

	rollback := func() {
		e.addCollateral(account, asset, seized)
		e.debt[account] = e.debtOf(account).Add(debtToCover)
	}

	ending, err := e.healthFactor(ctx, account)
	if err != nil {
		rollback()
		return err
	}
	if ending.LessThanOrEqual(starting) {
		rollback()
		return &core.HealthFactorNotImprovedError{Starting: starting, Ending: ending}
	}

	// the liquidator's own position must stay healthy too
	if err := e.requireHealthy(ctx, liquidator); err != nil {
		rollback()
		return err
	}

	// externals, ordered so every failure can be unwound: pull the
	// liquidator's tokens, retire them, then pay out the collateral. A
	// failed payout re-mints, since the engine is the sole minter.
	if err := e.stable.TransferFrom(ctx, liquidator, e.custody, debtToCover); err != nil {
		rollback()
		return fmt.Errorf("%w: %s", core.ErrBurnFailed, err)
	}

	if err := e.stable.Burn(ctx, e.custody, debtToCover); err != nil {
		rollback()
		if err2 := e.stable.Transfer(ctx, e.custody, liquidator, debtToCover); err2 != nil {
			logrus.WithError(err2).WithField("liquidator", liquidator).Error("return pulled tokens failed")
		}
		return fmt.Errorf("%w: %s", core.ErrBurnFailed, err)
	}

	if err := e.reserve.Transfer(ctx, asset, e.custody, liquidator, seized); err != nil {
		rollback()
		if err2 := e.stable.Mint(ctx, liquidator, debtToCover); err2 != nil {
			logrus.WithError(err2).WithField("liquidator", liquidator).Error("refund mint failed")
		}
		return fmt.Errorf("%w: %s", core.ErrRedeemFailed, err)
	}

	data, _ := json.Marshal(map[string]string{
		"liquidator":      liquidator,
		"debt_covered":    debtToCover.String(),
		"seized":          seized.String(),
		"starting_factor": starting.String(),
		"ending_factor":   ending.String(),
	})
	e.emit(ctx, core.EventTypeLiquidation, account, asset, seized, string(data))

	return nil
}
