package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"anchor/core"
	"anchor/internal/solvency"
	"anchor/pkg/id"
)

// solvencyEngine owns the collateral and debt ledgers. Every mutating
// entry point takes the engine lock for its whole duration, so an
// external ledger call can never observe or re-enter the engine
// mid-operation, and rolls back its ledger effects on every failure
// path.
type solvencyEngine struct {
	mu sync.Mutex

	registry *core.Registry
	oracle   core.OracleAdapter
	stable   core.StableTokenLedger
	reserve  core.ReserveLedger
	events   core.EventStore
	custody  string

	// account -> asset -> deposited amount
	collateral map[string]map[string]decimal.Decimal
	// account -> minted debt
	debt map[string]decimal.Decimal
}

// New new solvency engine. The registry pairs each reserve asset with
// its price feed; custody is the account holding locked reserves, and
// the sole authorized minter of the synthetic token.
func New(
	registry *core.Registry,
	oracle core.OracleAdapter,
	stable core.StableTokenLedger,
	reserve core.ReserveLedger,
	events core.EventStore,
	custody string,
) core.Engine {
	return &solvencyEngine{
		registry:   registry,
		oracle:     oracle,
		stable:     stable,
		reserve:    reserve,
		events:     events,
		custody:    custody,
		collateral: make(map[string]map[string]decimal.Decimal),
		debt:       make(map[string]decimal.Decimal),
	}
}

func (e *solvencyEngine) Deposit(ctx context.Context, account, asset string, amount decimal.Decimal) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.deposit(ctx, account, asset, amount)
}

func (e *solvencyEngine) Mint(ctx context.Context, account string, amount decimal.Decimal) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.mint(ctx, account, amount)
}

// DepositAndMint deposits then mints as one atomic unit: a failed mint
// unwinds the deposit.
func (e *solvencyEngine) DepositAndMint(ctx context.Context, account, asset string, depositAmount, mintAmount decimal.Decimal) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.deposit(ctx, account, asset, depositAmount); err != nil {
		return err
	}

	if err := e.mint(ctx, account, mintAmount); err != nil {
		e.subCollateral(account, asset, depositAmount)
		if err2 := e.reserve.Transfer(ctx, asset, e.custody, account, depositAmount); err2 != nil {
			logrus.WithError(err2).WithField("account", account).Error("unwind deposit transfer failed")
		}
		return err
	}

	return nil
}

func (e *solvencyEngine) Redeem(ctx context.Context, account, asset string, amount decimal.Decimal) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.redeem(ctx, account, asset, amount)
}

func (e *solvencyEngine) Burn(ctx context.Context, account string, amount decimal.Decimal) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.burn(ctx, account, account, amount)
}

// RedeemForDebt burns then redeems as one atomic unit: a failed redeem
// re-mints the burned tokens.
func (e *solvencyEngine) RedeemForDebt(ctx context.Context, account, asset string, redeemAmount, burnAmount decimal.Decimal) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.burn(ctx, account, account, burnAmount); err != nil {
		return err
	}

	if err := e.redeem(ctx, account, asset, redeemAmount); err != nil {
		e.debt[account] = e.debtOf(account).Add(burnAmount)
		if err2 := e.stable.Mint(ctx, account, burnAmount); err2 != nil {
			logrus.WithError(err2).WithField("account", account).Error("unwind burn mint failed")
		}
		return err
	}

	return nil
}

// deposit pulls amount of asset from the account into engine custody.
// No health check: a deposit can only improve the factor.
func (e *solvencyEngine) deposit(ctx context.Context, account, asset string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return core.ErrZeroAmount
	}
	if !e.registry.Has(asset) {
		return core.ErrTokenNotAllowed
	}

	e.addCollateral(account, asset, amount)

	if err := e.reserve.TransferFrom(ctx, asset, account, e.custody, amount); err != nil {
		e.subCollateral(account, asset, amount)
		return fmt.Errorf("%w: %s", core.ErrDepositFailed, err)
	}

	e.emit(ctx, core.EventTypeDeposit, account, asset, amount, "")
	return nil
}

// mint records the debt first so the health check sees the hypothetical
// post-mint state; tokens are only issued once the position is healthy.
func (e *solvencyEngine) mint(ctx context.Context, account string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return core.ErrZeroAmount
	}

	e.debt[account] = e.debtOf(account).Add(amount)

	if err := e.requireHealthy(ctx, account); err != nil {
		e.debt[account] = e.debtOf(account).Sub(amount)
		return err
	}

	if err := e.stable.Mint(ctx, account, amount); err != nil {
		e.debt[account] = e.debtOf(account).Sub(amount)
		return fmt.Errorf("%w: %s", core.ErrMintFailed, err)
	}

	e.emit(ctx, core.EventTypeMint, account, "", amount, "")
	return nil
}

// redeem releases collateral back to the account. The health factor is
// re-validated on the decremented ledger before the irreversible payout
// leaves custody; the ledger alone determines the factor, so the result
// is the same as checking afterwards.
func (e *solvencyEngine) redeem(ctx context.Context, account, asset string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return core.ErrZeroAmount
	}
	if e.collateralOf(account, asset).LessThan(amount) {
		return core.ErrInsufficientCollateral
	}

	e.subCollateral(account, asset, amount)

	if err := e.requireHealthy(ctx, account); err != nil {
		e.addCollateral(account, asset, amount)
		return err
	}

	if err := e.reserve.Transfer(ctx, asset, e.custody, account, amount); err != nil {
		e.addCollateral(account, asset, amount)
		return fmt.Errorf("%w: %s", core.ErrRedeemFailed, err)
	}

	e.emit(ctx, core.EventTypeRedeem, account, asset, amount, "")
	return nil
}

// burn retires amount of the payer's synthetic tokens against the
// account's debt. Burning only improves the factor, but the position is
// re-validated anyway.
func (e *solvencyEngine) burn(ctx context.Context, account, payer string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return core.ErrZeroAmount
	}
	if e.debtOf(account).LessThan(amount) {
		return core.ErrInsufficientDebt
	}

	e.debt[account] = e.debtOf(account).Sub(amount)

	if err := e.requireHealthy(ctx, account); err != nil {
		e.debt[account] = e.debtOf(account).Add(amount)
		return err
	}

	if err := e.stable.TransferFrom(ctx, payer, e.custody, amount); err != nil {
		e.debt[account] = e.debtOf(account).Add(amount)
		return fmt.Errorf("%w: %s", core.ErrBurnFailed, err)
	}

	if err := e.stable.Burn(ctx, e.custody, amount); err != nil {
		e.debt[account] = e.debtOf(account).Add(amount)
		if err2 := e.stable.Transfer(ctx, e.custody, payer, amount); err2 != nil {
			logrus.WithError(err2).WithField("payer", payer).Error("return pulled tokens failed")
		}
		return fmt.Errorf("%w: %s", core.ErrBurnFailed, err)
	}

	e.emit(ctx, core.EventTypeBurn, account, "", amount, "")
	return nil
}

// requireHealthy fails with the current factor if the account is below
// the minimum. Oracle errors propagate unchanged.
func (e *solvencyEngine) requireHealthy(ctx context.Context, account string) error {
	factor, err := e.healthFactor(ctx, account)
	if err != nil {
		return err
	}

	if factor.LessThan(solvency.MinHealthFactor) {
		return &core.BrokenHealthFactorError{Factor: factor}
	}

	return nil
}

func (e *solvencyEngine) healthFactor(ctx context.Context, account string) (decimal.Decimal, error) {
	debt := e.debtOf(account)
	if debt.IsZero() {
		return solvency.MaxHealthFactor, nil
	}

	value, err := e.collateralValue(ctx, account)
	if err != nil {
		return decimal.Zero, err
	}

	return solvency.HealthFactor(debt, value), nil
}

// collateralValue sums the USD value of the account's deposits. Zero
// positions never consult the oracle, so empty accounts are valued even
// when every feed is down.
func (e *solvencyEngine) collateralValue(ctx context.Context, account string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, asset := range e.registry.Symbols() {
		amount := e.collateralOf(account, asset)
		if amount.IsZero() {
			continue
		}

		value, err := e.oracle.GetUsdValue(ctx, asset, amount)
		if err != nil {
			return decimal.Zero, err
		}

		total = total.Add(value)
	}

	return total, nil
}

func (e *solvencyEngine) debtOf(account string) decimal.Decimal {
	return e.debt[account]
}

func (e *solvencyEngine) collateralOf(account, asset string) decimal.Decimal {
	return e.collateral[account][asset]
}

func (e *solvencyEngine) addCollateral(account, asset string, amount decimal.Decimal) {
	deposits, ok := e.collateral[account]
	if !ok {
		deposits = make(map[string]decimal.Decimal)
		e.collateral[account] = deposits
	}

	deposits[asset] = deposits[asset].Add(amount)
}

func (e *solvencyEngine) subCollateral(account, asset string, amount decimal.Decimal) {
	e.collateral[account][asset] = e.collateral[account][asset].Sub(amount)
}

// emit journals a completed operation. The journal is observability,
// not bookkeeping: a failed append must not fail the operation.
func (e *solvencyEngine) emit(ctx context.Context, typ core.EventType, account, asset string, amount decimal.Decimal, data string) {
	event := &core.Event{
		TraceID: id.GenTraceID(),
		Type:    typ,
		UserID:  account,
		Asset:   asset,
		Amount:  amount,
		Data:    data,
	}

	if err := e.events.Create(ctx, event); err != nil {
		logrus.WithError(err).WithField("type", typ).Error("journal event failed")
	}
}
