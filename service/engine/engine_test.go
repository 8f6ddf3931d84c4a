package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anchor/core"
	"anchor/internal/solvency"
	"anchor/pkg/number"
	"anchor/service/oracle"
)

const (
	custody     = "anchor-custody"
	stableAsset = "AUSD"
)

func wad(v string) decimal.Decimal {
	return number.Decimal(v).Mul(solvency.Wad)
}

// feedPrice is quoted with 8 feed decimals, chainlink style.
func feedPrice(usd string) decimal.Decimal {
	return number.Decimal(usd).Shift(8)
}

type fakeFeed struct {
	price     decimal.Decimal
	updatedAt time.Time
}

func (f *fakeFeed) LatestQuote(ctx context.Context) (*core.Quote, error) {
	return &core.Quote{Price: f.price, Decimals: 8, UpdatedAt: f.updatedAt}, nil
}

// fakeLedger backs both the reserve assets and the synthetic token with
// plain maps, with optional fault injection.
type fakeLedger struct {
	balances map[string]decimal.Decimal // "asset/user"
	supply   decimal.Decimal

	transferErr error
	mintErr     error
	burnErr     error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{balances: make(map[string]decimal.Decimal)}
}

func (l *fakeLedger) key(asset, user string) string {
	return fmt.Sprintf("%s/%s", asset, user)
}

func (l *fakeLedger) balance(asset, user string) decimal.Decimal {
	return l.balances[l.key(asset, user)]
}

func (l *fakeLedger) fund(asset, user string, amount decimal.Decimal) {
	l.balances[l.key(asset, user)] = l.balance(asset, user).Add(amount)
}

func (l *fakeLedger) move(asset, from, to string, amount decimal.Decimal) error {
	if l.transferErr != nil {
		return l.transferErr
	}
	if l.balance(asset, from).LessThan(amount) {
		return core.ErrInsufficientBalance
	}

	l.balances[l.key(asset, from)] = l.balance(asset, from).Sub(amount)
	l.balances[l.key(asset, to)] = l.balance(asset, to).Add(amount)
	return nil
}

func (l *fakeLedger) Transfer(ctx context.Context, asset, from, to string, amount decimal.Decimal) error {
	return l.move(asset, from, to, amount)
}

func (l *fakeLedger) TransferFrom(ctx context.Context, asset, from, to string, amount decimal.Decimal) error {
	return l.move(asset, from, to, amount)
}

func (l *fakeLedger) BalanceOf(ctx context.Context, asset, user string) (decimal.Decimal, error) {
	return l.balance(asset, user), nil
}

type fakeStable struct {
	*fakeLedger
}

func (l fakeStable) Mint(ctx context.Context, to string, amount decimal.Decimal) error {
	if l.mintErr != nil {
		return l.mintErr
	}
	l.fund(stableAsset, to, amount)
	l.fakeLedger.supply = l.fakeLedger.supply.Add(amount)
	return nil
}

func (l fakeStable) Burn(ctx context.Context, from string, amount decimal.Decimal) error {
	if l.burnErr != nil {
		return l.burnErr
	}
	if l.balance(stableAsset, from).LessThan(amount) {
		return core.ErrInsufficientBalance
	}
	l.balances[l.key(stableAsset, from)] = l.balance(stableAsset, from).Sub(amount)
	l.fakeLedger.supply = l.fakeLedger.supply.Sub(amount)
	return nil
}

func (l fakeStable) Transfer(ctx context.Context, from, to string, amount decimal.Decimal) error {
	return l.move(stableAsset, from, to, amount)
}

func (l fakeStable) TransferFrom(ctx context.Context, from, to string, amount decimal.Decimal) error {
	return l.move(stableAsset, from, to, amount)
}

func (l fakeStable) BalanceOf(ctx context.Context, user string) (decimal.Decimal, error) {
	return l.balance(stableAsset, user), nil
}

func (l fakeStable) TotalSupply(ctx context.Context) (decimal.Decimal, error) {
	return l.fakeLedger.supply, nil
}

func (l fakeStable) Allowance(ctx context.Context, owner, spender string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type fakeJournal struct {
	events []*core.Event
}

func (j *fakeJournal) Create(ctx context.Context, event *core.Event) error {
	j.events = append(j.events, event)
	return nil
}

func (j *fakeJournal) List(ctx context.Context, fromID uint64, limit int) ([]*core.Event, error) {
	return j.events, nil
}

func (j *fakeJournal) ListUnpublished(ctx context.Context, limit int) ([]*core.Event, error) {
	return nil, nil
}

func (j *fakeJournal) MarkPublished(ctx context.Context, ids []uint64) error {
	return nil
}

type testEnv struct {
	engine  core.Engine
	ledger  *fakeLedger
	journal *fakeJournal
	eth     *fakeFeed
	btc     *fakeFeed
}

func newTestEnv(t *testing.T) *testEnv {
	eth := &fakeFeed{price: feedPrice("4000"), updatedAt: time.Now()}
	btc := &fakeFeed{price: feedPrice("70000"), updatedAt: time.Now()}

	registry, err := core.NewRegistry([]string{"ETH", "BTC"}, []core.PriceFeed{eth, btc})
	require.NoError(t, err)

	ledger := newFakeLedger()
	journal := &fakeJournal{}
	eng := New(registry, oracle.New(registry), fakeStable{ledger}, ledger, journal, custody)

	// everyone starts with plenty of reserves
	for _, user := range []string{"alice", "bob", "carol"} {
		ledger.fund("ETH", user, wad("1000"))
		ledger.fund("BTC", user, wad("100"))
	}

	return &testEnv{engine: eng, ledger: ledger, journal: journal, eth: eth, btc: btc}
}

func TestConstructionRejectsMismatchedLists(t *testing.T) {
	_, err := core.NewRegistry([]string{"ETH", "BTC"}, []core.PriceFeed{&fakeFeed{}})
	assert.True(t, errors.Is(err, core.ErrFeedMismatch))
}

func TestDeposit(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	require.NoError(t, env.engine.Deposit(ctx, "alice", "ETH", wad("10")))

	assert.True(t, env.engine.CollateralOf(ctx, "alice", "ETH").Equal(wad("10")))
	assert.True(t, env.ledger.balance("ETH", custody).Equal(wad("10")))
	assert.True(t, env.ledger.balance("ETH", "alice").Equal(wad("990")))

	vault, err := env.engine.Vault(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, vault.CollateralUsd.Equal(wad("40000")), vault.CollateralUsd.String())
	assert.True(t, vault.HealthFactor.Equal(solvency.MaxHealthFactor))

	require.Len(t, env.journal.events, 1)
	assert.Equal(t, core.EventTypeDeposit, env.journal.events[0].Type)
}

func TestDepositValidation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	assert.True(t, errors.Is(env.engine.Deposit(ctx, "alice", "ETH", decimal.Zero), core.ErrZeroAmount))
	assert.True(t, errors.Is(env.engine.Deposit(ctx, "alice", "DOGE", wad("1")), core.ErrTokenNotAllowed))
}

func TestDepositRollsBackOnTransferFailure(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	env.ledger.transferErr = errors.New("ledger offline")
	err := env.engine.Deposit(ctx, "alice", "ETH", wad("10"))
	assert.True(t, errors.Is(err, core.ErrDepositFailed))
	assert.True(t, env.engine.CollateralOf(ctx, "alice", "ETH").IsZero())
	assert.Empty(t, env.journal.events)
}

func TestMint(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	require.NoError(t, env.engine.Deposit(ctx, "alice", "ETH", wad("10")))
	require.NoError(t, env.engine.Mint(ctx, "alice", wad("10000")))

	hf, err := env.engine.HealthFactor(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, hf.Equal(wad("2")), hf.String())
	assert.True(t, env.ledger.balance(stableAsset, "alice").Equal(wad("10000")))
	assert.True(t, env.ledger.supply.Equal(wad("10000")))
}

func TestMintBeyondCapacityRollsBack(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	require.NoError(t, env.engine.Deposit(ctx, "alice", "ETH", wad("10")))

	// $40000 collateral supports at most 20000 minted
	err := env.engine.Mint(ctx, "alice", wad("20001"))
	var broken *core.BrokenHealthFactorError
	require.True(t, errors.As(err, &broken))
	assert.True(t, broken.Factor.LessThan(solvency.MinHealthFactor))

	assert.True(t, env.engine.DebtOf(ctx, "alice").IsZero())
	assert.True(t, env.ledger.balance(stableAsset, "alice").IsZero())

	// the boundary itself is inclusive
	require.NoError(t, env.engine.Mint(ctx, "alice", wad("20000")))
}

func TestRedeemAtBoundary(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	require.NoError(t, env.engine.Deposit(ctx, "alice", "ETH", wad("10")))
	require.NoError(t, env.engine.Mint(ctx, "alice", wad("10000")))

	// leaves exactly 200% collateralization, factor 1.0
	require.NoError(t, env.engine.Redeem(ctx, "alice", "ETH", wad("5")))

	hf, err := env.engine.HealthFactor(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, hf.Equal(solvency.MinHealthFactor), hf.String())

	// one more unit would break the position
	err = env.engine.Redeem(ctx, "alice", "ETH", wad("1"))
	var broken *core.BrokenHealthFactorError
	require.True(t, errors.As(err, &broken))
	assert.True(t, env.engine.CollateralOf(ctx, "alice", "ETH").Equal(wad("5")))
}

func TestRedeemValidation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	require.NoError(t, env.engine.Deposit(ctx, "alice", "ETH", wad("10")))
	assert.True(t, errors.Is(env.engine.Redeem(ctx, "alice", "ETH", wad("11")), core.ErrInsufficientCollateral))
	assert.True(t, errors.Is(env.engine.Redeem(ctx, "alice", "ETH", decimal.Zero), core.ErrZeroAmount))
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	before := env.ledger.balance("ETH", "alice")
	require.NoError(t, env.engine.Deposit(ctx, "alice", "ETH", wad("10")))
	require.NoError(t, env.engine.Redeem(ctx, "alice", "ETH", wad("10")))

	assert.True(t, env.ledger.balance("ETH", "alice").Equal(before))
	assert.True(t, env.engine.CollateralOf(ctx, "alice", "ETH").IsZero())
	assert.True(t, env.ledger.balance("ETH", custody).IsZero())
}

func TestBurn(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	require.NoError(t, env.engine.Deposit(ctx, "alice", "ETH", wad("10")))
	require.NoError(t, env.engine.Mint(ctx, "alice", wad("10000")))
	require.NoError(t, env.engine.Burn(ctx, "alice", wad("4000")))

	assert.True(t, env.engine.DebtOf(ctx, "alice").Equal(wad("6000")))
	assert.True(t, env.ledger.balance(stableAsset, "alice").Equal(wad("6000")))
	assert.True(t, env.ledger.supply.Equal(wad("6000")))

	assert.True(t, errors.Is(env.engine.Burn(ctx, "alice", wad("6001")), core.ErrInsufficientDebt))
}

func TestPriceCrashFreezesPosition(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	require.NoError(t, env.engine.Deposit(ctx, "alice", "ETH", wad("10")))
	require.NoError(t, env.engine.Mint(ctx, "alice", wad("10000")))
	require.NoError(t, env.engine.Redeem(ctx, "alice", "ETH", wad("5")))

	env.eth.price = feedPrice("3500")

	hf, err := env.engine.HealthFactor(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "875000000000000000", hf.String())

	var broken *core.BrokenHealthFactorError
	assert.True(t, errors.As(env.engine.Mint(ctx, "alice", wad("1")), &broken))
	assert.True(t, errors.As(env.engine.Redeem(ctx, "alice", "ETH", wad("1")), &broken))

	// burning the debt down is still allowed
	require.NoError(t, env.engine.Burn(ctx, "alice", wad("3000")))
}

func TestStalePriceHaltsOperations(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	require.NoError(t, env.engine.Deposit(ctx, "alice", "ETH", wad("10")))
	require.NoError(t, env.engine.Mint(ctx, "alice", wad("10000")))

	env.eth.updatedAt = time.Now().Add(-4 * time.Hour)

	var stale *core.StalePriceError
	assert.True(t, errors.As(env.engine.Mint(ctx, "alice", wad("1")), &stale))
	_, err := env.engine.HealthFactor(ctx, "alice")
	assert.True(t, errors.As(err, &stale))

	// deposits need no valuation and still go through
	require.NoError(t, env.engine.Deposit(ctx, "alice", "ETH", wad("1")))
}

func TestDepositAndMint(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	require.NoError(t, env.engine.DepositAndMint(ctx, "alice", "ETH", wad("10"), wad("10000")))
	assert.True(t, env.engine.DebtOf(ctx, "alice").Equal(wad("10000")))

	// a failed mint unwinds the deposit
	before := env.ledger.balance("ETH", "bob")
	err := env.engine.DepositAndMint(ctx, "bob", "ETH", wad("1"), wad("10000"))
	var broken *core.BrokenHealthFactorError
	require.True(t, errors.As(err, &broken))
	assert.True(t, env.engine.CollateralOf(ctx, "bob", "ETH").IsZero())
	assert.True(t, env.ledger.balance("ETH", "bob").Equal(before))
	assert.True(t, env.engine.DebtOf(ctx, "bob").IsZero())
}

func TestRedeemForDebt(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	require.NoError(t, env.engine.DepositAndMint(ctx, "alice", "ETH", wad("10"), wad("10000")))
	require.NoError(t, env.engine.RedeemForDebt(ctx, "alice", "ETH", wad("10"), wad("10000")))

	assert.True(t, env.engine.DebtOf(ctx, "alice").IsZero())
	assert.True(t, env.engine.CollateralOf(ctx, "alice", "ETH").IsZero())
	assert.True(t, env.ledger.balance("ETH", "alice").Equal(wad("1000")))
	assert.True(t, env.ledger.supply.IsZero())
}

func TestRedeemForDebtUnwindsBurn(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	require.NoError(t, env.engine.DepositAndMint(ctx, "alice", "ETH", wad("10"), wad("10000")))

	// redeem step fails on amount, the burn must be unwound
	err := env.engine.RedeemForDebt(ctx, "alice", "ETH", wad("11"), wad("10000"))
	assert.True(t, errors.Is(err, core.ErrInsufficientCollateral))
	assert.True(t, env.engine.DebtOf(ctx, "alice").Equal(wad("10000")))
	assert.True(t, env.ledger.balance(stableAsset, "alice").Equal(wad("10000")))
	assert.True(t, env.ledger.supply.Equal(wad("10000")))
}

func TestGetterTotality(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	// feeds down entirely: zero accounts must still be readable
	env.eth.updatedAt = time.Time{}
	env.btc.updatedAt = time.Time{}

	hf, err := env.engine.HealthFactor(ctx, "nobody")
	require.NoError(t, err)
	assert.True(t, hf.Equal(solvency.MaxHealthFactor))

	vault, err := env.engine.Vault(ctx, "nobody")
	require.NoError(t, err)
	assert.True(t, vault.Debt.IsZero())
	assert.True(t, vault.CollateralUsd.IsZero())
	assert.Empty(t, vault.Positions)

	assert.True(t, env.engine.CollateralOf(ctx, "nobody", "ETH").IsZero())
	assert.True(t, env.engine.DebtOf(ctx, "nobody").IsZero())
	assert.Empty(t, env.engine.Deposits(ctx, "nobody"))
	assert.True(t, env.engine.TotalDeposited(ctx, "ETH").IsZero())
	assert.Empty(t, env.engine.Debtors(ctx))
	assert.Equal(t, []string{"ETH", "BTC"}, env.engine.Assets())

	params := env.engine.RiskParameters()
	assert.True(t, params.MinHealthFactor.Equal(solvency.MinHealthFactor))
	assert.Equal(t, "50", params.LiquidationThreshold.String())
	assert.Equal(t, "10", params.LiquidationBonus.String())
}

func TestHealthFactorMonotonicity(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	require.NoError(t, env.engine.DepositAndMint(ctx, "alice", "ETH", wad("10"), wad("8000")))

	factor := func() decimal.Decimal {
		hf, err := env.engine.HealthFactor(ctx, "alice")
		require.NoError(t, err)
		return hf
	}

	before := factor()
	require.NoError(t, env.engine.Deposit(ctx, "alice", "BTC", wad("1")))
	assert.True(t, factor().GreaterThanOrEqual(before), "deposit never decreases the factor")

	before = factor()
	require.NoError(t, env.engine.Mint(ctx, "alice", wad("100")))
	assert.True(t, factor().LessThanOrEqual(before), "mint never increases the factor")

	before = factor()
	require.NoError(t, env.engine.Redeem(ctx, "alice", "BTC", wad("1")))
	assert.True(t, factor().LessThanOrEqual(before), "redeem never increases the factor")

	before = factor()
	require.NoError(t, env.engine.Burn(ctx, "alice", wad("100")))
	assert.True(t, factor().GreaterThanOrEqual(before), "burn never decreases the factor")
}
