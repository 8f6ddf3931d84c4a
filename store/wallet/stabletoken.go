package wallet

import (
	"context"

	"github.com/shopspring/decimal"

	"anchor/core"
)

// StableToken binds one asset of the wallet store into the asset-less
// synthetic-token view the engine consumes.
func StableToken(store core.WalletStore, asset string) core.StableTokenLedger {
	return &stableToken{
		store: store,
		asset: asset,
	}
}

type stableToken struct {
	store core.WalletStore
	asset string
}

func (t *stableToken) Mint(ctx context.Context, to string, amount decimal.Decimal) error {
	return t.store.Mint(ctx, t.asset, to, amount)
}

func (t *stableToken) Burn(ctx context.Context, from string, amount decimal.Decimal) error {
	return t.store.Burn(ctx, t.asset, from, amount)
}

func (t *stableToken) Transfer(ctx context.Context, from, to string, amount decimal.Decimal) error {
	return t.store.Transfer(ctx, t.asset, from, to, amount)
}

func (t *stableToken) TransferFrom(ctx context.Context, from, to string, amount decimal.Decimal) error {
	return t.store.TransferFrom(ctx, t.asset, from, to, amount)
}

func (t *stableToken) BalanceOf(ctx context.Context, user string) (decimal.Decimal, error) {
	return t.store.BalanceOf(ctx, t.asset, user)
}

func (t *stableToken) TotalSupply(ctx context.Context) (decimal.Decimal, error) {
	return t.store.TotalSupply(ctx, t.asset)
}

func (t *stableToken) Allowance(ctx context.Context, owner, spender string) (decimal.Decimal, error) {
	return t.store.AllowanceOf(ctx, owner, spender, t.asset)
}
