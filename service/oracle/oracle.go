package oracle

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"anchor/core"
	"anchor/internal/solvency"
	"anchor/pkg/number"
)

type oracleService struct {
	registry *core.Registry
}

// New new oracle adapter over the registered price feeds
func New(registry *core.Registry) core.OracleAdapter {
	return &oracleService{
		registry: registry,
	}
}

// GetUsdValue values amount of asset in 18-decimal fixed-point USD,
// truncating toward zero.
func (s *oracleService) GetUsdValue(ctx context.Context, asset string, amount decimal.Decimal) (decimal.Decimal, error) {
	price, err := s.normalizedPrice(ctx, asset)
	if err != nil {
		return decimal.Zero, err
	}

	return number.MulDiv(price, amount, solvency.Wad), nil
}

// GetTokenAmountForUsd converts a fixed-point USD amount into asset
// units, truncating toward zero.
func (s *oracleService) GetTokenAmountForUsd(ctx context.Context, asset string, usdAmount decimal.Decimal) (decimal.Decimal, error) {
	price, err := s.normalizedPrice(ctx, asset)
	if err != nil {
		return decimal.Zero, err
	}

	return number.MulDiv(usdAmount, solvency.Wad, price), nil
}

// normalizedPrice fetches the latest quote for asset and scales it from
// feed decimals to 18 decimals. A quote older than the staleness window
// is a hard stop, not retried.
func (s *oracleService) normalizedPrice(ctx context.Context, asset string) (decimal.Decimal, error) {
	feed, ok := s.registry.Feed(asset)
	if !ok {
		return decimal.Zero, core.ErrTokenNotAllowed
	}

	quote, err := feed.LatestQuote(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	if time.Since(quote.UpdatedAt) > solvency.FeedTimeout {
		return decimal.Zero, &core.StalePriceError{Asset: asset, UpdatedAt: quote.UpdatedAt}
	}

	return quote.Price.Shift(18 - quote.Decimals), nil
}
