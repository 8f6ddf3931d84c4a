package price

import (
	"context"
	"errors"

	"anchor/core"
)

// ErrNoQuote no observation stored for the feed yet
var ErrNoQuote = errors.New("no quote for feed")

// Feed exposes one stored feed as a core.PriceFeed. Staleness of the
// served quote is judged by the oracle adapter, not here.
func Feed(store core.PriceStore, feedID string) core.PriceFeed {
	return &storeFeed{
		store:  store,
		feedID: feedID,
	}
}

type storeFeed struct {
	store  core.PriceStore
	feedID string
}

func (f *storeFeed) LatestQuote(ctx context.Context) (*core.Quote, error) {
	return f.store.Latest(ctx, f.feedID)
}
