package price

import (
	"context"
	"time"

	"github.com/bluele/gcache"
	"golang.org/x/sync/singleflight"

	"anchor/core"
)

// Cache wraps a price store with a short-lived read cache. The engine
// values every deposit of an account on each health check, so the same
// feed gets read several times per operation; a few seconds of caching
// collapses those reads without touching the staleness contract, since
// the cached quote keeps its own UpdatedAt.
func Cache(store core.PriceStore, exp time.Duration) core.PriceStore {
	return &cachePriceStore{
		PriceStore: store,
		cache:      gcache.New(64).LRU().Build(),
		exp:        exp,
		sf:         &singleflight.Group{},
	}
}

type cachePriceStore struct {
	core.PriceStore
	cache gcache.Cache
	exp   time.Duration
	sf    *singleflight.Group
}

func (s *cachePriceStore) Save(ctx context.Context, quote *core.Quote) error {
	if err := s.PriceStore.Save(ctx, quote); err != nil {
		return err
	}

	s.cache.Remove(quote.FeedID)
	return nil
}

func (s *cachePriceStore) Latest(ctx context.Context, feedID string) (*core.Quote, error) {
	if v, err := s.cache.Get(feedID); err == nil {
		if quote, ok := v.(*core.Quote); ok {
			return quote, nil
		}
	}

	v, err, _ := s.sf.Do(feedID, func() (interface{}, error) {
		quote, err := s.PriceStore.Latest(ctx, feedID)
		if err != nil {
			return nil, err
		}

		_ = s.cache.SetWithExpire(feedID, quote, s.exp)
		return quote, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*core.Quote), nil
}
