package core

// ReserveAsset is one registered collateral asset bound to its price feed.
type ReserveAsset struct {
	Symbol       string `json:"symbol"`
	FeedID       string `json:"feed_id"`
	FeedDecimals int32  `json:"feed_decimals"`
}

// Registry is the fixed list of reserve assets accepted as collateral.
// It is built once at construction and never mutated afterwards.
type Registry struct {
	symbols []string
	feeds   map[string]PriceFeed
}

// NewRegistry pairs asset symbols with their price feeds. The two lists
// must have equal length.
func NewRegistry(symbols []string, feeds []PriceFeed) (*Registry, error) {
	if len(symbols) != len(feeds) {
		return nil, ErrFeedMismatch
	}

	r := &Registry{
		symbols: make([]string, len(symbols)),
		feeds:   make(map[string]PriceFeed, len(symbols)),
	}

	copy(r.symbols, symbols)
	for i, symbol := range symbols {
		r.feeds[symbol] = feeds[i]
	}

	return r, nil
}

// Symbols returns the registered asset symbols in construction order.
func (r *Registry) Symbols() []string {
	symbols := make([]string, len(r.symbols))
	copy(symbols, r.symbols)
	return symbols
}

// Feed returns the price feed bound to symbol.
func (r *Registry) Feed(symbol string) (PriceFeed, bool) {
	feed, ok := r.feeds[symbol]
	return feed, ok
}

// Has reports whether symbol is a registered reserve asset.
func (r *Registry) Has(symbol string) bool {
	_, ok := r.feeds[symbol]
	return ok
}
