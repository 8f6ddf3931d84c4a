package cmd

import (
	"github.com/fox-one/pkg/store/db"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"anchor/config"
	"anchor/core"
	engineservice "anchor/service/engine"
	oracleservice "anchor/service/oracle"
	"anchor/store/event"
	"anchor/store/price"
	"anchor/store/wallet"
)

func provideConfig() *config.Config {
	return &cfg
}

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func providePriceStore(database *db.DB) core.PriceStore {
	return price.Cache(price.New(database), cfg.Oracle.CacheExp)
}

func provideWalletStore(database *db.DB) core.WalletStore {
	return wallet.New(database, cfg.App.CustodyID)
}

func provideEventStore(database *db.DB) core.EventStore {
	return event.New(database)
}

func provideRegistry(priceStore core.PriceStore) *core.Registry {
	symbols := make([]string, len(cfg.Assets))
	feeds := make([]core.PriceFeed, len(cfg.Assets))
	for i, asset := range cfg.Assets {
		symbols[i] = asset.Symbol
		feeds[i] = price.Feed(priceStore, asset.FeedID)
	}

	registry, err := core.NewRegistry(symbols, feeds)
	if err != nil {
		panic(err)
	}

	return registry
}

func provideEngine(registry *core.Registry, walletStore core.WalletStore, events core.EventStore) core.Engine {
	return engineservice.New(
		registry,
		oracleservice.New(registry),
		wallet.StableToken(walletStore, cfg.App.StableSymbol),
		walletStore,
		events,
		cfg.App.CustodyID,
	)
}

func provideJetStream() jetstream.JetStream {
	nc, err := nats.Connect(cfg.Nats.URL)
	if err != nil {
		panic(err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		panic(err)
	}

	return js
}
