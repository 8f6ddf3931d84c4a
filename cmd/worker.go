package cmd

import (
	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"anchor/worker"
	"anchor/worker/publisher"
	"anchor/worker/pricesync"
	"anchor/worker/sentinel"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "anchor job worker",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		database := provideDatabase()
		defer database.Close()

		priceStore := providePriceStore(database)
		walletStore := provideWalletStore(database)
		eventStore := provideEventStore(database)
		registry := provideRegistry(priceStore)
		engine := provideEngine(registry, walletStore, eventStore)

		js := provideJetStream()
		if err := publisher.EnsureStream(ctx, js); err != nil {
			panic(err)
		}

		workers := []worker.Worker{
			pricesync.New(provideConfig(), priceStore),
			sentinel.New(cfg.App.Location, engine),
			publisher.New(js, eventStore),
		}

		g, ctx := errgroup.WithContext(ctx)
		for _, w := range workers {
			w := w
			g.Go(func() error {
				return w.Run(ctx)
			})
		}

		if err := g.Wait(); err != nil {
			log.WithError(err).Error("worker aborted")
		}
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
