package pricesync

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"anchor/config"
	"anchor/core"
	"anchor/pkg/resthttp"
	"anchor/worker"
)

// Worker polls the upstream oracle endpoint and persists one quote per
// feed. Staleness stays the oracle adapter's call: a dead upstream
// simply stops producing rows and the engine halts on its own.
type Worker struct {
	worker.BaseJob

	endpoint   string
	assets     []config.Asset
	priceStore core.PriceStore
}

type quoteResponse struct {
	Price     string `json:"price"`
	Decimals  int32  `json:"decimals"`
	UpdatedAt int64  `json:"updated_at"`
}

// New new price sync worker
func New(cfg *config.Config, priceStore core.PriceStore) *Worker {
	job := Worker{
		endpoint:   cfg.Oracle.EndPoint,
		assets:     cfg.Assets,
		priceStore: priceStore,
	}

	l, _ := time.LoadLocation(cfg.App.Location)
	job.Cron = cron.New(cron.WithLocation(l))
	spec := fmt.Sprintf("@every %s", cfg.Oracle.Interval)
	job.Cron.AddFunc(spec, job.Tick)
	job.OnWork = func() error {
		return job.onWork(context.Background())
	}

	return &job
}

func (w *Worker) onWork(ctx context.Context) error {
	for _, asset := range w.assets {
		if err := w.syncFeed(ctx, asset); err != nil {
			logrus.WithError(err).WithField("feed", asset.FeedID).Error("sync feed failed")
		}
	}

	return nil
}

func (w *Worker) syncFeed(ctx context.Context, asset config.Asset) error {
	var resp quoteResponse
	url := fmt.Sprintf("%s/feeds/%s/latest", w.endpoint, asset.FeedID)
	if err := resthttp.Get(ctx, url, nil, &resp); err != nil {
		return err
	}

	price, err := decimal.NewFromString(resp.Price)
	if err != nil {
		return fmt.Errorf("bad price %q: %w", resp.Price, err)
	}

	decimals := resp.Decimals
	if decimals == 0 {
		decimals = asset.FeedDecimals
	}

	return w.priceStore.Save(ctx, &core.Quote{
		FeedID:    asset.FeedID,
		Price:     price,
		Decimals:  decimals,
		UpdatedAt: time.Unix(resp.UpdatedAt, 0),
	})
}
