package sentinel

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"anchor/core"
	"anchor/internal/solvency"
	"anchor/worker"
)

// Worker sweeps indebted accounts and reports the liquidatable ones.
// It only observes; liquidation itself stays a third-party call.
type Worker struct {
	worker.BaseJob

	engine core.Engine
}

// New new liquidation sentinel
func New(location string, engine core.Engine) *Worker {
	job := Worker{
		engine: engine,
	}

	l, _ := time.LoadLocation(location)
	job.Cron = cron.New(cron.WithLocation(l))
	job.Cron.AddFunc("@every 10s", job.Tick)
	job.OnWork = func() error {
		return job.onWork(context.Background())
	}

	return &job
}

func (w *Worker) onWork(ctx context.Context) error {
	for _, account := range w.engine.Debtors(ctx) {
		factor, err := w.engine.HealthFactor(ctx, account)
		if err != nil {
			var stale *core.StalePriceError
			if errors.As(err, &stale) {
				logrus.WithField("asset", stale.Asset).Warn("feed stale, skipping sweep")
				return nil
			}

			logrus.WithError(err).WithField("account", account).Error("health factor failed")
			continue
		}

		if factor.LessThan(solvency.MinHealthFactor) {
			logrus.WithFields(logrus.Fields{
				"account": account,
				"factor":  factor.String(),
			}).Warn("account liquidatable")
		}
	}

	return nil
}
