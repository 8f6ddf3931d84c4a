package worker

import (
	"context"

	"github.com/robfig/cron/v3"
)

// Worker long running job
type Worker interface {
	Run(ctx context.Context) error
}

type OnWork func() error

// BaseJob runs OnWork on a cron schedule, skipping a tick while the
// previous one is still going.
type BaseJob struct {
	Cron      *cron.Cron
	IsRunning bool
	OnWork    OnWork
}

func (job *BaseJob) Run(ctx context.Context) error {
	job.Cron.Start()
	<-ctx.Done()
	<-job.Cron.Stop().Done()
	return ctx.Err()
}

// Tick is registered with the cron schedule by the concrete worker.
func (job *BaseJob) Tick() {
	if job.IsRunning {
		return
	}

	job.IsRunning = true
	_ = job.OnWork()
	job.IsRunning = false
}
