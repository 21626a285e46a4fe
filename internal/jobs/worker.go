package jobs

import (
	"context"
	"log/slog"
	"time"
)

// Worker defines a background job.
type Worker interface {
	Start(ctx context.Context)
	Name() string
}

// RunObserver is told about every completed run.
type RunObserver interface {
	ObserveWorkerRun(worker string, elapsed time.Duration, err error)
}

// BaseWorker provides common polling infrastructure.
type BaseWorker struct {
	name     string
	interval time.Duration
	log      *slog.Logger
	obs      RunObserver
}

// NewBaseWorker creates a new base worker. obs may be nil.
func NewBaseWorker(name string, interval time.Duration, log *slog.Logger, obs RunObserver) BaseWorker {
	return BaseWorker{
		name:     name,
		interval: interval,
		log:      log.With("worker", name),
		obs:      obs,
	}
}

// Name returns the worker name.
func (w *BaseWorker) Name() string {
	return w.name
}

// Poll runs the work function at regular intervals until context is cancelled.
func (w *BaseWorker) Poll(ctx context.Context, work func(context.Context) error) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info("worker started", "interval", w.interval)

	// Run immediately on start
	w.run(ctx, work)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("worker stopping")
			return
		case <-ticker.C:
			w.run(ctx, work)
		}
	}
}

func (w *BaseWorker) run(ctx context.Context, work func(context.Context) error) {
	start := time.Now()
	err := work(ctx)
	if err != nil {
		w.log.Error("worker error", "err", err)
	}
	if w.obs != nil {
		w.obs.ObserveWorkerRun(w.name, time.Since(start), err)
	}
}
