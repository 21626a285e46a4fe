package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/MrKriegler/go-eduloan/internal/core"
)

// ExpirySweeper moves pending offers past their validity window to expired
// on a cron schedule.
type ExpirySweeper struct {
	name   string
	spec   string
	offers core.OfferService
	log    *slog.Logger
	obs    RunObserver
}

func NewExpirySweeper(offers core.OfferService, spec string, log *slog.Logger, obs RunObserver) *ExpirySweeper {
	return &ExpirySweeper{
		name:   "offer-expiry",
		spec:   spec,
		offers: offers,
		log:    log.With("worker", "offer-expiry"),
		obs:    obs,
	}
}

func (s *ExpirySweeper) Name() string {
	return s.name
}

// Validate checks the cron spec so a typo fails at startup.
func (s *ExpirySweeper) Validate() error {
	if _, err := cron.ParseStandard(s.spec); err != nil {
		return fmt.Errorf("offer expiry schedule %q: %w", s.spec, err)
	}
	return nil
}

// Start runs one sweep immediately, then on schedule until ctx is cancelled.
func (s *ExpirySweeper) Start(ctx context.Context) {
	c := cron.New()
	if _, err := c.AddFunc(s.spec, func() { s.Sweep(ctx) }); err != nil {
		s.log.Error("invalid schedule, sweeper disabled", "spec", s.spec, "err", err)
		return
	}

	s.log.Info("worker started", "schedule", s.spec)
	s.Sweep(ctx)
	c.Start()

	<-ctx.Done()
	s.log.Info("worker stopping")
	<-c.Stop().Done()
}

// Sweep expires stale offers once.
func (s *ExpirySweeper) Sweep(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	n, err := s.offers.ExpireStale(ctx)
	if err != nil {
		s.log.Error("worker error", "err", err)
	} else if n > 0 {
		s.log.Info("expired stale offers", "count", n)
	}
	if s.obs != nil {
		s.obs.ObserveWorkerRun(s.name, time.Since(start), err)
	}
}
