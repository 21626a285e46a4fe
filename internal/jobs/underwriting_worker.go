package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/MrKriegler/go-eduloan/internal/core"
)

// batchSize caps how many applications one poll picks up.
const batchSize = 10

// UnderwritingWorker runs submitted applications through underwriting.
type UnderwritingWorker struct {
	BaseWorker
	apps core.ApplicationRepo
	uw   core.UnderwritingService
}

func NewUnderwritingWorker(
	apps core.ApplicationRepo,
	uwSvc core.UnderwritingService,
	interval time.Duration,
	log *slog.Logger,
	obs RunObserver,
) *UnderwritingWorker {
	return &UnderwritingWorker{
		BaseWorker: NewBaseWorker("underwriting", interval, log, obs),
		apps:       apps,
		uw:         uwSvc,
	}
}

// Start begins the worker polling loop.
func (w *UnderwritingWorker) Start(ctx context.Context) {
	w.Poll(ctx, w.processSubmitted)
}

// processSubmitted underwrites the oldest submitted applications. A broken
// rule set stops the batch: every application would fail the same way.
func (w *UnderwritingWorker) processSubmitted(ctx context.Context) error {
	apps, err := w.apps.FindByStatus(ctx, core.ApplicationStatusSubmitted, batchSize)
	if err != nil {
		return err
	}

	if len(apps) == 0 {
		return nil
	}

	w.log.Info("found submitted applications", "count", len(apps))

	for _, app := range apps {
		res, err := w.uw.ProcessApplication(ctx, app.ID)
		if err != nil {
			if errors.Is(err, core.ErrConfiguration) {
				return err
			}
			if errors.Is(err, core.ErrStatusChanged) {
				w.log.Info("application claimed by another run", "app_id", app.ID)
				continue
			}
			w.log.Error("failed to process application",
				"app_id", app.ID,
				"err", err,
			)
			continue
		}

		attrs := []any{
			"app_id", app.ID,
			"assessment_id", res.Assessment.ID,
			"risk_score", res.Assessment.RiskScore,
			"tier", res.Assessment.RiskTier,
			"decision", res.Assessment.Decision,
		}
		if res.Offer != nil {
			attrs = append(attrs, "offer_id", res.Offer.ID, "offer_type", res.Offer.OfferType)
		}
		w.log.Info("underwriting complete", attrs...)
	}

	return nil
}
