package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrKriegler/go-eduloan/internal/core"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeApps struct {
	core.ApplicationRepo
	submitted []core.LoanApplication
	limit     int
}

func (f *fakeApps) FindByStatus(_ context.Context, status core.ApplicationStatus, limit int) ([]core.LoanApplication, error) {
	f.limit = limit
	if status != core.ApplicationStatusSubmitted {
		return nil, nil
	}
	return f.submitted, nil
}

type fakeUnderwriting struct {
	core.UnderwritingService
	errs      map[string]error
	processed []string
}

func (f *fakeUnderwriting) ProcessApplication(_ context.Context, appID string) (core.UnderwritingResult, error) {
	f.processed = append(f.processed, appID)
	if err := f.errs[appID]; err != nil {
		return core.UnderwritingResult{}, err
	}
	return core.UnderwritingResult{
		Assessment: core.RiskAssessment{ID: "as-" + appID, Decision: core.DecisionManualReview},
		Offer:      &core.LoanOffer{ID: "of-" + appID, OfferType: core.OfferTypeHybrid},
	}, nil
}

type fakeOffers struct {
	core.OfferService
	mu    sync.Mutex
	calls int
	n     int64
	err   error
}

func (f *fakeOffers) ExpireStale(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.n, f.err
}

func (f *fakeOffers) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type recordingObserver struct {
	mu   sync.Mutex
	runs []string
	errs int
}

func (o *recordingObserver) ObserveWorkerRun(worker string, _ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.runs = append(o.runs, worker)
	if err != nil {
		o.errs++
	}
}

func apps(ids ...string) []core.LoanApplication {
	out := make([]core.LoanApplication, len(ids))
	for i, id := range ids {
		out[i] = core.LoanApplication{ID: id, Status: core.ApplicationStatusSubmitted}
	}
	return out
}

func TestUnderwritingWorker_ContinuesPastApplicationErrors(t *testing.T) {
	repo := &fakeApps{submitted: apps("a1", "a2", "a3")}
	uw := &fakeUnderwriting{errs: map[string]error{"a2": core.ErrApplicationNotFound}}
	w := NewUnderwritingWorker(repo, uw, time.Second, discardLogger(), nil)

	require.NoError(t, w.processSubmitted(context.Background()))
	assert.Equal(t, []string{"a1", "a2", "a3"}, uw.processed)
	assert.Equal(t, batchSize, repo.limit)
}

func TestUnderwritingWorker_StopsOnConfigurationError(t *testing.T) {
	repo := &fakeApps{submitted: apps("a1", "a2")}
	uw := &fakeUnderwriting{errs: map[string]error{"a1": core.ErrNoActiveRules}}
	w := NewUnderwritingWorker(repo, uw, time.Second, discardLogger(), nil)

	err := w.processSubmitted(context.Background())
	assert.ErrorIs(t, err, core.ErrConfiguration)
	assert.Equal(t, []string{"a1"}, uw.processed)
}

func TestUnderwritingWorker_StartStopsOnCancel(t *testing.T) {
	repo := &fakeApps{}
	obs := &recordingObserver{}
	w := NewUnderwritingWorker(repo, &fakeUnderwriting{}, 10*time.Millisecond, discardLogger(), obs)
	assert.Equal(t, "underwriting", w.Name())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}

	obs.mu.Lock()
	defer obs.mu.Unlock()
	assert.NotEmpty(t, obs.runs)
}

func TestExpirySweeper_Sweep(t *testing.T) {
	offers := &fakeOffers{n: 2}
	obs := &recordingObserver{}
	s := NewExpirySweeper(offers, "@every 1m", discardLogger(), obs)

	s.Sweep(context.Background())
	assert.Equal(t, 1, offers.Calls())
	assert.Equal(t, []string{"offer-expiry"}, obs.runs)

	offers.err = errors.New("store down")
	s.Sweep(context.Background())
	assert.Equal(t, 1, obs.errs)
}

func TestExpirySweeper_SkipsCancelledContext(t *testing.T) {
	offers := &fakeOffers{}
	s := NewExpirySweeper(offers, "@every 1m", discardLogger(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.Sweep(ctx)
	assert.Equal(t, 0, offers.Calls())
}

func TestExpirySweeper_Validate(t *testing.T) {
	assert.NoError(t, NewExpirySweeper(&fakeOffers{}, "*/5 * * * *", discardLogger(), nil).Validate())
	assert.NoError(t, NewExpirySweeper(&fakeOffers{}, "@every 15m", discardLogger(), nil).Validate())
	assert.Error(t, NewExpirySweeper(&fakeOffers{}, "every now and then", discardLogger(), nil).Validate())
}

func TestExpirySweeper_StartRunsImmediatelyAndStops(t *testing.T) {
	offers := &fakeOffers{}
	s := NewExpirySweeper(offers, "@every 1h", discardLogger(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return offers.Calls() == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
