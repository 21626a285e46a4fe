package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/MrKriegler/go-eduloan/docs"
	"github.com/MrKriegler/go-eduloan/internal/core"
	transporthttp "github.com/MrKriegler/go-eduloan/internal/http"
	"github.com/MrKriegler/go-eduloan/internal/http/handlers"
	"github.com/MrKriegler/go-eduloan/internal/http/health"
	"github.com/MrKriegler/go-eduloan/internal/jobs"
	"github.com/MrKriegler/go-eduloan/internal/middleware"
	"github.com/MrKriegler/go-eduloan/internal/notify"
	"github.com/MrKriegler/go-eduloan/internal/platform/config"
	"github.com/MrKriegler/go-eduloan/internal/platform/logging"
	"github.com/MrKriegler/go-eduloan/internal/platform/metrics"
	"github.com/MrKriegler/go-eduloan/internal/rules"
	"github.com/MrKriegler/go-eduloan/internal/store"
)

func main() {
	cfg := config.MustLoad()
	log := logging.New(cfg.Env, cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("api exited", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	docs.SwaggerInfo.Host = "localhost:" + cfg.Port

	// 1) Storage
	backend, err := store.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := backend.Close(closeCtx); err != nil {
			log.Warn("close store", "err", err)
		}
	}()

	// 2) Rules, notifications, metrics
	ruleSource := ruleSourceFor(cfg, log)
	notifier, err := notifierFor(ctx, cfg, log)
	if err != nil {
		return err
	}
	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	// 3) Services
	appSvc := core.NewApplicationService(backend.Apps, notifier)
	uwSvc := metrics.InstrumentUnderwriting(
		core.NewUnderwritingService(ruleSource, backend.Apps, backend.Assessments, backend.Offers, notifier), m)
	offerSvc := metrics.InstrumentOffers(core.NewOfferService(backend.Offers, backend.Apps, notifier), m)
	sponsorSvc := metrics.InstrumentSponsors(core.NewSponsorService(backend.Sponsors, backend.Apps, notifier), m)

	// 4) Workers
	var obs jobs.RunObserver
	if m != nil {
		obs = m
	}
	sweeper := jobs.NewExpirySweeper(offerSvc, cfg.OfferExpiryCron, log, obs)
	if err := sweeper.Validate(); err != nil {
		return err
	}
	workers := []jobs.Worker{
		jobs.NewUnderwritingWorker(backend.Apps, uwSvc, time.Duration(cfg.WorkerIntervalSec)*time.Second, log, obs),
		sweeper,
	}

	var wg sync.WaitGroup
	for _, w := range workers {
		wg.Add(1)
		go func(w jobs.Worker) {
			defer wg.Done()
			w.Start(ctx)
		}(w)
	}

	// 5) HTTP
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPM, time.Minute)
	limiter.StartWithContext(ctx)

	var readinessObs handlers.ReadinessObserver
	if m != nil {
		readinessObs = m
	}
	router := transporthttp.NewRouter(transporthttp.Deps{
		Mounts: []handlers.Mountable{
			handlers.NewApplicationHandler(appSvc, log),
			handlers.NewUnderwritingHandler(uwSvc, log),
			handlers.NewOfferHandler(offerSvc, log),
			handlers.NewSponsorHandler(sponsorSvc, log),
			handlers.NewCreditReadinessHandler(readinessObs, log),
		},
		Health:         health.New(log, backend, 2*time.Second),
		Metrics:        m,
		RateLimiter:    limiter,
		Log:            log,
		APIKey:         cfg.APIKey,
		AllowedOrigins: cfg.AllowedOrigins,
		RequestTimeout: time.Duration(cfg.HTTPRequestTimeoutSec) * time.Second,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTPReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTPWriteTimeoutSec) * time.Second,
		IdleTimeout:  time.Duration(cfg.HTTPIdleTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr, "env", cfg.Env, "db", cfg.DBType)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// 6) Wait for a signal or a server failure, then drain
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			stop()
			wg.Wait()
			return fmt.Errorf("server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("server shutdown", "err", err)
	}
	stop()
	wg.Wait()
	log.Info("shutdown complete")
	return nil
}

func ruleSourceFor(cfg *config.Config, log *slog.Logger) core.RuleSource {
	if _, err := os.Stat(cfg.RulesFile); err != nil {
		log.Warn("rule file not found, using built-in rules", "path", cfg.RulesFile)
		return rules.Defaults()
	}
	log.Info("loading underwriting rules", "path", cfg.RulesFile)
	return rules.NewFileSource(cfg.RulesFile)
}

func notifierFor(ctx context.Context, cfg *config.Config, log *slog.Logger) (core.Notifier, error) {
	channels := notify.Multi{notify.NewLogNotifier(log)}
	if cfg.Notifier == "ses" {
		sesNotifier, err := notify.NewSESNotifierFromRegion(ctx, cfg.SESRegion, cfg.SESFromAddress)
		if err != nil {
			return nil, fmt.Errorf("ses notifier: %w", err)
		}
		channels = append(channels, sesNotifier)
	}
	return notify.NewBestEffort(channels, log), nil
}
