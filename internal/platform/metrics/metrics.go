// Package metrics exposes Prometheus collectors for the underwriting pipeline.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrKriegler/go-eduloan/internal/core"
)

const namespace = "eduloan"

type Metrics struct {
	registry *prometheus.Registry

	assessments    *prometheus.CounterVec
	riskScore      prometheus.Histogram
	offers         *prometheus.CounterVec
	offerAmount    *prometheus.HistogramVec
	offersExpired  prometheus.Counter
	sponsorMatches *prometheus.CounterVec
	readiness      *prometheus.CounterVec

	workerRuns     *prometheus.CounterVec
	workerDuration *prometheus.HistogramVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New registers every collector on a private registry, alongside the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	auto := promauto.With(reg)

	return &Metrics{
		registry: reg,
		assessments: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "risk_assessments_total",
			Help:      "Risk assessments computed, by tier and decision.",
		}, []string{"tier", "decision"}),
		riskScore: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "risk_score",
			Help:      "Distribution of composite risk scores.",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
		offers: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offers_generated_total",
			Help:      "Offers generated, by offer type.",
		}, []string{"offer_type"}),
		offerAmount: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "offer_amount_gbp",
			Help:      "Offered principal in GBP.",
			Buckets:   []float64{2500, 5000, 10000, 15000, 25000, 35000, 50000},
		}, []string{"offer_type"}),
		offersExpired: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offers_expired_total",
			Help:      "Pending offers moved to expired by the sweeper.",
		}),
		sponsorMatches: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sponsor_matches_total",
			Help:      "Sponsor match lookups, by result.",
		}, []string{"result"}),
		readiness: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "credit_readiness_checks_total",
			Help:      "Credit readiness checks, by tier.",
		}, []string{"tier"}),
		workerRuns: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worker_runs_total",
			Help:      "Background worker runs, by worker and result.",
		}, []string{"worker", "result"}),
		workerDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "worker_run_duration_seconds",
			Help:      "Duration of background worker runs.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"worker"}),
		httpRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by route, method and status code.",
		}, []string{"route", "method", "status_code"}),
		httpDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveAssessment(a core.RiskAssessment) {
	if m == nil {
		return
	}
	m.assessments.WithLabelValues(string(a.RiskTier), string(a.Decision)).Inc()
	m.riskScore.Observe(float64(a.RiskScore))
}

func (m *Metrics) ObserveOffer(o core.LoanOffer) {
	if m == nil {
		return
	}
	m.offers.WithLabelValues(string(o.OfferType)).Inc()
	m.offerAmount.WithLabelValues(string(o.OfferType)).Observe(o.LoanAmount)
}

func (m *Metrics) AddExpiredOffers(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.offersExpired.Add(float64(n))
}

func (m *Metrics) ObserveSponsorMatch(matched bool) {
	if m == nil {
		return
	}
	result := "none"
	if matched {
		result = "matched"
	}
	m.sponsorMatches.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveReadiness(tier core.CreditTier) {
	if m == nil {
		return
	}
	m.readiness.WithLabelValues(string(tier)).Inc()
}

func (m *Metrics) ObserveWorkerRun(worker string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.workerRuns.WithLabelValues(worker, result).Inc()
	m.workerDuration.WithLabelValues(worker).Observe(elapsed.Seconds())
}

// Middleware records request counts and latency by chi route pattern, so
// path parameters do not explode label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.httpRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
