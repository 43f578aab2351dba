// Package metrics exposes Prometheus collectors for the stats service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/riskibarqy/cricket-stats/internal/platform/cache"
)

const namespace = "cricket_stats"

// Manager owns a private registry so tests and multiple binaries never collide
// on the global one. A nil *Manager is a no-op.
type Manager struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	recomputes        *prometheus.CounterVec
	recomputeDuration *prometheus.HistogramVec
	reviewFlags       prometheus.Counter
	rejections        prometheus.Counter

	jobsPublished *prometheus.CounterVec
	breakerState  *prometheus.GaugeVec
}

// CacheSource is satisfied by platform/cache.Store.
type CacheSource interface {
	Stats() cache.Stats
}

func NewManager() *Manager {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	auto := promauto.With(registry)

	return &Manager{
		registry: registry,
		httpRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status_code"}),
		httpRequestDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		recomputes: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stats",
			Name:      "recomputes_total",
			Help:      "Aggregate recomputes by entity kind and outcome.",
		}, []string{"entity", "outcome"}),
		recomputeDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "stats",
			Name:      "recompute_duration_seconds",
			Help:      "Time spent loading, folding and saving one aggregate.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"entity"}),
		reviewFlags: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stats",
			Name:      "review_flags_total",
			Help:      "Fielding attributions flagged for review.",
		}),
		rejections: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stats",
			Name:      "rejected_contributions_total",
			Help:      "Contributions rejected at the fold boundary.",
		}),
		jobsPublished: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "published_total",
			Help:      "Recompute jobs handed to the queue by outcome.",
		}, []string{"outcome"}),
		breakerState: auto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "resilience",
			Name:      "circuit_breaker_open",
			Help:      "1 when the named circuit breaker is open, 0.5 half-open, 0 closed.",
		}, []string{"name"}),
	}
}

// RegisterCache exposes hit and miss counters of a cache store.
func (m *Manager) RegisterCache(name string, source CacheSource) {
	if m == nil || source == nil {
		return
	}
	labels := prometheus.Labels{"cache": name}
	m.registry.MustRegister(
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "cache",
			Name:        "hits_total",
			Help:        "Cache hits.",
			ConstLabels: labels,
		}, func() float64 { return float64(source.Stats().Hits) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "cache",
			Name:        "misses_total",
			Help:        "Cache misses.",
			ConstLabels: labels,
		}, func() float64 { return float64(source.Stats().Misses) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "cache",
			Name:        "entries",
			Help:        "Entries currently held.",
			ConstLabels: labels,
		}, func() float64 { return float64(source.Stats().Entries) }),
	)
}

func (m *Manager) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func (m *Manager) ObserveRecompute(entity string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.recomputes.WithLabelValues(entity, outcome).Inc()
	m.recomputeDuration.WithLabelValues(entity).Observe(elapsed.Seconds())
}

func (m *Manager) AddReviewFlags(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.reviewFlags.Add(float64(n))
}

func (m *Manager) AddRejections(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.rejections.Add(float64(n))
}

func (m *Manager) ObserveJobPublish(err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.jobsPublished.WithLabelValues(outcome).Inc()
}

// SetBreakerState records a breaker state by name; state is one of
// "closed", "half_open" or "open".
func (m *Manager) SetBreakerState(name, state string) {
	if m == nil {
		return
	}
	value := 0.0
	switch state {
	case "open":
		value = 1
	case "half_open":
		value = 0.5
	}
	m.breakerState.WithLabelValues(name).Set(value)
}

func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
