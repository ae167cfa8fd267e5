package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"hangovr/internal/structures"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)
	IncRankingsTotal()
	IncSanitizedFields(field string)
	AddSessionsPruned(n int)
}

// PopulationGauge exposes the sizes reported as gauges.
type PopulationGauge interface {
	PopulationSize() int
	SessionCount() int
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram
	rankingsTotal       prometheus.Counter
	sanitizedFields     *prometheus.CounterVec
	sessionsPruned      prometheus.Counter
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncRankingsTotal() {
	m.rankingsTotal.Inc()
}

func (m *MetricsProvider) IncSanitizedFields(field string) {
	m.sanitizedFields.WithLabelValues(field).Inc()
}

func (m *MetricsProvider) AddSessionsPruned(n int) {
	m.sessionsPruned.Add(float64(n))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config, gauge PopulationGauge) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hangovr_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hangovr_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hangovr_cache_hits_total",
			Help: "Total number of result cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hangovr_cache_misses_total",
			Help: "Total number of result cache misses",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "hangovr_persistence_duration_seconds",
			Help:    "Duration of population snapshot writes in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		rankingsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hangovr_rankings_total",
			Help: "Total number of computed rankings",
		}),

		sanitizedFields: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hangovr_sanitized_fields_total",
			Help: "Out-of-range input fields replaced with random values",
		}, []string{"field"}),

		sessionsPruned: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hangovr_sessions_pruned_total",
			Help: "Idle sessions dropped by the pruner",
		}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "hangovr_population_size",
		Help: "Number of peer records in the population",
	}, func() float64 {
		return float64(gauge.PopulationSize())
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "hangovr_sessions_active",
		Help: "Number of in-progress intake sessions",
	}, func() float64 {
		return float64(gauge.SessionCount())
	})

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) IncRankingsTotal()                                {}
func (n *noopMetrics) IncSanitizedFields(_ string)                      {}
func (n *noopMetrics) AddSessionsPruned(_ int)                          {}
