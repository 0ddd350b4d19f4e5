package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService owns the Prometheus registry for the process.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHitRatio   prometheus.Gauge
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	mutations       *prometheus.CounterVec
	pointsAwarded   *prometheus.CounterVec
	activityDropped prometheus.Counter
	userPoints      prometheus.Gauge
	userStreak      prometheus.Gauge

	cacheHitCount  uint64
	cacheMissCount uint64
}

// NewMetricsService registers the collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spark_store_mutations_total",
		Help: "State store mutations by operation and outcome",
	}, []string{"operation", "outcome"})

	pointsAwarded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spark_points_awarded_total",
		Help: "Points awarded by activity kind; deductions are not counted",
	}, []string{"kind"})

	activityDropped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "spark_activity_dropped_total",
		Help: "Activity events dropped because the notifier buffer was full",
	})

	userPoints := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "spark_user_points",
		Help: "Current points balance of the signed-in user",
	})

	userStreak := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "spark_user_streak_days",
		Help: "Current streak of the signed-in user",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses,
		mutations, pointsAwarded, activityDropped, userPoints, userStreak, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheLatency:    cacheLatency,
		cacheWrite:      cacheWrite,
		cacheHitRatio:   cacheHitRatio,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		mutations:       mutations,
		pointsAwarded:   pointsAwarded,
		activityDropped: activityDropped,
		userPoints:      userPoints,
		userStreak:      userStreak,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	if total := hits + misses; total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// RecordMutation counts one store operation. Outcome is applied, noop or error.
func (m *MetricsService) RecordMutation(operation, outcome string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(operation, outcome).Inc()
}

// RecordPoints counts awarded points. Non-positive amounts are ignored.
func (m *MetricsService) RecordPoints(kind string, amount int) {
	if m == nil || amount <= 0 {
		return
	}
	m.pointsAwarded.WithLabelValues(kind).Add(float64(amount))
}

// RecordActivityDropped counts an event the notifier could not buffer.
func (m *MetricsService) RecordActivityDropped() {
	if m == nil {
		return
	}
	m.activityDropped.Inc()
}

// SetUserGauges publishes the current points and streak.
func (m *MetricsService) SetUserGauges(points, streak int) {
	if m == nil {
		return
	}
	m.userPoints.Set(float64(points))
	m.userStreak.Set(float64(streak))
}
