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

// MetricsService encapsulates Prometheus instrumentation for the HTTP layer, the sync
// pipeline, the snapshot store and the background queue.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	syncDuration    *prometheus.HistogramVec
	syncTotal       *prometheus.CounterVec
	rowsMapped      *prometheus.GaugeVec
	alertsOpen      prometheus.Gauge
	storeLatency    *prometheus.HistogramVec
	jobsTotal       *prometheus.CounterVec
	cacheTotal      *prometheus.CounterVec

	syncFailures uint64
	lastSyncUnix int64
}

// MetricsSnapshot is a tiny summary for the sync status endpoint.
type MetricsSnapshot struct {
	SyncFailures uint64    `json:"sync_failures"`
	LastSyncAt   time.Time `json:"last_sync_at,omitempty"`
	Goroutines   int       `json:"goroutines"`
}

// NewMetricsService registers core Prometheus collectors.
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

	syncDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sync_duration_seconds",
		Help:    "Duration of spreadsheet syncs",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60, 120},
	}, []string{"mode", "source"})

	syncTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_runs_total",
		Help: "Sync runs by outcome",
	}, []string{"mode", "source", "outcome"})

	rowsMapped := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "sync_rows_mapped",
		Help: "Records stored per section by the last successful sync",
	}, []string{"section"})

	alertsOpen := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "risk_alerts_actionable",
		Help: "Risk alerts not yet handled",
	})

	storeLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "snapshot_store_seconds",
		Help:    "Latency for snapshot store operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"op", "key"})

	jobsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "background_jobs_total",
		Help: "Background job attempts by type and outcome",
	}, []string{"type", "outcome"})

	cacheTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "report_cache_lookups_total",
		Help: "Report cache lookups by result",
	}, []string{"result"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, syncDuration, syncTotal, rowsMapped, alertsOpen, storeLatency, jobsTotal, cacheTotal, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		syncDuration:    syncDuration,
		syncTotal:       syncTotal,
		rowsMapped:      rowsMapped,
		alertsOpen:      alertsOpen,
		storeLatency:    storeLatency,
		jobsTotal:       jobsTotal,
		cacheTotal:      cacheTotal,
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

// ObserveSync records one sync run and, on success, the per-section record counts.
func (m *MetricsService) ObserveSync(mode, source string, success bool, counts map[string]int, duration time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "failure"
		atomic.AddUint64(&m.syncFailures, 1)
	}
	m.syncDuration.WithLabelValues(mode, source).Observe(duration.Seconds())
	m.syncTotal.WithLabelValues(mode, source, outcome).Inc()
	if success {
		atomic.StoreInt64(&m.lastSyncUnix, time.Now().Unix())
		for section, n := range counts {
			m.rowsMapped.WithLabelValues(section).Set(float64(n))
		}
	}
}

// SetActionableAlerts publishes the current count of unhandled risk alerts.
func (m *MetricsService) SetActionableAlerts(n int) {
	if m == nil {
		return
	}
	m.alertsOpen.Set(float64(n))
}

// ObserveStore tracks snapshot store latency.
func (m *MetricsService) ObserveStore(op, key string, duration time.Duration) {
	if m == nil {
		return
	}
	m.storeLatency.WithLabelValues(op, key).Observe(duration.Seconds())
}

// ObserveJob counts a background job attempt. It matches jobs.Observer.
func (m *MetricsService) ObserveJob(jobType string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.jobsTotal.WithLabelValues(jobType, outcome).Inc()
}

// RecordCacheLookup counts a report cache hit or miss.
func (m *MetricsService) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheTotal.WithLabelValues(result).Inc()
}

// Snapshot returns a small aggregate view.
func (m *MetricsService) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	snap := MetricsSnapshot{
		SyncFailures: atomic.LoadUint64(&m.syncFailures),
		Goroutines:   runtime.NumGoroutine(),
	}
	if ts := atomic.LoadInt64(&m.lastSyncUnix); ts > 0 {
		snap.LastSyncAt = time.Unix(ts, 0).UTC()
	}
	return snap
}
