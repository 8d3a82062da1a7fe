package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics (graph explorer server)
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Graph query metrics
	GraphQueriesTotal    *prometheus.CounterVec
	GraphQueryDuration   *prometheus.HistogramVec
	GraphCyclesDetected  *prometheus.CounterVec
	GraphQueryResultSize *prometheus.HistogramVec

	// Cache metrics
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter

	// Snapshot metrics
	WorkspacesTotal prometheus.Gauge
	EdgesTotal      prometheus.Gauge
	GraphReloads    *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "modular_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "modular_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		GraphQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "modular_graph_queries_total",
				Help: "Total number of dependency graph queries",
			},
			[]string{"operation", "status"},
		),
		GraphQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "modular_graph_query_duration_seconds",
				Help:    "Dependency graph query duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"operation"},
		),
		GraphCyclesDetected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "modular_graph_cycles_detected_total",
				Help: "Total number of queries rejected because of a dependency cycle",
			},
			[]string{"operation"},
		),
		GraphQueryResultSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "modular_graph_query_result_size",
				Help:    "Number of workspaces returned by a graph query",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
			[]string{"operation"},
		),

		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "modular_graph_cache_hits_total",
				Help: "Total number of traversal cache hits",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "modular_graph_cache_misses_total",
				Help: "Total number of traversal cache misses",
			},
		),

		WorkspacesTotal: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "modular_graph_workspaces",
				Help: "Number of workspaces in the current graph snapshot",
			},
		),
		EdgesTotal: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "modular_graph_edges",
				Help: "Number of dependency edges in the current graph snapshot",
			},
		),
		GraphReloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "modular_graph_reloads_total",
				Help: "Total number of graph snapshot reloads",
			},
			[]string{"status"},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.GraphQueriesTotal,
		m.GraphQueryDuration,
		m.GraphCyclesDetected,
		m.GraphQueryResultSize,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.WorkspacesTotal,
		m.EdgesTotal,
		m.GraphReloads,
	)

	return m
}

// ObserveQuery records the outcome of one graph query
func (m *Metrics) ObserveQuery(operation string, start time.Time, resultSize int, err error, cycle bool) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.GraphQueriesTotal.WithLabelValues(operation, status).Inc()
	m.GraphQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if cycle {
		m.GraphCyclesDetected.WithLabelValues(operation).Inc()
	}
	if err == nil {
		m.GraphQueryResultSize.WithLabelValues(operation).Observe(float64(resultSize))
	}
}

// SetGraphSize records the size of the current snapshot
func (m *Metrics) SetGraphSize(workspaces, edges int) {
	if m == nil {
		return
	}
	m.WorkspacesTotal.Set(float64(workspaces))
	m.EdgesTotal.Set(float64(edges))
}

// RecordCacheHit counts one cache hit
func (m *Metrics) RecordCacheHit() {
	if m == nil {
		return
	}
	m.CacheHitsTotal.Inc()
}

// RecordCacheMiss counts one cache miss
func (m *Metrics) RecordCacheMiss() {
	if m == nil {
		return
	}
	m.CacheMissesTotal.Inc()
}

// RecordReload counts one snapshot reload
func (m *Metrics) RecordReload(err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.GraphReloads.WithLabelValues(status).Inc()
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// HTTPMetricsMiddleware instruments HTTP requests with Prometheus metrics.
// routeName maps a request to a low-cardinality label; nil uses the URL path.
func HTTPMetricsMiddleware(metrics *Metrics, routeName func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			route := r.URL.Path
			if routeName != nil {
				route = routeName(r)
			}
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rw.statusCode)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}

// MetricsHandler serves the registry in the Prometheus exposition format
func MetricsHandler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
