package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	pkgerrors "github.com/yogishpa/graph-samples/pkg/errors"
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Graph database metrics
	Queries       *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec

	// Text generation metrics
	Completions        *prometheus.CounterVec
	CompletionDuration *prometheus.HistogramVec

	// Prompt catalog metrics
	CatalogReloads prometheus.Counter
}

// NewCollector creates a collector on its own registry
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "graph_queries_total",
				Help:      "Total number of graph queries by transport and outcome",
			},
			[]string{"transport", "outcome"},
		),
		QueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "graph_query_duration_seconds",
				Help:      "Graph query duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"transport"},
		),
		Completions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "completions_total",
				Help:      "Total number of text completions by purpose and outcome",
			},
			[]string{"purpose", "outcome"},
		),
		CompletionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "completion_duration_seconds",
				Help:      "Text completion duration in seconds",
				Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40},
			},
			[]string{"purpose"},
		),
		CatalogReloads: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "prompt_catalog_reloads_total",
				Help:      "Total number of prompt catalog reloads applied",
			},
		),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.Queries,
		c.QueryDuration,
		c.Completions,
		c.CompletionDuration,
		c.CatalogReloads,
	)
	return c
}

// Registry returns the registry the metrics are registered with
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records one served request
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordQuery records one graph query
func (c *Collector) RecordQuery(transport string, duration time.Duration, err error) {
	c.Queries.WithLabelValues(transport, outcome(err)).Inc()
	c.QueryDuration.WithLabelValues(transport).Observe(duration.Seconds())
}

// RecordCompletion records one text completion
func (c *Collector) RecordCompletion(purpose string, duration time.Duration, err error) {
	c.Completions.WithLabelValues(purpose, outcome(err)).Inc()
	c.CompletionDuration.WithLabelValues(purpose).Observe(duration.Seconds())
}

// RecordCatalogReload records one applied prompt catalog reload
func (c *Collector) RecordCatalogReload() {
	c.CatalogReloads.Inc()
}

// outcome labels an error by its application type
func outcome(err error) string {
	if err == nil {
		return "success"
	}
	if appErr := pkgerrors.GetAppError(err); appErr != nil {
		return string(appErr.Type)
	}
	return "error"
}
