package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/homedash/homedash/src/internal/catalog"
)

// Candidate results recorded by RecordImport.
const (
	ResultAccepted = "accepted"
	ResultSkipped  = "skipped"
)

// Collector holds the dashboard metrics on its own registry.
type Collector struct {
	registry *prometheus.Registry

	importsTotal    *prometheus.CounterVec
	candidatesTotal *prometheus.CounterVec
	fileReadErrors  prometheus.Counter
	catalogEntries  *prometheus.GaugeVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewCollector registers the dashboard metrics together with the Go runtime
// and process collectors on a fresh registry.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,
		importsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "homedash_imports_total",
				Help: "Total number of configuration imports by outcome",
			},
			[]string{"outcome"},
		),
		candidatesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "homedash_import_candidates_total",
				Help: "Total number of detected services by merge result",
			},
			[]string{"result"},
		),
		fileReadErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "homedash_file_read_errors_total",
				Help: "Total number of uploaded files that could not be read",
			},
		),
		catalogEntries: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "homedash_catalog_entries",
				Help: "Number of catalog entries by kind and enabled state",
			},
			[]string{"kind", "enabled"},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "homedash_http_requests_total",
				Help: "Total number of API requests",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "homedash_http_request_duration_seconds",
				Help:    "Duration of API requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

// Registry returns the registry the collector writes to.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// RecordImport counts one finished import.
func (c *Collector) RecordImport(outcome string, accepted, skipped int) {
	c.importsTotal.WithLabelValues(outcome).Inc()
	c.candidatesTotal.WithLabelValues(ResultAccepted).Add(float64(accepted))
	c.candidatesTotal.WithLabelValues(ResultSkipped).Add(float64(skipped))
}

// RecordFileReadErrors counts files that failed to read during an import.
func (c *Collector) RecordFileReadErrors(n int) {
	if n > 0 {
		c.fileReadErrors.Add(float64(n))
	}
}

// ObserveCatalog replaces the catalog gauges with counts from entries.
func (c *Collector) ObserveCatalog(entries []catalog.Entry) {
	c.catalogEntries.Reset()
	for _, kind := range []catalog.Kind{catalog.KindLink, catalog.KindService} {
		for _, enabled := range []bool{true, false} {
			c.catalogEntries.WithLabelValues(string(kind), strconv.FormatBool(enabled)).Set(0)
		}
	}
	for _, e := range entries {
		c.catalogEntries.WithLabelValues(string(e.Kind), strconv.FormatBool(e.Enabled)).Inc()
	}
}

// ObserveRequest records one served API request. route is the route pattern,
// not the raw path, to keep label cardinality bounded.
func (c *Collector) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
